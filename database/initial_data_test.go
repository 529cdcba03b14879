package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"binary-options-terminal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitializeDatabaseWithData(&Config{
		FilePath: filepath.Join(t.TempDir(), "terminal_test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}

func TestInitializeDatabaseWithDataSeedsBucketsAndStatuses(t *testing.T) {
	db := openTestDB(t)

	var bucketCount int64
	require.NoError(t, db.Model(&models.ExpirationBucket{}).Count(&bucketCount).Error)
	require.EqualValues(t, 6, bucketCount)

	var statusCount int64
	require.NoError(t, db.Model(&models.TradeStatusEntity{}).Count(&statusCount).Error)
	require.EqualValues(t, 3, statusCount)

	var bucket models.ExpirationBucket
	require.NoError(t, db.Where("label = ?", "300s").First(&bucket).Error)
	require.Equal(t, 300, bucket.Seconds)
	require.Equal(t, 80, bucket.Percentage)
}

func TestSeedingIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	// Un secondo passaggio di seeding non deve duplicare nulla
	require.NoError(t, InitializeTradeStatuses(db))
	require.NoError(t, InitializeExpirationBuckets(db))

	var bucketCount int64
	require.NoError(t, db.Model(&models.ExpirationBucket{}).Count(&bucketCount).Error)
	require.EqualValues(t, 6, bucketCount)

	var statusCount int64
	require.NoError(t, db.Model(&models.TradeStatusEntity{}).Count(&statusCount).Error)
	require.EqualValues(t, 3, statusCount)
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, HealthCheck(db))
}
