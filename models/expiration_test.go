package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDefaultExpirationBucketsTable(t *testing.T) {
	buckets := DefaultExpirationBuckets()
	require.Len(t, buckets, 6)

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	require.Equal(t, []string{"30s", "60s", "120s", "180s", "240s", "300s"}, labels)
}

func TestValidateAmountBoundaries(t *testing.T) {
	bucket, found := FindExpirationBucket("60s")
	require.True(t, found)

	// Minimo incluso
	require.Error(t, bucket.ValidateAmount(decimal.NewFromInt(499)))
	require.NoError(t, bucket.ValidateAmount(decimal.NewFromInt(500)))

	// Massimo incluso
	require.NoError(t, bucket.ValidateAmount(decimal.NewFromInt(5000)))
	require.Error(t, bucket.ValidateAmount(decimal.NewFromInt(5001)))
}

func TestEstimatedIncome(t *testing.T) {
	bucket, found := FindExpirationBucket("30s")
	require.True(t, found)
	require.Equal(t, 20, bucket.Percentage)

	income := bucket.EstimatedIncome(decimal.NewFromInt(1000))
	require.True(t, income.Equal(decimal.NewFromInt(200)), "atteso 200, ottenuto %s", income)
}

func TestBucketDuration(t *testing.T) {
	bucket, found := FindExpirationBucket("300s")
	require.True(t, found)
	require.Equal(t, 5*time.Minute, bucket.Duration())
}

func TestFindExpirationBucketUnknown(t *testing.T) {
	_, found := FindExpirationBucket("45s")
	require.False(t, found)
}
