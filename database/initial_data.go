package database

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// InitializeTradeStatuses inserisce i dati iniziali per gli stati dei trade
func InitializeTradeStatuses(db *gorm.DB) error {
	ctx := context.Background()

	tradeStatuses := []models.TradeStatusEntity{
		{
			StatusName:  string(models.TradeStatusPending),
			Description: "Trade inviato al backend e in attesa di scadenza",
			IsActive:    true,
		},
		{
			StatusName:  string(models.TradeStatusCompleted),
			Description: "Trade liquidato dal backend a fine countdown",
			IsActive:    true,
		},
		{
			StatusName:  string(models.TradeStatusCancelled),
			Description: "Trade annullato prima della liquidazione",
			IsActive:    true,
		},
	}

	for _, status := range tradeStatuses {
		var existing models.TradeStatusEntity
		err := db.WithContext(ctx).Where("status_name = ?", status.StatusName).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			if err := db.WithContext(ctx).Create(&status).Error; err != nil {
				return fmt.Errorf("failed to create trade status %s: %w", status.StatusName, err)
			}
			log.Printf("Created trade status: %s", status.StatusName)
		} else if err != nil {
			return fmt.Errorf("failed to check existing trade status %s: %w", status.StatusName, err)
		} else if existing.Description != status.Description || existing.IsActive != status.IsActive {
			existing.Description = status.Description
			existing.IsActive = status.IsActive
			if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update trade status %s: %w", status.StatusName, err)
			}
			log.Printf("Updated trade status: %s", status.StatusName)
		}
	}

	log.Println("Trade statuses initialized successfully")
	return nil
}

// InitializeExpirationBuckets inserisce la tabella fissa delle scadenze.
// I sei bucket sono immutabili: il seeding aggiorna percentuali e limiti se
// il database locale è rimasto indietro.
func InitializeExpirationBuckets(db *gorm.DB) error {
	ctx := context.Background()

	for _, bucket := range models.DefaultExpirationBuckets() {
		var existing models.ExpirationBucket
		err := db.WithContext(ctx).Where("label = ?", bucket.Label).First(&existing).Error

		if err == gorm.ErrRecordNotFound {
			if err := db.WithContext(ctx).Create(&bucket).Error; err != nil {
				return fmt.Errorf("failed to create expiration bucket %s: %w", bucket.Label, err)
			}
			log.Printf("Created expiration bucket: %s", bucket.Label)
		} else if err != nil {
			return fmt.Errorf("failed to check existing expiration bucket %s: %w", bucket.Label, err)
		} else if existing.Percentage != bucket.Percentage ||
			!existing.MinAmount.Equal(bucket.MinAmount) ||
			!existing.MaxAmount.Equal(bucket.MaxAmount) {
			existing.Seconds = bucket.Seconds
			existing.Percentage = bucket.Percentage
			existing.MinAmount = bucket.MinAmount
			existing.MaxAmount = bucket.MaxAmount
			if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update expiration bucket %s: %w", bucket.Label, err)
			}
			log.Printf("Updated expiration bucket: %s", bucket.Label)
		}
	}

	log.Println("Expiration buckets initialized successfully")
	return nil
}

// InitializeDatabaseWithData inizializza il database con connessione,
// migrazioni e dati iniziali
func InitializeDatabaseWithData(config *Config) (*gorm.DB, error) {
	db, err := InitializeDatabase(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := InitializeTradeStatuses(db); err != nil {
		return nil, fmt.Errorf("failed to initialize trade statuses: %w", err)
	}

	if err := InitializeExpirationBuckets(db); err != nil {
		return nil, fmt.Errorf("failed to initialize expiration buckets: %w", err)
	}

	return db, nil
}
