package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"binary-options-terminal/models"
)

// notificationRepository implementa NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository crea una nuova istanza di NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Set imposta una chiave di notifica (upsert sulla chiave)
func (r *notificationRepository) Set(ctx context.Context, key, value string) error {
	entry := models.NotificationEntity{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// Get recupera il valore di una chiave (stringa vuota se assente)
func (r *notificationRepository) Get(ctx context.Context, key string) (string, error) {
	var entry models.NotificationEntity
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return entry.Value, nil
}

// GetAll recupera tutte le voci
func (r *notificationRepository) GetAll(ctx context.Context) ([]*models.NotificationEntity, error) {
	var entries []*models.NotificationEntity
	err := r.db.WithContext(ctx).Order("key ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
