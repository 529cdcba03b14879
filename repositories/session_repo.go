package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// sessionRepository implementa SessionRepository su una tabella a riga singola
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository crea una nuova istanza di SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// SaveToken persiste il token corrente sostituendo il precedente
func (r *sessionRepository) SaveToken(ctx context.Context, token, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SessionEntity{}).Error; err != nil {
			return fmt.Errorf("errore pulizia sessioni precedenti: %w", err)
		}
		session := models.SessionEntity{Token: token, UserID: userID}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("errore salvataggio sessione: %w", err)
		}
		return nil
	})
}

// LoadToken recupera il token persistito più recente
func (r *sessionRepository) LoadToken(ctx context.Context) (string, error) {
	var session models.SessionEntity
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("nessuna sessione persistita")
		}
		return "", err
	}
	return session.Token, nil
}

// ClearToken elimina ogni token persistito
func (r *sessionRepository) ClearToken(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.SessionEntity{}).Error
}
