package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// tradeRepository implementa TradeRepository
type tradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository crea una nuova istanza di TradeRepository
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

// Create crea una nuova operazione in cache
func (r *tradeRepository) Create(ctx context.Context, trade *models.TradeRecord) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

// GetByReferenceID recupera un'operazione per reference id
func (r *tradeRepository) GetByReferenceID(ctx context.Context, referenceID string) (*models.TradeRecord, error) {
	var trade models.TradeRecord
	err := r.db.WithContext(ctx).Where("reference_id = ?", referenceID).First(&trade).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// GetAll recupera tutte le operazioni in cache, più recenti per prime
func (r *tradeRepository) GetAll(ctx context.Context, limit, offset int) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	query := r.db.WithContext(ctx)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Order("created_at DESC").Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// GetByPair recupera le operazioni di una coppia
func (r *tradeRepository) GetByPair(ctx context.Context, pair string, limit, offset int) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	query := r.db.WithContext(ctx).Where("trade_pair = ?", pair)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Order("created_at DESC").Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// GetByStatus recupera le operazioni in uno stato
func (r *tradeRepository) GetByStatus(ctx context.Context, status models.TradeStatus, limit, offset int) ([]*models.TradeRecord, error) {
	var trades []*models.TradeRecord
	query := r.db.WithContext(ctx).Where("status = ?", status)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Order("created_at DESC").Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// ReplaceAll sostituisce l'intera cache con l'elenco scaricato dal backend
func (r *tradeRepository) ReplaceAll(ctx context.Context, trades []models.TradeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TradeRecord{}).Error; err != nil {
			return fmt.Errorf("errore pulizia cache operazioni: %w", err)
		}
		if len(trades) == 0 {
			return nil
		}
		if err := tx.Create(&trades).Error; err != nil {
			return fmt.Errorf("errore ricarica cache operazioni: %w", err)
		}
		return nil
	})
}

// Count restituisce il numero di operazioni in cache
func (r *tradeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TradeRecord{}).Count(&count).Error
	return count, err
}
