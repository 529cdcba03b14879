package repositories

import (
	"context"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// balanceAuditRepository implementa BalanceAuditRepository
type balanceAuditRepository struct {
	db *gorm.DB
}

// NewBalanceAuditRepository crea una nuova istanza di BalanceAuditRepository
func NewBalanceAuditRepository(db *gorm.DB) BalanceAuditRepository {
	return &balanceAuditRepository{db: db}
}

// Create registra una variazione di saldo
func (r *balanceAuditRepository) Create(ctx context.Context, audit *models.BalanceAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// GetByReferenceID recupera le variazioni legate a un reference id
func (r *balanceAuditRepository) GetByReferenceID(ctx context.Context, referenceID string) ([]*models.BalanceAudit, error) {
	var audits []*models.BalanceAudit
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("created_at ASC").
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}

// GetRecent recupera le variazioni più recenti
func (r *balanceAuditRepository) GetRecent(ctx context.Context, limit int) ([]*models.BalanceAudit, error) {
	var audits []*models.BalanceAudit
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}
