package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// fundingRepository implementa FundingRepository
type fundingRepository struct {
	db *gorm.DB
}

// NewFundingRepository crea una nuova istanza di FundingRepository
func NewFundingRepository(db *gorm.DB) FundingRepository {
	return &fundingRepository{db: db}
}

// ReplaceDeposits sostituisce la cache depositi
func (r *fundingRepository) ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Deposit{}).Error; err != nil {
			return fmt.Errorf("errore pulizia cache depositi: %w", err)
		}
		if len(deposits) == 0 {
			return nil
		}
		if err := tx.Create(&deposits).Error; err != nil {
			return fmt.Errorf("errore ricarica cache depositi: %w", err)
		}
		return nil
	})
}

// GetDeposits recupera i depositi in cache, più recenti per primi
func (r *fundingRepository) GetDeposits(ctx context.Context, limit, offset int) ([]*models.Deposit, error) {
	var deposits []*models.Deposit
	query := r.db.WithContext(ctx)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Order("created_at DESC").Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

// ReplaceWithdrawals sostituisce la cache prelievi
func (r *fundingRepository) ReplaceWithdrawals(ctx context.Context, withdrawals []models.Withdrawal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Withdrawal{}).Error; err != nil {
			return fmt.Errorf("errore pulizia cache prelievi: %w", err)
		}
		if len(withdrawals) == 0 {
			return nil
		}
		if err := tx.Create(&withdrawals).Error; err != nil {
			return fmt.Errorf("errore ricarica cache prelievi: %w", err)
		}
		return nil
	})
}

// GetWithdrawals recupera i prelievi in cache, più recenti per primi
func (r *fundingRepository) GetWithdrawals(ctx context.Context, limit, offset int) ([]*models.Withdrawal, error) {
	var withdrawals []*models.Withdrawal
	query := r.db.WithContext(ctx)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Order("created_at DESC").Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}
