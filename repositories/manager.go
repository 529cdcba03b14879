package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// repositoryManager implementa RepositoryManager
type repositoryManager struct {
	db               *gorm.DB
	sessionRepo      SessionRepository
	tradeRepo        TradeRepository
	fundingRepo      FundingRepository
	auditRepo        BalanceAuditRepository
	notificationRepo NotificationRepository
}

// NewRepositoryManager crea una nuova istanza di RepositoryManager
func NewRepositoryManager(db *gorm.DB) RepositoryManager {
	return &repositoryManager{
		db:               db,
		sessionRepo:      NewSessionRepository(db),
		tradeRepo:        NewTradeRepository(db),
		fundingRepo:      NewFundingRepository(db),
		auditRepo:        NewBalanceAuditRepository(db),
		notificationRepo: NewNotificationRepository(db),
	}
}

// Session restituisce il repository per il token di sessione
func (rm *repositoryManager) Session() SessionRepository {
	return rm.sessionRepo
}

// Trade restituisce il repository per la cache operazioni
func (rm *repositoryManager) Trade() TradeRepository {
	return rm.tradeRepo
}

// Funding restituisce il repository per depositi e prelievi
func (rm *repositoryManager) Funding() FundingRepository {
	return rm.fundingRepo
}

// BalanceAudit restituisce il repository per l'audit trail del saldo
func (rm *repositoryManager) BalanceAudit() BalanceAuditRepository {
	return rm.auditRepo
}

// Notification restituisce il repository per le preferenze di notifica
func (rm *repositoryManager) Notification() NotificationRepository {
	return rm.notificationRepo
}

// BeginTransaction inizia una transazione
func (rm *repositoryManager) BeginTransaction(ctx context.Context) (*gorm.DB, error) {
	if rm.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if err := rm.db.WithContext(ctx).Error; err != nil {
		return nil, err
	}
	return rm.db.WithContext(ctx).Begin(), nil
}

// CommitTransaction committa una transazione
func (rm *repositoryManager) CommitTransaction(tx *gorm.DB) error {
	return tx.Commit().Error
}

// RollbackTransaction fa rollback di una transazione
func (rm *repositoryManager) RollbackTransaction(tx *gorm.DB) error {
	return tx.Rollback().Error
}
