package repositories

import (
	"context"

	"gorm.io/gorm"

	"binary-options-terminal/models"
)

// SessionRepository definisce l'interfaccia per la persistenza del token di
// sessione (l'equivalente del local storage del browser)
type SessionRepository interface {
	// SaveToken persiste il token corrente sostituendo il precedente
	SaveToken(ctx context.Context, token, userID string) error

	// LoadToken recupera il token persistito più recente
	LoadToken(ctx context.Context) (string, error)

	// ClearToken elimina ogni token persistito
	ClearToken(ctx context.Context) error
}

// TradeRepository definisce l'interfaccia per la cache locale delle operazioni
type TradeRepository interface {
	// Create crea una nuova operazione in cache
	Create(ctx context.Context, trade *models.TradeRecord) error

	// GetByReferenceID recupera un'operazione per reference id
	GetByReferenceID(ctx context.Context, referenceID string) (*models.TradeRecord, error)

	// GetAll recupera tutte le operazioni in cache, più recenti per prime
	GetAll(ctx context.Context, limit, offset int) ([]*models.TradeRecord, error)

	// GetByPair recupera le operazioni di una coppia
	GetByPair(ctx context.Context, pair string, limit, offset int) ([]*models.TradeRecord, error)

	// GetByStatus recupera le operazioni in uno stato
	GetByStatus(ctx context.Context, status models.TradeStatus, limit, offset int) ([]*models.TradeRecord, error)

	// ReplaceAll sostituisce l'intera cache con l'elenco scaricato dal backend
	ReplaceAll(ctx context.Context, trades []models.TradeRecord) error

	// Count restituisce il numero di operazioni in cache
	Count(ctx context.Context) (int64, error)
}

// FundingRepository definisce l'interfaccia per la cache di depositi e prelievi
type FundingRepository interface {
	// ReplaceDeposits sostituisce la cache depositi
	ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error

	// GetDeposits recupera i depositi in cache, più recenti per primi
	GetDeposits(ctx context.Context, limit, offset int) ([]*models.Deposit, error)

	// ReplaceWithdrawals sostituisce la cache prelievi
	ReplaceWithdrawals(ctx context.Context, withdrawals []models.Withdrawal) error

	// GetWithdrawals recupera i prelievi in cache, più recenti per primi
	GetWithdrawals(ctx context.Context, limit, offset int) ([]*models.Withdrawal, error)
}

// BalanceAuditRepository definisce l'interfaccia per l'audit trail del saldo
type BalanceAuditRepository interface {
	// Create registra una variazione di saldo
	Create(ctx context.Context, audit *models.BalanceAudit) error

	// GetByReferenceID recupera le variazioni legate a un reference id
	GetByReferenceID(ctx context.Context, referenceID string) ([]*models.BalanceAudit, error)

	// GetRecent recupera le variazioni più recenti
	GetRecent(ctx context.Context, limit int) ([]*models.BalanceAudit, error)
}

// NotificationRepository definisce l'interfaccia per le preferenze di notifica
type NotificationRepository interface {
	// Set imposta una chiave di notifica
	Set(ctx context.Context, key, value string) error

	// Get recupera il valore di una chiave
	Get(ctx context.Context, key string) (string, error)

	// GetAll recupera tutte le voci
	GetAll(ctx context.Context) ([]*models.NotificationEntity, error)
}

// RepositoryManager aggrega tutti i repository e la gestione transazioni
type RepositoryManager interface {
	Session() SessionRepository
	Trade() TradeRepository
	Funding() FundingRepository
	BalanceAudit() BalanceAuditRepository
	Notification() NotificationRepository

	// BeginTransaction inizia una transazione
	BeginTransaction(ctx context.Context) (*gorm.DB, error)

	// CommitTransaction committa una transazione
	CommitTransaction(tx *gorm.DB) error

	// RollbackTransaction fa rollback di una transazione
	RollbackTransaction(tx *gorm.DB) error
}
