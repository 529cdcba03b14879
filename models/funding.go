package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundingStatus rappresenta lo stato di un deposito o prelievo.
// Il ciclo di vita Pending -> Approved/Rejected è interamente controllato dal
// backend: il client può solo creare o cancellare finché lo stato è Pending.
type FundingStatus string

const (
	FundingStatusPending  FundingStatus = "Pending"
	FundingStatusApproved FundingStatus = "Approved"
	FundingStatusRejected FundingStatus = "Rejected"
)

// Deposit rappresenta una richiesta di deposito
type Deposit struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	RemoteID       string          `gorm:"type:varchar(50);uniqueIndex:idx_deposit_remote" json:"id"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	CryptoType     string          `gorm:"type:varchar(20);not null" json:"cryptoType"`
	Status         FundingStatus   `gorm:"type:varchar(20);index:idx_deposit_status" json:"status"`
	ProofOfDeposit string          `gorm:"type:text" json:"proofOfDeposit"`
	CreatedAt      time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;index:idx_deposit_created" json:"createdAt"`
}

// TableName specifica il nome della tabella per GORM
func (Deposit) TableName() string {
	return "deposits"
}

// CanCancel verifica se il deposito è ancora cancellabile dal client
func (d *Deposit) CanCancel() bool {
	return d.Status == FundingStatusPending
}

// Withdrawal rappresenta una richiesta di prelievo
type Withdrawal struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	RemoteID      string          `gorm:"type:varchar(50);uniqueIndex:idx_withdrawal_remote" json:"id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	CryptoType    string          `gorm:"type:varchar(20);not null" json:"cryptoType"`
	WalletAddress string          `gorm:"type:varchar(100)" json:"walletAddress"`
	Status        FundingStatus   `gorm:"type:varchar(20);index:idx_withdrawal_status" json:"status"`
	CreatedAt     time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;index:idx_withdrawal_created" json:"createdAt"`
}

// TableName specifica il nome della tabella per GORM
func (Withdrawal) TableName() string {
	return "withdrawals"
}

// CanCancel verifica se il prelievo è ancora cancellabile dal client
func (w *Withdrawal) CanCancel() bool {
	return w.Status == FundingStatusPending
}

// AdminAddress rappresenta un indirizzo di deposito pubblicato dall'admin
type AdminAddress struct {
	ID         string `json:"id"`
	CryptoType string `json:"cryptoType"`
	Address    string `json:"address"`
	Network    string `json:"network"`
}
