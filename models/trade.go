package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeType rappresenta la direzione di un trade simulato
type TradeType string

const (
	TradeTypeBuy  TradeType = "Buy"
	TradeTypeSell TradeType = "Sell"
)

// TradeStatus rappresenta lo stato di un trade restituito dal backend
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "Pending"
	TradeStatusCompleted TradeStatus = "Completed"
	TradeStatusCancelled TradeStatus = "Cancelled"
)

// WinLoseResult rappresenta l'esito predeterminato di un trade.
// Il valore è deciso dal backend (flag a livello account), non dal movimento
// reale del mercato.
type WinLoseResult string

const (
	WinLoseWin     WinLoseResult = "Win"
	WinLoseLose    WinLoseResult = "Lose"
	WinLosePending WinLoseResult = "Pending"
)

// TradeRecord rappresenta un trade binary-option creato dal client e posseduto
// dal backend dopo l'invio. Il client non ricalcola mai i campi derivati, si
// limita a mostrare ciò che il backend restituisce. La copia locale serve solo
// come cache per le viste elenco.
type TradeRecord struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"-"`
	ReferenceID     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_trade_reference" json:"referenceId"`
	RemoteID        string          `gorm:"type:varchar(50);index:idx_trade_remote" json:"id"`
	TradePair       string          `gorm:"type:varchar(20);not null;index:idx_trade_pair" json:"tradePair"`
	TradeType       TradeType       `gorm:"type:varchar(10);not null" json:"tradeType"`
	ExpirationTime  string          `gorm:"type:varchar(10);not null" json:"expirationTime"`
	TradingAmount   decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"tradingAmountUSD"`
	EstimatedIncome decimal.Decimal `gorm:"type:decimal(20,8)" json:"estimatedIncome"`
	EntryPrice      float64         `json:"entryPrice"`
	Status          TradeStatus     `gorm:"type:varchar(20);index:idx_trade_status" json:"status"`
	WinLose         WinLoseResult   `gorm:"type:varchar(10)" json:"winLose"`
	CreatedAt       time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;index:idx_trade_created" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifica il nome della tabella per GORM
func (TradeRecord) TableName() string {
	return "trades"
}

// BeforeCreate hook per validazioni prima della creazione
func (t *TradeRecord) BeforeCreate(tx *gorm.DB) error {
	if t.ReferenceID == "" || t.TradePair == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

// IsPending verifica se il trade è ancora in attesa di esito
func (t *TradeRecord) IsPending() bool {
	return t.Status == TradeStatusPending
}

// TradeStatusEntity rappresenta uno stato trade nel database locale
type TradeStatusEntity struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StatusName  string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_status_name" json:"status_name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"type:boolean;default:true;index:idx_is_active" json:"is_active"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifica il nome della tabella per GORM
func (TradeStatusEntity) TableName() string {
	return "trade_statuses"
}

// BeforeCreate hook per validazioni prima della creazione
func (ts *TradeStatusEntity) BeforeCreate(tx *gorm.DB) error {
	if ts.StatusName == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

// String restituisce una rappresentazione stringa dello stato
func (ts *TradeStatusEntity) String() string {
	return ts.StatusName
}
