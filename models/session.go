package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SessionEntity rappresenta il token di sessione persistito nel database
// locale (l'equivalente della chiave "token" del local storage del browser)
type SessionEntity struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Token     string    `gorm:"type:text;not null" json:"token"`
	UserID    string    `gorm:"type:varchar(50);index:idx_session_user" json:"user_id"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifica il nome della tabella per GORM
func (SessionEntity) TableName() string {
	return "sessions"
}

// BeforeCreate hook per validazioni prima della creazione
func (s *SessionEntity) BeforeCreate(tx *gorm.DB) error {
	if s.Token == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

// Profile rappresenta il profilo account restituito dal backend. Balance e
// WinLose sono di proprietà del server: il client li legge e basta.
type Profile struct {
	UserID           string          `json:"userId"`
	Email            string          `json:"email"`
	Balance          decimal.Decimal `json:"balance"`
	IdentityVerified bool            `json:"identityVerified"`
	WinLose          WinLoseResult   `json:"winLose"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// NotificationEntity rappresenta una preferenza/voce di notifica persistita
// localmente (l'equivalente della chiave "notifications" del local storage)
type NotificationEntity struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_notification_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifica il nome della tabella per GORM
func (NotificationEntity) TableName() string {
	return "notifications"
}
