package models

import (
	"time"

	"gorm.io/gorm"
)

// BalanceAudit rappresenta un record di audit per ogni mutazione del saldo
// applicata localmente dal client. Il saldo è autorità del backend, ma il
// flusso di invio ordini applica un delta ottimistico: ogni delta viene
// tracciato qui con vecchio e nuovo valore.
type BalanceAudit struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferenceID string    `gorm:"type:varchar(50);not null;index:idx_audit_reference" json:"reference_id"`
	Reason      string    `gorm:"type:varchar(50);not null;index:idx_audit_reason" json:"reason"`
	OldValue    *string   `gorm:"type:text" json:"old_value"`
	NewValue    *string   `gorm:"type:text" json:"new_value"`
	ChangedAt   time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;index:idx_audit_changed_at" json:"changed_at"`
	ChangedBy   string    `gorm:"type:varchar(100);default:'terminal'" json:"changed_by"`
}

// TableName specifica il nome della tabella per GORM
func (BalanceAudit) TableName() string {
	return "balance_audit"
}

// BeforeCreate hook per validazioni prima della creazione
func (ba *BalanceAudit) BeforeCreate(tx *gorm.DB) error {
	if ba.ReferenceID == "" || ba.Reason == "" {
		return gorm.ErrInvalidData
	}
	if ba.ChangedBy == "" {
		ba.ChangedBy = "terminal"
	}
	return nil
}

// SetOldValue imposta il vecchio valore
func (ba *BalanceAudit) SetOldValue(value string) {
	ba.OldValue = &value
}

// SetNewValue imposta il nuovo valore
func (ba *BalanceAudit) SetNewValue(value string) {
	ba.NewValue = &value
}

// String restituisce una rappresentazione stringa dell'audit
func (ba *BalanceAudit) String() string {
	return ba.ReferenceID + " - " + ba.Reason
}
