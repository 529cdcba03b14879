package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpirationBucket rappresenta una delle sei opzioni fisse di scadenza per un
// trade simulato: durata del countdown, percentuale di payout e limiti di
// importo. La tabella è fissa lato client e seminata anche nel database locale.
type ExpirationBucket struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Label      string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_bucket_label" json:"label"`
	Seconds    int             `gorm:"not null" json:"seconds"`
	Percentage int             `gorm:"not null" json:"percentage"`
	MinAmount  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"min_amount"`
	MaxAmount  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"max_amount"`
	CreatedAt  time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifica il nome della tabella per GORM
func (ExpirationBucket) TableName() string {
	return "expiration_buckets"
}

// Duration restituisce la durata del countdown
func (b *ExpirationBucket) Duration() time.Duration {
	return time.Duration(b.Seconds) * time.Second
}

// ValidateAmount verifica che l'importo rientri nei limiti del bucket.
// Il minimo è inclusivo, tutto ciò che supera il massimo è rifiutato.
func (b *ExpirationBucket) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(b.MinAmount) {
		return fmt.Errorf("importo %s sotto il minimo %s per la scadenza %s",
			amount.String(), b.MinAmount.String(), b.Label)
	}
	if amount.GreaterThan(b.MaxAmount) {
		return fmt.Errorf("importo %s sopra il massimo %s per la scadenza %s",
			amount.String(), b.MaxAmount.String(), b.Label)
	}
	return nil
}

// EstimatedIncome restituisce il guadagno stimato per un importo:
// amount * percentage / 100
func (b *ExpirationBucket) EstimatedIncome(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(b.Percentage))).Div(decimal.NewFromInt(100))
}

// DefaultExpirationBuckets restituisce la tabella fissa delle sei scadenze
func DefaultExpirationBuckets() []ExpirationBucket {
	return []ExpirationBucket{
		{Label: "30s", Seconds: 30, Percentage: 20, MinAmount: decimal.NewFromInt(100), MaxAmount: decimal.NewFromInt(1000)},
		{Label: "60s", Seconds: 60, Percentage: 30, MinAmount: decimal.NewFromInt(500), MaxAmount: decimal.NewFromInt(5000)},
		{Label: "120s", Seconds: 120, Percentage: 40, MinAmount: decimal.NewFromInt(2000), MaxAmount: decimal.NewFromInt(20000)},
		{Label: "180s", Seconds: 180, Percentage: 50, MinAmount: decimal.NewFromInt(5000), MaxAmount: decimal.NewFromInt(50000)},
		{Label: "240s", Seconds: 240, Percentage: 60, MinAmount: decimal.NewFromInt(10000), MaxAmount: decimal.NewFromInt(100000)},
		{Label: "300s", Seconds: 300, Percentage: 80, MinAmount: decimal.NewFromInt(20000), MaxAmount: decimal.NewFromInt(200000)},
	}
}

// FindExpirationBucket cerca un bucket per label nella tabella fissa
func FindExpirationBucket(label string) (*ExpirationBucket, bool) {
	for _, b := range DefaultExpirationBuckets() {
		if b.Label == label {
			return &b, true
		}
	}
	return nil, false
}
