package orderflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"binary-options-terminal/backend"
	"binary-options-terminal/models"
	"binary-options-terminal/session"
)

// State è lo stato corrente del flusso di invio ordine
type State string

const (
	StateIdle           State = "Idle"
	StateOptionSelected State = "OptionSelected"
	StateCounting       State = "Counting"
	StateSubmitted      State = "Submitted"
)

// Errori di validazione, verificati solo al momento dell'invio
var (
	ErrIdentityNotVerified = errors.New("identità non verificata")
	ErrInsufficientBalance = errors.New("saldo insufficiente")
	ErrInvalidState        = errors.New("transizione di stato non valida")
	ErrNoPrice             = errors.New("prezzo corrente non disponibile")
)

// PriceSource fornisce il prezzo corrente della coppia selezionata
type PriceSource interface {
	CurrentPrice() (float64, bool)
}

// TradeStore è la cache locale delle operazioni inviate
type TradeStore interface {
	Create(ctx context.Context, trade *models.TradeRecord) error
}

// AuditStore registra ogni variazione di saldo applicata localmente
type AuditStore interface {
	Create(ctx context.Context, audit *models.BalanceAudit) error
}

// SubmitResult è l'esito dell'invio automatico a fine countdown
type SubmitResult struct {
	Trade *models.TradeRecord
	Err   error
}

// Flow è la macchina a stati dell'invio ordine: Idle → OptionSelected →
// Counting → Submitted. L'invio al backend avviene automaticamente allo
// scadere del countdown; le validazioni girano solo in quel momento e in
// caso di fallimento il flusso torna Idle senza toccare saldo né cache.
type Flow struct {
	client  *backend.Client
	session *session.Manager
	prices  PriceSource
	trades  TradeStore
	audits  AuditStore
	flatFee decimal.Decimal

	// risoluzione del countdown, sovrascrivibile nei test
	tick time.Duration

	mu        sync.Mutex
	state     State
	bucket    *models.ExpirationBucket
	tradePair string
	tradeType models.TradeType
	amount    decimal.Decimal
	remaining int
	cancel    context.CancelFunc

	results chan SubmitResult
}

// NewFlow crea il flusso di invio ordine
func NewFlow(client *backend.Client, sess *session.Manager, prices PriceSource, trades TradeStore, audits AuditStore, flatFee decimal.Decimal) *Flow {
	return &Flow{
		client:  client,
		session: sess,
		prices:  prices,
		trades:  trades,
		audits:  audits,
		flatFee: flatFee,
		tick:    time.Second,
		state:   StateIdle,
		results: make(chan SubmitResult, 1),
	}
}

// State restituisce lo stato corrente della macchina
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Remaining restituisce i secondi rimanenti del countdown
func (f *Flow) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining
}

// Results emette l'esito di ogni invio automatico
func (f *Flow) Results() <-chan SubmitResult {
	return f.results
}

// SelectOption registra coppia, direzione, bucket di scadenza e importo.
// Nessuna validazione qui: le regole girano solo all'invio.
func (f *Flow) SelectOption(tradePair string, tradeType models.TradeType, bucketLabel string, amount decimal.Decimal) error {
	bucket, found := models.FindExpirationBucket(bucketLabel)
	if !found {
		return fmt.Errorf("scadenza %q sconosciuta", bucketLabel)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateIdle && f.state != StateOptionSelected {
		return fmt.Errorf("%w: selezione in stato %s", ErrInvalidState, f.state)
	}
	f.state = StateOptionSelected
	f.bucket = bucket
	f.tradePair = tradePair
	f.tradeType = tradeType
	f.amount = amount
	return nil
}

// Begin avvia il countdown dalla durata del bucket selezionato. Allo scadere
// l'ordine viene inviato automaticamente.
func (f *Flow) Begin(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateOptionSelected {
		f.mu.Unlock()
		return fmt.Errorf("%w: countdown in stato %s", ErrInvalidState, f.state)
	}
	f.state = StateCounting
	f.remaining = f.bucket.Seconds
	countCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	log.Printf("⏱️ Countdown avviato: %s %s %s per %s secondi", f.tradePair, f.tradeType, f.amount, f.bucket.Label)

	go f.runCountdown(countCtx)
	return nil
}

// runCountdown decrementa a risoluzione di un secondo e invia a zero
func (f *Flow) runCountdown(ctx context.Context) {
	ticker := time.NewTicker(f.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.reset()
			return
		case <-ticker.C:
			f.mu.Lock()
			f.remaining--
			done := f.remaining <= 0
			f.mu.Unlock()
			if done {
				result := f.submit(ctx)
				select {
				case f.results <- result:
				default:
				}
				return
			}
		}
	}
}

// Abort annulla il countdown in corso e riporta il flusso a Idle
func (f *Flow) Abort() {
	f.mu.Lock()
	cancel := f.cancel
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Reset riporta il flusso a Idle dopo un invio concluso
func (f *Flow) Reset() {
	f.reset()
}

func (f *Flow) reset() {
	f.mu.Lock()
	f.state = StateIdle
	f.bucket = nil
	f.amount = decimal.Zero
	f.remaining = 0
	f.cancel = nil
	f.mu.Unlock()
}

// submit esegue le validazioni e, se passano, invia l'ordine al backend ed
// applica il delta di saldo locale. Ogni fallimento riporta a Idle senza
// alcuna mutazione.
func (f *Flow) submit(ctx context.Context) SubmitResult {
	f.mu.Lock()
	bucket := f.bucket
	tradePair := f.tradePair
	tradeType := f.tradeType
	amount := f.amount
	f.mu.Unlock()

	trade, err := f.placeTrade(ctx, bucket, tradePair, tradeType, amount)
	if err != nil {
		log.Printf("❌ Invio ordine fallito: %v", err)
		f.reset()
		return SubmitResult{Err: err}
	}

	f.mu.Lock()
	f.state = StateSubmitted
	f.mu.Unlock()

	log.Printf("✅ Ordine inviato: %s %s %s (rif. %s)", tradePair, tradeType, amount, trade.ReferenceID)
	return SubmitResult{Trade: trade}
}

func (f *Flow) placeTrade(ctx context.Context, bucket *models.ExpirationBucket, tradePair string, tradeType models.TradeType, amount decimal.Decimal) (*models.TradeRecord, error) {
	profile := f.session.Profile()
	if profile == nil {
		return nil, fmt.Errorf("profilo non caricato")
	}
	if !profile.IdentityVerified {
		return nil, ErrIdentityNotVerified
	}
	if err := bucket.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if amount.GreaterThan(profile.Balance) {
		return nil, ErrInsufficientBalance
	}

	entryPrice, ok := f.prices.CurrentPrice()
	if !ok {
		return nil, ErrNoPrice
	}
	income := bucket.EstimatedIncome(amount)
	referenceID := uuid.New().String()

	resp, err := f.client.SubmitTrade(ctx, backend.SubmitTradeRequest{
		ReferenceID:     referenceID,
		TradePair:       tradePair,
		TradeType:       tradeType,
		TradingAmount:   amount,
		ExpirationTime:  bucket.Label,
		EstimatedIncome: income,
		EntryPrice:      decimal.NewFromFloat(entryPrice),
	})
	if err != nil {
		return nil, fmt.Errorf("errore invio ordine: %w", err)
	}

	// Delta di saldo firmato dal flag win/lose del profilo: l'esito è
	// predeterminato lato server, non deriva dal movimento di mercato.
	var delta decimal.Decimal
	winLose := profile.WinLose
	if winLose == models.WinLoseWin {
		delta = income.Sub(f.flatFee)
	} else {
		delta = amount.Neg().Sub(f.flatFee)
		winLose = models.WinLoseLose
	}

	oldBalance, newBalance, err := f.session.AdjustBalance(delta)
	if err != nil {
		return nil, fmt.Errorf("errore aggiornamento saldo: %w", err)
	}

	audit := &models.BalanceAudit{
		ReferenceID: referenceID,
		Reason:      fmt.Sprintf("trade %s %s su %s", tradeType, amount, tradePair),
	}
	audit.SetOldValue(oldBalance.String())
	audit.SetNewValue(newBalance.String())
	if err := f.audits.Create(ctx, audit); err != nil {
		log.Printf("Errore salvataggio audit saldo: %v", err)
	}

	trade := &models.TradeRecord{
		ReferenceID:     referenceID,
		RemoteID:        resp.ID,
		TradePair:       tradePair,
		TradeType:       tradeType,
		ExpirationTime:  bucket.Label,
		TradingAmount:   amount,
		EstimatedIncome: income,
		EntryPrice:      entryPrice,
		Status:          models.TradeStatusPending,
		WinLose:         winLose,
	}
	if resp.Status != "" {
		trade.Status = resp.Status
	}
	if err := f.trades.Create(ctx, trade); err != nil {
		log.Printf("Errore salvataggio trade in cache locale: %v", err)
	}

	return trade, nil
}
