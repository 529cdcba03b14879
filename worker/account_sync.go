package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"binary-options-terminal/account"
	"binary-options-terminal/backend"
)

// AccountSyncWorker ricarica periodicamente profilo, elenco operazioni,
// depositi e prelievi dal backend. È l'equivalente del refetch a intervallo
// che ogni schermata account eseguiva al mount.
type AccountSyncWorker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *backend.Client
	trades  *account.TradesView
	funding *account.FundingView
}

// NewAccountSyncWorker crea una nuova istanza del worker
func NewAccountSyncWorker(client *backend.Client, trades *account.TradesView, funding *account.FundingView) *AccountSyncWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &AccountSyncWorker{
		ctx:     ctx,
		cancel:  cancel,
		client:  client,
		trades:  trades,
		funding: funding,
	}
}

// ExecuteCycle esegue un ciclo di sincronizzazione account
func (w *AccountSyncWorker) ExecuteCycle() {
	ctx, cancel := context.WithTimeout(w.ctx, 45*time.Second)
	defer cancel()

	log.Println("Phase 1: Refreshing account profile...")
	if _, err := w.client.FetchProfile(ctx); err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			log.Println("🛑 Sessione scaduta, ciclo di sincronizzazione interrotto")
			return
		}
		log.Printf("Errore refresh profilo: %v", err)
	}

	log.Println("Phase 2: Refreshing trade list...")
	if err := w.trades.Refresh(ctx); err != nil {
		log.Printf("Errore refresh operazioni: %v", err)
	}

	log.Println("Phase 3: Refreshing deposits and withdrawals...")
	if err := w.funding.Refresh(ctx); err != nil {
		log.Printf("Errore refresh depositi/prelievi: %v", err)
	}
}

// Stop ferma il worker
func (w *AccountSyncWorker) Stop() {
	w.cancel()
}

// GetName restituisce il nome del worker
func (w *AccountSyncWorker) GetName() string {
	return "account-sync"
}
