package account

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"binary-options-terminal/backend"
	"binary-options-terminal/models"
)

// FundingCache persiste localmente gli elenchi depositi e prelievi
type FundingCache interface {
	ReplaceDeposits(ctx context.Context, deposits []models.Deposit) error
	ReplaceWithdrawals(ctx context.Context, withdrawals []models.Withdrawal) error
}

// FundingView mantiene gli elenchi completi di depositi e prelievi. Le
// cancellazioni chiamano il backend e rimuovono l'elemento dallo stato
// locale solo dopo la conferma del server.
type FundingView struct {
	client   *backend.Client
	cache    FundingCache
	pageSize int

	mu          sync.RWMutex
	deposits    []models.Deposit
	withdrawals []models.Withdrawal
}

// NewFundingView crea la vista depositi/prelievi
func NewFundingView(client *backend.Client, cache FundingCache, pageSize int) *FundingView {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &FundingView{
		client:   client,
		cache:    cache,
		pageSize: pageSize,
	}
}

// Refresh scarica entrambi gli elenchi e sostituisce lo stato locale
func (v *FundingView) Refresh(ctx context.Context) error {
	deposits, err := v.client.FetchDeposits(ctx)
	if err != nil {
		return fmt.Errorf("errore caricamento depositi: %w", err)
	}
	withdrawals, err := v.client.FetchWithdrawals(ctx)
	if err != nil {
		return fmt.Errorf("errore caricamento prelievi: %w", err)
	}

	sort.SliceStable(deposits, func(i, j int) bool {
		return deposits[i].CreatedAt.After(deposits[j].CreatedAt)
	})
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})

	v.mu.Lock()
	v.deposits = deposits
	v.withdrawals = withdrawals
	v.mu.Unlock()

	if v.cache != nil {
		if err := v.cache.ReplaceDeposits(ctx, deposits); err != nil {
			log.Printf("Errore aggiornamento cache depositi: %v", err)
		}
		if err := v.cache.ReplaceWithdrawals(ctx, withdrawals); err != nil {
			log.Printf("Errore aggiornamento cache prelievi: %v", err)
		}
	}
	return nil
}

// Deposits restituisce la pagina richiesta dei depositi
func (v *FundingView) Deposits(page int) ([]models.Deposit, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Paginate(v.deposits, page, v.pageSize)
}

// Withdrawals restituisce la pagina richiesta dei prelievi
func (v *FundingView) Withdrawals(page int) ([]models.Withdrawal, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Paginate(v.withdrawals, page, v.pageSize)
}

// CancelDeposit annulla un deposito pendente. L'elemento viene rimosso
// dall'elenco locale solo se il backend conferma.
func (v *FundingView) CancelDeposit(ctx context.Context, remoteID string) error {
	v.mu.RLock()
	var target *models.Deposit
	for i := range v.deposits {
		if v.deposits[i].RemoteID == remoteID {
			target = &v.deposits[i]
			break
		}
	}
	v.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("deposito %s non trovato", remoteID)
	}
	if !target.CanCancel() {
		return fmt.Errorf("deposito %s non più cancellabile (stato %s)", remoteID, target.Status)
	}

	if err := v.client.CancelDeposit(ctx, remoteID); err != nil {
		return fmt.Errorf("errore cancellazione deposito: %w", err)
	}

	v.mu.Lock()
	for i := range v.deposits {
		if v.deposits[i].RemoteID == remoteID {
			v.deposits = append(v.deposits[:i], v.deposits[i+1:]...)
			break
		}
	}
	v.mu.Unlock()
	return nil
}

// CancelWithdrawal annulla un prelievo pendente con la stessa disciplina
func (v *FundingView) CancelWithdrawal(ctx context.Context, remoteID string) error {
	v.mu.RLock()
	var target *models.Withdrawal
	for i := range v.withdrawals {
		if v.withdrawals[i].RemoteID == remoteID {
			target = &v.withdrawals[i]
			break
		}
	}
	v.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("prelievo %s non trovato", remoteID)
	}
	if !target.CanCancel() {
		return fmt.Errorf("prelievo %s non più cancellabile (stato %s)", remoteID, target.Status)
	}

	if err := v.client.CancelWithdrawal(ctx, remoteID); err != nil {
		return fmt.Errorf("errore cancellazione prelievo: %w", err)
	}

	v.mu.Lock()
	for i := range v.withdrawals {
		if v.withdrawals[i].RemoteID == remoteID {
			v.withdrawals = append(v.withdrawals[:i], v.withdrawals[i+1:]...)
			break
		}
	}
	v.mu.Unlock()
	return nil
}
