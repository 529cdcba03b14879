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

// TradeCache persiste localmente l'ultimo elenco operazioni scaricato
type TradeCache interface {
	ReplaceAll(ctx context.Context, trades []models.TradeRecord) error
}

// TradesView mantiene l'elenco completo delle operazioni scaricato in un
// colpo solo dal backend; paginazione, filtro e ordinamento sono interamente
// lato client.
type TradesView struct {
	client   *backend.Client
	cache    TradeCache
	pageSize int

	mu     sync.RWMutex
	trades []models.TradeRecord
}

// NewTradesView crea la vista elenco operazioni
func NewTradesView(client *backend.Client, cache TradeCache, pageSize int) *TradesView {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &TradesView{
		client:   client,
		cache:    cache,
		pageSize: pageSize,
	}
}

// Refresh scarica l'intero elenco e sostituisce lo stato locale
func (v *TradesView) Refresh(ctx context.Context) error {
	trades, err := v.client.FetchTrades(ctx)
	if err != nil {
		return fmt.Errorf("errore caricamento operazioni: %w", err)
	}

	// Più recenti per prime
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CreatedAt.After(trades[j].CreatedAt)
	})

	v.mu.Lock()
	v.trades = trades
	v.mu.Unlock()

	if v.cache != nil {
		if err := v.cache.ReplaceAll(ctx, trades); err != nil {
			log.Printf("Errore aggiornamento cache operazioni: %v", err)
		}
	}
	return nil
}

// Len restituisce il numero totale di operazioni caricate
func (v *TradesView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.trades)
}

// Page restituisce la pagina richiesta e il totale pagine
func (v *TradesView) Page(page int) ([]models.TradeRecord, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Paginate(v.trades, page, v.pageSize)
}

// FilterByPair restituisce le operazioni della coppia indicata, paginate
func (v *TradesView) FilterByPair(pair string, page int) ([]models.TradeRecord, int) {
	v.mu.RLock()
	var filtered []models.TradeRecord
	for _, t := range v.trades {
		if t.TradePair == pair {
			filtered = append(filtered, t)
		}
	}
	v.mu.RUnlock()
	return Paginate(filtered, page, v.pageSize)
}

// FilterByStatus restituisce le operazioni nello stato indicato, paginate
func (v *TradesView) FilterByStatus(status models.TradeStatus, page int) ([]models.TradeRecord, int) {
	v.mu.RLock()
	var filtered []models.TradeRecord
	for _, t := range v.trades {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	v.mu.RUnlock()
	return Paginate(filtered, page, v.pageSize)
}
