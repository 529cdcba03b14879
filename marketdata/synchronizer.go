package marketdata

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"binary-options-terminal/book"
	"binary-options-terminal/exchange"
	"binary-options-terminal/models"
	"binary-options-terminal/taprocess"
)

// Synchronizer mantiene grafico e scalari derivati (prezzo corrente,
// statistiche 24h, medie mobili) consistenti con l'exchange upstream per una
// coppia (symbol, timeframe). Il pattern è sempre lo stesso: snapshot REST
// all'attivazione, poi esattamente uno stream incrementale più un timer di
// refresh ridondante a intervallo fisso che sovrascrive senza diffing.
type Synchronizer struct {
	exchange      exchange.Exchange
	streamer      book.KlineStreamer
	processor     taprocess.TAProcessor
	quoteCurrency string
	snapshotLimit int
	pollInterval  time.Duration
}

// NewSynchronizer crea una nuova istanza di Synchronizer
func NewSynchronizer(ex exchange.Exchange, streamer book.KlineStreamer, quoteCurrency string, snapshotLimit int, pollInterval time.Duration) *Synchronizer {
	if snapshotLimit <= 0 {
		snapshotLimit = 500
	}
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Synchronizer{
		exchange:      ex,
		streamer:      streamer,
		processor:     taprocess.NewTalibProcessor(),
		quoteCurrency: quoteCurrency,
		snapshotLimit: snapshotLimit,
		pollInterval:  pollInterval,
	}
}

// Subscription rappresenta una sottoscrizione attiva. Possiede esattamente
// una connessione stream e un timer di polling: entrambi vengono rilasciati
// da Unsubscribe (o dalla cancellazione del context del chiamante).
type Subscription struct {
	Symbol    string
	Timeframe models.Timeframe

	mu         sync.RWMutex
	candles    []models.Candle
	indicators []*models.TACandlestick
	ticker     *models.TickerStats
	loading    bool

	cancel  context.CancelFunc
	closed  atomic.Bool // guardia "mounted": scarta i risultati in volo dopo il teardown
	done    chan struct{}
	updates chan struct{}

	snapshotLimit int
}

// Subscribe attiva la sincronizzazione per un simbolo e un timeframe.
// Il simbolo viene normalizzato (maiuscolo, suffisso quote se assente).
// Ogni cambio di simbolo o timeframe richiede Unsubscribe sulla
// sottoscrizione precedente prima di crearne una nuova: due stream
// sovrapposti per lo stesso grafico sono un bug.
func (s *Synchronizer) Subscribe(ctx context.Context, rawSymbol string, timeframe models.Timeframe) (*Subscription, error) {
	if !timeframe.IsValid() {
		return nil, fmt.Errorf("timeframe non supportato: %s", timeframe)
	}
	symbol := exchange.NormalizeSymbol(rawSymbol, s.quoteCurrency)
	if symbol == "" {
		return nil, fmt.Errorf("simbolo vuoto")
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		Symbol:        symbol,
		Timeframe:     timeframe,
		loading:       true,
		cancel:        cancel,
		done:          make(chan struct{}),
		updates:       make(chan struct{}, 1),
		snapshotLimit: s.snapshotLimit,
	}

	var wg sync.WaitGroup

	// Snapshot REST iniziale. In caso di errore lo stato di caricamento resta
	// attivo e si conta sul prossimo giro di polling: nessun retry dedicato.
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.refresh(subCtx, sub)
	}()

	// Esattamente uno stream per (symbol, timeframe)
	updateChan := make(chan *models.KlineUpdate, 100)
	errChan := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.streamer.KlineStream(subCtx, symbol, timeframe, updateChan, errChan); err != nil {
			// Errori di stream loggati e ingoiati: il polling continua a coprire
			log.Printf("Stream kline terminato per %s @ %s: %v", symbol, timeframe, err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-subCtx.Done():
				return
			case update := <-updateChan:
				sub.applyKlineUpdate(update, s.processor)
			case err := <-errChan:
				log.Printf("Errore stream per %s @ %s: %v", symbol, timeframe, err)
			}
		}
	}()

	// Refresh ridondante a intervallo fisso, indipendente dalla salute dello
	// stream: non riconcilia, sovrascrive.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-subCtx.Done():
				return
			case <-ticker.C:
				s.refresh(subCtx, sub)
			}
		}
	}()

	go func() {
		wg.Wait()
		close(sub.done)
	}()

	log.Printf("Sottoscrizione attivata per %s @ %s", symbol, timeframe)
	return sub, nil
}

// refresh ri-esegue il fetch REST completo e sovrascrive lo stato.
// Gli errori di rete vengono loggati e ingoiati.
func (s *Synchronizer) refresh(ctx context.Context, sub *Subscription) {
	resp, err := s.exchange.FetchKlines(ctx, sub.Symbol, sub.Timeframe, s.snapshotLimit)
	if err != nil {
		log.Printf("Errore fetch snapshot per %s @ %s: %v", sub.Symbol, sub.Timeframe, err)
	} else if !sub.closed.Load() {
		sub.applySnapshot(resp.Candles, s.processor)
	}

	stats, err := s.exchange.FetchTickerStats(ctx, sub.Symbol)
	if err != nil {
		log.Printf("Errore fetch ticker 24h per %s: %v", sub.Symbol, err)
		return
	}
	if sub.closed.Load() {
		return
	}
	sub.mu.Lock()
	sub.ticker = stats
	sub.mu.Unlock()
	sub.notify()
}

// Unsubscribe rilascia stream e timer e scarta ogni risultato in volo.
// Dopo il ritorno la sottoscrizione non tocca più il proprio stato.
func (sub *Subscription) Unsubscribe() {
	if sub.closed.Swap(true) {
		return
	}
	sub.cancel()
	<-sub.done
	log.Printf("Sottoscrizione chiusa per %s @ %s", sub.Symbol, sub.Timeframe)
}

// Done restituisce un channel chiuso quando tutte le risorse della
// sottoscrizione (stream, timer, goroutine) sono state rilasciate
func (sub *Subscription) Done() <-chan struct{} {
	return sub.done
}

// Closed verifica se la sottoscrizione è stata chiusa
func (sub *Subscription) Closed() bool {
	return sub.closed.Load()
}

// Updates restituisce un channel di notifica best-effort: riceve un segnale
// quando lo stato sincronizzato è cambiato
func (sub *Subscription) Updates() <-chan struct{} {
	return sub.updates
}

// Loading verifica se il primo snapshot non è ancora arrivato
func (sub *Subscription) Loading() bool {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	return sub.loading
}

// Candles restituisce una copia delle candele correnti
func (sub *Subscription) Candles() []models.Candle {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	out := make([]models.Candle, len(sub.candles))
	copy(out, sub.candles)
	return out
}

// Indicators restituisce le candele arricchite con gli indicatori
func (sub *Subscription) Indicators() []*models.TACandlestick {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	out := make([]*models.TACandlestick, len(sub.indicators))
	copy(out, sub.indicators)
	return out
}

// Ticker restituisce le statistiche 24h più recenti, se disponibili
func (sub *Subscription) Ticker() *models.TickerStats {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	return sub.ticker
}

// CurrentPrice restituisce l'ultimo prezzo di chiusura noto
func (sub *Subscription) CurrentPrice() (float64, bool) {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	if len(sub.candles) == 0 {
		return 0, false
	}
	return sub.candles[len(sub.candles)-1].Close, true
}

// applySnapshot sovrascrive lo stato con uno snapshot REST completo
func (sub *Subscription) applySnapshot(candles []models.Candle, processor taprocess.TAProcessor) {
	indicators := computeIndicators(candles, processor)

	sub.mu.Lock()
	sub.candles = candles
	sub.indicators = indicators
	sub.loading = false
	sub.mu.Unlock()
	sub.notify()
}

// applyKlineUpdate applica un aggiornamento incrementale: la candela in
// formazione sovrascrive l'ultimo punto, la candela chiusa viene committata
// e si prosegue su una nuova
func (sub *Subscription) applyKlineUpdate(update *models.KlineUpdate, processor taprocess.TAProcessor) {
	if sub.closed.Load() {
		return
	}

	sub.mu.Lock()
	n := len(sub.candles)
	switch {
	case n == 0:
		sub.candles = append(sub.candles, update.Candle)
	case sub.candles[n-1].Timestamp.Equal(update.Candle.Timestamp):
		sub.candles[n-1] = update.Candle
	default:
		sub.candles = append(sub.candles, update.Candle)
		// La finestra resta limitata alla dimensione dello snapshot
		if len(sub.candles) > sub.snapshotLimit {
			sub.candles = sub.candles[len(sub.candles)-sub.snapshotLimit:]
		}
	}
	sub.indicators = computeIndicators(sub.candles, processor)
	sub.mu.Unlock()
	sub.notify()
}

// notify segnala una variazione di stato senza bloccare
func (sub *Subscription) notify() {
	select {
	case sub.updates <- struct{}{}:
	default:
	}
}

// computeIndicators ricalcola gli indicatori sul set corrente di candele
func computeIndicators(candles []models.Candle, processor taprocess.TAProcessor) []*models.TACandlestick {
	if len(candles) == 0 {
		return nil
	}
	indicators, err := processor.ProcessIndicators(candles)
	if err != nil {
		log.Printf("Errore calcolo indicatori: %v", err)
		return nil
	}
	return indicators
}
