package book

import (
	"context"

	"binary-options-terminal/models"
)

// KlineStreamer definisce l'interfaccia per lo streaming delle candele.
// Ogni chiamata apre esattamente una connessione WebSocket chiavata su
// (symbol, timeframe); la connessione viene chiusa alla cancellazione del
// context. Il metodo blocca finché lo stream è vivo: il chiamante lo esegue
// in una goroutine dedicata.
type KlineStreamer interface {
	KlineStream(
		ctx context.Context,
		symbol string,
		timeframe models.Timeframe,
		updateChan chan<- *models.KlineUpdate,
		errChan chan<- error,
	) error
}

// DepthStreamer definisce l'interfaccia per lo streaming dell'order book.
// Ogni messaggio è uno snapshot completo che sostituisce il precedente,
// mai un delta da fondere.
type DepthStreamer interface {
	DepthStream(
		ctx context.Context,
		symbol string,
		depth int,
		updateChan chan<- *models.OrderBookSnapshot,
		errChan chan<- error,
	) error
}

// TradeStreamer definisce l'interfaccia per lo streaming dei trade eseguiti
type TradeStreamer interface {
	TradeStream(
		ctx context.Context,
		symbol string,
		updateChan chan<- *models.MarketTrade,
		errChan chan<- error,
	) error
}

// Streamer raggruppa i tre stream upstream consumati dal terminale
type Streamer interface {
	KlineStreamer
	DepthStreamer
	TradeStreamer
}
