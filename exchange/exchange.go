package exchange

import (
	"context"

	"binary-options-terminal/models"
)

// Exchange definisce l'interfaccia per gli snapshot REST dei dati di mercato.
// Le risposte upstream sono consumate in sola lettura e le loro forme sono
// considerate affidabili così come arrivano.
type Exchange interface {
	// FetchKlines recupera una finestra storica limitata di candele per un
	// simbolo e un timeframe
	FetchKlines(ctx context.Context, symbol string, timeframe models.Timeframe, limit int) (*models.CandleResponse, error)

	// FetchTickerStats recupera le statistiche di mercato delle ultime 24 ore
	FetchTickerStats(ctx context.Context, symbol string) (*models.TickerStats, error)

	// FetchOrderBook recupera lo snapshot dell'order book (massimo ~20 livelli).
	// Ogni snapshot sostituisce interamente il precedente.
	FetchOrderBook(ctx context.Context, symbol string, limit int) (*models.OrderBookSnapshot, error)

	// FetchRecentTrades recupera gli ultimi trade eseguiti sul mercato
	FetchRecentTrades(ctx context.Context, symbol string, limit int) ([]models.MarketTrade, error)
}
