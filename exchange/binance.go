package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"binary-options-terminal/models"
)

// BinanceExchange implementa l'interfaccia Exchange per le API spot pubbliche
// di Binance. Nessuna credenziale: il terminale consuma solo endpoint di
// mercato pubblici.
type BinanceExchange struct {
	client *binance.Client
}

// NewBinanceExchange crea una nuova istanza di BinanceExchange
func NewBinanceExchange(baseURL string) *BinanceExchange {
	client := binance.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceExchange{client: client}
}

// FetchKlines implementa l'interfaccia Exchange
func (b *BinanceExchange) FetchKlines(ctx context.Context, symbol string, timeframe models.Timeframe, limit int) (*models.CandleResponse, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(string(timeframe)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("errore fetch klines per %s: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		candle, err := candleFromKline(k)
		if err != nil {
			return nil, fmt.Errorf("errore parsing kline per %s: %w", symbol, err)
		}
		candles = append(candles, candle)
	}

	return &models.CandleResponse{
		Candles: candles,
		HasMore: len(klines) == limit,
	}, nil
}

// FetchTickerStats implementa l'interfaccia Exchange
func (b *BinanceExchange) FetchTickerStats(ctx context.Context, symbol string) (*models.TickerStats, error) {
	stats, err := b.client.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("errore fetch ticker 24h per %s: %w", symbol, err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("nessuna statistica 24h per %s", symbol)
	}

	s := stats[0]
	ticker := &models.TickerStats{
		Symbol:    s.Symbol,
		Timestamp: time.UnixMilli(s.CloseTime),
	}

	fields := []struct {
		raw string
		dst *float64
	}{
		{s.LastPrice, &ticker.LastPrice},
		{s.PriceChange, &ticker.PriceChange},
		{s.PriceChangePercent, &ticker.PriceChangePercent},
		{s.HighPrice, &ticker.HighPrice},
		{s.LowPrice, &ticker.LowPrice},
		{s.Volume, &ticker.Volume},
		{s.QuoteVolume, &ticker.QuoteVolume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("errore parsing ticker 24h per %s: %w", symbol, err)
		}
		*f.dst = v
	}

	return ticker, nil
}

// FetchOrderBook implementa l'interfaccia Exchange
func (b *BinanceExchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*models.OrderBookSnapshot, error) {
	depth, err := b.client.NewDepthService().Symbol(symbol).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("errore fetch order book per %s: %w", symbol, err)
	}

	snapshot := &models.OrderBookSnapshot{
		Symbol:    symbol,
		Bids:      make([]models.OrderBookLevel, 0, len(depth.Bids)),
		Asks:      make([]models.OrderBookLevel, 0, len(depth.Asks)),
		Timestamp: time.Now().UTC(),
	}

	for _, bid := range depth.Bids {
		level, err := levelFromStrings(bid.Price, bid.Quantity)
		if err != nil {
			return nil, fmt.Errorf("errore parsing bid per %s: %w", symbol, err)
		}
		snapshot.Bids = append(snapshot.Bids, level)
	}
	for _, ask := range depth.Asks {
		level, err := levelFromStrings(ask.Price, ask.Quantity)
		if err != nil {
			return nil, fmt.Errorf("errore parsing ask per %s: %w", symbol, err)
		}
		snapshot.Asks = append(snapshot.Asks, level)
	}

	return snapshot, nil
}

// FetchRecentTrades implementa l'interfaccia Exchange
func (b *BinanceExchange) FetchRecentTrades(ctx context.Context, symbol string, limit int) ([]models.MarketTrade, error) {
	trades, err := b.client.NewRecentTradesService().Symbol(symbol).Limit(limit).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("errore fetch trade recenti per %s: %w", symbol, err)
	}

	result := make([]models.MarketTrade, 0, len(trades))
	for _, t := range trades {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("errore parsing prezzo trade per %s: %w", symbol, err)
		}
		qty, err := strconv.ParseFloat(t.Quantity, 64)
		if err != nil {
			return nil, fmt.Errorf("errore parsing quantità trade per %s: %w", symbol, err)
		}
		result = append(result, models.MarketTrade{
			ID:           t.ID,
			Symbol:       symbol,
			Price:        price,
			Quantity:     qty,
			IsBuyerMaker: t.IsBuyerMaker,
			Timestamp:    time.UnixMilli(t.Time),
		})
	}

	return result, nil
}

// candleFromKline converte una kline Binance in una Candle
func candleFromKline(k *binance.Kline) (models.Candle, error) {
	var candle models.Candle
	candle.Timestamp = time.UnixMilli(k.OpenTime)

	fields := []struct {
		raw string
		dst *float64
	}{
		{k.Open, &candle.Open},
		{k.High, &candle.High},
		{k.Low, &candle.Low},
		{k.Close, &candle.Close},
		{k.Volume, &candle.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return models.Candle{}, err
		}
		*f.dst = v
	}

	return candle, nil
}

// levelFromStrings converte una coppia prezzo/quantità in un livello dell'order book
func levelFromStrings(price, quantity string) (models.OrderBookLevel, error) {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return models.OrderBookLevel{}, err
	}
	q, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return models.OrderBookLevel{}, err
	}
	return models.OrderBookLevel{Price: p, Quantity: q}, nil
}
