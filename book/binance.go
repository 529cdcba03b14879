package book

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"binary-options-terminal/models"
)

// BinanceStreamer implementa Streamer per gli stream spot pubblici di Binance.
// A differenza di altri exchange non serve alcun messaggio di sottoscrizione:
// lo stream è indirizzato direttamente dal path dell'URL.
type BinanceStreamer struct {
	wsBaseURL string
}

// NewBinanceStreamer crea una nuova istanza di BinanceStreamer
func NewBinanceStreamer(wsBaseURL string) *BinanceStreamer {
	if wsBaseURL == "" {
		wsBaseURL = "wss://stream.binance.com:9443/ws"
	}
	return &BinanceStreamer{wsBaseURL: wsBaseURL}
}

// binanceKlineEvent rappresenta l'evento kline nativo dello stream Binance
type binanceKlineEvent struct {
	EventType string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
	Kline     struct {
		StartTime int64  `json:"t"`
		CloseTime int64  `json:"T"`
		Symbol    string `json:"s"`
		Interval  string `json:"i"`
		Open      string `json:"o"`
		Close     string `json:"c"`
		High      string `json:"h"`
		Low       string `json:"l"`
		Volume    string `json:"v"`
		Closed    bool   `json:"x"`
	} `json:"k"`
}

// binanceDepthEvent rappresenta lo snapshot parziale dell'order book
// (stream @depth<N>): sostituzione completa, non delta
type binanceDepthEvent struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// binanceTradeEvent rappresenta un trade print dello stream @trade
type binanceTradeEvent struct {
	EventType    string `json:"e"`
	EventTime    int64  `json:"E"`
	Symbol       string `json:"s"`
	TradeID      int64  `json:"t"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// KlineStream implementa l'interfaccia KlineStreamer
func (b *BinanceStreamer) KlineStream(
	ctx context.Context,
	symbol string,
	timeframe models.Timeframe,
	updateChan chan<- *models.KlineUpdate,
	errChan chan<- error,
) error {
	streamURL := fmt.Sprintf("%s/%s@kline_%s", b.wsBaseURL, strings.ToLower(symbol), timeframe)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("errore connessione stream kline %s %s: %w", symbol, timeframe, err)
	}
	defer conn.Close()

	log.Printf("Stream kline aperto per %s @ %s", symbol, timeframe)

	// Chiude la connessione alla cancellazione del context per sbloccare ReadMessage
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				sendErr(errChan, fmt.Errorf("errore lettura stream kline %s: %w", symbol, err))
				return err
			}

			var event binanceKlineEvent
			if err := json.Unmarshal(message, &event); err != nil {
				// Ignora messaggi che non sono eventi kline
				continue
			}
			if event.EventType != "kline" {
				continue
			}

			update, err := klineUpdateFromEvent(&event)
			if err != nil {
				log.Printf("Errore parsing evento kline per %s: %v", symbol, err)
				continue
			}

			select {
			case updateChan <- update:
			default:
				// Channel pieno, salta questo aggiornamento
			}
		}
	}
}

// DepthStream implementa l'interfaccia DepthStreamer
func (b *BinanceStreamer) DepthStream(
	ctx context.Context,
	symbol string,
	depth int,
	updateChan chan<- *models.OrderBookSnapshot,
	errChan chan<- error,
) error {
	// Binance supporta 5/10/20 livelli per lo stream parziale
	if depth > 20 {
		depth = 20
	}
	streamURL := fmt.Sprintf("%s/%s@depth%d@100ms", b.wsBaseURL, strings.ToLower(symbol), depth)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("errore connessione stream depth %s: %w", symbol, err)
	}
	defer conn.Close()

	log.Printf("Stream depth aperto per %s (%d livelli)", symbol, depth)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				sendErr(errChan, fmt.Errorf("errore lettura stream depth %s: %w", symbol, err))
				return err
			}

			var event binanceDepthEvent
			if err := json.Unmarshal(message, &event); err != nil {
				continue
			}

			snapshot, err := snapshotFromDepthEvent(symbol, &event)
			if err != nil {
				log.Printf("Errore parsing evento depth per %s: %v", symbol, err)
				continue
			}

			select {
			case updateChan <- snapshot:
			default:
			}
		}
	}
}

// TradeStream implementa l'interfaccia TradeStreamer
func (b *BinanceStreamer) TradeStream(
	ctx context.Context,
	symbol string,
	updateChan chan<- *models.MarketTrade,
	errChan chan<- error,
) error {
	streamURL := fmt.Sprintf("%s/%s@trade", b.wsBaseURL, strings.ToLower(symbol))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("errore connessione stream trade %s: %w", symbol, err)
	}
	defer conn.Close()

	log.Printf("Stream trade aperto per %s", symbol)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				sendErr(errChan, fmt.Errorf("errore lettura stream trade %s: %w", symbol, err))
				return err
			}

			var event binanceTradeEvent
			if err := json.Unmarshal(message, &event); err != nil {
				continue
			}
			if event.EventType != "trade" {
				continue
			}

			price, err := strconv.ParseFloat(event.Price, 64)
			if err != nil {
				log.Printf("Errore parsing prezzo trade per %s: %v", symbol, err)
				continue
			}
			qty, err := strconv.ParseFloat(event.Quantity, 64)
			if err != nil {
				log.Printf("Errore parsing quantità trade per %s: %v", symbol, err)
				continue
			}

			trade := &models.MarketTrade{
				ID:           event.TradeID,
				Symbol:       event.Symbol,
				Price:        price,
				Quantity:     qty,
				IsBuyerMaker: event.IsBuyerMaker,
				Timestamp:    time.UnixMilli(event.TradeTime),
			}

			select {
			case updateChan <- trade:
			default:
			}
		}
	}
}

// klineUpdateFromEvent converte l'evento nativo in un KlineUpdate
func klineUpdateFromEvent(event *binanceKlineEvent) (*models.KlineUpdate, error) {
	candle := models.Candle{
		Timestamp: time.UnixMilli(event.Kline.StartTime),
	}

	fields := []struct {
		raw string
		dst *float64
	}{
		{event.Kline.Open, &candle.Open},
		{event.Kline.High, &candle.High},
		{event.Kline.Low, &candle.Low},
		{event.Kline.Close, &candle.Close},
		{event.Kline.Volume, &candle.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	return &models.KlineUpdate{
		Symbol:    event.Symbol,
		Timeframe: models.Timeframe(event.Kline.Interval),
		Candle:    candle,
		Closed:    event.Kline.Closed,
	}, nil
}

// snapshotFromDepthEvent converte l'evento depth in uno snapshot completo
func snapshotFromDepthEvent(symbol string, event *binanceDepthEvent) (*models.OrderBookSnapshot, error) {
	snapshot := &models.OrderBookSnapshot{
		Symbol:    symbol,
		Bids:      make([]models.OrderBookLevel, 0, len(event.Bids)),
		Asks:      make([]models.OrderBookLevel, 0, len(event.Asks)),
		Timestamp: time.Now().UTC(),
	}

	for _, raw := range event.Bids {
		level, err := parseLevel(raw)
		if err != nil {
			return nil, err
		}
		snapshot.Bids = append(snapshot.Bids, level)
	}
	for _, raw := range event.Asks {
		level, err := parseLevel(raw)
		if err != nil {
			return nil, err
		}
		snapshot.Asks = append(snapshot.Asks, level)
	}

	return snapshot, nil
}

// parseLevel converte una coppia [prezzo, quantità] in un livello
func parseLevel(raw []string) (models.OrderBookLevel, error) {
	if len(raw) < 2 {
		return models.OrderBookLevel{}, fmt.Errorf("livello order book malformato: %v", raw)
	}
	price, err := strconv.ParseFloat(raw[0], 64)
	if err != nil {
		return models.OrderBookLevel{}, err
	}
	qty, err := strconv.ParseFloat(raw[1], 64)
	if err != nil {
		return models.OrderBookLevel{}, err
	}
	return models.OrderBookLevel{Price: price, Quantity: qty}, nil
}

// sendErr invia un errore senza bloccare se il channel è pieno
func sendErr(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}
