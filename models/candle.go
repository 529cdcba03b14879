package models

import "time"

// Timeframe rappresenta l'intervallo temporale di una candela (formato Binance)
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe4h  Timeframe = "4h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
)

// SupportedTimeframes è l'insieme fisso dei timeframe selezionabili dal terminale
var SupportedTimeframes = []Timeframe{
	Timeframe1m, Timeframe5m, Timeframe15m, Timeframe30m,
	Timeframe1h, Timeframe4h, Timeframe1d, Timeframe1w,
}

// IsValid verifica se il timeframe appartiene all'insieme supportato
func (tf Timeframe) IsValid() bool {
	for _, t := range SupportedTimeframes {
		if t == tf {
			return true
		}
	}
	return false
}

// Candle rappresenta una singola candela OHLCV
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// CandleResponse rappresenta la risposta dello snapshot REST delle candele
type CandleResponse struct {
	Candles []Candle `json:"candles"`
	HasMore bool     `json:"has_more"`
}

// KlineUpdate rappresenta un aggiornamento incrementale di candela dallo stream.
// Closed distingue la candela chiusa (commit) da quella ancora in formazione
// (sovrascrittura dell'ultimo punto).
type KlineUpdate struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	Candle    Candle    `json:"candle"`
	Closed    bool      `json:"closed"`
}
