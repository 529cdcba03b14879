package models

import "time"

// TACandlestick rappresenta una candela con i dati OHLCV e gli indicatori
// calcolati per il grafico
type TACandlestick struct {
	// Dati OHLCV della candela
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`

	// Medie mobili semplici sulle chiusure. Puntatori per gestire gli indici
	// iniziali dove la finestra non è ancora piena (valore assente, non zero).
	SMA7  *float64 `json:"sma7,omitempty"`
	SMA14 *float64 `json:"sma14,omitempty"`
	SMA28 *float64 `json:"sma28,omitempty"`
	RSI14 *float64 `json:"rsi14,omitempty"`
}

// NewTACandlestickFromCandle crea un TACandlestick da una Candle esistente
func NewTACandlestickFromCandle(candle Candle) *TACandlestick {
	return &TACandlestick{
		Timestamp: candle.Timestamp,
		Open:      candle.Open,
		High:      candle.High,
		Low:       candle.Low,
		Close:     candle.Close,
		Volume:    candle.Volume,
	}
}

// HasAllIndicators verifica se tutti gli indicatori sono stati calcolati
func (tc *TACandlestick) HasAllIndicators() bool {
	return tc.SMA7 != nil && tc.SMA14 != nil && tc.SMA28 != nil && tc.RSI14 != nil
}

// GetSMA7 restituisce il valore SMA7 o 0 se non calcolato
func (tc *TACandlestick) GetSMA7() float64 {
	if tc.SMA7 == nil {
		return 0
	}
	return *tc.SMA7
}

// GetSMA14 restituisce il valore SMA14 o 0 se non calcolato
func (tc *TACandlestick) GetSMA14() float64 {
	if tc.SMA14 == nil {
		return 0
	}
	return *tc.SMA14
}

// GetSMA28 restituisce il valore SMA28 o 0 se non calcolato
func (tc *TACandlestick) GetSMA28() float64 {
	if tc.SMA28 == nil {
		return 0
	}
	return *tc.SMA28
}
