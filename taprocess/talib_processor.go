package taprocess

import (
	"fmt"

	"github.com/markcheno/go-talib"

	"binary-options-terminal/models"
)

// TalibProcessor implementa TAProcessor usando la libreria go-talib
type TalibProcessor struct {
	// Configurazioni per le finestre delle medie mobili
	SMAShortPeriod int
	SMAMidPeriod   int
	SMALongPeriod  int
	RSIPeriod      int
}

// NewTalibProcessor crea una nuova istanza di TalibProcessor con le finestre
// standard del grafico (7/14/28)
func NewTalibProcessor() *TalibProcessor {
	return &TalibProcessor{
		SMAShortPeriod: 7,
		SMAMidPeriod:   14,
		SMALongPeriod:  28,
		RSIPeriod:      14,
	}
}

// ProcessIndicators implementa l'interfaccia TAProcessor
func (tp *TalibProcessor) ProcessIndicators(candles []models.Candle) ([]*models.TACandlestick, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("slice candele vuota")
	}

	closePrices := make([]float64, len(candles))
	for i, candle := range candles {
		closePrices[i] = candle.Close
	}

	sma7 := Sma(closePrices, tp.SMAShortPeriod)
	sma14 := Sma(closePrices, tp.SMAMidPeriod)
	sma28 := Sma(closePrices, tp.SMALongPeriod)
	rsi14 := rsi(closePrices, tp.RSIPeriod)

	taCandlesticks := make([]*models.TACandlestick, len(candles))
	for i, candle := range candles {
		tc := models.NewTACandlestickFromCandle(candle)
		tc.SMA7 = sma7[i]
		tc.SMA14 = sma14[i]
		tc.SMA28 = sma28[i]
		tc.RSI14 = rsi14[i]
		taCandlesticks[i] = tc
	}

	return taCandlesticks, nil
}

// Sma calcola la media mobile semplice su una finestra. L'output ha la stessa
// lunghezza dell'input; gli indici i < window-1, dove la finestra non è ancora
// piena, valgono nil. Per gli altri indici il valore è la media aritmetica
// degli ultimi window elementi.
func Sma(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	computed := talib.Sma(values, window)
	for i := window - 1; i < len(values); i++ {
		v := computed[i]
		out[i] = &v
	}
	return out
}

// rsi calcola l'RSI con le stesse semantiche nil-prefix delle medie mobili
func rsi(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 || len(values) <= period {
		return out
	}

	computed := talib.Rsi(values, period)
	for i := period; i < len(values); i++ {
		v := computed[i]
		out[i] = &v
	}
	return out
}
