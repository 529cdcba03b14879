package taprocess

import "binary-options-terminal/models"

// TAProcessor definisce l'interfaccia per il calcolo degli indicatori
// visualizzati sul grafico
type TAProcessor interface {
	// ProcessIndicators calcola gli indicatori a partire dai prezzi di
	// chiusura e restituisce una TACandlestick per ogni candela in input
	ProcessIndicators(candles []models.Candle) ([]*models.TACandlestick, error)
}
