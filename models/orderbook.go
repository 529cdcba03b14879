package models

import "time"

// OrderBookLevel rappresenta un livello dell'order book
type OrderBookLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// OrderBookSnapshot rappresenta lo snapshot completo dell'order book.
// Ogni fetch REST o messaggio stream sostituisce interamente lo snapshot
// precedente: i livelli non vengono mai fusi.
type OrderBookSnapshot struct {
	Symbol    string           `json:"symbol"`
	Bids      []OrderBookLevel `json:"bids"`
	Asks      []OrderBookLevel `json:"asks"`
	Timestamp time.Time        `json:"timestamp"`
}

// BestBid restituisce il miglior livello di acquisto, se presente
func (ob *OrderBookSnapshot) BestBid() (OrderBookLevel, bool) {
	if len(ob.Bids) == 0 {
		return OrderBookLevel{}, false
	}
	return ob.Bids[0], true
}

// BestAsk restituisce il miglior livello di vendita, se presente
func (ob *OrderBookSnapshot) BestAsk() (OrderBookLevel, bool) {
	if len(ob.Asks) == 0 {
		return OrderBookLevel{}, false
	}
	return ob.Asks[0], true
}

// MidPrice restituisce il prezzo medio tra miglior bid e miglior ask
func (ob *OrderBookSnapshot) MidPrice() (float64, bool) {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid.Price + ask.Price) / 2, true
}
