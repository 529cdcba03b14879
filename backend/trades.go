package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"binary-options-terminal/models"
)

// SubmitTradeRequest è il payload di creazione di un'opzione binaria
type SubmitTradeRequest struct {
	ReferenceID     string           `json:"referenceId"`
	TradePair       string           `json:"tradePair"`
	TradeType       models.TradeType `json:"tradeType"`
	TradingAmount   decimal.Decimal  `json:"tradingAmountUSD"`
	ExpirationTime  string           `json:"expirationTime"`
	EstimatedIncome decimal.Decimal  `json:"estimatedIncome"`
	EntryPrice      decimal.Decimal  `json:"entryPrice"`
}

// SubmitTradeResponse è la conferma del backend con l'id remoto
type SubmitTradeResponse struct {
	ID     string             `json:"_id"`
	Status models.TradeStatus `json:"status"`
}

// SubmitTrade invia una nuova operazione al backend
func (c *Client) SubmitTrade(ctx context.Context, req SubmitTradeRequest) (*SubmitTradeResponse, error) {
	var resp SubmitTradeResponse
	if err := c.doJSON(ctx, http.MethodPost, endpointSubmitTrade, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchTrades recupera l'intero storico operazioni dell'utente. La
// paginazione è interamente a carico del client.
func (c *Client) FetchTrades(ctx context.Context) ([]models.TradeRecord, error) {
	var trades []models.TradeRecord
	if err := c.doJSON(ctx, http.MethodGet, endpointTrades, nil, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// FetchNotifications recupera le notifiche dell'utente
func (c *Client) FetchNotifications(ctx context.Context) ([]models.NotificationEntity, error) {
	var notifications []models.NotificationEntity
	if err := c.doJSON(ctx, http.MethodGet, endpointNotification, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}
