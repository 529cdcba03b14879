package backend

import (
	"context"
	"net/http"

	"binary-options-terminal/models"
)

// FetchMessages recupera lo storico messaggi della stanza dell'utente
func (c *Client) FetchMessages(ctx context.Context) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	if err := c.doJSON(ctx, http.MethodGet, endpointMessages, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marca come letti i messaggi della stanza. Viene chiamata
// una sola volta ad ogni apertura del pannello chat.
func (c *Client) MarkMessagesRead(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPut, endpointMarkRead, nil, nil)
}
