package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"binary-options-terminal/session"
)

// Endpoint del backend della piattaforma
const (
	endpointLogin        = "/api/auth/login"
	endpointRegister     = "/api/auth/register"
	endpointProfile      = "/api/auth/profile"
	endpointVerify       = "/api/auth/verification"
	endpointTrades       = "/api/trade/alltrades"
	endpointSubmitTrade  = "/api/trade/newtrade"
	endpointDeposits     = "/api/deposit/alldeposits"
	endpointNewDeposit   = "/api/deposit/newdeposit"
	endpointWithdrawals  = "/api/withdraw/allwithdraws"
	endpointNewWithdraw  = "/api/withdraw/newwithdraw"
	endpointAddresses    = "/api/admin/alladdresses"
	endpointMessages     = "/api/message/allmessages"
	endpointMarkRead     = "/api/message/markread"
	endpointNotification = "/api/notification/allnotifications"
)

// ErrUnauthorized viene restituito quando il backend risponde 401: la
// sessione è già stata invalidata quando l'errore arriva al chiamante
var ErrUnauthorized = errors.New("sessione non autorizzata")

// Client è il client HTTP verso il backend della piattaforma. Ogni richiesta
// autenticata porta il bearer token di sessione; ogni 401 invalida la
// sessione tramite il manager.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

// NewClient crea il client verso il backend
func NewClient(baseURL string, sess *session.Manager) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		session: sess,
	}
}

// errorResponse è la forma degli errori applicativi del backend
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON esegue una richiesta con body JSON e decodifica la risposta in out
func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("errore serializzazione richiesta: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("errore creazione richiesta: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// do esegue la richiesta gestendo autenticazione, 401 e decodifica
func (c *Client) do(req *http.Request, out interface{}) error {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("errore richiesta %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Printf("⚠️ 401 da %s: invalido la sessione", req.URL.Path)
		c.session.Invalidate()
		return ErrUnauthorized
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("errore lettura risposta %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil {
			if apiErr.Message != "" {
				return fmt.Errorf("backend %s (%d): %s", req.URL.Path, resp.StatusCode, apiErr.Message)
			}
			if apiErr.Error != "" {
				return fmt.Errorf("backend %s (%d): %s", req.URL.Path, resp.StatusCode, apiErr.Error)
			}
		}
		return fmt.Errorf("backend %s: status %d", req.URL.Path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("errore decodifica risposta %s: %w", req.URL.Path, err)
		}
	}

	return nil
}
