package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/shopspring/decimal"

	"binary-options-terminal/models"
)

// FetchDeposits recupera tutti i depositi dell'utente
func (c *Client) FetchDeposits(ctx context.Context) ([]models.Deposit, error) {
	var deposits []models.Deposit
	if err := c.doJSON(ctx, http.MethodGet, endpointDeposits, nil, &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

// CreateDeposit registra una richiesta di deposito caricando la prova di
// pagamento come multipart
func (c *Client) CreateDeposit(ctx context.Context, amount decimal.Decimal, cryptoType, proofName string, proof io.Reader) (*models.Deposit, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("amount", amount.String()); err != nil {
		return nil, fmt.Errorf("errore composizione multipart: %w", err)
	}
	if err := writer.WriteField("cryptoType", cryptoType); err != nil {
		return nil, fmt.Errorf("errore composizione multipart: %w", err)
	}
	part, err := writer.CreateFormFile("proofOfDeposit", proofName)
	if err != nil {
		return nil, fmt.Errorf("errore composizione multipart: %w", err)
	}
	if _, err := io.Copy(part, proof); err != nil {
		return nil, fmt.Errorf("errore copia prova deposito: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("errore chiusura multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpointNewDeposit, &buf)
	if err != nil {
		return nil, fmt.Errorf("errore creazione richiesta: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var deposit models.Deposit
	if err := c.do(req, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

// CancelDeposit chiede al backend di annullare un deposito pendente
func (c *Client) CancelDeposit(ctx context.Context, depositID string) error {
	endpoint := fmt.Sprintf("%s/%s", endpointDeposits, depositID)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// FetchWithdrawals recupera tutti i prelievi dell'utente
func (c *Client) FetchWithdrawals(ctx context.Context) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	if err := c.doJSON(ctx, http.MethodGet, endpointWithdrawals, nil, &withdrawals); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// WithdrawRequest è il payload di richiesta prelievo
type WithdrawRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	CryptoType    string          `json:"cryptoType"`
	WalletAddress string          `json:"walletAddress"`
}

// CreateWithdrawal registra una richiesta di prelievo
func (c *Client) CreateWithdrawal(ctx context.Context, req WithdrawRequest) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := c.doJSON(ctx, http.MethodPost, endpointNewWithdraw, req, &withdrawal); err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// CancelWithdrawal chiede al backend di annullare un prelievo pendente
func (c *Client) CancelWithdrawal(ctx context.Context, withdrawalID string) error {
	endpoint := fmt.Sprintf("%s/%s", endpointWithdrawals, withdrawalID)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// FetchDepositAddresses recupera gli indirizzi crypto della piattaforma su
// cui effettuare i depositi
func (c *Client) FetchDepositAddresses(ctx context.Context) ([]models.AdminAddress, error) {
	var addresses []models.AdminAddress
	if err := c.doJSON(ctx, http.MethodGet, endpointAddresses, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
