package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"binary-options-terminal/models"
)

// LoginRequest sono le credenziali di accesso
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse è la risposta di login con il token JWT
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest sono i dati di registrazione
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

// VerificationRequest carica i dati di verifica identità
type VerificationRequest struct {
	FullName       string `json:"fullName"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	DocumentImage  string `json:"documentImage"`
}

// Login autentica l'utente e adotta il token nella sessione
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, endpointLogin, LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("login senza token nella risposta")
	}
	if err := c.session.SetToken(ctx, resp.Token); err != nil {
		return fmt.Errorf("errore adozione token: %w", err)
	}
	log.Printf("✅ Login effettuato per %s", email)
	return nil
}

// Register crea un nuovo account sulla piattaforma
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, endpointRegister, req, nil)
}

// FetchProfile recupera il profilo corrente e lo pubblica nella sessione.
// Il saldo restituito dal backend sovrascrive sempre quello locale.
func (c *Client) FetchProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.doJSON(ctx, http.MethodGet, endpointProfile, nil, &profile); err != nil {
		return nil, err
	}
	c.session.SetProfile(&profile)
	return &profile, nil
}

// SubmitVerification invia i documenti per la verifica identità
func (c *Client) SubmitVerification(ctx context.Context, req VerificationRequest) error {
	return c.doJSON(ctx, http.MethodPost, endpointVerify, req, nil)
}
