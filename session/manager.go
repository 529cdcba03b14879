package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"binary-options-terminal/models"
)

// TokenStore definisce l'interfaccia per la persistenza del token di sessione
// (l'equivalente del local storage del browser)
type TokenStore interface {
	SaveToken(ctx context.Context, token, userID string) error
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Manager è il contesto di sessione unico del processo. Viene costruito una
// volta all'avvio, espone accessor tipizzati su token, user id e profilo, e
// un singolo evento "unauthenticated" a cui tutti i consumatori si
// sottoscrivono: nessuno schermo rilegge o ri-decodifica il token per conto
// proprio.
type Manager struct {
	store TokenStore

	mu      sync.RWMutex
	token   string
	userID  string
	profile *models.Profile

	unauth     chan struct{}
	unauthOnce sync.Once
}

// NewManager crea il manager di sessione caricando l'eventuale token persistito
func NewManager(ctx context.Context, store TokenStore) (*Manager, error) {
	m := &Manager{
		store:  store,
		unauth: make(chan struct{}),
	}

	if store != nil {
		token, err := store.LoadToken(ctx)
		if err != nil {
			log.Printf("Nessun token di sessione persistito: %v", err)
		} else if token != "" {
			if err := m.adopt(token); err != nil {
				log.Printf("Token persistito non decodificabile, ignorato: %v", err)
			}
		}
	}

	return m, nil
}

// SetToken adotta un nuovo token (login riuscito) e lo persiste
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if err := m.adopt(token); err != nil {
		return err
	}
	if m.store != nil {
		if err := m.store.SaveToken(ctx, token, m.UserID()); err != nil {
			return fmt.Errorf("errore persistenza token: %w", err)
		}
	}
	return nil
}

// adopt decodifica il token ed aggiorna lo stato interno
func (m *Manager) adopt(token string) error {
	userID, err := DecodeUserID(token)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.token = token
	m.userID = userID
	m.mu.Unlock()
	return nil
}

// Token restituisce il bearer token corrente (vuoto se non autenticato)
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// UserID restituisce lo user id decodificato dal token
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}

// Authenticated verifica se una sessione è attiva
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Profile restituisce l'ultimo profilo noto (può essere nil)
func (m *Manager) Profile() *models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// SetProfile aggiorna il profilo dopo un refresh dal backend. Il backend è
// l'autorità sul saldo: ogni refresh sovrascrive qualunque delta applicato
// localmente.
func (m *Manager) SetProfile(profile *models.Profile) {
	m.mu.Lock()
	m.profile = profile
	m.mu.Unlock()
}

// AdjustBalance applica un delta ottimistico al saldo locale e restituisce
// vecchio e nuovo valore per l'audit trail
func (m *Manager) AdjustBalance(delta decimal.Decimal) (oldBalance, newBalance decimal.Decimal, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("profilo non caricato")
	}
	oldBalance = m.profile.Balance
	newBalance = oldBalance.Add(delta)
	m.profile.Balance = newBalance
	return oldBalance, newBalance, nil
}

// Invalidate segnala la perdita di autenticazione. L'evento viene emesso una
// sola volta per processo, indipendentemente da quanti 401 arrivino in
// parallelo.
func (m *Manager) Invalidate() {
	m.unauthOnce.Do(func() {
		m.mu.Lock()
		m.token = ""
		m.userID = ""
		m.profile = nil
		m.mu.Unlock()

		if m.store != nil {
			if err := m.store.ClearToken(context.Background()); err != nil {
				log.Printf("Errore pulizia token persistito: %v", err)
			}
		}

		log.Println("Sessione invalidata: evento unauthenticated emesso")
		close(m.unauth)
	})
}

// Unauthenticated restituisce il channel chiuso alla prima invalidazione
func (m *Manager) Unauthenticated() <-chan struct{} {
	return m.unauth
}

// DecodeUserID estrae lo user id dal token senza verificarne la firma: il
// client non possiede la chiave, la verifica è compito del backend
func DecodeUserID(tokenString string) (string, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("errore decodifica token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("claims del token non leggibili")
	}

	for _, key := range []string{"id", "userId", "sub"} {
		if raw, exists := claims[key]; exists {
			if id, ok := raw.(string); ok && id != "" {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("user id assente nel token")
}
