package orderflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"binary-options-terminal/backend"
	"binary-options-terminal/models"
	"binary-options-terminal/session"
)

type fixedPrice float64

func (p fixedPrice) CurrentPrice() (float64, bool) { return float64(p), true }

type noPrice struct{}

func (noPrice) CurrentPrice() (float64, bool) { return 0, false }

type fakeTradeStore struct {
	mu     sync.Mutex
	trades []*models.TradeRecord
}

func (s *fakeTradeStore) Create(ctx context.Context, trade *models.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trade)
	return nil
}

func (s *fakeTradeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

type fakeAuditStore struct {
	mu     sync.Mutex
	audits []*models.BalanceAudit
}

func (s *fakeAuditStore) Create(ctx context.Context, audit *models.BalanceAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, audit)
	return nil
}

func (s *fakeAuditStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audits)
}

// newTestFlow prepara un flusso con backend finto e profilo caricato
func newTestFlow(t *testing.T, profile *models.Profile, prices PriceSource) (*Flow, *fakeTradeStore, *fakeAuditStore, *session.Manager, *[]backend.SubmitTradeRequest) {
	t.Helper()

	var received []backend.SubmitTradeRequest
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req backend.SubmitTradeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		received = append(received, req)
		mu.Unlock()
		json.NewEncoder(w).Encode(backend.SubmitTradeResponse{ID: "remote-1", Status: models.TradeStatusPending})
	}))
	t.Cleanup(server.Close)

	sess, err := session.NewManager(context.Background(), nil)
	require.NoError(t, err)
	sess.SetProfile(profile)

	client := backend.NewClient(server.URL, sess)
	trades := &fakeTradeStore{}
	audits := &fakeAuditStore{}
	flow := NewFlow(client, sess, prices, trades, audits, decimal.NewFromInt(2))
	return flow, trades, audits, sess, &received
}

func verifiedProfile(balance int64, outcome models.WinLoseResult) *models.Profile {
	return &models.Profile{
		UserID:           "user-123",
		Balance:          decimal.NewFromInt(balance),
		IdentityVerified: true,
		WinLose:          outcome,
	}
}

func TestSelectOptionUnknownBucket(t *testing.T) {
	flow, _, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))
	err := flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "45s", decimal.NewFromInt(100))
	require.Error(t, err)
	require.Equal(t, StateIdle, flow.State())
}

func TestSelectOptionTransitionsState(t *testing.T) {
	flow, _, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(500)))
	require.Equal(t, StateOptionSelected, flow.State())

	// Ri-selezionare è permesso prima del countdown
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeSell, "60s", decimal.NewFromInt(1000)))
	require.Equal(t, StateOptionSelected, flow.State())
}

func TestBeginRequiresSelectedOption(t *testing.T) {
	flow, _, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))
	err := flow.Begin(context.Background())
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitBlockedWhenIdentityUnverified(t *testing.T) {
	profile := verifiedProfile(5000, models.WinLoseWin)
	profile.IdentityVerified = false
	flow, trades, audits, sess, received := newTestFlow(t, profile, fixedPrice(50000))

	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(500)))
	result := flow.submit(context.Background())

	require.ErrorIs(t, result.Err, ErrIdentityNotVerified)
	require.Equal(t, StateIdle, flow.State())

	// Nessuna mutazione: saldo intatto, niente richieste, niente scritture
	require.True(t, sess.Profile().Balance.Equal(decimal.NewFromInt(5000)))
	require.Zero(t, trades.count())
	require.Zero(t, audits.count())
	require.Empty(t, *received)
}

func TestSubmitAmountOutOfBucketRange(t *testing.T) {
	flow, trades, audits, sess, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))

	// Il bucket 30s accetta 100..1000
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(50)))
	result := flow.submit(context.Background())

	require.Error(t, result.Err)
	require.True(t, sess.Profile().Balance.Equal(decimal.NewFromInt(5000)))
	require.Zero(t, trades.count())
	require.Zero(t, audits.count())
}

func TestSubmitInsufficientBalance(t *testing.T) {
	flow, trades, _, sess, _ := newTestFlow(t, verifiedProfile(300, models.WinLoseWin), fixedPrice(50000))

	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(500)))
	result := flow.submit(context.Background())

	require.ErrorIs(t, result.Err, ErrInsufficientBalance)
	require.True(t, sess.Profile().Balance.Equal(decimal.NewFromInt(300)))
	require.Zero(t, trades.count())
}

func TestSubmitWithoutPrice(t *testing.T) {
	flow, _, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), noPrice{})
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(500)))
	result := flow.submit(context.Background())
	require.ErrorIs(t, result.Err, ErrNoPrice)
}

func TestSubmitWinAppliesIncomeMinusFee(t *testing.T) {
	flow, trades, audits, sess, received := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))

	// 1000 sul bucket 30s al 20%: income 200, fee 2, delta +198
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(1000)))
	result := flow.submit(context.Background())
	require.NoError(t, result.Err)
	require.Equal(t, StateSubmitted, flow.State())

	require.True(t, sess.Profile().Balance.Equal(decimal.NewFromInt(5198)),
		"saldo atteso 5198, ottenuto %s", sess.Profile().Balance)

	require.Equal(t, 1, trades.count())
	trade := trades.trades[0]
	require.NotEmpty(t, trade.ReferenceID)
	require.Equal(t, "remote-1", trade.RemoteID)
	require.Equal(t, models.WinLoseWin, trade.WinLose)
	require.True(t, trade.EstimatedIncome.Equal(decimal.NewFromInt(200)))
	require.Equal(t, 50000.0, trade.EntryPrice)

	require.Equal(t, 1, audits.count())
	audit := audits.audits[0]
	require.Equal(t, trade.ReferenceID, audit.ReferenceID)

	require.Len(t, *received, 1)
	require.Equal(t, "30s", (*received)[0].ExpirationTime)
	require.Equal(t, trade.ReferenceID, (*received)[0].ReferenceID)
}

func TestSubmitLoseAppliesStakeAndFee(t *testing.T) {
	flow, trades, _, sess, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseLose), fixedPrice(50000))

	// 1000 sul bucket 30s in perdita: delta -(1000+2)
	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeSell, "30s", decimal.NewFromInt(1000)))
	result := flow.submit(context.Background())
	require.NoError(t, result.Err)

	require.True(t, sess.Profile().Balance.Equal(decimal.NewFromInt(3998)),
		"saldo atteso 3998, ottenuto %s", sess.Profile().Balance)
	require.Equal(t, models.WinLoseLose, trades.trades[0].WinLose)
}

func TestCountdownAutoSubmitsAtZero(t *testing.T) {
	flow, _, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))
	flow.tick = time.Millisecond

	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(1000)))
	require.NoError(t, flow.Begin(context.Background()))
	require.Equal(t, StateCounting, flow.State())

	select {
	case result := <-flow.Results():
		require.NoError(t, result.Err)
		require.NotNil(t, result.Trade)
	case <-time.After(5 * time.Second):
		t.Fatal("il countdown non ha mai inviato l'ordine")
	}
	require.Equal(t, StateSubmitted, flow.State())
}

func TestAbortCancelsCountdown(t *testing.T) {
	flow, trades, _, _, _ := newTestFlow(t, verifiedProfile(5000, models.WinLoseWin), fixedPrice(50000))

	require.NoError(t, flow.SelectOption("BTCUSDT", models.TradeTypeBuy, "30s", decimal.NewFromInt(1000)))
	require.NoError(t, flow.Begin(context.Background()))
	flow.Abort()

	require.Eventually(t, func() bool {
		return flow.State() == StateIdle
	}, 2*time.Second, 10*time.Millisecond)
	require.Zero(t, trades.count())
}
