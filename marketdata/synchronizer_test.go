package marketdata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"binary-options-terminal/models"
)

// fakeExchange implementa exchange.Exchange restituendo dati fissi
type fakeExchange struct {
	mu         sync.Mutex
	klineCalls int
	candles    []models.Candle
}

func (f *fakeExchange) FetchKlines(ctx context.Context, symbol string, timeframe models.Timeframe, limit int) (*models.CandleResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.klineCalls++
	out := make([]models.Candle, len(f.candles))
	copy(out, f.candles)
	return &models.CandleResponse{Candles: out}, nil
}

func (f *fakeExchange) FetchTickerStats(ctx context.Context, symbol string) (*models.TickerStats, error) {
	return &models.TickerStats{Symbol: symbol, LastPrice: 100}, nil
}

func (f *fakeExchange) FetchOrderBook(ctx context.Context, symbol string, limit int) (*models.OrderBookSnapshot, error) {
	return &models.OrderBookSnapshot{Symbol: symbol}, nil
}

func (f *fakeExchange) FetchRecentTrades(ctx context.Context, symbol string, limit int) ([]models.MarketTrade, error) {
	return nil, nil
}

func (f *fakeExchange) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.klineCalls
}

// fakeStreamer consegna al test il channel degli update e blocca fino alla
// cancellazione del context, come farebbe una connessione reale
type fakeStreamer struct {
	started chan chan<- *models.KlineUpdate
}

func newFakeStreamer() *fakeStreamer {
	return &fakeStreamer{started: make(chan chan<- *models.KlineUpdate, 1)}
}

func (f *fakeStreamer) KlineStream(ctx context.Context, symbol string, timeframe models.Timeframe, updateChan chan<- *models.KlineUpdate, errChan chan<- error) error {
	f.started <- updateChan
	<-ctx.Done()
	return nil
}

func testCandles(n int) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		price := float64(100 + i)
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    10,
		}
	}
	return candles
}

func TestSubscribeAppliesSnapshot(t *testing.T) {
	ex := &fakeExchange{candles: testCandles(30)}
	s := NewSynchronizer(ex, newFakeStreamer(), "USDT", 500, time.Hour)

	sub, err := s.Subscribe(context.Background(), "btc", models.Timeframe1m)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.Equal(t, "BTCUSDT", sub.Symbol)

	require.Eventually(t, func() bool {
		return !sub.Loading()
	}, 2*time.Second, 10*time.Millisecond)

	candles := sub.Candles()
	require.Len(t, candles, 30)

	price, ok := sub.CurrentPrice()
	require.True(t, ok)
	require.Equal(t, 129.0, price)

	// Gli indicatori vengono ricalcolati insieme allo snapshot
	indicators := sub.Indicators()
	require.Len(t, indicators, 30)
	require.Nil(t, indicators[5].SMA7)
	require.NotNil(t, indicators[6].SMA7)
}

func TestSubscribeInvalidTimeframe(t *testing.T) {
	s := NewSynchronizer(&fakeExchange{}, newFakeStreamer(), "USDT", 500, time.Hour)
	_, err := s.Subscribe(context.Background(), "btc", models.Timeframe("7m"))
	require.Error(t, err)
}

func TestKlineUpdateOverwriteThenAppend(t *testing.T) {
	candles := testCandles(5)
	ex := &fakeExchange{candles: candles}
	streamer := newFakeStreamer()
	s := NewSynchronizer(ex, streamer, "USDT", 500, time.Hour)

	sub, err := s.Subscribe(context.Background(), "btc", models.Timeframe1m)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return !sub.Loading() }, 2*time.Second, 10*time.Millisecond)

	updateChan := <-streamer.started
	last := candles[len(candles)-1]

	// Candela in formazione: stesso timestamp, sovrascrive l'ultimo punto
	forming := last
	forming.Close = 999
	updateChan <- &models.KlineUpdate{Symbol: sub.Symbol, Timeframe: sub.Timeframe, Candle: forming}

	require.Eventually(t, func() bool {
		price, _ := sub.CurrentPrice()
		return price == 999
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, sub.Candles(), 5)

	// Candela nuova: timestamp successivo, viene accodata
	next := forming
	next.Timestamp = forming.Timestamp.Add(time.Minute)
	next.Close = 1001
	updateChan <- &models.KlineUpdate{Symbol: sub.Symbol, Timeframe: sub.Timeframe, Candle: next, Closed: true}

	require.Eventually(t, func() bool {
		return len(sub.Candles()) == 6
	}, 2*time.Second, 10*time.Millisecond)
	price, _ := sub.CurrentPrice()
	require.Equal(t, 1001.0, price)
}

func TestKlineUpdateRespectsSnapshotLimit(t *testing.T) {
	candles := testCandles(3)
	ex := &fakeExchange{candles: candles}
	streamer := newFakeStreamer()
	s := NewSynchronizer(ex, streamer, "USDT", 3, time.Hour)

	sub, err := s.Subscribe(context.Background(), "btc", models.Timeframe1m)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.Eventually(t, func() bool { return !sub.Loading() }, 2*time.Second, 10*time.Millisecond)

	updateChan := <-streamer.started
	ts := candles[len(candles)-1].Timestamp
	for i := 1; i <= 4; i++ {
		c := models.Candle{Timestamp: ts.Add(time.Duration(i) * time.Minute), Close: float64(i)}
		updateChan <- &models.KlineUpdate{Symbol: sub.Symbol, Timeframe: sub.Timeframe, Candle: c, Closed: true}
	}

	require.Eventually(t, func() bool {
		price, _ := sub.CurrentPrice()
		return price == 4.0
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, sub.Candles(), 3)
}

func TestUnsubscribeReleasesResources(t *testing.T) {
	ex := &fakeExchange{candles: testCandles(5)}
	s := NewSynchronizer(ex, newFakeStreamer(), "USDT", 500, 20*time.Millisecond)

	sub, err := s.Subscribe(context.Background(), "btc", models.Timeframe1m)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !sub.Loading() }, 2*time.Second, 10*time.Millisecond)

	sub.Unsubscribe()
	require.True(t, sub.Closed())

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("risorse non rilasciate dopo Unsubscribe")
	}

	// Il polling deve essersi fermato: nessun nuovo fetch dopo il teardown
	callsAfterClose := ex.calls()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, callsAfterClose, ex.calls())

	// Il secondo Unsubscribe è un no-op
	sub.Unsubscribe()
}
