package book

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"binary-options-terminal/models"
)

// newStreamServer avvia un server websocket che esegue handler su ogni
// connessione e restituisce il base URL ws://
func newStreamServer(t *testing.T, handler func(path string, conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		handler(r.URL.Path, conn)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestKlineStreamParsesEventsAndStopsOnCancel(t *testing.T) {
	klineJSON := `{"e":"kline","E":1700000000000,"s":"BTCUSDT","k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m","o":"50000.1","c":"50100.5","h":"50200","l":"49900","v":"12.5","x":false}}`

	var gotPath string
	baseURL := newStreamServer(t, func(path string, conn *websocket.Conn) {
		gotPath = path
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(klineJSON)))
		// Tiene la connessione aperta finché il client non la chiude
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	streamer := NewBinanceStreamer(baseURL)
	ctx, cancel := context.WithCancel(context.Background())

	updateChan := make(chan *models.KlineUpdate, 10)
	errChan := make(chan error, 1)
	done := make(chan error, 1)
	go func() {
		done <- streamer.KlineStream(ctx, "BTCUSDT", models.Timeframe1m, updateChan, errChan)
	}()

	select {
	case update := <-updateChan:
		require.Equal(t, "BTCUSDT", update.Symbol)
		require.Equal(t, models.Timeframe1m, update.Timeframe)
		require.Equal(t, 50000.1, update.Candle.Open)
		require.Equal(t, 50100.5, update.Candle.Close)
		require.Equal(t, 12.5, update.Candle.Volume)
		require.False(t, update.Closed)
		require.Equal(t, time.UnixMilli(1700000000000), update.Candle.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("nessun aggiornamento kline ricevuto")
	}

	// Lo stream è indirizzato dal path dell'URL
	require.Equal(t, "/btcusdt@kline_1m", gotPath)

	// La cancellazione del context termina lo stream senza errore
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("lo stream non si è fermato alla cancellazione del context")
	}
}

func TestKlineStreamIgnoresForeignEvents(t *testing.T) {
	baseURL := newStreamServer(t, func(path string, conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"result":null,"id":1}`)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"e":"kline","s":"BTCUSDT","k":{"t":1700000000000,"i":"1m","o":"1","c":"2","h":"3","l":"0.5","v":"7","x":true}}`)))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	streamer := NewBinanceStreamer(baseURL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updateChan := make(chan *models.KlineUpdate, 10)
	errChan := make(chan error, 1)
	go streamer.KlineStream(ctx, "BTCUSDT", models.Timeframe1m, updateChan, errChan)

	select {
	case update := <-updateChan:
		// Il messaggio di servizio viene saltato, arriva solo l'evento kline
		require.True(t, update.Closed)
		require.Equal(t, 2.0, update.Candle.Close)
	case <-time.After(2 * time.Second):
		t.Fatal("nessun aggiornamento kline ricevuto")
	}
}

func TestDepthStreamFullReplacementSnapshot(t *testing.T) {
	depthJSON := `{"lastUpdateId":160,"bids":[["50000.0","1.5"],["49999.0","2.0"]],"asks":[["50001.0","0.7"]]}`

	var gotPath string
	baseURL := newStreamServer(t, func(path string, conn *websocket.Conn) {
		gotPath = path
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(depthJSON)))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	streamer := NewBinanceStreamer(baseURL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updateChan := make(chan *models.OrderBookSnapshot, 10)
	errChan := make(chan error, 1)
	go streamer.DepthStream(ctx, "BTCUSDT", 20, updateChan, errChan)

	select {
	case snapshot := <-updateChan:
		require.Len(t, snapshot.Bids, 2)
		require.Len(t, snapshot.Asks, 1)

		best, ok := snapshot.BestBid()
		require.True(t, ok)
		require.Equal(t, 50000.0, best.Price)
		require.Equal(t, 1.5, best.Quantity)
	case <-time.After(2 * time.Second):
		t.Fatal("nessuno snapshot depth ricevuto")
	}

	require.Equal(t, "/btcusdt@depth20@100ms", gotPath)
}

func TestTradeStreamParsesTradePrints(t *testing.T) {
	tradeJSON := `{"e":"trade","E":1700000000000,"s":"BTCUSDT","t":42,"p":"50050.5","q":"0.25","T":1700000000100,"m":true}`

	baseURL := newStreamServer(t, func(path string, conn *websocket.Conn) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tradeJSON)))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	streamer := NewBinanceStreamer(baseURL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updateChan := make(chan *models.MarketTrade, 10)
	errChan := make(chan error, 1)
	go streamer.TradeStream(ctx, "BTCUSDT", updateChan, errChan)

	select {
	case trade := <-updateChan:
		require.EqualValues(t, 42, trade.ID)
		require.Equal(t, 50050.5, trade.Price)
		require.Equal(t, 0.25, trade.Quantity)
		require.True(t, trade.IsBuyerMaker)
	case <-time.After(2 * time.Second):
		t.Fatal("nessun trade ricevuto")
	}
}
