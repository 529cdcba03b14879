package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		quote    string
		expected string
	}{
		{"minuscolo senza quote", "btc", "USDT", "BTCUSDT"},
		{"maiuscolo senza quote", "ETH", "USDT", "ETHUSDT"},
		{"quote già presente", "BTCUSDT", "USDT", "BTCUSDT"},
		{"quote presente minuscolo", "btcusdt", "USDT", "BTCUSDT"},
		{"spazi intorno", "  sol  ", "USDT", "SOLUSDT"},
		{"case misto", "dOgE", "USDT", "DOGEUSDT"},
		{"quote diversa", "btc", "BUSD", "BTCBUSD"},
		{"stringa vuota", "", "USDT", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, NormalizeSymbol(tt.raw, tt.quote))
		})
	}
}
