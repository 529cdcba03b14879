package exchange

import "strings"

// NormalizeSymbol normalizza un simbolo grezzo in una coppia di trading
// upstream: maiuscolo, con la valuta quote aggiunta in coda solo se assente.
// Es. "btc" -> "BTCUSDT", "BTCUSDT" -> "BTCUSDT".
func NormalizeSymbol(raw, quoteCurrency string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	quote := strings.ToUpper(strings.TrimSpace(quoteCurrency))
	if symbol == "" {
		return symbol
	}
	if !strings.HasSuffix(symbol, quote) {
		symbol += quote
	}
	return symbol
}
