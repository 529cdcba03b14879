package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config contiene tutte le configurazioni dell'applicazione
type Config struct {
	Exchange ExchangeConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Trading  TradingConfig
	LogLevel string
}

// ExchangeConfig contiene le configurazioni per l'exchange upstream
type ExchangeConfig struct {
	RESTBaseURL   string        // Base URL delle API REST pubbliche
	WSBaseURL     string        // Base URL degli stream WebSocket
	QuoteCurrency string        // Valuta quote usata per normalizzare i simboli (es. "USDT")
	SnapshotLimit int           // Numero di candele per lo snapshot storico
	PollInterval  time.Duration // Intervallo del refresh REST ridondante
}

// BackendConfig contiene le configurazioni per il backend account
type BackendConfig struct {
	BaseURL   string // Base URL delle API REST del backend
	SocketURL string // URL del socket di chat
}

// DatabaseConfig contiene le configurazioni del database locale
type DatabaseConfig struct {
	FilePath string // Percorso del file SQLite
}

// TradingConfig contiene le configurazioni del flusso ordini
type TradingConfig struct {
	FlatFee decimal.Decimal // Commissione fissa sottratta ad ogni settlement
}

// Load carica le configurazioni dalle variabili d'ambiente
func Load() (*Config, error) {
	// Carica il file .env se esiste
	_ = godotenv.Load()

	config := &Config{
		Exchange: ExchangeConfig{
			RESTBaseURL:   getEnvOrDefault("EXCHANGE_REST_URL", "https://api.binance.com"),
			WSBaseURL:     getEnvOrDefault("EXCHANGE_WS_URL", "wss://stream.binance.com:9443/ws"),
			QuoteCurrency: getEnvOrDefault("QUOTE_CURRENCY", "USDT"),
			SnapshotLimit: getEnvIntOrDefault("SNAPSHOT_LIMIT", 500),
			PollInterval:  getEnvDurationOrDefault("POLL_INTERVAL", 5*time.Second),
		},
		Backend: BackendConfig{
			BaseURL:   getEnvOrDefault("BACKEND_BASE_URL", "http://localhost:5000"),
			SocketURL: getEnvOrDefault("BACKEND_SOCKET_URL", "ws://localhost:5000/socket"),
		},
		Database: DatabaseConfig{
			FilePath: getEnvOrDefault("DB_FILE_PATH", "./terminal.db"),
		},
		Trading: TradingConfig{
			FlatFee: getEnvDecimalOrDefault("TRADE_FLAT_FEE", decimal.NewFromInt(2)),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return config, nil
}

// getEnvOrDefault restituisce il valore della variabile d'ambiente o un valore di default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault restituisce il valore intero della variabile d'ambiente o un default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault restituisce la durata della variabile d'ambiente o un default
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDecimalOrDefault restituisce il decimale della variabile d'ambiente o un default
func getEnvDecimalOrDefault(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
