package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"binary-options-terminal/models"
)

// Config rappresenta la configurazione del database locale
type Config struct {
	FilePath string // Percorso del file SQLite
}

// Connect stabilisce una connessione al database SQLite
func Connect(config *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(config.FilePath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configurazione connection pool ottimizzata per SQLite
	sqlDB.SetMaxIdleConns(1)    // SQLite funziona meglio con poche connessioni
	sqlDB.SetMaxOpenConns(1)    // Una sola connessione per SQLite
	sqlDB.SetConnMaxLifetime(0) // Nessun timeout per SQLite

	return db, nil
}

// Migrate esegue le migrazioni per creare le tabelle
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.SessionEntity{},
		&models.TradeStatusEntity{},
		&models.ExpirationBucket{},
		&models.TradeRecord{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.BalanceAudit{},
		&models.NotificationEntity{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes crea indici aggiuntivi per le query delle viste elenco
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_trades_pair_status ON trades (trade_pair, status);",
		"CREATE INDEX IF NOT EXISTS idx_trades_created_status ON trades (created_at, status);",
		"CREATE INDEX IF NOT EXISTS idx_audit_reference ON balance_audit (reference_id, created_at);",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}

// InitializeDatabase inizializza il database con connessione e migrazioni
func InitializeDatabase(config *Config) (*gorm.DB, error) {
	db, err := Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// Close chiude la connessione al database
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifica lo stato del database
func HealthCheck(db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}
