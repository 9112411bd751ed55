// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tgmarket/market-backend/internal/config"
	"github.com/tgmarket/market-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig, environment string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if environment == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// gen_random_uuid() lives in pgcrypto on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.ChatUser{},
		&models.Message{},
		&models.Product{},
		&models.ProductPending{},
		&models.Listing{},
		&models.Exchange{},
		&models.Service{},
		&models.ServiceListing{},
	)
	if err != nil {
		return fmt.Errorf("failed to run auto-migrations: %w", err)
	}

	// Partial unique indexes backing the moderation queue upsert; closed
	// entries keep their history. Resolution misses (no_match, low_score)
	// hold at most one open row per normalized title; conflict reports are
	// keyed per reason so icon and grade conflicts can coexist. AutoMigrate
	// cannot express the WHERE clauses.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_product_pendings_open_miss
			ON product_pendings (normalized_title)
			WHERE status = 'pending' AND deleted_at IS NULL
				AND match_reason IN ('no_match', 'low_score')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_product_pendings_open_conflict
			ON product_pendings (normalized_title, match_reason)
			WHERE status = 'pending' AND deleted_at IS NULL
				AND match_reason IN ('icon_conflict', 'grade_conflict')`,
		`CREATE INDEX IF NOT EXISTS idx_listings_product_posted
			ON listings (product_id, posted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_unparsed
			ON messages (sent_at) WHERE is_parsed = false`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
