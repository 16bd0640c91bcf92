// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/config"
	"github.com/RECTOR-LABS/ojk-ekraf-hackathon-sub000/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
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

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.Account{},
		&models.Registration{},
		&models.Token{},
		&models.Listing{},
		&models.Sale{},
		&models.AssetUpload{},
		&models.Notification{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Registration indexes
		"CREATE INDEX IF NOT EXISTS idx_registrations_creator ON registrations(creator_address)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_asset_type ON registrations(asset_type)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_registered_at ON registrations(registered_at DESC)",

		// Token indexes
		"CREATE INDEX IF NOT EXISTS idx_tokens_owner ON tokens(owner_address)",
		"CREATE INDEX IF NOT EXISTS idx_tokens_creator ON tokens(creator_address)",

		// Listing indexes
		"CREATE INDEX IF NOT EXISTS idx_listings_seller_status ON listings(seller_address, status)",
		"CREATE INDEX IF NOT EXISTS idx_listings_status_listed ON listings(status, listed_at DESC)",

		// Sale indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_buyer ON sales(buyer_address)",
		"CREATE INDEX IF NOT EXISTS idx_sales_seller ON sales(seller_address)",
		"CREATE INDEX IF NOT EXISTS idx_sales_sold_at ON sales(sold_at DESC)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient_status ON notifications(recipient_address, status)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_actor_action ON audit_logs(actor_address, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_registrations_search ON registrations USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData promotes the platform fee recipient to an admin account so
// there is always one admin after a fresh deploy.
func SeedInitialData(db *gorm.DB, adminAddress string) error {
	log.Println("Seeding initial data...")

	if adminAddress == "" {
		return nil
	}
	adminAddress = strings.ToLower(adminAddress)

	var count int64
	db.Model(&models.Account{}).Where("address = ?", adminAddress).Count(&count)

	if count == 0 {
		admin := &models.Account{
			Address:     adminAddress,
			DisplayName: "Platform Admin",
			IsAdmin:     true,
			ProfileData: models.JSONB{
				"role": "platform_admin",
			},
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}

		log.Println("Default admin account created successfully")
	} else {
		db.Model(&models.Account{}).Where("address = ?", adminAddress).Update("is_admin", true)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
