package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"desadarit/internal/config"
)

// InitDatabase opens the MySQL connection from config and returns a GORM instance.
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every table the API touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&News{},
		&VillageProfile{},
		&Infographics{},
		&ShopProduct{},
		&OrganizationMember{},
		&Banner{},
		&ContactSettings{},
		&APBYear{},
		&APBIncomeCategory{},
		&APBExpenditureCategory{},
		&APBIncome{},
		&APBExpenditure{},
		&Complaint{},
	)
}
