// Package database provides storage access for the stock analysis service:
// a raw connection for executing pipeline-produced query text, Postgres
// schema introspection for the generative path, and a GORM layer for schema
// bootstrap and typed reads.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// StockRecord is one dated observation of a stock: price, volume and the
// daily/weekly/monthly trend codes interpreted by the field catalog.
type StockRecord struct {
	Nrnum       int64     `gorm:"column:Nrnum;primaryKey"`
	Date        time.Time `gorm:"column:Date;primaryKey"`
	Price       float64   `gorm:"column:Price"`
	UpsDowns    float64   `gorm:"column:UpsDowns"`
	UpsDownsD   float64   `gorm:"column:UpsDownsD"`
	TheTrendD   int       `gorm:"column:TheTrendD"`
	TheTrendW   int       `gorm:"column:TheTrendW"`
	TheTrendM   int       `gorm:"column:TheTrendM"`
	MainSug     int       `gorm:"column:MainSug"`
	SubSug      int       `gorm:"column:SubSug"`
	Index       float64   `gorm:"column:Index"`
	FinalGradeD float64   `gorm:"column:FinalGradeD"`
	FinalGradeW float64   `gorm:"column:FinalGradeW"`
	FinalGradeM float64   `gorm:"column:FinalGradeM"`
}

// TableName maps StockRecord to the stock_data table.
func (StockRecord) TableName() string { return "stock_data" }

// StockName maps a symbol to its localized and English display names.
type StockName struct {
	Nrnum   int64  `gorm:"column:Nrnum;primaryKey"`
	HebName string `gorm:"column:HebName"`
	EngName string `gorm:"column:EngName"`
}

// TableName maps StockName to the name_index table.
func (StockName) TableName() string { return "name_index" }

// Database holds the GORM database connection used for schema bootstrap and
// typed stock lookups.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
