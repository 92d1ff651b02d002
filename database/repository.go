package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// StockRepository handles typed reads over the stock dataset. The resolution
// pipeline itself executes raw query text; this repository backs the status
// and health surfaces.
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *Database) *StockRepository {
	return &StockRepository{db: db.DB()}
}

// InitSchema ensures the stock tables exist.
func (r *StockRepository) InitSchema() error {
	if err := r.db.AutoMigrate(&StockRecord{}, &StockName{}); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}
	return nil
}

// LatestRecord returns the most recent observation for a symbol, or nil when
// the symbol has no data.
func (r *StockRepository) LatestRecord(symbol int64) (*StockRecord, error) {
	var record StockRecord
	err := r.db.Where(`"Nrnum" = ?`, symbol).Order(`"Date" DESC`).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestRecord: %w", err)
	}
	return &record, nil
}

// RecordCount returns the total number of stock observations.
func (r *StockRepository) RecordCount() (int64, error) {
	var count int64
	if err := r.db.Model(&StockRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("RecordCount: %w", err)
	}
	return count, nil
}

// SymbolCount returns the number of distinct symbols in the name index.
func (r *StockRepository) SymbolCount() (int64, error) {
	var count int64
	if err := r.db.Model(&StockName{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("SymbolCount: %w", err)
	}
	return count, nil
}
