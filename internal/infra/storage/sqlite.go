package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"alert_relay/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists delivery history in SQLite (pure Go driver).
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the history database at the given path.
func NewStorage(dbPath string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create DB directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.Delivery{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// SaveDelivery records one webhook delivery attempt.
func (s *Storage) SaveDelivery(d *domain.Delivery) error {
	return s.db.Create(d).Error
}

// RecentDeliveries returns the most recent deliveries, newest first.
func (s *Storage) RecentDeliveries(limit int) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	err := s.db.Order("received_at DESC").Limit(limit).Find(&deliveries).Error
	return deliveries, err
}

// DeliveriesByTicker returns recent deliveries for one ticker, newest first.
func (s *Storage) DeliveriesByTicker(ticker string, limit int) ([]domain.Delivery, error) {
	var deliveries []domain.Delivery
	err := s.db.Where("ticker = ?", ticker).Order("received_at DESC").Limit(limit).Find(&deliveries).Error
	return deliveries, err
}

// CountByOutcome returns how many deliveries ended in the given outcome.
func (s *Storage) CountByOutcome(outcome string) (int64, error) {
	var count int64
	err := s.db.Model(&domain.Delivery{}).Where("outcome = ?", outcome).Count(&count).Error
	return count, err
}

// PruneBefore deletes deliveries received before the cutoff and returns how
// many rows went away.
func (s *Storage) PruneBefore(cutoff time.Time) (int64, error) {
	res := s.db.Where("received_at < ?", cutoff).Delete(&domain.Delivery{})
	return res.RowsAffected, res.Error
}
