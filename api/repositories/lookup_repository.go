package repositories

import (
	"context"
	"fmt"

	"pokelookup/pkg/database/models"

	"gorm.io/gorm"
)

// Public Interface.
type LookupRepository interface {
	RecordLookup(ctx context.Context, event *models.LookupEvent) error
}

// Lookup repository structure.
type lookupRepository struct {
	db *gorm.DB
}

// Create a lookup repository.
func NewLookupRepository(db *gorm.DB) (LookupRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("couldn't create the lookup repository: nil database")
	}
	return &lookupRepository{db: db}, nil
}

// RecordLookup appends a lookup to the audit trail.
// The rows are write only, lookups never read them back.
func (lr *lookupRepository) RecordLookup(ctx context.Context, event *models.LookupEvent) error {
	if err := lr.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("couldn't insert the lookup event: %w", err)
	}
	return nil
}
