package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome of a lookup, stored on the audit trail.
type LookupOutcome string

const (
	OutcomeOK       LookupOutcome = "ok"
	OutcomeInvalid  LookupOutcome = "invalid"
	OutcomeNotFound LookupOutcome = "not_found"
)

// LookupEvent is a single audited lookup.
type LookupEvent struct {
	ID         uint          `gorm:"primaryKey"`
	RequestID  uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null"`
	Query      string        `gorm:"type:varchar(255);not null"`
	Outcome    LookupOutcome `gorm:"type:lookup_outcome;not null"`
	SpeciesID  *int          `gorm:"index"`
	SpriteURL  string        `gorm:"type:text"`
	DurationMs int64         `gorm:"not null"`
	Source     string        `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time     `gorm:"index"`
}

// TableName overrides the gorm pluralization.
func (LookupEvent) TableName() string {
	return "lookup_events"
}
