package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Jurisdiction levels for bills
const (
	LevelFederal = "federal"
	LevelState   = "state"
)

// Bill represents a legislative proposal, created by the ingestion pipeline
// and mutated only by vote aggregation and AI-summary backfill.
type Bill struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ExternalID     string    `json:"-" gorm:"uniqueIndex;size:64"` // Upstream API identifier, upsert key
	Level          string    `json:"level" gorm:"size:10;index"`   // federal or state
	State          *string   `json:"state" gorm:"size:2;index"`    // nil for federal bills
	Chamber        string    `json:"chamber" gorm:"size:10"`
	BillNumber     string    `json:"bill_number" gorm:"size:32"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	AISummary      *string   `json:"ai_summary"`
	Status         string    `json:"status"`
	IntroducedDate time.Time `json:"introduced_date"`
	LastActionDate time.Time `json:"last_action_date" gorm:"index"`
	Sponsor        string    `json:"sponsor" gorm:"size:100"`
	FullTextURL    *string   `json:"full_text_url"`
	Upvotes        int       `json:"upvotes" gorm:"not null;default:0"`
	Downvotes      int       `json:"downvotes" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BillFilter narrows the feed query. A state filter returns the union of
// federal bills and state bills matching the (uppercased) code.
type BillFilter struct {
	Level string
	State string
}
