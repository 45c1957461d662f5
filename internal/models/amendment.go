package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Amendment is a user-proposed change to a bill. Immutable after creation
// except for the vote counters, which only the voting engine writes.
type Amendment struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	BillID         string    `json:"bill_id" gorm:"size:36;index"`
	UserID         uint      `json:"user_id" gorm:"index"`
	Content        string    `json:"content"`         // Raw text as submitted
	CleanedContent string    `json:"cleaned_content"` // Moderated text
	Upvotes        int       `json:"upvotes" gorm:"not null;default:0"`
	Downvotes      int       `json:"downvotes" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`

	Author UserCompact `json:"author" gorm:"-"`
}

func (a *Amendment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// CreateAmendmentRequest defines the request body for proposing an amendment
type CreateAmendmentRequest struct {
	Content string `json:"content" validate:"required"`
}
