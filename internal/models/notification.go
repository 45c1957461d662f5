package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is addressed to one user. Rows are append-only; only the
// read flag ever changes after creation.
type Notification struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index"`
	Type      string         `json:"type" gorm:"size:30;index"` // amendment_vote, new_amendment, ...
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      datatypes.JSON `json:"data,omitempty"` // Optional structured payload
	Read      bool           `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// MarkReadRequest defines the body for the mark-read endpoint. An empty or
// omitted id list marks every unread notification owned by the caller.
type MarkReadRequest struct {
	NotificationIDs []uint `json:"notificationIds"`
}
