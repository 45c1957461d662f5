package models

import "time"

// SavedBill represents a bookmarked bill for a user
type SavedBill struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_bill_save"`
	BillID    string    `json:"bill_id" gorm:"size:36;index;uniqueIndex:idx_user_bill_save"`
	CreatedAt time.Time `json:"created_at"`
}
