package models

import "time"

// VoteType is a vote direction on a bill or amendment
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

// Vote is one user's vote on one bill. The composite unique index is the
// serialization point for concurrent votes on the same pair.
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_bill_vote"`
	BillID    string    `json:"bill_id" gorm:"size:36;index;uniqueIndex:idx_user_bill_vote"`
	VoteType  VoteType  `json:"vote_type" gorm:"size:10"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (v *Vote) Direction() VoteType { return v.VoteType }

// AmendmentVote is one user's vote on one amendment
type AmendmentVote struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_amendment_vote"`
	AmendmentID string    `json:"amendment_id" gorm:"size:36;index;uniqueIndex:idx_user_amendment_vote"`
	VoteType    VoteType  `json:"vote_type" gorm:"size:10"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

func (v *AmendmentVote) Direction() VoteType { return v.VoteType }

// VoteRequest defines the request body for vote endpoints
type VoteRequest struct {
	VoteType string `json:"voteType" validate:"required"`
}
