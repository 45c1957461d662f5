package repositories

import (
	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
)

// VoteRepository exposes read access to bill votes. All writes go through
// the voting engine, which owns the row/counter invariant.
type VoteRepository interface {
	GetVote(billID string, userID uint) (*models.Vote, error)
	CountByUser(userID uint) (int64, error)
}

// PostgresVoteRepository implements VoteRepository for PostgreSQL
type PostgresVoteRepository struct {
	db *gorm.DB
}

// NewPostgresVoteRepository creates a new PostgresVoteRepository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{db: db}
}

// GetVote retrieves a user's vote on a bill, if any
func (r *PostgresVoteRepository) GetVote(billID string, userID uint) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.Where("bill_id = ? AND user_id = ?", billID, userID).First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountByUser retrieves the number of bill votes a user currently holds
func (r *PostgresVoteRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
