package repositories

import (
	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
)

// AmendmentRepository defines the interface for amendment data operations
type AmendmentRepository interface {
	CreateAmendment(amendment *models.Amendment) error
	GetAmendmentByID(id string) (*models.Amendment, error)
	GetAmendmentsByBillID(billID string, limit int) ([]models.Amendment, error)
	GetAuthorIDsForBill(billID string) ([]uint, error)
	CountByUser(userID uint) (int64, error)
}

// PostgresAmendmentRepository implements AmendmentRepository for PostgreSQL
type PostgresAmendmentRepository struct {
	db *gorm.DB
}

// NewPostgresAmendmentRepository creates a new PostgresAmendmentRepository
func NewPostgresAmendmentRepository(db *gorm.DB) *PostgresAmendmentRepository {
	return &PostgresAmendmentRepository{db: db}
}

// CreateAmendment creates a new amendment in PostgreSQL
func (r *PostgresAmendmentRepository) CreateAmendment(amendment *models.Amendment) error {
	return r.db.Create(amendment).Error
}

// GetAmendmentByID retrieves a specific amendment by ID
func (r *PostgresAmendmentRepository) GetAmendmentByID(id string) (*models.Amendment, error) {
	var amendment models.Amendment
	if err := r.db.First(&amendment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &amendment, nil
}

// GetAmendmentsByBillID retrieves amendments for a bill, most upvoted first.
// A limit of 0 returns all of them.
func (r *PostgresAmendmentRepository) GetAmendmentsByBillID(billID string, limit int) ([]models.Amendment, error) {
	var amendments []models.Amendment
	query := r.db.Where("bill_id = ?", billID).Order("upvotes DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&amendments).Error; err != nil {
		return nil, err
	}
	return amendments, nil
}

// GetAuthorIDsForBill returns the distinct users who proposed amendments on a bill
func (r *PostgresAmendmentRepository) GetAuthorIDsForBill(billID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Amendment{}).
		Where("bill_id = ?", billID).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// CountByUser retrieves the number of amendments a user has proposed
func (r *PostgresAmendmentRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Amendment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
