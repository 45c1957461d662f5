package repositories

import (
	"errors"

	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
)

// ErrSavedBillNotFound reports an unsave with no matching bookmark, so
// callers can tell it apart from an infrastructure failure.
var ErrSavedBillNotFound = errors.New("saved bill not found")

// SavedBillRepository defines the interface for saved bill operations
type SavedBillRepository interface {
	SaveBill(savedBill *models.SavedBill) error
	UnsaveBill(userID uint, billID string) error
	IsBillSaved(userID uint, billID string) (bool, error)
	GetSavedBillsByUser(userID uint) ([]models.SavedBill, error)
	CountByUser(userID uint) (int64, error)
}

// PostgresSavedBillRepository implements SavedBillRepository
type PostgresSavedBillRepository struct {
	db *gorm.DB
}

func NewPostgresSavedBillRepository(db *gorm.DB) *PostgresSavedBillRepository {
	return &PostgresSavedBillRepository{db: db}
}

func (r *PostgresSavedBillRepository) SaveBill(savedBill *models.SavedBill) error {
	return r.db.Create(savedBill).Error
}

func (r *PostgresSavedBillRepository) UnsaveBill(userID uint, billID string) error {
	res := r.db.Where("user_id = ? AND bill_id = ?", userID, billID).Delete(&models.SavedBill{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSavedBillNotFound
	}
	return nil
}

func (r *PostgresSavedBillRepository) IsBillSaved(userID uint, billID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedBill{}).Where("user_id = ? AND bill_id = ?", userID, billID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedBillRepository) GetSavedBillsByUser(userID uint) ([]models.SavedBill, error) {
	var saved []models.SavedBill
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error
	return saved, err
}

func (r *PostgresSavedBillRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SavedBill{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
