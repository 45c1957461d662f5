package repositories

import (
	"strings"

	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	GetBillByID(id string) (*models.Bill, error)
	BillExists(id string) (bool, error)
	ListBills(filter models.BillFilter, page, limit int) ([]models.Bill, int64, error)
	UpsertByExternalID(bill *models.Bill) error
	ListMissingAISummary(limit int) ([]models.Bill, error)
	UpdateAISummary(id, summary string) error
}

// PostgresBillRepository implements BillRepository for PostgreSQL
type PostgresBillRepository struct {
	db *gorm.DB
}

// NewPostgresBillRepository creates a new PostgresBillRepository
func NewPostgresBillRepository(db *gorm.DB) *PostgresBillRepository {
	return &PostgresBillRepository{db: db}
}

// GetBillByID retrieves a single bill by ID
func (r *PostgresBillRepository) GetBillByID(id string) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.First(&bill, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

// BillExists reports whether a bill row is present
func (r *PostgresBillRepository) BillExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Bill{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListBills returns one page of the feed plus the total matching count.
// A level filter matches exactly; a state filter returns the union of all
// federal bills and state bills for that (uppercased) code. Ordering is
// last-action date descending with insertion order breaking ties.
func (r *PostgresBillRepository) ListBills(filter models.BillFilter, page, limit int) ([]models.Bill, int64, error) {
	query := r.db.Model(&models.Bill{})

	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.State != "" {
		query = query.Where("level = ? OR (level = ? AND state = ?)",
			models.LevelFederal, models.LevelState, strings.ToUpper(filter.State))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bills []models.Bill
	offset := (page - 1) * limit
	err := query.
		Order("last_action_date DESC, created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&bills).Error

	return bills, total, err
}

// UpsertByExternalID inserts a bill or refreshes its ingested fields.
// Vote counters and the AI summary belong to this system, not the upstream
// source, and are never touched on conflict.
func (r *PostgresBillRepository) UpsertByExternalID(bill *models.Bill) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "summary", "status", "introduced_date", "last_action_date",
			"sponsor", "level", "state", "chamber", "bill_number", "full_text_url",
			"updated_at",
		}),
	}).Create(bill).Error
}

// ListMissingAISummary returns bills awaiting an AI summary backfill
func (r *PostgresBillRepository) ListMissingAISummary(limit int) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.Where("ai_summary IS NULL").
		Order("last_action_date DESC").
		Limit(limit).
		Find(&bills).Error
	return bills, err
}

// UpdateAISummary stores the generated summary for a bill
func (r *PostgresBillRepository) UpdateAISummary(id, summary string) error {
	return r.db.Model(&models.Bill{}).Where("id = ?", id).Update("ai_summary", summary).Error
}
