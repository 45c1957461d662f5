package voting

import (
	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
)

// BillVotable binds the engine to bills and the votes table
type BillVotable struct{}

func (BillVotable) Name() string { return "Bill" }

func (BillVotable) Exists(tx *gorm.DB, subjectID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Bill{}).Where("id = ?", subjectID).Count(&count).Error
	return count > 0, err
}

func (BillVotable) FindVote(tx *gorm.DB, subjectID string, userID uint) (Record, error) {
	var vote models.Vote
	if err := tx.Where("bill_id = ? AND user_id = ?", subjectID, userID).First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (BillVotable) NewVote(subjectID string, userID uint, direction models.VoteType) Record {
	return &models.Vote{BillID: subjectID, UserID: userID, VoteType: direction}
}

func (BillVotable) AdjustCounters(tx *gorm.DB, subjectID string, upDelta, downDelta int) error {
	return adjustCounters(tx, &models.Bill{}, subjectID, upDelta, downDelta)
}

// AmendmentVotable binds the engine to amendments and the amendment_votes table
type AmendmentVotable struct{}

func (AmendmentVotable) Name() string { return "Amendment" }

func (AmendmentVotable) Exists(tx *gorm.DB, subjectID string) (bool, error) {
	var count int64
	err := tx.Model(&models.Amendment{}).Where("id = ?", subjectID).Count(&count).Error
	return count > 0, err
}

func (AmendmentVotable) FindVote(tx *gorm.DB, subjectID string, userID uint) (Record, error) {
	var vote models.AmendmentVote
	if err := tx.Where("amendment_id = ? AND user_id = ?", subjectID, userID).First(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (AmendmentVotable) NewVote(subjectID string, userID uint, direction models.VoteType) Record {
	return &models.AmendmentVote{AmendmentID: subjectID, UserID: userID, VoteType: direction}
}

func (AmendmentVotable) AdjustCounters(tx *gorm.DB, subjectID string, upDelta, downDelta int) error {
	return adjustCounters(tx, &models.Amendment{}, subjectID, upDelta, downDelta)
}

// adjustCounters applies relative counter deltas in the caller's transaction.
// Deltas are SQL-side expressions, never read-modify-write, so concurrent
// voters on the same subject cannot clobber each other.
func adjustCounters(tx *gorm.DB, model interface{}, subjectID string, upDelta, downDelta int) error {
	updates := map[string]interface{}{}
	if upDelta != 0 {
		updates["upvotes"] = gorm.Expr("upvotes + ?", upDelta)
	}
	if downDelta != 0 {
		updates["downvotes"] = gorm.Expr("downvotes + ?", downDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(model).Where("id = ?", subjectID).Updates(updates).Error
}
