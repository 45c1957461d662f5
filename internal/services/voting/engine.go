// Package voting maintains the vote-row/counter invariant for any votable
// subject under the toggle/switch/cast contract: casting a vote where none
// exists inserts it, repeating the same vote removes it, and voting the
// other way switches it. Counter and row mutations always commit together.
package voting

import (
	"context"
	"errors"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Record is a stored vote row for one (subject, voter) pair
type Record interface {
	Direction() models.VoteType
}

// Votable binds the engine to one subject type. Implementations decide which
// vote table and which counter columns a transition touches; the engine owns
// the transition logic itself.
type Votable interface {
	// Name is the subject label used in caller-facing messages
	Name() string
	// Exists reports whether the subject row is present
	Exists(tx *gorm.DB, subjectID string) (bool, error)
	// FindVote returns the stored vote for the pair, or gorm.ErrRecordNotFound
	FindVote(tx *gorm.DB, subjectID string, userID uint) (Record, error)
	// NewVote builds an unsaved vote row for the pair
	NewVote(subjectID string, userID uint, direction models.VoteType) Record
	// AdjustCounters applies relative deltas to the subject's counters
	AdjustCounters(tx *gorm.DB, subjectID string, upDelta, downDelta int) error
}

// Engine is the sole writer of vote rows and vote counters
type Engine struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEngine(db *gorm.DB, logger *zap.Logger) *Engine {
	return &Engine{db: db, logger: logger}
}

// Apply runs one vote transition for (subjectID, userID) and returns the
// resulting direction, nil when the vote was toggled off. The whole
// transition executes in a single transaction; a race on the same pair
// surfaces as apperr.ErrConflict, which the caller may retry.
func (e *Engine) Apply(ctx context.Context, subject Votable, subjectID string, userID uint, direction models.VoteType) (*models.VoteType, error) {
	if !direction.Valid() {
		return nil, apperr.New(apperr.ErrInvalidArgument, "Invalid vote type")
	}

	var result *models.VoteType
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := subject.Exists(tx, subjectID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.New(apperr.ErrNotFound, subject.Name()+" not found")
		}

		existing, err := subject.FindVote(tx, subjectID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No stored vote: cast a new one. The unique index on the pair
			// serializes concurrent casts; the loser sees a duplicate key.
			if err := tx.Create(subject.NewVote(subjectID, userID, direction)).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.New(apperr.ErrConflict, "Concurrent vote in progress, please retry")
				}
				return err
			}
			up, down := deltas(direction, +1)
			if err := subject.AdjustCounters(tx, subjectID, up, down); err != nil {
				return err
			}
			result = &direction
			return nil
		}
		if err != nil {
			return err
		}

		current := existing.Direction()
		if current == direction {
			// Same direction again: toggle the vote off. The vote_type guard
			// keeps a stale read from deleting a row a concurrent switch
			// already pointed the other way.
			res := tx.Where("vote_type = ?", current).Delete(existing)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.New(apperr.ErrConflict, "Concurrent vote in progress, please retry")
			}
			up, down := deltas(current, -1)
			if err := subject.AdjustCounters(tx, subjectID, up, down); err != nil {
				return err
			}
			result = nil
			return nil
		}

		// Different direction: switch the stored vote
		res := tx.Model(existing).Where("vote_type = ?", current).Update("vote_type", direction)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.ErrConflict, "Concurrent vote in progress, please retry")
		}
		curUp, curDown := deltas(current, -1)
		newUp, newDown := deltas(direction, +1)
		if err := subject.AdjustCounters(tx, subjectID, curUp+newUp, curDown+newDown); err != nil {
			return err
		}
		result = &direction
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("vote transition applied",
		zap.String("subject", subject.Name()),
		zap.String("subject_id", subjectID),
		zap.Uint("user_id", userID))
	return result, nil
}

// deltas spreads a signed delta onto the (up, down) counter pair
func deltas(direction models.VoteType, delta int) (up, down int) {
	if direction == models.Upvote {
		return delta, 0
	}
	return 0, delta
}
