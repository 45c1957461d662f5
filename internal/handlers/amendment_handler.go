package handlers

import (
	"net/http"
	"strings"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/moderation"
	"github.com/joinciviq/civiq-backend/internal/services/notify"
	"github.com/joinciviq/civiq-backend/internal/services/voting"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const minAmendmentLength = 10

// AmendmentHandler handles amendment submission, listing and voting
type AmendmentHandler struct {
	amendmentRepository repositories.AmendmentRepository
	billRepository      repositories.BillRepository
	userRepository      repositories.UserRepository
	moderationService   *moderation.Service
	notifyService       *notify.Service
	votingEngine        *voting.Engine
	logger              *zap.Logger
}

// NewAmendmentHandler creates a new AmendmentHandler
func NewAmendmentHandler(
	amendmentRepo repositories.AmendmentRepository,
	billRepo repositories.BillRepository,
	userRepo repositories.UserRepository,
	moderationSvc *moderation.Service,
	notifySvc *notify.Service,
	engine *voting.Engine,
	logger *zap.Logger,
) *AmendmentHandler {
	return &AmendmentHandler{
		amendmentRepository: amendmentRepo,
		billRepository:      billRepo,
		userRepository:      userRepo,
		moderationService:   moderationSvc,
		notifyService:       notifySvc,
		votingEngine:        engine,
		logger:              logger,
	}
}

// RegisterAmendmentRoutes registers amendment routes
func (h *AmendmentHandler) RegisterAmendmentRoutes(public, authenticated *echo.Group) {
	public.GET("/bills/:billId/amendments", h.GetAmendments)
	authenticated.POST("/bills/:billId/amendments", h.CreateAmendment)
	authenticated.POST("/amendments/:id/vote", h.VoteAmendment)
}

// CreateAmendment runs a submission through the moderation pipeline and
// persists it when it passes.
func (h *AmendmentHandler) CreateAmendment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	billID := c.Param("billId")

	var req models.CreateAmendmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "Invalid request payload")
	}
	if len(strings.TrimSpace(req.Content)) < minAmendmentLength {
		return apperr.New(apperr.ErrInvalidArgument, "Amendment content must be at least 10 characters")
	}

	if exists, err := h.billRepository.BillExists(billID); err != nil {
		return err
	} else if !exists {
		return apperr.New(apperr.ErrNotFound, "Bill not found")
	}

	cleaned, flagged := h.moderationService.CleanAmendment(c.Request().Context(), req.Content)
	if flagged {
		return apperr.New(apperr.ErrPolicyViolation, "Amendment content violates community guidelines")
	}

	amendment := &models.Amendment{
		BillID:         billID,
		UserID:         currentUserID,
		Content:        req.Content,
		CleanedContent: cleaned,
	}
	if err := h.amendmentRepository.CreateAmendment(amendment); err != nil {
		return err
	}

	if user, err := h.userRepository.GetUserByID(currentUserID); err == nil {
		amendment.Author = user.ToCompact()
	}

	h.notifyBillParticipants(c, amendment)

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"amendment": amendment},
	})
}

// GetAmendments lists a bill's amendments, most upvoted first
func (h *AmendmentHandler) GetAmendments(c echo.Context) error {
	billID := c.Param("billId")

	amendments, err := h.amendmentRepository.GetAmendmentsByBillID(billID, 0)
	if err != nil {
		return err
	}

	cache := make(map[uint]models.UserCompact)
	for i := range amendments {
		author, ok := cache[amendments[i].UserID]
		if !ok {
			user, err := h.userRepository.GetUserByID(amendments[i].UserID)
			if err != nil {
				continue
			}
			author = user.ToCompact()
			cache[amendments[i].UserID] = author
		}
		amendments[i].Author = author
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"amendments": amendments},
	})
}

// VoteAmendment applies one vote transition on an amendment for the caller
func (h *AmendmentHandler) VoteAmendment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	amendmentID := c.Param("id")

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.votingEngine.Apply(
		c.Request().Context(),
		voting.AmendmentVotable{},
		amendmentID,
		currentUserID,
		models.VoteType(req.VoteType),
	)
	if err != nil {
		return err
	}

	message := "Vote recorded"
	if result == nil {
		message = "Vote removed"
	} else {
		h.notifyAmendmentAuthor(c, amendmentID, currentUserID, *result)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"data":    echo.Map{"voteType": result},
	})
}

// notifyAmendmentAuthor tells the author someone voted on their amendment.
// Self-votes are skipped and failures never surface to the voter.
func (h *AmendmentHandler) notifyAmendmentAuthor(c echo.Context, amendmentID string, voterID uint, direction models.VoteType) {
	amendment, err := h.amendmentRepository.GetAmendmentByID(amendmentID)
	if err != nil || amendment.UserID == voterID {
		return
	}

	err = h.notifyService.Create(
		c.Request().Context(),
		amendment.UserID,
		notify.TypeAmendmentVote,
		"New vote on your amendment",
		"Someone "+string(direction)+"d your amendment",
		echo.Map{"amendmentId": amendment.ID, "billId": amendment.BillID, "voteType": direction},
	)
	if err != nil {
		h.logger.Warn("failed to create amendment vote notification",
			zap.String("amendment_id", amendmentID), zap.Error(err))
	}
}

// notifyBillParticipants tells everyone else who proposed an amendment on
// the same bill that a new one landed.
func (h *AmendmentHandler) notifyBillParticipants(c echo.Context, amendment *models.Amendment) {
	authorIDs, err := h.amendmentRepository.GetAuthorIDsForBill(amendment.BillID)
	if err != nil {
		h.logger.Warn("failed to list amendment authors",
			zap.String("bill_id", amendment.BillID), zap.Error(err))
		return
	}

	for _, id := range authorIDs {
		if id == amendment.UserID {
			continue
		}
		err := h.notifyService.Create(
			c.Request().Context(),
			id,
			notify.TypeNewAmendment,
			"New amendment proposed",
			"A new amendment was proposed on a bill you contributed to",
			echo.Map{"amendmentId": amendment.ID, "billId": amendment.BillID},
		)
		if err != nil {
			h.logger.Warn("failed to create new amendment notification",
				zap.Uint("user_id", id), zap.Error(err))
		}
	}
}
