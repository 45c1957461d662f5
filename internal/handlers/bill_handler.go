package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/voting"
	"github.com/labstack/echo/v4"
)

// BillHandler handles bill feed, detail and voting HTTP requests
type BillHandler struct {
	billRepository      repositories.BillRepository
	amendmentRepository repositories.AmendmentRepository
	userRepository      repositories.UserRepository
	votingEngine        *voting.Engine
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(
	billRepo repositories.BillRepository,
	amendmentRepo repositories.AmendmentRepository,
	userRepo repositories.UserRepository,
	engine *voting.Engine,
) *BillHandler {
	return &BillHandler{
		billRepository:      billRepo,
		amendmentRepository: amendmentRepo,
		userRepository:      userRepo,
		votingEngine:        engine,
	}
}

// RegisterBillRoutes registers bill routes. Feed and detail are public; the
// vote endpoint goes on the authenticated group.
func (h *BillHandler) RegisterBillRoutes(public, authenticated *echo.Group) {
	public.GET("/bills/feed", h.GetFeed)
	public.GET("/bills/:billId", h.GetBillByID)
	authenticated.POST("/bills/:billId/vote", h.VoteBill)
}

// GetFeed returns a filtered, paginated page of bills
func (h *BillHandler) GetFeed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	filter := models.BillFilter{
		Level: c.QueryParam("level"),
		State: c.QueryParam("state"),
	}

	bills, total, err := h.billRepository.ListBills(filter, page, limit)
	if err != nil {
		return err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"bills": bills,
			"pagination": echo.Map{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		},
	})
}

// GetBillByID returns one bill with its top amendments
func (h *BillHandler) GetBillByID(c echo.Context) error {
	billID := c.Param("billId")

	bill, err := h.billRepository.GetBillByID(billID)
	if err != nil {
		return apperr.New(apperr.ErrNotFound, "Bill not found")
	}

	amendments, err := h.amendmentRepository.GetAmendmentsByBillID(billID, 10)
	if err != nil {
		return err
	}
	h.attachAuthors(amendments)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"bill":       bill,
			"amendments": amendments,
		},
	})
}

// VoteBill applies one vote transition on a bill for the caller
func (h *BillHandler) VoteBill(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	var req models.VoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.votingEngine.Apply(
		c.Request().Context(),
		voting.BillVotable{},
		c.Param("billId"),
		currentUserID,
		models.VoteType(req.VoteType),
	)
	if err != nil {
		return err
	}

	message := "Vote recorded"
	if result == nil {
		message = "Vote removed"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"data":    echo.Map{"voteType": result},
	})
}

// attachAuthors fills the compact author info on amendments, caching users
// so one author with many amendments is fetched once.
func (h *BillHandler) attachAuthors(amendments []models.Amendment) {
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
}
