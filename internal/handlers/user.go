package handlers

import (
	"net/http"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/district"
	"github.com/labstack/echo/v4"
)

// UserHandler handles profile-related HTTP requests
type UserHandler struct {
	userRepository      repositories.UserRepository
	voteRepository      repositories.VoteRepository
	savedBillRepository repositories.SavedBillRepository
	amendmentRepository repositories.AmendmentRepository
	districts           district.Lookup
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	voteRepo repositories.VoteRepository,
	savedBillRepo repositories.SavedBillRepository,
	amendmentRepo repositories.AmendmentRepository,
	districts district.Lookup,
) *UserHandler {
	return &UserHandler{
		userRepository:      userRepo,
		voteRepository:      voteRepo,
		savedBillRepository: savedBillRepo,
		amendmentRepository: amendmentRepo,
		districts:           districts,
	}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/user/profile", h.GetProfile)
	g.PUT("/user/profile", h.UpdateProfile)
}

// GetProfile returns the caller's profile with activity counts
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return apperr.New(apperr.ErrNotFound, "User not found")
	}

	votes, err := h.voteRepository.CountByUser(currentUserID)
	if err != nil {
		return err
	}
	savedBills, err := h.savedBillRepository.CountByUser(currentUserID)
	if err != nil {
		return err
	}
	amendments, err := h.amendmentRepository.CountByUser(currentUserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user": user,
			"counts": echo.Map{
				"votes":      votes,
				"savedBills": savedBills,
				"amendments": amendments,
			},
		},
	})
}

// UpdateProfile updates the caller's profile. A ZIP code change re-runs the
// district lookup.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return apperr.New(apperr.ErrNotFound, "User not found")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PushToken != nil {
		user.PushToken = *req.PushToken
	}
	if req.ZipCode != nil {
		user.ZipCode = *req.ZipCode
		if district.ValidZipCode(*req.ZipCode) {
			if info, err := h.districts.LookupByZip(c.Request().Context(), *req.ZipCode); err == nil {
				user.State = &info.State
				user.District = &info.District
			}
		}
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"user": user},
	})
}
