package handlers

import (
	"errors"
	"net/http"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// SavedBillHandler handles bill bookmark HTTP requests
type SavedBillHandler struct {
	savedBillRepository repositories.SavedBillRepository
	billRepository      repositories.BillRepository
}

// NewSavedBillHandler creates a new SavedBillHandler
func NewSavedBillHandler(savedBillRepo repositories.SavedBillRepository, billRepo repositories.BillRepository) *SavedBillHandler {
	return &SavedBillHandler{
		savedBillRepository: savedBillRepo,
		billRepository:      billRepo,
	}
}

// RegisterSavedBillRoutes registers saved bill routes
func (h *SavedBillHandler) RegisterSavedBillRoutes(g *echo.Group) {
	g.POST("/bills/:billId/save", h.SaveBill)
	g.DELETE("/bills/:billId/save", h.UnsaveBill)
	g.GET("/user/saved-bills", h.GetSavedBills)
}

// SaveBill bookmarks a bill for the caller
func (h *SavedBillHandler) SaveBill(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	billID := c.Param("billId")

	if exists, err := h.billRepository.BillExists(billID); err != nil {
		return err
	} else if !exists {
		return apperr.New(apperr.ErrNotFound, "Bill not found")
	}

	if saved, err := h.savedBillRepository.IsBillSaved(currentUserID, billID); err != nil {
		return err
	} else if saved {
		return apperr.New(apperr.ErrInvalidArgument, "Bill already saved")
	}

	savedBill := &models.SavedBill{UserID: currentUserID, BillID: billID}
	if err := h.savedBillRepository.SaveBill(savedBill); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Bill saved successfully",
	})
}

// UnsaveBill removes a bookmark
func (h *SavedBillHandler) UnsaveBill(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	if err := h.savedBillRepository.UnsaveBill(currentUserID, c.Param("billId")); err != nil {
		if errors.Is(err, repositories.ErrSavedBillNotFound) {
			return apperr.New(apperr.ErrNotFound, "Bill not saved")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Bill unsaved successfully",
	})
}

// GetSavedBills returns the caller's bookmarked bills, newest bookmark first
func (h *SavedBillHandler) GetSavedBills(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	saved, err := h.savedBillRepository.GetSavedBillsByUser(currentUserID)
	if err != nil {
		return err
	}

	bills := make([]models.Bill, 0, len(saved))
	for _, s := range saved {
		bill, err := h.billRepository.GetBillByID(s.BillID)
		if err != nil {
			continue
		}
		bills = append(bills, *bill)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"bills": bills},
	})
}
