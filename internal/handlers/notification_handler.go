package handlers

import (
	"net/http"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const recentNotificationLimit = 50

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notificationRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.POST("/notifications/mark-read", h.MarkRead)
}

// GetNotifications returns the caller's most recent notifications with the
// total unread count. The unread count covers all notifications, not just
// the returned page.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	notifications, err := h.notificationRepository.GetRecentByUserID(currentUserID, recentNotificationLimit)
	if err != nil {
		return err
	}

	unreadCount, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": notifications,
			"unreadCount":   unreadCount,
		},
	})
}

// MarkRead marks notifications as read. An empty or omitted id list marks
// all of the caller's notifications; otherwise only the listed ones the
// caller owns are updated.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.ErrInvalidArgument, "Invalid request body")
	}

	if len(req.NotificationIDs) == 0 {
		if err := h.notificationRepository.MarkAllRead(currentUserID); err != nil {
			return err
		}
	} else {
		if err := h.notificationRepository.MarkRead(currentUserID, req.NotificationIDs); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Notifications marked as read",
	})
}
