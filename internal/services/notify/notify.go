// Package notify creates notification rows for other services and pushes
// them to the recipient's device when FCM is configured.
package notify

import (
	"context"
	"encoding/json"

	"firebase.google.com/go/v4/messaging"
	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Notification type tags
const (
	TypeAmendmentVote = "amendment_vote"
	TypeNewAmendment  = "new_amendment"
)

type Service struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	messaging     *messaging.Client // nil disables push delivery
	logger        *zap.Logger
}

func NewService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	messagingClient *messaging.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		notifications: notifications,
		users:         users,
		messaging:     messagingClient,
		logger:        logger,
	}
}

// Create appends a notification for the user and best-effort pushes it.
// Push failures are logged and never returned to the caller.
func (s *Service) Create(ctx context.Context, userID uint, notifType, title, message string, payload interface{}) error {
	if userID == 0 {
		return apperr.New(apperr.ErrInvalidArgument, "Notification recipient required")
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("notification payload not serializable, dropping it",
				zap.String("type", notifType), zap.Error(err))
		} else {
			notification.Data = datatypes.JSON(raw)
		}
	}

	if err := s.notifications.CreateNotification(notification); err != nil {
		return err
	}

	s.push(ctx, userID, title, message)
	return nil
}

func (s *Service) push(ctx context.Context, userID uint, title, body string) {
	if s.messaging == nil {
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil || user.PushToken == "" {
		return
	}

	_, err = s.messaging.Send(ctx, &messaging.Message{
		Token: user.PushToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		s.logger.Warn("push delivery failed",
			zap.Uint("user_id", userID), zap.Error(err))
	}
}
