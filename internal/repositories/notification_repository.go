package repositories

import (
	"github.com/joinciviq/civiq-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetRecentByUserID(userID uint, limit int) ([]models.Notification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkRead(userID uint, ids []uint) error
	MarkAllRead(userID uint) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetRecentByUserID returns the newest notifications for a user, capped at limit
func (r *postgresNotificationRepository) GetRecentByUserID(userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// GetUnreadCount counts every unread row for the user, not just the ones a
// list call would return.
func (r *postgresNotificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&count).Error
	return count, err
}

// MarkRead marks the listed notifications as read, touching only rows the
// user owns. Already-read rows are left alone, so the call is idempotent.
func (r *postgresNotificationRepository) MarkRead(userID uint, ids []uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND user_id = ? AND read = ?", ids, userID, false).
		Update("read", true).Error
}

// MarkAllRead marks every unread notification owned by the user as read
func (r *postgresNotificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}
