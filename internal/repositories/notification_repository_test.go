package repositories

import (
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/joinciviq/civiq-backend/internal/models"
)

func setupNotificationRepository(t *testing.T) (NotificationRepository, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "notifications.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewPostgresNotificationRepository(db), db
}

func seedNotification(t *testing.T, db *gorm.DB, userID uint, read bool, createdAt time.Time) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:    userID,
		Type:      "amendment_vote",
		Title:     "New vote on your amendment",
		Message:   "Someone upvoted your amendment",
		Read:      read,
		CreatedAt: createdAt,
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return n
}

func TestGetRecentByUserIDCapsAndOrders(t *testing.T) {
	repo, db := setupNotificationRepository(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedNotification(t, db, 1, false, base.Add(time.Duration(i)*time.Minute))
	}
	seedNotification(t, db, 2, false, base.Add(time.Hour)) // other user

	notifications, err := repo.GetRecentByUserID(1, 3)
	if err != nil {
		t.Fatalf("get recent: %v", err)
	}
	if len(notifications) != 3 {
		t.Fatalf("expected limit of 3, got %d", len(notifications))
	}
	for i := 1; i < len(notifications); i++ {
		if notifications[i].CreatedAt.After(notifications[i-1].CreatedAt) {
			t.Fatal("notifications not ordered newest first")
		}
	}
	for _, n := range notifications {
		if n.UserID != 1 {
			t.Fatalf("notification for user %d leaked into user 1's list", n.UserID)
		}
	}
}

func TestGetUnreadCountCoversAllRows(t *testing.T) {
	repo, db := setupNotificationRepository(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	// More unread rows than any list call would return
	for i := 0; i < 6; i++ {
		seedNotification(t, db, 1, false, base.Add(time.Duration(i)*time.Minute))
	}
	seedNotification(t, db, 1, true, base)
	seedNotification(t, db, 2, false, base)

	count, err := repo.GetUnreadCount(1)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 unread, got %d", count)
	}
}

func TestMarkReadSubsetAndOwnership(t *testing.T) {
	repo, db := setupNotificationRepository(t)
	now := time.Now()

	mine1 := seedNotification(t, db, 1, false, now)
	mine2 := seedNotification(t, db, 1, false, now)
	theirs := seedNotification(t, db, 2, false, now)

	if err := repo.MarkRead(1, []uint{mine1.ID, theirs.ID}); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	// Fresh struct per reload: a reused one carries its old primary key
	// into the next query's conditions
	var gotMine1 models.Notification
	db.First(&gotMine1, mine1.ID)
	if !gotMine1.Read {
		t.Fatal("listed owned notification not marked read")
	}
	var gotMine2 models.Notification
	db.First(&gotMine2, mine2.ID)
	if gotMine2.Read {
		t.Fatal("unlisted notification was marked read")
	}
	var gotTheirs models.Notification
	db.First(&gotTheirs, theirs.ID)
	if gotTheirs.Read {
		t.Fatal("another user's notification was marked read")
	}

	// Repeating the call is a no-op
	if err := repo.MarkRead(1, []uint{mine1.ID}); err != nil {
		t.Fatalf("repeat mark read: %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo, db := setupNotificationRepository(t)
	now := time.Now()

	seedNotification(t, db, 1, false, now)
	seedNotification(t, db, 1, false, now)
	theirs := seedNotification(t, db, 2, false, now)

	if err := repo.MarkAllRead(1); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	count, err := repo.GetUnreadCount(1)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after mark all, got %d", count)
	}

	var reloaded models.Notification
	db.First(&reloaded, theirs.ID)
	if reloaded.Read {
		t.Fatal("mark all read crossed user boundary")
	}
}
