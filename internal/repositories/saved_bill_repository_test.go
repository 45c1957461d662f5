package repositories

import (
	"errors"
	"path/filepath"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/joinciviq/civiq-backend/internal/models"
)

func setupSavedBillRepository(t *testing.T) (*PostgresSavedBillRepository, *gorm.DB) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "saved_bills.sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
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
	if err := db.AutoMigrate(&models.SavedBill{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewPostgresSavedBillRepository(db), db
}

func TestSaveUnsaveRoundtrip(t *testing.T) {
	repo, _ := setupSavedBillRepository(t)

	if err := repo.SaveBill(&models.SavedBill{UserID: 1, BillID: "bill-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	saved, err := repo.IsBillSaved(1, "bill-1")
	if err != nil {
		t.Fatalf("is saved: %v", err)
	}
	if !saved {
		t.Fatal("expected bill to be saved")
	}

	if err := repo.UnsaveBill(1, "bill-1"); err != nil {
		t.Fatalf("unsave: %v", err)
	}

	saved, err = repo.IsBillSaved(1, "bill-1")
	if err != nil {
		t.Fatalf("is saved after unsave: %v", err)
	}
	if saved {
		t.Fatal("expected bill to be unsaved")
	}
}

func TestUnsaveBillMissingReturnsSentinel(t *testing.T) {
	repo, _ := setupSavedBillRepository(t)

	err := repo.UnsaveBill(1, "never-saved")
	if !errors.Is(err, ErrSavedBillNotFound) {
		t.Fatalf("expected ErrSavedBillNotFound, got %v", err)
	}

	// Another user's bookmark must not satisfy the delete
	if err := repo.SaveBill(&models.SavedBill{UserID: 2, BillID: "bill-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	err = repo.UnsaveBill(1, "bill-1")
	if !errors.Is(err, ErrSavedBillNotFound) {
		t.Fatalf("expected ErrSavedBillNotFound for other user's bookmark, got %v", err)
	}
}
