package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joinciviq/civiq-backend/internal/apperr"
	"github.com/joinciviq/civiq-backend/internal/models"
	"github.com/joinciviq/civiq-backend/internal/repositories"
	"github.com/joinciviq/civiq-backend/internal/services/moderation"
	"github.com/joinciviq/civiq-backend/internal/services/notify"
	"github.com/joinciviq/civiq-backend/internal/services/voting"
)

// stubGenerator returns a fixed moderation response or error
type stubGenerator struct {
	out string
	err error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.out, s.err
}

type amendmentFixture struct {
	handler *AmendmentHandler
	db      *gorm.DB
	user    *models.User
	bill    *models.Bill
}

func setupAmendmentHandler(t *testing.T, generator moderation.Generator) *amendmentFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "handler.sqlite")
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
	if err := db.AutoMigrate(
		&models.User{},
		&models.Bill{},
		&models.Amendment{},
		&models.AmendmentVote{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	user := &models.User{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", ZipCode: "90210"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	bill := &models.Bill{ExternalID: "hr-1-118", Level: models.LevelFederal, Title: "Test Bill"}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("create bill: %v", err)
	}

	logger := zap.NewNop()
	userRepo := repositories.NewPostgresUserRepository(db)
	amendmentRepo := repositories.NewPostgresAmendmentRepository(db)
	billRepo := repositories.NewPostgresBillRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)

	handler := NewAmendmentHandler(
		amendmentRepo,
		billRepo,
		userRepo,
		moderation.NewService(generator, 1000, logger),
		notify.NewService(notificationRepo, userRepo, nil, logger),
		voting.NewEngine(db, logger),
		logger,
	)
	return &amendmentFixture{handler: handler, db: db, user: user, bill: bill}
}

func newAmendmentRequest(t *testing.T, userID uint, billID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bills/"+billID+"/amendments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("billId")
	c.SetParamValues(billID)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func TestCreateAmendmentSuccess(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "Strike section 2 and insert clearer language."})

	c, rec := newAmendmentRequest(t, fx.user.ID, fx.bill.ID,
		`{"content":"strike secton 2 and insert clearer langage"}`)

	if err := fx.handler.CreateAmendment(c); err != nil {
		t.Fatalf("create amendment: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var stored models.Amendment
	if err := fx.db.First(&stored, "bill_id = ?", fx.bill.ID).Error; err != nil {
		t.Fatalf("load amendment: %v", err)
	}
	if stored.Content != "strike secton 2 and insert clearer langage" {
		t.Fatalf("raw submission not preserved: %q", stored.Content)
	}
	if stored.CleanedContent != "Strike section 2 and insert clearer language." {
		t.Fatalf("moderated text not stored: %q", stored.CleanedContent)
	}
	if stored.UserID != fx.user.ID {
		t.Fatalf("wrong author: %d", stored.UserID)
	}
}

func TestCreateAmendmentTooShort(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "should not be called"})

	c, _ := newAmendmentRequest(t, fx.user.ID, fx.bill.ID, `{"content":"  short  "}`)

	err := fx.handler.CreateAmendment(c)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	var count int64
	fx.db.Model(&models.Amendment{}).Count(&count)
	if count != 0 {
		t.Fatal("too-short submission was persisted")
	}
}

func TestCreateAmendmentUnknownBill(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "clean"})

	c, _ := newAmendmentRequest(t, fx.user.ID, "no-such-bill", `{"content":"a perfectly reasonable amendment"}`)

	err := fx.handler.CreateAmendment(c)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAmendmentFlagged(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "[FLAGGED: Inappropriate content]"})

	c, _ := newAmendmentRequest(t, fx.user.ID, fx.bill.ID, `{"content":"spam spam spam buy now"}`)

	err := fx.handler.CreateAmendment(c)
	if !errors.Is(err, apperr.ErrPolicyViolation) {
		t.Fatalf("expected ErrPolicyViolation, got %v", err)
	}

	var count int64
	fx.db.Model(&models.Amendment{}).Count(&count)
	if count != 0 {
		t.Fatal("flagged submission was persisted")
	}
}

func TestCreateAmendmentDegradedModeration(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{err: errors.New("model overloaded")})

	c, rec := newAmendmentRequest(t, fx.user.ID, fx.bill.ID, `{"content":"  an amendment during an outage  "}`)

	if err := fx.handler.CreateAmendment(c); err != nil {
		t.Fatalf("outage must not block submission: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var stored models.Amendment
	if err := fx.db.First(&stored, "bill_id = ?", fx.bill.ID).Error; err != nil {
		t.Fatalf("load amendment: %v", err)
	}
	if stored.CleanedContent != "an amendment during an outage" {
		t.Fatalf("expected trimmed pass-through text, got %q", stored.CleanedContent)
	}
}

func TestCreateAmendmentUnauthenticated(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "clean"})

	c, _ := newAmendmentRequest(t, 0, fx.bill.ID, `{"content":"a perfectly reasonable amendment"}`)

	err := fx.handler.CreateAmendment(c)
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateAmendmentNotifiesOtherAuthors(t *testing.T) {
	fx := setupAmendmentHandler(t, &stubGenerator{out: "A cleaned amendment proposal."})

	other := &models.User{Email: "sam@example.com", FirstName: "Sam", LastName: "Lee", ZipCode: "10001"}
	if err := fx.db.Create(other).Error; err != nil {
		t.Fatalf("create other user: %v", err)
	}
	if err := fx.db.Create(&models.Amendment{
		BillID:         fx.bill.ID,
		UserID:         other.ID,
		Content:        "An earlier amendment on the same bill.",
		CleanedContent: "An earlier amendment on the same bill.",
	}).Error; err != nil {
		t.Fatalf("create earlier amendment: %v", err)
	}

	c, _ := newAmendmentRequest(t, fx.user.ID, fx.bill.ID, `{"content":"a brand new amendment proposal"}`)
	if err := fx.handler.CreateAmendment(c); err != nil {
		t.Fatalf("create amendment: %v", err)
	}

	var notifications []models.Notification
	if err := fx.db.Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].UserID != other.ID {
		t.Fatalf("notification addressed to %d, expected %d", notifications[0].UserID, other.ID)
	}
	if notifications[0].Type != notify.TypeNewAmendment {
		t.Fatalf("unexpected notification type %q", notifications[0].Type)
	}
}
