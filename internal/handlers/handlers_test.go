package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/liftcare-id/liftcare/internal/config"
	"github.com/liftcare-id/liftcare/internal/database"
	"github.com/liftcare-id/liftcare/internal/draft"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/ratelimit"
	"github.com/liftcare-id/liftcare/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key"

// newTestRouter spins up a router on an in-memory database. Each test
// gets its own database so state never leaks between tests.
func newTestRouter(t *testing.T) (*Router, *database.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Lift{},
		&models.Schedule{},
		&models.QRToken{},
		&models.Report{},
		&models.Draft{},
	)
	if err != nil {
		t.Fatalf("Migration failed: %v", err)
	}

	db := database.NewWithGorm(gdb)
	cfg := &config.Config{
		AppEnv:     "test",
		Port:       "0",
		JWTSecret:  testSecret,
		CORSOrigin: "http://localhost:5173",
		PublicURL:  "http://localhost:5173",
	}
	limiter := ratelimit.NewSlidingWindow(10, time.Minute)
	router := NewRouter(db, cfg, limiter, draft.NewGormStore(gdb))
	return router, db
}

// seedUser creates an account with the password "password123" and
// returns it with a valid session token.
func seedUser(t *testing.T, db *database.DB, name, email, role string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	token, err := utils.GenerateUserToken(&user, testSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return &user, token
}

func seedLift(t *testing.T, db *database.DB, name, liftType string) *models.Lift {
	t.Helper()

	lift := models.Lift{
		Name:     name,
		Type:     liftType,
		Merk:     "Hyundai",
		Model:    "FX-200",
		Cabang:   "Jakarta Selatan",
		Location: "Gedung Utama",
		Floors:   8,
		Status:   "active",
	}
	if err := db.Create(&lift).Error; err != nil {
		t.Fatalf("Failed to seed lift: %v", err)
	}
	return &lift
}

func seedSchedule(t *testing.T, db *database.DB, liftID, techID, createdBy uint) *models.Schedule {
	t.Helper()

	schedule := models.Schedule{
		LiftID:        liftID,
		TechnicianID:  techID,
		ScheduledDate: "2025-04-01",
		Status:        models.ScheduleStatusScheduled,
		CreatedBy:     createdBy,
	}
	if err := db.Create(&schedule).Error; err != nil {
		t.Fatalf("Failed to seed schedule: %v", err)
	}
	return &schedule
}

// doJSON performs a request against the router and returns the recorder
func doJSON(t *testing.T, router *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestAPIRouteNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/does-not-exist", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestAuthenticationRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/lifts", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/lifts", "not-a-jwt", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with garbage token, got %d", rec.Code)
	}
}
