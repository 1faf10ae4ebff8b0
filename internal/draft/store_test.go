package draft

import (
	"errors"
	"fmt"
	"testing"

	"github.com/liftcare-id/liftcare/internal/models"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	dsn := fmt.Sprintf("file:draft_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Draft{}); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	return NewGormStore(db)
}

func TestStorePutGetClear(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get("user:1", "schedule:5"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing draft, got %v", err)
	}

	payload := datatypes.JSON(`{"remarks":"oli perlu diganti"}`)
	if err := store.Put("user:1", "schedule:5", payload); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get("user:1", "schedule:5")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Expected %s, got %s", payload, got)
	}

	if err := store.Clear("user:1", "schedule:5"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Get("user:1", "schedule:5"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}
}

func TestStoreUpsertOverwrites(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put("user:1", "lift:3", datatypes.JSON(`{"v":1}`)); err != nil {
		t.Fatalf("First put failed: %v", err)
	}
	if err := store.Put("user:1", "lift:3", datatypes.JSON(`{"v":2}`)); err != nil {
		t.Fatalf("Second put failed: %v", err)
	}

	got, err := store.Get("user:1", "lift:3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `{"v":2}` {
		t.Errorf("Expected second payload to win, got %s", got)
	}
}

func TestStoreKeyIsolation(t *testing.T) {
	store := newTestStore(t)

	_ = store.Put("user:1", "schedule:5", datatypes.JSON(`{"who":"budi"}`))
	_ = store.Put("qr:3", "lift:3", datatypes.JSON(`{"who":"qr"}`))

	if _, err := store.Get("user:2", "schedule:5"); !errors.Is(err, ErrNotFound) {
		t.Error("Drafts must not leak across owner keys")
	}
	if _, err := store.Get("user:1", "schedule:6"); !errors.Is(err, ErrNotFound) {
		t.Error("Drafts must not leak across form keys")
	}

	// Clearing a missing draft is a no-op
	if err := store.Clear("user:9", "schedule:9"); err != nil {
		t.Errorf("Clear on missing draft should not error: %v", err)
	}
}
