package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newRepoDB opens a throwaway SQLite database and migrates the full schema.
func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestBase_GetByID_NotFound(t *testing.T) {
	db := newRepoDB(t)
	var cars CarRepo

	got, err := cars.GetByID(context.Background(), db, "no-such-id")
	if got != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got car=%v err=%v", got, err)
	}
}

func TestBase_CreateAndGetByID(t *testing.T) {
	db := newRepoDB(t)
	var cars CarRepo

	c := NewCar("ford", "red", true)
	if err := cars.Create(context.Background(), db, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID == "" {
		t.Fatalf("expected generated id, got empty")
	}

	got, err := cars.GetByID(context.Background(), db, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Brand != "ford" || got.Color != "red" || !got.IsPreowned {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestBase_List_LimitAndOffset(t *testing.T) {
	db := newRepoDB(t)
	var cars CarRepo
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := cars.Create(ctx, db, NewCar(fmt.Sprintf("brand-%d", i), "blue", false)); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	all, err := cars.List(ctx, db, 0, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("List all: got %d rows, want 5", len(all))
	}

	page, err := cars.List(ctx, db, 2, 3)
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("List page: got %d rows, want 2", len(page))
	}
}

func TestBase_Updates(t *testing.T) {
	db := newRepoDB(t)
	var cars CarRepo
	ctx := context.Background()

	c := NewCar("ford", "red", false)
	if err := cars.Create(ctx, db, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := cars.Updates(ctx, db, c.ID, map[string]any{"brand": "fiat"}); err != nil {
		t.Fatalf("Updates: %v", err)
	}
	got, err := cars.GetByID(ctx, db, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Brand != "fiat" || got.Color != "red" {
		t.Fatalf("partial update mismatch: %+v", got)
	}

	if err := cars.Updates(ctx, db, "missing", map[string]any{"brand": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestBase_Delete(t *testing.T) {
	db := newRepoDB(t)
	var cars CarRepo
	ctx := context.Background()

	c := NewCar("ford", "blue", true)
	if err := cars.Create(ctx, db, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := cars.Delete(ctx, db, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cars.GetByID(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}

	if err := cars.Delete(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestBase_Save_PersistsAllFields(t *testing.T) {
	db := newRepoDB(t)
	var users UserRepo
	ctx := context.Background()

	u := NewUser(strPtr("a@example.com"), nil)
	if err := users.Create(ctx, db, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	u.Email = strPtr("b@example.com")
	u.SMS = strPtr("1234567890")
	if err := users.Save(ctx, db, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := users.GetByID(ctx, db, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email == nil || *got.Email != "b@example.com" || got.SMS == nil || *got.SMS != "1234567890" {
		t.Fatalf("save mismatch: %+v", got)
	}
}
