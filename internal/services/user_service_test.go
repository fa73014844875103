package services

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

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/repo"
)

// newServiceDB opens a throwaway SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func sp(s string) *string { return &s }

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func TestUserService_CreateOrUpdate_InsertsNewUser(t *testing.T) {
	db := newServiceDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	u, err := svc.CreateOrUpdate(ctx, sp("new@example.com"), sp("5551234567"))
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if u.ID == "" || u.Email == nil || *u.Email != "new@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if got := countUsers(t, db); got != 1 {
		t.Fatalf("got %d users, want 1", got)
	}
}

func TestUserService_CreateOrUpdate_IsIdempotent(t *testing.T) {
	db := newServiceDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	first, err := svc.CreateOrUpdate(ctx, sp("same@example.com"), sp("5551234567"))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := svc.CreateOrUpdate(ctx, sp("same@example.com"), sp("5551234567"))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeated upsert created a new row: %s vs %s", first.ID, second.ID)
	}
	if got := countUsers(t, db); got != 1 {
		t.Fatalf("got %d users, want 1", got)
	}
}

func TestUserService_CreateOrUpdate_SMSFallbackUpdatesEmail(t *testing.T) {
	db := newServiceDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	existing, err := svc.CreateOrUpdate(ctx, nil, sp("5550001111"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Unknown email plus known sms must match the existing row and fill in
	// the email rather than insert a second user.
	got, err := svc.CreateOrUpdate(ctx, sp("late@example.com"), sp("5550001111"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("sms fallback missed: %s vs %s", got.ID, existing.ID)
	}
	if got.Email == nil || *got.Email != "late@example.com" {
		t.Fatalf("email not overwritten: %+v", got)
	}
	if n := countUsers(t, db); n != 1 {
		t.Fatalf("got %d users, want 1", n)
	}
}

func TestUserService_CreateOrUpdate_ConflictingKeys_EmailWins(t *testing.T) {
	db := newServiceDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	byEmail, err := svc.CreateOrUpdate(ctx, sp("a@example.com"), nil)
	if err != nil {
		t.Fatalf("seed email row: %v", err)
	}
	bySMS, err := svc.CreateOrUpdate(ctx, nil, sp("5559998888"))
	if err != nil {
		t.Fatalf("seed sms row: %v", err)
	}

	// Both keys match different rows: the email match wins and takes over the
	// sms value; the sms-matched row is untouched.
	got, err := svc.CreateOrUpdate(ctx, sp("a@example.com"), sp("5559998888"))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got.ID != byEmail.ID {
		t.Fatalf("email precedence violated: got %s want %s", got.ID, byEmail.ID)
	}
	if got.SMS == nil || *got.SMS != "5559998888" {
		t.Fatalf("sms not overwritten on the email-matched row: %+v", got)
	}

	var other domain.User
	if err := db.First(&other, "id = ?", bySMS.ID).Error; err != nil {
		t.Fatalf("sms-matched row must survive: %v", err)
	}
}

func TestUserService_CreateOrUpdate_RequiresAKey(t *testing.T) {
	svc := NewUserService(newServiceDB(t))

	if _, err := svc.CreateOrUpdate(context.Background(), nil, nil); !errors.Is(err, ErrNoMatchKey) {
		t.Fatalf("expected ErrNoMatchKey, got %v", err)
	}
}

func TestUserService_Get_NotFound(t *testing.T) {
	svc := NewUserService(newServiceDB(t))

	if _, err := svc.Get(context.Background(), "4c3f8a4e-9f3e-4a3e-8bde-56bb4a4c1d11"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete_RemovesAssociationsNotPosts(t *testing.T) {
	db := newServiceDB(t)
	users := NewUserService(db)
	posts := NewPostService(db)
	ctx := context.Background()

	u, err := users.CreateOrUpdate(ctx, sp("author@example.com"), nil)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	p, err := posts.Create(ctx, CreatePostInput{Title: sp("t"), UserID: u.ID})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	if err := users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := users.Get(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("user must be gone, got %v", err)
	}

	// The post survives, orphaned of its author.
	got, err := posts.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("post must survive user deletion: %v", err)
	}
	if len(got.Users) != 0 {
		t.Fatalf("association rows must be cleared: %+v", got.Users)
	}
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc := NewUserService(newServiceDB(t))

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List(t *testing.T) {
	db := newServiceDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.CreateOrUpdate(ctx, sp(fmt.Sprintf("u%d@example.com", i)), nil); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	all, err := svc.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d users, want 4", len(all))
	}

	page, err := svc.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d users, want 2", len(page))
	}
}
