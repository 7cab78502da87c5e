package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	jwtsvc "luma/internal/pkg/jwt"

	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(NewRepository(db), jwtsvc.New("test-secret", time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{Email: "Student@Luma.App", Password: "hunter2hunter2", Name: "Student"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if res.User.Email != "student@luma.app" {
		t.Fatalf("expected normalized email, got %s", res.User.Email)
	}
	if res.User.PasswordHash != "" {
		t.Fatal("password hash must not leak")
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "student@luma.app", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if login.User.ID != res.User.ID {
		t.Fatalf("expected same user, got %d and %d", res.User.ID, login.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "hunter2hunter2", Name: "A"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	_, err := svc.Register(ctx, RegisterRequest{Email: "A@B.C", Password: "hunter2hunter2", Name: "A"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Email: "a@b.c", Password: "hunter2hunter2", Name: "A"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "a@b.c", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "nobody@b.c", Password: "hunter2hunter2"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
