package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glowmart/glowmart-api/internal/config"
	"github.com/glowmart/glowmart-api/internal/constants"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newUserAuthTestService(t *testing.T, name string) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:userauth_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.UserJWT.ExpireHours = 24
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newUserAuthTestService(t, "register")

	user, token, _, err := svc.Register(RegisterInput{
		Email:    "Riya@Example.com",
		Password: "glowmart-123",
		FullName: "Riya Nair",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "riya@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if token == "" {
		t.Fatal("register must issue a token")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Subject != constants.JWTSubjectUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := svc.Login("riya@example.com", "glowmart-123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, _, _, err := svc.Login("riya@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserAuthTestService(t, "dup")

	if _, _, _, err := svc.Register(RegisterInput{Email: "a@example.com", Password: "glowmart-123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "A@Example.com", Password: "glowmart-123"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := newUserAuthTestService(t, "weak")

	if _, _, _, err := svc.Register(RegisterInput{Email: "b@example.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := newUserAuthTestService(t, "disabled")

	user, _, _, err := svc.Register(RegisterInput{Email: "c@example.com", Password: "glowmart-123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("c@example.com", "glowmart-123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePasswordInvalidatesOldTokens(t *testing.T) {
	svc, _ := newUserAuthTestService(t, "rotate")

	user, token, _, err := svc.Register(RegisterInput{Email: "d@example.com", Password: "glowmart-123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(user.ID, "glowmart-123", "glowmart-456"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if _, err := svc.CheckUserTokenClaims(claims); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old token must be rejected, got %v", err)
	}

	if _, _, _, err := svc.Login("d@example.com", "glowmart-456"); err != nil {
		t.Fatalf("new password must work: %v", err)
	}
}
