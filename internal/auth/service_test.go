package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/autotrackr/autotrackr-backend/pkg/auth"
	"github.com/autotrackr/autotrackr-backend/pkg/config"
	"github.com/autotrackr/autotrackr-backend/pkg/db/models"
	pkgerrors "github.com/autotrackr/autotrackr-backend/pkg/errors"
	"github.com/autotrackr/autotrackr-backend/pkg/security"
)

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessions struct {
	accessID string
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.accessID = accessID
	return "refresh-token-value", nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "autotrackr",
		ExpirationMinutes: 30,
	}
}

func testUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{ID: uuid.New(), Email: email, PasswordHash: hash}
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "admin@example.com", "hunter22")}
	sessions := &stubSessions{}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	res, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Admin@Example.com ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if res.User == nil || res.User.Email != "admin@example.com" {
		t.Fatalf("expected sanitized user, got %+v", res.User)
	}
	if repo.lastLogin == nil {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), res.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != repo.user.ID {
		t.Fatalf("expected user id %s in claims, got %s", repo.user.ID, claims.UserID)
	}
	if claims.ID != sessions.accessID {
		t.Fatalf("expected jti %s to match session id %s", claims.ID, sessions.accessID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubUserRepo{user: testUser(t, "admin@example.com", "hunter22")}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: &stubSessions{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "nope"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{},
		SessionManager: &stubSessions{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
