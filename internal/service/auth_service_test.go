package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"propertycare/backend/config"
	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/pkg/jwt"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	repo, _ := newMemRepository()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-at-least-16-chars",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
	}
	return NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
}

func register(t *testing.T, svc AuthService, username string) *dto.ProfileResponse {
	t.Helper()
	profile, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Role: model.RoleTenant, Name: "Tom Tenant",
		Username: username, Email: username + "@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return profile
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	register(t, svc, "tom")

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Role: model.RoleTenant, Name: "Tom Two",
		Username: "tom", Email: "tom2@example.com", Password: "another password",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username: err = %v, want ErrUsernameTaken", err)
	}

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Role: model.RoleTenant, Name: "Tom Two",
		Username: "tom2", Email: "tom@example.com", Password: "another password",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	register(t, svc, "tom")

	tokens, err := svc.Login(ctx, &dto.LoginRequest{Username: "tom", Password: "correct horse battery"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("login returned empty tokens")
	}
	if tokens.Profile.Username != "tom" {
		t.Errorf("profile username = %q, want tom", tokens.Profile.Username)
	}

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("refresh returned empty access token")
	}

	// An access token is not a refresh token.
	if _, err := svc.Refresh(ctx, tokens.AccessToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("refresh with access token: err = %v, want ErrInvalidRefresh", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	register(t, svc, "tom")

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "tom", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()
	profile := register(t, svc, "tom")

	err := svc.ChangePassword(ctx, profile.ID, &dto.ChangePasswordRequest{
		OldPassword: "not the password", NewPassword: "brand new password",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong old password: err = %v, want ErrWrongPassword", err)
	}

	err = svc.ChangePassword(ctx, profile.ID, &dto.ChangePasswordRequest{
		OldPassword: "correct horse battery", NewPassword: "brand new password",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "tom", Password: "brand new password"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "tom", Password: "correct horse battery"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login with old password: err = %v, want ErrInvalidCredentials", err)
	}
}
