package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"propertycare/backend/config"
	"propertycare/backend/internal/dto"
	"propertycare/backend/internal/model"
	"propertycare/backend/internal/repository"
	"propertycare/backend/pkg/jwt"
	"propertycare/backend/pkg/redis"
)

// ── auth errors ──

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidRefresh     = errors.New("refresh token is invalid")
)

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.ProfileResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout blacklists the access token's JTI until natural expiry.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	GetCurrentProfile(ctx context.Context, profileID string) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, profileID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.ProfileResponse, error) {
	// Uniqueness pre-checks; the DB unique constraints backstop races.
	if existing, err := s.repo.Profile.GetByUsername(ctx, req.Username); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup profile by username failed", zap.Error(err))
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}
	if existing, err := s.repo.Profile.GetByEmail(ctx, req.Email); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup profile by email failed", zap.Error(err))
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		Role:         req.Role,
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}
	if req.Role == model.RoleTenant {
		profile.TenantStatus = model.TenantInactive
	}

	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		s.logger.Error("create profile failed", zap.Error(err))
		return nil, err
	}

	return toProfileResponse(profile), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	profile, err := s.repo.Profile.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup profile failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(profile)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed, allowing refresh", zap.Error(err))
		} else if blacklisted {
			return nil, ErrInvalidRefresh
		}
	}

	profile, err := s.repo.Profile.GetByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return s.issueTokens(profile)
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.rdb == nil {
		return nil // blacklist unavailable, logout is client-side only
	}
	return s.rdb.BlacklistToken(ctx, jti, time.Until(expiresAt))
}

func (s *authService) GetCurrentProfile(ctx context.Context, profileID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("lookup profile failed", zap.String("id", profileID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *authService) ChangePassword(ctx context.Context, profileID string, req *dto.ChangePasswordRequest) error {
	profile, err := s.repo.Profile.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	profile.PasswordHash = string(hash)
	profile.UpdatedBy = &profileID

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		s.logger.Error("update password failed", zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) issueTokens(profile *model.Profile) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(profile.ProfileID, profile.Role)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(profile.ProfileID, profile.Role)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Profile:      *toProfileResponse(profile),
	}, nil
}

func toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:                    p.ProfileID,
		Role:                  p.Role,
		Name:                  p.Name,
		Username:              p.Username,
		Email:                 p.Email,
		Phone:                 p.Phone,
		PropertyID:            p.PropertyID,
		LandlordID:            p.LandlordID,
		MonthlyRent:           p.MonthlyRent,
		TenantStatus:          p.TenantStatus,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		CreatedAt:             p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             p.UpdatedAt.Format(time.RFC3339),
	}
	if p.LeaseStart != nil {
		resp.LeaseStart = p.LeaseStart.Format("2006-01-02")
	}
	if p.LeaseEnd != nil {
		resp.LeaseEnd = p.LeaseEnd.Format("2006-01-02")
	}
	if p.Property != nil {
		resp.PropertyName = p.Property.Name
	}
	return resp
}
