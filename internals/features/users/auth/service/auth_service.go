package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cleanops_backend/internals/features/users/auth/dto"
	"cleanops_backend/internals/features/users/auth/model"
	userModel "cleanops_backend/internals/features/users/user/model"
	userService "cleanops_backend/internals/features/users/user/service"
	helper "cleanops_backend/internals/helpers"
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
)

type Options struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AuthService struct {
	db    *gorm.DB
	log   *zap.Logger
	opts  Options
	cache BlacklistCache
	now   func() time.Time
}

func NewAuthService(db *gorm.DB, log *zap.Logger, opts Options, cache BlacklistCache) *AuthService {
	return &AuthService{db: db, log: log, opts: opts, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

/* ===== TOKENS ===== */

func (s *AuthService) hashToken(raw string) string {
	m := hmac.New(sha256.New, []byte(s.opts.Secret))
	_, _ = m.Write([]byte(raw))
	return hex.EncodeToString(m.Sum(nil))
}

func (s *AuthService) issue(u *userModel.UserModel) (*dto.TokenResponse, error) {
	now := s.now()
	access := jwt.MapClaims{
		"sub":   u.ID.String(),
		"email": u.Email,
		"role":  u.Role,
		"typ":   typAccess,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.opts.AccessTTL).Unix(),
	}
	refresh := jwt.MapClaims{
		"sub": u.ID.String(),
		"typ": typRefresh,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(s.opts.RefreshTTL).Unix(),
	}
	at, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(s.opts.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	rt, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(s.opts.RefreshSecret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken:  at,
		RefreshToken: rt,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.opts.AccessTTL.Seconds()),
		User:         u,
	}, nil
}

// expiryOf reads exp without verifying the signature; callers verified already.
func expiryOf(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	if exp, ok := claims["exp"].(float64); ok {
		return time.Unix(int64(exp), 0).UTC()
	}
	return time.Time{}
}

/* ===== LOGIN / REFRESH / LOGOUT ===== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	db := s.db.WithContext(ctx)
	var u userModel.UserModel
	if err := db.Where("email = ?", req.Email).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewUnauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !userService.CheckPassword(u.PasswordHash, req.Password) {
		return nil, helper.NewUnauthorized("invalid email or password")
	}
	if u.Status != userModel.StatusActive {
		return nil, helper.NewUnauthorized("account is not active")
	}

	now := s.now()
	if err := db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		s.log.Warn("update last login failed", zap.Error(err))
	}
	u.LastLoginAt = &now
	s.log.Info("login", zap.String("user_id", u.ID.String()))
	return s.issue(&u)
}

// Refresh rotates the pair: the presented refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*dto.TokenResponse, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.opts.RefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil, helper.NewUnauthorized("invalid refresh token")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	if typ, _ := claims["typ"].(string); typ != typRefresh {
		return nil, helper.NewUnauthorized("invalid refresh token")
	}
	revoked, err := s.IsRevoked(ctx, raw)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, helper.NewUnauthorized("refresh token revoked")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, helper.NewUnauthorized("invalid refresh token")
	}

	var u userModel.UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NewUnauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u.Status != userModel.StatusActive {
		return nil, helper.NewUnauthorized("account is not active")
	}
	if err := s.Revoke(ctx, raw); err != nil {
		return nil, err
	}
	return s.issue(&u)
}

// Revoke blacklists a token until its own expiry.
func (s *AuthService) Revoke(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	exp := expiryOf(raw)
	if exp.IsZero() {
		exp = s.now().Add(s.opts.RefreshTTL)
	}
	hash := s.hashToken(raw)
	row := model.TokenBlacklist{TokenHash: hash, ExpiredAt: exp}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Revoke(ctx, hash, exp.Sub(s.now())); err != nil {
			s.log.Warn("blacklist cache write failed", zap.Error(err))
		}
	}
	return nil
}

// IsRevoked checks the cache first and falls back to the table.
func (s *AuthService) IsRevoked(ctx context.Context, raw string) (bool, error) {
	hash := s.hashToken(raw)
	if s.cache != nil {
		revoked, err := s.cache.IsRevoked(ctx, hash)
		if err == nil && revoked {
			return true, nil
		}
		if err != nil {
			s.log.Warn("blacklist cache read failed", zap.Error(err))
		}
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.TokenBlacklist{}).
		Where("token_hash = ? AND expired_at > ?", hash, s.now()).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

/* ===== ACCOUNT ===== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	return helper.FindLive[userModel.UserModel](s.db.WithContext(ctx), userID, "user")
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	db := s.db.WithContext(ctx)
	u, err := helper.FindLive[userModel.UserModel](db, userID, "user")
	if err != nil {
		return err
	}
	if !userService.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return helper.NewFieldError("currentPassword", "currentPassword is incorrect")
	}
	hash, err := userService.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return db.Model(u).Update("password_hash", hash).Error
}

// PurgeExpired deletes blacklist rows whose token has expired.
func PurgeExpired(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at <= ?", now).Delete(&model.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
