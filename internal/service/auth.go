package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/sweetly/sweetly-server/internal/hash"
	"github.com/sweetly/sweetly-server/internal/logging"
	"github.com/sweetly/sweetly-server/internal/models"
	"github.com/sweetly/sweetly-server/internal/repo"
	"github.com/sweetly/sweetly-server/internal/tokens"
)

const refreshTTL = 7 * 24 * time.Hour

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (s *AuthService) CreateAccessToken(user *models.User, accessExp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

func (s *AuthService) CreateRefreshToken(userID uint, refreshExp time.Time) (string, string, error) {
	jti := tokens.NewJTI()
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if role == "" {
		role = "user"
	}
	if role != "user" && role != "admin" {
		return nil, fmt.Errorf("%w: role must be user or admin", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%w: Username already taken", ErrConflict)
		}
		l.Error("register failed", "error", err)
		return nil, err
	}

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Invalid credentials", ErrUnauthorized)
		}
		l.Error("login failed", "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: Invalid credentials", ErrUnauthorized)
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token must be known,
// unrevoked and unexpired; it is revoked and a new pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid refresh token", ErrUnauthorized)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: Invalid refresh token", ErrUnauthorized)
		}
		l.Error("refresh failed", "error", err)
		return nil, err
	}
	if stored.Revoked || stored.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: Refresh token expired or revoked", ErrUnauthorized)
	}
	if stored.TokenHash != tokens.Sha256Hex(refreshToken) {
		return nil, fmt.Errorf("%w: Invalid refresh token", ErrUnauthorized)
	}

	user, err := s.Repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, fmt.Errorf("%w: Invalid refresh token", ErrUnauthorized)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, claims.ID); err != nil {
		l.Error("refresh revoke failed", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshTokenByHash(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.tokens", "user_id", user.ID)

	accessExp := time.Now().Add(s.AccessTTL)
	accessToken, err := s.CreateAccessToken(user, accessExp)
	if err != nil {
		l.Error("access token signing failed", "error", err)
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTTL)
	refreshToken, jti, err := s.CreateRefreshToken(user.ID, refreshExp)
	if err != nil {
		l.Error("refresh token signing failed", "error", err)
		return nil, err
	}

	if err := s.Repo.StoreRefreshToken(ctx, &models.RefreshToken{
		JTI:       jti,
		TokenHash: tokens.Sha256Hex(refreshToken),
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}); err != nil {
		l.Error("refresh token store failed", "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}
