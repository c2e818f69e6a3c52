package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthService issues, verifies, refreshes and revokes credentials.
type AuthService interface {
	Register(ctx context.Context, nome, email, senha string) (*models.User, error)
	Authenticate(ctx context.Context, email, senha string) (*models.User, *TokenPair, error)
	VerifyAccess(accessToken string) (uint, error)
	RefreshAccess(ctx context.Context, refreshToken string) (*TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	VerifyAndLoad(ctx context.Context, accessToken string) (*models.User, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// TokenPair represents access and refresh tokens. RefreshToken is empty on refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Claims is the JWT payload for both token kinds.
type Claims struct {
	UserID    uint   `json:"id"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// AuthOption customizes an AuthService.
type AuthOption func(*authService)

// WithClock replaces time.Now for minting and validation.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		s.now = now
	}
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	accessTTL        time.Duration
	refreshTTL       time.Duration
	now              func() time.Time
	logger           *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.JWTSecret),
		accessTTL:        cfg.AccessTokenTTL(),
		refreshTTL:       cfg.RefreshTokenTTL(),
		now:              time.Now,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Register(ctx context.Context, nome, email, senha string) (*models.User, error) {
	nome = strings.TrimSpace(nome)
	email = strings.TrimSpace(email)
	if nome == "" || email == "" || senha == "" {
		return nil, validationError("Nome, email e senha são obrigatórios")
	}

	s.logger.Info("📝 [AuthService] Registration attempt", "email", email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Nome:  nome,
		Email: email,
		Senha: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn("⚠️ [AuthService] Email registered concurrently", "email", email)
			return nil, ErrEmailAlreadyExists
		}
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, email, senha string) (*models.User, *TokenPair, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Senha), []byte(senha)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()

	accessToken, err := s.signAccessToken(user, now)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to sign access token", "error", err)
		return nil, nil, err
	}

	refreshToken, err := s.issueRefreshToken(ctx, user.ID, now)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue refresh token", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

func (s *authService) VerifyAccess(accessToken string) (uint, error) {
	claims, err := s.parse(accessToken, TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (s *authService) RefreshAccess(ctx context.Context, refreshToken string) (*TokenPair, error) {
	s.logger.Info("🔄 [AuthService] Token refresh attempt")

	now := s.now()

	stored, err := s.refreshTokenRepo.FindValid(ctx, refreshToken, now)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Refresh token not stored or expired")
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil || claims.UserID != stored.UserID {
		s.logger.Warn("⚠️ [AuthService] Refresh token failed verification", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	accessToken, err := s.signAccessToken(user, now)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to sign access token", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] Token refreshed successfully", "user_id", user.ID)
	return &TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.accessTTL / time.Second),
	}, nil
}

func (s *authService) Revoke(ctx context.Context, refreshToken string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token not found for logout")
			return ErrTokenNotFound
		}
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully")
	return nil
}

func (s *authService) VerifyAndLoad(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to purge expired refresh tokens", "error", err)
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("🧹 [AuthService] Purged expired refresh tokens", "count", deleted)
	}
	return deleted, nil
}

func (s *authService) signAccessToken(user *models.User, now time.Time) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) issueRefreshToken(ctx context.Context, userID uint, now time.Time) (string, error) {
	expiresAt := now.Add(s.refreshTTL)
	claims := Claims{
		UserID:    userID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	row := &models.RefreshToken{
		Token:     signed,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.refreshTokenRepo.Create(ctx, row); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return signed, nil
}

// parse validates signature, algorithm, expiry and token type.
func (s *authService) parse(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != tokenType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Service errors
var (
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrUserNotFound        = errors.New("user not found")
)
