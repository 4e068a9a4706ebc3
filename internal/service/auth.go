package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleet/internal/domain"
	"fleet/internal/redis"
	"fleet/internal/repository"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Claims is the JWT payload for both access and refresh tokens.
type Claims struct {
	Role      domain.UserRole `json:"role"`
	TokenType string          `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful signup, login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles account creation and the JWT session lifecycle.
// Refresh tokens are single-use: the hash of the latest issued token is
// stored on the user and rotated on every refresh. Access tokens are
// revoked via the redis blacklist on logout.
type AuthService struct {
	store  repository.Store
	tokens redis.TokenStoreInterface
	secret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.Store, tokens redis.TokenStoreInterface, secret string) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		secret: []byte(secret),
	}
}

// SignupRequest contains the parameters for creating an account.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// Signup creates an account and returns a fresh token pair. Driver accounts
// are provisioned by admins, not self-signup.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*domain.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return nil, nil, ErrInvalidPassword
	}
	if !domain.ValidUserRole(req.Role) || req.Role == domain.RoleDriver {
		return nil, nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies credentials and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token must be the latest
// one issued to the user, and a new pair replaces it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken, "refresh")
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	presented := hashToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

// Logout blacklists the access token for its remaining lifetime and clears
// the stored refresh token so it cannot be rotated again.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.parseToken(accessToken, "access")
	if err != nil {
		return err
	}

	user, err := s.store.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	user.RefreshTokenHash = ""
	if err := s.store.Users().Update(ctx, user); err != nil {
		return err
	}

	if s.tokens != nil && claims.ExpiresAt != nil {
		return s.tokens.Blacklist(ctx, accessToken, time.Until(claims.ExpiresAt.Time))
	}
	return nil
}

// Verify validates an access token against the signature, expiry and the
// blacklist, and returns the acting principal.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*domain.Actor, error) {
	if s.tokens != nil {
		revoked, err := s.tokens.IsBlacklisted(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	claims, err := s.parseToken(accessToken, "access")
	if err != nil {
		return nil, err
	}
	return &domain.Actor{ID: claims.Subject, Role: claims.Role}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.signToken(user, "access", accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	user.RefreshTokenHash = hashToken(refresh)
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parseToken(tokenString, tokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// hashToken stores a fingerprint of the refresh token rather than the token
// itself. sha256 instead of bcrypt: signed JWTs exceed bcrypt's 72-byte
// input limit.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
