package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Tokens is the service used by the Router and the auth handlers
var Tokens *TokenService

type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

type claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"user_id"`
	Type   string `json:"typ"`
}

type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationStore
	now        func() time.Time
}

func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration, revoked RevocationStore) *TokenService {
	return &TokenService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
		now:        time.Now,
	}
}

// Init sets up Tokens from the configuration. Revocations go to Redis when REDIS_ADDR is
// set and stay in memory otherwise.
func Init(ctx context.Context) error {
	secret := []byte(config.JWT_SECRET)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return err
		}
		logger.Warn("JWT_SECRET is not set, using a random secret: tokens won't survive a restart")
	}
	var store RevocationStore
	if config.REDIS_ADDR != "" {
		redisStore, err := NewRedisRevocationStore(ctx, config.REDIS_ADDR, config.REDIS_PASSWORD, config.REDIS_DB)
		if err != nil {
			return err
		}
		store = redisStore
		logger.Info("token revocations in redis", logger.String("addr", config.REDIS_ADDR))
	} else {
		memoryStore := NewMemoryRevocationStore()
		memoryStore.StartSweeper(ctx, 10*time.Minute)
		store = memoryStore
	}
	Tokens = NewTokenService(
		secret,
		time.Duration(config.ACCESS_TOKEN_EXPIRES)*time.Second,
		time.Duration(config.REFRESH_TOKEN_EXPIRES)*time.Second,
		store,
	)
	return nil
}

func (s *TokenService) sign(userID uint64, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   tokenType,
	})
	return token.SignedString(s.secret)
}

// Issue signs a new access/refresh pair for the user
func (s *TokenService) Issue(userID uint64) (pair TokenPair, err error) {
	if pair.AccessToken, err = s.sign(userID, TokenTypeAccess, s.accessTTL); err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	if pair.RefreshToken, err = s.sign(userID, TokenTypeRefresh, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	pair.ExpiresIn = int64(s.accessTTL / time.Second)
	pair.RefreshExpiresIn = int64(s.refreshTTL / time.Second)
	return pair, nil
}

// parse checks the signature and the expiry. Revocation is left to the callers.
func (s *TokenService) parse(token string) (*claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenMissing
	}
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenInvalid
	}
	if parsed.ID == "" || parsed.UserID == 0 || parsed.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	if !parsed.ExpiresAt.Time.After(s.now()) {
		return nil, ErrTokenExpired
	}
	return &parsed, nil
}

func (s *TokenService) checkRevoked(ctx context.Context, c *claims) error {
	revoked, err := s.revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// Validate returns the user id of a valid, unrevoked access token
func (s *TokenService) Validate(ctx context.Context, token string) (uint64, error) {
	c, err := s.parse(token)
	if err != nil {
		return 0, err
	}
	if c.Type != TokenTypeAccess {
		return 0, ErrTokenInvalid
	}
	if err = s.checkRevoked(ctx, c); err != nil {
		return 0, err
	}
	return c.UserID, nil
}

// Revoke blocks a token of either type until it expires. Tokens that are already
// expired are left alone.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	ttl := c.ExpiresAt.Time.Sub(s.now())
	if err = s.revoked.Revoke(ctx, c.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Refresh trades a refresh token for a new pair. The used refresh token is revoked,
// so each one works only once.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	c, err := s.parse(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if c.Type != TokenTypeRefresh {
		return TokenPair{}, ErrTokenInvalid
	}
	if err = s.checkRevoked(ctx, c); err != nil {
		return TokenPair{}, err
	}
	if err = s.revoked.Revoke(ctx, c.ID, c.ExpiresAt.Time.Sub(s.now())); err != nil {
		return TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	return s.Issue(c.UserID)
}

// IsTokenError tells token problems of the caller apart from failures of the service
func IsTokenError(err error) bool {
	for _, target := range []error{ErrTokenMissing, ErrTokenExpired, ErrTokenMalformed, ErrTokenRevoked, ErrTokenInvalid} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// TokenFromHeader extracts the token of an "Authorization: Bearer <token>" header
func TokenFromHeader(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
