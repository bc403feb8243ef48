package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

const tokenTypeAccess = "access"

// Claims are the claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.UserRole `json:"role"`
	Type string          `json:"type"`
}

// JWTService signs and verifies HS256 access tokens. Revoked token IDs are
// kept in the cache until the token would have expired anyway.
type JWTService struct {
	secret   []byte
	issuer   string
	duration time.Duration
	cache    ports.Cache
	log      *zap.Logger
	now      func() time.Time
}

func NewJWTService(secret, issuer string, duration time.Duration, cache ports.Cache, log *zap.Logger) *JWTService {
	if duration <= 0 {
		duration = 24 * time.Hour
	}
	log.Info("JWT service initialized", zap.Duration("access_duration", duration))
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		duration: duration,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Issue signs an access token for user.
func (s *JWTService) Issue(user *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			ID:        uuid.New().String(),
		},
		Role: user.Role,
		Type: tokenTypeAccess,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error("Failed to sign access token", zap.String("user_id", user.ID), zap.Error(err))
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and type, and rejects revoked tokens.
func (s *JWTService) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		s.log.Debug("Token validation failed", zap.Error(err))
		return nil, domain.Unauthorized("token inválido ou expirado")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenTypeAccess || claims.Subject == "" {
		return nil, domain.Unauthorized("token inválido")
	}
	if s.revoked(ctx, claims.ID) {
		return nil, domain.Unauthorized("sessão encerrada")
	}
	return claims, nil
}

// Revoke blacklists the token ID until exp.
func (s *JWTService) Revoke(ctx context.Context, claims *Claims) error {
	if s.cache == nil || claims.ID == "" {
		return nil
	}
	ttl := s.duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedKey(claims.ID), "revoked", ttl); err != nil {
		s.log.Error("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.log.Info("Token revoked", zap.String("jti", claims.ID), zap.String("user_id", claims.Subject))
	return nil
}

func (s *JWTService) revoked(ctx context.Context, jti string) bool {
	if s.cache == nil || jti == "" {
		return false
	}
	val, err := s.cache.Get(ctx, revokedKey(jti))
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn("Revocation lookup failed", zap.String("jti", jti), zap.Error(err))
		}
		return false
	}
	return val == "revoked"
}

func revokedKey(jti string) string {
	return "revoked_token:" + jti
}
