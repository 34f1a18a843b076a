package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ShareToken is a validated share-link token: read-only access to one
// asset's configuration snapshot.
type ShareToken struct {
	TenantID  string
	AssetID   string
	TokenID   string
	ExpiresAt time.Time
}

// ShareService signs and validates share links for completed configuration
// snapshots. Tokens are HMAC-signed JWTs; single use is enforced through
// Redis.
type ShareService struct {
	secretKey []byte
	redis     *redis.Client
}

func NewShareService(secretKey []byte, redisClient *redis.Client) *ShareService {
	return &ShareService{
		secretKey: secretKey,
		redis:     redisClient,
	}
}

// GenerateShareToken signs a single-use token for one asset's snapshot.
func (s *ShareService) GenerateShareToken(tenantID, assetID string, ttl time.Duration) (string, error) {
	tokenID := uuid.New().String()
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"tenant_id": tenantID,
		"asset_id":  assetID,
		"jti":       tokenID,
		"exp":       expiresAt.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a share token, including expiry and
// single-use checks.
func (s *ShareService) ValidateToken(ctx context.Context, tokenString string) (*ShareToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse share token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid share token")
	}

	tenantID, ok := (*claims)["tenant_id"].(string)
	if !ok {
		return nil, errors.New("missing or invalid tenant_id claim")
	}

	assetID, ok := (*claims)["asset_id"].(string)
	if !ok {
		return nil, errors.New("missing or invalid asset_id claim")
	}

	tokenID, ok := (*claims)["jti"].(string)
	if !ok {
		return nil, errors.New("missing or invalid jti claim")
	}

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}
	expiresAt := time.Unix(int64(expFloat), 0)

	if time.Now().After(expiresAt) {
		return nil, errors.New("share token expired")
	}

	used, err := s.isTokenUsed(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token usage: %w", err)
	}
	if used {
		return nil, errors.New("share token already used")
	}

	return &ShareToken{
		TenantID:  tenantID,
		AssetID:   assetID,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

// MarkTokenAsUsed records single use. The Redis entry lives as long as the
// longest token TTL we ever hand out.
func (s *ShareService) MarkTokenAsUsed(ctx context.Context, tokenID string) error {
	err := s.redis.Set(ctx, "share:used:"+tokenID, "1", 24*time.Hour).Err()
	if err != nil {
		return fmt.Errorf("failed to mark share token as used: %w", err)
	}
	return nil
}

func (s *ShareService) isTokenUsed(ctx context.Context, tokenID string) (bool, error) {
	val, err := s.redis.Exists(ctx, "share:used:"+tokenID).Result()
	if err != nil {
		return false, err
	}
	return val > 0, nil
}
