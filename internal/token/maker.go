// Package token issues and parses the signed credentials used by the
// authorization gate. The claims payload is the sole source of truth for
// downstream role checks: it is not re-validated against the database per
// request, so permission changes take effect at the next login.
package token

import (
	"fmt"
	"time"

	"gymstack/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries identity, role and the permission bundle inside the JWT.
type Claims struct {
	Username    string                  `json:"username"`
	Role        string                  `json:"role"`
	Permissions models.PermissionBundle `json:"permissions"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a parsed UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Maker signs and verifies HS256 tokens.
type Maker struct {
	secretKey []byte
	tokenTTL  time.Duration
}

func NewMaker(secretKey string, ttl time.Duration) *Maker {
	return &Maker{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
	}
}

// GenerateToken issues a token for the given user and role snapshot.
func (m *Maker) GenerateToken(user *models.User, userType *models.UserType) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:    user.Username,
		Role:        userType.Name,
		Permissions: userType.Permissions(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "gymstack-auth",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the claims.
func (m *Maker) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// TTL reports the configured token lifetime in seconds, for login responses.
func (m *Maker) TTL() int {
	return int(m.tokenTTL.Seconds())
}
