package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity embedded in an access token.
type Claims struct {
	UserID     string
	Role       string
	FamilyRole string
	FamilyID   string
}

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given identity.
	GenerateToken(claims Claims) (string, error)
	// TTL returns the lifetime of issued tokens.
	TTL() time.Duration
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// TTL returns the configured expiration.
func (g *generator) TTL() time.Duration { return g.expiration }

// GenerateToken creates a signed HS256 token. familyId is omitted until the
// user has joined a family.
func (g *generator) GenerateToken(c Claims) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		"sub":        c.UserID,
		"role":       c.Role,
		"familyRole": c.FamilyRole,
		"exp":        now.Add(g.expiration).Unix(),
		"iat":        now.Unix(),
	}
	if c.FamilyID != "" {
		claims["familyId"] = c.FamilyID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
