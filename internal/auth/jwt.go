// Package auth issues and validates organizer tokens for the event management routes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Organizer roles accepted on event management routes.
const (
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// DefaultTTL is the lifetime of issued organizer tokens.
const DefaultTTL = 12 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
)

// ValidRole reports whether role may manage events.
func ValidRole(role string) bool {
	return role == RoleOrganizer || role == RoleAdmin
}

// Claims identifies the organizer making the request.
type Claims struct {
	Organizer string `json:"organizer"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService handles token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a JWT service. Tokens it issues live for ttl.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed HS256 token for organizer.
func (s *JWTService) Generate(organizer, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Organizer: organizer,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   organizer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a JWT, returning claims or ErrInvalidToken.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
