package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "smarttransit-schedule-admin"

// ErrTokenExpired is returned by ValidateSessionToken for a well-formed token past its expiry
var ErrTokenExpired = jwt.ErrTokenExpired

// Claims represents the staff session token claims
type Claims struct {
	AdminID   uuid.UUID `json:"admin_id"`
	Email     string    `json:"email"`
	SessionID uuid.UUID `json:"session_id"`
	Roles     []string  `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the session carries role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service handles JWT operations
type Service struct {
	secret        string
	sessionExpiry time.Duration
}

// NewService creates a new JWT service
func NewService(secret string, sessionExpiry time.Duration) *Service {
	return &Service{
		secret:        secret,
		sessionExpiry: sessionExpiry,
	}
}

// SessionExpiry returns how long issued session tokens stay valid
func (s *Service) SessionExpiry() time.Duration {
	return s.sessionExpiry
}

// GenerateSessionToken issues a signed token for one staff sign-in
func (s *Service) GenerateSessionToken(adminID uuid.UUID, email string, sessionID uuid.UUID, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.sessionExpiry)

	claims := Claims{
		AdminID:   adminID,
		Email:     email,
		SessionID: sessionID,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   adminID.String(),
			ID:        sessionID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateSessionToken validates and parses a session token
func (s *Service) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.SessionID == uuid.Nil {
		return nil, errors.New("token has no session id")
	}

	return claims, nil
}
