package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"threadhub/pkg/models"
)

// ErrInvalidToken is returned for unparsable, expired or forged tokens
var ErrInvalidToken = errors.New("invalid token")

// AuthService turns bearer tokens into viewers. Tokens are issued by an
// external identity service sharing the HS256 secret; IssueToken exists for
// development and tests.
type AuthService interface {
	ValidateToken(ctx context.Context, tokenString string) (models.Viewer, error)
	IssueToken(viewer models.Viewer) (string, time.Time, error)
}

type authService struct {
	jwtSecret []byte
	jwtIssuer string
	jwtExpiry time.Duration
}

// JWT claims structure
type jwtClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(jwtSecret, jwtIssuer string, jwtExpiry time.Duration) AuthService {
	return &authService{
		jwtSecret: []byte(jwtSecret),
		jwtIssuer: jwtIssuer,
		jwtExpiry: jwtExpiry,
	}
}

// ValidateToken verifies a JWT token and returns the viewer it names
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (models.Viewer, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return models.Viewer{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return models.Viewer{}, ErrInvalidToken
	}
	if s.jwtIssuer != "" && !claims.VerifyIssuer(s.jwtIssuer, true) {
		return models.Viewer{}, ErrInvalidToken
	}

	return models.Viewer{ID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// IssueToken signs a token for viewer
func (s *authService) IssueToken(viewer models.Viewer) (string, time.Time, error) {
	if viewer.Anonymous() {
		return "", time.Time{}, fmt.Errorf("issue token: %w", models.ErrInvalidInput)
	}
	expiresAt := time.Now().Add(s.jwtExpiry)

	claims := &jwtClaims{
		UserID: viewer.ID,
		Name:   viewer.Name,
		Role:   viewer.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}
