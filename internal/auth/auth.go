package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
)

const adminRole = "admin"

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Login checks the operator credentials and issues a signed admin token.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		return "", apperrors.Unauthorized("Invalid credentials")
	}

	claims := jwt.MapClaims{
		"username": username,
		"role":     adminRole,
		"exp":      time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", apperrors.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// VerifyAdmin validates a bearer token and its admin role claim.
func (s *Service) VerifyAdmin(authHeader string) error {
	if authHeader == "" {
		return apperrors.Unauthorized("Authentication required")
	}

	raw := strings.TrimPrefix(authHeader, "Bearer ")
	if raw == authHeader {
		return apperrors.Unauthorized("Authentication required")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return apperrors.Unauthorized("Token expired")
		}
		return apperrors.Unauthorized("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != adminRole {
		return apperrors.Forbidden("Admin access required")
	}
	return nil
}
