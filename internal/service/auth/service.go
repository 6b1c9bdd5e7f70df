// Package auth implements operator login for the dashboard's mutating
// routes. There is one operator identity, configured at startup.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cfolkers/caribou-portal/config"
)

var ErrInvalidCredentials = errors.New("invalid operator name or password")

const tokenLifetime = 24 * time.Hour

type Service struct {
	operatorName string
	passwordHash string
	jwtSecret    string
}

func NewService(cfg config.AuthConfig) *Service {
	return &Service{
		operatorName: cfg.OperatorName,
		passwordHash: cfg.OperatorPasswordHash,
		jwtSecret:    cfg.JWTSecret,
	}
}

// Login checks operator credentials and returns a signed token.
func (s *Service) Login(name, password string) (string, error) {
	if name != s.operatorName {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"operator": name,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Verify validates a token and returns the operator name it was issued to.
func (s *Service) Verify(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenMalformed
	}
	operator, ok := claims["operator"].(string)
	if !ok || operator == "" {
		return "", jwt.ErrTokenMalformed
	}
	return operator, nil
}

// HashPassword produces the bcrypt hash stored in configuration for the
// operator password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 8)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
