package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rosepay/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateToken signs an access token for the given claims.
func GenerateToken(claims *models.UserClaims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenString, secret string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*models.UserClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
