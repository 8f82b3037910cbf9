package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trstyle/storefront-services/internal/config"
	"github.com/trstyle/storefront-services/internal/models"
)

// GenerateAccessToken creates a signed JWT access token for the user record.
// The subject is the user key so downstream handlers can address the store
// directly from verified claims.
func GenerateAccessToken(cfg *config.Config, u *models.UserRecord, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      u.Key,
		"name":     u.Name,
		"email":    u.Email,
		"provider": u.Provider,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}
