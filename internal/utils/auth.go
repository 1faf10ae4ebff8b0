package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/liftcare-id/liftcare/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// QRSentinelID is the reserved subject id used by anonymous QR-originated
// sessions. It never matches a user row; report submission stores a null
// technician for it.
const QRSentinelID uint = 0

// Claims is the payload carried by every session credential
type Claims struct {
	UserID   uint   `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	QRAccess bool   `json:"qr_access,omitempty"`
	LiftID   uint   `json:"lift_id,omitempty"`
	jwt.RegisteredClaims
}

// IsQRSentinel reports whether the claims belong to an anonymous QR session
func (c *Claims) IsQRSentinel() bool {
	return c.QRAccess && c.UserID == QRSentinelID
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateUserToken issues a 24h session credential for a logged-in user
func GenerateUserToken(user *models.User, secret string) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateQRSessionToken issues the short-lived scoped credential produced
// by a successful QR validate: sentinel subject, teknisi role, bound to a
// single lift for 4 hours.
func GenerateQRSessionToken(liftID uint, secret string) (string, error) {
	claims := Claims{
		UserID:   QRSentinelID,
		Email:    "qr-access@liftcare.com",
		Role:     models.RoleTeknisi,
		Name:     "QR Access",
		QRAccess: true,
		LiftID:   liftID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(4 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a session credential
func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
