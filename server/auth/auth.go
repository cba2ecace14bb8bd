// Package auth provides password hashing and access token handling.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Issuer is the issuer claim of access tokens.
	Issuer = "fundoo"
	// AccessTokenDuration is the lifetime of an access token.
	AccessTokenDuration = 7 * 24 * time.Hour
	// ResetTokenDuration is the lifetime of a password reset token.
	ResetTokenDuration = 15 * time.Minute

	accessAudience = "user.access-token"
	resetAudience  = "password-reset"
)

// ClaimsMessage is the JWT claims payload of an access token.
type ClaimsMessage struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext password matches the hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateAccessToken issues a signed access token for the user.
func GenerateAccessToken(userID int32, email string, secret string) (string, error) {
	now := time.Now()
	claims := &ClaimsMessage{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  jwt.ClaimStrings{accessAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates a token and returns the user id it names.
func ParseAccessToken(tokenString, secret string) (int32, error) {
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(accessAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "invalid access token")
	}

	var userID int32
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return 0, errors.Wrap(err, "invalid subject claim")
	}
	return userID, nil
}

// GenerateResetToken issues a short-lived token that authorizes a password
// reset for the user. The audience claim keeps it from being accepted as an
// access token.
func GenerateResetToken(userID int32, secret string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   fmt.Sprintf("%d", userID),
		Audience:  jwt.ClaimStrings{resetAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ResetTokenDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseResetToken validates a password reset token and returns the user id.
func ParseResetToken(tokenString, secret string) (int32, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "invalid reset token")
	}

	var userID int32
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return 0, errors.Wrap(err, "invalid subject claim")
	}
	return userID, nil
}
