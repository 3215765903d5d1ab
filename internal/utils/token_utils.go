package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims extends the standard JWT claims with the reviewer flag.
type AuthClaims struct {
	jwt.RegisteredClaims
	IsReviewer bool `json:"isReviewer"`
}

// GenerateJWT generates a new JWT token with the given parameters.
func GenerateJWT(userID string, isReviewer bool, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	expiresAt := time.Now().Add(expiryDuration)
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		IsReviewer: isReviewer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims.
// It returns the AuthClaims if the token is valid, or an error otherwise.
func ParseAndValidateJWT(tokenString string, secretKey string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err // This will include errors like token expired, signature invalid, etc.
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
