package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorTokenIssuer is the issuer stamped on tokens minted by GenerateOperatorToken.
const OperatorTokenIssuer = "refinance-review"

// GenerateOperatorToken signs an HS256 token whose subject is the operator ID.
func GenerateOperatorToken(operatorID string, secret string, expiryDuration time.Duration) (string, error) {
	if operatorID == "" {
		return "", errors.New("operator ID is required")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    OperatorTokenIssuer,
		Subject:   operatorID,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseOperatorToken parses a token string, validates its HMAC signature and
// standard claims, and returns the claims. Any issuer is accepted.
func ParseOperatorToken(tokenString string, secretKey string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
