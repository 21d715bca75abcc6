package auth

import (
	"errors"
	"fmt"
	"time"

	"biointake.io/infrastructure/logger"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken   = errors.New("invalid token used")
	ErrMissingSubject = errors.New("token carries no subject")
)

func GenerateAuthToken(claimsData ClaimsData, signingKey string) (*string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    claimsData.Issuer,
		Subject:   claimsData.UserID,
		IssuedAt:  jwt.NewNumericDate(time.Unix(claimsData.IssuedAt, 0)),
		ExpiresAt: jwt.NewNumericDate(time.Unix(claimsData.ExpiresAt, 0)),
	}).SignedString([]byte(signingKey))
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

// DecodeAuthToken verifies an HS256 token and returns its claims.
func DecodeAuthToken(tokenString string, signingKey string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature used")
		}
		logger.Warning("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserIDFromToken resolves a token to the caller's user ID.
func UserIDFromToken(tokenString string, signingKey string) (string, error) {
	claims, err := DecodeAuthToken(tokenString, signingKey)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
