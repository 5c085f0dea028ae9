// Package auth issues and validates the JWT tokens used by the API
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenGenerator handles JWT token generation and validation
type TokenGenerator struct {
	secret             string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry, refreshExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:             secret,
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// GenerateTokens generates both access and refresh tokens for a user.
// The access token carries user_id and role, the refresh token only user_id.
func (tg *TokenGenerator) GenerateTokens(userID int, role int) (string, string, error) {
	accessToken, err := tg.sign(jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(tg.accessTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    tokenTypeAccess,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := tg.sign(jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(tg.refreshTokenExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    tokenTypeRefresh,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (tg *TokenGenerator) sign(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tg.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, int, error) {
	claims, err := tg.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return 0, 0, err
	}

	userID, err := intClaim(claims, "user_id")
	if err != nil {
		return 0, 0, err
	}
	role, err := intClaim(claims, "role")
	if err != nil {
		return 0, 0, err
	}

	return userID, role, nil
}

// ValidateRefreshToken validates a refresh token and returns the userID
func (tg *TokenGenerator) ValidateRefreshToken(tokenString string) (int, error) {
	claims, err := tg.parse(tokenString, tokenTypeRefresh)
	if err != nil {
		return 0, err
	}
	return intClaim(claims, "user_id")
}

func (tg *TokenGenerator) parse(tokenString, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tg.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != expectedType {
		return nil, fmt.Errorf("token type is not %s", expectedType)
	}

	return claims, nil
}

// intClaim reads a numeric claim (JWT claims decode numbers as float64)
func intClaim(claims jwt.MapClaims, name string) (int, error) {
	value, ok := claims[name].(float64)
	if !ok {
		return 0, fmt.Errorf("%s not found in token", name)
	}
	return int(value), nil
}
