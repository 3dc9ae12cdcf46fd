package utils

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token purposes, a token minted for one purpose is refused for any other
const (
	PurposeSession = "session" // Bearer token returned on login
	PurposeVerify  = "verify"  // Email verification link
	PurposeReset   = "reset"   // Password reset link
)

// Token lifetimes
const (
	SessionTTL = time.Hour      // Session tokens expire after 1 hour
	VerifyTTL  = 24 * time.Hour // Verification links expire after 1 day
	ResetTTL   = time.Hour      // Reset links expire after 1 hour
)

// ErrWrongPurpose is returned when a valid token is used for the wrong flow
var ErrWrongPurpose = errors.New("token purpose mismatch")

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	Purpose              string `json:"purpose"` // Flow the token was minted for
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a JWT token for a given user ID
func GenerateJWT(userID uint, purpose string, ttl time.Duration, secret string) (string, error) {
	now := time.Now() // Single timestamp for iat and exp
	// Set token claims
	claims := Claims{
		UserID:  userID,  // Custom claim for user ID
		Purpose: purpose, // Flow binding
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string minted for purpose
func ParseJWT(tokenStr, purpose, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if invalid
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose // Token belongs to another flow
	}
	return claims, nil
}
