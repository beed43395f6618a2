package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"` // Custom claim for user ID
	Email                string `json:"email"`   // Login of the user
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenOptions controls how tokens are issued and validated
type TokenOptions struct {
	Secret   string        // HMAC secret
	TTL      time.Duration // Token lifetime
	Issuer   string        // "iss" claim, checked when set
	Audience string        // "aud" claim, checked when set
}

// GenerateJWT creates a JWT token for a given user
func GenerateJWT(userID uint, email string, opts TokenOptions) (string, error) {
	now := time.Now()
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour // Token expires in 24 hours by default
	}
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		Email:  email,  // Custom claim for the login
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,                            // Subject is the login
			Issuer:    opts.Issuer,                      // Empty issuer is omitted
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Expiration time
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	if opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{opts.Audience} // Intended resource server
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(opts.Secret))             // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr string, opts TokenOptions) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // Reject alg switching
		jwt.WithExpirationRequired(),                                 // Tokens must expire
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(opts.Secret), nil // Return the secret key for validation
	}, parserOpts...)
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
