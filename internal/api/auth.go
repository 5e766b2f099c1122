package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonymousUser owns every session when no JWT secret is configured
const AnonymousUser = "default"

// AuthManager handles JWT authentication
type AuthManager struct {
	jwtSecret []byte
}

// NewAuthManager creates a new auth manager. An empty secret disables
// authentication and maps every caller to AnonymousUser.
func NewAuthManager(jwtSecret string) *AuthManager {
	return &AuthManager{
		jwtSecret: []byte(jwtSecret),
	}
}

// Enabled reports whether tokens are checked
func (a *AuthManager) Enabled() bool {
	return len(a.jwtSecret) > 0
}

// Authenticate returns the user id for a request. The token comes from the
// Authorization header, or the "token" query parameter for websocket clients
// that cannot set headers.
func (a *AuthManager) Authenticate(r *http.Request) (string, error) {
	if !a.Enabled() {
		return AnonymousUser, nil
	}

	tokenString := r.URL.Query().Get("token")
	if header := r.Header.Get("Authorization"); header != "" {
		var err error
		tokenString, err = a.ExtractTokenFromHeader(header)
		if err != nil {
			return "", err
		}
	}
	if tokenString == "" {
		return "", fmt.Errorf("missing token")
	}
	return a.ValidateToken(tokenString)
}

// ValidateToken validates a JWT token and returns the user ID
func (a *AuthManager) ValidateToken(tokenString string) (string, error) {
	if !a.Enabled() {
		return AnonymousUser, nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("user_id not found in token")
}

// IssueToken signs an HS256 token for userID valid for ttl
func (a *AuthManager) IssueToken(userID string, ttl time.Duration) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("no JWT secret configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func (a *AuthManager) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is empty")
	}

	// "Bearer <token>" or the bare token
	parts := strings.Fields(authHeader)
	switch len(parts) {
	case 2:
		if !strings.EqualFold(parts[0], "bearer") {
			return "", fmt.Errorf("invalid authorization header format")
		}
		return parts[1], nil
	case 1:
		return parts[0], nil
	}
	return "", fmt.Errorf("invalid authorization header format")
}
