package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const (
	UserIDKey contextKey = "userID"
)

// Config holds JWT authentication configuration
type Config struct {
	Secret string
}

// JWTMiddleware authenticates requests carrying an HS256 bearer token
type JWTMiddleware struct {
	config Config
	logger *zap.SugaredLogger
}

// NewJWTMiddleware creates a new JWT middleware
func NewJWTMiddleware(config Config, logger *zap.SugaredLogger) *JWTMiddleware {
	return &JWTMiddleware{
		config: config,
		logger: logger,
	}
}

// Middleware returns a chi middleware function for JWT authentication
func (m *JWTMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractTokenFromHeader(r)
		if tokenString == "" {
			m.unauthorized(w, r, errors.New("no authorization token provided"))
			return
		}

		userID, err := m.validateToken(tokenString)
		if err != nil {
			m.unauthorized(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractTokenFromHeader extracts the JWT token from the Authorization header
func extractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it's a Bearer token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// validateToken validates an HS256 token and returns its subject
func (m *JWTMiddleware) validateToken(tokenString string) (string, error) {
	if m.config.Secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	return extractUserIDFromToken(token)
}

// extractUserIDFromToken extracts the user ID from the token claims
func extractUserIDFromToken(token *jwt.Token) (string, error) {
	if !token.Valid {
		return "", errors.New("invalid token claims")
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("invalid 'sub' claim: %w", err)
	}
	if sub == "" {
		return "", errors.New("token missing 'sub' claim")
	}

	return sub, nil
}

// GenerateToken signs an HS256 token for subject that expires after ttl
func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// unauthorized responds with a 401 error envelope
func (m *JWTMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.Debugw("Unauthorized request", "error", err, "path", r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(domain.NewErrorEnvelope(http.StatusUnauthorized, domain.MessageUnauthorized))
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
