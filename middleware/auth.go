package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	APIKeyHeader = "X-API-Key"
	AdminRole    = "admin"
)

// ValidateAPIKey checks the request's API key against a bcrypt hash.
// The key is read from X-API-Key, falling back to "ApiKey <key>" in Authorization.
func ValidateAPIKey(r *http.Request, hash string) *HTTPError {
	apiKey := r.Header.Get(APIKeyHeader)
	if apiKey == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "ApiKey ") {
			apiKey = strings.TrimPrefix(authHeader, "ApiKey ")
		}
	}

	if apiKey == "" {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "API key required. Use X-API-Key header or 'ApiKey <key>' in Authorization header",
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)); err != nil {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid API key",
		}
	}
	return nil
}

// RequireAPIKey guards write routes. An empty hash disables the check.
func RequireAPIKey(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpErr := ValidateAPIKey(r, hash); httpErr != nil {
				WriteError(w, r, httpErr)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminClaims are the claims of an admin bearer token
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ValidateAdminToken parses an HS256 bearer token and requires the admin role
func ValidateAdminToken(r *http.Request, secret string) (*AdminClaims, *HTTPError) {
	if secret == "" {
		return nil, &HTTPError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "Admin authentication is not configured",
		}
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Bearer token required",
		}
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		msg := "Invalid token"
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			msg = "Token expired"
		}
		return nil, &HTTPError{StatusCode: http.StatusUnauthorized, Message: msg}
	}

	if claims.Role != AdminRole {
		return nil, &HTTPError{
			StatusCode: http.StatusForbidden,
			Message:    "Admin role required",
		}
	}
	return claims, nil
}

// RequireAdminJWT guards admin routes
func RequireAdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, httpErr := ValidateAdminToken(r, secret); httpErr != nil {
				WriteError(w, r, httpErr)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
