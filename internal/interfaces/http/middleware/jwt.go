package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartshop/backend/internal/infrastructure/auth"
	"github.com/smartshop/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Context keys for authenticated request data
const (
	ContextKeyClaims   = "jwt_claims"
	ContextKeyUserID   = "jwt_user_id"
	ContextKeyUsername = "jwt_username"
	ContextKeyRole     = "jwt_role"
)

// JWTConfig holds JWT middleware configuration
type JWTConfig struct {
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWT returns an authentication middleware that validates Bearer tokens.
// Blacklist may be nil, in which case revocation checks are skipped.
func JWT(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger, cfg JWTConfig) gin.HandlerFunc {
	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if blacklist != nil {
			// Revocation checks fail open: an unreachable blacklist store
			// must not take down all authenticated traffic.
			revoked, berr := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if berr != nil {
				log.Warn("token blacklist check failed",
					zap.String("path", path),
					zap.Error(berr))
			} else if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token has been revoked")
				return
			}

			invalidated, berr := blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.GetIssuedAtTime())
			if berr != nil {
				log.Warn("user token invalidation check failed",
					zap.String("path", path),
					zap.Error(berr))
			} else if invalidated {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, "session has been invalidated, please log in again")
				return
			}
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireRole returns a middleware that rejects requests whose
// authenticated role is not in the allowed set. It must run after JWT.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "authentication required")
			return
		}
		if _, ok := allowed[role]; !ok {
			requestID, _ := c.Get("request_id")
			rid, _ := requestID.(string)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "insufficient permissions for this operation", rid))
			return
		}
		c.Next()
	}
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("authorization header format must be Bearer {token}")
	}

	return parts[1], nil
}

// handleAuthError maps token validation errors to API error responses
func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortUnauthorized(c, dto.ErrCodeTokenExpired, "token has expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token is not yet valid")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "wrong token type for this endpoint")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "token has been revoked")
	default:
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "invalid token")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID, _ := c.Get("request_id")
	rid, _ := requestID.(string)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, rid))
}

// GetJWTClaims returns the validated claims stored by the JWT middleware
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user ID, or empty string
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetJWTUsername returns the authenticated username, or empty string
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetJWTRole returns the authenticated user's role, or empty string
func GetJWTRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}
