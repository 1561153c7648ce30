package middleware

import (
	"context"
	"net/http"
	"strings"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a raw access token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// AuthMiddleware accepts a bearer token or the auth_token cookie.
// Roles are loaded fresh by the authenticator, never trusted from the token.
func AuthMiddleware(authn Authenticator, audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			audit.LogAccessDenied(c.Request.Context(), "", c.ClientIP(), requestID(c), c.FullPath(), "")
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		identity, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			audit.LogAccessDenied(c.Request.Context(), "", c.ClientIP(), requestID(c), c.FullPath(), "")
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), identity.AccountID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserRoles), identity.Roles)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	// 1. Authorization header
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		scheme, token, ok := strings.Cut(authHeader, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	// 2. Cookie
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// RequireCapability rejects callers whose roles do not grant capability.
// Must run after AuthMiddleware.
func RequireCapability(capability domain.Capability, audit *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			audit.LogAccessDenied(c.Request.Context(), "", c.ClientIP(), requestID(c), c.FullPath(), string(capability))
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		if !domain.HasCapability(identity.Roles, capability) {
			audit.LogAccessDenied(c.Request.Context(), identity.AccountID, c.ClientIP(), requestID(c), c.FullPath(), string(capability))
			response.Error(c, http.StatusForbidden, "You do not have permission to perform this action", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity AuthMiddleware stored on the context.
func CurrentIdentity(c *gin.Context) (domain.Identity, bool) {
	id := c.GetString(string(domain.KeyUserID))
	if id == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{
		AccountID: id,
		Email:     c.GetString(string(domain.KeyUserEmail)),
		Roles:     c.GetStringSlice(string(domain.KeyUserRoles)),
	}, true
}
