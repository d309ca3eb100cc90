package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/bkoncius/Book-recommendation-app/internal/apperr"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
	"github.com/bkoncius/Book-recommendation-app/internal/util"
)

const identityKey = "identity"

// Identity is the resolved caller attached to the request context by the
// authentication gates.
type Identity struct {
	UserID uint
	Email  string
	Role   models.Role
}

// CurrentIdentity returns the identity resolved by RequireAuth or
// OptionalAuth, if any.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*Identity)
	return ident, ok && ident != nil
}

// extractToken reads the session token from the Authorization header or,
// failing that, the session cookie. Both transports stay supported.
func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(util.AccessCookie); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects requests without a valid session token and attaches
// the resolved identity otherwise.
func RequireAuth(jwtSecret string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			util.Fail(c, apperr.Unauthenticated("not authenticated"))
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			logTokenFailure(log, c, err)
			util.Fail(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}
		if !claims.Role.Valid() {
			log.Warn().Str("role", string(claims.Role)).Msg("token carries unknown role")
			util.Fail(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}

		c.Set(identityKey, &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// continues anonymously otherwise. Verification failures are treated the
// same as an absent token; public endpoints must not break because a stale
// cookie came along.
func OptionalAuth(jwtSecret string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			logTokenFailure(log, c, err)
			c.Next()
			return
		}
		if !claims.Role.Valid() {
			log.Warn().Str("role", string(claims.Role)).Msg("token carries unknown role")
			c.Next()
			return
		}

		c.Set(identityKey, &Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RequireRoles permits only identities whose role is in the allowed set.
// Must run after RequireAuth; a missing identity is rejected as
// unauthenticated, never silently passed through.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			util.Fail(c, apperr.Unauthenticated("not authenticated"))
			return
		}
		for _, r := range roles {
			if ident.Role == r {
				c.Next()
				return
			}
		}
		util.Fail(c, apperr.Forbidden("insufficient role"))
	}
}

// logTokenFailure keeps the three verification failure kinds apart in logs
// even though callers reject them identically.
func logTokenFailure(log zerolog.Logger, c *gin.Context, err error) {
	ev := log.Warn().Str("method", c.Request.Method).Str("path", c.Request.URL.Path)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		ev.Msg("expired token")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		ev.Msg("invalid token signature")
	case errors.Is(err, jwt.ErrTokenMalformed):
		ev.Msg("malformed token")
	default:
		ev.Err(err).Msg("token verification failed")
	}
}
