package auth

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey is the echo context key carrying the authenticated claims.
const ContextKey = "auth_claims"

// Authenticate returns middleware that validates the Bearer token and loads
// the user's current state. Deactivated or deleted users are rejected even
// when their token is still valid.
func Authenticate(svc *Service, db *sql.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token is required")
			}

			claims, err := svc.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			var isActive bool
			var role string
			err = db.QueryRowContext(c.Request().Context(),
				"SELECT is_active, role FROM users WHERE id = ?", claims.UserID,
			).Scan(&isActive, &role)
			if err != nil || !isActive {
				return echo.NewHTTPError(http.StatusForbidden, "User not found or inactive")
			}

			// Role changes take effect immediately, not at token refresh.
			claims.Role = role
			c.Set(ContextKey, claims)
			return next(c)
		}
	}
}

// RequireRole returns middleware that rejects requests whose authenticated
// user lacks one of the given roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusForbidden, "Not authenticated")
			}

			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Not authorized to access this resource")
		}
	}
}

// ClaimsFrom returns the authenticated claims from the echo context, or nil.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(ContextKey).(*Claims)
	return claims
}

// CanManage reports whether the claims belong to an admin or to the user
// identified by ownerID.
func CanManage(claims *Claims, ownerID int64) bool {
	if claims == nil {
		return false
	}
	return claims.Role == "admin" || claims.UserID == ownerID
}
