package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// Decider answers role/action questions; *authz.Policy implements it.
type Decider interface {
	Allowed(ctx context.Context, role model.Role, action string) (bool, error)
}

// RoleLookup returns a user's current role; *repository.UserRepo
// implements it.
type RoleLookup interface {
	RoleOf(ctx context.Context, userID uint64) (model.Role, error)
}

// Authorize must run after JWTAuth.  It looks up the caller's role in the
// store rather than trusting the token claim, so demotions apply
// immediately, and asks policy whether that role may perform action.
// Unknown callers get 401, denied ones 403.
func Authorize(policy Decider, roles RoleLookup, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := UserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			ctx := c.Request().Context()
			role, err := roles.RoleOf(ctx, uid)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role lookup failed"})
			}
			allowed, err := policy.Allowed(ctx, role, action)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "policy evaluation failed"})
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			c.Set(ctxRole, string(role))
			return next(c)
		}
	}
}
