package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core/user"
)

// adminMiddleware only lets active administrators through. It must run after the JWT middleware.
func adminMiddleware(auth *authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if !claims.IsAdmin {
				return errHttpForbidden
			}

			// the token may outlive the account
			usr, err := auth.svc.GetByID(ctx.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errHttpForbidden
				}
				return errors.Wrap(err, "finding user by ID")
			}
			if !usr.Activo || !usr.IsAdmin() {
				return errHttpForbidden
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}
