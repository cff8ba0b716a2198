package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core/module"
)

type moduleApi struct {
	svc module.Service
}

func registerModuleAPI(e *echo.Echo, jwt, admin echo.MiddlewareFunc, svc module.Service) {
	api := moduleApi{svc: svc}

	e.GET("/api/admin/modules/deleted", api.deleted, jwt, admin)
	e.PUT("/put/updateCurso/:id", api.update, jwt, admin)
	e.DELETE("/delete/curso/:id", api.destroy, jwt, admin)
}

func (api *moduleApi) deleted(ctx echo.Context) error {
	mods, err := api.svc.Deleted(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying deleted modules")
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *moduleApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	var data module.UpdateModule
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateModule")
	}
	mod, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return notFound(err)
	}
	return ctx.JSON(http.StatusOK, mod)
}

// destroy soft deletes a module; it can be restored with {"activo": 1}.
func (api *moduleApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	mod, err := api.svc.SoftDelete(ctx.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}
	return ctx.JSON(http.StatusOK, mod)
}
