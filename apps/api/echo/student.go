package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core/student"
)

type studentApi struct {
	svc student.Service
}

func registerStudentAPI(e *echo.Echo, jwt, admin echo.MiddlewareFunc, svc student.Service) {
	api := studentApi{svc: svc}

	e.PUT("/put/updateAlumno/:id", api.update, jwt, admin)
}

// update approves/deactivates a student, reassigns their tutor or edits the notes.
func (api *studentApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	s, err := api.svc.Update(ctx.Request().Context(), id, data)
	if err != nil {
		return notFound(err)
	}
	return ctx.JSON(http.StatusOK, s)
}
