package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/student"
)

type attendanceApi struct {
	svc        attendance.Service
	studentSvc student.Service
}

func registerAttendanceAPI(g *echo.Group, svc attendance.Service, studentSvc student.Service) {
	api := attendanceApi{svc: svc, studentSvc: studentSvc}

	g.POST("", api.create)
}

// create records an attendance. Tutors may only record the attendance of their own students.
func (api *attendanceApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data attendance.NewAttendance
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}

	if !claims.IsAdmin {
		s, err := api.studentSvc.GetByID(ctx.Request().Context(), data.AlumnoID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "alumno_id", Error: "el alumno no existe"})
			}
			return errors.Wrap(err, "finding student")
		}
		if !s.TutorID.Valid || s.TutorID.Int64 != claims.TutorID {
			return errHttpForbidden
		}
	}

	a, err := api.svc.Record(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}
