package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
)

// registrationApi backs the public registration wizard: pick a module, pick one of its tutors, register.
type registrationApi struct {
	moduleSvc  module.Service
	studentSvc student.Service
	tutorSvc   tutor.Service
}

func registerRegistrationAPI(g *echo.Group, deps *Deps) {
	api := registrationApi{
		moduleSvc:  deps.ModuleSvc,
		studentSvc: deps.StudentSvc,
		tutorSvc:   deps.TutorSvc,
	}

	g.GET("/modules", api.activeModules)
	g.GET("/modules/:id/tutors", api.moduleTutors)
	g.POST("/register", api.register)
}

func (api *registrationApi) activeModules(ctx echo.Context) error {
	mods, err := api.moduleSvc.Active(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying active modules")
	}
	return ctx.JSON(http.StatusOK, mods)
}

// moduleTutors lists the tutors a student can pick for an active module.
func (api *registrationApi) moduleTutors(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return errHttpNotFound
	}
	mod, err := api.moduleSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}
	if !mod.Activo {
		return errHttpNotFound
	}
	tutors, err := api.tutorSvc.ByModule(ctx.Request().Context(), mod.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tutors)
}

func (api *registrationApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	s, err := api.studentSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s)
}
