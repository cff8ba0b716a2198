package module

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
)

var ErrNotFound = errors.New("module not found")

// Module is a course (Modulo): a schedule that tutors and students are assigned to.
type Module struct {
	ID            int64       `db:"id" json:"id"`
	Nombre        string      `db:"nombre" json:"nombre"`
	Descripcion   null.String `db:"descripcion" json:"descripcion"`
	FechaInicio   string      `db:"fecha_inicio" json:"fecha_inicio"` // YYYY-MM-DD
	FechaFin      string      `db:"fecha_fin" json:"fecha_fin"`       // YYYY-MM-DD
	HorarioInicio string      `db:"horarioInicio" json:"horarioInicio"`
	HorarioFin    string      `db:"horarioFin" json:"horarioFin"`
	FotoURL       null.String `db:"foto_url" json:"foto_url"`
	Activo        bool        `db:"activo" json:"activo"`
}

// UpdateModule contains the fields of a Module that can be changed. Nil fields are left untouched.
type UpdateModule struct {
	Nombre        *string    `json:"nombre" validate:"omitempty,min=1,max=120"`
	Descripcion   *string    `json:"descripcion" validate:"omitempty,max=2000"`
	FechaInicio   *string    `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin      *string    `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`
	HorarioInicio *string    `json:"horarioInicio" validate:"omitempty,hora"`
	HorarioFin    *string    `json:"horarioFin" validate:"omitempty,hora"`
	FotoURL       *string    `json:"foto_url" validate:"omitempty,url"`
	Activo        *core.Flag `json:"activo"`
}

func (um *UpdateModule) clean() {
	for _, s := range []*string{um.Nombre, um.Descripcion, um.FechaInicio, um.FechaFin, um.HorarioInicio, um.HorarioFin, um.FotoURL} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
}

// apply merges the update into mod and checks the resulting date range.
func (um UpdateModule) apply(mod Module) (Module, error) {
	if um.Nombre != nil {
		mod.Nombre = *um.Nombre
	}
	if um.Descripcion != nil {
		mod.Descripcion = null.NewString(*um.Descripcion, *um.Descripcion != "")
	}
	if um.FechaInicio != nil {
		mod.FechaInicio = *um.FechaInicio
	}
	if um.FechaFin != nil {
		mod.FechaFin = *um.FechaFin
	}
	if um.HorarioInicio != nil {
		mod.HorarioInicio = *um.HorarioInicio
	}
	if um.HorarioFin != nil {
		mod.HorarioFin = *um.HorarioFin
	}
	if um.FotoURL != nil {
		mod.FotoURL = null.NewString(*um.FotoURL, *um.FotoURL != "")
	}
	if um.Activo != nil {
		mod.Activo = um.Activo.Bool()
	}

	start, errS := time.Parse(core.DateLayout, mod.FechaInicio)
	end, errE := time.Parse(core.DateLayout, mod.FechaFin)
	if errS == nil && errE == nil && end.Before(start) {
		return Module{}, core.NewValidationError(nil, core.FieldError{
			Field: "fecha_fin",
			Error: "fecha_fin no puede ser anterior a fecha_inicio",
		})
	}
	return mod, nil
}
