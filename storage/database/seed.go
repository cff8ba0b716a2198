package database

import (
	"context"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tutorias/asistencias/core"
)

type (
	// Fixtures is a set of rows to load in a database, with explicit ids so rows can reference each other.
	Fixtures struct {
		Modules    []ModuleFixture     `yaml:"modulos"`
		Tutors     []TutorFixture      `yaml:"tutores"`
		Students   []StudentFixture    `yaml:"alumnos"`
		Attendance []AttendanceFixture `yaml:"asistencias"`
	}

	ModuleFixture struct {
		ID            int64   `yaml:"id" db:"id"`
		Nombre        string  `yaml:"nombre" db:"nombre"`
		Descripcion   *string `yaml:"descripcion" db:"descripcion"`
		FechaInicio   string  `yaml:"fecha_inicio" db:"fecha_inicio"`
		FechaFin      string  `yaml:"fecha_fin" db:"fecha_fin"`
		HorarioInicio string  `yaml:"horarioInicio" db:"horarioInicio"`
		HorarioFin    string  `yaml:"horarioFin" db:"horarioFin"`
		FotoURL       *string `yaml:"foto_url" db:"foto_url"`
		Activo        *bool   `yaml:"activo" db:"activo"`
	}

	TutorFixture struct {
		ID            int64   `yaml:"id" db:"id"`
		Nombres       string  `yaml:"nombres" db:"nombres"`
		Apellidos     string  `yaml:"apellidos" db:"apellidos"`
		Telefono      *string `yaml:"telefono" db:"telefono"`
		Direccion     *string `yaml:"direccion" db:"direccion"`
		Activo        string  `yaml:"activo" db:"activo"`
		Observaciones *string `yaml:"observaciones" db:"observaciones"`
		ModuloID      *int64  `yaml:"modulo_id" db:"modulo_id"`
	}

	StudentFixture struct {
		ID              int64   `yaml:"id" db:"id"`
		Nombres         string  `yaml:"nombres" db:"nombres"`
		Apellidos       string  `yaml:"apellidos" db:"apellidos"`
		FechaNacimiento *string `yaml:"fecha_nacimiento" db:"fecha_nacimiento"`
		Telefono        *string `yaml:"telefono" db:"telefono"`
		Direccion       *string `yaml:"direccion" db:"direccion"`
		Activo          string  `yaml:"activo" db:"activo"`
		Observaciones   *string `yaml:"observaciones" db:"observaciones"`
		TutorID         *int64  `yaml:"tutor_id" db:"tutor_id"`
		ModuloID        *int64  `yaml:"modulo_id" db:"modulo_id"`
	}

	AttendanceFixture struct {
		ID       int64   `yaml:"id" db:"id"`
		AlumnoID int64   `yaml:"alumno_id" db:"alumno_id"`
		Fecha    string  `yaml:"fecha" db:"fecha"`
		Tipo     string  `yaml:"tipo" db:"tipo"`
		Pregunta *string `yaml:"pregunta" db:"pregunta"`
	}
)

// ReadFixtures decodes YAML fixtures.
func ReadFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return Fixtures{}, errors.Wrap(err, "decoding fixtures")
	}
	return fx, nil
}

// Seed inserts the fixtures in dependency order.
func Seed(ctx context.Context, exec core.DBExecutor, fx Fixtures) error {
	active := true
	for _, m := range fx.Modules {
		if m.Activo == nil {
			m.Activo = &active
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, `
			INSERT INTO Modulos (id, nombre, descripcion, fecha_inicio, fecha_fin, horarioInicio, horarioFin, foto_url, activo)
			VALUES (:id, :nombre, :descripcion, :fecha_inicio, :fecha_fin, :horarioInicio, :horarioFin, :foto_url, :activo)`, m); err != nil {
			return errors.Wrapf(err, "inserting module %d", m.ID)
		}
	}
	for _, t := range fx.Tutors {
		if t.Activo == "" {
			t.Activo = "Activo"
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, `
			INSERT INTO Tutores (id, nombres, apellidos, telefono, direccion, activo, observaciones, modulo_id)
			VALUES (:id, :nombres, :apellidos, :telefono, :direccion, :activo, :observaciones, :modulo_id)`, t); err != nil {
			return errors.Wrapf(err, "inserting tutor %d", t.ID)
		}
	}
	for _, s := range fx.Students {
		if s.Activo == "" {
			s.Activo = "Activo"
		}
		if _, err := sqlx.NamedExecContext(ctx, exec, `
			INSERT INTO Alumnos (id, nombres, apellidos, fecha_nacimiento, telefono, direccion, activo, observaciones, tutor_id, modulo_id)
			VALUES (:id, :nombres, :apellidos, :fecha_nacimiento, :telefono, :direccion, :activo, :observaciones, :tutor_id, :modulo_id)`, s); err != nil {
			return errors.Wrapf(err, "inserting student %d", s.ID)
		}
	}
	for _, a := range fx.Attendance {
		if _, err := sqlx.NamedExecContext(ctx, exec, `
			INSERT INTO Asistencias (id, alumno_id, fecha, tipo, pregunta)
			VALUES (:id, :alumno_id, :fecha, :tipo, :pregunta)`, a); err != nil {
			return errors.Wrapf(err, "inserting attendance %d", a.ID)
		}
	}
	return nil
}
