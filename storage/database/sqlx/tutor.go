package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/tutor"
)

const tutorColumns = `
	Tutores.id AS TutorID,
	Tutores.nombres AS TutorNombres,
	Tutores.apellidos AS TutorApellidos,
	Tutores.telefono AS TutorTelefono,
	Tutores.direccion AS TutorDireccion,
	Tutores.activo AS TutorActivo,
	Tutores.observaciones AS TutorObservaciones,
	Tutores.modulo_id AS TutorModuloID`

type tutorRepository struct {
	exec core.DBExecutor
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(exec core.DBExecutor) tutor.Repository {
	return &tutorRepository{exec: exec}
}

func (repo tutorRepository) QueryStudentRows(ctx context.Context, exec ...core.DBExecutor) ([]tutor.StudentRow, error) {
	rows := make([]tutor.StudentRow, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &rows, `
		SELECT
			Tutores.id AS tutor_id,
			Tutores.nombres || ' ' || Tutores.apellidos AS tutor_nombre,
			Alumnos.id AS alumno_id,
			Alumnos.nombres || ' ' || Alumnos.apellidos AS alumno_nombre
		FROM Tutores
		LEFT JOIN Alumnos ON Tutores.id = Alumnos.tutor_id
		ORDER BY Tutores.id, Alumnos.id`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting tutors with students")
	}
	return rows, nil
}

func (repo tutorRepository) QueryTutorsByModule(ctx context.Context, moduleID int64, exec ...core.DBExecutor) ([]tutor.Tutor, error) {
	tutors := make([]tutor.Tutor, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &tutors, `
		SELECT `+tutorColumns+`
		FROM Tutores
		JOIN Modulos ON Tutores.modulo_id = Modulos.id
		WHERE Modulos.id = ?
		ORDER BY Tutores.id`, moduleID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting tutors by module")
	}
	return tutors, nil
}

func (repo tutorRepository) GetTutor(ctx context.Context, id int64, exec ...core.DBExecutor) (tutor.Tutor, error) {
	var tut tutor.Tutor
	err := core.GetExec(repo.exec, exec).GetContext(ctx, &tut, `SELECT `+tutorColumns+` FROM Tutores WHERE Tutores.id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return tutor.Tutor{}, tutor.ErrNotFound
		}
		return tutor.Tutor{}, errors.Wrap(err, "selecting tutor")
	}
	return tut, nil
}
