package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/student"
)

const studentColumns = `
	Alumnos.id AS AlumnoID,
	Alumnos.nombres AS AlumnoNombres,
	Alumnos.apellidos AS AlumnoApellidos,
	Alumnos.fecha_nacimiento AS AlumnoFechaNacimiento,
	Alumnos.telefono AS AlumnoTelefono,
	Alumnos.direccion AS AlumnoDireccion,
	Alumnos.activo AS AlumnoActivo,
	Alumnos.observaciones AS AlumnoObservaciones,
	Alumnos.tutor_id AS AlumnoTutorID,
	Alumnos.modulo_id AS AlumnoModuloID`

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) student.Repository {
	return &studentRepository{exec: exec}
}

func (repo studentRepository) selectStudents(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) ([]student.Student, error) {
	students := make([]student.Student, 0)
	if err := core.GetExec(repo.exec, exec).SelectContext(ctx, &students, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo studentRepository) QueryStudentsByTutor(ctx context.Context, tutorID int64, exec ...core.DBExecutor) ([]student.Student, error) {
	return repo.selectStudents(ctx, exec, `
		SELECT `+studentColumns+`
		FROM Alumnos
		JOIN Tutores ON Alumnos.tutor_id = Tutores.id
		WHERE Tutores.id = ?
		ORDER BY Alumnos.id`, tutorID)
}

func (repo studentRepository) QueryStudentsByModuleAndTutor(ctx context.Context, moduleID, tutorID int64, exec ...core.DBExecutor) ([]student.Student, error) {
	return repo.selectStudents(ctx, exec, `
		SELECT `+studentColumns+`
		FROM Alumnos
		JOIN Tutores ON Alumnos.tutor_id = Tutores.id
		WHERE Alumnos.modulo_id = ? AND Tutores.id = ?
		ORDER BY Alumnos.id`, moduleID, tutorID)
}

func (repo studentRepository) QueryModuleRows(ctx context.Context, moduleID int64, exec ...core.DBExecutor) ([]student.ModuleRow, error) {
	rows := make([]student.ModuleRow, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &rows, `
		SELECT
			Tutores.id AS TutorID,
			Tutores.nombres AS TutorNombres,
			Tutores.apellidos AS TutorApellidos,
			Alumnos.id AS AlumnoID,
			Alumnos.nombres AS AlumnoNombres,
			Alumnos.apellidos AS AlumnoApellidos,
			Alumnos.telefono AS AlumnoTelefono,
			Alumnos.activo AS AlumnoActivo
		FROM Tutores
		JOIN Alumnos ON Tutores.id = Alumnos.tutor_id
		WHERE Tutores.modulo_id = ?
		ORDER BY Tutores.id, Alumnos.id`, moduleID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting students by module")
	}
	return rows, nil
}

func (repo studentRepository) QueryPendingByTutor(ctx context.Context, tutorID int64, exec ...core.DBExecutor) ([]student.PendingStudent, error) {
	students := make([]student.PendingStudent, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &students, `
		SELECT
			Alumnos.id AS idAlumno,
			Alumnos.nombres || ' ' || Alumnos.apellidos AS nombreAlumno
		FROM Alumnos
		WHERE Alumnos.tutor_id = ? AND Alumnos.activo = ?
		ORDER BY Alumnos.id`, tutorID, student.StatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "selecting pending students by tutor")
	}
	return students, nil
}

func (repo studentRepository) QueryPendingRows(ctx context.Context, exec ...core.DBExecutor) ([]student.PendingRow, error) {
	rows := make([]student.PendingRow, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &rows, `
		SELECT
			Tutores.id AS idTutor,
			Tutores.nombres || ' ' || Tutores.apellidos AS NombreTutor,
			Alumnos.id AS idAlumno,
			Alumnos.nombres || ' ' || Alumnos.apellidos AS nombreAlumno
		FROM Tutores
		JOIN Alumnos ON Tutores.id = Alumnos.tutor_id
		WHERE Alumnos.activo = ?
		ORDER BY Tutores.id, Alumnos.id`, student.StatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "selecting pending students")
	}
	return rows, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error) {
	var s student.Student
	err := core.GetExec(repo.exec, exec).GetContext(ctx, &s, `SELECT `+studentColumns+` FROM Alumnos WHERE Alumnos.id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return s, nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, `
		INSERT INTO Alumnos (nombres, apellidos, fecha_nacimiento, telefono, direccion, activo, observaciones, tutor_id, modulo_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.AlumnoNombres, s.AlumnoApellidos, s.AlumnoFechaNacimiento, s.AlumnoTelefono, s.AlumnoDireccion,
		s.AlumnoActivo, s.AlumnoObservaciones, s.TutorID, s.ModuloID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	if s.AlumnoID, err = res.LastInsertId(); err != nil {
		return student.Student{}, errors.Wrap(err, "reading student id")
	}
	return s, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	_, err := core.GetExec(repo.exec, exec).ExecContext(ctx, `
		UPDATE Alumnos
		SET nombres = ?, apellidos = ?, fecha_nacimiento = ?, telefono = ?, direccion = ?,
		    activo = ?, observaciones = ?, tutor_id = ?, modulo_id = ?
		WHERE id = ?`,
		s.AlumnoNombres, s.AlumnoApellidos, s.AlumnoFechaNacimiento, s.AlumnoTelefono, s.AlumnoDireccion,
		s.AlumnoActivo, s.AlumnoObservaciones, s.TutorID, s.ModuloID, s.AlumnoID,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return s, nil
}
