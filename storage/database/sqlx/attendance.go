package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/attendance"
)

const countColumns = `
	Tutores.id AS TutorID,
	Tutores.nombres || ' ' || Tutores.apellidos AS TutorNombres,
	COUNT(Asistencias.id) AS TotalAsistencias,
	SUM(CASE WHEN Asistencias.tipo = 'Presencial' THEN 1 ELSE 0 END) AS AsistenciasPresenciales,
	SUM(CASE WHEN Asistencias.tipo = 'Virtual' THEN 1 ELSE 0 END) AS AsistenciasVirtuales`

type attendanceRepository struct {
	exec core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) attendance.Repository {
	return &attendanceRepository{exec: exec}
}

func (repo attendanceRepository) CountByDate(ctx context.Context, date string, exec ...core.DBExecutor) ([]attendance.TutorCount, error) {
	counts := make([]attendance.TutorCount, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &counts, `
		SELECT `+countColumns+`
		FROM Tutores
		JOIN Alumnos ON Tutores.id = Alumnos.tutor_id
		JOIN Asistencias ON Alumnos.id = Asistencias.alumno_id
		WHERE DATE(Asistencias.fecha) = ?
		GROUP BY Tutores.id, TutorNombres
		ORDER BY Tutores.id`, date)
	if err != nil {
		return nil, errors.Wrap(err, "counting attendance by date")
	}
	return counts, nil
}

func (repo attendanceRepository) QueryRoster(ctx context.Context, date string, tutorID int64, exec ...core.DBExecutor) ([]attendance.RosterRow, error) {
	rows := make([]attendance.RosterRow, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &rows, `
		SELECT
			Alumnos.id AS AlumnoID,
			Alumnos.nombres || ' ' || Alumnos.apellidos AS AlumnoNombres,
			Alumnos.telefono AS AlumnoTelefono,
			Asistencias.tipo AS TipoAsistencia,
			Asistencias.pregunta AS Pregunta
		FROM Alumnos
		LEFT JOIN Asistencias ON Alumnos.id = Asistencias.alumno_id AND Asistencias.fecha = ?
		WHERE Alumnos.tutor_id = ?
		ORDER BY Alumnos.id`, date, tutorID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting attendance roster")
	}
	return rows, nil
}

func (repo attendanceRepository) CountByRange(ctx context.Context, r attendance.DateRange, tutorID *int64, exec ...core.DBExecutor) ([]attendance.DailyRow, error) {
	query := `
		SELECT ` + countColumns + `,
			DATE(Asistencias.fecha) AS Fecha
		FROM Tutores
		JOIN Alumnos ON Tutores.id = Alumnos.tutor_id
		JOIN Asistencias ON Alumnos.id = Asistencias.alumno_id
		WHERE DATE(Asistencias.fecha) BETWEEN ? AND ?`
	args := []interface{}{r.StartDate(), r.EndDate()}
	if tutorID != nil {
		query += ` AND Tutores.id = ?`
		args = append(args, *tutorID)
	}
	query += `
		GROUP BY Tutores.id, TutorNombres, Fecha
		ORDER BY Tutores.id, Fecha`

	rows := make([]attendance.DailyRow, 0)
	if err := core.GetExec(repo.exec, exec).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "counting attendance by date range")
	}
	return rows, nil
}

func (repo attendanceRepository) Exists(ctx context.Context, studentID int64, date string, exec ...core.DBExecutor) (bool, error) {
	var count int
	err := core.GetExec(repo.exec, exec).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM Asistencias WHERE alumno_id = ? AND fecha = ?`, studentID, date)
	if err != nil {
		return false, errors.Wrap(err, "checking attendance")
	}
	return count > 0, nil
}

func (repo attendanceRepository) CreateAttendance(ctx context.Context, a attendance.Attendance, exec ...core.DBExecutor) (attendance.Attendance, error) {
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx,
		`INSERT INTO Asistencias (alumno_id, fecha, tipo, pregunta) VALUES (?, ?, ?, ?)`,
		a.AlumnoID, a.Fecha, a.Tipo, a.Pregunta,
	)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "reading attendance id")
	}
	return a, nil
}
