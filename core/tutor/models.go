package tutor

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("tutor not found")

// Tutor is a mentor assigned to a module and to the students of that module.
type Tutor struct {
	TutorID            int64       `db:"TutorID" json:"TutorID"`
	TutorNombres       string      `db:"TutorNombres" json:"TutorNombres"`
	TutorApellidos     string      `db:"TutorApellidos" json:"TutorApellidos"`
	TutorTelefono      null.String `db:"TutorTelefono" json:"TutorTelefono"`
	TutorDireccion     null.String `db:"TutorDireccion" json:"TutorDireccion"`
	TutorActivo        string      `db:"TutorActivo" json:"TutorActivo"`
	TutorObservaciones null.String `db:"TutorObservaciones" json:"TutorObservaciones"`
	ModuloID           null.Int64  `db:"TutorModuloID" json:"-"`
}

// StudentRow is one row of the tutors LEFT JOIN students listing.
type StudentRow struct {
	TutorID      int64       `db:"tutor_id"`
	TutorNombre  string      `db:"tutor_nombre"`
	AlumnoID     null.Int64  `db:"alumno_id"`
	AlumnoNombre null.String `db:"alumno_nombre"`
}

type StudentRef struct {
	AlumnoID     int64  `json:"alumno_id"`
	AlumnoNombre string `json:"alumno_nombre"`
}

// WithStudents is a tutor and every student assigned to them.
type WithStudents struct {
	TutorID     int64        `json:"tutor_id"`
	TutorNombre string       `json:"tutor_nombre"`
	Alumnos     []StudentRef `json:"alumnos"`
}

// GroupStudents folds the flat rows into one entry per tutor, keeping the row order.
// Tutors without students (NULL student columns) get an empty list.
func GroupStudents(rows []StudentRow) []WithStudents {
	grouped := make([]WithStudents, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.TutorID]
		if !ok {
			i = len(grouped)
			index[row.TutorID] = i
			grouped = append(grouped, WithStudents{
				TutorID:     row.TutorID,
				TutorNombre: row.TutorNombre,
				Alumnos:     make([]StudentRef, 0),
			})
		}
		if !row.AlumnoID.Valid {
			continue
		}
		grouped[i].Alumnos = append(grouped[i].Alumnos, StudentRef{
			AlumnoID:     row.AlumnoID.Int64,
			AlumnoNombre: row.AlumnoNombre.String,
		})
	}
	return grouped
}
