package attendance

import (
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
)

// Attendance types stored in Asistencias.tipo
const (
	TypeInPerson = "Presencial"
	TypeVirtual  = "Virtual"
)

// Attendance (Asistencia) of a student on a given day.
type Attendance struct {
	ID       int64       `db:"id" json:"id"`
	AlumnoID int64       `db:"alumno_id" json:"alumno_id"`
	Fecha    string      `db:"fecha" json:"fecha"`
	Tipo     string      `db:"tipo" json:"tipo"`
	Pregunta null.String `db:"pregunta" json:"pregunta"`
}

type NewAttendance struct {
	AlumnoID int64  `json:"alumno_id" validate:"required,gt=0"`
	Fecha    string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Tipo     string `json:"tipo" validate:"required,oneof=Presencial Virtual"`
	Pregunta string `json:"pregunta" validate:"omitempty,max=2000"`
}

func (na *NewAttendance) clean() {
	na.Fecha = core.CleanString(na.Fecha)
	na.Tipo = core.CleanString(na.Tipo)
	na.Pregunta = core.CleanString(na.Pregunta)
}

// TutorCount is the number of attendances of a tutor's students, by type, for one day.
type TutorCount struct {
	TutorID                 int64  `db:"TutorID" json:"TutorID"`
	TutorNombres            string `db:"TutorNombres" json:"TutorNombres"`
	AsistenciasPresenciales int64  `db:"AsistenciasPresenciales" json:"AsistenciasPresenciales"`
	AsistenciasVirtuales    int64  `db:"AsistenciasVirtuales" json:"AsistenciasVirtuales"`
	TotalAsistencias        int64  `db:"TotalAsistencias" json:"TotalAsistencias"`
}

// DailyRow is a TutorCount for one day of a date range.
type DailyRow struct {
	TutorCount
	Fecha string `db:"Fecha"`
}

type DayCount struct {
	Fecha                   string `json:"fecha"`
	AsistenciasPresenciales int64  `json:"AsistenciasPresenciales"`
	AsistenciasVirtuales    int64  `json:"AsistenciasVirtuales"`
	TotalAsistencias        int64  `json:"TotalAsistencias"`
}

// TutorMonth aggregates the daily counts of a tutor over a month.
type TutorMonth struct {
	TutorID          int64      `json:"TutorID"`
	TutorNombres     string     `json:"TutorNombres"`
	TotalAsistencias int64      `json:"TotalAsistencias"`
	Fechas           []DayCount `json:"fechas"`
}

// GroupByTutor folds daily rows into one entry per tutor, in first-appearance order,
// summing the daily totals.
func GroupByTutor(rows []DailyRow) []TutorMonth {
	grouped := make([]TutorMonth, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.TutorID]
		if !ok {
			i = len(grouped)
			index[row.TutorID] = i
			grouped = append(grouped, TutorMonth{
				TutorID:      row.TutorID,
				TutorNombres: row.TutorNombres,
				Fechas:       make([]DayCount, 0),
			})
		}
		grouped[i].TotalAsistencias += row.TotalAsistencias
		grouped[i].Fechas = append(grouped[i].Fechas, DayCount{
			Fecha:                   row.Fecha,
			AsistenciasPresenciales: row.AsistenciasPresenciales,
			AsistenciasVirtuales:    row.AsistenciasVirtuales,
			TotalAsistencias:        row.TotalAsistencias,
		})
	}
	return grouped
}

// RosterRow is a tutor's student LEFT JOIN their attendance of the day.
type RosterRow struct {
	AlumnoID       int64       `db:"AlumnoID"`
	AlumnoNombres  string      `db:"AlumnoNombres"`
	AlumnoTelefono null.String `db:"AlumnoTelefono"`
	TipoAsistencia null.String `db:"TipoAsistencia"`
	Pregunta       null.String `db:"Pregunta"`
}

type AttendedStudent struct {
	AlumnoID       int64       `json:"AlumnoID"`
	AlumnoNombres  string      `json:"AlumnoNombres"`
	AlumnoTelefono null.String `json:"AlumnoTelefono"`
	TipoAsistencia string      `json:"TipoAsistencia"`
	Pregunta       null.String `json:"Pregunta"`
}

type AbsentStudent struct {
	AlumnoID       int64       `json:"AlumnoID"`
	AlumnoNombres  string      `json:"AlumnoNombres"`
	AlumnoTelefono null.String `json:"AlumnoTelefono"`
	Pregunta       null.String `json:"Pregunta"`
}

type Roster struct {
	AttendedStudents    []AttendedStudent `json:"attendedStudents"`
	NotAttendedStudents []AbsentStudent   `json:"notAttendedStudents"`
}

// SplitRoster separates the students with an attendance type from those without one.
func SplitRoster(rows []RosterRow) Roster {
	roster := Roster{
		AttendedStudents:    make([]AttendedStudent, 0),
		NotAttendedStudents: make([]AbsentStudent, 0),
	}
	for _, row := range rows {
		if row.TipoAsistencia.Valid && row.TipoAsistencia.String != "" {
			roster.AttendedStudents = append(roster.AttendedStudents, AttendedStudent{
				AlumnoID:       row.AlumnoID,
				AlumnoNombres:  row.AlumnoNombres,
				AlumnoTelefono: row.AlumnoTelefono,
				TipoAsistencia: row.TipoAsistencia.String,
				Pregunta:       row.Pregunta,
			})
			continue
		}
		roster.NotAttendedStudents = append(roster.NotAttendedStudents, AbsentStudent{
			AlumnoID:       row.AlumnoID,
			AlumnoNombres:  row.AlumnoNombres,
			AlumnoTelefono: row.AlumnoTelefono,
			Pregunta:       row.Pregunta,
		})
	}
	return roster
}
