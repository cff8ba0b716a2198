package student

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
)

// Statuses stored in Alumnos.activo
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"
	StatusPending  = "Pendiente"
)

var ErrNotFound = errors.New("student not found")

// Student (Alumno) as exposed by the tutor and module listings.
type Student struct {
	AlumnoID              int64       `db:"AlumnoID" json:"AlumnoID"`
	AlumnoNombres         string      `db:"AlumnoNombres" json:"AlumnoNombres"`
	AlumnoApellidos       string      `db:"AlumnoApellidos" json:"AlumnoApellidos"`
	AlumnoFechaNacimiento null.String `db:"AlumnoFechaNacimiento" json:"AlumnoFechaNacimiento"`
	AlumnoTelefono        null.String `db:"AlumnoTelefono" json:"AlumnoTelefono"`
	AlumnoDireccion       null.String `db:"AlumnoDireccion" json:"AlumnoDireccion"`
	AlumnoActivo          string      `db:"AlumnoActivo" json:"AlumnoActivo"`
	AlumnoObservaciones   null.String `db:"AlumnoObservaciones" json:"AlumnoObservaciones"`
	TutorID               null.Int64  `db:"AlumnoTutorID" json:"-"`
	ModuloID              null.Int64  `db:"AlumnoModuloID" json:"-"`
}

// ModuleRow is one student of a module joined with their tutor.
type ModuleRow struct {
	TutorID         int64       `db:"TutorID"`
	TutorNombres    string      `db:"TutorNombres"`
	TutorApellidos  string      `db:"TutorApellidos"`
	AlumnoID        int64       `db:"AlumnoID"`
	AlumnoNombres   string      `db:"AlumnoNombres"`
	AlumnoApellidos string      `db:"AlumnoApellidos"`
	AlumnoTelefono  null.String `db:"AlumnoTelefono"`
	AlumnoActivo    string      `db:"AlumnoActivo"`
}

type ModuleStudent struct {
	AlumnoID       int64       `json:"alumno_id"`
	AlumnoNombres  string      `json:"alumno_nombres"`
	AlumnoTelefono null.String `json:"alumno_telefono"`
	TutorNombre    string      `json:"tutor_nombre"`
	AlumnoActivo   string      `json:"alumno_activo"`
}

// ModuleStudents flattens module rows joining first and last names.
func ModuleStudents(rows []ModuleRow) []ModuleStudent {
	students := make([]ModuleStudent, 0, len(rows))
	for _, row := range rows {
		students = append(students, ModuleStudent{
			AlumnoID:       row.AlumnoID,
			AlumnoNombres:  core.FullName(row.AlumnoNombres, row.AlumnoApellidos),
			AlumnoTelefono: row.AlumnoTelefono,
			TutorNombre:    core.FullName(row.TutorNombres, row.TutorApellidos),
			AlumnoActivo:   row.AlumnoActivo,
		})
	}
	return students
}

type PendingStudent struct {
	IDAlumno     int64  `db:"idAlumno" json:"idAlumno"`
	NombreAlumno string `db:"nombreAlumno" json:"nombreAlumno"`
}

// PendingRow is a pending student joined with their tutor.
type PendingRow struct {
	IDTutor      int64  `db:"idTutor"`
	NombreTutor  string `db:"NombreTutor"`
	IDAlumno     int64  `db:"idAlumno"`
	NombreAlumno string `db:"nombreAlumno"`
}

type TutorPending struct {
	IDTutor     int64            `json:"idTutor"`
	NombreTutor string           `json:"NombreTutor"`
	Alumnos     []PendingStudent `json:"Alumnos"`
}

// GroupPending folds pending rows into one entry per tutor, in first-appearance order.
func GroupPending(rows []PendingRow) []TutorPending {
	grouped := make([]TutorPending, 0)
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.IDTutor]
		if !ok {
			i = len(grouped)
			index[row.IDTutor] = i
			grouped = append(grouped, TutorPending{IDTutor: row.IDTutor, NombreTutor: row.NombreTutor})
		}
		grouped[i].Alumnos = append(grouped[i].Alumnos, PendingStudent{IDAlumno: row.IDAlumno, NombreAlumno: row.NombreAlumno})
	}
	return grouped
}

// NewStudent is the registration wizard payload.
type NewStudent struct {
	Nombres         string `json:"nombres" validate:"required,max=80"`
	Apellidos       string `json:"apellidos" validate:"required,max=80"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Telefono        string `json:"telefono" validate:"omitempty,max=30"`
	Direccion       string `json:"direccion" validate:"omitempty,max=200"`
	ModuloID        int64  `json:"modulo_id" validate:"required,gt=0"`
	TutorID         int64  `json:"tutor_id" validate:"required,gt=0"`
}

func (ns *NewStudent) clean() {
	ns.Nombres = core.CleanString(ns.Nombres)
	ns.Apellidos = core.CleanString(ns.Apellidos)
	ns.FechaNacimiento = core.CleanString(ns.FechaNacimiento)
	ns.Telefono = core.CleanString(ns.Telefono)
	ns.Direccion = core.CleanString(ns.Direccion)
}

// UpdateStudent contains the fields an administrator can change. Nil fields are left untouched.
type UpdateStudent struct {
	Activo        *string `json:"activo" validate:"omitempty,oneof=Activo Inactivo Pendiente"`
	Observaciones *string `json:"observaciones" validate:"omitempty,max=2000"`
	TutorID       *int64  `json:"tutor_id" validate:"omitempty,gt=0"`
}

// registrationMail is the data of the new_registration email template.
type registrationMail struct {
	StudentName string
	Phone       string
	ModuleName  string
	TutorName   string
}
