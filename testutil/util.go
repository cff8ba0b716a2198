package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/user"
	"github.com/tutorias/asistencias/storage/database"
)

// PrepareDB opens a migrated in-memory database, closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(core.DatabaseConfig{URL: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Seed loads fx (Sample() when omitted) in db.
func Seed(t *testing.T, db core.DBExecutor, fx ...database.Fixtures) {
	t.Helper()
	data := Sample()
	if len(fx) > 0 {
		data = fx[0]
	}
	require.NoError(t, database.Seed(context.Background(), db, data))
}

func CreateUser(t *testing.T, repo user.Repository, uname, pwd, tipo string, tutorID int64) user.User {
	t.Helper()
	usr := user.User{Usuario: uname, Tipo: tipo, Activo: true}
	if tutorID > 0 {
		usr.TutorID.SetValid(tutorID)
	}
	require.NoError(t, usr.SetPassword(pwd))
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func str(s string) *string { return &s }
func id(i int64) *int64    { return &i }

// Sample is a small school: two tutors teaching "Matemáticas" (one with a pending student), an idle tutor,
// an archived module, a pending student without tutor and attendance around the end of February 2024.
func Sample() database.Fixtures {
	inactive := false
	return database.Fixtures{
		Modules: []database.ModuleFixture{
			{ID: 1, Nombre: "Matemáticas", Descripcion: str("Álgebra básica"), FechaInicio: "2024-01-15", FechaFin: "2024-06-30", HorarioInicio: "08:00", HorarioFin: "10:00"},
			{ID: 2, Nombre: "Lectura", FechaInicio: "2023-03-01", FechaFin: "2023-07-31", HorarioInicio: "14:00", HorarioFin: "15:30", Activo: &inactive},
		},
		Tutors: []database.TutorFixture{
			{ID: 1, Nombres: "Ana", Apellidos: "López", Telefono: str("555-1000"), ModuloID: id(1)},
			{ID: 2, Nombres: "Luis", Apellidos: "Pérez", ModuloID: id(1)},
			{ID: 3, Nombres: "Carla", Apellidos: "Ruiz", ModuloID: id(2)},
		},
		Students: []database.StudentFixture{
			{ID: 1, Nombres: "Juan", Apellidos: "Soto", Telefono: str("555-0001"), TutorID: id(1), ModuloID: id(1)},
			{ID: 2, Nombres: "María", Apellidos: "Díaz", Activo: "Pendiente", TutorID: id(1), ModuloID: id(1)},
			{ID: 3, Nombres: "Pedro", Apellidos: "Gil", Telefono: str("555-0003"), TutorID: id(2), ModuloID: id(1)},
			{ID: 4, Nombres: "Sofía", Apellidos: "Mora", Activo: "Pendiente", TutorID: id(2), ModuloID: id(1)},
			{ID: 5, Nombres: "Leo", Apellidos: "Vega", Activo: "Pendiente", ModuloID: id(1)},
		},
		Attendance: []database.AttendanceFixture{
			{ID: 1, AlumnoID: 1, Fecha: "2024-02-28", Tipo: "Presencial", Pregunta: str("¿Hay tarea?")},
			{ID: 2, AlumnoID: 2, Fecha: "2024-02-28", Tipo: "Virtual"},
			{ID: 3, AlumnoID: 3, Fecha: "2024-02-28", Tipo: "Presencial"},
			{ID: 4, AlumnoID: 1, Fecha: "2024-02-29", Tipo: "Virtual"},
			{ID: 5, AlumnoID: 3, Fecha: "2024-03-01", Tipo: "Presencial"},
			{ID: 6, AlumnoID: 1, Fecha: "2024-01-31", Tipo: "Presencial"},
		},
	}
}
