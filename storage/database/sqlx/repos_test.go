package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
	"github.com/tutorias/asistencias/core/user"
	sqlxrepos "github.com/tutorias/asistencias/storage/database/sqlx"
	"github.com/tutorias/asistencias/testutil"
)

func Test_tutorRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	repo := sqlxrepos.NewTutorRepository(db)
	ctx := context.Background()

	t.Run("QueryStudentRows", func(t *testing.T) {
		rows, err := repo.QueryStudentRows(ctx)
		require.NoError(t, err)
		want := []tutor.StudentRow{
			{TutorID: 1, TutorNombre: "Ana López", AlumnoID: null.Int64From(1), AlumnoNombre: null.StringFrom("Juan Soto")},
			{TutorID: 1, TutorNombre: "Ana López", AlumnoID: null.Int64From(2), AlumnoNombre: null.StringFrom("María Díaz")},
			{TutorID: 2, TutorNombre: "Luis Pérez", AlumnoID: null.Int64From(3), AlumnoNombre: null.StringFrom("Pedro Gil")},
			{TutorID: 2, TutorNombre: "Luis Pérez", AlumnoID: null.Int64From(4), AlumnoNombre: null.StringFrom("Sofía Mora")},
			{TutorID: 3, TutorNombre: "Carla Ruiz"},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("QueryStudentRows() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("QueryTutorsByModule", func(t *testing.T) {
		tutors, err := repo.QueryTutorsByModule(ctx, 1)
		require.NoError(t, err)
		require.Len(t, tutors, 2)
		assert.Equal(t, "Ana", tutors[0].TutorNombres)
		assert.Equal(t, null.StringFrom("555-1000"), tutors[0].TutorTelefono)
		assert.Equal(t, "Activo", tutors[0].TutorActivo)
		assert.Equal(t, int64(2), tutors[1].TutorID)

		tutors, err = repo.QueryTutorsByModule(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, tutors)
	})

	t.Run("GetTutor", func(t *testing.T) {
		tut, err := repo.GetTutor(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, null.Int64From(2), tut.ModuloID)

		_, err = repo.GetTutor(ctx, 42)
		assert.Equal(t, tutor.ErrNotFound, errors.Cause(err))
	})
}

func Test_studentRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	repo := sqlxrepos.NewStudentRepository(db)
	ctx := context.Background()

	t.Run("QueryStudentsByTutor", func(t *testing.T) {
		students, err := repo.QueryStudentsByTutor(ctx, 2)
		require.NoError(t, err)
		require.Len(t, students, 2)
		assert.Equal(t, "Pedro", students[0].AlumnoNombres)
		assert.Equal(t, "Gil", students[0].AlumnoApellidos)
		assert.Equal(t, "Pendiente", students[1].AlumnoActivo)
		assert.False(t, students[1].AlumnoTelefono.Valid)
	})

	t.Run("QueryStudentsByModuleAndTutor", func(t *testing.T) {
		students, err := repo.QueryStudentsByModuleAndTutor(ctx, 1, 1)
		require.NoError(t, err)
		assert.Len(t, students, 2)

		students, err = repo.QueryStudentsByModuleAndTutor(ctx, 2, 1)
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("QueryModuleRows", func(t *testing.T) {
		rows, err := repo.QueryModuleRows(ctx, 1)
		require.NoError(t, err)
		require.Len(t, rows, 4) // the student without tutor is left out
		assert.Equal(t, student.ModuleRow{
			TutorID: 1, TutorNombres: "Ana", TutorApellidos: "López",
			AlumnoID: 1, AlumnoNombres: "Juan", AlumnoApellidos: "Soto",
			AlumnoTelefono: null.StringFrom("555-0001"), AlumnoActivo: "Activo",
		}, rows[0])
	})

	t.Run("pending", func(t *testing.T) {
		byTutor, err := repo.QueryPendingByTutor(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, []student.PendingStudent{{IDAlumno: 4, NombreAlumno: "Sofía Mora"}}, byTutor)

		rows, err := repo.QueryPendingRows(ctx)
		require.NoError(t, err)
		assert.Equal(t, []student.PendingRow{
			{IDTutor: 1, NombreTutor: "Ana López", IDAlumno: 2, NombreAlumno: "María Díaz"},
			{IDTutor: 2, NombreTutor: "Luis Pérez", IDAlumno: 4, NombreAlumno: "Sofía Mora"},
		}, rows)
	})

	t.Run("create and update", func(t *testing.T) {
		s, err := repo.CreateStudent(ctx, student.Student{
			AlumnoNombres:   "Eva",
			AlumnoApellidos: "Luna",
			AlumnoActivo:    student.StatusPending,
			TutorID:         null.Int64From(1),
			ModuloID:        null.Int64From(1),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), s.AlumnoID)

		s.AlumnoActivo = student.StatusActive
		s.AlumnoObservaciones = null.StringFrom("aprobada")
		_, err = repo.UpdateStudent(ctx, s)
		require.NoError(t, err)

		got, err := repo.GetStudent(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, s, got)

		_, err = repo.GetStudent(ctx, 600)
		assert.Equal(t, student.ErrNotFound, errors.Cause(err))
	})
}

func Test_attendanceRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	repo := sqlxrepos.NewAttendanceRepository(db)
	ctx := context.Background()

	t.Run("CountByDate", func(t *testing.T) {
		counts, err := repo.CountByDate(ctx, "2024-02-28")
		require.NoError(t, err)
		assert.Equal(t, []attendance.TutorCount{
			{TutorID: 1, TutorNombres: "Ana López", AsistenciasPresenciales: 1, AsistenciasVirtuales: 1, TotalAsistencias: 2},
			{TutorID: 2, TutorNombres: "Luis Pérez", AsistenciasPresenciales: 1, AsistenciasVirtuales: 0, TotalAsistencias: 1},
		}, counts)

		counts, err = repo.CountByDate(ctx, "2020-01-01")
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("QueryRoster", func(t *testing.T) {
		rows, err := repo.QueryRoster(ctx, "2024-02-29", 1)
		require.NoError(t, err)
		assert.Equal(t, []attendance.RosterRow{
			{AlumnoID: 1, AlumnoNombres: "Juan Soto", AlumnoTelefono: null.StringFrom("555-0001"), TipoAsistencia: null.StringFrom("Virtual")},
			{AlumnoID: 2, AlumnoNombres: "María Díaz"},
		}, rows)
	})

	t.Run("CountByRange", func(t *testing.T) {
		feb, err := attendance.MonthRange("02-2024")
		require.NoError(t, err)

		rows, err := repo.CountByRange(ctx, feb, nil)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "2024-02-28", rows[0].Fecha)
		assert.Equal(t, "2024-02-29", rows[1].Fecha)
		assert.Equal(t, int64(2), rows[2].TutorID)

		tutorID := int64(2)
		rows, err = repo.CountByRange(ctx, feb, &tutorID)
		require.NoError(t, err)
		assert.Equal(t, []attendance.DailyRow{{
			TutorCount: attendance.TutorCount{TutorID: 2, TutorNombres: "Luis Pérez", AsistenciasPresenciales: 1, TotalAsistencias: 1},
			Fecha:      "2024-02-28",
		}}, rows)
	})

	t.Run("create", func(t *testing.T) {
		exists, err := repo.Exists(ctx, 2, "2024-02-29")
		require.NoError(t, err)
		assert.False(t, exists)

		a, err := repo.CreateAttendance(ctx, attendance.Attendance{AlumnoID: 2, Fecha: "2024-02-29", Tipo: attendance.TypeInPerson})
		require.NoError(t, err)
		assert.Equal(t, int64(7), a.ID)

		exists, err = repo.Exists(ctx, 2, "2024-02-29")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = repo.CreateAttendance(ctx, attendance.Attendance{AlumnoID: 2, Fecha: "2024-02-29", Tipo: attendance.TypeVirtual})
		assert.Error(t, err, "unique (alumno_id, fecha)")
	})
}

func Test_moduleRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	repo := sqlxrepos.NewModuleRepository(db)
	ctx := context.Background()

	active, err := repo.QueryModules(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, module.Module{
		ID: 1, Nombre: "Matemáticas", Descripcion: null.StringFrom("Álgebra básica"),
		FechaInicio: "2024-01-15", FechaFin: "2024-06-30", HorarioInicio: "08:00", HorarioFin: "10:00", Activo: true,
	}, active[0])

	deleted, err := repo.QueryModules(ctx, false)
	require.NoError(t, err)
	require.Len(t, deleted, 1)

	mod := deleted[0]
	mod.Activo = true
	mod.FotoURL = null.StringFrom("https://example.com/lectura.png")
	_, err = repo.UpdateModule(ctx, mod)
	require.NoError(t, err)

	got, err := repo.GetModule(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, mod, got)

	_, err = repo.GetModule(ctx, 9)
	assert.Equal(t, module.ErrNotFound, errors.Cause(err))
}

func Test_userRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	repo := sqlxrepos.NewUserRepository(db)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "ana", "Secr3t!pass", user.TypeTutor, 1)

	got, err := repo.GetUser(ctx, user.GetFilter{Usuario: "ana"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.Equal(t, null.Int64From(1), got.TutorID)
	assert.True(t, got.LastLogin.IsZero())
	assert.NoError(t, got.CheckPassword("Secr3t!pass"))

	got.Activo = false
	_, err = repo.UpdateUser(ctx, got)
	require.NoError(t, err)
	got, err = repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.False(t, got.Activo)

	_, err = repo.GetUser(ctx, user.GetFilter{Usuario: "nadie"})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	_, err = repo.GetUser(ctx, user.GetFilter{})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}
