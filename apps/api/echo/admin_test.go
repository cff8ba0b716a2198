package echoapi

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorias/asistencias/core/user"
	emailsvc "github.com/tutorias/asistencias/services/email"
	"github.com/tutorias/asistencias/testutil"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func Test_authApi(t *testing.T) {
	app := setup(t)
	admin := testutil.CreateUser(t, app.usrRepo, "admin", "Adm1n!pass", user.TypeAdmin, 0)
	inactive := testutil.CreateUser(t, app.usrRepo, "old", "0ld!Passw", user.TypeTutor, 1)
	inactive.Activo = false
	_, err := app.usrRepo.UpdateUser(context.Background(), inactive)
	require.NoError(t, err)

	t.Run("login", func(t *testing.T) {
		app.run(t, []httpTest{
			{
				name:     "wrong password",
				method:   http.MethodPost,
				path:     "/api/auth/login",
				body:     []byte(`{"usuario": "admin", "password": "nope"}`),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: "usuario o contraseña incorrectos"}),
			},
			{
				name:     "unknown user",
				method:   http.MethodPost,
				path:     "/api/auth/login",
				body:     []byte(`{"usuario": "ghost", "password": "Adm1n!pass"}`),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, httpErr{Error: "usuario o contraseña incorrectos"}),
			},
			{
				name:     "deactivated account",
				method:   http.MethodPost,
				path:     "/api/auth/login",
				body:     []byte(`{"usuario": "old", "password": "0ld!Passw"}`),
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: "cuenta desactivada"}),
			},
		})

		req, rec := newRequest(http.MethodPost, "/api/auth/login", []byte(`{"usuario": " ADMIN ", "password": "Adm1n!pass"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp TokenResponse
		mustJSON(t, rec, &resp)
		claims := new(Claims)
		_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
			return app.auth.jwtConfig.SigningKey, nil
		})
		require.NoError(t, err)
		assert.Equal(t, admin.ID, claims.UserID)
		assert.True(t, claims.IsAdmin)

		usr, err := app.usrRepo.GetUser(context.Background(), user.GetFilter{ID: admin.ID})
		require.NoError(t, err)
		assert.False(t, usr.LastLogin.IsZero())
	})

	t.Run("token refresh", func(t *testing.T) {
		expired := app.auth.userClaims(admin, time.Now().Add(-5*time.Hour).Unix())
		expiredToken, err := app.auth.generateToken(expired)
		require.NoError(t, err)

		app.run(t, []httpTest{
			{
				name:     "no token",
				method:   http.MethodPost,
				path:     "/api/auth/token-refresh",
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			},
			{
				name:     "refresh expired",
				method:   http.MethodPost,
				path:     "/api/auth/token-refresh",
				token:    expiredToken,
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: "la sesión ha expirado"}),
			},
			{
				name:     "deactivated account",
				method:   http.MethodPost,
				path:     "/api/auth/token-refresh",
				token:    app.getToken(t, inactive),
				wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: "cuenta desactivada"}),
			},
		})

		req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", app.getToken(t, admin))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func Test_moduleApi(t *testing.T) {
	app := setup(t)
	admin := app.getToken(t, testutil.CreateUser(t, app.usrRepo, "admin", "Adm1n!pass", user.TypeAdmin, 0))
	tutorToken := app.getToken(t, testutil.CreateUser(t, app.usrRepo, "ana", "An4!passw", user.TypeTutor, 1))

	app.run(t, []httpTest{
		{
			name:     "active modules are public",
			method:   http.MethodGet,
			path:     "/api/user/modules",
			wantCode: http.StatusOK,
			wantData: []byte(`[{"id": 1, "nombre": "Matemáticas", "descripcion": "Álgebra básica", "fecha_inicio": "2024-01-15",
				"fecha_fin": "2024-06-30", "horarioInicio": "08:00", "horarioFin": "10:00", "foto_url": null, "activo": true}]`),
		},
		{
			name:     "deleted modules: no token",
			method:   http.MethodGet,
			path:     "/api/admin/modules/deleted",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "deleted modules: not an admin",
			method:   http.MethodGet,
			path:     "/api/admin/modules/deleted",
			token:    tutorToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permiso denegado"}),
		},
		{
			name:     "deleted modules",
			method:   http.MethodGet,
			path:     "/api/admin/modules/deleted",
			token:    admin,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"id": 2, "nombre": "Lectura", "descripcion": null, "fecha_inicio": "2023-03-01",
				"fecha_fin": "2023-07-31", "horarioInicio": "14:00", "horarioFin": "15:30", "foto_url": null, "activo": false}]`),
		},
		{
			name:     "update: end before start",
			method:   http.MethodPut,
			path:     "/put/updateCurso/1",
			token:    admin,
			body:     []byte(`{"fecha_fin": "2023-12-31"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"fecha_fin": "fecha_fin no puede ser anterior a fecha_inicio"}`),
		},
		{
			name:     "update: invalid time",
			method:   http.MethodPut,
			path:     "/put/updateCurso/1",
			token:    admin,
			body:     []byte(`{"horarioFin": "25:00"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"horarioFin": "horarioFin debe tener el formato HH:MM o HH:MM:SS"}`),
		},
		{
			name:     "update: unknown module",
			method:   http.MethodPut,
			path:     "/put/updateCurso/9",
			token:    admin,
			body:     []byte(`{"nombre": "X"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no encontrado"}),
		},
		{
			name:     "restore module",
			method:   http.MethodPut,
			path:     "/put/updateCurso/2",
			token:    admin,
			body:     []byte(`{"activo": 1, "horarioFin": "16:00"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"id": 2, "nombre": "Lectura", "descripcion": null, "fecha_inicio": "2023-03-01",
				"fecha_fin": "2023-07-31", "horarioInicio": "14:00", "horarioFin": "16:00", "foto_url": null, "activo": true}`),
		},
		{
			name:     "restore module: token without scheme",
			method:   http.MethodPut,
			path:     "/put/updateCurso/2",
			token:    admin,
			rawToken: true,
			body:     []byte(`{"activo": "1"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"id": 2, "nombre": "Lectura", "descripcion": null, "fecha_inicio": "2023-03-01",
				"fecha_fin": "2023-07-31", "horarioInicio": "14:00", "horarioFin": "16:00", "foto_url": null, "activo": true}`),
		},
		{
			name:     "update: malformed authorization",
			method:   http.MethodPut,
			path:     "/put/updateCurso/2",
			token:    "Basic YWRtaW46cHdk",
			rawToken: true,
			body:     []byte(`{"activo": "1"}`),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "soft delete",
			method:   http.MethodDelete,
			path:     "/delete/curso/1",
			token:    admin,
			wantCode: http.StatusOK,
		},
		{
			name:     "only the restored module is active",
			method:   http.MethodGet,
			path:     "/api/user/modules",
			wantCode: http.StatusOK,
			wantData: []byte(`[{"id": 2, "nombre": "Lectura", "descripcion": null, "fecha_inicio": "2023-03-01",
				"fecha_fin": "2023-07-31", "horarioInicio": "14:00", "horarioFin": "16:00", "foto_url": null, "activo": true}]`),
		},
	})
}

func Test_registrationApi(t *testing.T) {
	app := setup(t)

	app.run(t, []httpTest{
		{
			name:     "tutors of an active module",
			method:   http.MethodGet,
			path:     "/api/user/modules/1/tutors",
			wantCode: http.StatusOK,
			wantData: []byte(`[
				{"TutorID": 1, "TutorNombres": "Ana", "TutorApellidos": "López", "TutorTelefono": "555-1000",
				 "TutorDireccion": null, "TutorActivo": "Activo", "TutorObservaciones": null},
				{"TutorID": 2, "TutorNombres": "Luis", "TutorApellidos": "Pérez", "TutorTelefono": null,
				 "TutorDireccion": null, "TutorActivo": "Activo", "TutorObservaciones": null}
			]`),
		},
		{
			name:     "tutors of an archived module",
			method:   http.MethodGet,
			path:     "/api/user/modules/2/tutors",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no encontrado"}),
		},
		{
			name:     "tutors of an unknown module",
			method:   http.MethodGet,
			path:     "/api/user/modules/9/tutors",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no encontrado"}),
		},
		{
			name:     "tutors of a malformed module id",
			method:   http.MethodGet,
			path:     "/api/user/modules/abc/tutors",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/user/register",
			body:     []byte(`{"nombres": "Eva", "modulo_id": 1}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"apellidos": "este campo es obligatorio", "tutor_id": "este campo es obligatorio"}`),
		},
		{
			name:     "tutor of another module",
			method:   http.MethodPost,
			path:     "/api/user/register",
			body:     []byte(`{"nombres": "Eva", "apellidos": "Luna", "modulo_id": 1, "tutor_id": 3}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"tutor_id": "el tutor no pertenece al módulo"}`),
		},
		{
			name:     "archived module",
			method:   http.MethodPost,
			path:     "/api/user/register",
			body:     []byte(`{"nombres": "Eva", "apellidos": "Luna", "modulo_id": 2, "tutor_id": 3}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"modulo_id": "el módulo no existe"}`),
		},
		{
			name:   "register",
			method: http.MethodPost,
			path:   "/api/user/register",
			body: []byte(`{"nombres": " Eva ", "apellidos": "Luna", "telefono": "555-0100",
				"fecha_nacimiento": "2010-05-04", "modulo_id": 1, "tutor_id": 2}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"AlumnoID": 6, "AlumnoNombres": "Eva", "AlumnoApellidos": "Luna", "AlumnoFechaNacimiento": "2010-05-04",
				"AlumnoTelefono": "555-0100", "AlumnoDireccion": null, "AlumnoActivo": "Pendiente", "AlumnoObservaciones": null}`),
		},
		{
			name:     "the new student is pending",
			method:   http.MethodGet,
			path:     "/getPendingStudents?tutorId=2",
			wantCode: http.StatusOK,
			wantData: []byte(`[{"idAlumno": 4, "nombreAlumno": "Sofía Mora"}, {"idAlumno": 6, "nombreAlumno": "Eva Luna"}]`),
		},
	})

	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "coordinacion@example.com", msg.To[0].Address)
	assert.True(t, strings.Contains(msg.TextContent, "Tutor: Luis Pérez"), msg.TextContent)
	assert.True(t, strings.Contains(msg.TextContent, "Módulo: Matemáticas"), msg.TextContent)
}

func Test_studentApi_update(t *testing.T) {
	app := setup(t)
	admin := app.getToken(t, testutil.CreateUser(t, app.usrRepo, "admin", "Adm1n!pass", user.TypeAdmin, 0))

	app.run(t, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPut,
			path:     "/put/updateAlumno/2",
			body:     []byte(`{"activo": "Activo"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "invalid status",
			method:   http.MethodPut,
			path:     "/put/updateAlumno/2",
			token:    admin,
			body:     []byte(`{"activo": "Borrado"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "tutor of another module",
			method:   http.MethodPut,
			path:     "/put/updateAlumno/2",
			token:    admin,
			body:     []byte(`{"tutor_id": 3}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"tutor_id": "el tutor no pertenece al módulo"}`),
		},
		{
			name:     "unknown student",
			method:   http.MethodPut,
			path:     "/put/updateAlumno/99",
			token:    admin,
			body:     []byte(`{"activo": "Activo"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "no encontrado"}),
		},
		{
			name:     "approve and reassign",
			method:   http.MethodPut,
			path:     "/put/updateAlumno/2",
			token:    admin,
			body:     []byte(`{"activo": "Activo", "tutor_id": 2, "observaciones": "aprobada"}`),
			wantCode: http.StatusOK,
			wantData: []byte(`{"AlumnoID": 2, "AlumnoNombres": "María", "AlumnoApellidos": "Díaz", "AlumnoFechaNacimiento": null,
				"AlumnoTelefono": null, "AlumnoDireccion": null, "AlumnoActivo": "Activo", "AlumnoObservaciones": "aprobada"}`),
		},
		{
			name:     "no more pending students for the former tutor",
			method:   http.MethodGet,
			path:     "/getPendingStudents?tutorId=1",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	})
}

func Test_attendanceApi_create(t *testing.T) {
	app := setup(t)
	ana := app.getToken(t, testutil.CreateUser(t, app.usrRepo, "ana", "An4!passw", user.TypeTutor, 1))
	admin := app.getToken(t, testutil.CreateUser(t, app.usrRepo, "admin", "Adm1n!pass", user.TypeAdmin, 0))

	app.run(t, []httpTest{
		{
			name:     "no token",
			method:   http.MethodPost,
			path:     "/api/attendance",
			body:     []byte(`{"alumno_id": 2, "fecha": "2024-02-29", "tipo": "Virtual"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "student of another tutor",
			method:   http.MethodPost,
			path:     "/api/attendance",
			token:    ana,
			body:     []byte(`{"alumno_id": 3, "fecha": "2024-02-29", "tipo": "Virtual"}`),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permiso denegado"}),
		},
		{
			name:     "invalid type",
			method:   http.MethodPost,
			path:     "/api/attendance",
			token:    ana,
			body:     []byte(`{"alumno_id": 2, "fecha": "2024-02-29", "tipo": "Remota"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "record",
			method:   http.MethodPost,
			path:     "/api/attendance",
			token:    ana,
			body:     []byte(`{"alumno_id": 2, "fecha": "2024-02-29", "tipo": "Virtual", "pregunta": "¿Examen?"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id": 7, "alumno_id": 2, "fecha": "2024-02-29", "tipo": "Virtual", "pregunta": "¿Examen?"}`),
		},
		{
			name:     "already recorded",
			method:   http.MethodPost,
			path:     "/api/attendance",
			token:    admin,
			body:     []byte(`{"alumno_id": 2, "fecha": "2024-02-29", "tipo": "Presencial"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"fecha": "la asistencia de este día ya fue registrada"}`),
		},
		{
			name:     "counted in the daily report",
			method:   http.MethodGet,
			path:     "/getAttendanceByDate/2024-02-29",
			wantCode: http.StatusOK,
			wantData: []byte(`[{"TutorID": 1, "TutorNombres": "Ana López", "AsistenciasPresenciales": 0, "AsistenciasVirtuales": 2, "TotalAsistencias": 2}]`),
		},
	})
}
