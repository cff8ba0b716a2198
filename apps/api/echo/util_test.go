package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
	"github.com/tutorias/asistencias/core/user"
	emailsvc "github.com/tutorias/asistencias/services/email"
	logsvc "github.com/tutorias/asistencias/services/logger"
	sqlxrepos "github.com/tutorias/asistencias/storage/database/sqlx"
	"github.com/tutorias/asistencias/testutil"
)

type testApp struct {
	*Server
	db      *sqlx.DB
	usrRepo user.Repository
}

func setup(t *testing.T) testApp {
	conf, err := core.LoadConfig("TEST", "")
	require.NoError(t, err)
	conf.NotifyEmails = []mail.Address{{Name: "Coordinación", Address: "coordinacion@example.com"}}

	logger := logsvc.NewRollbarLogger(zap.NewNop(), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(logger)

	// set up DB & repos
	db := testutil.PrepareDB(t)
	testutil.Seed(t, db)
	attRepo := sqlxrepos.NewAttendanceRepository(db)
	modRepo := sqlxrepos.NewModuleRepository(db)
	stdRepo := sqlxrepos.NewStudentRepository(db)
	tutRepo := sqlxrepos.NewTutorRepository(db)
	usrRepo := sqlxrepos.NewUserRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	emailsvc.ClearSentMessages()

	srv := NewServer(&Deps{
		Conf:          conf,
		Logger:        logger,
		Translator:    translator,
		AttendanceSvc: attendance.NewService(db, attRepo, stdRepo, validate),
		ModuleSvc:     module.NewService(db, modRepo, validate),
		StudentSvc:    student.NewService(db, stdRepo, tutRepo, modRepo, mailSvc, validate, conf),
		TutorSvc:      tutor.NewService(tutRepo),
		UserSvc:       user.NewService(usrRepo, validate),
	})
	return testApp{Server: srv, db: db, usrRepo: usrRepo}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	rawToken bool // send the token without the Bearer scheme
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.auth.generateToken(app.auth.userClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func (app testApp) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			if tt.rawToken {
				req.Header.Set("Authorization", tt.token)
			}
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func mustJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
