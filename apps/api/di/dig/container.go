package dig_container

import (
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"
	"go.uber.org/zap"

	echoapi "github.com/tutorias/asistencias/apps/api/echo"
	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
	"github.com/tutorias/asistencias/core/user"
	emailsvc "github.com/tutorias/asistencias/services/email"
	logsvc "github.com/tutorias/asistencias/services/logger"
	"github.com/tutorias/asistencias/storage/database"
	sqlxrepos "github.com/tutorias/asistencias/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type ServerParams struct {
	dig.In

	Conf          *core.Config
	Logger        core.Logger
	Translator    ut.Translator
	AttendanceSvc attendance.Service
	ModuleSvc     module.Service
	StudentSvc    student.Service
	TutorSvc      tutor.Service
	UserSvc       user.Service
}

func newZapLogger(conf *core.Config) *zap.Logger {
	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		log.Fatalf("setting up zap: %v", err)
	}
	return zl
}

func newLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Named("API"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(zl *zap.Logger, conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(zl.Named("DB"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDB opens and migrates the database; sqlx.DB satisfies both core.DB and core.DBExecutor.
func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal("setting up database", err)
	}
	return db, db, db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Deps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Translator:    p.Translator,
		AttendanceSvc: p.AttendanceSvc,
		ModuleSvc:     p.ModuleSvc,
		StudentSvc:    p.StudentSvc,
		TutorSvc:      p.TutorSvc,
		UserSvc:       p.UserSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newZapLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(sqlxrepos.NewAttendanceRepository))
	must(c.Provide(sqlxrepos.NewModuleRepository))
	must(c.Provide(sqlxrepos.NewStudentRepository))
	must(c.Provide(sqlxrepos.NewTutorRepository))
	must(c.Provide(sqlxrepos.NewUserRepository))

	// services
	must(c.Provide(attendance.NewService))
	must(c.Provide(module.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(tutor.NewService))
	must(c.Provide(user.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
