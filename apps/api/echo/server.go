package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/attendance"
	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/student"
	"github.com/tutorias/asistencias/core/tutor"
	"github.com/tutorias/asistencias/core/user"
)

type (
	Deps struct {
		Conf          *core.Config
		Logger        core.Logger
		Translator    ut.Translator
		AttendanceSvc attendance.Service
		ModuleSvc     module.Service
		StudentSvc    student.Service
		TutorSvc      tutor.Service
		UserSvc       user.Service
	}

	Server struct {
		app      *echo.Echo
		deps     *Deps
		auth     *authenticator
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps *Deps) *Server {
	s := &Server{
		app:      echo.New(),
		deps:     deps,
		auth:     newAuthenticator(deps.Conf, deps.UserSvc),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug && !conf.TestMode
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.app.GET("/", s.home)

	jwt := middleware.JWTWithConfig(s.auth.jwtConfig)
	admin := adminMiddleware(s.auth)

	registerReportsAPI(s.app, s.deps)
	registerRegistrationAPI(s.app.Group("/api/user"), s.deps)
	registerModuleAPI(s.app, jwt, admin, s.deps.ModuleSvc)
	registerStudentAPI(s.app, jwt, admin, s.deps.StudentSvc)
	registerAttendanceAPI(s.app.Group("/api/attendance", jwt), s.deps.AttendanceSvc, s.deps.StudentSvc)
	registerAuthAPI(s.app.Group("/api/auth"), jwt, s.auth)
}

// Start listens on the configured address; failures are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown asks the app to stop gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Bienvenido a la API de "+s.deps.Conf.AppName)
}
