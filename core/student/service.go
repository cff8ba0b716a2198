package student

import (
	"context"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/module"
	"github.com/tutorias/asistencias/core/tutor"
)

const registrationTemplate = "new_registration"

type (
	Repository interface {
		QueryStudentsByTutor(ctx context.Context, tutorID int64, exec ...core.DBExecutor) ([]Student, error)
		QueryStudentsByModuleAndTutor(ctx context.Context, moduleID, tutorID int64, exec ...core.DBExecutor) ([]Student, error)
		QueryModuleRows(ctx context.Context, moduleID int64, exec ...core.DBExecutor) ([]ModuleRow, error)
		QueryPendingByTutor(ctx context.Context, tutorID int64, exec ...core.DBExecutor) ([]PendingStudent, error)
		QueryPendingRows(ctx context.Context, exec ...core.DBExecutor) ([]PendingRow, error)
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		UpdateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
	}

	Service interface {
		ByTutor(ctx context.Context, tutorID int64) ([]Student, error)
		ByModuleAndTutor(ctx context.Context, moduleID, tutorID int64) ([]Student, error)
		ByModule(ctx context.Context, moduleID int64) ([]ModuleStudent, error)
		// Pending returns []PendingStudent when tutorID is set, []TutorPending otherwise.
		Pending(ctx context.Context, tutorID *int64) (interface{}, error)
		GetByID(ctx context.Context, id int64) (Student, error)
		Register(ctx context.Context, ns NewStudent) (Student, error)
		Update(ctx context.Context, id int64, us UpdateStudent) (Student, error)
	}

	service struct {
		db         core.DB
		repo       Repository
		tutorRepo  tutor.Repository
		moduleRepo module.Repository
		mailSvc    core.EmailService
		validate   *validator.Validate
		notify     []mail.Address
	}
)

var _ Service = (*service)(nil)

func NewService(
	db core.DB,
	repo Repository,
	tutorRepo tutor.Repository,
	moduleRepo module.Repository,
	mailSvc core.EmailService,
	validate *validator.Validate,
	conf *core.Config,
) Service {
	return &service{
		db:         db,
		repo:       repo,
		tutorRepo:  tutorRepo,
		moduleRepo: moduleRepo,
		mailSvc:    mailSvc,
		validate:   validate,
		notify:     conf.NotifyEmails,
	}
}

func nonNil(students []Student) []Student {
	if students == nil {
		return []Student{}
	}
	return students
}

func (svc *service) ByTutor(ctx context.Context, tutorID int64) ([]Student, error) {
	students, err := svc.repo.QueryStudentsByTutor(ctx, tutorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by tutor")
	}
	return nonNil(students), nil
}

func (svc *service) ByModuleAndTutor(ctx context.Context, moduleID, tutorID int64) ([]Student, error) {
	students, err := svc.repo.QueryStudentsByModuleAndTutor(ctx, moduleID, tutorID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by module and tutor")
	}
	return nonNil(students), nil
}

func (svc *service) ByModule(ctx context.Context, moduleID int64) ([]ModuleStudent, error) {
	rows, err := svc.repo.QueryModuleRows(ctx, moduleID)
	if err != nil {
		return nil, errors.Wrap(err, "querying students by module")
	}
	return ModuleStudents(rows), nil
}

func (svc *service) Pending(ctx context.Context, tutorID *int64) (interface{}, error) {
	if tutorID != nil {
		students, err := svc.repo.QueryPendingByTutor(ctx, *tutorID)
		if err != nil {
			return nil, errors.Wrap(err, "querying pending students by tutor")
		}
		if students == nil {
			students = []PendingStudent{}
		}
		return students, nil
	}

	rows, err := svc.repo.QueryPendingRows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying pending students")
	}
	return GroupPending(rows), nil
}

func (svc *service) GetByID(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// Register creates a pending student once the chosen tutor is confirmed to teach the chosen module.
func (svc *service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	var (
		created Student
		mod     module.Module
		tut     tutor.Tutor
	)
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		if mod, err = svc.moduleRepo.GetModule(ctx, ns.ModuloID, tx); err != nil || !mod.Activo {
			if err == nil || errors.Cause(err) == module.ErrNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "modulo_id", Error: "el módulo no existe"})
			}
			return err
		}
		if tut, err = svc.checkTutor(ctx, ns.TutorID, null.Int64From(ns.ModuloID), tx); err != nil {
			return err
		}

		created, err = svc.repo.CreateStudent(ctx, Student{
			AlumnoNombres:         ns.Nombres,
			AlumnoApellidos:       ns.Apellidos,
			AlumnoFechaNacimiento: null.NewString(ns.FechaNacimiento, ns.FechaNacimiento != ""),
			AlumnoTelefono:        null.NewString(ns.Telefono, ns.Telefono != ""),
			AlumnoDireccion:       null.NewString(ns.Direccion, ns.Direccion != ""),
			AlumnoActivo:          StatusPending,
			TutorID:               null.Int64From(ns.TutorID),
			ModuloID:              null.Int64From(ns.ModuloID),
		}, tx)
		return err
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "registering student")
	}

	svc.notifyRegistration(created, mod, tut)
	return created, nil
}

// checkTutor verifies that the tutor exists and, when moduleID is set, belongs to that module.
func (svc *service) checkTutor(ctx context.Context, tutorID int64, moduleID null.Int64, exec core.DBExecutor) (tutor.Tutor, error) {
	tut, err := svc.tutorRepo.GetTutor(ctx, tutorID, exec)
	if err != nil {
		if errors.Cause(err) == tutor.ErrNotFound {
			return tutor.Tutor{}, core.NewValidationError(nil, core.FieldError{Field: "tutor_id", Error: "el tutor no existe"})
		}
		return tutor.Tutor{}, err
	}
	if moduleID.Valid && tut.ModuloID != moduleID {
		return tutor.Tutor{}, core.NewValidationError(nil, core.FieldError{Field: "tutor_id", Error: "el tutor no pertenece al módulo"})
	}
	return tut, nil
}

func (svc *service) notifyRegistration(s Student, mod module.Module, tut tutor.Tutor) {
	if len(svc.notify) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           svc.notify,
		Subject:      "Nuevo registro: " + core.FullName(s.AlumnoNombres, s.AlumnoApellidos),
		TemplateName: registrationTemplate,
		TemplateData: registrationMail{
			StudentName: core.FullName(s.AlumnoNombres, s.AlumnoApellidos),
			Phone:       s.AlumnoTelefono.String,
			ModuleName:  mod.Nombre,
			TutorName:   core.FullName(tut.TutorNombres, tut.TutorApellidos),
		},
	})
}

func (svc *service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	if err := svc.validate.Struct(us); err != nil {
		return Student{}, err
	}

	var updated Student
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		s, err := svc.repo.GetStudent(ctx, id, tx)
		if err != nil {
			return err
		}
		if us.Activo != nil {
			s.AlumnoActivo = *us.Activo
		}
		if us.Observaciones != nil {
			obs := core.CleanString(*us.Observaciones)
			s.AlumnoObservaciones = null.NewString(obs, obs != "")
		}
		if us.TutorID != nil {
			if _, err = svc.checkTutor(ctx, *us.TutorID, s.ModuloID, tx); err != nil {
				return err
			}
			s.TutorID = null.Int64From(*us.TutorID)
		}
		updated, err = svc.repo.UpdateStudent(ctx, s, tx)
		return err
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return updated, nil
}
