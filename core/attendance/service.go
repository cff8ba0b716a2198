package attendance

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/student"
)

var ErrAlreadyRecorded = errors.New("attendance already recorded for this day")

type (
	Repository interface {
		CountByDate(ctx context.Context, date string, exec ...core.DBExecutor) ([]TutorCount, error)
		QueryRoster(ctx context.Context, date string, tutorID int64, exec ...core.DBExecutor) ([]RosterRow, error)
		// CountByRange returns one row per tutor and day, ordered by tutor then day.
		// A nil tutorID means every tutor.
		CountByRange(ctx context.Context, r DateRange, tutorID *int64, exec ...core.DBExecutor) ([]DailyRow, error)
		Exists(ctx context.Context, studentID int64, date string, exec ...core.DBExecutor) (bool, error)
		CreateAttendance(ctx context.Context, a Attendance, exec ...core.DBExecutor) (Attendance, error)
	}

	Service interface {
		CountByDate(ctx context.Context, date string) ([]TutorCount, error)
		RosterByDate(ctx context.Context, date string, tutorID int64) (Roster, error)
		CountByMonth(ctx context.Context, monthYear string, tutorID *int64) ([]TutorMonth, error)
		Record(ctx context.Context, na NewAttendance) (Attendance, error)
	}

	service struct {
		db          core.DB
		repo        Repository
		studentRepo student.Repository
		validate    *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, studentRepo student.Repository, validate *validator.Validate) Service {
	return &service{db: db, repo: repo, studentRepo: studentRepo, validate: validate}
}

func (svc *service) CountByDate(ctx context.Context, date string) ([]TutorCount, error) {
	counts, err := svc.repo.CountByDate(ctx, date)
	if err != nil {
		return nil, errors.Wrap(err, "counting attendance by date")
	}
	if counts == nil {
		counts = []TutorCount{}
	}
	return counts, nil
}

func (svc *service) RosterByDate(ctx context.Context, date string, tutorID int64) (Roster, error) {
	rows, err := svc.repo.QueryRoster(ctx, date, tutorID)
	if err != nil {
		return Roster{}, errors.Wrap(err, "querying attendance roster")
	}
	return SplitRoster(rows), nil
}

func (svc *service) CountByMonth(ctx context.Context, monthYear string, tutorID *int64) ([]TutorMonth, error) {
	r, err := MonthRange(monthYear)
	if err != nil {
		return nil, err
	}
	rows, err := svc.repo.CountByRange(ctx, r, tutorID)
	if err != nil {
		return nil, errors.Wrap(err, "counting attendance by month")
	}
	return GroupByTutor(rows), nil
}

// Record stores the attendance of a student; a student has at most one attendance per day.
func (svc *service) Record(ctx context.Context, na NewAttendance) (Attendance, error) {
	na.clean()
	if err := svc.validate.Struct(na); err != nil {
		return Attendance{}, err
	}

	var created Attendance
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.studentRepo.GetStudent(ctx, na.AlumnoID, tx); err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "alumno_id", Error: "el alumno no existe"})
			}
			return err
		}
		exists, err := svc.repo.Exists(ctx, na.AlumnoID, na.Fecha, tx)
		if err != nil {
			return err
		}
		if exists {
			return core.NewValidationError(ErrAlreadyRecorded, core.FieldError{Field: "fecha", Error: "la asistencia de este día ya fue registrada"})
		}
		created, err = svc.repo.CreateAttendance(ctx, Attendance{
			AlumnoID: na.AlumnoID,
			Fecha:    na.Fecha,
			Tipo:     na.Tipo,
			Pregunta: null.NewString(na.Pregunta, na.Pregunta != ""),
		}, tx)
		return err
	})
	if err != nil {
		return Attendance{}, errors.Wrap(err, "recording attendance")
	}
	return created, nil
}
