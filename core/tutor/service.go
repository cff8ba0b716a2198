package tutor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
)

type (
	Repository interface {
		// QueryStudentRows lists every tutor LEFT JOIN their students, ordered by tutor then student.
		QueryStudentRows(ctx context.Context, exec ...core.DBExecutor) ([]StudentRow, error)
		QueryTutorsByModule(ctx context.Context, moduleID int64, exec ...core.DBExecutor) ([]Tutor, error)
		GetTutor(ctx context.Context, id int64, exec ...core.DBExecutor) (Tutor, error)
	}

	Service interface {
		WithStudents(ctx context.Context) ([]WithStudents, error)
		ByModule(ctx context.Context, moduleID int64) ([]Tutor, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) WithStudents(ctx context.Context) ([]WithStudents, error) {
	rows, err := svc.repo.QueryStudentRows(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying tutors with students")
	}
	return GroupStudents(rows), nil
}

func (svc *service) ByModule(ctx context.Context, moduleID int64) ([]Tutor, error) {
	tutors, err := svc.repo.QueryTutorsByModule(ctx, moduleID)
	if err != nil {
		return nil, errors.Wrap(err, "querying tutors by module")
	}
	if tutors == nil {
		tutors = []Tutor{}
	}
	return tutors, nil
}
