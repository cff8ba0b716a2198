package module

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
)

type (
	Repository interface {
		// QueryModules returns the modules with the given activo flag, ordered by start date.
		QueryModules(ctx context.Context, active bool, exec ...core.DBExecutor) ([]Module, error)
		GetModule(ctx context.Context, id int64, exec ...core.DBExecutor) (Module, error)
		UpdateModule(ctx context.Context, mod Module, exec ...core.DBExecutor) (Module, error)
	}

	Service interface {
		Active(ctx context.Context) ([]Module, error)
		Deleted(ctx context.Context) ([]Module, error)
		GetByID(ctx context.Context, id int64) (Module, error)
		Update(ctx context.Context, id int64, um UpdateModule) (Module, error)
		SoftDelete(ctx context.Context, id int64) (Module, error)
	}

	service struct {
		db       core.DB
		repo     Repository
		validate *validator.Validate
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository, validate *validator.Validate) Service {
	return &service{db: db, repo: repo, validate: validate}
}

func (svc *service) Active(ctx context.Context) ([]Module, error) {
	return svc.repo.QueryModules(ctx, true)
}

func (svc *service) Deleted(ctx context.Context) ([]Module, error) {
	return svc.repo.QueryModules(ctx, false)
}

func (svc *service) GetByID(ctx context.Context, id int64) (Module, error) {
	return svc.repo.GetModule(ctx, id)
}

func (svc *service) Update(ctx context.Context, id int64, um UpdateModule) (Module, error) {
	um.clean()
	if err := svc.validate.Struct(um); err != nil {
		return Module{}, err
	}

	var mod Module
	err := core.InTx(ctx, svc.db, func(tx core.DBTransactor) error {
		current, err := svc.repo.GetModule(ctx, id, tx)
		if err != nil {
			return err
		}
		updated, err := um.apply(current)
		if err != nil {
			return err
		}
		mod, err = svc.repo.UpdateModule(ctx, updated, tx)
		return err
	})
	if err != nil {
		return Module{}, errors.Wrap(err, "updating module")
	}
	return mod, nil
}

func (svc *service) SoftDelete(ctx context.Context, id int64) (Module, error) {
	off := core.Flag(false)
	return svc.Update(ctx, id, UpdateModule{Activo: &off})
}
