package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/module"
)

const moduleColumns = `id, nombre, descripcion, fecha_inicio, fecha_fin, horarioInicio, horarioFin, foto_url, activo`

type moduleRepository struct {
	exec core.DBExecutor
}

var _ module.Repository = (*moduleRepository)(nil) // interface compliance check

func NewModuleRepository(exec core.DBExecutor) module.Repository {
	return &moduleRepository{exec: exec}
}

func (repo moduleRepository) QueryModules(ctx context.Context, active bool, exec ...core.DBExecutor) ([]module.Module, error) {
	mods := make([]module.Module, 0)
	err := core.GetExec(repo.exec, exec).SelectContext(ctx, &mods,
		`SELECT `+moduleColumns+` FROM Modulos WHERE activo = ? ORDER BY fecha_inicio, id`, active)
	if err != nil {
		return nil, errors.Wrap(err, "selecting modules")
	}
	return mods, nil
}

func (repo moduleRepository) GetModule(ctx context.Context, id int64, exec ...core.DBExecutor) (module.Module, error) {
	var mod module.Module
	err := core.GetExec(repo.exec, exec).GetContext(ctx, &mod, `SELECT `+moduleColumns+` FROM Modulos WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return module.Module{}, module.ErrNotFound
		}
		return module.Module{}, errors.Wrap(err, "selecting module")
	}
	return mod, nil
}

func (repo moduleRepository) UpdateModule(ctx context.Context, mod module.Module, exec ...core.DBExecutor) (module.Module, error) {
	_, err := core.GetExec(repo.exec, exec).ExecContext(ctx, `
		UPDATE Modulos
		SET nombre = ?, descripcion = ?, fecha_inicio = ?, fecha_fin = ?,
		    horarioInicio = ?, horarioFin = ?, foto_url = ?, activo = ?
		WHERE id = ?`,
		mod.Nombre, mod.Descripcion, mod.FechaInicio, mod.FechaFin,
		mod.HorarioInicio, mod.HorarioFin, mod.FotoURL, mod.Activo, mod.ID,
	)
	if err != nil {
		return module.Module{}, errors.Wrap(err, "updating module")
	}
	return mod, nil
}
