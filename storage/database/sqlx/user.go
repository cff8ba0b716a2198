package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/user"
)

// userRow mirrors Usuarios; timestamps are stored as RFC3339 text.
type userRow struct {
	ID           int64       `db:"id"`
	Usuario      string      `db:"usuario"`
	PasswordHash []byte      `db:"password_hash"`
	Tipo         string      `db:"tipo"`
	TutorID      null.Int64  `db:"tutor_id"`
	Activo       bool        `db:"activo"`
	CreatedAt    string      `db:"created_at"`
	LastLogin    null.String `db:"last_login"`
}

type userRepository struct {
	exec core.DBExecutor
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) user.Repository {
	return &userRepository{exec: exec}
}

func (repo userRepository) toRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Usuario:      usr.Usuario,
		PasswordHash: usr.PasswordHash,
		Tipo:         usr.Tipo,
		TutorID:      usr.TutorID,
		Activo:       usr.Activo,
		CreatedAt:    usr.CreatedAt.UTC().Format(time.RFC3339),
		LastLogin:    null.NewString(usr.LastLogin.UTC().Format(time.RFC3339), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) fromRow(row userRow) user.User {
	usr := user.User{
		ID:           row.ID,
		Usuario:      row.Usuario,
		Tipo:         row.Tipo,
		TutorID:      row.TutorID,
		Activo:       row.Activo,
		PasswordHash: row.PasswordHash,
	}
	usr.CreatedAt, _ = time.Parse(time.RFC3339, row.CreatedAt)
	if row.LastLogin.Valid {
		usr.LastLogin, _ = time.Parse(time.RFC3339, row.LastLogin.String)
	}
	return usr
}

// trapNoRowsErr maps the "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	query := `SELECT id, usuario, password_hash, tipo, tutor_id, activo, created_at, last_login FROM Usuarios WHERE `
	var arg interface{}
	switch {
	case filter.ID != 0:
		query += `id = ?`
		arg = filter.ID
	case filter.Usuario != "":
		query += `usuario = ?`
		arg = filter.Usuario
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	if err := core.GetExec(repo.exec, exec).GetContext(ctx, &row, query, arg); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "selecting user")
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	row := repo.toRow(usr)
	res, err := core.GetExec(repo.exec, exec).ExecContext(ctx, `
		INSERT INTO Usuarios (usuario, password_hash, tipo, tutor_id, activo, created_at, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.Usuario, row.PasswordHash, row.Tipo, row.TutorID, row.Activo, row.CreatedAt, row.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	if usr.ID, err = res.LastInsertId(); err != nil {
		return user.User{}, errors.Wrap(err, "reading user id")
	}
	return usr, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	row := repo.toRow(usr)
	_, err := core.GetExec(repo.exec, exec).ExecContext(ctx, `
		UPDATE Usuarios
		SET usuario = ?, password_hash = ?, tipo = ?, tutor_id = ?, activo = ?, last_login = ?
		WHERE id = ?`,
		row.Usuario, row.PasswordHash, row.Tipo, row.TutorID, row.Activo, row.LastLogin, row.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return usr, nil
}
