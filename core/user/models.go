package user

import (
	"time"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorias/asistencias/core"
)

// Account types
const (
	TypeAdmin = "Administrador"
	TypeTutor = "Tutor"
)

// User is a dashboard account.
type User struct {
	ID           int64      `json:"id"`
	Usuario      string     `json:"usuario"`
	Tipo         string     `json:"tipo"`
	TutorID      null.Int64 `json:"tutor_id"`
	Activo       bool       `json:"activo"`
	PasswordHash []byte     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"` // UTC
	LastLogin    time.Time  `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Tipo == TypeAdmin
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Usuario  string `json:"usuario" validate:"required,min=3,max=40,alphanum_"`
	Password string `json:"password" validate:"required"`
	Tipo     string `json:"tipo" validate:"required,oneof=Administrador Tutor"`
	TutorID  int64  `json:"tutor_id" validate:"omitempty,gt=0"`
}

func (nu *NewUser) clean() {
	nu.Usuario = core.CleanString(nu.Usuario, true /* lower */)
	nu.Tipo = core.CleanString(nu.Tipo)
}

// GetFilter selects a single user; the first non-zero field wins.
type GetFilter struct {
	ID      int64
	Usuario string
}
