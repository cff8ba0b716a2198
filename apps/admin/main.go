package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/core/user"
	logsvc "github.com/tutorias/asistencias/services/logger"
	"github.com/tutorias/asistencias/storage/database"
	sqlxrepos "github.com/tutorias/asistencias/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("ADMIN"), conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	// set up DB
	db, err := database.Open(conf.Database)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := &commandLine{
		db:         db,
		translator: translator,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), validate),
	}
	if err = newRootCmd(cli).Execute(); err != nil {
		if err != errHelp {
			zl.Error("command failed", zap.Error(errors.Cause(err)))
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
