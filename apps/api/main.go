package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	dig_container "github.com/tutorias/asistencias/apps/api/di/dig"
	echoapi "github.com/tutorias/asistencias/apps/api/echo"
	"github.com/tutorias/asistencias/core"
)

func main() {
	c := dig_container.New(core.NewConfig)

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
		core.ParseEmailTemplates(apiLogger)

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		debugSrv := &http.Server{Addr: conf.Server.DebugHost, Handler: http.DefaultServeMux}

		g, gctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			if err := debugSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "debug server")
			}
			return nil
		})

		// =========================================================================
		// Start API Service

		go server.Start()

		// =========================================================================
		// Shutdown

		g.Go(func() error {
			defer func() { _ = debugSrv.Close() }()

			select {
			case err := <-server.Errors():
				return errors.Wrap(err, "server error")

			case <-gctx.Done():
				_ = server.Close()
				return nil

			case sig := <-server.ShutdownSignal():
				apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

				// give outstanding requests a deadline for completion
				ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
				defer cancel()

				// asking listener to shut down and shed load
				if err := server.Shutdown(ctx); err != nil {
					apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
					if err = server.Close(); err != nil {
						return errors.Wrap(err, "could not force stop server")
					}
				}
				return nil
			}
		})

		if err := g.Wait(); err != nil {
			apiLogger.Error(err.Error(), err)
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
