package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tutorias/asistencias/core"
	"github.com/tutorias/asistencias/storage/database"
)

func (cli *commandLine) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load modules, tutors, students and attendance from a YAML file (- for stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				_ = cmd.Help()
				return errHelp
			}

			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			fx, err := cli.seed(r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d modules, %d tutors, %d students, %d attendance records\n",
				len(fx.Modules), len(fx.Tutors), len(fx.Students), len(fx.Attendance))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures file")
	return cmd
}

// seed loads every fixture in a single transaction.
func (cli *commandLine) seed(r io.Reader) (database.Fixtures, error) {
	fx, err := database.ReadFixtures(r)
	if err != nil {
		return fx, err
	}
	ctx := context.Background()
	err = core.InTx(ctx, cli.db, func(tx core.DBTransactor) error {
		return database.Seed(ctx, tx, fx)
	})
	return fx, errors.Wrap(err, "seeding database")
}
