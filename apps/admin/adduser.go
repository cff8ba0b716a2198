package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutorias/asistencias/core/user"
)

func (cli *commandLine) addUserCmd() *cobra.Command {
	var (
		uname   string
		isAdmin bool
		tutorID int64
	)
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a dashboard account; the password is prompted next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if uname == "" || (!isAdmin && tutorID == 0) {
				_ = cmd.Help()
				return errHelp
			}
			pwd, err := promptPassword(cmd)
			if err != nil {
				return err
			}
			usr, err := cli.addUser(uname, pwd, isAdmin, tutorID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %q (%s) created with id %d\n", usr.Usuario, usr.Tipo, usr.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&uname, "username", "u", "", "the account's username")
	cmd.Flags().BoolVar(&isAdmin, "admin", false, "create an administrator")
	cmd.Flags().Int64Var(&tutorID, "tutor", 0, "id of the tutor the account belongs to")
	return cmd
}

// addUser creates a user.User, applying the password policy.
func (cli *commandLine) addUser(uname, pwd string, isAdmin bool, tutorID int64) (user.User, error) {
	nu := user.NewUser{
		Usuario:  uname,
		Password: pwd,
		Tipo:     user.TypeTutor,
		TutorID:  tutorID,
	}
	if isAdmin {
		nu.Tipo = user.TypeAdmin
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return user.User{}, cli.humanize(err)
	}
	return usr, nil
}
