package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksonlee411/office-ops/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := openSQL()
				if err != nil {
					return err
				}
				defer db.Close()
				lines, err := migrations.Up(cmd.Context(), db)
				if err != nil {
					return err
				}
				if len(lines) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations to apply")
				}
				for _, l := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := openSQL()
				if err != nil {
					return err
				}
				defer db.Close()
				line, err := migrations.Down(cmd.Context(), db)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and when they were applied",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := openSQL()
				if err != nil {
					return err
				}
				defer db.Close()
				lines, err := migrations.Status(cmd.Context(), db)
				if err != nil {
					return err
				}
				for _, l := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			},
		},
	)
	return cmd
}
