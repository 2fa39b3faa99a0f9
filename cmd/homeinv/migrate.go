package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/homeinv/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and print the schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close() }()

		v, dirty, err := db.Version(database)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", v, dirty)
		return nil
	},
}
