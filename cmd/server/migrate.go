package main

import (
	"log/slog"

	"github.com/blogsite/internal/config"
	"github.com/blogsite/internal/db"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

var migrateFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: databaseURLHelp,
	},
}

func newMigrateCommand(cfg config.AppConfig, log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the blog tables when they are absent",
		RunE: func(*cobra.Command, []string) error {
			gdb, err := db.Open(databaseURL(cfg, migrateFlags[databaseURLFlag].GetString()), nil)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			log.Info("schema is up to date")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, migrateFlags)
	return cmd
}
