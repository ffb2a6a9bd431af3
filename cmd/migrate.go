package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Black25dvp/silverlux/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	if err := store.Migrate(db); err != nil {
		return errors.Wrap(err, "auto-migrate")
	}
	log.Info("✅ migrations applied")
	return nil
}
