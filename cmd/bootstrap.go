package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Black25dvp/silverlux/auth"
)

var bootstrapEmail, bootstrapPassword string

// bootstrapCmd does what POST /admin/bootstrap does, from a shell that has
// the service credentials.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create an admin account and grant it the admin role",
	Long: `Create the account with the identity provider (an existing account is
kept) and record the email as an admin. Prints "created" or "exists".`,
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapEmail, "email", "", "admin email (required)")
	bootstrapCmd.Flags().StringVar(&bootstrapPassword, "password", "", "initial password (required)")
	_ = bootstrapCmd.MarkFlagRequired("email")
	_ = bootstrapCmd.MarkFlagRequired("password")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}

	provider := identityProvider(cmd.Context(), cfg, log)
	status, err := auth.ProvisionAdmin(cmd.Context(), db, provider, bootstrapEmail, bootstrapPassword)
	if err != nil {
		return errors.Wrap(err, "bootstrap admin")
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}
