// Package cmd holds the silverlux command line: serve, migrate and
// bootstrap-admin.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/config"
	"github.com/Black25dvp/silverlux/store"
)

var rootCmd = &cobra.Command{
	Use:   "silverlux",
	Short: "SilverLux jewelry storefront API",
	Long: `SilverLux serves the storefront catalog, carts, search and the admin panel.

Configuration comes from .env, an optional YAML file named by CONFIG_FILE,
and environment variables, in increasing order of precedence.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is the only thing main calls.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, bootstrapCmd)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.Level = logrus.InfoLevel
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.Level = lvl
	}
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	log.Out = os.Stdout
	return log
}

// setup loads the configuration and builds the logger every command needs.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

func openDatabase(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	db, err := store.Open(store.Options{
		Driver:   cfg.Database.Driver,
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		LogLevel: level,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	log.WithField("driver", cfg.Database.Driver).Info("✅ database connected")
	return db, nil
}

// identityProvider returns nil when Firebase is not configured; the endpoints
// that need it then answer 500.
func identityProvider(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) auth.Provider {
	p, err := auth.NewFirebaseProvider(ctx, cfg.Firebase.CredentialsJSON, cfg.Firebase.ProjectID)
	if err != nil {
		log.WithError(err).Warn("⚠️ identity provider not configured")
		return nil
	}
	return p
}
