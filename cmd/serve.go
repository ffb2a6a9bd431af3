package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/config"
	"github.com/Black25dvp/silverlux/middleware"
	"github.com/Black25dvp/silverlux/routes"
	"github.com/Black25dvp/silverlux/store"
)

var skipMigrate bool

const sessionSweepInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not auto-migrate tables on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Info("✅ Starting application...")

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := store.Migrate(db); err != nil {
			return errors.Wrap(err, "auto-migrate")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	carts := cart.NewRegistry(store.NewCartItems(db), log)
	// A session idle for longer than a token lives belongs to a signed-out user.
	go carts.RunEviction(ctx, sessionSweepInterval, auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).TTL())

	r := NewEngine(db, cfg, carts, identityProvider(ctx, cfg, log), log)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Server running on port %s...", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewEngine builds the gin engine with middleware and every route.
func NewEngine(db *gorm.DB, cfg *config.Config, carts *cart.Registry, provider auth.Provider, log *logrus.Logger) *gin.Engine {
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	// XLSX imports
	r.MaxMultipartMemory = 32 << 20

	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Carts:    carts,
		Searches: store.NewSearches(db),
		Tokens:   tokens,
		Auth: &auth.Handlers{
			DB:              db,
			Provider:        provider,
			Tokens:          tokens,
			Carts:           carts,
			SuperAdminEmail: cfg.Auth.SuperAdminEmail,
			Log:             log,
		},
		AdminAPIKey: cfg.Auth.AdminAPIKey,
		Log:         log,
	})
	return r
}
