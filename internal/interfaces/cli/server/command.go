package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
	"github.com/tailorcv/tailorcv/internal/infrastructure/config"
	"github.com/tailorcv/tailorcv/internal/infrastructure/database"
	"github.com/tailorcv/tailorcv/internal/infrastructure/email"
	"github.com/tailorcv/tailorcv/internal/infrastructure/migration"
	"github.com/tailorcv/tailorcv/internal/infrastructure/scheduler"
	"github.com/tailorcv/tailorcv/internal/infrastructure/template"
	httpRouter "github.com/tailorcv/tailorcv/internal/interfaces/http"
	"github.com/tailorcv/tailorcv/internal/shared/biztime"
	"github.com/tailorcv/tailorcv/internal/shared/goroutine"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

var (
	env                string
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the TailorCV API server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := handleMigrations(cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	// Config tables override individual catalog entries; absent tables keep
	// the compiled-in defaults.
	catalog := entitlement.CatalogFromTables(cfg.Plans.Free, cfg.Plans.PaidDefault, cfg.Plans.Overrides)

	dispatcher := events.NewInMemoryEventDispatcher(100, func(event events.DomainEvent, err error) {
		log.Errorw("event handler failed",
			"event_type", event.GetEventType(), "error", err)
	})
	if err := subscribeEmailNotifications(cfg, dispatcher, log); err != nil {
		return fmt.Errorf("failed to set up email notifications: %w", err)
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	defer func() {
		if err := dispatcher.Stop(); err != nil {
			log.Errorw("failed to stop event dispatcher", "error", err)
		}
	}()

	router := httpRouter.NewRouter(cfg, database.Get(), catalog, dispatcher, log)

	jobs, err := scheduler.NewManager(log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := jobs.RegisterSubscriptionSweep(scheduler.NewSubscriptionSweepJob(router.UserService())); err != nil {
		return fmt.Errorf("failed to register subscription sweep: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	goroutine.SafeGo(log, "http-server", func() {
		log.Infow("server listening",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("failed to start server", "error", err)
			os.Exit(1)
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// subscribeEmailNotifications hooks the lifecycle mailer onto the event
// bus. Email stays off entirely when no SMTP host is configured.
func subscribeEmailNotifications(cfg *config.Config, dispatcher *events.InMemoryEventDispatcher, log logger.Interface) error {
	if !cfg.Email.Enabled() {
		log.Infow("email notifications disabled, no SMTP host configured")
		return nil
	}

	templates := template.NewEmailTemplateLoader(cfg.Email.TemplatesPath, log)
	if err := templates.Load(); err != nil {
		return err
	}

	mailer := email.NewSMTPEmailService(cfg.Email.SMTP, templates, log)
	handler := email.NewLifecycleNotificationHandler(mailer, log)
	for _, eventType := range handler.EventTypes() {
		if err := dispatcher.Subscribe(eventType, handler); err != nil {
			return err
		}
	}

	log.Infow("email notifications enabled", "smtp_host", cfg.Email.SMTP.Host)
	return nil
}

func handleMigrations(cfg *config.Config, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	if !autoMigrate {
		return nil
	}

	if env == "production" || env == "prod" {
		log.Warnw("auto-migration is enabled in production environment")
	}

	manager, err := migration.NewManager(cfg.Migration.Strategy, cfg.Migration.ScriptsPath)
	if err != nil {
		return err
	}

	return manager.Up(database.Get())
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
