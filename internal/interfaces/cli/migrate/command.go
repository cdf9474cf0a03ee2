package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/infrastructure/auth"
	"github.com/tailorcv/tailorcv/internal/infrastructure/config"
	"github.com/tailorcv/tailorcv/internal/infrastructure/database"
	"github.com/tailorcv/tailorcv/internal/infrastructure/migration"
	"github.com/tailorcv/tailorcv/internal/infrastructure/repository"
	"github.com/tailorcv/tailorcv/internal/shared/biztime"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

var (
	env   string
	steps int

	adminName     string
	adminEmail    string
	adminPassword string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, check status, and seed the initial admin account.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newSeedAdminCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newSeedAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the initial admin account",
		RunE:  runSeedAdmin,
	}

	cmd.Flags().StringVar(&adminName, "name", "Administrator", "Admin display name")
	cmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func initEnv() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", cfg.Migration.Strategy)

	manager, err := migration.NewManager(cfg.Migration.Strategy, cfg.Migration.ScriptsPath)
	if err != nil {
		return err
	}

	if err := manager.Up(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	log.Infow("running down migrations", "environment", env, "steps", steps)

	manager, err := migration.NewManager(cfg.Migration.Strategy, cfg.Migration.ScriptsPath)
	if err != nil {
		return err
	}

	if err := manager.Down(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return err
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	manager, err := migration.NewManager(cfg.Migration.Strategy, cfg.Migration.ScriptsPath)
	if err != nil {
		return err
	}

	strategy, ok := manager.Strategy().(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("status check is only supported with the golang-migrate strategy")
	}

	version, dirty, err := strategy.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("\nMigration Status:\n")
	fmt.Printf("  Environment:     %s\n", env)
	fmt.Printf("  Current Version: %d\n", version)
	fmt.Printf("  Dirty:           %t\n", dirty)

	return nil
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	cfg, log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	userRepo := repository.NewUserRepository(database.Get(), log)
	email := strings.ToLower(strings.TrimSpace(adminEmail))

	exists, err := userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check existing account: %w", err)
	}
	if exists {
		return fmt.Errorf("an account with email %s already exists", email)
	}

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)
	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin, err := user.NewUser(adminName, email, hash)
	if err != nil {
		return fmt.Errorf("invalid admin account: %w", err)
	}
	admin.PromoteToAdmin()

	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Infow("admin account created", "email", email)
	fmt.Printf("Admin account %s created\n", email)
	return nil
}
