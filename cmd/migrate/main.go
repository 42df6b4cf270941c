package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fuelease-be/internal/config"
	"fuelease-be/internal/db"
	"fuelease-be/internal/logger"
	"fuelease-be/internal/user"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const seedTimeout = 30 * time.Second

type options struct {
	mode         string
	seed         bool
	seedPassword string
}

var (
	initDBFunc  = db.NewDatabase
	migrateFunc = db.Migrate
	seedFunc    = func(ctx context.Context, database *sql.DB, password string) (int, error) {
		svc := user.NewService(user.NewRepository(database), nil)
		return svc.SeedDemoAccounts(ctx, password)
	}
)

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if err := run(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&opts.mode, "mode", "up", "migration mode: up or down")
	fs.BoolVar(&opts.seed, "seed", false, "create the demo customer, driver and admin accounts after migrating")
	fs.StringVar(&opts.seedPassword, "seed-password", "demo123", "password for the demo accounts")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func run(ctx context.Context, opts options) error {
	dir, err := db.ParseDirection(opts.mode)
	if err != nil {
		return err
	}
	if opts.seed && dir == db.Down {
		return fmt.Errorf("-seed cannot be combined with -mode down")
	}

	cfg := &config.Config{
		AppEnv:      os.Getenv("APP_ENV"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set in environment")
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrateFunc(database, dir); err != nil {
		return err
	}
	log.Info("migrations applied", zap.String("mode", string(dir)))

	if !opts.seed {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	created, err := seedFunc(ctx, database, opts.seedPassword)
	if err != nil {
		return fmt.Errorf("seed demo accounts: %w", err)
	}
	log.Info("demo accounts seeded", zap.Int("created", created))

	return nil
}
