// Command seed-admin creates the bootstrap ADMIN account and exits.
// Existing accounts are left untouched, so it is safe to run on every deploy.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/storage"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.NewLogger())

	email := flag.String("email", cfg.AdminEmail, "admin email")
	password := flag.String("password", cfg.AdminPassword, "admin password")
	dbPath := flag.String("db", cfg.DBPath, "sqlite database path")
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		slog.Error("db_open_failed", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := storage.InitDB(db); err != nil {
		slog.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	created, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Email:    *email,
		Password: *password,
	}, orchestrators.SeedAdminDeps{
		UserStore:  userStore.NewSQLiteStore(db),
		GenerateID: uuid.NewString,
		Now:        time.Now,
	})
	if err != nil {
		slog.Error("seed_admin_failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed_admin_done", "email", *email, "created", created)
}
