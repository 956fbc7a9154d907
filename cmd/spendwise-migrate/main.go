package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/storage"
)

const usage = `usage: spendwise-migrate <command>

commands:
  up          apply every pending migration
  down [n]    roll back n migrations (all when n is omitted)
  version     print the current schema version`

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	dbPath := cfg.SQLiteDBPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("Failed to create database directory", "error", err, "path", dbPath)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "up":
		if err := storage.RunMigrations(dbPath); err != nil {
			logger.Error("Migration failed", "error", err, "path", dbPath)
			os.Exit(1)
		}
		logger.Info("Migrations applied", "path", dbPath)

	case "down":
		steps := 0
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "invalid step count %q\n", os.Args[2])
				os.Exit(2)
			}
			steps = n
		}
		if err := storage.MigrateDown(dbPath, steps); err != nil {
			logger.Error("Rollback failed", "error", err, "path", dbPath, "steps", steps)
			os.Exit(1)
		}
		logger.Info("Migrations rolled back", "path", dbPath, "steps", steps)

	case "version":
		v, dirty, err := storage.MigrationVersion(dbPath)
		if err != nil {
			logger.Error("Failed to read schema version", "error", err, "path", dbPath)
			os.Exit(1)
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
