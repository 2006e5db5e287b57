package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"cropclassify/internal/config"
	"cropclassify/internal/repository/sqlite"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.Load()
	dbPath := flag.String("db", cfg.DatabasePath, "Database path")
	action := flag.String("action", "up", "Migration action: up, down, version, force")
	version := flag.Int("version", -1, "Target version for force")
	flag.Parse()

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch *action {
	case "up":
		if err := db.MigrateUp(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := db.MigrateDown(); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		fmt.Println("Migrations rolled back")
	case "force":
		if *version < 0 {
			return errors.New("-version is required for force")
		}
		if err := db.MigrateForce(*version); err != nil {
			return fmt.Errorf("force failed: %w", err)
		}
		fmt.Printf("Forced schema version %d\n", *version)
	case "version":
	default:
		return fmt.Errorf("unknown action %q", *action)
	}

	v, dirty, err := db.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Printf("Schema version: %d (dirty: %t)\n", v, dirty)
	return nil
}
