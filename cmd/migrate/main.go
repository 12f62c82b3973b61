package main

// Apply or roll back the history_blobs schema:
//   go run ./cmd/migrate          # up
//   go run ./cmd/migrate down     # revert the latest migration
//   go run ./cmd/migrate version  # print the applied version

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"placement-readiness/internal/shared/config"
	"placement-readiness/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "version":
	default:
		log.Fatalf("unknown command %q (want up, down or version)", command)
	}
	if err != nil {
		log.Fatalf("%s: %v", command, err)
	}

	version, err := db.SchemaVersion(ctx, sqlDB)
	if err != nil {
		log.Fatalf("read schema version: %v", err)
	}
	log.Printf("history schema at version %d", version)
}
