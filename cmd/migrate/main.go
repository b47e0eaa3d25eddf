package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pratik-mahalle/ytgate/internal/config"
	"github.com/pratik-mahalle/ytgate/internal/repository/postgres"
	"github.com/pratik-mahalle/ytgate/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Connect to database
	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", cfg.Database.Driver)

	applied, err := migrations.Run(ctx, db, cfg.Database.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		db.Close()
		os.Exit(1)
	}

	if len(applied) == 0 {
		fmt.Println("Database is up to date")
		return
	}
	for _, name := range applied {
		fmt.Printf("Applied %s\n", name)
	}
	fmt.Printf("Successfully applied %d migration(s)\n", len(applied))
}
