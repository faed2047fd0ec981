package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var (
	command        = flag.String("command", "up", "Migration command: up, down, seed or status")
	steps          = flag.Int("steps", 1, "Number of migrations to roll back with -command=down")
	migrationsPath = flag.String("migrations", "db/migrations", "Path to migrations directory")
	seedsPath      = flag.String("seeds", "db/seeds", "Path to seeds directory")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Database.Driver != database.DriverPostgres {
		log.Fatalf("Migrations require DB_DRIVER=postgres, got %q. SQLite databases are migrated by the server on startup.", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db).WithPaths(*migrationsPath, *seedsPath)

	if err := runner.WaitForDatabase(); err != nil {
		log.Fatalf("Database is not reachable: %v", err)
	}

	switch *command {
	case "up":
		if err := runner.RunMigrations(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations applied")
	case "down":
		if err := runner.Rollback(*steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		log.Printf("Rolled back %d migration(s)", *steps)
	case "seed":
		if os.Getenv("SEED_DATABASE") != "true" {
			log.Println("SEED_DATABASE is not true, nothing to do")
			return
		}
		if err := runner.LoadSeeds(); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Println("Seed files executed")
	case "status":
		version, dirty, err := runner.GetMigrationStatus()
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		log.Printf("Current version: %d, dirty: %t", version, dirty)
	default:
		log.Fatalf("Unknown command %q. Use up, down, seed or status.", *command)
	}
}
