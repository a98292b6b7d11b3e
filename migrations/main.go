package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	if len(os.Args) < 2 {
		log.Fatal("Usage: ./migrate [up|down]")
	}

	command := os.Args[1]
	sourceURL := getEnv("MIGRATIONS_PATH", "file://migrations/migrate")

	log.Printf("Running migration command: %s", command)

	m, err := migrate.New(sourceURL, getPostgresDSN())
	if err != nil {
		log.Fatalf("Cannot create migrate instance: %v", err)
	}
	defer m.Close()

	var errMigration error
	switch command {
	case "up":
		errMigration = m.Up()
	case "down":
		errMigration = m.Down()
	default:
		log.Fatalf("Unknown command: %s", command)
	}

	if errMigration != nil && !errors.Is(errMigration, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", errMigration)
	}

	log.Println("Migration finished successfully!")
}

func getPostgresDSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "admin")),
		Host:     fmt.Sprintf("%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:     getEnv("DB_NAME", "problemdb"),
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
