package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"time"

	"evreg/internal/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

//go:embed schema.sql
var schema string

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	fmt.Println("Successfully connected to PostgreSQL database!")
}

// EnsureSchema applies the bundled schema. Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS), so this is safe to run on every start.
func EnsureSchema() {
	if _, err := DB.Exec(schema); err != nil {
		log.Fatalf("Error applying database schema: %v", err)
	}
	fmt.Println("Database schema ensured.")
}

func Close() {
	if DB != nil {
		DB.Close()
		fmt.Println("Database connection closed.")
	}
}
