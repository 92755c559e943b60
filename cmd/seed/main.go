package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager-api/config"
	"github.com/oksasatya/go-task-manager-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	plain := "horsebatterystaple"
	name := "demoUser"
	hash, err := helpers.HashPassword(plain)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, age)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, name, email, hash, 30).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", id, email, name, plain)

	for _, t := range []struct {
		description string
		completed   bool
	}{
		{"buy groceries", true},
		{"write weekly report", false},
		{"book dentist appointment", false},
	} {
		if _, err := db.Exec(`
			INSERT INTO tasks (description, completed, owner_id)
			VALUES ($1, $2, $3)
		`, t.description, t.completed, id); err != nil {
			log.Fatalf("failed to seed task: %v", err)
		}
	}
	fmt.Println("seeded demo tasks")
}
