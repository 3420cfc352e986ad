package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/presssence/presssence-api/pkg/auth"
)

func main() {
	fmt.Println("adding user into database...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, using system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	email := os.Getenv("SEED_USER_EMAIL")
	name := os.Getenv("SEED_USER_NAME")
	password := os.Getenv("SEED_USER_PASSWORD")

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	query := `
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = $3, password_hash = $4
	`
	_, err = pool.Exec(context.Background(), query, uuid.New(), email, name, hash)
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated user '%s' successfully!\n", email)
}
