package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/storelane/storelane-api/config"
	"github.com/storelane/storelane-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@storelane.dev"
	password := "admin12345"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE SET role = 'admin', updated_at = now()
		RETURNING id
	`, "Store Admin", email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", id, email, password)

	products := []struct {
		name, desc, category string
		price                float64
		stock                int
	}{
		{"Walnut Desk Organizer", "Five compartment organizer milled from solid walnut", "office", 39.90, 120},
		{"Ceramic Pour-Over Set", "Dripper and carafe set, 600ml", "kitchen", 54.00, 45},
		{"Merino Beanie", "Midweight merino wool beanie, one size", "apparel", 24.50, 300},
		{"Canvas Weekender Bag", "Waxed canvas duffel with leather handles", "travel", 98.00, 18},
	}
	for _, p := range products {
		if _, err := db.Exec(`
			INSERT INTO products (name, description, price, category, stock)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
		`, p.name, p.desc, p.price, p.category, p.stock); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.name, err)
		}
	}
	fmt.Printf("seeded %d sample products (skipping existing)\n", len(products))
}
