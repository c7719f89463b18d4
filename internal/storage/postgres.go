package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects through the pgx stdlib driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(1024) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS manufacturers (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		mobile VARCHAR(50) NOT NULL UNIQUE,
		address VARCHAR(255) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS uploads (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		original_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size BIGINT NOT NULL,
		data BYTEA NOT NULL,
		upload_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		manufacturer_id INT NOT NULL,
		manufacturer_name VARCHAR(50) NOT NULL,
		manufacturer_email VARCHAR(255) NOT NULL,
		category_id INT NOT NULL,
		category_name VARCHAR(50) NOT NULL,
		number_in_stock INT NOT NULL CHECK (number_in_stock >= 0),
		active_ingredients TEXT[] NOT NULL DEFAULT '{}',
		rate NUMERIC(2,1) NOT NULL DEFAULT 0,
		price NUMERIC(12,2) NOT NULL,
		description TEXT NOT NULL,
		images JSONB NOT NULL DEFAULT '[]',
		date_added TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		buyer_id INT NOT NULL,
		buyer_name VARCHAR(50) NOT NULL,
		buyer_email VARCHAR(255) NOT NULL,
		line_items JSONB NOT NULL,
		total NUMERIC(14,2) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'Created',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS orders_buyer_id_idx ON orders (buyer_id)`,
}

// EnsureSchema creates missing tables. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
