package main

import (
	"context"
	"fmt"
	"os"

	"autopartes/internal/config"

	"github.com/jackc/pgx/v5"
)

var tables = []string{
	"productos", "usuarios", "ordenes", "ordenes_mayorista",
	"carritos_mayorista", "solicitudes_mayorista", "transactions",
}

// Connects with the server's DB_* settings and reports which collections exist.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	fmt.Println("\nTables:")
	for _, table := range tables {
		var exists bool
		err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
			os.Exit(1)
		}
		status := "missing (created on server start)"
		if exists {
			status = "ok"
		}
		fmt.Printf("  - %-22s %s\n", table, status)
	}
}
