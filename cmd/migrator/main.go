// Command migrator applies the documents schema with goose.
package main

import (
	"flag"
	"log"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the goose migrations")
	flag.Parse()

	// up, down, redo, status or version; defaults to up.
	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	_ = godotenv.Load()

	cfg := config.MustLoad()

	pool, err := repository.NewDatabase(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	if err = goose.SetDialect("postgres"); err != nil {
		log.Panicf("Failed to select dialect: %v", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err = goose.Run(command, db, *dir, flag.Args()[min(1, flag.NArg()):]...); err != nil {
		log.Panicf("Migration %s failed: %v", command, err)
	}

	log.Printf("Migration %s finished against %s", command, cfg.Postgres.Dbname)
}
