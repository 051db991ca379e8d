package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/cricstack/ipl-mcp/internal/config"
	"github.com/cricstack/ipl-mcp/internal/ingest"
	"github.com/cricstack/ipl-mcp/internal/storage"
)

func main() {
	fs := pflag.NewFlagSet("load-matches", pflag.ContinueOnError)
	dataDir := fs.StringP("data", "d", "data", "Directory of Cricsheet match JSON files.")
	dbPath := fs.StringP("db", "b", "", "SQLite database path (defaults to IPL_DB_PATH or ipl.db).")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel)

	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}

	store, err := storage.Open(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open match store")
	}
	defer store.Close()

	events, err := ingest.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect event publisher")
	}
	defer events.Close()

	loader := ingest.NewLoader(store, events, log)
	loaded, err := loader.LoadDir(*dataDir)
	if err != nil {
		log.WithError(err).Fatal("ingest failed")
	}

	fmt.Printf("Loaded %d matches into %s\n", loaded, *dbPath)
}
