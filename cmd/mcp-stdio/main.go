package main

import (
	"fmt"
	"os"

	"github.com/cricstack/ipl-mcp/internal/cache"
	"github.com/cricstack/ipl-mcp/internal/config"
	"github.com/cricstack/ipl-mcp/internal/handlers"
	"github.com/cricstack/ipl-mcp/internal/storage"
	"github.com/cricstack/ipl-mcp/pkg/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.LogLevel)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open match store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	c, err := cache.New(cfg.RedisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize cache: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	cricket := handlers.NewCricketHandler(store, c, cfg.CacheTTL, log)

	registry := mcp.NewRegistry()
	if err := cricket.Register(registry); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register tools: %v\n", err)
		os.Exit(1)
	}

	server := mcp.NewServer(mcp.ServerInfo{
		Name:        cfg.ServerName,
		Version:     cfg.ServerVersion,
		Description: "IPL Cricket Statistics MCP Server",
	}, registry, log)

	if err := server.Serve(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
