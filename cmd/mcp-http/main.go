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
		log.WithError(err).Fatal("failed to open match store")
	}
	defer store.Close()

	c, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize cache")
	}
	defer c.Close()

	cricket := handlers.NewCricketHandler(store, c, cfg.CacheTTL, log)

	registry := mcp.NewRegistry()
	if err := cricket.Register(registry); err != nil {
		log.WithError(err).Fatal("failed to register tools")
	}

	server := mcp.NewServer(mcp.ServerInfo{
		Name:        cfg.ServerName,
		Version:     cfg.ServerVersion,
		Description: "IPL Cricket Statistics MCP Server",
	}, registry, log)

	if cfg.HTTPToken == "" {
		log.Warn("MCP_HTTP_TOKEN not set; running without authentication")
	}

	httpServer := mcp.NewHTTPServer(server, cfg.HTTPToken, log)
	if err := httpServer.ListenAndServe(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("http server exited")
	}
}
