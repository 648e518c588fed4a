package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/config"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/server"
)

func main() {
	// Initialize logger with default configuration
	log, err := logger.NewLogger(logger.LogConfig{})
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	log.Info("Starting assessa-mcp server")

	ctx := context.Background()
	srv := server.CreateServer(ctx, cfg, log)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal("Server failed: %v", err)
	}
}
