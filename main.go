package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cratequest/gameserver/config"
	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/monitor"
	"github.com/cratequest/gameserver/persistence"
	"github.com/cratequest/gameserver/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Database
	store, err := persistence.NewMongoStore(cfg.Database.Mongo)
	if err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Log.Info("Successfully established connection with MongoDB")

	// Metrics endpoint
	mon := monitor.NewMonitor("cratequest")
	mon.StartServer(cfg.Server.MetricsAddress)

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg, store, mon)

	go func() {
		logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
		if err := gameServer.Start(); err != nil {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until a termination signal arrives, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down game server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server shutdown failed: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		logger.Log.Errorf("Error closing MongoDB client: %v", err)
	}
	logger.Log.Info("Game server stopped.")
}
