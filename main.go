package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bikestats/internal/config"
	"bikestats/internal/container"
	"bikestats/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dashboard still starts without data so that a reload can fix it.
	if _, err := c.Load(ctx); err != nil {
		c.Logger.Error("Initial load of %s failed: %v", appConfig.Data.File, err)
	}

	server, err := ui.NewServer(c.Service, c.Logger)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
