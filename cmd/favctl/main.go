package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tair/storefront/pkg/logger"
)

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func main() {
	// stdout carries command output
	logger.InitWithWriter(os.Stderr, appName, true)
	logger.SetLevel(getEnv("LOG_LEVEL", "warn"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(Version).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
