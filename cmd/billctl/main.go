package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"purchase-sale-backend/internal/config"
	"purchase-sale-backend/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		if err := logger.Setup(logger.DefaultConfig()); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	} else {
		lc := cfg.GetLoggerConfig()
		if lc.Output == "" || lc.Output == "stdout" {
			// stdout carries the report
			lc.Output = "stderr"
		}
		if err := logger.Setup(lc); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
	}

	os.Exit(Execute())
}
