package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"sighting-intake-service/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("No .env file found (using environment variables)")
	}

	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: os.Stderr,
	})

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		logging.Fatal().Err(err).Msg("storetool failed")
	}
}
