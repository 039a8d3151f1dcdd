package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/morkath/contacts/internal/cli"
	"github.com/morkath/contacts/internal/config"
	"github.com/morkath/contacts/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := logging.NewSlogLogger(slog.New(handler))

	app, err := cli.NewApp(cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
