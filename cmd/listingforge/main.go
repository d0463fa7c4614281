package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"ListingForge/internal/app"
	"ListingForge/internal/config"
	"ListingForge/internal/domain"
	"ListingForge/internal/logging"
)

func main() {
	inputPath := flag.String("input", "", "path to the input table (YAML or JSON)")
	configPath := flag.String("config", "", "path to the configuration file (YAML)")
	noAI := flag.Bool("no-ai", false, "skip the model and use deterministic fallbacks only")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load(*configPath)
	if *noAI {
		off := false
		cfg.Generation.UseAI = &off
	}
	logger := logging.New(cfg.Logging.Level)

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: listingforge -input table.yaml [-config config.yaml] [-no-ai]")
		os.Exit(2)
	}

	application := app.New(cfg, logger)
	out, err := application.GenerateFromFile(ctx, *inputPath)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrMissingBrand):
			logger.Error("input table rejected", "error", err)
		default:
			logger.Error("generation failed", "error", err)
		}
		os.Exit(1)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
