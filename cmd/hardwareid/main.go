package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/slashdevops/hardwareid/internal/logger"
)

const applicationName = "hardwareid"

func main() {
	log := logger.New(os.Stderr, "warn")

	// .env is optional; it only pre-populates HARDWAREID_* variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	ctx := logger.AddLoggerToContext(context.Background(), log)

	if err := newRootCmd(defaultDeps()).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errMismatch) {
			log.Error().Err(err).Msg(applicationName + " failed")
		}
		os.Exit(1)
	}
}
