package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mhst/internal/buildinfo"
	"github.com/dmitrijs2005/mhst/internal/client/app"
	"github.com/dmitrijs2005/mhst/internal/client/cli"
	"github.com/dmitrijs2005/mhst/internal/client/config"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, flush, err := logging.New(logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		SentryDSN: cfg.SentryDSN,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer flush()

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}
	defer c.Close()

	cli.NewApp(c, os.Stdin, os.Stdout).Run(ctx)
}
