package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/resetctl/internal/admin"
	"github.com/danmuck/resetctl/internal/logging"
	"github.com/danmuck/resetctl/internal/observability"
	"github.com/danmuck/resetctl/internal/sequencer"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "resetctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to resetctl config (toml)")
	flag.Parse()

	logging.ConfigureRuntime()
	observability.RegisterMetrics()
	observability.InitLogger("resetctl")

	cfg := defaultAppConfig()
	if *configPath != "" {
		loaded, err := loadAppConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	seq, err := sequencer.New(cfg.Sequencer, nil)
	if err != nil {
		return err
	}
	srv, err := admin.NewServer(seq, cfg.AdminAddr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)
	go func() { errc <- seq.Start(ctx) }()
	go func() { errc <- srv.Serve(ctx) }()

	err = <-errc
	stop()
	if errors.Is(err, http.ErrServerClosed) {
		return context.Canceled
	}
	return err
}
