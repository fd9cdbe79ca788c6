package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cycloud0203/cvsd/pkg/api"
	"github.com/cycloud0203/cvsd/pkg/log"
)

var serveCommand = &cli.Command{
	Name:      "serve",
	Usage:     "Serve the model over HTTP",
	UsageText: "cvsd serve [--listen ADDR]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "Listen address `ADDR` (default from config api_listen_address)",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	addr := cfg.APIListenAddr
	if c.IsSet("listen") {
		addr = c.String("listen")
	}
	srv := api.New()

	// stop cancels ctx as well, so done is closed first and checked again
	// after ctx fires.
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	done, exited := make(chan struct{}), make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		select {
		case <-done:
			return
		default:
		}
		log.Printf("Shutdown requested, stopping API server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("api shutdown")
		}
	}()

	err := srv.Start(addr)
	close(done)
	stop()
	<-exited
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
