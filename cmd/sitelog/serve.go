package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/vbonduro/sitelog/internal/web"
	"github.com/vbonduro/sitelog/internal/web/templates"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "Listen address, overrides LISTEN_ADDR",
		},
	},
	Action: serve,
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.ListenAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	return web.NewServer(a.service, templates.FS, a.logger).ListenAndServe(ctx, addr)
}
