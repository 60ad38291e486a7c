package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/newsroom-tools/bulletin/internal/server"
	"github.com/newsroom-tools/bulletin/internal/shared"
)

// Serve starts the newsletter API server and blocks until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	httpLogger := shared.WithLogger(r.logger, "component", "http")

	repo, err := r.repository()
	if err != nil {
		return err
	}
	defer r.manager.Release()

	host := r.config.Server.Host
	if cmd.String("host") != "" {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.Int("port") != 0 {
		port = int(cmd.Int("port"))
	}

	router := server.NewBasicRouter()
	router.Use(
		server.RequestID(),
		server.Logging(httpLogger),
		server.RateLimit(float64(cmd.Int("rate-limit")), 10),
	)
	router.Handler(server.NewNewsletterHandler(repo, httpLogger))
	router.Handler(server.NewAuthHandler(r.config.Admin.Passcode, httpLogger))

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(host, port, router, r.logger)
	return srv.Start(signalCtx)
}
