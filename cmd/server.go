package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/myflix/internal/server"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the local API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv, err := server.New(server.Options{
		Secret: r.config.Server.JWTSecret,
		Seed:   cmd.Bool("seed"),
		Logger: shared.WithLogger(r.logger, "component", "server"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Serving myFlix API on http://%s\n", addr)
	r.writePlain("Point the client at it with %s=http://%s\n", shared.EnvAPIURL, addr)

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
