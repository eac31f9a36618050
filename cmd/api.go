package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}
	if _, err := r.output.Write(resp.Body); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// APIGet makes a direct GET request, authenticated when a session exists.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request with a JSON body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	data := cmd.String("data")
	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}
	if err := shared.ValidateJSON([]byte(data)); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.client.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}
	return r.writeResponse(resp, true)
}
