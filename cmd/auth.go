package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/session"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthRegister creates an account, optionally logging in afterwards.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	req := models.RegisterRequest{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	}

	r.logger.Info("registering account", "username", req.Username)

	user, err := r.service.Register(ctx, req)
	if err != nil {
		return r.reportAPIError("registration failed", err)
	}
	r.writePlain("✓ Account %s created\n", user.Username)

	if !cmd.Bool("login") {
		return r.writePlain("Run 'myflix auth login -u %s -p <password>' to sign in\n", user.Username)
	}

	if _, err := r.service.Login(ctx, models.LoginRequest{Username: req.Username, Password: req.Password}); err != nil {
		return r.reportAPIError("login failed", err)
	}
	return r.writePlain("✓ Logged in as %s\n", req.Username)
}

// AuthLogin logs in and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	username := cmd.String("username")
	r.logger.Info("logging in", "username", username)

	resp, err := r.service.Login(ctx, models.LoginRequest{Username: username, Password: cmd.String("password")})
	if err != nil {
		return r.reportAPIError("login failed", err)
	}

	r.logger.Info("authentication successful")
	return r.writePlain("✓ Logged in as %s (%d favorites)\n", resp.User.Username, len(resp.User.Favorites))
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}
	if err := r.service.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus prints the session state, the token's claims and recent session events.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	sess := r.client.Session()
	snapshot := sess.Snapshot()

	r.writePlain("API: %s\n", r.client.BaseURL())
	r.writePlain("Session: %s\n", sess.State())

	if sess.Authenticated() {
		r.writePlain("User: %s\n", snapshot.Username)

		claims, err := session.ParseClaims(snapshot.Token)
		if err != nil {
			r.logger.Warn("could not decode token", "error", err)
			r.writePlain("Token: present (not a JWT)\n")
		} else {
			if !claims.IssuedAt.IsZero() {
				r.writePlain("Issued: %s\n", claims.IssuedAt.Local().Format(time.RFC1123))
			}
			switch {
			case claims.ExpiresAt.IsZero():
				r.writePlain("Expires: never\n")
			case claims.Expired(time.Now()):
				r.writePlain("Expires: %s (expired, log in again)\n", claims.ExpiresAt.Local().Format(time.RFC1123))
			default:
				r.writePlain("Expires: %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
			}
		}
	}

	limit := cmd.Int("events")
	if r.events == nil || limit <= 0 {
		return nil
	}

	events, err := r.events.ListEvents(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list session events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	r.writePlainln("Recent activity:")
	for _, e := range events {
		r.writePlain("  %s  %-7s %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Username)
	}
	return nil
}

// reportAPIError prints the API's own message (a validation detail, say) before returning err.
func (r *Runner) reportAPIError(action string, err error) error {
	r.logger.Debug(action, "error", err)
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		r.writePlain("✗ %s\n", apiErr.Message())
	}
	return fmt.Errorf("%s: %w", action, err)
}
