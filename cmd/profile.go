package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/myflix/internal/models"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the account and its favorites count.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	user, err := r.service.GetUser(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user.Public(), cmd.Bool("pretty"))
	}

	r.writePlainHeader("Profile")
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	if user.Birthday != "" {
		r.writePlain("Birthday: %s\n", shared.FormatDate(user.Birthday))
	}
	return r.writePlain("Favorites: %d\n", len(user.Favorites))
}

// ProfileUpdate changes any of username, password, email and birthday.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	req := models.UpdateUserRequest{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	}
	if req.IsEmpty() {
		return fmt.Errorf("%w: pass at least one of --username, --password, --email, --birthday", shared.ErrMissingArgument)
	}

	user, err := r.service.UpdateUser(ctx, req)
	if err != nil {
		return r.reportAPIError("update failed", err)
	}

	r.logger.Info("profile updated", "username", user.Username)
	return r.writePlain("✓ Profile updated for %s\n", user.Username)
}

// ProfileDelete deletes the account after confirmation. The session is cleared either way once the request is sent.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireService(); err != nil {
		return err
	}

	if !cmd.Bool("yes") && !r.confirm("Delete your account? This cannot be undone.") {
		return r.writePlain("Cancelled\n")
	}

	msg, err := r.service.DeleteUser(ctx)
	if err != nil {
		return r.reportAPIError("delete failed", err)
	}

	if msg.Message != "" {
		r.writePlain("%s\n", msg.Message)
	}
	return r.writePlain("✓ Account deleted and logged out\n")
}
