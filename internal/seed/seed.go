// Package seed bootstraps data the service cannot run without.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/train-seat-reservation/internal/model"
	"github.com/iliyamo/train-seat-reservation/internal/repository"
)

// EnsureAdmin makes sure username exists with the admin role.  A missing
// user is created with password; an existing one is promoted and keeps
// its password.  An empty username is a no-op.
func EnsureAdmin(ctx context.Context, users *repository.UserRepo, username, password string, cost int) (uint64, error) {
	username = repository.NormalizeUsername(username)
	if username == "" {
		return 0, nil
	}
	u, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		if password == "" {
			return 0, fmt.Errorf("seed admin %q: password required", username)
		}
		id, err := users.Create(ctx, username, password, model.RoleAdmin, cost)
		if err != nil {
			return 0, fmt.Errorf("seed admin %q: %w", username, err)
		}
		return id, nil
	case err != nil:
		return 0, fmt.Errorf("seed admin %q: %w", username, err)
	}
	if u.Role != model.RoleAdmin {
		if err := users.SetRole(ctx, u.ID, model.RoleAdmin); err != nil {
			return 0, fmt.Errorf("promote %q: %w", username, err)
		}
	}
	return u.ID, nil
}
