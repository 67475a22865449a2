package db

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/domain"
	"github.com/geocoder89/admindash/internal/domain/settings"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/geocoder89/admindash/internal/validation"
)

// EnsureAdminUser creates the configured admin as a User with role Admin.
// An existing user with that email is left untouched.
func EnsureAdminUser(ctx context.Context, users store.Store[user.User], cfg config.Config) (created bool, err error) {
	if cfg.AdminEmail == "" {
		return false, nil
	}

	email := validation.NormalizeEmail(cfg.AdminEmail)

	_, err = users.FindOne(ctx, "email", email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	u := user.User{
		Base:   domain.NewBase(time.Now().UTC()),
		Name:   cfg.AdminName,
		Email:  email,
		Role:   user.RoleAdmin,
		Status: user.StatusActive,
	}
	if err := validation.Struct(u); err != nil {
		return false, err
	}

	_, err = users.Insert(ctx, u)
	if errors.Is(err, store.ErrDuplicate) {
		// created concurrently
		return false, nil
	}
	return err == nil, err
}

// EnsureDefaultSettings writes the default document for every settings type
// that has none yet. Existing documents are not modified.
func EnsureDefaultSettings(ctx context.Context, s store.Store[settings.Settings]) (created []string, err error) {
	for _, def := range settings.Defaults(time.Now().UTC()) {
		_, err := s.FindOne(ctx, "type", def.Type)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return created, err
		}

		if _, err := s.Insert(ctx, def); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return created, err
		}
		created = append(created, def.Type)
	}
	return created, nil
}
