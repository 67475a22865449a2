package main

import (
	"context"
	"time"

	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/db"
	"github.com/geocoder89/admindash/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create default settings and the admin user when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd.Context(), config.Load())
		},
	}
}

func seed(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := observability.NewLogger(cfg.Env, cfg.LogFile)

	c, cancel := config.WithTimeout(ctx, cfg.ConnectTimeout+30*time.Second)
	defer cancel()

	be, err := openStores(c, cfg, log, observability.NewProm(prometheus.NewRegistry()))
	if err != nil {
		return err
	}
	defer func() { _ = be.close(context.Background()) }()

	created, err := db.EnsureDefaultSettings(c, be.stores.Settings)
	if err != nil {
		return err
	}
	log.Info("default settings ensured", "created", created)

	adminCreated, err := db.EnsureAdminUser(c, be.stores.Users, cfg)
	if err != nil {
		return err
	}
	log.Info("admin user ensured", "email", cfg.AdminEmail, "created", adminCreated)

	return nil
}
