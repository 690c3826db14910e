package seed

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/domain/repository"
)

// Module seeds the store registry when the application starts.
var Module = fx.Invoke(registerSeed)

type seedParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Stores    repository.StoreRepository
	Logger    *slog.Logger
}

func registerSeed(p seedParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			stores, err := Load(p.Config.StoresFile)
			if err != nil {
				return err
			}
			if err := Apply(ctx, p.Stores, stores); err != nil {
				return err
			}
			p.Logger.Info("store registry seeded", slog.Int("stores", len(stores)), slog.String("source", source(p.Config.StoresFile)))
			return nil
		},
	})
}

func source(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}
