package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storepickup/internal/adapter/notify"
	"github.com/polkiloo/storepickup/internal/app"
	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/logger"
	"github.com/polkiloo/storepickup/internal/pkg/auth"
	"github.com/polkiloo/storepickup/internal/seed"
	"github.com/polkiloo/storepickup/internal/server/http/handlers"
	"github.com/polkiloo/storepickup/internal/server/http/router"
	"github.com/polkiloo/storepickup/internal/storage"
	"github.com/polkiloo/storepickup/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		notify.Module,
		usecase.Module,
		seed.Module,
		fx.Provide(func(f *app.PickupFacade) handlers.PickupFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
