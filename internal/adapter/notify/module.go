package notify

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/storepickup/internal/config"
)

// Module provides the Notifier selected by configuration.
var Module = fx.Options(
	fx.Provide(newNotifier),
	fx.Invoke(registerLifecycle),
)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("KAFKA_BROKERS is empty, notifications are written to the log")
		return NewLogNotifier(p.Logger), nil
	}
	n, err := NewKafkaNotifier(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func registerLifecycle(lc fx.Lifecycle, n Notifier) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return n.Close()
		},
	})
}
