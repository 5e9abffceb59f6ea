package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/services"
	"github.com/dashhome/dashhome/services/api"
)

func serve(ctx context.Context, settings *config.Settings, logger *zap.Logger) error {
	store, err := services.NewStore(settings)
	if err != nil {
		return err
	}
	manager := services.NewConfigManager(store)
	if err := services.Register(api.New(settings, manager, logger.Named("api"))); err != nil {
		return err
	}
	logger.Info("serving",
		zap.String("mode", settings.Mode()),
		zap.String("storage", settings.Storage.Driver),
		zap.String("hass_url", settings.HassURL),
		zap.Int("port", settings.Port))
	return services.Launch(ctx, []string{"api"}, logger)
}
