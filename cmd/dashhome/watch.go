package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/connection"
	"github.com/dashhome/dashhome/entity"
	"github.com/dashhome/dashhome/pubsub"
	"github.com/dashhome/dashhome/pubsub/mqtt"
)

func connectionSettings(settings *config.Settings) *connection.Settings {
	cs := connection.DefaultSettings()
	if token := settings.Token(); token != "" {
		cs.Header = http.Header{"Authorization": {"Bearer " + token}}
	}
	return cs
}

// open connects a manager feeding store and waits for the first connect.
func open(ctx context.Context, settings *config.Settings, store *entity.Store, logger *zap.Logger, wait time.Duration) (*connection.Manager, error) {
	manager := connection.NewManager(settings.Client.URL, store, connectionSettings(settings), logger.Named("connection"))
	status := manager.Subscribe()
	defer manager.Unsubscribe(status)
	manager.Connect(ctx)

	timeout := time.After(wait)
	for {
		select {
		case s := <-status:
			if s == connection.Connected {
				return manager, nil
			}
		case <-timeout:
			manager.Close()
			return nil, errors.Errorf("could not connect to %s", settings.Client.URL)
		case <-ctx.Done():
			manager.Close()
			return nil, ctx.Err()
		}
	}
}

func watch(ctx context.Context, settings *config.Settings, logger *zap.Logger, prefix string) error {
	var mirror pubsub.Publisher
	if settings.Mqtt.Broker != "" {
		broker, err := mqtt.NewBroker(settings.Mqtt.Broker, settings.Mqtt.Prefix, logger.Named("mqtt"))
		if err != nil {
			return err
		}
		defer broker.Close()
		mirror = broker.Publisher()
	}

	store := entity.NewStore(mirror)
	defer store.CloseMirror()
	topics := []pubsub.Topic{pubsub.All()}
	if prefix != "" {
		topics = []pubsub.Topic{entity.Matching(prefix), pubsub.Exact(entity.SnapshotTopic)}
	}
	events := store.Subscribe(topics...)
	defer store.Close(events)

	manager := connection.NewManager(settings.Client.URL, store, connectionSettings(settings), logger.Named("connection"))
	defer manager.Close()
	status := manager.Subscribe()
	defer manager.Unsubscribe(status)
	manager.Connect(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-status:
			logger.Info("status", zap.String("status", string(s)))
			if mirror != nil {
				ev := pubsub.NewEvent("status", pubsub.Fields{"kind": pubsub.KindStatus, "status": string(s)})
				ev.SetRetained(true)
				mirror.Emit(ev)
			}
		case ev := <-events:
			if ev.Kind() == pubsub.KindSnapshot {
				logger.Info("snapshot", zap.Int("entities", store.Len()))
				continue
			}
			state := store.Get(ev.EntityID())
			if state == nil {
				continue
			}
			logger.Info("state",
				zap.String("entity_id", state.EntityID),
				zap.String("name", entity.FriendlyName(state)),
				zap.String("state", state.State))
		}
	}
}
