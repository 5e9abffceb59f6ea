package main

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/entity"
	"github.com/dashhome/dashhome/util"
)

// targetKeys are moved from the service data into the target.
var targetKeys = []string{"entity_id", "area_id", "device_id"}

func call(ctx context.Context, settings *config.Settings, logger *zap.Logger, ps []string) error {
	name, fields := util.ParseArgs(ps)
	p := strings.SplitN(name, ".", 2)
	if len(p) != 2 || p[0] == "" || p[1] == "" {
		return errors.Errorf("expected domain.service, got %q", name)
	}

	target := util.Extract(fields, targetKeys...)

	manager, err := open(ctx, settings, entity.NewStore(nil), logger, 10*time.Second)
	if err != nil {
		return err
	}
	defer manager.Close()
	manager.CallService(p[0], p[1], fields, target)
	logger.Info("called", zap.String("service", name), zap.Any("data", fields), zap.Any("target", target))
	return nil
}
