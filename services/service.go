package services

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Service interface
type Service interface {
	ID() string
	Run(ctx context.Context) error
}

// ServiceInit interface
type ServiceInit interface {
	Service
	Init() error
}

var (
	registryLock sync.Mutex
	serviceMap   = map[string]Service{}
)

func Register(service Service) error {
	registryLock.Lock()
	defer registryLock.Unlock()
	if _, exists := serviceMap[service.ID()]; exists {
		return errors.Errorf("duplicate service registered: %s", service.ID())
	}
	serviceMap[service.ID()] = service
	return nil
}

func Unregister(id string) {
	registryLock.Lock()
	defer registryLock.Unlock()
	delete(serviceMap, id)
}

// Registered lists service ids, sorted.
func Registered() []string {
	registryLock.Lock()
	defer registryLock.Unlock()
	var ids []string
	for id := range serviceMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Launch initialises then runs the named services until ctx is done or one
// of them fails, which cancels the rest.
func Launch(ctx context.Context, names []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var enabled []Service
	registryLock.Lock()
	for _, name := range names {
		service, ok := serviceMap[name]
		if !ok {
			registryLock.Unlock()
			return errors.Errorf("service %s does not exist", name)
		}
		enabled = append(enabled, service)
	}
	registryLock.Unlock()

	for _, service := range enabled {
		logger.Info("starting", zap.String("service", service.ID()))
		if service, ok := service.(ServiceInit); ok {
			if err := service.Init(); err != nil {
				return errors.Wrapf(err, "init service %s", service.ID())
			}
			logger.Info("initialized", zap.String("service", service.ID()))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errs := make(chan error, len(enabled))
	for _, service := range enabled {
		go func(service Service) {
			err := service.Run(ctx)
			if err != nil {
				err = errors.Wrapf(err, "running service %s", service.ID())
			}
			errs <- err
		}(service)
	}

	var first error
	for range enabled {
		if err := <-errs; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}
