package services

import (
	"github.com/pkg/errors"

	"github.com/dashhome/dashhome/config"
)

// ErrMissing is returned (possibly wrapped) by Get for an unknown key.
var ErrMissing = errors.New("key missing")

// Store is a flat key/value persistence backend for documents.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Exists(key string) (bool, error)
}

func missing(key string) error {
	return errors.Wrap(ErrMissing, key)
}

// IsMissing reports whether err came from a Get of an unknown key.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissing)
}

// NewStore opens the backend selected by settings.
func NewStore(settings *config.Settings) (Store, error) {
	switch settings.Storage.Driver {
	case "", "file":
		return NewFileStore(settings.DataDir)
	case "redis":
		return NewRedisStore(settings.Storage.RedisAddr, settings.Storage.RedisDB)
	}
	return nil, errors.Errorf("unknown storage driver: %s", settings.Storage.Driver)
}
