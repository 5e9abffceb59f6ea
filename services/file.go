package services

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore keeps each key as a file in a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating data dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (self *FileStore) path(key string) string {
	return filepath.Join(self.dir, filepath.Base(key))
}

func (self *FileStore) Get(key string) (string, error) {
	data, err := os.ReadFile(self.path(key))
	if os.IsNotExist(err) {
		return "", missing(key)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", key)
	}
	return string(data), nil
}

// Set replaces the file atomically.
func (self *FileStore) Set(key string, value string) error {
	tmp, err := os.CreateTemp(self.dir, "."+filepath.Base(key)+".*")
	if err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", key)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	if err := os.Rename(tmp.Name(), self.path(key)); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	return nil
}

func (self *FileStore) Exists(key string) (bool, error) {
	_, err := os.Stat(self.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}
