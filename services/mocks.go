package services

import "sync"

// MockStore is an in memory Store.
type MockStore struct {
	lock sync.Mutex
	data map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{data: map[string]string{}}
}

func (self *MockStore) Get(key string) (string, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if value, ok := self.data[key]; ok {
		return value, nil
	}
	return "", missing(key)
}

func (self *MockStore) Set(key string, value string) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.data[key] = value
	return nil
}

func (self *MockStore) Exists(key string) (bool, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	_, ok := self.data[key]
	return ok, nil
}
