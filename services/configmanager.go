package services

import (
	"sync"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/dashboard"
)

// Keys of the persisted documents.
const (
	AppConfigKey = "configuration.yaml"
	DashboardKey = "dashboard.yaml"
)

// ConfigManager loads and saves the application configuration and the
// dashboard document, caching both after first use.
type ConfigManager struct {
	store Store

	lock      sync.Mutex
	app       *config.AppConfiguration
	dashboard *dashboard.Config
}

func NewConfigManager(store Store) *ConfigManager {
	return &ConfigManager{store: store}
}

// read returns "" for a missing key.
func (self *ConfigManager) read(key string) (string, error) {
	value, err := self.store.Get(key)
	if IsMissing(err) {
		return "", nil
	}
	return value, err
}

// LoadAppConfig returns the stored configuration, or defaults if none has
// been saved.
func (self *ConfigManager) LoadAppConfig() (*config.AppConfiguration, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.app != nil {
		return self.app, nil
	}
	value, err := self.read(AppConfigKey)
	if err != nil {
		return nil, err
	}
	app, err := config.OpenApp([]byte(value))
	if err != nil {
		return nil, err
	}
	self.app = app
	return app, nil
}

func (self *ConfigManager) SaveAppConfig(app *config.AppConfiguration) error {
	data, err := app.Marshal()
	if err != nil {
		return err
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if err := self.store.Set(AppConfigKey, string(data)); err != nil {
		return err
	}
	self.app = app
	return nil
}

// LoadDashboard returns the stored document, or the default document if
// none has been saved.
func (self *ConfigManager) LoadDashboard() (*dashboard.Config, error) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if self.dashboard != nil {
		return self.dashboard, nil
	}
	value, err := self.read(DashboardKey)
	if err != nil {
		return nil, err
	}
	doc := dashboard.Default()
	if value != "" {
		if doc, err = dashboard.Parse([]byte(value)); err != nil {
			return nil, err
		}
	}
	self.dashboard = doc
	return doc, nil
}

func (self *ConfigManager) SaveDashboard(doc *dashboard.Config) error {
	data, err := dashboard.Marshal(doc)
	if err != nil {
		return err
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	if err := self.store.Set(DashboardKey, string(data)); err != nil {
		return err
	}
	self.dashboard = doc
	return nil
}

func (self *ConfigManager) InvalidateCache() {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.app = nil
	self.dashboard = nil
}

// IsConfigured is true once an application configuration has been saved.
func (self *ConfigManager) IsConfigured() (bool, error) {
	return self.store.Exists(AppConfigKey)
}
