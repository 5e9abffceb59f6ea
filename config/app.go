package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type ConnectionConf struct {
	HassURL     string `json:"hass_url" yaml:"hass_url"`
	TokenStored bool   `json:"token_stored" yaml:"token_stored"`
}

type SidebarConf struct {
	Width         int    `json:"width" yaml:"width"`
	Visible       bool   `json:"visible" yaml:"visible"`
	ShowClock     bool   `json:"show_clock" yaml:"show_clock"`
	ShowWeather   bool   `json:"show_weather" yaml:"show_weather"`
	WeatherEntity string `json:"weather_entity" yaml:"weather_entity"`
}

type HacsCard struct {
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url" yaml:"url"`
	Version string `json:"version" yaml:"version"`
}

// AppConfiguration is the persisted application configuration
// (configuration.yaml in the data directory).
type AppConfiguration struct {
	Version         int            `json:"version" yaml:"version"`
	Connection      ConnectionConf `json:"connection" yaml:"connection"`
	Locale          string         `json:"locale" yaml:"locale"`
	CustomJSEnabled bool           `json:"custom_js_enabled" yaml:"custom_js_enabled"`
	HacsCards       []HacsCard     `json:"hacs_cards" yaml:"hacs_cards"`
	Sidebar         SidebarConf    `json:"sidebar" yaml:"sidebar"`
}

func DefaultAppConfiguration() *AppConfiguration {
	return &AppConfiguration{
		Version: 1,
		Connection: ConnectionConf{
			HassURL: "http://homeassistant.local:8123",
		},
		Locale:    "de",
		HacsCards: []HacsCard{},
		Sidebar: SidebarConf{
			Width:         280,
			Visible:       true,
			ShowClock:     true,
			ShowWeather:   true,
			WeatherEntity: "weather.home",
		},
	}
}

// Mode reports addon when the token is held by the supervisor.
func (self *AppConfiguration) Mode() string {
	if self.Connection.TokenStored {
		return ModeAddon
	}
	return ModeStandalone
}

// OpenApp parses configuration.yaml. Missing fields keep their defaults.
func OpenApp(data []byte) (*AppConfiguration, error) {
	self := DefaultAppConfiguration()
	if err := yaml.Unmarshal(data, self); err != nil {
		return nil, errors.Wrap(err, "parsing app configuration")
	}
	if self.HacsCards == nil {
		self.HacsCards = []HacsCard{}
	}
	return self, nil
}

func (self *AppConfiguration) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(self)
	if err != nil {
		return nil, errors.Wrap(err, "encoding app configuration")
	}
	return data, nil
}
