// Package config holds the process settings and the persisted application
// configuration model.
package config

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/dashhome/dashhome/util"
)

const (
	ModeAddon      = "addon"
	ModeStandalone = "standalone"

	AddonHassURL = "http://supervisor/core"
	AddonDataDir = "/config/das-home"
)

type StorageConf struct {
	Driver    string `mapstructure:"driver"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

type MqttConf struct {
	Broker string `mapstructure:"broker"`
	Prefix string `mapstructure:"prefix"`
}

type LogConf struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConf points the command line tools at a running backend.
type ClientConf struct {
	URL string `mapstructure:"url"`
	API string `mapstructure:"api"`
}

// Settings for one process, read from dashhome.yml and DAS_HOME_*
// environment variables.
type Settings struct {
	HassURL   string      `mapstructure:"hass_url"`
	HassToken string      `mapstructure:"hass_token"`
	DataDir   string      `mapstructure:"data_dir"`
	Port      int         `mapstructure:"port"`
	Debug     bool        `mapstructure:"debug"`
	Storage   StorageConf `mapstructure:"storage"`
	Mqtt      MqttConf    `mapstructure:"mqtt"`
	Log       LogConf     `mapstructure:"log"`
	Client    ClientConf  `mapstructure:"client"`

	SupervisorToken string `mapstructure:"-"`
}

// IsAddon is true when running under the home assistant supervisor.
func (self *Settings) IsAddon() bool {
	return self.SupervisorToken != ""
}

func (self *Settings) Mode() string {
	if self.IsAddon() {
		return ModeAddon
	}
	return ModeStandalone
}

// Token to authenticate against home assistant.
func (self *Settings) Token() string {
	if self.IsAddon() {
		return self.SupervisorToken
	}
	return self.HassToken
}

func setDefaults(v *viper.Viper, addon bool) {
	v.SetDefault("hass_url", "http://homeassistant.local:8123")
	v.SetDefault("hass_token", "")
	v.SetDefault("data_dir", "/app/data")
	v.SetDefault("port", 5050)
	v.SetDefault("debug", false)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.redis_addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.prefix", "dashhome")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("client.url", "ws://localhost:5050/ws")
	v.SetDefault("client.api", "http://localhost:5050")
	if addon {
		v.SetDefault("hass_url", AddonHassURL)
		v.SetDefault("data_dir", AddonDataDir)
	}
}

// Load reads settings. dashhome.yml is looked for in paths, or the current
// directory and ConfigPath when none are given; a missing file is fine.
func Load(paths ...string) (*Settings, error) {
	supervisorToken := os.Getenv("SUPERVISOR_TOKEN")

	v := viper.New()
	v.SetConfigName("dashhome")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", ConfigPath("")}
	}
	for _, p := range paths {
		v.AddConfigPath(util.ExpandUser(p))
	}
	setDefaults(v, supervisorToken != "")
	v.SetEnvPrefix("DAS_HOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading settings")
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}
	settings.SupervisorToken = supervisorToken
	settings.DataDir = util.ExpandUser(settings.DataDir)
	return settings, nil
}

// helpers

// Resolve a configuration file under .config/dashhome
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "dashhome", p)
}
