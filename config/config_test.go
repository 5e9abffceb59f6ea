package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleOpenApp() {
	app, _ := OpenApp([]byte(ExampleApp))
	fmt.Println(app.Locale, app.Sidebar.Width, app.Sidebar.ShowClock, app.Mode())
	// Output:
	// en 320 true addon
}

func emptyDir(t *testing.T) string {
	t.Setenv("SUPERVISOR_TOKEN", "")
	return t.TempDir()
}

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(emptyDir(t))
	require.NoError(t, err)
	assert.Equal(t, "http://homeassistant.local:8123", settings.HassURL)
	assert.Equal(t, "/app/data", settings.DataDir)
	assert.Equal(t, 5050, settings.Port)
	assert.False(t, settings.Debug)
	assert.Equal(t, "file", settings.Storage.Driver)
	assert.Equal(t, "dashhome", settings.Mqtt.Prefix)
	assert.Equal(t, ModeStandalone, settings.Mode())
}

func TestLoadFile(t *testing.T) {
	dir := emptyDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashhome.yml"), []byte(ExampleSettings), 0644))
	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://ha.lan:8123", settings.HassURL)
	assert.Equal(t, "secret", settings.Token())
	assert.Equal(t, 6060, settings.Port)
	assert.Equal(t, "redis", settings.Storage.Driver)
	assert.Equal(t, "redis:6379", settings.Storage.RedisAddr)
	assert.Equal(t, "tcp://mqtt.lan:1883", settings.Mqtt.Broker)
	assert.Equal(t, "json", settings.Log.Format)
}

func TestLoadEnvironment(t *testing.T) {
	dir := emptyDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashhome.yml"), []byte(ExampleSettings), 0644))
	t.Setenv("DAS_HOME_PORT", "7070")
	t.Setenv("DAS_HOME_DEBUG", "true")
	t.Setenv("DAS_HOME_STORAGE_DRIVER", "file")
	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, settings.Port)
	assert.True(t, settings.Debug)
	assert.Equal(t, "file", settings.Storage.Driver)
}

func TestLoadAddon(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SUPERVISOR_TOKEN", "supervisor")
	settings, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, settings.IsAddon())
	assert.Equal(t, ModeAddon, settings.Mode())
	assert.Equal(t, AddonHassURL, settings.HassURL)
	assert.Equal(t, AddonDataDir, settings.DataDir)
	assert.Equal(t, "supervisor", settings.Token())
}

func TestLoadBadFile(t *testing.T) {
	dir := emptyDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dashhome.yml"), []byte("port: [1"), 0644))
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestOpenAppDefaults(t *testing.T) {
	app, err := OpenApp(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfiguration(), app)
	assert.Equal(t, ModeStandalone, app.Mode())
}

func TestAppRoundTrip(t *testing.T) {
	app, err := OpenApp([]byte(ExampleApp))
	require.NoError(t, err)
	data, err := app.Marshal()
	require.NoError(t, err)
	again, err := OpenApp(data)
	require.NoError(t, err)
	assert.Equal(t, app, again)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/dashhome/dashhome.yml", ConfigPath("dashhome.yml"))
}
