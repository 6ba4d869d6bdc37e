package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"showMiners": false,
		"removeDistance": 120,
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.False(t, viper.GetBool(KeyShowMiners))
	assert.Equal(t, 120, viper.GetInt(KeyRemoveDistance))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./starinfologs", viper.GetString("logsDir"))
	assert.Equal(t, true, viper.GetBool(KeyShowInfoBox))
	assert.Equal(t, true, viper.GetBool(KeyShowHintArrow))
	assert.Equal(t, true, viper.GetBool(KeyShowMiners))
	assert.Equal(t, true, viper.GetBool(KeyCopyToClipboard))
	assert.Equal(t, true, viper.GetBool(KeyAddToChat))
	assert.Equal(t, 250, viper.GetInt(KeyRemoveDistance))
	assert.Equal(t, "#ffff00", viper.GetString(KeyTextColor))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./sightings", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, "3m", viper.GetString("storage.sqlite.dumpInterval"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "starinfo", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	// defaults are still registered
	assert.Equal(t, 250, viper.GetInt(KeyRemoveDistance))
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.Equal(t, true, GetBool("testBool"))
}

func TestSet(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	Set(KeyShowHintArrow, false)
	Set(KeyRemoveDistance, "90")

	cfg := GetStarConfig()
	assert.False(t, cfg.ShowHintArrow)
	assert.Equal(t, 90, cfg.RemoveDistance)
}

func TestGetStarConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"showInfoBox": false,
		"addToChat": false,
		"textColor": "#00ff80",
		"locationsFile": "sites.yaml"
	}`)))

	cfg := GetStarConfig()
	assert.False(t, cfg.ShowInfoBox)
	assert.True(t, cfg.ShowHintArrow)
	assert.False(t, cfg.AddToChat)
	assert.Equal(t, 250, cfg.RemoveDistance)
	assert.Equal(t, "#00ff80", cfg.TextColor.Hex())
	assert.Equal(t, "sites.yaml", cfg.LocationsFile)
}

func TestStarConfigSettings(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set(KeyRemoveDistance, 100)

	settings := GetStarConfig().Settings()
	assert.Equal(t, 100, settings[KeyRemoveDistance])
	assert.Equal(t, "#ffff00", settings[KeyTextColor])
	assert.Equal(t, true, settings[KeyShowMiners])
	assert.NotContains(t, settings, KeyLocationsFile)
}

func TestGetStarConfig_InvalidColor(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set(KeyTextColor, "yellow")

	assert.Equal(t, "#ffff00", GetStarConfig().TextColor.Hex())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = ParseColor("ff0000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid colour")
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, "./sightings", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
	assert.Equal(t, "starinfo", cfg.Postgres.Database)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"flushInterval": "1s",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m" }
		}
	}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, time.Second, cfg.FlushInterval)
	assert.Equal(t, "/tmp/out", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, cfg.SQLite.DumpInterval)
}

func TestGetInfluxConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"influx": {"enabled": true, "host": "influx.local"}}`)))

	cfg := GetInfluxConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "influx.local", cfg.Host)
	assert.Equal(t, "8086", cfg.Port)
	assert.Equal(t, "stars", cfg.Bucket)
}

func TestGetOTelConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{"otel": {"enabled": true, "endpoint": "localhost:4318"}}`)))

	cfg := GetOTelConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "starinfo", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
}

func TestGetGraylogConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := GetGraylogConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:12201", cfg.Address)
}
