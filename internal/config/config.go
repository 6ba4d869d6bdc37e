package config

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

// FileName is the config file read from the config directory.
const FileName = "starinfo.cfg.json"

// Keys of the star display settings. The host sends these names in
// :CONFIG:CHANGED:.
const (
	KeyShowInfoBox     = "showInfoBox"
	KeyShowHintArrow   = "showHintArrow"
	KeyShowMiners      = "showMiners"
	KeyCopyToClipboard = "copyToClipboard"
	KeyAddToChat       = "addToChat"
	KeyRemoveDistance  = "removeDistance"
	KeyTextColor       = "textColor"
	KeyLocationsFile   = "locationsFile"
)

// StarConfig holds the star tracking and display settings
type StarConfig struct {
	ShowInfoBox     bool
	ShowHintArrow   bool
	ShowMiners      bool
	CopyToClipboard bool
	AddToChat       bool
	RemoveDistance  int
	TextColor       colorful.Color
	LocationsFile   string
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	DumpInterval time.Duration
}

// PostgresConfig holds Postgres connection settings
type PostgresConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// StorageConfig holds sighting recorder settings
type StorageConfig struct {
	Type          string
	FlushInterval time.Duration
	Memory        MemoryConfig
	SQLite        SQLiteConfig
	Postgres      PostgresConfig
}

// InfluxConfig holds InfluxDB settings
type InfluxConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Protocol string
	Token    string
	Org      string
	Bucket   string
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// GraylogConfig holds the GELF log sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// SetDefaults registers the default value of every setting.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./starinfologs")

	viper.SetDefault(KeyShowInfoBox, true)
	viper.SetDefault(KeyShowHintArrow, true)
	viper.SetDefault(KeyShowMiners, true)
	viper.SetDefault(KeyCopyToClipboard, true)
	viper.SetDefault(KeyAddToChat, true)
	viper.SetDefault(KeyRemoveDistance, 250)
	viper.SetDefault(KeyTextColor, "#ffff00")
	viper.SetDefault(KeyLocationsFile, "")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.flushInterval", "5s")
	viper.SetDefault("storage.memory.outputDir", "./sightings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "starinfo")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "starinfo")
	viper.SetDefault("influx.bucket", "stars")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "starinfo")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Set overrides a config value at runtime.
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// ParseColor parses a "#rrggbb" colour.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// GetStarConfig returns the star settings. An unparseable text colour falls
// back to the default.
func GetStarConfig() StarConfig {
	color, err := ParseColor(viper.GetString(KeyTextColor))
	if err != nil {
		color, _ = ParseColor("#ffff00")
	}
	return StarConfig{
		ShowInfoBox:     viper.GetBool(KeyShowInfoBox),
		ShowHintArrow:   viper.GetBool(KeyShowHintArrow),
		ShowMiners:      viper.GetBool(KeyShowMiners),
		CopyToClipboard: viper.GetBool(KeyCopyToClipboard),
		AddToChat:       viper.GetBool(KeyAddToChat),
		RemoveDistance:  viper.GetInt(KeyRemoveDistance),
		TextColor:       color,
		LocationsFile:   viper.GetString(KeyLocationsFile),
	}
}

// Settings flattens c into the key/value form stored with each recorded session.
func (c StarConfig) Settings() map[string]any {
	return map[string]any{
		KeyShowInfoBox:     c.ShowInfoBox,
		KeyShowHintArrow:   c.ShowHintArrow,
		KeyShowMiners:      c.ShowMiners,
		KeyCopyToClipboard: c.CopyToClipboard,
		KeyAddToChat:       c.AddToChat,
		KeyRemoveDistance:  c.RemoveDistance,
		KeyTextColor:       c.TextColor.Hex(),
	}
}

// GetStorageConfig returns the sighting recorder settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig returns the GELF log sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
