// Package config loads the seqdemo configuration from an optional YAML file and SEQDEMO_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AntonStoeckl/observable-sequence-go/internal/database"
)

var ErrReadingConfigFailed = errors.New("reading the config file failed")
var ErrInvalidLogLevel = errors.New("invalid log level")
var ErrInvalidLogFormat = errors.New("invalid log format")
var ErrInvalidTimeout = errors.New("postgres timeout must be positive")
var ErrEmptyTable = errors.New("postgres table must not be empty")

// EnvPrefix is the prefix of the environment variables overriding config keys, e.g. SEQDEMO_POSTGRES_DSN.
const EnvPrefix = "SEQDEMO"

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	keyLogLevel         = "log.level"
	keyLogFormat        = "log.format"
	keyColor            = "color"
	keyOTel             = "otel"
	keyPostgresDSN      = "postgres.dsn"
	keyPostgresAdapter  = "postgres.adapter"
	keyPostgresTable    = "postgres.table"
	keyPostgresTimeout  = "postgres.timeout"
	defaultConfigName   = "seqdemo"
	defaultLogLevel     = "info"
	defaultLogFormat    = LogFormatText
	defaultTable        = "observed_events"
	defaultTimeout      = 5 * time.Second
	defaultColorEnabled = true
)

// Config is the complete seqdemo configuration.
type Config struct {
	Log      Log
	Color    bool
	OTel     bool
	Postgres Postgres
}

// Log configures the slog logger.
type Log struct {
	Level  slog.Level
	Format string
}

// Postgres configures the optional audit sink. An empty DSN disables it.
type Postgres struct {
	DSN     string
	Adapter string
	Table   string
	Timeout time.Duration
}

// Enabled reports whether a DSN is configured.
func (p Postgres) Enabled() bool {
	return p.DSN != ""
}

// Load reads the config file at path, or seqdemo.yaml in the working directory if path is empty.
// A missing default file is not an error; environment variables override file values.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyLogFormat, defaultLogFormat)
	v.SetDefault(keyColor, defaultColorEnabled)
	v.SetDefault(keyOTel, false)
	v.SetDefault(keyPostgresDSN, "")
	v.SetDefault(keyPostgresAdapter, database.AdapterPGXPool)
	v.SetDefault(keyPostgresTable, defaultTable)
	v.SetDefault(keyPostgresTimeout, defaultTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Join(ErrReadingConfigFailed, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidLogLevel, v.GetString(keyLogLevel))
	}

	format := strings.ToLower(v.GetString(keyLogFormat))
	if format != LogFormatText && format != LogFormatJSON {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
	}

	adapter, err := database.ParseAdapter(v.GetString(keyPostgresAdapter))
	if err != nil {
		return Config{}, err
	}

	table := v.GetString(keyPostgresTable)
	if table == "" {
		return Config{}, ErrEmptyTable
	}

	timeout := v.GetDuration(keyPostgresTimeout)
	if timeout <= 0 {
		return Config{}, ErrInvalidTimeout
	}

	return Config{
		Log:   Log{Level: level, Format: format},
		Color: v.GetBool(keyColor),
		OTel:  v.GetBool(keyOTel),
		Postgres: Postgres{
			DSN:     v.GetString(keyPostgresDSN),
			Adapter: adapter,
			Table:   table,
			Timeout: timeout,
		},
	}, nil
}
