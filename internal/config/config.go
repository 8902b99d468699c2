package config

import (
	"os"

	"codeberg.org/vintr/updatemon/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel    = "info"
	defaultInterval    = 300
	defaultAuthTimeout = 30
	defaultDatabase    = "/var/lib/updatemon/updatemon.db"

	configEnvVar = "UPDATEMON_CONFIG"
)

type Config struct {
	Interval    int    `mapstructure:"interval"`
	Monitor     bool   `mapstructure:"monitor"`
	Database    string `mapstructure:"database"`
	Auth        bool   `mapstructure:"auth"`
	AuthTimeout int    `mapstructure:"auth_timeout"`
	LogLevel    string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("monitor", false)
	v.SetDefault("database", defaultDatabase)
	v.SetDefault("auth", false)
	v.SetDefault("auth_timeout", defaultAuthTimeout)
	v.SetDefault("log_level", DefaultLogLevel)

	flags := pflag.NewFlagSet("updatemon", pflag.ContinueOnError)
	flags.Int("interval", defaultInterval, "Seconds between collection cycles")
	flags.Bool("monitor", false, "Log collected rows instead of persisting them")
	flags.String("database", defaultDatabase, "Path to the rows database")
	flags.Bool("auth", false, "Require user authentication before collecting")
	flags.Int("auth-timeout", defaultAuthTimeout, "Seconds to wait for the authentication prompt")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := v.BindPFlag("interval", flags.Lookup("interval")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("monitor", flags.Lookup("monitor")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("database", flags.Lookup("database")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("auth", flags.Lookup("auth")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("auth_timeout", flags.Lookup("auth-timeout")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := v.BindPFlag("log_level", flags.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("updatemon")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.AuthTimeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidAuthTimeout, c.AuthTimeout)
	}
	if !c.Monitor && c.Database == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "database path is required unless monitor mode is enabled")
	}
	if !validLogLevel(c.LogLevel) {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

func validLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warning", "warn", "error":
		return true
	default:
		return false
	}
}
