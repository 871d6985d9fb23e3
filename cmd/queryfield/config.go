package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
}

type StoreConfig struct {
	// Engine is a registered kv engine, e.g. pebble
	Engine string `mapstructure:"engine"`
	// Path of the catalog data, ":memory:" for a throwaway catalog
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
}

// LoadConfig reads queryfield.yaml from the working directory, or configFile when set.
// QUERYFIELD_* environment variables override the file, e.g. QUERYFIELD_STORE_PATH.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("store.engine", "pebble")
	v.SetDefault("store.path", ".queryfield")
	v.SetDefault("log.level", "info")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("queryfield")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("QUERYFIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, errors.Wrap(err, "read config")
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if c.Store.Path == "" {
		return nil, errors.New("store.path is required")
	}

	return c, nil
}
