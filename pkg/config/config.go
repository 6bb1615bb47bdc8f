// Package config loads service settings from yaml files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config exposes read access to loaded settings.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetFloat64(key string) float64
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
	GetStringMap(key string) map[string]interface{}
	IsSet(key string) bool
	GetAll() map[string]interface{}
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string { return c.v.GetString(key) }
func (c *viperConfig) GetInt(key string) int { return c.v.GetInt(key) }
func (c *viperConfig) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *viperConfig) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }
func (c *viperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *viperConfig) GetStringSlice(key string) []string { return c.v.GetStringSlice(key) }
func (c *viperConfig) GetStringMap(key string) map[string]interface{} { return c.v.GetStringMap(key) }
func (c *viperConfig) IsSet(key string) bool { return c.v.IsSet(key) }
func (c *viperConfig) GetAll() map[string]interface{} { return c.v.AllSettings() }

const configDir = "configs"

// Load reads configs/<APP_ENV>/<service>.yaml, or the directory named by
// CONFIG_PATH, falling back to configs/example. A .env file in the working
// directory is applied to the environment first. Environment variables
// override file values using the upper-cased service name as prefix, with
// dots replaced by underscores (booking: server.http.port -> BOOKING_SERVER_HTTP_PORT).
func Load(serviceName string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(configDir, env)
	}

	v := newViper(serviceName)
	v.SetConfigName(serviceName)
	v.AddConfigPath(configPath)
	if err := v.ReadInConfig(); err != nil {
		v.AddConfigPath(filepath.Join(configDir, "example"))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load config for %s: %w", serviceName, err)
		}
	}

	return &viperConfig{v: v}, nil
}

// FromMap builds a Config from in-memory values. Environment overrides still apply.
func FromMap(serviceName string, values map[string]interface{}) Config {
	v := newViper(serviceName)
	for key, value := range values {
		v.Set(key, value)
	}
	return &viperConfig{v: v}
}

func newViper(serviceName string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(serviceName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}
