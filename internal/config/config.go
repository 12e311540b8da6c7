// Package config loads broker settings from an api.ini file with
// SLOTBROKER_* environment overrides. The file carries one section per
// remote service plus the transport and broker globals:
//
//	[hotel]
//	url = http://localhost:8101
//	key = <bearer token>
//	[band]
//	url = http://localhost:8102
//	key = <bearer token>
//	[global]
//	retries = 3
//	delay = 0.5
//	[broker]
//	interval = 1.0
//	http_addr = :8080
//
// A missing file is not an error; defaults keep the demo mode usable
// without any setup.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServiceConfig struct {
	URL string
	Key string
}

type Config struct {
	Hotel ServiceConfig
	Band  ServiceConfig

	// Transport collaborator settings: total attempts per request and
	// the pause between attempts.
	Retries int
	Delay   time.Duration

	// RequestInterval is the pacing floor between any two outbound
	// requests, shared across both services.
	RequestInterval time.Duration

	// Web control panel.
	HTTPAddr          string
	SessionHashKey    []byte
	SessionBlockKey   []byte
	AdminPasswordHash string

	DevMode bool
}

const DefaultPath = "api.ini"

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	v.SetEnvPrefix("SLOTBROKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("hotel.url", "http://localhost:8101")
	v.SetDefault("band.url", "http://localhost:8102")
	v.SetDefault("global.retries", 3)
	v.SetDefault("global.delay", 0.5)
	v.SetDefault("broker.interval", 1.0)
	v.SetDefault("broker.http_addr", ":8080")

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := Config{
		Hotel: ServiceConfig{
			URL: v.GetString("hotel.url"),
			Key: v.GetString("hotel.key"),
		},
		Band: ServiceConfig{
			URL: v.GetString("band.url"),
			Key: v.GetString("band.key"),
		},
		Retries:           v.GetInt("global.retries"),
		Delay:             seconds(v.GetFloat64("global.delay")),
		RequestInterval:   seconds(v.GetFloat64("broker.interval")),
		HTTPAddr:          v.GetString("broker.http_addr"),
		AdminPasswordHash: v.GetString("web.admin_password_hash"),
		DevMode:           v.GetBool("broker.dev_mode"),
	}

	if cfg.Retries < 1 {
		return Config{}, fmt.Errorf("global.retries must be >= 1 (got %d)", cfg.Retries)
	}
	if cfg.RequestInterval < 0 {
		return Config{}, fmt.Errorf("broker.interval must not be negative")
	}

	var err error
	if s := v.GetString("web.session_hash_key"); s != "" {
		if cfg.SessionHashKey, err = decodeB64(s); err != nil {
			return Config{}, fmt.Errorf("web.session_hash_key: %w", err)
		}
	}
	if s := v.GetString("web.session_block_key"); s != "" {
		if cfg.SessionBlockKey, err = decodeB64(s); err != nil {
			return Config{}, fmt.Errorf("web.session_block_key: %w", err)
		}
	}

	return cfg, nil
}

// ValidateWeb reports whether the config can run the web control
// panel. Only the serve command needs these keys.
func (c Config) ValidateWeb() error {
	if len(c.SessionHashKey) == 0 || len(c.SessionBlockKey) == 0 {
		return fmt.Errorf("web.session_hash_key and web.session_block_key are required (base64)")
	}
	if c.AdminPasswordHash == "" {
		return fmt.Errorf("web.admin_password_hash is required (bcrypt hash)")
	}
	return nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func decodeB64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
