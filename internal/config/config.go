package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/bitsctl/internal/logging"
	"github.com/danmuck/bitsctl/internal/protocol"
	"github.com/rs/zerolog"
)

// Config is the resolved bitsctl configuration.
type Config struct {
	Name   string
	Limits protocol.Limits
	Server ServerConfig
	Log    LogConfig
}

type ServerConfig struct {
	Addr           string
	CorsOrigins    []string
	TrustedProxies []string
	// APIToken guards /v1 when set.
	APIToken string
}

type LogConfig struct {
	Level     zerolog.Level
	JSON      bool
	Timestamp bool
}

type fileConfig struct {
	Name   string     `toml:"name"`
	Limits fileLimits `toml:"limits"`
	Server fileServer `toml:"server"`
	Log    fileLog    `toml:"log"`
}

type fileLimits struct {
	MaxHexDigits int `toml:"max_hex_digits"`
	MaxDepth     int `toml:"max_depth"`
}

type fileServer struct {
	Addr           string   `toml:"addr"`
	CorsOrigins    []string `toml:"cors_origins"`
	TrustedProxies []string `toml:"trusted_proxies"`
	APIToken       string   `toml:"api_token"`
}

type fileLog struct {
	Level     string `toml:"level"`
	JSON      bool   `toml:"json"`
	Timestamp bool   `toml:"timestamp"`
}

func Default() Config {
	return Config{
		Name:   "bitsctl",
		Limits: protocol.DefaultLimits(),
		Server: ServerConfig{
			Addr:           ":9400",
			CorsOrigins:    []string{"http://localhost:3000"},
			TrustedProxies: []string{"127.0.0.1", "::1"},
		},
		Log: LogConfig{
			Level:     zerolog.InfoLevel,
			Timestamp: true,
		},
	}
}

// Load reads a TOML file and applies every key it defines over Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("limits", "max_hex_digits") {
		cfg.Limits.MaxHexDigits = raw.Limits.MaxHexDigits
	}
	if meta.IsDefined("limits", "max_depth") {
		cfg.Limits.Packet.MaxDepth = raw.Limits.MaxDepth
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "cors_origins") {
		cfg.Server.CorsOrigins = normalizeList(raw.Server.CorsOrigins)
	}
	if meta.IsDefined("server", "trusted_proxies") {
		cfg.Server.TrustedProxies = normalizeList(raw.Server.TrustedProxies)
	}
	if meta.IsDefined("server", "api_token") {
		cfg.Server.APIToken = strings.TrimSpace(raw.Server.APIToken)
	}
	if meta.IsDefined("log", "level") {
		lvl, ok := logging.ParseLevel(raw.Log.Level)
		if !ok {
			return Config{}, fmt.Errorf("parse log.level: unknown level %q", raw.Log.Level)
		}
		cfg.Log.Level = lvl
	}
	if meta.IsDefined("log", "json") {
		cfg.Log.JSON = raw.Log.JSON
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("config missing server.addr")
	}
	if cfg.Limits.MaxHexDigits <= 0 {
		return fmt.Errorf("limits.max_hex_digits must be positive")
	}
	if cfg.Limits.MaxHexDigits%2 != 0 {
		return fmt.Errorf("limits.max_hex_digits must be even")
	}
	if cfg.Limits.Packet.MaxDepth <= 0 {
		return fmt.Errorf("limits.max_depth must be positive")
	}
	return nil
}

// Logging maps the [log] section onto a logging config.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	cfg.Level = c.Log.Level
	cfg.JSON = c.Log.JSON
	cfg.Timestamp = c.Log.Timestamp
	return cfg
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
