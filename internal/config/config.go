// Package config loads service settings from an optional file and BIONIC_*
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "BIONIC"

// Analyzer backends
const (
	BackendKonlpy = "konlpy"
	BackendKagome = "kagome"
	BackendNone   = "none"
)

// Config holds the service settings
type Config struct {
	Addr           string
	AllowedOrigins []string

	Backend      string
	QueryTimeout time.Duration
	ProjectName  string
	Image        string
	Norm         bool
	Stem         bool

	LogLevel zerolog.Level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("analyzer.backend", BackendKonlpy)
	v.SetDefault("analyzer.query_timeout", 30*time.Second)
	v.SetDefault("analyzer.project_name", "konlpy")
	v.SetDefault("analyzer.image", "")
	v.SetDefault("analyzer.norm", true)
	v.SetDefault("analyzer.stem", true)
	v.SetDefault("log.level", "info")
}

// Load reads path (if not empty) and the environment. BIONIC_HTTP_ADDR
// overrides http.addr and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	level, err := zerolog.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}

	cfg := &Config{
		Addr:           v.GetString("http.addr"),
		AllowedOrigins: splitList(v.GetStringSlice("http.allowed_origins")),
		Backend:        strings.ToLower(v.GetString("analyzer.backend")),
		QueryTimeout:   v.GetDuration("analyzer.query_timeout"),
		ProjectName:    v.GetString("analyzer.project_name"),
		Image:          v.GetString("analyzer.image"),
		Norm:           v.GetBool("analyzer.norm"),
		Stem:           v.GetBool("analyzer.stem"),
		LogLevel:       level,
	}

	switch cfg.Backend {
	case BackendKonlpy, BackendKagome, BackendNone:
	default:
		return nil, fmt.Errorf("unknown analyzer.backend %q", cfg.Backend)
	}
	return cfg, nil
}

// splitList accepts both list values and comma separated strings from env
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
