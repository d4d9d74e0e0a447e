package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Runtime RuntimeConfig
	Model   ModelConfig
	Input   InputConfig
	Log     LogConfig
	Server  ServerConfig
}

type RuntimeConfig struct {
	Backend      string
	URL          string
	Timeout      time.Duration
	StrictSchema bool
	APIKey       string
}

type ModelConfig struct {
	Path string
}

type InputConfig struct {
	Values []float64
}

type LogConfig struct {
	Level string
	File  string
}

type ServerConfig struct {
	Port      int
	APIKey    string
	CacheSize int
}

const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

var DefaultValues = []float64{7, 0.27, 0.36, 20.7, 0.045, 45, 170, 1.001, 3, 0.45, 8.8}

// Load reads defaults, then file (when non-empty), then WINE_* environment
// variables, e.g. WINE_MODEL_PATH or WINE_INPUT_VALUES="7,0.27,...".
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("runtime.backend", BackendLocal)
	v.SetDefault("runtime.url", "http://localhost:8080")
	v.SetDefault("runtime.timeout", "30s")
	v.SetDefault("runtime.strict_schema", false)
	v.SetDefault("runtime.api_key", "")
	v.SetDefault("model.path", "models/wine_drf.gob")
	v.SetDefault("input.values", DefaultValues)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cache_size", 16)

	v.SetEnvPrefix("WINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("runtime.timeout"))
	if err != nil {
		return nil, fmt.Errorf("runtime.timeout: %w", err)
	}
	values, err := toFloats(v.Get("input.values"))
	if err != nil {
		return nil, fmt.Errorf("input.values: %w", err)
	}

	cfg := &Config{
		Runtime: RuntimeConfig{
			Backend:      strings.ToLower(v.GetString("runtime.backend")),
			URL:          strings.TrimRight(v.GetString("runtime.url"), "/"),
			Timeout:      timeout,
			StrictSchema: v.GetBool("runtime.strict_schema"),
			APIKey:       v.GetString("runtime.api_key"),
		},
		Model: ModelConfig{
			Path: v.GetString("model.path"),
		},
		Input: InputConfig{
			Values: values,
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Server: ServerConfig{
			Port:      v.GetInt("server.port"),
			APIKey:    v.GetString("server.api_key"),
			CacheSize: v.GetInt("server.cache_size"),
		},
	}
	return cfg, nil
}

// Environment values arrive as one comma-separated string; file values as lists.
func toFloats(raw any) ([]float64, error) {
	switch t := raw.(type) {
	case []float64:
		return append([]float64(nil), t...), nil
	case string:
		parts := splitList(t)
		out := make([]float64, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case []any:
		out := make([]float64, len(t))
		for i, e := range t {
			switch n := e.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			case int64:
				out[i] = float64(n)
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
				if err != nil {
					return nil, err
				}
				out[i] = f
			default:
				return nil, fmt.Errorf("element %d: unsupported type %T", i, e)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", raw)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
