package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration: listen address, CORS origins, and the
// ordered source chain the row set is loaded from.
type Config struct {
	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"cors_origins"`

	Sources struct {
		URLs        []string `yaml:"urls"`
		CSVPath     string   `yaml:"csv_path"`
		SQLitePath  string   `yaml:"sqlite_path"`
		SQLiteTable string   `yaml:"sqlite_table"`
	} `yaml:"sources"`
}

// Load reads .env if present, then the yaml file named by SALESDASH_CONFIG
// if set, then applies env overrides and defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path := os.Getenv("SALESDASH_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("SALESDASH_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("SALESDASH_URLS"); v != "" {
		cfg.Sources.URLs = splitList(v)
	}
	if v := os.Getenv("SALESDASH_CSV"); v != "" {
		cfg.Sources.CSVPath = v
	}
	if v := os.Getenv("SALESDASH_SQLITE"); v != "" {
		cfg.Sources.SQLitePath = v
	}
	if v := os.Getenv("SALESDASH_SQLITE_TABLE"); v != "" {
		cfg.Sources.SQLiteTable = v
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Sources.CSVPath == "" && len(cfg.Sources.URLs) == 0 && cfg.Sources.SQLitePath == "" {
		cfg.Sources.CSVPath = "sales.csv"
	}
	if cfg.Sources.SQLiteTable == "" {
		cfg.Sources.SQLiteTable = "sales"
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
