// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag" json:"tag"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason" json:"reason"`
	Weight int      `yaml:"weight" json:"weight"`
	Any    []string `yaml:"any" json:"any"`
}

type Scoring struct {
	// TitleRules are tiers; the heaviest tier hit sets the base score.
	TitleRules []Rule `yaml:"title_rules" json:"title_rules"`
	// KeywordRules give a base score when no tier matched.
	KeywordRules []Rule    `yaml:"keyword_rules" json:"keyword_rules"`
	Penalties    []Penalty `yaml:"penalties" json:"penalties"`
	RemoteBonus  int       `yaml:"remote_bonus" json:"remote_bonus"`
	FAANGBonus   int       `yaml:"faang_bonus" json:"faang_bonus"`
}

type Config struct {
	App struct {
		Bind    string `yaml:"bind" json:"bind"`
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Query struct {
		DefaultPerPage int `yaml:"default_per_page" json:"default_per_page"`
		MaxPerPage     int `yaml:"max_per_page" json:"max_per_page"`
	} `yaml:"query" json:"query"`

	Cache struct {
		RedisURL        string `yaml:"redis_url" json:"redis_url"`
		StatsTTLSeconds int    `yaml:"stats_ttl_seconds" json:"stats_ttl_seconds"`
	} `yaml:"cache" json:"cache"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Maintenance struct {
		CheckpointSchedule string `yaml:"checkpoint_schedule" json:"checkpoint_schedule"`
		CleanupSchedule    string `yaml:"cleanup_schedule" json:"cleanup_schedule"`
		RetentionDays      int    `yaml:"retention_days" json:"retention_days"`
	} `yaml:"maintenance" json:"maintenance"`

	Logging struct {
		Level  string `yaml:"level" json:"level"`
		Format string `yaml:"format" json:"format"` // console | json
	} `yaml:"logging" json:"logging"`

	Ingest struct {
		ParallelFiles  int      `yaml:"parallel_files" json:"parallel_files"`
		FAANGCompanies []string `yaml:"faang_companies" json:"faang_companies"`
	} `yaml:"ingest" json:"ingest"`

	Scoring Scoring `yaml:"scoring" json:"scoring"`
}

// Defaults returns a config that runs without any file.
func Defaults() Config {
	var cfg Config
	cfg.App.Bind = "127.0.0.1"
	cfg.App.Port = 38471
	cfg.App.DataDir = "data"
	cfg.Query.DefaultPerPage = 30
	cfg.Query.MaxPerPage = 200
	cfg.Cache.StatsTTLSeconds = 60
	cfg.RateLimit.RequestsPerSecond = 20
	cfg.RateLimit.Burst = 40
	cfg.Maintenance.CheckpointSchedule = "@every 1h"
	cfg.Maintenance.CleanupSchedule = "@daily"
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Ingest.ParallelFiles = 4
	cfg.Scoring.RemoteBonus = 15
	cfg.Scoring.FAANGBonus = 10
	return cfg
}

// Load reads path over Defaults and applies the environment overlay.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	OverlayEnv(&cfg)
	return cfg, nil
}
