package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"quakenav/internal/app/simclock"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen      string         `yaml:"listen"`
	CORSOrigins []string       `yaml:"cors_origins"`
	Planner     PlannerConfig  `yaml:"planner"`
	Sim         SimConfig      `yaml:"sim"`
	Baseline    BaselineConfig `yaml:"baseline"`
	DB          DBConfig       `yaml:"db"`
	Log         LogConfig      `yaml:"log"`
}

type PlannerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	ExtendedRadius int           `yaml:"extended_radius"`
}

type SimConfig struct {
	Params   simclock.Params `yaml:"params"`
	GridSize int             `yaml:"grid_size"`
}

// BaselineConfig picks where the reset terrain comes from: a YAML/JSON file
// when File is set, the database when DB.DSN is set, else an empty grid.
type BaselineConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type DBConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
	LogSQL        bool   `yaml:"log_sql"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Listen: ":8080",
		Planner: PlannerConfig{
			BaseURL:        "http://localhost:9999",
			DialTimeout:    5 * time.Second,
			ReadTimeout:    30 * time.Second,
			ExtendedRadius: 2,
		},
		Sim: SimConfig{
			Params:   simclock.DefaultParams(),
			GridSize: 20,
		},
		Baseline: BaselineConfig{Name: "process.grid"},
		DB:       DBConfig{MigrationsDir: "./migrations"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over Default() and then applies QUAKENAV_* environment
// overrides. An empty path or a missing file yields defaults plus env.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg)
	cfg.Sim.Params = cfg.Sim.Params.Normalize()
	if cfg.Sim.GridSize <= 0 {
		cfg.Sim.GridSize = Default().Sim.GridSize
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Listen = stringEnv("QUAKENAV_LISTEN", cfg.Listen)
	cfg.CORSOrigins = listEnv("QUAKENAV_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.Planner.BaseURL = stringEnv("QUAKENAV_PLANNER_URL", cfg.Planner.BaseURL)
	cfg.Planner.ReadTimeout = durationEnv("QUAKENAV_PLANNER_READ_TIMEOUT", cfg.Planner.ReadTimeout)
	cfg.Sim.Params.FreqPer10 = intEnv("QUAKENAV_FREQ_PER_10", cfg.Sim.Params.FreqPer10)
	cfg.Sim.Params.Severity = floatEnv("QUAKENAV_SEVERITY", cfg.Sim.Params.Severity)
	cfg.Sim.Params.StepDelay = durationEnv("QUAKENAV_STEP_DELAY", cfg.Sim.Params.StepDelay)
	cfg.Sim.Params.Algo = stringEnv("QUAKENAV_ALGO", cfg.Sim.Params.Algo)
	cfg.Sim.GridSize = intEnv("QUAKENAV_GRID_SIZE", cfg.Sim.GridSize)
	cfg.Baseline.Name = stringEnv("QUAKENAV_BASELINE", cfg.Baseline.Name)
	cfg.Baseline.File = stringEnv("QUAKENAV_BASELINE_FILE", cfg.Baseline.File)
	cfg.DB.DSN = stringEnv("QUAKENAV_DB_DSN", cfg.DB.DSN)
	cfg.Log.Level = stringEnv("QUAKENAV_LOG_LEVEL", cfg.Log.Level)
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// durationEnv accepts Go durations ("250ms") or bare milliseconds.
func durationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
