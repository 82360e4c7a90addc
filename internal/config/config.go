package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/db"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Path   string          `yaml:"path"`
		Backup db.BackupConfig `yaml:"backup"`
	} `yaml:"database"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken       string  `yaml:"bot_token"`
		ManagerChatIDs []int64 `yaml:"manager_chat_ids"`
	} `yaml:"telegram"`

	Booking struct {
		// Times of day treated as permanently at capacity, "HH:MM".
		CapacityFullTimes []string `yaml:"capacity_full_times"`
	} `yaml:"booking"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/petcafe_console.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DirectoryCacheTTL returns the employee cache TTL, defaulting to 5m.
func (c *Config) DirectoryCacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// CapacityFullTimes parses the configured at-capacity times. Malformed
// entries are skipped.
func (c *Config) CapacityFullTimes() []model.TimeOfDay {
	var times []model.TimeOfDay
	for _, s := range c.Booking.CapacityFullTimes {
		t, err := model.ParseTimeOfDay(s)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	return times
}
