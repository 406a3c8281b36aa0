package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is the config file name the booker looks for in the
// working directory.
const DefaultPath = "booking_config.json"

type UserInfo struct {
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	Email     string `mapstructure:"email"`
	Phone     string `mapstructure:"phone"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
}

type Preferences struct {
	PreferredTimes []string `mapstructure:"preferred_times"`
	DaysAhead      int      `mapstructure:"days_ahead"`
	NumPlayers     int      `mapstructure:"num_players"`
	Course         string   `mapstructure:"course"`
}

type Automation struct {
	CheckIntervalMinutes int    `mapstructure:"check_interval_minutes"`
	AutoSubmit           bool   `mapstructure:"auto_submit"`
	Headless             bool   `mapstructure:"headless"`
	ScreenshotDir        string `mapstructure:"screenshot_dir"`
}

// Config is loaded once at startup and immutable for the run.
type Config struct {
	UserInfo    UserInfo    `mapstructure:"user_info"`
	Preferences Preferences `mapstructure:"preferences"`
	Automation  Automation  `mapstructure:"automation"`
}

func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.Automation.CheckIntervalMinutes) * time.Minute
}

// Load reads .env (if present), then the JSON config file, then applies
// BOOKING_* environment overrides for identity fields. A missing config
// file is not an error: defaults are used.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		// file absent: run on defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_info.first_name", "John")
	v.SetDefault("user_info.last_name", "Doe")
	v.SetDefault("user_info.email", "john.doe@example.com")
	v.SetDefault("user_info.phone", "555-123-4567")
	v.SetDefault("preferences.preferred_times", []string{"07:00", "07:30", "08:00"})
	v.SetDefault("preferences.days_ahead", 7)
	v.SetDefault("preferences.num_players", 2)
	v.SetDefault("preferences.course", "Charleston Municipal")
	v.SetDefault("automation.check_interval_minutes", 5)
	v.SetDefault("automation.auto_submit", false)
	v.SetDefault("automation.headless", false)
	v.SetDefault("automation.screenshot_dir", ".")
}

func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"BOOKING_FIRST_NAME", &cfg.UserInfo.FirstName},
		{"BOOKING_LAST_NAME", &cfg.UserInfo.LastName},
		{"BOOKING_EMAIL", &cfg.UserInfo.Email},
		{"BOOKING_PHONE", &cfg.UserInfo.Phone},
		{"BOOKING_USERNAME", &cfg.UserInfo.Username},
		{"BOOKING_PASSWORD", &cfg.UserInfo.Password},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
}

func (c Config) Validate() error {
	if len(c.Preferences.PreferredTimes) == 0 {
		return fmt.Errorf("preferences.preferred_times must not be empty")
	}
	for _, t := range c.Preferences.PreferredTimes {
		if _, err := time.Parse("15:04", t); err != nil {
			return fmt.Errorf("invalid preferred time %q (want HH:MM, 24h)", t)
		}
	}
	if c.Preferences.DaysAhead < 0 {
		return fmt.Errorf("preferences.days_ahead must be >= 0")
	}
	if c.Preferences.NumPlayers < 1 || c.Preferences.NumPlayers > 4 {
		return fmt.Errorf("preferences.num_players must be 1-4")
	}
	if c.Automation.CheckIntervalMinutes < 1 {
		return fmt.Errorf("automation.check_interval_minutes must be >= 1")
	}
	return nil
}
