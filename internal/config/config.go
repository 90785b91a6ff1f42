package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Auth struct {
		TokenTTLHours   int     `yaml:"token_ttl_hours" json:"token_ttl_hours"`
		LoginsPerMinute float64 `yaml:"logins_per_minute" json:"logins_per_minute"`
		LoginBurst      int     `yaml:"login_burst" json:"login_burst"`
	} `yaml:"auth" json:"auth"`

	Reporting struct {
		StaleThresholdDays int `yaml:"stale_threshold_days" json:"stale_threshold_days"`
		SweepHours         int `yaml:"sweep_hours" json:"sweep_hours"`
		SweepLimit         int `yaml:"sweep_limit" json:"sweep_limit"`
	} `yaml:"reporting" json:"reporting"`

	Limits struct {
		NotificationInbox int `yaml:"notification_inbox" json:"notification_inbox"`
		AuditTrail        int `yaml:"audit_trail" json:"audit_trail"`
		MaxPageSize       int `yaml:"max_page_size" json:"max_page_size"`
	} `yaml:"limits" json:"limits"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 5001
	cfg.App.DataDir = "."
	cfg.Auth.TokenTTLHours = 72
	cfg.Auth.LoginsPerMinute = 10
	cfg.Auth.LoginBurst = 5
	cfg.Reporting.StaleThresholdDays = 90
	cfg.Reporting.SweepHours = 24
	cfg.Reporting.SweepLimit = 15
	cfg.Limits.NotificationInbox = 25
	cfg.Limits.AuditTrail = 50
	cfg.Limits.MaxPageSize = 100
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
