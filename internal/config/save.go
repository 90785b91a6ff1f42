package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Auth.TokenTTLHours <= 0 {
		errs = append(errs, "auth.token_ttl_hours must be > 0")
	}
	if cfg.Auth.LoginsPerMinute <= 0 {
		errs = append(errs, "auth.logins_per_minute must be > 0")
	}
	if cfg.Auth.LoginBurst <= 0 {
		errs = append(errs, "auth.login_burst must be > 0")
	}
	if cfg.Reporting.StaleThresholdDays <= 0 {
		errs = append(errs, "reporting.stale_threshold_days must be > 0")
	}
	if cfg.Reporting.SweepHours <= 0 {
		errs = append(errs, "reporting.sweep_hours must be > 0")
	}
	if cfg.Reporting.SweepLimit <= 0 {
		errs = append(errs, "reporting.sweep_limit must be > 0")
	}
	if cfg.Limits.NotificationInbox <= 0 {
		errs = append(errs, "limits.notification_inbox must be > 0")
	}
	if cfg.Limits.AuditTrail <= 0 {
		errs = append(errs, "limits.audit_trail must be > 0")
	}
	if cfg.Limits.MaxPageSize <= 0 {
		errs = append(errs, "limits.max_page_size must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
