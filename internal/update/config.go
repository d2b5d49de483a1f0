package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	DatabasePath         string
	LogPath              string
	SweepIntervalMinutes int
	ToleranceMinutes     int
	DesktopNotifications bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:         defaultDatabasePath(),
		LogPath:              "",
		SweepIntervalMinutes: 15,
		ToleranceMinutes:     15,
		DesktopNotifications: true,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TASKPING_DB_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKPING_LOG_PATH")); v != "" {
		cfg.LogPath = v
	}
	if v, ok := getEnvInt("TASKPING_SWEEP_INTERVAL_MINUTES"); ok && v > 0 {
		cfg.SweepIntervalMinutes = v
	}
	if v, ok := getEnvInt("TASKPING_TOLERANCE_MINUTES"); ok && v > 0 {
		cfg.ToleranceMinutes = v
	}
	if v, ok := getEnvBool("TASKPING_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	return cfg
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskping.db"
	}
	return filepath.Join(dir, "taskping", "taskping.db")
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
