package update

import "testing"

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("TASKPING_DB_PATH", "/tmp/ping.db")
	t.Setenv("TASKPING_LOG_PATH", "/tmp/ping.log")
	t.Setenv("TASKPING_SWEEP_INTERVAL_MINUTES", "5")
	t.Setenv("TASKPING_TOLERANCE_MINUTES", "10")
	t.Setenv("TASKPING_DESKTOP_NOTIFICATIONS", "off")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DatabasePath != "/tmp/ping.db" {
		t.Fatalf("unexpected db path: %q", cfg.DatabasePath)
	}
	if cfg.LogPath != "/tmp/ping.log" {
		t.Fatalf("unexpected log path: %q", cfg.LogPath)
	}
	if cfg.SweepIntervalMinutes != 5 || cfg.ToleranceMinutes != 10 {
		t.Fatalf("unexpected minutes: %+v", cfg)
	}
	if cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications disabled")
	}
}

func TestRuntimeConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("TASKPING_SWEEP_INTERVAL_MINUTES", "soon")
	t.Setenv("TASKPING_TOLERANCE_MINUTES", "-3")
	t.Setenv("TASKPING_DESKTOP_NOTIFICATIONS", "maybe")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.SweepIntervalMinutes != base.SweepIntervalMinutes {
		t.Fatalf("invalid interval should keep default, got %d", cfg.SweepIntervalMinutes)
	}
	if cfg.ToleranceMinutes != base.ToleranceMinutes {
		t.Fatalf("negative tolerance should keep default, got %d", cfg.ToleranceMinutes)
	}
	if cfg.DesktopNotifications != base.DesktopNotifications {
		t.Fatal("unparseable bool should keep default")
	}
}
