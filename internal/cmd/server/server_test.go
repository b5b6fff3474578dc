package server

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DatabasePath != "quadro.db" {
		t.Fatalf("db = %q, want %q", cfg.DatabasePath, "quadro.db")
	}
	if cfg.NotifyQueueSize != 64 {
		t.Fatalf("notify_queue = %d, want 64", cfg.NotifyQueueSize)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdown_timeout = %s, want %s", cfg.ShutdownTimeout, 10*time.Second)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("QUADRO_SERVER_PORT", "9000")
	t.Setenv("QUADRO_DB_PATH", "/var/lib/quadro/env.db")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-notify-queue", "128",
		"-shutdown-timeout", "30s",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001", cfg.Port)
	}
	if cfg.DatabasePath != "/var/lib/quadro/env.db" {
		t.Fatalf("db = %q, want %q", cfg.DatabasePath, "/var/lib/quadro/env.db")
	}
	if cfg.NotifyQueueSize != 128 {
		t.Fatalf("notify_queue = %d, want 128", cfg.NotifyQueueSize)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Fatalf("shutdown_timeout = %s, want %s", cfg.ShutdownTimeout, 30*time.Second)
	}
}
