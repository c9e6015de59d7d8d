package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
lanes = 8
sync_depth = 4
command_period = "500us"
bus_period = "2ms"
admin_addr = "127.0.0.1:7100"
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadAppConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Sequencer.Lanes != 8 {
		t.Fatalf("unexpected lanes: %d", cfg.Sequencer.Lanes)
	}
	if cfg.Sequencer.SyncDepth != 4 {
		t.Fatalf("unexpected sync depth: %d", cfg.Sequencer.SyncDepth)
	}
	if cfg.Sequencer.CommandPeriod != 500*time.Microsecond {
		t.Fatalf("unexpected command period: %v", cfg.Sequencer.CommandPeriod)
	}
	if cfg.Sequencer.BusPeriod != 2*time.Millisecond {
		t.Fatalf("unexpected bus period: %v", cfg.Sequencer.BusPeriod)
	}
	// undefined keys keep defaults
	if cfg.Sequencer.ResetPeriod != defaultAppConfig().Sequencer.ResetPeriod {
		t.Fatalf("reset period should keep default: %v", cfg.Sequencer.ResetPeriod)
	}
	if cfg.AdminAddr != "127.0.0.1:7100" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminAddr)
	}
}

func TestLoadAppConfigRejectsBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`command_period = "soon"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadAppConfig(path); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	if _, err := loadAppConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected load error for missing file")
	}
}
