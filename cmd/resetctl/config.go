package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/resetctl/internal/sequencer"
)

const defaultAdminAddr = "127.0.0.1:7045"

type fileConfig struct {
	Lanes         int    `toml:"lanes"`
	SyncDepth     int    `toml:"sync_depth"`
	CommandPeriod string `toml:"command_period"`
	ResetPeriod   string `toml:"reset_period"`
	BusPeriod     string `toml:"bus_period"`
	AdminAddr     string `toml:"admin_addr"`
}

type appConfig struct {
	Sequencer sequencer.Config
	AdminAddr string
}

func defaultAppConfig() appConfig {
	return appConfig{
		Sequencer: sequencer.DefaultConfig(),
		AdminAddr: defaultAdminAddr,
	}
}

func loadAppConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return appConfig{}, fmt.Errorf("load resetctl config: %w", err)
	}

	if meta.IsDefined("lanes") {
		cfg.Sequencer.Lanes = raw.Lanes
	}

	if meta.IsDefined("sync_depth") {
		cfg.Sequencer.SyncDepth = raw.SyncDepth
	}

	if meta.IsDefined("command_period") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.CommandPeriod))
		if err != nil {
			return appConfig{}, fmt.Errorf("parse command_period: %w", err)
		}
		cfg.Sequencer.CommandPeriod = d
	}

	if meta.IsDefined("reset_period") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ResetPeriod))
		if err != nil {
			return appConfig{}, fmt.Errorf("parse reset_period: %w", err)
		}
		cfg.Sequencer.ResetPeriod = d
	}

	if meta.IsDefined("bus_period") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.BusPeriod))
		if err != nil {
			return appConfig{}, fmt.Errorf("parse bus_period: %w", err)
		}
		cfg.Sequencer.BusPeriod = d
	}

	if meta.IsDefined("admin_addr") {
		addr := strings.TrimSpace(raw.AdminAddr)
		if addr != "" {
			cfg.AdminAddr = addr
		}
	}

	return cfg, nil
}
