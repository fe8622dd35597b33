package main

import (
	"errors"
	"fmt"
	"os"

	"groupdo/internal/board"
	"groupdo/internal/config"
	"groupdo/internal/logging"
	"groupdo/internal/storage"
	"groupdo/internal/timer"
	"groupdo/internal/ui"
)

func main() {
	configPath := config.ResolveConfigPath()
	firstLaunch := false
	if _, err := os.Stat(configPath); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Printf("failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	b, err := board.New(store, cfg.StorageKey, timer.TickerScheduler{}, logger)
	if err != nil {
		fmt.Printf("failed to load tasks: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	logger.Info("starting", "config", configPath, "db", cfg.DBPath)
	if err := ui.Run(b, cfg, firstLaunch); err != nil {
		logger.Error("program exited", "err", err)
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
