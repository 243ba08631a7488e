package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/currency-converter/internal/awesomeapi"
	"github.com/STTM-NSU/currency-converter/internal/config"
	"github.com/STTM-NSU/currency-converter/internal/converter"
	"github.com/STTM-NSU/currency-converter/internal/history"
	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/menu"
	"github.com/STTM-NSU/currency-converter/internal/postgres"
	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(start())
}

func start() int {
	envErr := godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Printf("%s: can't load config", err)
		return exitFailure
	}

	zapLogger, loggerSync, err := newLogger(cfg.Log)
	if err != nil {
		log.Printf("%s: can't init logger", err)
		return exitFailure
	}
	defer loggerSync()

	if envErr != nil {
		zapLogger.Debugf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return run(ctx, cfg, zapLogger, menu.NewTerminalPrompter(), os.Stdout, os.Stderr)
}

func newLogger(cfg config.LogConfig) (*logger.ZapLogger, func(), error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: can't parse log level", err)
	}
	return logger.NewZapLogger(level, cfg.Output)
}

// run drives the menu and maps its outcome to the process exit code.
func run(ctx context.Context, cfg config.Config, l logger.Logger, prompter menu.Prompter, stdout, stderr io.Writer) int {
	client := awesomeapi.NewClient(awesomeapi.Config{
		Address:            cfg.API.Address,
		RateLimitPerMinute: cfg.API.RateLimitPerMinute,
		Timeout:            cfg.API.Timeout,
	}, l.With("component", "awesomeapi"))
	defer client.Close()

	service := converter.NewService(client)
	service = converter.NewLoggingService(l.With("component", "converter"), service)

	if cfg.History.Enabled {
		pgConfig := postgres.NewConfigFromEnv().Setup()
		l.Debugf("trying to connect to db with: %s", pgConfig.Redacted())
		db, err := postgres.NewDB(ctx, pgConfig)
		if err != nil {
			l.Warnf("%s: conversion history disabled", err)
		} else {
			defer db.Close()
			store := history.NewStore(db)
			if err := store.Migrate(ctx); err != nil {
				l.Warnf("%s: can't migrate history store", err)
			}
			service = history.NewRecordingService(store, l.With("component", "history"), service)
		}
	}

	m := menu.New(prompter, client, service, l.With("component", "menu"), stdout, stderr)
	if err := m.Run(ctx); err != nil {
		l.Errorf("%s: converter stopped", err)
		return exitFailure
	}

	return exitOK
}
