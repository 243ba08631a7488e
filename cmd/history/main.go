package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/STTM-NSU/currency-converter/internal/config"
	"github.com/STTM-NSU/currency-converter/internal/history"
	"github.com/STTM-NSU/currency-converter/internal/logger"
	"github.com/STTM-NSU/currency-converter/internal/postgres"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

const _failedMessage = "Failed to load conversion history!"

func main() {
	os.Exit(run())
}

func run() int {
	limit := flag.Int("limit", 0, "number of conversions to show (default from config)")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Printf("%s: can't load config", err)
		return 1
	}
	if *limit <= 0 {
		*limit = cfg.History.Limit
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Printf("%s: can't parse log level", err)
		return 1
	}
	zapLogger, loggerSync, err := logger.NewZapLogger(level, cfg.Log.Output)
	if err != nil {
		log.Printf("%s: can't init logger", err)
		return 1
	}
	defer loggerSync()

	if envErr != nil {
		zapLogger.Debugf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pgConfig := postgres.NewConfigFromEnv().Setup()
	zapLogger.Debugf("trying to connect to db with: %s", pgConfig.Redacted())
	db, err := postgres.NewDB(ctx, pgConfig)
	if err != nil {
		zapLogger.Errorf("%s: can't connect to db", err)
		color.New(color.FgRed).Fprintln(os.Stderr, _failedMessage)
		return 1
	}
	defer db.Close()

	records, err := history.NewStore(db).Latest(ctx, *limit)
	if err != nil {
		zapLogger.Errorf("%s: can't load history", err)
		color.New(color.FgRed).Fprintln(os.Stderr, _failedMessage)
		return 1
	}

	if err := history.Print(os.Stdout, records); err != nil {
		zapLogger.Errorf("%s: can't print history", err)
		return 1
	}

	return 0
}
