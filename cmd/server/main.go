package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resilinet/internal/api"
	"resilinet/internal/config"
	"resilinet/internal/dataset"
	"resilinet/internal/logging"
	"resilinet/internal/oracle"
	"resilinet/internal/recorder"
	"resilinet/internal/scheduler"
	"resilinet/internal/sim"
)

func main() {
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()
	log.Info("resilinet starting", zap.Int("port", cfg.Server.Port))

	seed := cfg.Dataset.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	var scorer oracle.Oracle
	switch cfg.Oracle.Mode {
	case "http":
		scorer = oracle.NewHTTP(cfg.Oracle.BaseURL, cfg.Oracle.APIKey, cfg.Oracle.Timeout)
	case "off":
		scorer = oracle.Noop{}
	default:
		scorer = oracle.Heuristic{}
	}
	log.Info("risk oracle selected", zap.String("oracle", scorer.Name()))

	engine := sim.New(sim.Params{
		Source:        dataset.NewAuto(cfg.Dataset.CSVPath, rng, log),
		Oracle:        scorer,
		Recorder:      rec,
		Logger:        log,
		Rand:          rng,
		SubsetSize:    cfg.Dataset.SubsetSize,
		OracleTimeout: cfg.Oracle.Timeout,
	})

	server := api.NewServer(engine, log)

	var pilot *scheduler.Autopilot
	if cfg.Autopilot.Enabled {
		pilot = scheduler.NewAutopilot(func(level float64) error {
			_, err := server.Step(level)
			return err
		}, cfg.Autopilot.PanicLevel, log)
		if err := pilot.Register(cfg.Autopilot.Cron); err != nil {
			log.Fatal("register autopilot", zap.Error(err))
		}
		pilot.Start()
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping")
	if pilot != nil {
		pilot.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	log.Info("resilinet stopped")
}
