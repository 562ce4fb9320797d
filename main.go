package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"perpflow/config"
	"perpflow/exchange/hyperliquid"
	"perpflow/exchange/rest"
	"perpflow/internal/channel"
	"perpflow/internal/model"
	"perpflow/logger"
	"perpflow/monitor"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Perpflow.Name,
		"version": cfg.Perpflow.Version,
	}).Info("starting perpflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Enabled {
		logger.InitCloudWatch(
			cfg.Metrics.Region,
			cfg.Metrics.Namespace,
			cfg.Logging.DashboardName,
			cfg.Metrics.AccessKeyID,
			cfg.Metrics.SecretAccessKey,
		)
	}
	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}

	transport := rest.NewTransport(cfg)
	ex, err := hyperliquid.New(ctx, transport, hyperliquid.Options{
		TradingMode:           model.TradingMode(cfg.Exchange.TradingMode),
		MarginMode:            model.MarginMode(cfg.Exchange.MarginMode),
		StakeCurrency:         cfg.Exchange.StakeCurrency,
		Dexes:                 cfg.Exchange.Dexes,
		DryRun:                cfg.Exchange.DryRun,
		MaintenanceDeleverage: cfg.Exchange.MaintenanceDeleverage,
	})
	if err != nil {
		log.WithError(err).Error("failed to initialize exchange adapter")
		os.Exit(1)
	}

	channels := channel.NewChannels(cfg.Channels.OrderEventBuffer)
	defer channels.Close()

	go channels.StartMetricsReporting(ctx, 30*time.Second)

	var wg sync.WaitGroup

	if cfg.Exchange.Stream.Enabled {
		stream := rest.NewStream(cfg, channels)
		wg.Add(1)
		go func() {
			defer wg.Done()
			stream.Run(ctx)
		}()
	} else {
		log.WithComponent("main").Info("order stream disabled; orders resolve on snapshot only")
	}

	mon := monitor.New(ex, channels, cfg.Monitor)
	wg.Add(1)
	go func() {
		defer wg.Done()
		mon.Run(ctx)
	}()

	log.Info("all components started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")

	log.Info("starting graceful shutdown")
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("graceful shutdown completed")
	case <-time.After(30 * time.Second):
		log.Warn("graceful shutdown timeout exceeded")
	}

	log.Info("perpflow stopped")
}
