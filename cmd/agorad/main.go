package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agorachain/config"
	"agorachain/core/state"
	"agorachain/native/social"
	"agorachain/observability/logging"
	"agorachain/rpc"
	mintsvc "agorachain/services/mint"
	"agorachain/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logging.Setup("agorad", "")
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.Setup("agorad", cfg.Env)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	manager, err := state.NewManager(db)
	if err != nil {
		logger.Error("Failed to initialise state manager", slog.Any("error", err))
		os.Exit(1)
	}

	engine := social.NewEngine(manager)
	engine.SetRootAccounts(cfg.RootAccounts)

	pricePerByte, err := cfg.PricePerByteAmount()
	if err != nil {
		logger.Error("Invalid storage price", slog.Any("error", err))
		os.Exit(1)
	}
	engine.SetPricePerByte(pricePerByte)

	chestCost, err := cfg.MessageChestCostAmount()
	if err != nil {
		logger.Error("Invalid message chest cost", slog.Any("error", err))
		os.Exit(1)
	}
	engine.SetMessageChestCost(chestCost)

	if err := engine.Initialize(cfg.Owner); err != nil {
		logger.Error("Failed to seed state", slog.Any("error", err))
		os.Exit(1)
	}

	var settler rpc.MintSettler
	if cfg.MintServiceURL != "" {
		client, err := mintsvc.NewClient(mintsvc.Config{BaseURL: cfg.MintServiceURL})
		if err != nil {
			logger.Error("Failed to configure mint client", slog.Any("error", err))
			os.Exit(1)
		}
		settler = mintsvc.NewDispatcher(engine, client, cfg.Owner, logger)
		logger.Info("Mint backend configured", slog.String("url", cfg.MintServiceURL))
	}

	server := rpc.New(rpc.Config{Engine: engine, Settler: settler, Logger: logger})
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Query server listening",
			slog.String("address", cfg.ListenAddress),
			slog.String("network", cfg.NetworkName))
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Query server failed", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown incomplete", slog.Any("error", err))
	}
}
