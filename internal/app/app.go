// Package app wires configuration, the ephemeris, the chart archive and the
// controllers into a running service.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/internal/controllers/restserver"
	"github.com/chrissnell/natalchart/internal/log"
	"github.com/chrissnell/natalchart/internal/managers"
	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/config"
	"github.com/chrissnell/natalchart/pkg/ephemeris"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pref, err := ephemeris.ParsePreference(a.cfg.Ephemeris.Mode)
	if err != nil {
		return err
	}
	selection, err := ephemeris.Select(ephemeris.Options{
		Preference: pref,
		DataPath:   a.cfg.Ephemeris.DataPath,
	}, log.Component("ephemeris"))
	if err != nil {
		return err
	}
	a.logger.Infow("ephemeris selected", "mode", selection.Mode().String(), "house_system", selection.HouseSystem())

	assembler, err := chart.NewAssembler(selection, log.Component("chart"))
	if err != nil {
		return err
	}

	storageManager, err := managers.NewStorageManager(ctx, &wg, a.cfg.Storage, log.Component("storage"))
	if err != nil {
		return err
	}

	deps := restserver.Dependencies{
		Assembler: assembler,
		Selection: selection,
		Store:     storageManager.Store,
	}
	if storageManager.Store != nil {
		deps.Health = storageManager.Health
	}

	cm, err := managers.NewControllerManager(ctx, &wg, a.cfg.Controllers, deps, a.logger)
	if err != nil {
		storageManager.Close()
		return err
	}
	if err := cm.StartControllers(); err != nil {
		storageManager.Close()
		return err
	}

	log.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()

	if err := storageManager.Close(); err != nil {
		log.Errorw("error closing chart archive", "error", err)
	}
	log.Info("shutdown complete")

	return nil
}
