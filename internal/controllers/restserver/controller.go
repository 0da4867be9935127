// Package restserver serves chart computation and the chart archive over HTTP.
package restserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/internal/log"
	"github.com/chrissnell/natalchart/internal/storage"
	"github.com/chrissnell/natalchart/pkg/chart"
	"github.com/chrissnell/natalchart/pkg/config"
	"github.com/chrissnell/natalchart/pkg/ephemeris"
)

// Dependencies are the services the REST server exposes. Store and Health
// are nil when no archive is configured.
type Dependencies struct {
	Assembler *chart.Assembler
	Selection ephemeris.Selection
	Store     storage.ChartStore
	Health    *storage.HealthManager
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	deps       Dependencies
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, deps Dependencies, logger *zap.SugaredLogger) (*Controller, error) {
	if deps.Assembler == nil {
		return nil, fmt.Errorf("REST server requires a chart assembler")
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = config.DefaultListenAddr
	}
	if rc.Port == 0 {
		logger.Infof("rest.port not provided; defaulting to %d", config.DefaultRESTPort)
		rc.Port = config.DefaultRESTPort
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		deps:       deps,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = net.JoinHostPort(rc.ListenAddr, strconv.Itoa(rc.Port))
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	c.logger.Infow("starting REST server controller", "addr", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		c.logger.Info("shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() http.Handler {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware(c.logger))

	router.HandleFunc("/chart", c.handlers.ComputeChart).Methods(http.MethodPost)
	router.HandleFunc("/chart/{id}", c.handlers.GetChart).Methods(http.MethodGet)
	router.HandleFunc("/charts", c.handlers.ListCharts).Methods(http.MethodGet)
	router.HandleFunc("/ephemeris", c.handlers.GetEphemeris).Methods(http.MethodGet)
	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(c.logger.Desugar())),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(handlers.CompressHandler(router))
}
