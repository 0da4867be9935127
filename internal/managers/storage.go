package managers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chrissnell/natalchart/internal/storage"
	"github.com/chrissnell/natalchart/internal/storage/sqlite"
	"github.com/chrissnell/natalchart/internal/storage/timescaledb"
	"github.com/chrissnell/natalchart/pkg/config"
)

// HealthCheckInterval is how often the archive backend is pinged
const HealthCheckInterval = time.Minute

// StorageManager holds the active chart archive, if one is configured
type StorageManager struct {
	Store   storage.ChartStore
	Backend string
	Health  *storage.HealthManager
}

// NewStorageManager opens the configured archive backend and starts its
// health monitor. With no backend configured, Store is nil and charts are
// computed without being archived.
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, c config.StorageData, logger *zap.SugaredLogger) (*StorageManager, error) {
	s := &StorageManager{Health: storage.NewHealthManager()}

	var err error
	switch {
	case c.SQLite != nil:
		s.Backend = "sqlite"
		s.Store, err = sqlite.New(ctx, c.SQLite.Path, logger)
	case c.TimescaleDB != nil:
		s.Backend = "timescaledb"
		s.Store, err = timescaledb.New(ctx, c.TimescaleDB.ConnectionString, logger.Desugar())
	default:
		logger.Info("no chart archive configured; charts will not be stored")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not add %s storage backend: %w", s.Backend, err)
	}

	s.Health.Check(ctx, s.Backend, s.Store)
	s.Health.StartHealthMonitor(ctx, wg, s.Backend, s.Store, HealthCheckInterval, logger)
	logger.Infow("chart archive ready", "backend", s.Backend)

	return s, nil
}

// Close closes the archive backend
func (s *StorageManager) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
