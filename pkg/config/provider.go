// Package config loads natalchart configuration from a YAML file or a
// SQLite settings table behind one ConfigProvider interface.
package config

import "fmt"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration, with defaults applied
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetEphemerisConfig() (*EphemerisData, error)
	GetStorageConfig() (*StorageData, error)
	GetControllers() ([]ControllerData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Ephemeris   EphemerisData    `json:"ephemeris"`
	Storage     StorageData      `json:"storage,omitempty"`
	Controllers []ControllerData `json:"controllers,omitempty"`
	Logging     LoggingData      `json:"logging,omitempty"`
}

// EphemerisData selects the precision mode
type EphemerisData struct {
	Mode     string `json:"mode"`      // auto, high-precision or approximate
	DataPath string `json:"data_path"` // directory with VSOP87B.* files
}

// StorageData holds the configuration for the chart archive backends.
// Both nil means charts are not archived.
type StorageData struct {
	SQLite      *SQLiteData      `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

type SQLiteData struct {
	Path string `json:"path"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string"`
}

// ControllerData holds the configuration for one controller
type ControllerData struct {
	Type       string          `json:"type,omitempty"`
	RESTServer *RESTServerData `json:"rest,omitempty"`
}

type RESTServerData struct {
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// LoggingData configures optional file logging with rotation
type LoggingData struct {
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
}

// Defaults
const (
	DefaultEphemerisMode = "auto"
	DefaultListenAddr    = "0.0.0.0"
	DefaultRESTPort      = 8080
	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 5
)

// ControllerTypeREST is the only controller type
const ControllerTypeREST = "rest"

const validEphemerisModes = "auto, high-precision, approximate"

// ApplyDefaults fills in missing values
func (c *ConfigData) ApplyDefaults() {
	if c.Ephemeris.Mode == "" {
		c.Ephemeris.Mode = DefaultEphemerisMode
	}
	for i := range c.Controllers {
		ctl := &c.Controllers[i]
		if ctl.Type == ControllerTypeREST {
			if ctl.RESTServer == nil {
				ctl.RESTServer = &RESTServerData{}
			}
			if ctl.RESTServer.ListenAddr == "" {
				ctl.RESTServer.ListenAddr = DefaultListenAddr
			}
			if ctl.RESTServer.Port == 0 {
				ctl.RESTServer.Port = DefaultRESTPort
			}
		}
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB == 0 {
			c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
		}
		if c.Logging.MaxBackups == 0 {
			c.Logging.MaxBackups = DefaultLogMaxBackups
		}
	}
}

// Validate checks values that defaults cannot repair
func (c *ConfigData) Validate() error {
	switch c.Ephemeris.Mode {
	case "auto", "high-precision", "approximate":
	default:
		return fmt.Errorf("invalid ephemeris mode %q (valid: %s)", c.Ephemeris.Mode, validEphemerisModes)
	}
	if c.Ephemeris.Mode == "high-precision" && c.Ephemeris.DataPath == "" {
		return fmt.Errorf("ephemeris mode high-precision requires data_path")
	}
	if c.Storage.SQLite != nil && c.Storage.TimescaleDB != nil {
		return fmt.Errorf("configure at most one chart storage backend")
	}
	if c.Storage.SQLite != nil && c.Storage.SQLite.Path == "" {
		return fmt.Errorf("sqlite storage requires a path")
	}
	if c.Storage.TimescaleDB != nil && c.Storage.TimescaleDB.ConnectionString == "" {
		return fmt.Errorf("timescaledb storage requires a connection_string")
	}
	for i, ctl := range c.Controllers {
		if ctl.Type != ControllerTypeREST {
			return fmt.Errorf("controller %d: unknown type %q (valid: %s)", i, ctl.Type, ControllerTypeREST)
		}
		if ctl.RESTServer != nil && (ctl.RESTServer.Port < 1 || ctl.RESTServer.Port > 65535) {
			return fmt.Errorf("controller %d: port %d out of range", i, ctl.RESTServer.Port)
		}
	}
	return nil
}

// finish applies defaults and validates; shared by all providers
func finish(c *ConfigData) (*ConfigData, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
