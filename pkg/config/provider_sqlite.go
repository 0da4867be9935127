package config

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS controllers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	type        TEXT NOT NULL,
	listen_addr TEXT,
	port        INTEGER
);
`

// Setting keys stored in the settings table
const (
	SettingEphemerisMode     = "ephemeris.mode"
	SettingEphemerisDataPath = "ephemeris.data_path"
	SettingSQLitePath        = "storage.sqlite.path"
	SettingTimescaleConn     = "storage.timescaledb.connection_string"
	SettingLogFile           = "logging.file"
	SettingLogMaxSizeMB      = "logging.max_size_mb"
	SettingLogMaxBackups     = "logging.max_backups"
)

// SQLiteProvider implements ConfigProvider for a SQLite settings database
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider opens the database and creates the schema if needed
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create config schema: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from the database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	ephemeris, err := s.GetEphemerisConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load ephemeris config: %w", err)
	}
	config.Ephemeris = *ephemeris

	storage, err := s.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}
	config.Storage = *storage

	controllers, err := s.GetControllers()
	if err != nil {
		return nil, fmt.Errorf("failed to load controllers: %w", err)
	}
	config.Controllers = controllers

	settings, err := s.settings()
	if err != nil {
		return nil, err
	}
	config.Logging.File = settings[SettingLogFile]
	if config.Logging.MaxSizeMB, err = atoiOrZero(settings[SettingLogMaxSizeMB]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SettingLogMaxSizeMB, err)
	}
	if config.Logging.MaxBackups, err = atoiOrZero(settings[SettingLogMaxBackups]); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SettingLogMaxBackups, err)
	}

	return finish(config)
}

func (s *SQLiteProvider) settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

// GetEphemerisConfig returns the ephemeris settings
func (s *SQLiteProvider) GetEphemerisConfig() (*EphemerisData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, err
	}
	return &EphemerisData{
		Mode:     settings[SettingEphemerisMode],
		DataPath: settings[SettingEphemerisDataPath],
	}, nil
}

// GetStorageConfig returns the chart archive settings
func (s *SQLiteProvider) GetStorageConfig() (*StorageData, error) {
	settings, err := s.settings()
	if err != nil {
		return nil, err
	}

	storage := &StorageData{}
	if path, ok := settings[SettingSQLitePath]; ok {
		storage.SQLite = &SQLiteData{Path: path}
	}
	if conn, ok := settings[SettingTimescaleConn]; ok {
		storage.TimescaleDB = &TimescaleDBData{ConnectionString: conn}
	}
	return storage, nil
}

// GetControllers returns controller configurations from the database
func (s *SQLiteProvider) GetControllers() ([]ControllerData, error) {
	rows, err := s.db.Query(`SELECT type, listen_addr, port FROM controllers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query controllers: %w", err)
	}
	defer rows.Close()

	var controllers []ControllerData
	for rows.Next() {
		var ctlType string
		var listenAddr sql.NullString
		var port sql.NullInt64

		if err := rows.Scan(&ctlType, &listenAddr, &port); err != nil {
			return nil, fmt.Errorf("failed to scan controller row: %w", err)
		}

		ctl := ControllerData{Type: ctlType}
		if ctlType == ControllerTypeREST {
			ctl.RESTServer = &RESTServerData{}
			if listenAddr.Valid {
				ctl.RESTServer.ListenAddr = listenAddr.String
			}
			if port.Valid {
				ctl.RESTServer.Port = int(port.Int64)
			}
		}
		controllers = append(controllers, ctl)
	}

	return controllers, rows.Err()
}

// SetSetting writes one settings key
func (s *SQLiteProvider) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// AddController appends a controller row
func (s *SQLiteProvider) AddController(ctl ControllerData) error {
	listenAddr, port := controllerColumns(ctl)
	_, err := s.db.Exec(`INSERT INTO controllers (type, listen_addr, port) VALUES (?, ?, ?)`, ctl.Type, listenAddr, port)
	if err != nil {
		return fmt.Errorf("failed to insert controller: %w", err)
	}
	return nil
}

// SaveConfig replaces the stored configuration with c in one transaction
func (s *SQLiteProvider) SaveConfig(c *ConfigData) error {
	if err := c.Validate(); err != nil {
		return err
	}

	settings := map[string]string{
		SettingEphemerisMode: c.Ephemeris.Mode,
	}
	if c.Ephemeris.DataPath != "" {
		settings[SettingEphemerisDataPath] = c.Ephemeris.DataPath
	}
	if c.Storage.SQLite != nil {
		settings[SettingSQLitePath] = c.Storage.SQLite.Path
	}
	if c.Storage.TimescaleDB != nil {
		settings[SettingTimescaleConn] = c.Storage.TimescaleDB.ConnectionString
	}
	if c.Logging.File != "" {
		settings[SettingLogFile] = c.Logging.File
	}
	if c.Logging.MaxSizeMB != 0 {
		settings[SettingLogMaxSizeMB] = strconv.Itoa(c.Logging.MaxSizeMB)
	}
	if c.Logging.MaxBackups != 0 {
		settings[SettingLogMaxBackups] = strconv.Itoa(c.Logging.MaxBackups)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM settings`, `DELETE FROM controllers`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear configuration: %w", err)
		}
	}
	for key, value := range settings {
		if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to write setting %s: %w", key, err)
		}
	}
	for _, ctl := range c.Controllers {
		listenAddr, port := controllerColumns(ctl)
		if _, err := tx.Exec(`INSERT INTO controllers (type, listen_addr, port) VALUES (?, ?, ?)`, ctl.Type, listenAddr, port); err != nil {
			return fmt.Errorf("failed to insert controller: %w", err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false; settings can be written with SetSetting
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}

func controllerColumns(ctl ControllerData) (sql.NullString, sql.NullInt64) {
	var listenAddr sql.NullString
	var port sql.NullInt64
	if ctl.RESTServer != nil {
		listenAddr = sql.NullString{String: ctl.RESTServer.ListenAddr, Valid: ctl.RESTServer.ListenAddr != ""}
		port = sql.NullInt64{Int64: int64(ctl.RESTServer.Port), Valid: ctl.RESTServer.Port != 0}
	}
	return listenAddr, port
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
