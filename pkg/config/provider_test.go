package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleYAML = `
ephemeris:
  mode: high-precision
  data_path: /usr/share/vsop87
storage:
  sqlite:
    path: /var/lib/natalchart/charts.db
controllers:
  - type: rest
    rest:
      port: 9090
logging:
  file: /var/log/natalchart.log
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestYAMLProviderLoadConfig(t *testing.T) {
	p := NewYAMLProvider(writeFile(t, sampleYAML))
	defer p.Close()

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ephemeris.Mode != "high-precision" || cfg.Ephemeris.DataPath != "/usr/share/vsop87" {
		t.Errorf("unexpected ephemeris config: %+v", cfg.Ephemeris)
	}
	if cfg.Storage.SQLite == nil || cfg.Storage.SQLite.Path != "/var/lib/natalchart/charts.db" {
		t.Errorf("unexpected storage config: %+v", cfg.Storage)
	}
	if len(cfg.Controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(cfg.Controllers))
	}
	rest := cfg.Controllers[0].RESTServer
	if rest.Port != 9090 || rest.ListenAddr != DefaultListenAddr {
		t.Errorf("unexpected rest config: %+v", rest)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB || cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Errorf("logging defaults not applied: %+v", cfg.Logging)
	}
	if !p.IsReadOnly() {
		t.Errorf("YAML provider should be read-only")
	}

	storage, err := p.GetStorageConfig()
	if err != nil || storage.SQLite == nil {
		t.Errorf("GetStorageConfig() = %+v, %v", storage, err)
	}
}

func TestYAMLProviderDefaults(t *testing.T) {
	p := NewYAMLProvider(writeFile(t, "controllers:\n  - type: rest\n"))

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ephemeris.Mode != DefaultEphemerisMode {
		t.Errorf("Mode = %q, expected %q", cfg.Ephemeris.Mode, DefaultEphemerisMode)
	}
	if cfg.Storage.SQLite != nil || cfg.Storage.TimescaleDB != nil {
		t.Errorf("expected no storage backend")
	}
	rest := cfg.Controllers[0].RESTServer
	if rest == nil || rest.Port != DefaultRESTPort || rest.ListenAddr != DefaultListenAddr {
		t.Errorf("unexpected rest defaults: %+v", rest)
	}
}

func TestYAMLProviderInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad mode", "ephemeris:\n  mode: exact\n", "invalid ephemeris mode"},
		{"high precision without data", "ephemeris:\n  mode: high-precision\n", "requires data_path"},
		{"two backends", "storage:\n  sqlite:\n    path: a.db\n  timescaledb:\n    connection_string: postgres://x\n", "at most one"},
		{"unknown controller", "controllers:\n  - type: grpc\n", "unknown type"},
		{"bad port", "controllers:\n  - type: rest\n    rest:\n      port: 70000\n", "out of range"},
		{"malformed yaml", "ephemeris: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLProvider(writeFile(t, tt.content)).LoadConfig()
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestYAMLProviderMissingFile(t *testing.T) {
	if _, err := NewYAMLProvider(filepath.Join(t.TempDir(), "missing.yaml")).GetEphemerisConfig(); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestSQLiteProvider(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	settings := map[string]string{
		SettingEphemerisMode:     "approximate",
		SettingTimescaleConn:     "postgres://natal@localhost/charts",
		SettingLogFile:           "/tmp/natal.log",
		SettingLogMaxSizeMB:      "10",
		SettingEphemerisDataPath: "",
	}
	for k, v := range settings {
		if err := p.SetSetting(k, v); err != nil {
			t.Fatalf("SetSetting(%s): %v", k, err)
		}
	}
	// Overwrite keeps one row per key
	if err := p.SetSetting(SettingEphemerisMode, "auto"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := p.AddController(ControllerData{Type: ControllerTypeREST, RESTServer: &RESTServerData{Port: 8181}}); err != nil {
		t.Fatalf("AddController: %v", err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Ephemeris.Mode != "auto" {
		t.Errorf("Mode = %q, expected auto", cfg.Ephemeris.Mode)
	}
	if cfg.Storage.TimescaleDB == nil || cfg.Storage.TimescaleDB.ConnectionString != "postgres://natal@localhost/charts" {
		t.Errorf("unexpected storage: %+v", cfg.Storage)
	}
	if len(cfg.Controllers) != 1 || cfg.Controllers[0].RESTServer.Port != 8181 || cfg.Controllers[0].RESTServer.ListenAddr != DefaultListenAddr {
		t.Errorf("unexpected controllers: %+v", cfg.Controllers)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != DefaultLogMaxBackups {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
	if p.IsReadOnly() {
		t.Errorf("SQLite provider should be writable")
	}
}

func TestSQLiteProviderInvalidNumber(t *testing.T) {
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	if err := p.SetSetting(SettingLogMaxBackups, "many"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if _, err := p.LoadConfig(); err == nil {
		t.Errorf("expected error for non-numeric setting")
	}
}

func TestSQLiteProviderSaveConfig(t *testing.T) {
	yamlCfg, err := NewYAMLProvider(writeFile(t, sampleYAML)).LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()

	// Rows from an earlier save are replaced
	if err := p.AddController(ControllerData{Type: ControllerTypeREST}); err != nil {
		t.Fatalf("AddController: %v", err)
	}
	if err := p.SetSetting(SettingTimescaleConn, "postgres://old"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}

	if err := p.SaveConfig(yamlCfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	sqliteCfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(yamlCfg, sqliteCfg) {
		t.Errorf("round trip differs:\nyaml:   %+v\nsqlite: %+v", yamlCfg, sqliteCfg)
	}

	bad := *yamlCfg
	bad.Ephemeris.Mode = "exact"
	if err := p.SaveConfig(&bad); err == nil {
		t.Errorf("expected validation error")
	}
}
