package main

import (
	"path/filepath"
	"testing"

	"github.com/chrissnell/natalchart/pkg/config"
)

func TestConvert(t *testing.T) {
	cfg := &config.ConfigData{
		Ephemeris: config.EphemerisData{Mode: "approximate"},
		Storage:   config.StorageData{SQLite: &config.SQLiteData{Path: "/var/lib/natalchart/charts.db"}},
		Controllers: []config.ControllerData{
			{Type: config.ControllerTypeREST, RESTServer: &config.RESTServerData{ListenAddr: "127.0.0.1", Port: 8088}},
		},
	}

	dbPath := filepath.Join(t.TempDir(), "nested", "config.db")
	if err := convert(cfg, dbPath, true); err != nil {
		t.Fatalf("convert: %v", err)
	}

	p, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()
	stored, err := p.GetControllers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0].RESTServer.Port != 8088 {
		t.Errorf("unexpected controllers: %+v", stored)
	}
}

func TestConvertRejectsInvalidConfig(t *testing.T) {
	cfg := &config.ConfigData{Ephemeris: config.EphemerisData{Mode: "high-precision"}}
	if err := convert(cfg, filepath.Join(t.TempDir(), "config.db"), false); err == nil {
		t.Errorf("expected error for high-precision without data_path")
	}
}
