package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/chrissnell/natalchart/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file (required)")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite database file (required)")
		force      = flag.Bool("force", false, "Overwrite existing SQLite database")
		dryRun     = flag.Bool("dry-run", false, "Show what would be done without executing")
		verify     = flag.Bool("verify", true, "Reload the SQLite database and compare it with the YAML source")
	)
	flag.Parse()

	if *yamlFile == "" || *sqliteFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <config.yaml> -sqlite <config.db>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	if _, err := os.Stat(*yamlFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: YAML file does not exist: %s\n", *yamlFile)
		os.Exit(1)
	}

	if _, err := os.Stat(*sqliteFile); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Error: SQLite file already exists: %s\n", *sqliteFile)
		fmt.Fprintf(os.Stderr, "Use -force to overwrite or choose a different filename\n")
		os.Exit(1)
	}

	fmt.Printf("Converting YAML configuration to SQLite...\n")
	fmt.Printf("  Source: %s\n", *yamlFile)
	fmt.Printf("  Target: %s\n", *sqliteFile)

	configData, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML configuration: %v\n", err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Println("DRY RUN - No changes will be made")
		printConfigSummary(configData)
		return
	}

	if *force {
		if err := os.Remove(*sqliteFile); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error removing existing SQLite file: %v\n", err)
			os.Exit(1)
		}
	}

	if err := convert(configData, *sqliteFile, *verify); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Conversion completed successfully!\n")
	fmt.Printf("You can now use the SQLite backend with: -config-backend sqlite -config %s\n", *sqliteFile)
}

// convert writes configData to a new SQLite database and, with verify set,
// reads it back and checks it matches
func convert(configData *config.ConfigData, dbPath string, verify bool) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	provider, err := config.NewSQLiteProvider(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite provider: %w", err)
	}
	defer provider.Close()

	fmt.Printf("  Inserting %d controllers...\n", len(configData.Controllers))
	if err := provider.SaveConfig(configData); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	if !verify {
		return nil
	}
	stored, err := provider.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	if !reflect.DeepEqual(configData, stored) {
		return fmt.Errorf("stored configuration differs from source:\n  yaml:   %+v\n  sqlite: %+v", configData, stored)
	}
	fmt.Println("  ✓ Stored configuration matches the YAML source")
	return nil
}

func printConfigSummary(configData *config.ConfigData) {
	fmt.Println("\nConfiguration Summary:")
	fmt.Printf("Ephemeris: %s", configData.Ephemeris.Mode)
	if configData.Ephemeris.DataPath != "" {
		fmt.Printf(" (data: %s)", configData.Ephemeris.DataPath)
	}
	fmt.Println()

	fmt.Printf("\nChart archive:\n")
	switch {
	case configData.Storage.SQLite != nil:
		fmt.Printf("  - SQLite: %s\n", configData.Storage.SQLite.Path)
	case configData.Storage.TimescaleDB != nil:
		fmt.Printf("  - TimescaleDB: %s\n", configData.Storage.TimescaleDB.ConnectionString)
	default:
		fmt.Printf("  - none\n")
	}

	fmt.Printf("\nControllers (%d):\n", len(configData.Controllers))
	for _, controller := range configData.Controllers {
		if controller.RESTServer != nil {
			fmt.Printf("  - %s on %s:%d\n", controller.Type, controller.RESTServer.ListenAddr, controller.RESTServer.Port)
		} else {
			fmt.Printf("  - %s\n", controller.Type)
		}
	}

	if configData.Logging.File != "" {
		fmt.Printf("\nLog file: %s (rotate at %d MB, keep %d)\n",
			configData.Logging.File, configData.Logging.MaxSizeMB, configData.Logging.MaxBackups)
	}
}
