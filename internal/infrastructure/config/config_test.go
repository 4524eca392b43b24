package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Wordlist.Path != "wordlist.gtl" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Backup.Export.Format != "ndjson" || cfg.Backup.Export.Gzip {
		t.Fatalf("unexpected export defaults %+v", cfg.Backup.Export)
	}
	driver, err := cfg.DatabaseDriver()
	if err != nil || driver != "sqlite3" {
		t.Fatalf("unexpected driver %q (%v)", driver, err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "glostrainer.yaml")
	content := "wordlist:\n  path: veckans.gtl\ndatabase:\n  driver: postgresql\n  dsn: postgres://localhost/glos\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Wordlist.Path != "veckans.gtl" {
		t.Fatalf("unexpected wordlist path %q", cfg.Wordlist.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected env override, got %q", cfg.Log.Level)
	}
	if driver, _ := cfg.DatabaseDriver(); driver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", driver)
	}
	if dsn, _ := cfg.DatabaseURL(); dsn != "postgres://localhost/glos" {
		t.Fatalf("unexpected dsn %q", dsn)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestDatabaseDriver_Rejects(t *testing.T) {
	for _, driver := range []string{"", "mysql"} {
		cfg := &Config{Database: DatabaseConfig{Driver: driver}}
		if _, err := cfg.DatabaseDriver(); err == nil {
			t.Fatalf("expected error for driver %q", driver)
		}
	}
}
