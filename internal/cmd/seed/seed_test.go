package seed

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("GRIMOIRE_SPACE_ARCHIVE_DB_PATH", "")

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath == "" {
		t.Fatal("expected default db path")
	}
	if cfg.Verbose {
		t.Fatal("expected verbose to default to false")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db", "custom/archive.db", "-v"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "custom/archive.db" {
		t.Fatalf("db path = %q, want custom/archive.db", cfg.DBPath)
	}
	if !cfg.Verbose {
		t.Fatal("expected verbose flag to be true")
	}
}
