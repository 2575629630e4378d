// Package seed parses seed tool flags and runs the roster seeder.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/louisbranch/grimoire.space/internal/platform/cmd"
	archivesqlite "github.com/louisbranch/grimoire.space/internal/services/archive/storage/sqlite"
	"github.com/louisbranch/grimoire.space/internal/tools/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"GRIMOIRE_SPACE_ARCHIVE_DB_PATH"`
	Verbose bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "archive sqlite database path")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "archive.db")
	}
	return cfg, nil
}

// Run executes the seed command against the configured database.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := archivesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open archive sqlite store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	return seed.Run(ctx, store, seed.Config{Verbose: cfg.Verbose}, out)
}
