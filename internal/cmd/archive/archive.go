// Package archive parses archive service flags and launches the service.
package archive

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/grimoire.space/internal/platform/cmd"
	server "github.com/louisbranch/grimoire.space/internal/services/archive/app"
)

// Config holds archive command configuration.
type Config struct {
	Port int `env:"GRIMOIRE_SPACE_ARCHIVE_PORT" envDefault:"8080"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The archive HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the archive HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceArchive, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
