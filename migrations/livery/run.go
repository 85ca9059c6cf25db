// Command livery-migrate applies the livery catalog schema.
//
//	go run ./migrations/livery            # up
//	go run ./migrations/livery -cmd down
package main

import (
	"context"
	"embed"
	"flag"
	"log/slog"
	"os"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	cmd := flag.String("cmd", migrator.CommandUp, "goose command: up, down or status")
	flag.Parse()
	os.Args = os.Args[:1] // conf.Parse reads os.Args

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := migrator.Run(context.Background(), cfg.DefinitionDatabaseURL, MigrationsFS, *cmd); err != nil {
		slog.Error("migration failed", "command", *cmd, "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied", "command", *cmd)
}
