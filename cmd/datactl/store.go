package main

import (
	"context"
	"fmt"

	"github.com/bloodsync/bloodsync/internal/config"
	"github.com/bloodsync/bloodsync/internal/database"
	"github.com/bloodsync/bloodsync/internal/document/service"
	"github.com/urfave/cli/v2"
)

// openStore builds a document service for backend. The returned close func
// releases any connection.
func openStore(ctx context.Context, cfg *config.Config, backend, dataFile string) (*service.Service, func(), error) {
	if dataFile == "" {
		dataFile = cfg.Storage.DataFile
	}
	switch backend {
	case config.BackendFile:
		return service.NewFileService(dataFile), func() {}, nil
	case config.BackendMongo:
		if cfg.MongoDB.URI == "" {
			return nil, nil, fmt.Errorf("MONGODB_URI is not set")
		}
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, nil, err
		}
		col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
		return service.NewMongoService(col), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("backend %q cannot be opened by datactl", backend)
	}
}

// selectedStore opens the backend chosen by the global flags.
func selectedStore(c *cli.Context) (*service.Service, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	backend := c.String("backend")
	if backend == "" {
		backend = cfg.Storage.Backend
	}
	return openStore(c.Context, cfg, backend, c.String("data-file"))
}
