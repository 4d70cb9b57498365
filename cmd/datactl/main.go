// Command datactl inspects and moves the BloodSync data document between
// storage backends.
package main

import (
	"os"

	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	logger.Configure("console", "datactl")

	app := &cli.App{
		Name:  "datactl",
		Usage: "Maintenance tool for the BloodSync data document",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Storage backend to operate on (file, mongo); defaults to STORAGE_BACKEND",
			},
			&cli.StringFlag{
				Name:    "data-file",
				Aliases: []string{"f"},
				Usage:   "Data file path for the file backend; defaults to DATA_FILE",
			},
		},
		Commands: []*cli.Command{
			initCommand,
			statsCommand,
			copyCommand,
			backupCommand,
			restoreCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("datactl failed: %v", err)
	}
}
