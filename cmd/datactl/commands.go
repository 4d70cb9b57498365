package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/bloodsync/bloodsync/internal/config"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/storage"
	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/urfave/cli/v2"
)

var initCommand = &cli.Command{
	Name:  "init",
	Usage: "Create an empty data file if none exists",
	Action: func(c *cli.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		path := c.String("data-file")
		if path == "" {
			path = cfg.Storage.DataFile
		}
		if _, err := os.Stat(path); err == nil {
			logger.Infof("%s already exists; leaving it untouched", path)
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		store, closeFn, err := openStore(c.Context, cfg, config.BackendFile, path)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := store.Replace(c.Context, document.New()); err != nil {
			return err
		}
		logger.Infof("created %s", path)
		return nil
	},
}

var statsCommand = &cli.Command{
	Name:  "stats",
	Usage: "Print record counts per collection",
	Action: func(c *cli.Context) error {
		store, closeFn, err := selectedStore(c)
		if err != nil {
			return err
		}
		defer closeFn()
		d, err := store.Snapshot(c.Context)
		if err != nil {
			return err
		}
		printCounts(d)
		return nil
	},
}

var copyCommand = &cli.Command{
	Name:  "copy",
	Usage: "Copy the whole document from one backend to another",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "source backend (file, mongo)", Required: true},
		&cli.StringFlag{Name: "to", Usage: "destination backend (file, mongo)", Required: true},
	},
	Action: func(c *cli.Context) error {
		from, to := c.String("from"), c.String("to")
		if from == to {
			return fmt.Errorf("source and destination are both %q", from)
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		src, closeSrc, err := openStore(c.Context, cfg, from, c.String("data-file"))
		if err != nil {
			return fmt.Errorf("open %s: %w", from, err)
		}
		defer closeSrc()
		dst, closeDst, err := openStore(c.Context, cfg, to, c.String("data-file"))
		if err != nil {
			return fmt.Errorf("open %s: %w", to, err)
		}
		defer closeDst()

		d, err := src.Snapshot(c.Context)
		if err != nil {
			return err
		}
		if err := dst.Replace(c.Context, d); err != nil {
			return err
		}
		logger.Infof("copied document from %s to %s", from, to)
		printCounts(d)
		return nil
	},
}

var backupCommand = &cli.Command{
	Name:  "backup",
	Usage: "Upload the current document to MinIO",
	Action: func(c *cli.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		minio, err := storage.NewMinIOStorage(storage.MinIOConfigFrom(cfg.Backup))
		if err != nil {
			return err
		}
		store, closeFn, err := selectedStore(c)
		if err != nil {
			return err
		}
		defer closeFn()
		d, err := store.Snapshot(c.Context)
		if err != nil {
			return err
		}
		if err := minio.BackupDocument(c.Context, d, time.Now().UTC()); err != nil {
			return err
		}
		logger.Infof("uploaded snapshot to bucket %s", cfg.Backup.Bucket)
		return nil
	},
}

var restoreCommand = &cli.Command{
	Name:  "restore",
	Usage: "Replace the document with the latest MinIO snapshot",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Usage: "confirm overwriting the current document"},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			return fmt.Errorf("restore overwrites the current document; pass --yes to confirm")
		}
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		minio, err := storage.NewMinIOStorage(storage.MinIOConfigFrom(cfg.Backup))
		if err != nil {
			return err
		}
		d, err := minio.LatestDocument(c.Context)
		if err != nil {
			return fmt.Errorf("fetch latest snapshot: %w", err)
		}
		store, closeFn, err := selectedStore(c)
		if err != nil {
			return err
		}
		defer closeFn()
		if err := store.Replace(c.Context, d); err != nil {
			return err
		}
		printCounts(d)
		return nil
	},
}

func printCounts(d *document.Document) {
	counts := d.Counts()
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("%-20s %d\n", k, counts[k])
	}
}
