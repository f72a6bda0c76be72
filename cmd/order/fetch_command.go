package main

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/senoni-research/vn2inventory/internal/config"
	"github.com/senoni-research/vn2inventory/internal/storage"
	"github.com/senoni-research/vn2inventory/pkg/logger"
)

func newFetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the week's input CSVs from object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix", Usage: "Object key prefix to fetch", Required: true},
			&cli.StringFlag{Name: "dest", Usage: "Destination directory (defaults to STORAGE_DATA_DIR)"},
		},
		Action: runFetch,
	}
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()

	dest := c.String("dest")
	if dest == "" {
		dest = cfg.Storage.DataDir
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		return fmt.Errorf("no objects under prefix %q", c.String("prefix"))
	}

	for _, obj := range objects {
		destPath := filepath.Join(dest, filepath.FromSlash(obj.Key))
		if err := client.DownloadObject(c.Context, obj.Key, destPath); err != nil {
			return err
		}
		logger.Log.Info().
			Str("key", obj.Key).
			Int64("size", obj.Size).
			Str("dest", destPath).
			Msg("downloaded")
	}
	return nil
}
