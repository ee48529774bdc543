package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"sighting-intake-service/internal/adapters/repositories"
	"sighting-intake-service/internal/config"
	"sighting-intake-service/internal/logging"
	"sighting-intake-service/internal/ports"
)

// storeOpener is swapped in tests.
var storeOpener = func(ctx context.Context) (ports.SightingRepository, io.Closer, string, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, nil, "", err
	}
	repo, closer, err := repositories.Open(ctx, *cfg)
	if err != nil {
		return nil, nil, "", err
	}
	return repo, closer, cfg.Driver, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "storetool",
		Usage: "Manage the sighting backing store selected by STORE_DRIVER",
		Commands: []*cli.Command{
			initCmd(),
			importCmd(),
			exportCmd(),
		},
	}
}

func withStore(ctx context.Context, fn func(repo ports.SightingRepository, driver string) error) error {
	repo, closer, driver, err := storeOpener(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logging.Error().Err(err).Msg("close store")
		}
	}()
	return fn(repo, driver)
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the data file or schema for the configured store",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withStore(ctx, func(_ ports.SightingRepository, driver string) error {
				logging.Info().Str("store", driver).Msg("Store ready.")
				return nil
			})
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Append every record of a JSON array file to the configured store",
		ArgsUsage: "<file.json>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("import: a JSON file argument is required")
			}

			return withStore(ctx, func(repo ports.SightingRepository, driver string) error {
				n, err := repositories.ImportJSON(ctx, repo, path)
				if err != nil {
					return err
				}
				logging.Info().Str("store", driver).Str("file", path).Int("records", n).Msg("Import complete.")
				return nil
			})
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write every stored record as a JSON array",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "output file (default stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withStore(ctx, func(repo ports.SightingRepository, driver string) error {
				sightings, err := repo.List(ctx)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}

				compact, err := json.MarshalWithOption(sightings, json.DisableHTMLEscape())
				if err != nil {
					return fmt.Errorf("export: encode: %w", err)
				}
				var out bytes.Buffer
				if err := json.Indent(&out, compact, "", "  "); err != nil {
					return fmt.Errorf("export: indent: %w", err)
				}
				out.WriteByte('\n')

				if path := cmd.String("out"); path != "" {
					if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
						return fmt.Errorf("export: write %q: %w", path, err)
					}
					logging.Info().Str("store", driver).Str("file", path).Int("records", len(sightings)).Msg("Export complete.")
					return nil
				}

				_, err = cmd.Root().Writer.Write(out.Bytes())
				return err
			})
		},
	}
}
