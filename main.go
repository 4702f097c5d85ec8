package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"projectmap/api"
	"projectmap/config"
	"projectmap/models"
	"projectmap/services"
	"projectmap/storage"
	"projectmap/utils"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "projectmap",
		Usage: "Browse real-estate project records by province, district and investor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Value:   cfg.DatasetPath,
				Usage:   "Path to the JSON dataset",
				EnvVars: []string{"DATASET_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "Log level (debug, info)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(cfg),
			statsCommand(cfg),
			exportCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the viewer API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   cfg.HTTPAddr,
				Usage:   "Listen address",
				EnvVars: []string{"HTTP_ADDR"},
			},
		},
		Action: func(c *cli.Context) error {
			logger := utils.NewLogger(c.String("log-level"))
			logger.Info("=== Project map viewer starting ===")

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			dataset := services.NewDataset(storage.NewJSONSource(c.String("dataset")), cfg.LoadDelay, cfg.FacetTTL, logger)
			dataset.Start(ctx)

			server := api.NewServer(dataset, api.Options{
				AllowedOrigins: cfg.CORSOrigins,
				SessionTTL:     cfg.SessionTTL,
				View:           viewSettings(cfg),
			}, logger)
			return server.ListenAndServe(ctx, c.String("addr"))
		},
	}
}

func statsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print a summary of the dataset",
		Action: func(c *cli.Context) error {
			logger := utils.NewLogger(c.String("log-level"))
			result, err := loadProjects(c.Context, c.String("dataset"), logger)
			if err != nil {
				return err
			}
			reports := services.NewReportService(logger)
			reports.Print(os.Stdout, reports.Generate(result))
			return nil
		},
	}
}

func exportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the projects visible under a filter to CSV, and optionally the full set to PostgreSQL",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "province", Usage: "Province filter"},
			&cli.StringFlag{Name: "district", Usage: "District filter (requires --province)"},
			&cli.StringFlag{Name: "investor", Usage: "Investor filter"},
			&cli.IntFlag{Name: "min-projects", Usage: "Minimum projects per investor"},
			&cli.StringFlag{Name: "search", Usage: "Search term over name, province and district"},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   cfg.CSVOutputPath,
				Usage:   "CSV output path",
				EnvVars: []string{"CSV_OUTPUT_PATH"},
			},
			&cli.BoolFlag{Name: "postgres", Usage: "Also store the full normalized snapshot in PostgreSQL"},
		},
		Action: func(c *cli.Context) error {
			logger := utils.NewLogger(c.String("log-level"))
			result, err := loadProjects(c.Context, c.String("dataset"), logger)
			if err != nil {
				return err
			}
			catalog := services.NewCatalog(result, cfg.FacetTTL, logger)

			filters := models.FilterState{}
			changes := []models.FilterChange{
				{Key: models.FilterProvince, Value: c.String("province")},
				{Key: models.FilterDistrict, Value: c.String("district")},
				{Key: models.FilterInvestor, Value: c.String("investor")},
				{Key: models.FilterMinProjects, Value: c.Int("min-projects")},
			}
			for _, change := range changes {
				if filters, err = services.ApplyFilterChange(filters, change); err != nil {
					return err
				}
			}

			facets := catalog.InvestorFacets(filters.Province, filters.District)
			visible := services.VisibleProjects(catalog.Projects(), filters, facets)
			visible = services.Search(visible, c.String("search"), 0)

			csvWriter, err := storage.NewCSVWriter(c.String("out"))
			if err != nil {
				return err
			}
			defer csvWriter.Close()
			if err := csvWriter.Write(visible); err != nil {
				return err
			}
			logger.Info("Exported %d of %d projects to %s", len(visible), len(catalog.Projects()), c.String("out"))

			if !c.Bool("postgres") {
				return nil
			}
			retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}
			pgWriter, err := storage.NewPostgresWriter(c.Context, cfg.DSN(), retry)
			if err != nil {
				return err
			}
			defer pgWriter.Close()
			if err := pgWriter.WriteContext(c.Context, catalog.Projects()); err != nil {
				return err
			}
			stored, err := pgWriter.Count(c.Context)
			if err != nil {
				return err
			}
			logger.Info("Snapshot of %d projects stored in PostgreSQL (table: projects)", stored)
			return nil
		},
	}
}

// loadProjects reads and normalizes the dataset synchronously.
func loadProjects(ctx context.Context, path string, logger *utils.Logger) (services.NormalizeResult, error) {
	raw, err := storage.NewJSONSource(path).ReadRecords(ctx)
	if err != nil {
		return services.NormalizeResult{}, err
	}
	return services.NewNormalizer(logger).Normalize(raw), nil
}

func viewSettings(cfg *config.Config) services.ViewSettings {
	return services.ViewSettings{
		ListLimit: cfg.ListLimit,
		MapLimit:  cfg.MapLimit,
		DefaultView: models.Viewport{
			Lat:  cfg.MapCenterLat,
			Lng:  cfg.MapCenterLng,
			Zoom: cfg.MapZoom,
		},
		FocusZoom: cfg.FocusZoom,
	}
}
