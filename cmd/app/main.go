package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"PulseBoard/internal/di"
	"PulseBoard/internal/domain/models"
	"PulseBoard/internal/usecase"
	"PulseBoard/pkg/config"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:     "pulseboard",
		HelpName: "pulseboard",
		Usage:    "Crypto metrics dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
				Value:   "config/config.yaml",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Poll the backend and serve the dashboard over HTTP",
				Action: serve,
			},
			{
				Name:  "render",
				Usage: "Fetch once, draw the chart to a PNG file and print the table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "asset",
						Aliases: []string{"a"},
						Usage:   "eg. BTC (default: first asset in the table)",
					},
					&cli.StringFlag{
						Name:    "resolution",
						Aliases: []string{"r"},
						Usage:   "second, minute, hour or day (default from config)",
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "eg. ./chart.png",
						Value:   "chart.png",
					},
				},
				Action: render,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithEnv(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	// Run application (blocks until signal)
	return app.Run()
}

func render(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	dash, cleanup, err := di.InitializeDashboard(cfg)
	if err != nil {
		return fmt.Errorf("dashboard initialization failed: %w", err)
	}
	defer cleanup()

	ctx := c.Context
	if r := c.String("resolution"); r != "" {
		if !models.IsValidResolution(models.Resolution(r)) {
			return fmt.Errorf("unknown resolution %q", r)
		}
		// No asset is selected yet, so this only records the resolution.
		if _, err := dash.SelectResolution(ctx, models.Resolution(r)); err != nil {
			return err
		}
	}

	if err := dash.RefreshTable(ctx); err != nil {
		return err
	}

	if a := c.String("asset"); a != "" && a != dash.View().Selection.Asset {
		if _, err := dash.SelectAsset(ctx, a); err != nil {
			return err
		}
	}

	view := dash.View()
	printTable(c.App.Writer, view)

	png, err := dash.Frame(ctx, usecase.FrameChart)
	if err != nil {
		return fmt.Errorf("no chart drawn for %s (%s): %w", view.Selection.Asset, view.Selection.Resolution, err)
	}
	if err := os.WriteFile(c.String("out"), png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "\n%s (%s): %d points, last %s -> %s\n",
		view.Selection.Asset, view.Selection.Resolution, view.KPIs.Points, view.KPIs.LastPrice, c.String("out"))
	return nil
}

func printTable(w io.Writer, view usecase.DashboardView) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Crypto", "Price", "High 1H", "Low 1H", "Avg 1H", "Vol 1H", "% 24H", "Signal"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range view.Rows {
		table.Append([]string{
			r.Asset, r.Price, r.High, r.Low, r.Average, r.Volatility, r.PctText, r.Signal,
		})
	}
	table.Render()
}
