// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ideasurf "github.com/poiesic/ideasurf"
	"github.com/poiesic/ideasurf/ai"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/ratelimit"
	"github.com/poiesic/ideasurf/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ideasurf",
		Usage: "Startup and project discovery through similarity search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the search and scraper API server",
				Action: serveCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8000",
					},
					&cli.StringFlag{
						Name:    "redis-url",
						Usage:   "Redis URL for shared rate limiting (redis://...)",
						EnvVars: []string{"REDIS_URL"},
					},
				),
			},
			{
				Name:      "scrape",
				Usage:     "Scrape a source and ingest what it lists",
				ArgsUsage: "SOURCE [BATCH...]",
				Action:    scrapeCommand,
				Flags: append(databaseFlags(),
					&cli.BoolFlag{
						Name:  "no-headless",
						Usage: "Run the browser with a visible window",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search ingested projects from the command line",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(databaseFlags(),
					&cli.StringFlag{
						Name:  "sources",
						Usage: "Comma-separated source tags (yc, devpost, producthunt, topstartups)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Embedding service API key",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func openDatabase(c *cli.Context, opts ...ideasurf.DatabaseOption) (*ideasurf.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append(opts, ideasurf.WithAIConfig(aiConfig))
	db, err := ideasurf.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter
	if redisURL := c.String("redis-url"); redisURL != "" {
		redisLimiter, err := ratelimit.NewRedisLimiterFromURL(redisURL, ratelimit.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to connect rate limiter: %w", err)
		}
		defer redisLimiter.Close()
		limiter = redisLimiter
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.DefaultConfig())
	}

	srv := server.NewServer(searcher, db, limiter, server.WithAddr(c.String("addr")))

	// Shut down cleanly on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "err", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func scrapeCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("source argument is required")
	}
	source, err := core.ParseSource(c.Args().First())
	if err != nil {
		return fmt.Errorf("unknown source %q", c.Args().First())
	}
	batches := c.Args().Tail()
	if len(batches) == 0 {
		batches = []string{""}
	}

	db, err := openDatabase(c, ideasurf.WithHeadlessBrowser(!c.Bool("no-headless")))
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tallies, err := db.Scrape(ctx, source, batches)
	for i, tally := range tallies {
		fmt.Fprintf(os.Stderr, "Batch %q: %d pages, %d collected, %d inserted, %d duplicates, %d invalid, %d failures\n",
			batches[i], tally.Pages, tally.Collected, tally.Inserted, tally.Duplicates,
			tally.Invalid, tally.ItemFailures+tally.ProviderFailures+tally.StoreFailures)
	}
	return err
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("query argument is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	var sources []core.Source
	if raw := c.String("sources"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			source, err := core.ParseSource(part)
			if err != nil {
				return fmt.Errorf("unknown source %q", part)
			}
			sources = append(sources, source)
		}
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.Search(context.Background(), query, sources, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, result := range results {
		record := result.Record
		fmt.Printf("%.3f  %s  (%s)\n", result.Score, record.Name, record.Source)
		if desc := core.StringValue(record.ShortDescription); desc != "" {
			fmt.Printf("       %s\n", desc)
		}
		fmt.Printf("       %s\n", record.CanonicalURL)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
