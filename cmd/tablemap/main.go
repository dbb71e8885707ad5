// Copyright 2025 Tablemap Authors
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tablemap/tablemap"
	"github.com/tablemap/tablemap/ai"
	"github.com/tablemap/tablemap/ai/openai"
	"github.com/tablemap/tablemap/embedjob"
	"github.com/tablemap/tablemap/search"
	"github.com/tablemap/tablemap/server"
	"github.com/tablemap/tablemap/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "tablemap",
		Usage: "Semantic search over data catalog tables and columns",
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
				Usage:  "Run the catalog search HTTP server",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address",
						Value: ":8080",
					},
				}, aiFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search the catalog from the command line",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   search.DefaultLimit,
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Re-rank results with the rerank model",
						Value: true,
					},
				}, aiFlags()...),
			},
			{
				Name:   "embed",
				Usage:  "Precompute embeddings for catalog items missing them",
				Action: embedCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items to embed in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of batches embedded in parallel (0 = auto)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, aiFlags()...),
			},
			{
				Name:   "seed",
				Usage:  "Populate the catalog from a JSON file or the built-in sample schema",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "JSON file with catalog items (omit to seed the sample retail schema)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the flags shared by every command that talks to the
// embedding and rerank services.
func aiFlags() []cli.Flag {
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
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.StringFlag{
			Name:  "rerank-host",
			Usage: "Rerank service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "rerank-model",
			Usage: "Rerank model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "model-version",
			Usage: "Embedding model version tag (defaults to embedding-model)",
		},
		&cli.DurationFlag{
			Name:  "embed-timeout",
			Usage: "Timeout for query embedding calls",
			Value: 15 * time.Second,
		},
		&cli.DurationFlag{
			Name:  "rerank-timeout",
			Usage: "Timeout for rerank model calls",
			Value: 15 * time.Second,
		},
	}
}

// aiConfigFromFlags builds the AI configuration shared by serve, search
// and embed.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	rerankHost := c.String("rerank-host")
	if rerankHost == "" {
		rerankHost = c.String("embedding-host")
	}
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithRerankHost(rerankHost),
		ai.WithRerankModel(c.String("rerank-model")),
		ai.WithModelVersion(c.String("model-version")),
		ai.WithEmbedTimeout(c.Duration("embed-timeout")),
		ai.WithRerankTimeout(c.Duration("rerank-timeout")),
	)
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	catalog, err := tablemap.Open(ctx, c.String("db"), tablemap.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	// Build the first index generation before accepting traffic. A failure
	// here is not fatal: the server starts and reports index_unavailable
	// until a POST /reload succeeds.
	if err := catalog.ReloadIndex(ctx); err != nil {
		slog.Warn("initial index load failed, serving without index", "err", err)
	}

	searcher, err := catalog.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	srv := server.NewServer(c.String("addr"), searcher, catalog.IndexService())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	catalog, err := tablemap.Open(ctx, c.String("db"), tablemap.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()

	if err := catalog.ReloadIndex(ctx); err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	searcher, err := catalog.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	resp, err := searcher.Search(ctx, query, search.Options{
		Limit:  c.Int("limit"),
		Rerank: c.Bool("rerank"),
	})
	if err != nil {
		return err
	}

	switch resp.Status {
	case search.StatusEmptyIndex:
		fmt.Println("No catalog items are indexed. Run 'tablemap embed' first.")
		return nil
	case search.StatusUnavailable:
		fmt.Println("Index is not loaded.")
		return nil
	}

	for i, result := range resp.Results {
		item := result.Item
		fmt.Printf("%2d. [%.3f] %s (%s)\n", i+1, result.Score, item.QualifiedName(), item.ObjectType)
		if item.Description != "" {
			fmt.Printf("    %s\n", item.Description)
		}
	}
	return nil
}

func embedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewCatalogRepository(backend)
	defer repo.Close()

	aiConfig := aiConfigFromFlags(c)
	aiConfig.Normalize()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(ctx, aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	jobConfig := &embedjob.Config{
		BatchSize:      c.Int("batch-size"),
		Concurrency:    c.Int("concurrency"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if jobConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if jobConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if jobConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", aiConfig.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", aiConfig.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	job := embedjob.NewJob(repo, embedder, aiConfig.ModelVersion, jobConfig, os.Stderr)
	if err := job.Run(ctx); err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewCatalogRepository(backend)
	defer repo.Close()

	items := sampleCatalog()
	if path := c.String("file"); path != "" {
		items, err = loadCatalogFile(path)
		if err != nil {
			return err
		}
	}

	added, err := repo.AddItems(ctx, items...)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d catalog items. Run 'tablemap embed' to index them.\n", len(added))
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
