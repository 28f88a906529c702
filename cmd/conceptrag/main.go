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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	conceptrag "github.com/poiesic/conceptrag"
	"github.com/poiesic/conceptrag/ai"
	"github.com/poiesic/conceptrag/ai/openai"
	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/mcp"
	"github.com/poiesic/conceptrag/reembed"
	"github.com/poiesic/conceptrag/search"
	"github.com/poiesic/conceptrag/storage/badger"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
	embeddingFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}

	app := &cli.App{
		Name:  "conceptrag",
		Usage: "Concept-aware hybrid ranking engine",
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
				Usage:  "Serve the ranking engine as an MCP server on stdio",
				Action: serveCommand,
				Flags:  append([]cli.Flag{dbFlag}, embeddingFlags...),
			},
			{
				Name:      "index",
				Usage:     "Index a file of passages, one per line",
				ArgsUsage: "<file>",
				Action:    indexCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source path recorded on the indexed chunks (defaults to the file path)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of passages to embed in each batch",
						Value: 32,
					},
				}, embeddingFlags...),
			},
			{
				Name:      "search",
				Usage:     "Run a ranking query against the indexed corpus",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "type",
						Usage: "Ranking profile (document, passage, concept)",
						Value: "document",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Log per-result score breakdowns",
					},
				}, embeddingFlags...),
			},
			{
				Name:   "prewarm",
				Usage:  "Pre-fetch word senses for every known concept name",
				Action: prewarmCommand,
				Flags:  append([]cli.Flag{dbFlag}, embeddingFlags...),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every indexed chunk",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
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
				}, embeddingFlags...),
			},
			{
				Name:   "stats",
				Usage:  "Report cache sizes for the opened database",
				Action: statsCommand,
				Flags:  append([]cli.Flag{dbFlag}, embeddingFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase opens the database named by the --db flag with the embedding
// configuration from the command's flags.
func openDatabase(c *cli.Context) (*conceptrag.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	db, err := conceptrag.NewDatabase(c.String("db"), conceptrag.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	server, err := mcp.NewServer(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Serve(ctx)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	fileName := c.Args().First()
	if fileName == "" {
		return fmt.Errorf("file of passages is required")
	}

	source := c.String("source")
	if source == "" {
		source = fileName
	}

	passages, err := linesFromFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read passages: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	// Load the concept cache so passages get tagged
	if err := db.LoadCaches(ctx); err != nil {
		return fmt.Errorf("failed to load caches: %w", err)
	}

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	added, err := pipeline.Ingest(ctx, source, passages)
	if err != nil {
		return fmt.Errorf("indexing failed after %d chunks: %w", added, err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d passages from %s\n", added, fileName)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	searchType, err := parseSearchType(c.String("type"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.LoadCaches(ctx); err != nil {
		return fmt.Errorf("failed to load caches: %w", err)
	}

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query, c.Int("limit"), &search.SearchOptions{
		Type:  searchType,
		Debug: c.Bool("debug"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%s)[%0.3f]\n", i, hit.Text, hit.Source, hit.Score)
		if len(hit.MatchedConcepts) > 0 {
			fmt.Printf("   concepts: %s\n", strings.Join(hit.MatchedConcepts, ", "))
		}
	}
	return nil
}

func prewarmCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.PrewarmLexicon(ctx)
	if err != nil {
		return fmt.Errorf("prewarm failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Words: %d  cached: %d  fetched: %d  failed: %d\n",
		stats.Total, stats.Cached, stats.Fetched, stats.Failed)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	// Open the chunk store directly; reembedding doesn't need the caches.
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewChunkRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid embedding configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.LoadCaches(ctx); err != nil {
		return fmt.Errorf("failed to load caches: %w", err)
	}

	fmt.Printf("Concepts: %d\n", db.ConceptCache().Len())
	fmt.Printf("Lexicon entries: %d\n", db.LexicalCache().Len())

	categoryStats, err := db.CategoryCache().Stats()
	if err != nil {
		return err
	}
	fmt.Printf("Categories: %d (aliases %d, roots %d)\n",
		categoryStats.Categories, categoryStats.Aliases, categoryStats.Roots)
	return nil
}

func parseSearchType(name string) (core.SearchType, error) {
	switch strings.ToLower(name) {
	case "document":
		return core.SearchTypeDocument, nil
	case "passage":
		return core.SearchTypePassage, nil
	case "concept":
		return core.SearchTypeConcept, nil
	}
	return 0, fmt.Errorf("invalid search type %q: must be one of document, passage, concept", name)
}

// linesFromFile reads a file into a slice of lines.
func linesFromFile(fileName string) ([]string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
