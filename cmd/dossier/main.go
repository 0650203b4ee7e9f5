// Command dossier is the CLI entry point. It wires the storage,
// embedding and core service layers, then hands control to cobra.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/config/file"
	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/embedding/ollama"
	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/embedding/openai"
	"github.com/dossier-labs/dossier-cli/internal/adapters/driven/storage/sqlite"
	"github.com/dossier-labs/dossier-cli/internal/adapters/driving/cli"
	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/services"
	"github.com/dossier-labs/dossier-cli/internal/enrichment"
	"github.com/dossier-labs/dossier-cli/internal/logger"
	"github.com/dossier-labs/dossier-cli/internal/postprocessors/segmenter"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for API keys during development.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	embedder := buildEmbedder(configStore)
	if embedder != nil {
		defer embedder.Close()
	}

	seg, err := buildSegmenter(configStore)
	if err != nil {
		return fmt.Errorf("initializing segmenter: %w", err)
	}

	enricher := enrichment.New()

	docStore := store.DocumentStore()
	lexical := store.LexicalIndex()
	vectors := store.VectorIndex()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingest:   services.NewIngestService(docStore, lexical, vectors, embedder, seg, enricher),
		Search:   services.NewSearchService(docStore, lexical, vectors, embedder),
		Document: services.NewDocumentService(docStore, lexical, vectors),
		Stats:    services.NewStatsService(store.StatsStore()),
		Config:   configStore,
	})

	return cli.Execute()
}

// buildEmbedder constructs the configured embedding service, nil when
// none is configured. Ingestion and search both degrade gracefully
// without one.
func buildEmbedder(cfg driven.ConfigStore) driven.EmbeddingService {
	provider := cfg.GetString("embedding.provider")

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Warn("embedding.provider is openai but OPENAI_API_KEY is not set, semantic search disabled")
			return nil
		}
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
		if err != nil {
			logger.Warn("openai embedder unavailable: %v", err)
			return nil
		}
		return svc
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
	case "":
		return nil
	default:
		logger.Warn("unknown embedding provider %q, semantic search disabled", provider)
		return nil
	}
}

// buildSegmenter constructs the segmenter from the configured
// granularity preset.
func buildSegmenter(cfg driven.ConfigStore) (*segmenter.Segmenter, error) {
	g := domain.GranularityStandard
	if name := cfg.GetString("ingest.granularity"); name != "" {
		g = domain.Granularity(name)
	}

	params, err := g.Params()
	if err != nil {
		logger.Warn("unknown granularity %q, falling back to standard", g)
		params, _ = domain.GranularityStandard.Params()
	}

	return segmenter.New(
		segmenter.WithChunkSize(params.ChunkSize),
		segmenter.WithOverlap(params.Overlap),
	)
}
