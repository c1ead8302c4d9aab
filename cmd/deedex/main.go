// Command deedex indexes and searches real-estate transaction documents.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/parcelworks/deedex-cli/internal/adapters/driven/config/file"
	"github.com/parcelworks/deedex-cli/internal/adapters/driven/embedding/local"
	"github.com/parcelworks/deedex-cli/internal/adapters/driven/llm/anthropic"
	"github.com/parcelworks/deedex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/parcelworks/deedex-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/parcelworks/deedex-cli/internal/adapters/driving/cli"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
	"github.com/parcelworks/deedex-cli/internal/core/services"
	"github.com/parcelworks/deedex-cli/internal/logger"
	"github.com/parcelworks/deedex-cli/internal/normalisers"
	"github.com/parcelworks/deedex-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore(os.Getenv("DEEDEX_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	promptStore, err := file.NewPromptStore(cfg.GetString("prompts.dir"))
	if err != nil {
		return fmt.Errorf("create prompt store: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	embedder := local.NewEmbeddingService(local.Config{})
	defer embedder.Close()

	vectorIndex := memory.NewIndex()
	defer vectorIndex.Close()
	if err := warmIndex(store, vectorIndex); err != nil {
		return fmt.Errorf("warm vector index: %w", err)
	}

	llm := buildLLM(cfg, promptStore)
	if llm != nil {
		defer llm.Close()
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	indexer := services.NewIndexerService(
		normalisers.DefaultRegistry(),
		pipeline,
		embedder,
		store,
		vectorIndex,
		llm,
	)

	search := services.NewSearchService(store, vectorIndex, embedder, llm)
	search.SetPromptStore(promptStore)

	document := services.NewDocumentService(store, vectorIndex)

	cli.SetVersion(version)
	cli.SetServices(indexer, search, document)
	cli.SetConfigStore(cfg)

	return cli.Execute()
}

// warmIndex loads all stored chunk embeddings into the in-memory index.
func warmIndex(store driven.DocumentStore, index driven.VectorIndex) error {
	ctx := context.Background()

	chunks, err := store.AllChunks(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for i := range chunks {
		if chunks[i].Embedding == nil {
			continue
		}
		if err := index.Add(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return err
		}
		loaded++
	}

	logger.Debug("Warmed vector index with %d chunks", loaded)
	return nil
}

// buildLLM creates the Anthropic service when an API key is configured.
// Returns nil otherwise: indexing and search degrade gracefully.
func buildLLM(cfg *file.ConfigStore, promptStore driven.PromptStore) driven.LLMService {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("llm.api_key")
	}
	if apiKey == "" {
		logger.Debug("No Anthropic API key configured, LLM features disabled")
		return nil
	}

	llm, err := anthropic.NewLLMService(anthropic.Config{
		APIKey:            apiKey,
		Model:             cfg.GetString("llm.model"),
		RequestsPerMinute: cfg.GetInt("llm.requests_per_minute"),
	})
	if err != nil {
		logger.Warn("Failed to create LLM service: %v", err)
		return nil
	}

	llm.SetPromptStore(promptStore)
	return llm
}

// buildPipeline constructs the chunking pipeline from configuration.
func buildPipeline(cfg *file.ConfigStore) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerCfg := map[string]any{}
	if size := cfg.GetInt("chunking.chunk_size"); size > 0 {
		chunkerCfg["chunk_size"] = size
	}
	if _, ok := cfg.Get("chunking.overlap"); ok {
		chunkerCfg["overlap"] = cfg.GetInt("chunking.overlap")
	}
	if max := cfg.GetInt("chunking.max_chunks"); max > 0 {
		chunkerCfg["max_chunks"] = max
	}
	if min := cfg.GetInt("chunking.min_chunk_len"); min > 0 {
		chunkerCfg["min_chunk_len"] = min
	}

	proc, err := registry.Build("chunker", chunkerCfg)
	if err != nil {
		return nil, err
	}

	return postprocessors.NewPipeline(proc), nil
}
