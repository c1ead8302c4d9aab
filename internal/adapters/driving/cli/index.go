package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index [file...]",
	Short: "Index documents into the local store",
	Long: `Extracts text from the given files, classifies them, splits them
into chunks and stores chunk embeddings for semantic search.

When an Anthropic API key is configured, indexing also extracts
structured data (sale price, closing date, inspection findings) and
generates a summary for each document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex [doc-id]",
	Short: "Re-run the indexing pipeline for a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runReindex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(reindexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := context.Background()
	var failed int

	for _, path := range args {
		raw, err := readRawDocument(path)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}

		report, err := indexerService.Index(ctx, raw)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}

		printIndexReport(cmd, raw.Filename, report)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func runReindex(cmd *cobra.Command, args []string) error {
	if indexerService == nil {
		return errors.New("indexer service not configured")
	}

	ctx := context.Background()
	report, err := indexerService.Reindex(ctx, args[0])
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	printIndexReport(cmd, args[0], report)
	return nil
}

// readRawDocument loads a file from disk into a RawDocument, deriving
// the MIME type from the extension.
func readRawDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return &domain.RawDocument{
		URI:      "file://" + abs,
		Filename: filepath.Base(path),
		MIMEType: mimeType,
		Content:  content,
	}, nil
}

func printIndexReport(cmd *cobra.Command, name string, report *driving.IndexReport) {
	cmd.Printf("Indexed %s\n", name)
	cmd.Printf("  ID:       %s\n", report.DocumentID)
	cmd.Printf("  Type:     %s (%s)\n", report.Type, report.Category)
	cmd.Printf("  Chunks:   %d/%d indexed\n", report.ChunksIndexed, report.TotalChunks)
	if report.HasStructuredData {
		cmd.Println("  Extracted structured data")
	}
	if report.HasSummary {
		cmd.Println("  Generated summary")
	}
}
