package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest an extracted text file",
	Long: `Reads extracted document text from a file and runs it through the
segmentation and enrichment pipeline. Re-ingesting a known path
replaces its chunks atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	ctx := context.Background()
	result, err := ingestService.Ingest(ctx, path, string(data), 0)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	action := "Ingested"
	if result.Updated {
		action = "Re-ingested"
	}

	cmd.Printf("%s %s\n\n", action, filepath.Base(path))
	cmd.Printf("  Document:  %s\n", result.DocumentID)
	cmd.Printf("  Chunks:    %d\n", result.ChunkCount)
	cmd.Printf("  Entities:  %d\n", result.EntityCount)
	cmd.Printf("  Embedded:  %d\n", result.EmbeddedCount)
	if result.Document.DocType != "" {
		cmd.Printf("  Type:      %s / %s\n", result.Document.DocType, result.Document.Category)
	}
	if result.Document.Commune != "" {
		cmd.Printf("  Location:  %s (%s)\n", result.Document.Commune, result.Document.Canton)
	}
	if result.Document.PrincipalAmount != nil {
		cmd.Printf("  Amount:    %.0f %s\n", *result.Document.PrincipalAmount, result.Document.Currency)
	}

	return nil
}
