package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, view, or delete ingested documents and their derived data.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "List a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentEntitiesCmd = &cobra.Command{
	Use:   "entities [doc-id]",
	Short: "List a document's extracted entities",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentEntities,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and everything derived from it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentEntitiesCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	docs, err := documentService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File: %s\n", docs[i].FileName)
		if docs[i].DocType != "" {
			cmd.Printf("    Type: %s / %s\n", docs[i].DocType, docs[i].Category)
		}
		if docs[i].Commune != "" {
			cmd.Printf("    Location: %s (%s)\n", docs[i].Commune, docs[i].Canton)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	doc, err := documentService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:         %s\n", doc.FileName)
	cmd.Printf("  Path:         %s\n", doc.Path)
	cmd.Printf("  Type:         %s\n", doc.DocType)
	cmd.Printf("  Category:     %s\n", doc.Category)
	if doc.Commune != "" {
		cmd.Printf("  Commune:      %s (%s)\n", doc.Commune, doc.Canton)
	}
	if doc.PrincipalAmount != nil {
		cmd.Printf("  Amount:       %.0f %s\n", *doc.PrincipalAmount, doc.Currency)
	}
	if doc.PrincipalDate != nil {
		cmd.Printf("  Date:         %s\n", doc.PrincipalDate.Format("2006-01-02"))
	}
	if doc.SurfaceM2 != nil {
		cmd.Printf("  Surface:      %.0f m2\n", *doc.SurfaceM2)
	}
	if doc.RoomCount != nil {
		cmd.Printf("  Rooms:        %.1f\n", *doc.RoomCount)
	}
	cmd.Printf("  Completeness: %.0f%% (%s)\n", doc.CompletenessScore, doc.Confidence)
	cmd.Printf("  Richness:     %.0f%%\n", doc.RichnessScore)
	cmd.Printf("  Created:      %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:      %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Tags) > 0 {
		cmd.Println("\n  Tags:")
		for _, tag := range doc.Tags {
			cmd.Printf("    %s\n", tag)
		}
	}

	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	chunks, err := documentService.Chunks(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks found.")
		return nil
	}

	for i := range chunks {
		c := &chunks[i]
		cmd.Printf("  [%d] %s (%s, importance %.2f)\n", c.Index, c.ID, c.Type, c.ImportanceScore)
		if c.SectionTitle != "" {
			cmd.Printf("      Section: %s\n", c.SectionTitle)
		}
		cmd.Printf("      %s\n", snippet(c.Content, 120))
		cmd.Println()
	}

	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentEntities(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	entities, err := documentService.Entities(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get entities: %w", err)
	}

	if len(entities) == 0 {
		cmd.Println("No entities found.")
		return nil
	}

	for i := range entities {
		e := &entities[i]
		cmd.Printf("  %-14s %s (%d mentions)\n", e.Type, e.Value, e.MentionCount)
	}

	cmd.Printf("\nTotal: %d entities\n", len(entities))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := context.Background()
	if err := documentService.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
