// Package cli implements the dossier command-line interface.
// Commands are thin adapters over the driving ports; all domain logic
// lives in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dossier-labs/dossier-cli/internal/core/ports/driven"
	"github.com/dossier-labs/dossier-cli/internal/core/ports/driving"
	"github.com/dossier-labs/dossier-cli/internal/logger"
)

// version is set from main at build time.
var version = "dev"

// Services injected from main before Execute. Commands nil-check the
// service they need so partial wiring degrades per command, not globally.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	documentService driving.DocumentService
	statsService    driving.StatsService
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Chunk, enrich and search property documents",
	Long: `Dossier ingests extracted document text, splits it into overlapping
chunks, enriches each chunk with structural and content metadata, and
serves hybrid lexical + semantic search over the result.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Document driving.DocumentService
	Stats    driving.StatsService
	Config   driven.ConfigStore
}

// SetServices injects the wired services. Call before Execute.
func SetServices(s Services) {
	ingestService = s.Ingest
	searchService = s.Search
	documentService = s.Document
	statsService = s.Stats
	configStore = s.Config
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
