package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

// granularityConfigKey stores the active preset in the config file.
const granularityConfigKey = "ingest.granularity"

var granularityCmd = &cobra.Command{
	Use:   "granularity",
	Short: "Manage the chunking granularity preset",
	Long: `Shows or changes the chunking granularity preset used during
ingestion. Finer presets produce more, shorter chunks for precise
lookup; coarser presets keep more context per chunk.`,
}

var granularityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Args:  cobra.NoArgs,
	RunE:  runGranularityList,
}

var granularityGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the active preset",
	Args:  cobra.NoArgs,
	RunE:  runGranularityGet,
}

var granularitySetCmd = &cobra.Command{
	Use:   "set [preset]",
	Short: "Set the active preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runGranularitySet,
}

func init() {
	granularityCmd.AddCommand(granularityListCmd)
	granularityCmd.AddCommand(granularityGetCmd)
	granularityCmd.AddCommand(granularitySetCmd)
	rootCmd.AddCommand(granularityCmd)
}

// activeGranularity reads the configured preset, falling back to standard.
func activeGranularity() domain.Granularity {
	if configStore == nil {
		return domain.GranularityStandard
	}
	name := configStore.GetString(granularityConfigKey)
	if name == "" {
		return domain.GranularityStandard
	}
	return domain.Granularity(name)
}

func runGranularityList(cmd *cobra.Command, _ []string) error {
	active := activeGranularity()

	cmd.Println("Granularity presets:")
	cmd.Println()
	for _, g := range domain.Granularities() {
		params, err := g.Params()
		if err != nil {
			return err
		}

		marker := " "
		if g == active {
			marker = "*"
		}
		cmd.Printf("  %s %-11s %5d runes, overlap %4d  %s\n",
			marker, g, params.ChunkSize, params.Overlap, params.Description)
	}

	return nil
}

func runGranularityGet(cmd *cobra.Command, _ []string) error {
	g := activeGranularity()
	params, err := g.Params()
	if err != nil {
		return fmt.Errorf("configured preset %q is invalid: %w", g, err)
	}

	cmd.Printf("%s (%d runes, overlap %d)\n", g, params.ChunkSize, params.Overlap)
	return nil
}

func runGranularitySet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	g := domain.Granularity(args[0])
	if _, err := g.Params(); err != nil {
		return fmt.Errorf("unknown preset %q, see 'dossier granularity list'", args[0])
	}

	if err := configStore.Set(granularityConfigKey, string(g)); err != nil {
		return fmt.Errorf("failed to save preset: %w", err)
	}

	cmd.Printf("Granularity set to %s. Takes effect on the next ingestion.\n", g)
	return nil
}
