// Package cli provides the Cobra command tree for the deedex binary.
// Commands talk to the core through driving ports; the composition root
// injects concrete services before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/parcelworks/deedex-cli/internal/core/ports/driving"
	"github.com/parcelworks/deedex-cli/internal/logger"
)

// version is set via SetVersion from the build.
var version = "dev"

// Services injected by the composition root. Commands check for nil
// and fail with a clear message when a service is not configured.
var (
	indexerService  driving.IndexerService
	searchService   driving.SearchService
	documentService driving.DocumentService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "deedex",
	Short: "Index and search real-estate transaction documents",
	Long: `Deedex indexes real-estate transaction documents (settlement
statements, inspection reports, contracts, appraisals, disclosures)
into a local store and provides semantic search, structured extraction
and question answering over them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects the core services used by the commands.
// Any of them may be nil; the corresponding commands will report that
// the service is not configured.
func SetServices(
	indexer driving.IndexerService,
	search driving.SearchService,
	document driving.DocumentService,
) {
	indexerService = indexer
	searchService = search
	documentService = document
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
