package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set at link time via -ldflags.
//
//nolint:gochecknoglobals // Set by the build
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// versionCmd prints version information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(_ *cobra.Command, _ []string) error {
		if formatter.IsJSON() {
			return formatter.Print(map[string]string{
				"version":    Version,
				"commit":     Commit,
				"build_date": BuildDate,
				"go_version": runtime.Version(),
			})
		}
		return formatter.Printf("vitrine %s (commit %s, built %s, %s)\n",
			Version, Commit, BuildDate, runtime.Version())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}

// String implements a debug summary used by verbose startup logging.
func buildSummary() string {
	return fmt.Sprintf("vitrine %s (%s)", Version, Commit)
}
