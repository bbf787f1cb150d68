package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vitrinewallet/vitrine/internal/config"
	"github.com/vitrinewallet/vitrine/internal/output"
	vitrerr "github.com/vitrinewallet/vitrine/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configInitForce bool

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show and initialize the Vitrine configuration file.`,
}

// configShowCmd prints the active configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	Long: `Show the active configuration after defaults, the config file,
environment variables, and flags have been applied.`,
	RunE: runConfigShow,
}

// configInitCmd writes a default configuration file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default configuration file to the data directory.

Fails if the file already exists unless --force is given.`,
	Example: `  # Create ~/.vitrine/config.yaml
  vitrine config init

  # Overwrite an existing config
  vitrine config init --force`,
	RunE: runConfigInit,
}

// configPathCmd prints the configuration file path.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		return formatter.Println(config.Path(cfg.GetHome()))
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return formatter.Print(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return vitrerr.Wrap(err, "failed to render config")
	}
	return formatter.Printf("%s", data)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := config.Path(cfg.GetHome())

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return vitrerr.WithSuggestion(
			vitrerr.ErrInvalidInput,
			fmt.Sprintf("config already exists at %s; use --force to overwrite", path),
		)
	}

	defaults := config.Defaults()
	defaults.Home = cfg.GetHome()
	if err := config.Save(defaults, path); err != nil {
		return err
	}

	return output.FormatSuccess(formatter.Writer(), fmt.Sprintf("Config written to %s", path), formatter.Format())
}
