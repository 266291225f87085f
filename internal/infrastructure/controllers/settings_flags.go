package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// addCommonFlags registers the flags every subcommand understands.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to config file (default: auto-detect)")
	cmd.Flags().String("token", "", "GitHub token (overrides GITHUB_TOKEN / GH_TOKEN)")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().StringSlice("cargo-extra", nil, "Additional crates to track")
	cmd.Flags().StringSlice("npm-extra", nil, "Additional npm packages to track")
	cmd.Flags().Bool("check-foundry", true, "Check foundry.toml and the forge-std reference")
}

// loadSettings builds the settings of a subcommand: config file (explicit or
// auto-detected) or defaults, then the CI environment, then the flags.
func loadSettings(cmd *cobra.Command, args []string) (*entities.Settings, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		if found, err := entities.FindConfigFile(); err == nil {
			configPath = found
		}
	}

	settings := entities.NewDefaultSettings()
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return nil, err
		}
		settings = loaded
	} else {
		logger.Debug("No config file found, using defaults")
	}
	settings.ApplyEnvironment()

	if len(args) > 0 {
		settings.Root = args[0]
	}
	if cmd.Flags().Changed("token") {
		settings.Token, _ = cmd.Flags().GetString("token")
	}
	if cmd.Flags().Changed("cargo-extra") {
		extra, _ := cmd.Flags().GetStringSlice("cargo-extra")
		settings.Cargo.Extra = append(settings.Cargo.Extra, extra...)
	}
	if cmd.Flags().Changed("npm-extra") {
		extra, _ := cmd.Flags().GetStringSlice("npm-extra")
		settings.Npm.Extra = append(settings.Npm.Extra, extra...)
	}
	if cmd.Flags().Changed("check-foundry") {
		settings.Foundry.Enabled, _ = cmd.Flags().GetBool("check-foundry")
	}

	return settings, settings.Validate()
}
