package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/arbupdate/internal/domain/commands"
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// ScanController handles the "scan" subcommand.
type ScanController struct {
	command commands.Scan
}

// NewScanController creates a new ScanController.
func NewScanController(command commands.Scan) *ScanController {
	return &ScanController{command: command}
}

// GetBind returns the Cobra command metadata for the scan controller.
func (it *ScanController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "scan [path]",
		Short: "Report outdated Arbitrum dependencies without changing anything",
		Long: `Scan a project for Cargo.toml, package.json and foundry.toml files,
look up the latest releases of the tracked Arbitrum dependencies and
print a summary table of the available updates.`,
	}
}

// Execute runs the scan and prints the summary.
func (it *ScanController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}

	result, err := it.command.Execute(context.Background(), settings.Root, settings)
	if err != nil {
		logger.Errorf("Scan failed: %v", err)
		return err
	}

	out := cmd.OutOrStdout()
	if !result.HasUpdates() {
		_, _ = fmt.Fprintln(out, "All tracked dependencies are up to date.")
	} else {
		_, _ = fmt.Fprintln(out, entities.BuildSummaryTable(settings.Root, result.Updates))
	}
	for _, advisory := range result.Advisories {
		_, _ = fmt.Fprintf(out, "manual update needed: %s %s -> %s (%s)\n",
			advisory.Declaration.Name, advisory.Declaration.CurrentVersionText,
			advisory.LatestVersionText, advisory.Declaration.Style)
	}
	for _, failure := range result.Failures {
		_, _ = fmt.Fprintf(out, "lookup failed: %s (%v)\n", failure.Declaration.Name, failure.Err)
	}
	return nil
}

// AddFlags adds the scan flags to the given Cobra command.
func (it *ScanController) AddFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)
}
