package controllers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/arbupdate/internal/domain/commands"
	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// RunController handles the "run" subcommand.
type RunController struct {
	command commands.Run
}

// NewRunController creates a new RunController.
func NewRunController(command commands.Run) *RunController {
	return &RunController{command: command}
}

// GetBind returns the Cobra command metadata for the run controller.
func (it *RunController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run [path]",
		Short: "Update Arbitrum dependencies and open pull requests",
		Long: `Check out every configured branch, update the tracked Arbitrum
dependencies in place and open one pull request per branch.

This is the command intended to run in CI. Use --dry-run to only
report what would change, or --create-pr=false to edit the files
without committing them.`,
	}
}

// Execute runs the update flow over the configured branches.
func (it *RunController) Execute(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("branch") {
		settings.Branches, _ = cmd.Flags().GetStringSlice("branch")
	}
	if cmd.Flags().Changed("dry-run") {
		settings.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	if cmd.Flags().Changed("create-pr") {
		settings.CreatePR, _ = cmd.Flags().GetBool("create-pr")
	}
	if cmd.Flags().Changed("changelog") {
		settings.Changelog, _ = cmd.Flags().GetBool("changelog")
	}

	logger.Info("Starting arbupdate run...")
	outputs, err := it.command.Execute(context.Background(), settings)
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		return err
	}

	numbers := make([]string, 0, len(outputs.PullRequestNumbers))
	for _, number := range outputs.PullRequestNumbers {
		numbers = append(numbers, strconv.Itoa(number))
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "updates-available=%t\n", outputs.UpdatesAvailable)
	_, _ = fmt.Fprintf(out, "update-count=%d\n", outputs.UpdateCount)
	_, _ = fmt.Fprintf(out, "pr-urls=%s\n", strings.Join(outputs.PullRequestURLs, ","))
	_, _ = fmt.Fprintf(out, "pr-numbers=%s\n", strings.Join(numbers, ","))
	return nil
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *RunController) AddFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)
	cmd.Flags().StringSlice("branch", nil, "Branches to update (default from config: main)")
	cmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	cmd.Flags().Bool("create-pr", true, "Commit, push and open a pull request per branch")
	cmd.Flags().Bool("changelog", false, "Add an entry under [Unreleased] in CHANGELOG.md")
}
