package entities

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const branchPrefix = "arbitrum-dep-update"

// RelativePath renders a manifest path relative to the scanned root, falling
// back to the path as given when it lies outside of it.
func RelativePath(root, file string) string {
	relative, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(relative, "..") {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(relative)
}

// BuildSummaryTable renders the updates as a Markdown table.
func BuildSummaryTable(root string, updates []VersionUpdate) string {
	var builder strings.Builder
	builder.WriteString("| Dependency | Current | Latest | File |\n")
	builder.WriteString("|---|---|---|---|")
	for _, update := range updates {
		fmt.Fprintf(&builder, "\n| %s | %s | %s | %s |",
			update.Declaration.Name,
			update.Declaration.CurrentVersionText,
			update.LatestVersionText,
			RelativePath(root, update.Declaration.File),
		)
	}
	return builder.String()
}

// BuildBranchName is the name of the branch a pull request is opened from.
func BuildBranchName(target string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s", branchPrefix, target, now.Format(time.DateOnly))
}

// BuildPullRequestTitle is also the first line of the commit message.
func BuildPullRequestTitle(target string) string {
	return fmt.Sprintf("chore(deps): update Arbitrum dependencies (%s)", target)
}

// BuildCommitMessage lists every applied update below the title.
func BuildCommitMessage(target string, updates []VersionUpdate) string {
	lines := []string{BuildPullRequestTitle(target), "", "Updated dependencies:"}
	for _, update := range updates {
		lines = append(lines, fmt.Sprintf("  - %s: %s -> %s",
			update.Declaration.Name,
			update.Declaration.CurrentVersionText,
			update.LatestVersionText,
		))
	}
	return strings.Join(lines, "\n")
}

type bodySection struct {
	title       string
	description string
	ecosystems  []Ecosystem
	showFile    bool
}

//nolint:gochecknoglobals // fixed layout of the pull request body
var bodySections = []bodySection{
	{
		title:       "Rust / Stylus",
		description: "These updates affect Stylus smart contracts and related Rust tooling.",
		ecosystems:  []Ecosystem{EcosystemCargo},
		showFile:    true,
	},
	{
		title:       "Frontend / JavaScript",
		description: "These updates affect the web frontend and JavaScript tooling.",
		ecosystems:  []Ecosystem{EcosystemNpm},
		showFile:    true,
	},
	{
		title:       "Solidity / Foundry",
		description: "These updates affect Solidity contracts and Foundry tooling.",
		ecosystems:  []Ecosystem{EcosystemFoundry, EcosystemForgeStd},
	},
}

// BuildPullRequestBody groups the updates by ecosystem and ends with a review
// checklist.
func BuildPullRequestBody(root, target string, updates []VersionUpdate) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "## Arbitrum Dependency Updates (`%s`)\n\n", target)
	builder.WriteString("This pull request was generated by arbupdate.\n\n")
	builder.WriteString(BuildSummaryTable(root, updates))
	builder.WriteString("\n")

	for _, section := range bodySections {
		var lines []string
		for _, update := range updates {
			if !containsEcosystem(section.ecosystems, update.Declaration.Ecosystem) {
				continue
			}
			line := fmt.Sprintf("- **%s**: `%s` -> `%s`",
				update.Declaration.Name,
				update.Declaration.CurrentVersionText,
				update.LatestVersionText,
			)
			if section.showFile {
				line += fmt.Sprintf(" (in `%s`)", RelativePath(root, update.Declaration.File))
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&builder, "\n### %s\n%s\n%s\n", section.title, section.description, strings.Join(lines, "\n"))
	}

	builder.WriteString("\n### Review Checklist\n")
	builder.WriteString("- [ ] Check for breaking changes in updated dependencies\n")
	builder.WriteString("- [ ] Run tests locally to verify compatibility\n")
	builder.WriteString("- [ ] Verify Stylus contracts still compile with `cargo stylus check`\n")
	builder.WriteString("- [ ] Verify Solidity contracts still compile with `forge build`\n")
	builder.WriteString("- [ ] Test frontend builds successfully\n")
	return builder.String()
}

func containsEcosystem(ecosystems []Ecosystem, target Ecosystem) bool {
	for _, ecosystem := range ecosystems {
		if ecosystem == target {
			return true
		}
	}
	return false
}
