package entities

import (
	"fmt"
	"strings"
)

const (
	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releasePrefix     = "## ["
	bulletPrefix      = "- "
)

// ChangelogEntries renders one Keep-a-Changelog bullet per update.
func ChangelogEntries(updates []VersionUpdate) []string {
	entries := make([]string, 0, len(updates))
	for _, update := range updates {
		entries = append(entries, fmt.Sprintf(
			"%schanged the `%s` %s dependency from `%s` to `%s`",
			bulletPrefix,
			update.Declaration.Name,
			update.Declaration.Ecosystem,
			update.Declaration.CurrentVersionText,
			update.LatestVersionText,
		))
	}
	return entries
}

// unreleasedBlock holds the line bounds of the "## [Unreleased]" release.
type unreleasedBlock struct {
	heading int // index of "## [Unreleased]"
	end     int // index of the next release heading, or len(lines)
	changed int // index of "### Changed" inside the block, or -1
}

// InsertChangelogEntry adds bullet lines under "## [Unreleased]" / "### Changed".
// Content without an Unreleased release is returned as it was. When the
// Changed subsection is missing it is created right below the release heading.
func InsertChangelogEntry(content string, entries []string) string {
	if len(entries) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	block, ok := locateUnreleased(lines)
	if !ok {
		return content
	}

	if block.changed < 0 {
		insertion := append([]string{"", changedHeading, ""}, entries...)
		return strings.Join(splice(lines, block.heading+1, insertion), "\n")
	}

	at := block.changed
	for i := block.changed + 1; i < block.end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, bulletPrefix) {
			at = i
			continue
		}
		if trimmed != "" {
			break
		}
	}
	return strings.Join(splice(lines, at+1, entries), "\n")
}

func locateUnreleased(lines []string) (unreleasedBlock, bool) {
	block := unreleasedBlock{heading: -1, end: len(lines), changed: -1}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case block.heading < 0:
			if trimmed == unreleasedHeading {
				block.heading = i
			}
		case strings.HasPrefix(trimmed, releasePrefix):
			block.end = i
			return block, true
		case trimmed == changedHeading && block.changed < 0:
			block.changed = i
		}
	}
	return block, block.heading >= 0
}

func splice(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	return append(result, lines[at:]...)
}
