package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultConcurrency  = 4
	defaultForgeStdRepo = "foundry-rs/forge-std"

	ForgeStdSourceSubmodule   = "submodule"
	ForgeStdSourceRemapping   = "remapping"
	ForgeStdSourcePackageJSON = "package-json"

	// FoundryCompilerKey is the only foundry.toml field the updater tracks.
	FoundryCompilerKey = "solc"
)

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Settings is the full runtime configuration of an update run.
type Settings struct {
	Root         string   `yaml:"root"`
	Token        string   `yaml:"token"`
	Branches     []string `yaml:"branches"`
	CreatePR     bool     `yaml:"create_pr"`
	DryRun       bool     `yaml:"dry_run"`
	Changelog    bool     `yaml:"changelog"`
	Concurrency  int      `yaml:"concurrency"`
	ExcludedDirs []string `yaml:"excluded_dirs"`

	Cargo   TrackedConfig `yaml:"cargo"`
	Npm     TrackedConfig `yaml:"npm"`
	Foundry FoundryConfig `yaml:"foundry"`
}

// TrackedConfig lists the identifiers tracked for one ecosystem. Deps replaces
// the built-in list when set, Extra is always appended.
type TrackedConfig struct {
	Deps  []string `yaml:"deps"`
	Extra []string `yaml:"extra"`
}

// FoundryConfig controls the foundry.toml compiler check and forge-std lookup.
type FoundryConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ForgeStdRepo string   `yaml:"forge_std_repo"`
	Precedence   []string `yaml:"precedence"`
}

// NewDefaultSettings returns the settings used when no file overrides them.
func NewDefaultSettings() *Settings {
	return &Settings{
		Root:         ".",
		Branches:     []string{"main"},
		CreatePR:     true,
		Concurrency:  defaultConcurrency,
		ExcludedDirs: []string{"target", "node_modules", ".git"},
		Cargo: TrackedConfig{
			Deps: []string{"stylus-sdk", "alloy-primitives", "alloy-sol-types", "alloy"},
		},
		Npm: TrackedConfig{
			Deps: []string{"viem", "wagmi", "@tanstack/react-query", "@openzeppelin/contracts"},
		},
		Foundry: FoundryConfig{
			Enabled:      true,
			ForgeStdRepo: defaultForgeStdRepo,
			Precedence: []string{
				ForgeStdSourceSubmodule,
				ForgeStdSourceRemapping,
				ForgeStdSourcePackageJSON,
			},
		},
	}
}

// NewSettings reads a YAML settings file on top of the defaults, expands
// environment variables in the token and validates the result.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := NewDefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %w", ErrConfiguration, unmarshalErr)
	}
	settings.Token = resolveToken(settings.Token)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// FindConfigFile searches for a settings file in the usual locations.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", "configs"}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		locations = append(locations, homeDir, filepath.Join(homeDir, ".config"))
	}

	names := []string{".arbupdate.yaml", ".arbupdate.yml", "arbupdate.yaml", "arbupdate.yml"}
	for _, location := range locations {
		for _, name := range names {
			candidate := filepath.Join(location, name)
			if _, statErr := os.Stat(candidate); statErr == nil {
				return candidate, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ApplyEnvironment fills the token and root from the CI environment when the
// settings file left them empty.
func (s *Settings) ApplyEnvironment() {
	if s.Token == "" {
		for _, name := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
			if value := os.Getenv(name); value != "" {
				s.Token = value
				break
			}
		}
	}
	if s.Root == "" || s.Root == "." {
		if workspace := os.Getenv("GITHUB_WORKSPACE"); workspace != "" {
			s.Root = workspace
		}
	}
}

// Validate checks the settings for values that would make a run meaningless.
func (s *Settings) Validate() error {
	if s.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrConfiguration, s.Concurrency)
	}

	for _, source := range s.Foundry.Precedence {
		switch source {
		case ForgeStdSourceSubmodule, ForgeStdSourceRemapping, ForgeStdSourcePackageJSON:
		default:
			return fmt.Errorf("%w: unknown forge-std source %q", ErrConfiguration, source)
		}
	}

	if s.Foundry.Enabled {
		if _, _, err := s.ForgeStdOwnerRepo(); err != nil {
			return err
		}
	}

	return nil
}

// PublishesPullRequests reports whether a run pushes branches and opens pull requests.
func (s *Settings) PublishesPullRequests() bool {
	return s.CreatePR && !s.DryRun
}

// Tracked returns the deduplicated identifiers tracked for an ecosystem.
func (s *Settings) Tracked(ecosystem Ecosystem) []string {
	switch ecosystem {
	case EcosystemCargo:
		return Dedupe(append(append([]string{}, s.Cargo.Deps...), s.Cargo.Extra...))
	case EcosystemNpm:
		return Dedupe(append(append([]string{}, s.Npm.Deps...), s.Npm.Extra...))
	case EcosystemFoundry:
		return []string{FoundryCompilerKey}
	case EcosystemForgeStd:
		return []string{"forge-std"}
	}
	return nil
}

// Enabled reports whether the ecosystem takes part in a scan.
func (s *Settings) Enabled(ecosystem Ecosystem) bool {
	switch ecosystem {
	case EcosystemFoundry, EcosystemForgeStd:
		return s.Foundry.Enabled
	case EcosystemCargo, EcosystemNpm:
		return true
	}
	return false
}

// LookupIdentifier is the name a registry knows the declaration by.
func (s *Settings) LookupIdentifier(declaration Declaration) string {
	if declaration.Ecosystem == EcosystemForgeStd {
		return s.Foundry.ForgeStdRepo
	}
	return declaration.Name
}

// ForgeStdOwnerRepo splits the configured forge-std repository into its parts.
func (s *Settings) ForgeStdOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(s.Foundry.ForgeStdRepo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf(
			"%w: forge_std_repo must look like owner/repo, got %q",
			ErrConfiguration, s.Foundry.ForgeStdRepo,
		)
	}
	return owner, repo, nil
}

// Dedupe trims the items and drops blanks and repeats, keeping first-seen order.
func Dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

// resolveToken expands ${VAR} references and, if the result names an existing
// file, reads the token from it.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(name); value != "" {
			return value
		}
		logger.Warnf("Environment variable %q is not set", name)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}
	return resolved
}
