// Package config resolves the options that parametrize the checkers.
//
// Resolution happens once per run: defaults, then an optional YAML file
// overlay, then flag values, then Resolve. Resolve normalizes deprecated
// aliases into their canonical options (returning the deprecation findings
// to emit), compiles the version pattern and builds the enable/disable
// sets. A configuration that fails to compile aborts the run; a broken
// pattern would otherwise silently disable or over-trigger the version
// check for every file. After Resolve the value is read-only and safe to
// share across concurrent file analyses.
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/rules"
)

// Defaults.
const (
	// DefaultVersionFormat is the version suffix pattern: the manifest
	// version must be <major.minor>.<this> for five dotted components.
	DefaultVersionFormat = `\d+\.\d+\.\d+$`
)

// DefaultValidVersions is the framework release allow-list.
var DefaultValidVersions = []string{
	"8.0", "9.0", "10.0", "11.0", "12.0", "13.0",
	"14.0", "15.0", "16.0", "17.0", "18.0",
}

// DefaultRequiredAuthors is the author any module must credit unless
// overridden.
var DefaultRequiredAuthors = []string{"Odoo Community Association (OCA)"}

// Config is the flat option mapping consumed by the checkers. It is
// resolved once and never mutated during a run.
type Config struct {
	ManifestVersionFormat   string   `yaml:"manifest_version_format"`
	ValidOdooVersions       []string `yaml:"valid_odoo_versions"`
	ManifestRequiredAuthors []string `yaml:"manifest_required_authors"`

	// ManifestRequiredAuthor is the deprecated singular alias of
	// ManifestRequiredAuthors, kept for backward compatibility.
	ManifestRequiredAuthor string `yaml:"manifest_required_author"`

	Enable  []string `yaml:"enable"`
	Disable []string `yaml:"disable"`

	versionRe  *regexp.Regexp
	enableSet  map[string]bool
	disableSet map[string]bool
	resolved   bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ManifestVersionFormat:   DefaultVersionFormat,
		ValidOdooVersions:       append([]string(nil), DefaultValidVersions...),
		ManifestRequiredAuthors: append([]string(nil), DefaultRequiredAuthors...),
	}
}

// Load overlays a YAML configuration file onto the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// SplitCSV is the flag-side helper for comma-separated option values.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Resolve validates and freezes the configuration. It returns the
// deprecation findings produced by alias normalization; these carry no
// file location and are emitted once per run.
func (c *Config) Resolve() ([]rules.Finding, error) {
	var deprecations []rules.Finding

	if c.ManifestRequiredAuthor != "" {
		deprecations = append(deprecations, rules.MustGet("deprecated-option").New(
			pyast.Position{Filename: "<config>", Line: 1},
			"",
			"manifest_required_author", "manifest_required_authors",
		))
		// The alias is the old spelling of the plural option: on its own
		// it IS the required set. It only merges when the plural option
		// was configured away from the built-in default too.
		if slices.Equal(c.ManifestRequiredAuthors, DefaultRequiredAuthors) {
			c.ManifestRequiredAuthors = SplitCSV(c.ManifestRequiredAuthor)
		} else {
			c.ManifestRequiredAuthors = append(c.ManifestRequiredAuthors, SplitCSV(c.ManifestRequiredAuthor)...)
		}
		c.ManifestRequiredAuthor = ""
	}

	if c.ManifestVersionFormat == "" {
		c.ManifestVersionFormat = DefaultVersionFormat
	}

	re, err := compileVersionPattern(c.ManifestVersionFormat, c.ValidOdooVersions)
	if err != nil {
		return nil, err
	}
	c.versionRe = re

	c.enableSet = toSet(c.Enable)
	c.disableSet = toSet(c.Disable)
	c.resolved = true

	return deprecations, nil
}

// compileVersionPattern builds the full version regexp. With an allow-list
// the version must start with an allowed major.minor followed by the
// configured suffix pattern; an empty allow-list makes the configured
// pattern stand alone.
func compileVersionPattern(format string, validVersions []string) (*regexp.Regexp, error) {
	var pattern string
	if len(validVersions) > 0 {
		quoted := make([]string, len(validVersions))
		for i, v := range validVersions {
			quoted[i] = regexp.QuoteMeta(v)
		}
		pattern = fmt.Sprintf(`^(%s)\.%s`, strings.Join(quoted, "|"), format)
	} else {
		pattern = "^" + format
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("config: invalid manifest_version_format %q: %w", format, err)
	}
	return re, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.TrimSpace(it)] = true
	}
	return set
}

// VersionMatches reports whether a manifest version satisfies the
// configured allow-list and format.
func (c *Config) VersionMatches(version string) bool {
	return c.versionRe.MatchString(version)
}

// RequiredAuthors returns the resolved required-author set.
func (c *Config) RequiredAuthors() []string {
	return c.ManifestRequiredAuthors
}

// Enabled reports whether a rule participates in this run. Explicit enable
// wins over explicit disable; "all" acts as a baseline switch on either
// side.
func (c *Config) Enabled(rule string) bool {
	if c.enableSet[rule] {
		return true
	}
	if c.disableSet[rule] {
		return false
	}
	if c.disableSet["all"] {
		return c.enableSet["all"]
	}
	return true
}
