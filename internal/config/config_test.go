package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/config"
)

func resolved(t *testing.T, cfg *config.Config) *config.Config {
	t.Helper()
	_, err := cfg.Resolve()
	require.NoError(t, err)
	return cfg
}

func TestDefaultEnablesEverything(t *testing.T) {
	cfg := resolved(t, config.Default())

	assert.True(t, cfg.Enabled("sql-injection"))
	assert.True(t, cfg.Enabled("missing-readme"))
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enable  []string
		disable []string
		rule    string
		want    bool
	}{
		{"disable one", nil, []string{"missing-readme"}, "missing-readme", false},
		{"disable one leaves others", nil, []string{"missing-readme"}, "sql-injection", true},
		{"enable wins over disable", []string{"missing-readme"}, []string{"missing-readme"}, "missing-readme", true},
		{"disable all", nil, []string{"all"}, "sql-injection", false},
		{"disable all with one enabled", []string{"sql-injection"}, []string{"all"}, "sql-injection", true},
		{"disable all with one enabled excludes rest", []string{"sql-injection"}, []string{"all"}, "print-used", false},
		{"enable all restores baseline", []string{"all"}, []string{"all"}, "print-used", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Enable = tt.enable
			cfg.Disable = tt.disable
			resolved(t, cfg)

			assert.Equal(t, tt.want, cfg.Enabled(tt.rule))
		})
	}
}

func TestVersionMatches(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"16.0.1.0.0", true},
		{"8.0.0.0.1", true},
		{"16.0.1.0", false},
		{"19.0.1.0.0", false},
		{"1.0", false},
		{"16.0.1.0.0.1", false},
	}
	cfg := resolved(t, config.Default())
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.VersionMatches(tt.version))
		})
	}
}

func TestVersionMatchesWithoutAllowList(t *testing.T) {
	cfg := config.Default()
	cfg.ValidOdooVersions = nil
	cfg.ManifestVersionFormat = `\d+\.\d+\.\d+\.\d+\.\d+$`
	resolved(t, cfg)

	assert.True(t, cfg.VersionMatches("42.0.1.0.0"))
	assert.False(t, cfg.VersionMatches("1.0"))
}

func TestResolveRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.ManifestVersionFormat = `(\d+`

	_, err := cfg.Resolve()
	assert.Error(t, err)
}

func TestResolveDeprecatedAuthorAlias(t *testing.T) {
	cfg := config.Default()
	cfg.ManifestRequiredAuthor = "ACME"

	deprecations, err := cfg.Resolve()
	require.NoError(t, err)

	require.Len(t, deprecations, 1)
	assert.Equal(t, "deprecated-option", deprecations[0].RuleID)
	// The alias replaces the built-in default, it does not extend it.
	assert.Equal(t, []string{"ACME"}, cfg.ManifestRequiredAuthors)
}

func TestResolveDeprecatedAuthorAliasMergesWithExplicitList(t *testing.T) {
	cfg := config.Default()
	cfg.ManifestRequiredAuthors = []string{"Vauxoo"}
	cfg.ManifestRequiredAuthor = "ACME"

	deprecations, err := cfg.Resolve()
	require.NoError(t, err)

	require.Len(t, deprecations, 1)
	assert.Equal(t, []string{"Vauxoo", "ACME"}, cfg.ManifestRequiredAuthors)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addonlint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
valid_odoo_versions:
  - "17.0"
disable:
  - missing-readme
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	resolved(t, cfg)

	assert.Equal(t, []string{"17.0"}, cfg.ValidOdooVersions)
	assert.False(t, cfg.Enabled("missing-readme"))
	// Untouched options keep their defaults.
	assert.Equal(t, config.DefaultVersionFormat, cfg.ManifestVersionFormat)
	assert.True(t, cfg.VersionMatches("17.0.1.0.0"))
	assert.False(t, cfg.VersionMatches("16.0.1.0.0"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, config.SplitCSV(""))
	assert.Equal(t, []string{"a", "b"}, config.SplitCSV("a, b"))
	assert.Equal(t, []string{"a"}, config.SplitCSV("a,,"))
}
