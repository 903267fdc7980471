package checkers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/config"
	"github.com/addonlint/addonlint/internal/moduledir"
	"github.com/addonlint/addonlint/internal/rules"
)

func analyzeManifest(t *testing.T, src string, mutate func(*config.Config)) []rules.Finding {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	_, err := cfg.Resolve()
	require.NoError(t, err)

	p := NewPass("__manifest__.py", moduledir.Classification{}, cfg, nil)
	RunManifest(p, []byte(src))
	return p.Findings()
}

func TestManifestRequiredAuthorMatchesAnyOf(t *testing.T) {
	src := `{
    'author': 'Vauxoo, ACME',
    'license': 'AGPL-3',
}
`
	required := func(authors ...string) func(*config.Config) {
		return func(cfg *config.Config) { cfg.ManifestRequiredAuthors = authors }
	}

	findings := analyzeManifest(t, src, required("Vauxoo", "Odoo Community Association (OCA)"))
	assert.NotContains(t, ruleIDs(findings), "manifest-required-author")

	findings = analyzeManifest(t, src, required("Odoo Community Association (OCA)"))
	assert.Contains(t, ruleIDs(findings), "manifest-required-author")
}

func TestManifestRequiredAuthorDeprecatedAliasReplacesDefault(t *testing.T) {
	src := `{
    'author': 'Odoo Community Association (OCA)',
    'license': 'AGPL-3',
}
`
	findings := analyzeManifest(t, src, func(cfg *config.Config) {
		cfg.ManifestRequiredAuthor = "Vauxoo"
	})
	assert.Contains(t, ruleIDs(findings), "manifest-required-author")
}

func TestManifestRequiredKeysReportOncePerKey(t *testing.T) {
	findings := analyzeManifest(t, "{'name': 'Thing'}\n", nil)

	counts := map[string]int{}
	for _, f := range findings {
		counts[f.RuleID]++
	}
	assert.Equal(t, 2, counts["manifest-required-key"])
	assert.Equal(t, 1, counts["manifest-required-author"])
}

func TestManifestVersionOnlyCheckedWhenPresent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"valid", "{'author': 'Odoo Community Association (OCA)', 'license': 'AGPL-3', 'version': '16.0.1.0.0'}\n", false},
		{"missing release prefix", "{'author': 'Odoo Community Association (OCA)', 'license': 'AGPL-3', 'version': '1.0'}\n", true},
		{"absent", "{'author': 'Odoo Community Association (OCA)', 'license': 'AGPL-3'}\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := analyzeManifest(t, tt.src, nil)
			if tt.want {
				assert.Contains(t, ruleIDs(findings), "manifest-version-format")
			} else {
				assert.NotContains(t, ruleIDs(findings), "manifest-version-format")
			}
		})
	}
}

func TestManifestDataDuplicatedAcrossSequences(t *testing.T) {
	src := `{
    'author': 'Odoo Community Association (OCA)',
    'license': 'AGPL-3',
    'data': ['views/view.xml'],
    'demo': ['views/view.xml', 'demo/demo.xml', 'demo/demo.xml'],
}
`
	findings := analyzeManifest(t, src, nil)

	var duplicated []string
	for _, f := range findings {
		if f.RuleID == "manifest-data-duplicated" {
			duplicated = append(duplicated, f.Message)
		}
	}
	require.Len(t, duplicated, 2)
	assert.Contains(t, duplicated[0], "views/view.xml")
	assert.Contains(t, duplicated[1], "demo/demo.xml")
}

func TestManifestLicenseAndStatusAllowLists(t *testing.T) {
	src := `{
    'author': 'Odoo Community Association (OCA)',
    'license': 'WTFPL',
    'development_status': 'Experimental',
    'website': 'ftp://example.com',
}
`
	ids := ruleIDs(analyzeManifest(t, src, nil))
	assert.Contains(t, ids, "license-allowed")
	assert.Contains(t, ids, "development-status-allowed")
	assert.Contains(t, ids, "website-manifest-key-not-valid-uri")
}
