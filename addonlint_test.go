package addonlint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint"
	"github.com/addonlint/addonlint/internal/config"
)

// expectedRepoFindings is the per-rule finding count for the fixture
// repository. Every rule except manifest-syntax-error and
// deprecated-option is represented there; those two are covered by
// dedicated tests below.
var expectedRepoFindings = map[string]int{
	"attribute-deprecated":               1,
	"attribute-string-redundant":         1,
	"class-camelcase":                    1,
	"consider-merging-classes-inherited": 1,
	"context-overridden":                 1,
	"development-status-allowed":         1,
	"eval-referenced":                    1,
	"except-pass":                        1,
	"external-request-timeout":           1,
	"invalid-commit":                     1,
	"license-allowed":                    1,
	"manifest-author-string":             1,
	"manifest-data-duplicated":           1,
	"manifest-deprecated-key":            1,
	"manifest-maintainers-list":          1,
	"manifest-required-author":           2,
	"manifest-required-key":              1,
	"manifest-version-format":            1,
	"method-compute":                     1,
	"method-inverse":                     1,
	"method-required-super":              1,
	"method-search":                      1,
	"missing-readme":                     1,
	"odoo-addons-relative-import":        1,
	"openerp-exception-warning":          1,
	"print-used":                         1,
	"renamed-field-parameter":            1,
	"resource-not-exist":                 1,
	"sql-injection":                      1,
	"test-folder-imported":               1,
	"translation-contains-variable":      1,
	"translation-field":                  1,
	"translation-positional-used":        1,
	"use-vim-comment":                    1,
	"website-manifest-key-not-valid-uri": 1,
}

func repoTotal() int {
	total := 0
	for _, n := range expectedRepoFindings {
		total += n
	}
	return total
}

func countByRule(findings []addonlint.Finding) map[string]int {
	counts := map[string]int{}
	for _, f := range findings {
		counts[f.RuleID]++
	}
	return counts
}

func newEngine(t *testing.T, cfg *config.Config) *addonlint.Engine {
	t.Helper()
	eng, err := addonlint.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return eng
}

func TestRunRepository(t *testing.T) {
	eng := newEngine(t, nil)

	findings, err := eng.Run([]string{filepath.Join("testdata", "test_repo")})
	require.NoError(t, err)

	assert.Equal(t, expectedRepoFindings, countByRule(findings))
	assert.Len(t, findings, repoTotal())
}

func TestRunRepositoryIsIdempotent(t *testing.T) {
	eng := newEngine(t, nil)

	first, err := eng.Run([]string{filepath.Join("testdata", "test_repo")})
	require.NoError(t, err)
	second, err := eng.Run([]string{filepath.Join("testdata", "test_repo")})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunEnableOnlyOneRule(t *testing.T) {
	for rule, want := range expectedRepoFindings {
		t.Run(rule, func(t *testing.T) {
			cfg := config.Default()
			cfg.Disable = []string{"all"}
			cfg.Enable = []string{rule}
			eng := newEngine(t, cfg)

			findings, err := eng.Run([]string{filepath.Join("testdata", "test_repo")})
			require.NoError(t, err)

			assert.Len(t, findings, want)
			for _, f := range findings {
				assert.Equal(t, rule, f.RuleID)
			}
		})
	}
}

func TestRunDisableOneRule(t *testing.T) {
	for rule, count := range expectedRepoFindings {
		t.Run(rule, func(t *testing.T) {
			cfg := config.Default()
			cfg.Disable = []string{rule}
			eng := newEngine(t, cfg)

			findings, err := eng.Run([]string{filepath.Join("testdata", "test_repo")})
			require.NoError(t, err)

			assert.Len(t, findings, repoTotal()-count)
			assert.NotContains(t, countByRule(findings), rule)
		})
	}
}

func TestRunMissingPath(t *testing.T) {
	eng := newEngine(t, nil)

	_, err := eng.Run([]string{filepath.Join("testdata", "no_such_dir")})
	assert.Error(t, err)
}

func TestRunReportsConfigDeprecations(t *testing.T) {
	cfg := config.Default()
	cfg.ManifestRequiredAuthor = "ACME"
	eng := newEngine(t, cfg)

	findings, err := eng.Run([]string{filepath.Join("testdata", "test_repo", "second_module")})
	require.NoError(t, err)

	require.NotEmpty(t, findings)
	assert.Equal(t, "deprecated-option", findings[0].RuleID)
	// The alias value participates in the author check, so ACME now
	// satisfies it for second_module.
	assert.NotContains(t, countByRule(findings), "manifest-required-author")
}

func TestCheckFileQueryConstruction(t *testing.T) {
	src := []byte(`class AccountReport(object):
    def refresh(self, arg):
        self.env.cr.execute(f"SELECT name FROM account WHERE id = {arg}")
        self.env.cr.execute("SELECT name FROM account WHERE id = %s" % arg)
        query = f"DELETE FROM account WHERE id = {arg}"
        self.env.cr.execute(query)
        self.env.cr.execute("SELECT name FROM {}".format(self.table))
        self.env.cr.execute(f"CREATE VIEW report AS (SELECT * FROM {self._table})")
        self.env.cr.execute("SELECT 1")
`)

	eng := newEngine(t, nil)
	findings, err := eng.CheckFile("queries.py", src)
	require.NoError(t, err)

	assert.Equal(t, 4, countByRule(findings)["sql-injection"])
}

func TestCheckFileMigrationScriptsRelaxNaming(t *testing.T) {
	src := []byte(`class legacy_helper(object):
    def run(self):
        pass
`)
	eng := newEngine(t, nil)

	module := filepath.Join("testdata", "test_repo", "broken_module")

	findings, err := eng.CheckFile(filepath.Join(module, "helper.py"), src)
	require.NoError(t, err)
	assert.Equal(t, 1, countByRule(findings)["class-camelcase"])

	findings, err = eng.CheckFile(filepath.Join(module, "migrations", "10.0.1.0.0", "helper.py"), src)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckFileInlineSuppression(t *testing.T) {
	src := []byte(`def debug():
    # addonlint: disable=print-used
    print('checking')
    print('again')
`)
	eng := newEngine(t, nil)

	findings, err := eng.CheckFile("debug.py", src)
	require.NoError(t, err)

	assert.Equal(t, 1, countByRule(findings)["print-used"])
}

func TestCheckFileSyntaxError(t *testing.T) {
	eng := newEngine(t, nil)

	_, err := eng.CheckFile("bad.py", []byte("def broken(:\n"))
	assert.Error(t, err)
}

func TestCheckManifestSyntaxError(t *testing.T) {
	eng := newEngine(t, nil)

	findings := eng.CheckManifest("__manifest__.py", []byte("this is not a mapping = ["))
	require.Len(t, findings, 1)
	assert.Equal(t, "manifest-syntax-error", findings[0].RuleID)
}

func TestCheckManifestInlineSuppression(t *testing.T) {
	src := []byte(`{
    'author': 'Odoo Community Association (OCA)',
    'license': 'AGPL-3',
    'active': True,  # addonlint: disable=manifest-deprecated-key
}
`)
	eng := newEngine(t, nil)

	findings := eng.CheckManifest("__manifest__.py", src)
	for _, f := range findings {
		assert.NotEqual(t, "manifest-deprecated-key", f.RuleID)
	}
}

func TestRunSkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.py"), []byte("def broken(:\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.py"), []byte("print('x')\n"), 0o644))

	eng := newEngine(t, nil)
	findings, err := eng.Run([]string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, countByRule(findings)["print-used"])
}
