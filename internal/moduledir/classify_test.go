package moduledir_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/moduledir"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
}

func TestClassify(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "my_module")
	writeFile(t, filepath.Join(module, "__manifest__.py"))
	writeFile(t, filepath.Join(module, "models", "account.py"))
	writeFile(t, filepath.Join(module, "migrations", "16.0.1.0.0", "pre-migration.py"))
	writeFile(t, filepath.Join(root, "loose.py"))

	t.Run("model file", func(t *testing.T) {
		c := moduledir.Classify(filepath.Join(module, "models", "account.py"))
		assert.True(t, c.InModule)
		assert.False(t, c.IsManifest)
		assert.False(t, c.IsMigrationScript)
		assert.Equal(t, "my_module", c.ModuleName)
		assert.Equal(t, module, c.ModuleRoot)
	})

	t.Run("manifest", func(t *testing.T) {
		c := moduledir.Classify(filepath.Join(module, "__manifest__.py"))
		assert.True(t, c.InModule)
		assert.True(t, c.IsManifest)
		assert.False(t, c.IsMigrationScript)
	})

	t.Run("migration script", func(t *testing.T) {
		c := moduledir.Classify(filepath.Join(module, "migrations", "16.0.1.0.0", "pre-migration.py"))
		assert.True(t, c.InModule)
		assert.True(t, c.IsMigrationScript)
		assert.Equal(t, "my_module", c.ModuleName)
	})

	t.Run("outside any module", func(t *testing.T) {
		c := moduledir.Classify(filepath.Join(root, "loose.py"))
		assert.Equal(t, moduledir.Classification{}, c)
	})
}

func TestClassifyManifestInsideMigrations(t *testing.T) {
	// A stray manifest under migrations/ must not promote that directory
	// to a module root; files there still belong to the enclosing module.
	root := t.TempDir()
	module := filepath.Join(root, "my_module")
	writeFile(t, filepath.Join(module, "__manifest__.py"))
	script := filepath.Join(module, "migrations", "16.0.1.0.0", "post-migration.py")
	writeFile(t, script)
	writeFile(t, filepath.Join(module, "migrations", "16.0.1.0.0", "__manifest__.py"))

	c := moduledir.Classify(script)
	assert.True(t, c.InModule)
	assert.True(t, c.IsMigrationScript)
	assert.Equal(t, "my_module", c.ModuleName)
	assert.Equal(t, module, c.ModuleRoot)
}

func TestLegacyManifestName(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "old_module")
	writeFile(t, filepath.Join(module, "__openerp__.py"))
	writeFile(t, filepath.Join(module, "models.py"))

	c := moduledir.Classify(filepath.Join(module, "models.py"))
	assert.True(t, c.InModule)
	assert.Equal(t, "old_module", c.ModuleName)
}

func TestHasReadme(t *testing.T) {
	root := t.TempDir()
	assert.False(t, moduledir.HasReadme(root))

	writeFile(t, filepath.Join(root, "README.md"))
	assert.True(t, moduledir.HasReadme(root))
}

func TestIsManifestName(t *testing.T) {
	assert.True(t, moduledir.IsManifestName("__manifest__.py"))
	assert.True(t, moduledir.IsManifestName("__openerp__.py"))
	assert.False(t, moduledir.IsManifestName("models.py"))
}
