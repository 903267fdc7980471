package checkers

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/addonlint/addonlint/internal/manifest"
	"github.com/addonlint/addonlint/internal/moduledir"
	"github.com/addonlint/addonlint/internal/pyast"
)

var (
	requiredManifestKeys   = []string{"author", "license"}
	deprecatedManifestKeys = []string{"active"}

	// resourceKeys are the manifest entries whose values name files
	// relative to the module root.
	resourceKeys = []string{"data", "demo"}

	allowedLicenses = map[string]bool{
		"AGPL-3":                     true,
		"GPL-2":                      true,
		"GPL-2 or any later version": true,
		"GPL-3":                      true,
		"GPL-3 or any later version": true,
		"LGPL-3":                     true,
		"Other OSI approved licence": true,
		"Other proprietary":          true,
		"OEEL-1":                     true,
		"OPL-1":                      true,
	}

	allowedDevelopmentStatuses = []string{"Alpha", "Beta", "Production/Stable", "Mature"}

	readmeCandidates = "README.rst, README.md or README.txt"
)

// RunManifest validates one module descriptor file. A descriptor that does
// not evaluate to a mapping produces a single syntax finding; nothing else
// is checked for it, since every other rule would just cascade from the
// same defect.
func RunManifest(p *Pass, src []byte) {
	rec, err := manifest.Parse(p.File, src)
	if err != nil {
		p.ReportAt("manifest-syntax-error", pyast.Position{Filename: p.File, Line: 1, Col: 1}, "", err)
		return
	}

	for _, key := range requiredManifestKeys {
		if !rec.Has(key) {
			p.ReportAt("manifest-required-key", rec.Pos(key), "", key)
		}
	}
	for _, key := range deprecatedManifestKeys {
		if rec.Has(key) {
			p.ReportAt("manifest-deprecated-key", rec.Pos(key), "", key)
		}
	}

	checkVersion(p, rec)
	checkAuthor(p, rec)
	checkDataDuplicated(p, rec)
	checkMaintainers(p, rec)
	checkLicense(p, rec)
	checkDevelopmentStatus(p, rec)
	checkWebsite(p, rec)
	checkResources(p, rec)
	checkReadme(p, rec)
}

func checkVersion(p *Pass, rec *manifest.Record) {
	if !rec.Has("version") {
		return
	}
	version := rec.String("version")
	if !p.Config.VersionMatches(version) {
		p.ReportAt("manifest-version-format", rec.Pos("version"), "", version)
	}
}

func checkAuthor(p *Pass, rec *manifest.Record) {
	if rec.Has("author") {
		if _, ok := rec.Values["author"].(string); !ok {
			p.ReportAt("manifest-author-string", rec.Pos("author"), "", typeName(rec.Values["author"]))
		}
	}

	authors := rec.AuthorSet()
	required := p.Config.RequiredAuthors()
	for _, want := range required {
		if authors[want] {
			return
		}
	}
	p.ReportAt("manifest-required-author", rec.Pos("author"), "", strings.Join(required, ", "))
}

// checkDataDuplicated flags paths listed more than once. The data, demo
// and qweb sequences share one namespace: listing a file under two of
// them double-loads it just as listing it twice under one does.
func checkDataDuplicated(p *Pass, rec *manifest.Record) {
	seen := map[string]bool{}
	reported := map[string]bool{}
	for _, key := range []string{"data", "demo", "qweb"} {
		for _, path := range rec.StringList(key) {
			if seen[path] && !reported[path] {
				p.ReportAt("manifest-data-duplicated", rec.Pos(key), "", path)
				reported[path] = true
			}
			seen[path] = true
		}
	}
}

func checkMaintainers(p *Pass, rec *manifest.Record) {
	if !rec.Has("maintainers") {
		return
	}
	if _, ok := rec.Values["maintainers"].([]any); !ok {
		p.ReportAt("manifest-maintainers-list", rec.Pos("maintainers"), "")
	}
}

func checkLicense(p *Pass, rec *manifest.Record) {
	if !rec.Has("license") {
		return
	}
	if license := rec.String("license"); !allowedLicenses[license] {
		p.ReportAt("license-allowed", rec.Pos("license"), "", license)
	}
}

func checkDevelopmentStatus(p *Pass, rec *manifest.Record) {
	if !rec.Has("development_status") {
		return
	}
	status := rec.String("development_status")
	for _, allowed := range allowedDevelopmentStatuses {
		if status == allowed {
			return
		}
	}
	p.ReportAt("development-status-allowed", rec.Pos("development_status"), "",
		status, strings.Join(allowedDevelopmentStatuses, ", "))
}

func checkWebsite(p *Pass, rec *manifest.Record) {
	if !rec.Has("website") {
		return
	}
	website := rec.String("website")
	u, err := url.Parse(website)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		p.ReportAt("website-manifest-key-not-valid-uri", rec.Pos("website"), "", website)
	}
}

func checkResources(p *Pass, rec *manifest.Record) {
	root := p.Class.ModuleRoot
	if root == "" {
		return
	}
	for _, key := range resourceKeys {
		paths := rec.StringList(key)
		sorted := append([]string(nil), paths...)
		sort.Strings(sorted)
		seen := map[string]bool{}
		for _, rel := range sorted {
			if seen[rel] {
				continue
			}
			seen[rel] = true
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
				p.ReportAt("resource-not-exist", rec.Pos(key), "", rel)
			}
		}
	}
}

func checkReadme(p *Pass, rec *manifest.Record) {
	root := p.Class.ModuleRoot
	if root == "" || p.Class.IsMigrationScript {
		return
	}
	if !moduledir.HasReadme(root) {
		p.ReportAt("missing-readme", pyast.Position{Filename: rec.Path, Line: 1, Col: 1}, "", readmeCandidates)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "a list"
	case map[string]any:
		return "a mapping"
	case nil:
		return "None"
	default:
		return fmt.Sprintf("%T", v)
	}
}
