// Package addonlint analyzes addon modules for common defects: unsafe SQL
// construction, deprecated APIs, translation misuse, naming conventions
// and manifest problems.
//
// # Usage
//
//	cfg := config.Default()
//	eng, err := addonlint.New(cfg, logger)
//	if err != nil {
//		...
//	}
//	findings, err := eng.Run([]string{"./addons"})
//
// Run walks the given paths and checks every Python source file and
// module manifest it finds. CheckFile and CheckManifest analyze a single
// file from in-memory source, which is what the tests use.
package addonlint

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/addonlint/addonlint/internal/checkers"
	"github.com/addonlint/addonlint/internal/config"
	"github.com/addonlint/addonlint/internal/moduledir"
	"github.com/addonlint/addonlint/internal/pyparse"
	"github.com/addonlint/addonlint/internal/rules"
)

// Engine runs the checker set over files and directories. An Engine is
// immutable after New and safe for concurrent use.
type Engine struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *checkers.Registry

	// deprecations are run-level findings produced by configuration
	// alias normalization, emitted once at the front of every Run.
	deprecations []rules.Finding
}

// New resolves cfg and builds an engine. A nil cfg means defaults. A
// configuration that does not resolve (for example a version format that
// is not a valid regular expression) fails the whole run here rather than
// misbehaving file by file.
func New(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	deprecations, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:          cfg,
		log:          log,
		registry:     checkers.NewRegistry(),
		deprecations: deprecations,
	}, nil
}

// Run analyzes every Python file and manifest under the given paths. A
// path may be a single file or a directory tree. Findings come back
// ordered by file, line and rule id; configuration deprecation findings,
// which have no real file location, come first.
//
// Source files that do not parse are skipped with a logged warning; a
// missing path is an error.
func (e *Engine) Run(paths []string) ([]Finding, error) {
	var files []string
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("addonlint: %w", err)
		}
		if !fi.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(p) == ".py" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("addonlint: walking %s: %w", path, err)
		}
	}
	sort.Strings(files)

	findings := append([]Finding(nil), e.deprecations...)
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("addonlint: %w", err)
		}
		var found []Finding
		if moduledir.IsManifestName(filepath.Base(file)) {
			found = e.CheckManifest(file, src)
		} else {
			found, err = e.CheckFile(file, src)
			if err != nil {
				e.log.Warn().Str("file", file).Err(err).Msg("skipping unparseable file")
				continue
			}
		}
		findings = append(findings, found...)
	}

	sortFindings(findings)
	return findings, nil
}

// CheckFile analyzes one Python source file. The error is non-nil only
// when src does not parse; findings are otherwise complete for the file.
func (e *Engine) CheckFile(path string, src []byte) ([]Finding, error) {
	mod, comments, err := pyparse.ParseFile(path, src)
	if err != nil {
		return nil, err
	}

	class := moduledir.Classify(path)
	pass := checkers.NewPass(path, class, e.cfg, comments)
	e.registry.Run(pass, mod)

	e.log.Debug().Str("file", path).Int("findings", len(pass.Findings())).Msg("checked file")
	return pass.Findings(), nil
}

// CheckManifest validates one module descriptor. A descriptor that does
// not evaluate to a mapping yields a single syntax finding, never an
// error.
func (e *Engine) CheckManifest(path string, src []byte) []Finding {
	// A descriptor is source like any other file; its comments feed the
	// same inline suppression channel. A failed parse still yields the
	// comments lexed before the failure point.
	_, comments, _ := pyparse.ParseFile(path, src)

	class := moduledir.Classify(path)
	pass := checkers.NewPass(path, class, e.cfg, comments)
	checkers.RunManifest(pass, src)

	e.log.Debug().Str("file", path).Int("findings", len(pass.Findings())).Msg("checked manifest")
	return pass.Findings()
}

func sortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].File != fs[j].File {
			return fs[i].File < fs[j].File
		}
		if fs[i].Line != fs[j].Line {
			return fs[i].Line < fs[j].Line
		}
		return fs[i].RuleID < fs[j].RuleID
	})
}
