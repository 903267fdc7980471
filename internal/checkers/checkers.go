// Package checkers implements the diagnostic rules.
//
// Each checker registers interest in one or more node kinds and is invoked
// once per matching node during a single traversal of the file's tree.
// Checkers are logically independent: none observes another's findings,
// which is what keeps the enable/disable algebra exact.
package checkers

import (
	"github.com/addonlint/addonlint/internal/config"
	"github.com/addonlint/addonlint/internal/directives/noqa"
	"github.com/addonlint/addonlint/internal/moduledir"
	"github.com/addonlint/addonlint/internal/pyast"
	"github.com/addonlint/addonlint/internal/pyparse"
	"github.com/addonlint/addonlint/internal/rules"
)

// Pass carries the per-file state shared by every checker invocation and
// collects the findings. A fresh Pass is built per file; nothing in it
// outlives the file, so concurrent analyses of different files need no
// coordination.
type Pass struct {
	File     string
	Class    moduledir.Classification
	Config   *config.Config
	Comments []pyparse.Comment
	Suppress noqa.Map

	findings []rules.Finding
}

// NewPass builds the per-file state. The comment side channel feeds both
// the inline suppression map and the comment-level checkers.
func NewPass(file string, class moduledir.Classification, cfg *config.Config, comments []pyparse.Comment) *Pass {
	return &Pass{File: file, Class: class, Config: cfg, Comments: comments, Suppress: noqa.Build(comments)}
}

// Findings returns what the checkers reported, in traversal order.
func (p *Pass) Findings() []rules.Finding { return p.findings }

// Report files a finding for rule at node n, honoring rule enablement and
// inline suppressions. The enclosing symbol name is derived from n.
func (p *Pass) Report(rule string, n pyast.Node, args ...any) {
	p.ReportAt(rule, n.Pos(), pyast.EnclosingSymbol(n), args...)
}

// ReportAt files a finding at an explicit location.
func (p *Pass) ReportAt(rule string, pos pyast.Position, symbol string, args ...any) {
	if !p.Config.Enabled(rule) {
		return
	}
	if p.Suppress.Suppressed(pos.Line, rule) {
		return
	}
	p.findings = append(p.findings, rules.MustGet(rule).New(pos, symbol, args...))
}

// Checker inspects nodes of the kinds it declares. Checkers that keep
// per-file state get a fresh instance per pass.
type Checker interface {
	Kinds() []pyast.Kind
	Check(p *Pass, n pyast.Node)
}

// Finisher is implemented by checkers that report after the whole file has
// been traversed.
type Finisher interface {
	Finish(p *Pass)
}

// Factory builds one checker instance for one file pass.
type Factory func() Checker

// Registry maps node kinds to the checkers interested in them and drives
// the single shared traversal.
type Registry struct {
	factories []Factory
}

// NewRegistry returns a registry with the default checker set.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(
		func() Checker { return sqlInjection{} },
		func() Checker { return deprecatedAPI{} },
		func() Checker { return requestTimeout{} },
		func() Checker { return requiredSuper{} },
		func() Checker { return exceptPass{} },
		func() Checker { return translation{} },
		func() Checker { return &naming{inherited: map[string][]*pyast.ClassDef{}} },
		func() Checker { return fieldParams{} },
		func() Checker { return cursorCommit{} },
		func() Checker { return contextOverride{} },
		func() Checker { return importChecks{} },
		func() Checker { return vimComment{} },
	)
	return r
}

// Register adds checker factories.
func (r *Registry) Register(factories ...Factory) {
	r.factories = append(r.factories, factories...)
}

// Run traverses mod once, dispatching each node to the checkers that
// registered for its kind, then runs finishers.
func (r *Registry) Run(p *Pass, mod *pyast.Module) {
	instances := make([]Checker, len(r.factories))
	byKind := make(map[pyast.Kind][]Checker)
	for i, factory := range r.factories {
		c := factory()
		instances[i] = c
		for _, k := range c.Kinds() {
			byKind[k] = append(byKind[k], c)
		}
	}

	pyast.Inspect(mod, func(n pyast.Node) bool {
		for _, c := range byKind[pyast.KindOf(n)] {
			c.Check(p, n)
		}
		return true
	})

	for _, c := range instances {
		if f, ok := c.(Finisher); ok {
			f.Finish(p)
		}
	}
}
