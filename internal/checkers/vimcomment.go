package checkers

import (
	"regexp"

	"github.com/addonlint/addonlint/internal/pyast"
)

var vimModeline = regexp.MustCompile(`^#\s*vim:`)

// vimComment flags editor modeline comments, which belong in personal
// editor configuration rather than in shared source files.
type vimComment struct{}

func (vimComment) Kinds() []pyast.Kind { return nil }

func (vimComment) Check(*Pass, pyast.Node) {}

func (vimComment) Finish(p *Pass) {
	for _, c := range p.Comments {
		if vimModeline.MatchString(c.Text) {
			p.ReportAt("use-vim-comment", c.Pos, "")
		}
	}
}
