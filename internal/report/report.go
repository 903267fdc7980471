// Package report renders findings for consumption by humans (text) and by
// code-scanning tooling (SARIF).
package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/addonlint/addonlint/internal/rules"
)

const informationURI = "https://github.com/addonlint/addonlint"

// WriteText writes one finding per line in file:line: [rule, symbol]
// message form.
func WriteText(w io.Writer, findings []rules.Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSARIF writes the findings as a single-run SARIF 2.1.0 document.
func WriteSARIF(w io.Writer, findings []rules.Finding) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("report: creating SARIF document: %w", err)
	}

	run := sarif.NewRunWithInformationURI("addonlint", informationURI)
	for _, f := range findings {
		def := rules.MustGet(f.RuleID)
		rule := run.AddRule(def.ID).
			WithDescription(def.Template).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSARIFLevel(def.Category),
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(toSARIFLevel(def.Category)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	doc.AddRun(run)

	if err := doc.PrettyWrite(w); err != nil {
		return fmt.Errorf("report: writing SARIF document: %w", err)
	}
	return nil
}

func toSARIFLevel(cat rules.Category) string {
	switch cat {
	case rules.CategoryError:
		return "error"
	case rules.CategoryWarning:
		return "warning"
	default:
		return "note"
	}
}
