package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addonlint/addonlint/internal/report"
	"github.com/addonlint/addonlint/internal/rules"
)

var sample = []rules.Finding{
	{
		RuleID:  "sql-injection",
		Message: "SQL injection risk: query built from self.table",
		File:    "broken_module/models.py",
		Line:    29,
		Symbol:  "AccountReport.refresh",
	},
	{
		RuleID:  "missing-readme",
		Message: "module misses a readme file (README.rst, README.md or README.txt)",
		File:    "second_module/__manifest__.py",
		Line:    1,
	},
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, sample))

	want := "broken_module/models.py:29: [sql-injection, AccountReport.refresh] SQL injection risk: query built from self.table\n" +
		"second_module/__manifest__.py:1: [missing-readme] module misses a readme file (README.rst, README.md or README.txt)\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteSARIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSARIF(&buf, sample))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID  string `json:"ruleId"`
				Level   string `json:"level"`
				Message struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "addonlint", run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, 2)

	require.Len(t, run.Results, 2)
	first := run.Results[0]
	assert.Equal(t, "sql-injection", first.RuleID)
	assert.Equal(t, "error", first.Level)
	assert.Contains(t, first.Message.Text, "SQL injection risk")
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "broken_module/models.py", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 29, first.Locations[0].PhysicalLocation.Region.StartLine)

	assert.Equal(t, "note", run.Results[1].Level)
}

func TestWriteSARIFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSARIF(&buf, nil))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "runs")
}
