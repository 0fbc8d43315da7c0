// Package guidance renders a flag set as a prioritized, plain-text action plan.
package guidance

import (
	"strings"

	"charterline/internal/compliance/models"
)

// Straightforward is returned when no active flags remain.
const Straightforward = "Your formation appears straightforward. No additional compliance steps were identified."

type section struct {
	severity models.Severity
	header   string
}

// sections fixes the output order: most severe first.
var sections = []section{
	{models.SeverityHigh, "HIGH PRIORITY (address before filing)"},
	{models.SeverityMedium, "MEDIUM PRIORITY (address before starting activities)"},
	{models.SeverityLow, "LOW PRIORITY (recommended good practice)"},
}

// Format groups active flags by severity and lists each flag's title with its
// first remediation step. Within a group flags keep their input order.
// Sections are separated by a blank line; there is no trailing newline.
func Format(flags []models.ComplianceFlag) string {
	active := models.ActiveFlags(flags)
	if len(active) == 0 {
		return Straightforward
	}

	blocks := make([]string, 0, len(sections))
	for _, sec := range sections {
		var lines []string
		for _, f := range active {
			if f.Severity != sec.severity {
				continue
			}
			lines = append(lines, line(f))
		}
		if len(lines) == 0 {
			continue
		}
		blocks = append(blocks, sec.header+"\n"+strings.Join(lines, "\n"))
	}
	if len(blocks) == 0 {
		return Straightforward
	}
	return strings.Join(blocks, "\n\n")
}

func line(f models.ComplianceFlag) string {
	if step := f.FirstStep(); step != "" {
		return "- " + f.Title + ": " + step
	}
	return "- " + f.Title
}
