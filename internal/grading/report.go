package grading

import (
	"fmt"
	"strings"

	"repeater-test-service/internal/domain"
)

const reportRule = "-----------------------------------"
const reportBanner = "==================================="

// Render produces the full human-readable graded report, suitable for direct
// inclusion in the notification email body.
func Render(report domain.ScoreReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Repeater Test - Results for Map ID %s\n", report.InstanceID)
	b.WriteString(reportBanner + "\n")
	b.WriteString("Part One - match map letters to repeater names\n")
	b.WriteString(reportRule + "\n")
	for _, line := range report.Lines {
		if line.Part != 1 {
			continue
		}
		b.WriteString(line.Text + "\n")
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Part One Score: %d%%  (%d of %d)\n",
		report.PartOnePercent, report.PartOneScore, report.PartOnePossible)

	b.WriteString("\n" + reportBanner + "\n")
	b.WriteString("Part Two - repeaters likely to work at listed locations\n")
	b.WriteString(reportRule + "\n")
	for _, line := range report.Lines {
		if line.Part != 2 {
			continue
		}
		if line.Kind == domain.LineInfo {
			// Each scenario block starts with the "you selected" line.
			b.WriteString("\n")
		}
		b.WriteString(line.Text + "\n")
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Part Two Score: %d%%  (your score: %d   maximum possible: %d)\n",
		report.PartTwoPercent, report.PartTwoScore, report.PartTwoTarget)

	return b.String()
}
