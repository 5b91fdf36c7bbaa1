// Package grading applies the scoring policy to a normalized response and
// produces an auditable, deterministic score report.
package grading

import (
	"fmt"
	"math"
	"strings"

	"repeater-test-service/internal/domain"
)

// Grader scores normalized responses against stored solutions. It is
// stateless apart from the catalog and policy, so grading the same inputs
// twice yields identical reports.
type Grader struct {
	catalog *domain.Catalog
	policy  Policy
}

func New(catalog *domain.Catalog, policy Policy) *Grader {
	return &Grader{catalog: catalog, policy: policy}
}

// Grade scores both parts of a response against the instance's solution key
// and the shared scenario solutions. Persistence, audit, and notification are
// service concerns; the report itself carries no timestamps.
func (g *Grader) Grade(instanceID string, resp domain.NormalizedResponse, key domain.SolutionKey, scenarios domain.ScenarioSolutionSet) domain.ScoreReport {
	report := domain.ScoreReport{InstanceID: instanceID}
	g.gradePartOne(&report, resp, key)
	g.gradePartTwo(&report, resp, scenarios)
	return report
}

// gradePartOne compares the participant's claimed item per label against the
// solution bijection: one exact match, one point.
func (g *Grader) gradePartOne(report *domain.ScoreReport, resp domain.NormalizedResponse, key domain.SolutionKey) {
	byLabel := key.ByLabel()

	score := 0
	for _, label := range g.catalog.Labels() {
		correct := byLabel[label]
		guessed, answered := resp.PartOne[label]
		switch {
		case answered && guessed == correct:
			score++
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 1,
				Kind: domain.LineCorrect,
				Text: fmt.Sprintf("CORRECT: %s = %s", label, correct),
			})
		case answered:
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 1,
				Kind: domain.LineIncorrect,
				Text: fmt.Sprintf("INCORRECT: %s = %s  (you guessed %s)", label, correct, guessed),
			})
		default:
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 1,
				Kind: domain.LineIncorrect,
				Text: fmt.Sprintf("INCORRECT: %s = %s  (no guess)", label, correct),
			})
		}
	}

	report.PartOneScore = score
	report.PartOnePossible = g.catalog.Len()
	report.PartOnePercent = percent(score, report.PartOnePossible)
}

// gradePartTwo classifies every selected item per scenario into
// required/optional/unlikely and applies the policy weights. The per-scenario
// target is the full-credit weight only.
func (g *Grader) gradePartTwo(report *domain.ScoreReport, resp domain.NormalizedResponse, scenarios domain.ScenarioSolutionSet) {
	total := 0
	target := 0

	for _, location := range g.catalog.Locations() {
		solution, ok := scenarios[location]
		if !ok {
			continue
		}
		selected := resp.PartTwo[location]

		var requiredHit, optionalHit, unlikelyHit []string
		seen := make(map[string]bool, len(selected))
		for _, item := range selected {
			if seen[item] {
				continue // repeated selections count once
			}
			seen[item] = true
			switch {
			case contains(solution.Required, item):
				requiredHit = append(requiredHit, item)
			case contains(solution.Optional, item):
				optionalHit = append(optionalHit, item)
			case contains(solution.Unlikely, item):
				unlikelyHit = append(unlikelyHit, item)
			}
			// Items in no tier are unknown guesses: no credit, no penalty.
		}

		report.Lines = append(report.Lines, domain.ReportLine{
			Part: 2,
			Kind: domain.LineInfo,
			Text: fmt.Sprintf("%s:  you selected %s", location, joinOrNone(selected)),
		})

		missed := len(solution.Required) - len(requiredHit)
		switch {
		case missed == 0:
			total += g.policy.FullCreditPoints
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 2,
				Kind: domain.LineCorrect,
				Text: fmt.Sprintf("    CORRECT: Your selections included all of the most likely repeaters (%s)", join(solution.Required)),
			})
		case missed == 1 && g.policy.PartialCreditEnabled:
			total += g.policy.PartialCreditPoints
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 2,
				Kind: domain.LinePartial,
				Text: fmt.Sprintf("    PARTIAL: Your selections missed one of the most likely repeaters (%s)", join(solution.Required)),
			})
		default:
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 2,
				Kind: domain.LineIncorrect,
				Text: fmt.Sprintf("  INCORRECT: Your selections did not include all of the most likely repeaters (%s)", join(solution.Required)),
			})
		}

		if n := len(optionalHit); n > 0 {
			total += n * g.policy.BonusPerOptional
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 2,
				Kind: domain.LineBonus,
				Text: fmt.Sprintf("      BONUS: You selected %d of the other possible repeaters (%s)", n, join(solution.Optional)),
			})
		}
		if n := len(unlikelyHit); n > 0 {
			total -= n * g.policy.DeductionPerUnlikely
			report.Lines = append(report.Lines, domain.ReportLine{
				Part: 2,
				Kind: domain.LineDeduction,
				Text: fmt.Sprintf("  DEDUCTION: You selected %d of the highly-unlikely repeaters (%s)", n, join(solution.Unlikely)),
			})
		}

		target += g.policy.FullCreditPoints
	}

	report.PartTwoScore = total
	report.PartTwoTarget = target
	report.PartTwoPercent = percent(total, target)
}

// percent rounds score/possible to a whole percentage. Negative scores yield
// negative percentages; clamping would hide the deduction policy's effect.
func percent(score, possible int) int {
	if possible == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(possible) * 100))
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func join(list []string) string {
	return strings.Join(list, ",")
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return join(list)
}
