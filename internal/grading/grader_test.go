package grading

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repeater-test-service/internal/domain"
	"repeater-test-service/internal/solution"
)

func fullCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	return domain.DefaultCatalog()
}

func smallCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog(
		[]string{"X", "Y", "Z", "W"},
		[]string{"Milton Reservoir"},
	)
	require.NoError(t, err)
	return catalog
}

// perfectPartOne builds the response that matches the key on every label.
func perfectPartOne(key domain.SolutionKey) map[domain.Label]string {
	guesses := make(map[domain.Label]string, len(key))
	for item, label := range key {
		guesses[label] = item
	}
	return guesses
}

func TestPerfectPartOneScoresHundredPercent(t *testing.T) {
	catalog := fullCatalog(t)
	require.Equal(t, 24, catalog.Len())

	key, err := solution.NewGenerator(3).Key(catalog)
	require.NoError(t, err)

	grader := New(catalog, DefaultPolicy())
	report := grader.Grade("2242", domain.NormalizedResponse{
		PartOne: perfectPartOne(key),
		PartTwo: map[string][]string{},
	}, key, domain.ScenarioSolutionSet{})

	assert.Equal(t, 24, report.PartOneScore)
	assert.Equal(t, 24, report.PartOnePossible)
	assert.Equal(t, 100, report.PartOnePercent)
}

func TestPartOneMonotonicity(t *testing.T) {
	catalog := fullCatalog(t)
	key, err := solution.NewGenerator(5).Key(catalog)
	require.NoError(t, err)
	grader := New(catalog, DefaultPolicy())

	// Add one more correct guess per step; the score must never decrease.
	guesses := map[domain.Label]string{}
	prev := -1
	for item, label := range key {
		guesses[label] = item
		report := grader.Grade("2200", domain.NormalizedResponse{
			PartOne: guesses,
			PartTwo: map[string][]string{},
		}, key, domain.ScenarioSolutionSet{})
		require.Greater(t, report.PartOneScore, prev)
		prev = report.PartOneScore
	}
	assert.Equal(t, catalog.Len(), prev)
}

func TestPartTwoExactRequiredYieldsFullCreditOnly(t *testing.T) {
	catalog := smallCatalog(t)
	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {
			Required: []string{"X", "Y"},
			Optional: []string{"Z"},
			Unlikely: []string{"W"},
		},
	}
	grader := New(catalog, DefaultPolicy())

	report := grader.Grade("2200", domain.NormalizedResponse{
		PartOne: map[domain.Label]string{},
		PartTwo: map[string][]string{"Milton Reservoir": {"X", "Y"}},
	}, domain.SolutionKey{}, scenarios)

	assert.Equal(t, 10, report.PartTwoScore)
	assert.Equal(t, 10, report.PartTwoTarget)
	assert.Equal(t, 100, report.PartTwoPercent)
	assertNoLineKind(t, report, domain.LineBonus)
	assertNoLineKind(t, report, domain.LineDeduction)
}

func TestPartTwoPartialCreditWithBonus(t *testing.T) {
	catalog := smallCatalog(t)
	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {
			Required: []string{"X", "Y"},
			Optional: []string{"Z"},
			Unlikely: []string{"W"},
		},
	}
	grader := New(catalog, DefaultPolicy())

	// One required missed, one optional selected: partial credit plus one bonus.
	report := grader.Grade("2200", domain.NormalizedResponse{
		PartOne: map[domain.Label]string{},
		PartTwo: map[string][]string{"Milton Reservoir": {"X", "Z"}},
	}, domain.SolutionKey{}, scenarios)

	policy := DefaultPolicy()
	assert.Equal(t, policy.PartialCreditPoints+policy.BonusPerOptional, report.PartTwoScore)
	assertNoLineKind(t, report, domain.LineDeduction)
	assertHasLineKind(t, report, domain.LinePartial)
	assertHasLineKind(t, report, domain.LineBonus)
}

func TestPartTwoPartialCreditCanBeDisabled(t *testing.T) {
	catalog := smallCatalog(t)
	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {Required: []string{"X", "Y"}},
	}
	policy := DefaultPolicy()
	policy.PartialCreditEnabled = false
	grader := New(catalog, policy)

	report := grader.Grade("2200", domain.NormalizedResponse{
		PartTwo: map[string][]string{"Milton Reservoir": {"X"}},
	}, domain.SolutionKey{}, scenarios)

	assert.Equal(t, 0, report.PartTwoScore)
	assertNoLineKind(t, report, domain.LinePartial)
}

func TestPartTwoDeductionsCanGoNegative(t *testing.T) {
	catalog := smallCatalog(t)
	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {
			Required: []string{"X"},
			Unlikely: []string{"W", "Y", "Z"},
		},
	}
	policy := DefaultPolicy()
	policy.DeductionPerUnlikely = 5
	grader := New(catalog, policy)

	// No required selected, three unlikely selected: -15, never clamped.
	report := grader.Grade("2200", domain.NormalizedResponse{
		PartTwo: map[string][]string{"Milton Reservoir": {"W", "Y", "Z"}},
	}, domain.SolutionKey{}, scenarios)

	assert.Equal(t, -15, report.PartTwoScore)
	assert.Equal(t, -150, report.PartTwoPercent)
}

func TestGradingIsDeterministic(t *testing.T) {
	catalog := fullCatalog(t)
	key, err := solution.NewGenerator(11).Key(catalog)
	require.NoError(t, err)

	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {Required: []string{"BOWMAN"}, Optional: []string{"OREGON"}},
		"Penner Lake":      {Required: []string{"DONNER"}, Unlikely: []string{"SIGNAL"}},
	}
	resp := domain.NormalizedResponse{
		PartOne: perfectPartOne(key),
		PartTwo: map[string][]string{
			"Milton Reservoir": {"BOWMAN", "OREGON"},
			"Penner Lake":      {"SIGNAL"},
		},
	}

	grader := New(catalog, DefaultPolicy())
	first := grader.Grade("2242", resp, key, scenarios)
	second := grader.Grade("2242", resp, key, scenarios)
	assert.Equal(t, first, second)
}

func TestRenderIncludesSectionsAndPercentages(t *testing.T) {
	catalog := smallCatalog(t)
	key := domain.SolutionKey{"X": "A", "Y": "B", "Z": "C", "W": "D"}
	scenarios := domain.ScenarioSolutionSet{
		"Milton Reservoir": {Required: []string{"X"}, Optional: []string{"Z"}},
	}
	grader := New(catalog, DefaultPolicy())

	report := grader.Grade("2242", domain.NormalizedResponse{
		PartOne: map[domain.Label]string{"A": "X", "B": "Z"},
		PartTwo: map[string][]string{"Milton Reservoir": {"X", "Z"}},
	}, key, scenarios)

	text := Render(report)
	assert.Contains(t, text, "Results for Map ID 2242")
	assert.Contains(t, text, "CORRECT: A = X")
	assert.Contains(t, text, "INCORRECT: B = Y  (you guessed Z)")
	assert.Contains(t, text, "Milton Reservoir:  you selected X,Z")
	assert.Contains(t, text, "Part One Score: "+strconv.Itoa(report.PartOnePercent)+"%")
	assert.Contains(t, text, "Part Two Score: 110%")
	// Part one lines precede part two lines.
	assert.Less(t, strings.Index(text, "Part One Score"), strings.Index(text, "Part Two"))
}
