// Package file persists the solution documents, the assignment registry, and
// the audit log as plain files, which is all the durability a single-host
// deployment of this service needs.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"repeater-test-service/internal/domain"
	"repeater-test-service/internal/solution"
)

// LoadSolutionSet reads the instance-id-keyed part-one document. The set is
// loaded wholesale at process start and treated as immutable afterward.
func LoadSolutionSet(path string) (domain.SolutionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read part-one solutions: %w", err)
	}
	var set domain.SolutionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, &domain.ConfigurationError{Reason: "part-one solutions: " + err.Error()}
	}
	if len(set) == 0 {
		return nil, &domain.ConfigurationError{Reason: "part-one solutions: no instances in " + path}
	}
	return set, nil
}

// SaveSolutionSet writes a generated part-one document, indented for the
// occasional manual inspection.
func SaveSolutionSet(path string, set domain.SolutionSet) error {
	data, err := json.MarshalIndent(set, "", "   ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadScenarioSolutions reads and validates the hand-authored part-two
// document. Any authoring issue is fatal: the complete defect list is folded
// into a single ConfigurationError so one load surfaces every typo at once.
func LoadScenarioSolutions(path string, catalog *domain.Catalog) (domain.ScenarioSolutionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read part-two solutions: %w", err)
	}
	var raw solution.RawScenarioSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.ConfigurationError{Reason: "part-two solutions: " + err.Error()}
	}
	if issues := solution.Validate(raw, catalog); len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("part-two solutions have %d issue(s):\n  %s",
				len(issues), strings.Join(msgs, "\n  ")),
		}
	}
	return solution.Convert(raw), nil
}
