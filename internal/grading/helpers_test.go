package grading

import (
	"testing"

	"repeater-test-service/internal/domain"
)

func assertNoLineKind(t *testing.T, report domain.ScoreReport, kind domain.LineKind) {
	t.Helper()
	for _, line := range report.Lines {
		if line.Kind == kind {
			t.Errorf("expected no %q lines, found: %+v", kind, line)
		}
	}
}

func assertHasLineKind(t *testing.T, report domain.ScoreReport, kind domain.LineKind) {
	t.Helper()
	for _, line := range report.Lines {
		if line.Kind == kind {
			return
		}
	}
	t.Errorf("expected at least one %q line, found none", kind)
}
