package domain

import "time"

// SolutionKey is the per-instance answer key for part one: a bijection from
// item name to label. Written once by the generator, read-only afterward.
type SolutionKey map[string]Label

// ByLabel inverts the key into label -> item form, which is the direction
// grading iterates in.
func (k SolutionKey) ByLabel() map[Label]string {
	inverted := make(map[Label]string, len(k))
	for item, label := range k {
		inverted[label] = item
	}
	return inverted
}

// SolutionSet maps instance id -> part-one solution key.
type SolutionSet map[string]SolutionKey

// TieredSolution is the hand-authored part-two answer for one location:
// the required/optional/unlikely partition of items.
type TieredSolution struct {
	Required []string `json:"required"`
	Optional []string `json:"optional"`
	Unlikely []string `json:"unlikely"`
}

// ScenarioSolutionSet maps location name -> tiered solution. Shared across
// all instances; validated once at load time.
type ScenarioSolutionSet map[string]TieredSolution

// NormalizedResponse is the canonical form of a submission, independent of
// which wire encoding it arrived in.
type NormalizedResponse struct {
	// PartOne holds the participant's guessed item per label.
	PartOne map[Label]string
	// PartTwo holds the ordered item selections per location.
	PartTwo map[string][]string
}

// LineKind classifies one rationale line of a score report.
type LineKind string

const (
	LineInfo      LineKind = "info"
	LineCorrect   LineKind = "correct"
	LineIncorrect LineKind = "incorrect"
	LinePartial   LineKind = "partial"
	LineBonus     LineKind = "bonus"
	LineDeduction LineKind = "deduction"
)

// ReportLine is one entry of the line-by-line grading rationale.
type ReportLine struct {
	Part int      `json:"part"` // 1 or 2
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// ScoreReport is the immutable outcome of grading one submission.
// It carries no timestamps so that grading stays deterministic; lifecycle
// timestamps live on the ParticipantRecord.
type ScoreReport struct {
	InstanceID string `json:"instanceId"`

	PartOneScore    int `json:"partOneScore"`
	PartOnePossible int `json:"partOnePossible"`
	PartOnePercent  int `json:"partOnePercent"`

	PartTwoScore   int `json:"partTwoScore"`
	PartTwoTarget  int `json:"partTwoTarget"`
	PartTwoPercent int `json:"partTwoPercent"`

	Lines []ReportLine `json:"lines"`
}

// ParticipantRecord tracks one participant across the whole test workflow.
// Pointer timestamps distinguish "not yet happened" from a real time; a nil
// GradedNotifiedAt after grading means the result email still needs delivery.
type ParticipantRecord struct {
	ID                 string       `json:"id"`
	Email              string       `json:"email,omitempty"`
	InstanceID         string       `json:"instanceId,omitempty"`
	AssignmentSentAt   *time.Time   `json:"assignmentSentAt,omitempty"`
	ResponseReceivedAt *time.Time   `json:"responseReceivedAt,omitempty"`
	Report             *ScoreReport `json:"report,omitempty"`
	GradedAt           *time.Time   `json:"gradedAt,omitempty"`
	GradedNotifiedAt   *time.Time   `json:"gradedNotifiedAt,omitempty"`
}

// RosterEntry is one participant from the roster collaborator.
type RosterEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GradedResult is the event published after a grading pass completes.
type GradedResult struct {
	ParticipantID  string    `json:"participantId"`
	InstanceID     string    `json:"instanceId"`
	PartOnePercent int       `json:"partOnePercent"`
	PartTwoPercent int       `json:"partTwoPercent"`
	GradedAt       time.Time `json:"gradedAt"`
}
