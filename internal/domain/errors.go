package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrParticipantNotFound is returned when a registry operation names an
	// unknown participant.
	ErrParticipantNotFound = errors.New("participant not found in registry")
	// ErrRegistryConflict signals that a concurrent writer updated the
	// registry between read and write; the caller may retry the pass.
	ErrRegistryConflict = errors.New("registry version conflict")
)

// ConfigurationError is fatal at load time: insufficient labels, malformed
// solution authoring, or unusable config. It must block startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// UnknownInstanceError means the referenced instance id has no stored
// solution key. The grading pass aborts and nothing is persisted.
type UnknownInstanceError struct {
	InstanceID string
}

func (e *UnknownInstanceError) Error() string {
	return fmt.Sprintf("no solution key for instance %q", e.InstanceID)
}

// MalformedResponseError means a required part is absent from the payload.
// Grading aborts before any partial score is computed or persisted.
type MalformedResponseError struct {
	Part string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("response is missing required part %q", e.Part)
}

// UnsupportedSchemaError means the payload matched none of the known wire
// encodings. Grading aborts identically to a malformed response.
type UnsupportedSchemaError struct {
	Part   string
	Detail string
}

func (e *UnsupportedSchemaError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("unrecognized payload shape for part %q", e.Part)
	}
	return fmt.Sprintf("unrecognized payload shape for part %q: %s", e.Part, e.Detail)
}
