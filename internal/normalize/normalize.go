// Package normalize converts raw submission payloads from the external form
// provider into the canonical response shape. The provider's wire format has
// drifted across revisions; decoding tries each known shape in a fixed
// priority order and fails loudly when none matches.
package normalize

import (
	"regexp"
	"strings"

	"repeater-test-service/internal/domain"
)

// Field names used by the form provider, after prefix stripping.
const (
	FieldPartOne     = "partOne"
	FieldPartTwo     = "partTwo"
	FieldParticipant = "participantId"
	FieldInstance    = "mapId"
)

// The provider prefixes every form field with its question ordinal, e.g.
// "q5_partOne". The ordinal is positional noise and must be stripped before
// lookup.
var fieldPrefix = regexp.MustCompile(`^q\d+_`)

// StripFieldPrefixes returns a copy of fields with the q<N>_ prefix removed
// from every key. Stripping is idempotent.
func StripFieldPrefixes(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[fieldPrefix.ReplaceAllString(key, "")] = value
	}
	return out
}

// Normalizer converts payloads against a fixed catalog: wire formats address
// items and locations by catalog ordinal, so the catalog is needed to resolve
// them to names.
type Normalizer struct {
	catalog *domain.Catalog
}

func New(catalog *domain.Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Normalize converts a raw field map into the canonical response form.
// A missing part yields a MalformedResponseError naming the part; a part
// whose content matches no known encoding yields an UnsupportedSchemaError.
func (n *Normalizer) Normalize(fields map[string]string) (domain.NormalizedResponse, error) {
	fields = StripFieldPrefixes(fields)

	rawOne, ok := fields[FieldPartOne]
	if !ok || strings.TrimSpace(rawOne) == "" {
		return domain.NormalizedResponse{}, &domain.MalformedResponseError{Part: FieldPartOne}
	}
	rawTwo, ok := fields[FieldPartTwo]
	if !ok || strings.TrimSpace(rawTwo) == "" {
		return domain.NormalizedResponse{}, &domain.MalformedResponseError{Part: FieldPartTwo}
	}

	partOne, err := n.decodePartOne([]byte(rawOne))
	if err != nil {
		return domain.NormalizedResponse{}, err
	}
	partTwo, err := n.decodePartTwo([]byte(rawTwo))
	if err != nil {
		return domain.NormalizedResponse{}, err
	}

	return domain.NormalizedResponse{PartOne: partOne, PartTwo: partTwo}, nil
}
