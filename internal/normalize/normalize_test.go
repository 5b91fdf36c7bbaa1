package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repeater-test-service/internal/domain"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog(
		[]string{"ALDER HILL", "BOWMAN", "DONNER", "OREGON"},
		[]string{"Milton Reservoir", "Penner Lake", "Sagehen CG"},
	)
	require.NoError(t, err)
	return catalog
}

func TestStripFieldPrefixes(t *testing.T) {
	fields := map[string]string{
		"q3_partOne":       "x",
		"q12_partTwo":      "y",
		"q5_participantId": "101",
		"mapId":            "2242", // unprefixed keys pass through
		"quantity":         "3",    // "q" without ordinal is not a prefix
	}
	stripped := StripFieldPrefixes(fields)
	assert.Equal(t, "x", stripped["partOne"])
	assert.Equal(t, "y", stripped["partTwo"])
	assert.Equal(t, "101", stripped["participantId"])
	assert.Equal(t, "2242", stripped["mapId"])
	assert.Equal(t, "3", stripped["quantity"])

	// Idempotent: stripping twice changes nothing.
	assert.Equal(t, stripped, StripFieldPrefixes(stripped))
}

func TestNormalizeAllThreePartOneShapesAgree(t *testing.T) {
	n := New(testCatalog(t))
	partTwo := `[["ALDER HILL"],[],[]]`

	// Row 0 -> A, row 1 -> C, row 3 -> B; row 2 unanswered.
	payloads := map[string]string{
		"legacy-grid":    `{"0":{"0":"A","1":false},"1":{"0":false,"2":"C"},"3":{"1":"B"}}`,
		"selection-list": `[{"0":"A"},{"2":"C"},{},{"1":"B"}]`,
		"defective-row0": `[["A"],{"2":"C"},{},{"1":"B"}]`,
	}

	want := map[domain.Label]string{
		"A": "ALDER HILL",
		"C": "BOWMAN",
		"B": "OREGON",
	}

	for name, partOne := range payloads {
		resp, err := n.Normalize(map[string]string{
			"partOne": partOne,
			"partTwo": partTwo,
		})
		require.NoErrorf(t, err, "shape %s", name)
		assert.Equalf(t, want, resp.PartOne, "shape %s", name)
	}
}

func TestNormalizeDefectiveRowZeroMatchesMapForm(t *testing.T) {
	n := New(testCatalog(t))
	partTwo := `[[],[],[]]`

	defective, err := n.Normalize(map[string]string{
		"partOne": `[["D"],{"1":"B"}]`,
		"partTwo": partTwo,
	})
	require.NoError(t, err)

	mapForm, err := n.Normalize(map[string]string{
		"partOne": `[{"0":"D"},{"1":"B"}]`,
		"partTwo": partTwo,
	})
	require.NoError(t, err)

	assert.Equal(t, mapForm, defective)
}

func TestNormalizePartTwoShapes(t *testing.T) {
	n := New(testCatalog(t))
	partOne := `[{"0":"A"}]`

	want := map[string][]string{
		"Milton Reservoir": {"BOWMAN", "OREGON"},
		"Sagehen CG":       {"DONNER"},
	}

	sequence, err := n.Normalize(map[string]string{
		"partOne": partOne,
		"partTwo": `[["BOWMAN","OREGON"],[],["DONNER"]]`,
	})
	require.NoError(t, err)
	assert.Equal(t, want, sequence.PartTwo)

	legacy, err := n.Normalize(map[string]string{
		"partOne": partOne,
		"partTwo": `{"0":{"0":"BOWMAN","1":false,"2":"OREGON"},"2":{"0":"DONNER"}}`,
	})
	require.NoError(t, err)
	assert.Equal(t, want, legacy.PartTwo)
}

func TestNormalizeMissingPartFails(t *testing.T) {
	n := New(testCatalog(t))

	_, err := n.Normalize(map[string]string{"partOne": `[{"0":"A"}]`})
	var malformed *domain.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "partTwo", malformed.Part)

	_, err = n.Normalize(map[string]string{"q2_partTwo": `[[]]`})
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "partOne", malformed.Part)
}

func TestNormalizeUnknownShapeFails(t *testing.T) {
	n := New(testCatalog(t))

	_, err := n.Normalize(map[string]string{
		"partOne": `"A,B,C"`, // a bare string is no known encoding
		"partTwo": `[[]]`,
	})
	var unsupported *domain.UnsupportedSchemaError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "partOne", unsupported.Part)

	_, err = n.Normalize(map[string]string{
		"partOne": `[{"0":"A"}]`,
		"partTwo": `42`,
	})
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "partTwo", unsupported.Part)
}

func TestNormalizeSerializeRoundTrip(t *testing.T) {
	n := New(testCatalog(t))

	resp, err := n.Normalize(map[string]string{
		"q1_partOne": `{"0":{"0":"A"},"1":{"2":"C"},"3":{"1":"B"}}`,
		"q2_partTwo": `{"0":{"0":"BOWMAN"},"1":{"0":"ALDER HILL","1":"DONNER"}}`,
	})
	require.NoError(t, err)

	fields, err := n.Serialize(resp)
	require.NoError(t, err)

	again, err := n.Normalize(fields)
	require.NoError(t, err)
	assert.Equal(t, resp, again)
}
