package normalize

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"repeater-test-service/internal/domain"
)

// partOneRows maps catalog row index -> selected label.
type partOneRows map[int]domain.Label

// partOneDecoders are tried in priority order; each reports "not this shape"
// by returning ok=false, and the first match wins. Exhaustion means the
// provider shipped a shape we have never seen.
var partOneDecoders = []struct {
	name   string
	decode func([]byte) (partOneRows, bool)
}{
	{"legacy-grid", decodeLegacyGrid},
	{"selection-list", decodeSelectionList},
}

func (n *Normalizer) decodePartOne(raw []byte) (map[domain.Label]string, error) {
	for _, dec := range partOneDecoders {
		rows, ok := dec.decode(raw)
		if !ok {
			continue
		}
		return n.rowsToGuesses(rows), nil
	}
	return nil, &domain.UnsupportedSchemaError{Part: FieldPartOne}
}

// decodeLegacyGrid handles the oldest observed encoding: an object of row
// objects, each row a map of column index -> false or the selected label.
//
//	{"0":{"0":"A","1":false},"1":{"0":false,"1":"F"}}
func decodeLegacyGrid(raw []byte) (partOneRows, bool) {
	var grid map[string]map[string]any
	if err := json.Unmarshal(raw, &grid); err != nil {
		return nil, false
	}
	rows := make(partOneRows, len(grid))
	for rowKey, columns := range grid {
		rowIdx, err := strconv.Atoi(rowKey)
		if err != nil {
			return nil, false
		}
		label, found := truthyLabel(columns)
		if !found {
			continue // unanswered row
		}
		if !validLabel(label) {
			return nil, false
		}
		rows[rowIdx] = label
	}
	return rows, true
}

// decodeSelectionList handles the current encoding: an ordered array of
// single-key maps, the key being the column index and the value the selected
// label. One upstream revision serializes row 0 as a bare one-element array
// instead of a map; that defect is tolerated, not corrected.
//
//	[["A"],{"1":"F"},{},{"3":"B"}]
func decodeSelectionList(raw []byte) (partOneRows, bool) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	rows := make(partOneRows, len(entries))
	for rowIdx, entry := range entries {
		trimmed := strings.TrimSpace(string(entry))
		switch {
		case strings.HasPrefix(trimmed, "{"):
			var columns map[string]string
			if err := json.Unmarshal(entry, &columns); err != nil {
				return nil, false
			}
			if len(columns) == 0 {
				continue // unanswered row
			}
			label, ok := firstColumnValue(columns)
			if !ok || !validLabel(label) {
				return nil, false
			}
			rows[rowIdx] = label
		case strings.HasPrefix(trimmed, "["):
			var cells []string
			if err := json.Unmarshal(entry, &cells); err != nil {
				return nil, false
			}
			if len(cells) == 0 {
				continue
			}
			label := domain.Label(strings.TrimSpace(cells[0]))
			if len(cells) > 1 || !validLabel(label) {
				return nil, false
			}
			rows[rowIdx] = label
		default:
			return nil, false
		}
	}
	return rows, true
}

// rowsToGuesses resolves row indexes to catalog items, yielding the canonical
// label -> item mapping. Rows outside the catalog are dropped; rows are
// applied in ascending order so duplicate label claims resolve
// deterministically (last row wins).
func (n *Normalizer) rowsToGuesses(rows partOneRows) map[domain.Label]string {
	indexes := make([]int, 0, len(rows))
	for idx := range rows {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	guesses := make(map[domain.Label]string, len(rows))
	for _, idx := range indexes {
		item, ok := n.catalog.ItemAt(idx)
		if !ok {
			continue
		}
		guesses[rows[idx]] = item
	}
	return guesses
}

func (n *Normalizer) decodePartTwo(raw []byte) (map[string][]string, error) {
	// Current shape: an ordered array of per-location selection lists.
	var lists [][]string
	if err := json.Unmarshal(raw, &lists); err == nil {
		selections := make(map[string][]string, len(lists))
		for ordinal, selected := range lists {
			location, ok := n.catalog.LocationAt(ordinal)
			if !ok || len(selected) == 0 {
				continue
			}
			selections[location] = append([]string(nil), selected...)
		}
		return selections, nil
	}

	// Legacy shape: object of row objects with truthy item-name cells.
	var grid map[string]map[string]any
	if err := json.Unmarshal(raw, &grid); err == nil {
		selections := make(map[string][]string, len(grid))
		for rowKey, columns := range grid {
			ordinal, err := strconv.Atoi(rowKey)
			if err != nil {
				return nil, &domain.UnsupportedSchemaError{Part: FieldPartTwo, Detail: "non-numeric row key"}
			}
			location, ok := n.catalog.LocationAt(ordinal)
			if !ok {
				continue
			}
			selected := truthyValues(columns)
			if len(selected) == 0 {
				continue
			}
			selections[location] = selected
		}
		return selections, nil
	}

	return nil, &domain.UnsupportedSchemaError{Part: FieldPartTwo}
}

// truthyLabel picks the selected label out of a legacy grid row: the single
// truthy cell value. Columns are scanned in sorted order so malformed rows
// with several truthy cells resolve deterministically.
func truthyLabel(columns map[string]any) (domain.Label, bool) {
	for _, value := range sortedValues(columns) {
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			return domain.Label(strings.TrimSpace(s)), true
		}
	}
	return "", false
}

// truthyValues collects all truthy string cells of a legacy grid row in
// column order.
func truthyValues(columns map[string]any) []string {
	var out []string
	for _, value := range sortedValues(columns) {
		if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func sortedValues(columns map[string]any) []any {
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = columns[k]
	}
	return values
}

// firstColumnValue returns the value of the lowest column index in a
// selection-list row; well-formed rows have exactly one.
func firstColumnValue(columns map[string]string) (domain.Label, bool) {
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		value := strings.TrimSpace(columns[k])
		if value != "" {
			return domain.Label(value), true
		}
	}
	return "", false
}

// validLabel accepts only single uppercase letters; anything else marks the
// whole payload as an unrecognized shape rather than a silent partial parse.
func validLabel(label domain.Label) bool {
	return len(label) == 1 && label[0] >= 'A' && label[0] <= 'Z'
}
