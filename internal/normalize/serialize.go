package normalize

import (
	"encoding/json"
	"strconv"

	"repeater-test-service/internal/domain"
)

// Serialize re-encodes a normalized response in the current wire shape
// (selection lists for both parts). Normalizing the result yields an
// identical NormalizedResponse, which is what makes stored responses safe to
// re-grade from their canonical form.
func (n *Normalizer) Serialize(resp domain.NormalizedResponse) (map[string]string, error) {
	rows := make([]map[string]string, n.catalog.Len())
	for i := range rows {
		rows[i] = map[string]string{}
	}
	for label, item := range resp.PartOne {
		rowIdx, ok := n.catalog.ItemIndex(item)
		if !ok {
			continue
		}
		column := int(label[0] - 'A')
		rows[rowIdx] = map[string]string{strconv.Itoa(column): string(label)}
	}

	locations := n.catalog.Locations()
	lists := make([][]string, len(locations))
	for i, location := range locations {
		lists[i] = append([]string{}, resp.PartTwo[location]...)
	}

	partOne, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	partTwo, err := json.Marshal(lists)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		FieldPartOne: string(partOne),
		FieldPartTwo: string(partTwo),
	}, nil
}
