package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"repeater-test-service/internal/domain"
)

// Roster reads participants from a JSON document, either a flat
// id -> email object or an array of {"id": ..., "email": ...} entries.
// The object form is sorted by id so assignment order is stable.
type Roster struct {
	path string
}

func NewRoster(path string) *Roster {
	return &Roster{path: path}
}

func (r *Roster) Participants(_ context.Context) ([]domain.RosterEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var entries []domain.RosterEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var byID map[string]string
	if err := json.Unmarshal(data, &byID); err != nil {
		return nil, &domain.ConfigurationError{Reason: fmt.Sprintf("roster %s: not a member array or id map", r.path)}
	}
	entries = make([]domain.RosterEntry, 0, len(byID))
	for id, email := range byID {
		entries = append(entries, domain.RosterEntry{ID: id, Email: email})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
