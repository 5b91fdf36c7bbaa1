package solution

import (
	"fmt"
	"sort"

	"repeater-test-service/internal/domain"
)

// RawScenarioSet is the part-two document exactly as authored:
// location -> tier name -> item names. Tier names are checked here rather
// than at decode time so that typos surface as issues, not silent drops.
type RawScenarioSet map[string]map[string][]string

var tierNames = []string{"required", "optional", "unlikely"}

// Issue is one authoring defect found in the part-two solution set.
type Issue struct {
	Location string
	Tier     string
	Item     string
	Message  string
}

func (i Issue) String() string {
	s := i.Location
	if i.Tier != "" {
		s += ": " + i.Tier
	}
	if i.Item != "" {
		s += ": " + i.Item
	}
	return s + ": " + i.Message
}

// Validate checks structural and semantic integrity of the hand-authored
// part-two set. Issues accumulate so a single pass reports the complete
// defect list; callers decide whether any issue is fatal.
func Validate(raw RawScenarioSet, catalog *domain.Catalog) []Issue {
	var issues []Issue

	locations := make([]string, 0, len(raw))
	for loc := range raw {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	for _, loc := range locations {
		tiers := raw[loc]

		for _, tier := range tierNames {
			if _, ok := tiers[tier]; !ok {
				issues = append(issues, Issue{
					Location: loc,
					Tier:     tier,
					Message:  "tier is missing",
				})
			}
		}
		for tier := range tiers {
			if !knownTier(tier) {
				issues = append(issues, Issue{
					Location: loc,
					Tier:     tier,
					Message:  "unknown tier name",
				})
			}
		}

		for _, tier := range tierNames {
			for _, item := range tiers[tier] {
				if !catalog.HasItem(item) {
					issues = append(issues, Issue{
						Location: loc,
						Tier:     tier,
						Item:     item,
						Message:  "not a valid catalog item",
					})
				}
				for _, other := range tierNames {
					if other == tier {
						continue
					}
					if contains(tiers[other], item) {
						issues = append(issues, Issue{
							Location: loc,
							Tier:     tier,
							Item:     item,
							Message:  fmt.Sprintf("also listed in %s", other),
						})
					}
				}
			}
		}
	}
	return issues
}

// Convert turns a validated raw document into the typed scenario set.
// Unknown tier names are dropped; run Validate first to surface them.
func Convert(raw RawScenarioSet) domain.ScenarioSolutionSet {
	set := make(domain.ScenarioSolutionSet, len(raw))
	for loc, tiers := range raw {
		set[loc] = domain.TieredSolution{
			Required: append([]string(nil), tiers["required"]...),
			Optional: append([]string(nil), tiers["optional"]...),
			Unlikely: append([]string(nil), tiers["unlikely"]...),
		}
	}
	return set
}

func knownTier(name string) bool {
	return contains(tierNames, name)
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
