package solution

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"repeater-test-service/internal/domain"
)

// Generator produces per-instance part-one solution keys. Each instance is
// randomized independently; keys are bijections but carry no cross-instance
// uniqueness guarantee.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator seeds the generator. A non-positive seed falls back to the
// clock, which is the normal production path; tests pass a fixed seed.
func NewGenerator(seed int64) *Generator {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Key draws a uniform-random permutation of the catalog items and assigns
// labels in permutation order, yielding an item -> label bijection.
func (g *Generator) Key(catalog *domain.Catalog) (domain.SolutionKey, error) {
	items := catalog.Items()
	if len(items) > domain.MaxLabels {
		return nil, &domain.ConfigurationError{
			Reason: fmt.Sprintf("cannot key %d items with %d labels", len(items), domain.MaxLabels),
		}
	}
	key := make(domain.SolutionKey, len(items))
	for position, itemIdx := range g.rnd.Perm(len(items)) {
		key[items[itemIdx]] = domain.LabelAt(position)
	}
	return key, nil
}

// Set generates keys for a contiguous instance id range [firstID, firstID+count).
func (g *Generator) Set(catalog *domain.Catalog, firstID, count int) (domain.SolutionSet, error) {
	if count <= 0 {
		return nil, &domain.ConfigurationError{Reason: "instance count must be positive"}
	}
	set := make(domain.SolutionSet, count)
	for id := firstID; id < firstID+count; id++ {
		key, err := g.Key(catalog)
		if err != nil {
			return nil, err
		}
		set[strconv.Itoa(id)] = key
	}
	return set, nil
}
