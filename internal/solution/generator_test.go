package solution

import (
	"testing"

	"github.com/stretchr/testify/require"

	"repeater-test-service/internal/domain"
)

func TestKeyIsBijection(t *testing.T) {
	catalog := domain.DefaultCatalog()
	gen := NewGenerator(1)

	key, err := gen.Key(catalog)
	require.NoError(t, err)
	require.Len(t, key, catalog.Len())

	seen := map[domain.Label]string{}
	for item, label := range key {
		prev, dup := seen[label]
		require.Falsef(t, dup, "label %s assigned to both %s and %s", label, prev, item)
		seen[label] = item
	}
	// Every label of the alphabet is used exactly once.
	for _, label := range catalog.Labels() {
		require.Contains(t, seen, label)
	}
}

func TestSetCoversContiguousRange(t *testing.T) {
	catalog := domain.DefaultCatalog()
	set, err := NewGenerator(7).Set(catalog, 2200, 5)
	require.NoError(t, err)
	require.Len(t, set, 5)
	for _, id := range []string{"2200", "2201", "2202", "2203", "2204"} {
		require.Contains(t, set, id)
		require.Len(t, set[id], catalog.Len())
	}
}

func TestSetRejectsNonPositiveCount(t *testing.T) {
	_, err := NewGenerator(7).Set(domain.DefaultCatalog(), 2200, 0)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestKeysAreIndependentlyRandomized(t *testing.T) {
	catalog := domain.DefaultCatalog()
	gen := NewGenerator(42)
	a, err := gen.Key(catalog)
	require.NoError(t, err)
	b, err := gen.Key(catalog)
	require.NoError(t, err)

	same := true
	for item, label := range a {
		if b[item] != label {
			same = false
			break
		}
	}
	// 24! permutations; two identical consecutive draws mean a broken RNG wiring.
	require.False(t, same, "consecutive keys should differ")
}
