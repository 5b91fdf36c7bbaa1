package domain

import "fmt"

// Label is the single-letter answer code assigned to exactly one repeater
// within a test instance.
type Label string

// MaxLabels is the size of the label alphabet (A-Z).
const MaxLabels = 26

// DefaultRepeaters is the ordered repeater catalog shipped with the service.
// The order is load-bearing: several wire encodings address repeaters by
// catalog index rather than by name.
var DefaultRepeaters = []string{
	"ALDER HILL",
	"ALTA SIERRA",
	"BABBITT",
	"BANNER",
	"BOREAL",
	"BOWMAN",
	"CASCADE SHRS",
	"CHERRY HILL",
	"DEADMAN FLAT",
	"DONNER",
	"EDWARDS XING",
	"GROUSE RIDGE",
	"KENTKY RIDGE",
	"LOP",
	"LWW",
	"MT ROSE",
	"OREGON",
	"OWL CREEK",
	"PILOT PEAK",
	"PURDON",
	"ROLLINS LK",
	"SIERRABUTTES",
	"SIGNAL",
	"WOLF MTN",
}

// DefaultLocations is the ordered list of field locations used in part two.
// Part-two submissions address locations by ordinal.
var DefaultLocations = []string{
	"Milton Reservoir",
	"Shingle Falls",
	"Bridgeport covered bridge",
	"Emerald Pools",
	"Penner Lake",
	"South Yuba Primitive Camp",
	"Buckeye Rd at Chalk Bluff Rd",
	"Lake Sterling",
	"Dog Bar Rd at South Fork Wolf Creek",
	"Peter Grubb Hut",
	"Prosser Boat Ramp",
	"Sagehen CG",
	"Boyington Mill CG",
	"Pacific Crest Trail at Meadow Lake Road",
}

// Catalog is the static reference data for one test: the ordered repeater
// items and the ordered part-two locations. Immutable after construction.
type Catalog struct {
	items     []string
	locations []string
	itemIndex map[string]int
}

// NewCatalog builds a catalog from ordered item and location lists.
// It fails with a ConfigurationError when the label alphabet cannot cover
// the item list or when an item name repeats.
func NewCatalog(items, locations []string) (*Catalog, error) {
	if len(items) == 0 {
		return nil, &ConfigurationError{Reason: "catalog has no items"}
	}
	if len(items) > MaxLabels {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("not enough labels for catalog: %d items, %d labels", len(items), MaxLabels),
		}
	}
	index := make(map[string]int, len(items))
	for i, name := range items {
		if _, dup := index[name]; dup {
			return nil, &ConfigurationError{Reason: "duplicate catalog item: " + name}
		}
		index[name] = i
	}
	c := &Catalog{
		items:     append([]string(nil), items...),
		locations: append([]string(nil), locations...),
		itemIndex: index,
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRepeaters, DefaultLocations)
	if err != nil {
		// The built-in lists are compile-time constants; this cannot happen.
		panic(err)
	}
	return c
}

// Items returns the ordered item names.
func (c *Catalog) Items() []string { return append([]string(nil), c.items...) }

// Locations returns the ordered location names.
func (c *Catalog) Locations() []string { return append([]string(nil), c.locations...) }

// Len is the number of items, which is also the number of labels in play.
func (c *Catalog) Len() int { return len(c.items) }

// ItemAt resolves a catalog index to an item name.
func (c *Catalog) ItemAt(i int) (string, bool) {
	if i < 0 || i >= len(c.items) {
		return "", false
	}
	return c.items[i], true
}

// ItemIndex resolves an item name back to its catalog index.
func (c *Catalog) ItemIndex(name string) (int, bool) {
	i, ok := c.itemIndex[name]
	return i, ok
}

// HasItem reports catalog membership.
func (c *Catalog) HasItem(name string) bool {
	_, ok := c.itemIndex[name]
	return ok
}

// LocationAt resolves a part-two ordinal to a location name.
func (c *Catalog) LocationAt(i int) (string, bool) {
	if i < 0 || i >= len(c.locations) {
		return "", false
	}
	return c.locations[i], true
}

// Labels returns the label alphabet for this catalog: A.. up to the item count.
func (c *Catalog) Labels() []Label {
	labels := make([]Label, len(c.items))
	for i := range c.items {
		labels[i] = LabelAt(i)
	}
	return labels
}

// LabelAt returns the label for a given position (0 -> A).
func LabelAt(i int) Label {
	return Label(rune('A' + i))
}
