// Package catalog provides the read-only registry of equipment that units
// select their legal options from.
package catalog

import (
	"sort"

	"github.com/juju/errors"

	"github.com/achilleasa/warband/model"
)

// Catalog is an immutable collection of equipment templates keyed by name.
// Every read returns a deep copy so callers can never mutate catalog
// entries.
type Catalog struct {
	items map[string]model.Equipment
}

// New validates items and returns a Catalog holding copies of them.
func New(items ...model.Equipment) (*Catalog, error) {
	c := &Catalog{items: make(map[string]model.Equipment, len(items))}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, errors.Trace(err)
		}
		if _, exists := c.items[item.Name]; exists {
			return nil, errors.AlreadyExistsf("equipment %q in catalog", item.Name)
		}
		c.items[item.Name] = item.Clone()
	}
	return c, nil
}

// Lookup returns a copy of the named item.
func (c *Catalog) Lookup(name string) (model.Equipment, error) {
	item, found := c.items[name]
	if !found {
		return model.Equipment{}, errors.NotFoundf("equipment %q in catalog", name)
	}
	return item.Clone(), nil
}

// Select returns independent copies of the named items keyed by name. If
// any name is missing, a NotFound error naming it is returned together
// with a nil map.
func (c *Catalog) Select(names []string) (map[string]model.Equipment, error) {
	selected := make(map[string]model.Equipment, len(names))
	for _, name := range names {
		item, err := c.Lookup(name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		selected[name] = item
	}
	return selected, nil
}

// Contains returns true if the catalog has an item called name.
func (c *Catalog) Contains(name string) bool {
	_, found := c.items[name]
	return found
}

// Names returns the item names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int { return len(c.items) }
