package message

import (
	"fmt"

	"github.com/sdmxkit/sdmxml/model"
)

// Collection is an ordered set of maintainable artefacts of one kind,
// addressable by the shortest unambiguous key.
type Collection struct {
	items []model.Maintainable
}

// Add appends an artefact unless one with the same identity tuple is
// already present.
func (c *Collection) Add(m model.Maintainable) {
	if m == nil {
		return
	}
	id := m.Maint().Identity()
	for _, existing := range c.items {
		if existing == m || existing.Maint().Identity() == id {
			return
		}
	}
	c.items = append(c.items, m)
}

// Items returns the artefacts in insertion order.
func (c *Collection) Items() []model.Maintainable {
	out := make([]model.Maintainable, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of artefacts.
func (c *Collection) Len() int { return len(c.items) }

// Keys returns one key per artefact, in insertion order. The key is the
// bare id when unambiguous, "agency:id" when several agencies maintain the
// same id, and "agency:id(version)" when even that collides.
func (c *Collection) Keys() []string {
	byID := map[string]int{}
	byAgencyID := map[string]int{}
	for _, m := range c.items {
		id := m.Maint().Identity()
		byID[id.ID]++
		byAgencyID[id.Agency+":"+id.ID]++
	}
	keys := make([]string, len(c.items))
	for i, m := range c.items {
		id := m.Maint().Identity()
		switch {
		case byAgencyID[id.Agency+":"+id.ID] > 1:
			keys[i] = fmt.Sprintf("%s:%s(%s)", id.Agency, id.ID, id.Version)
		case byID[id.ID] > 1:
			keys[i] = id.Agency + ":" + id.ID
		default:
			keys[i] = id.ID
		}
	}
	return keys
}

// Get looks up an artefact by any of its admissible keys: the bare id, the
// "agency:id" form, or the full "agency:id(version)" form.
func (c *Collection) Get(key string) (model.Maintainable, bool) {
	keys := c.Keys()
	for i, k := range keys {
		if k == key {
			return c.items[i], true
		}
	}
	// Fall back to the longer spellings of a shortest key.
	for _, m := range c.items {
		id := m.Maint().Identity()
		if key == id.Agency+":"+id.ID ||
			key == fmt.Sprintf("%s:%s(%s)", id.Agency, id.ID, id.Version) {
			return m, true
		}
	}
	return nil, false
}

// Map returns the collection as a key-to-artefact map.
func (c *Collection) Map() map[string]model.Maintainable {
	keys := c.Keys()
	out := make(map[string]model.Maintainable, len(keys))
	for i, k := range keys {
		out[k] = c.items[i]
	}
	return out
}
