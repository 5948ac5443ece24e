package model

import "strings"

// Item is a member of an ItemScheme. Items form a forest: a child holds a
// weak back-reference to its parent, and the owning scheme holds the
// flattened set of all items including descendants.
//
// All concrete item kinds (Code, Category, Concept, Agency, DataProvider,
// DataConsumer) share this type; the class field records which one.
type Item struct {
	NameableArtefact
	class    Class
	Parent   *Item
	Children []*Item
	Scheme   *ItemScheme

	// Concept only.
	CoreRepresentation *Representation

	// Organisations only.
	Contacts []*Contact
}

// NewItem constructs an item of the given member class.
func NewItem(cls Class, id string) *Item {
	it := &Item{class: cls}
	it.ID = id
	return it
}

// Class returns the concrete item class.
func (it *Item) Class() Class { return it.class }

// AppendChild links child under it. Re-appending an existing child is a
// no-op, so the nesting-based and Parent-reference-based hierarchy
// mechanisms can both report the same edge.
func (it *Item) AppendChild(child *Item) {
	if child == nil || child == it {
		return
	}
	if child.Parent == it {
		return
	}
	child.Parent = it
	it.Children = append(it.Children, child)
}

// HierarchicalID returns the dotted path of ids from the root of the
// item's tree down to the item itself.
func (it *Item) HierarchicalID() string {
	if it.Parent == nil {
		return it.ID
	}
	return it.Parent.HierarchicalID() + "." + it.ID
}

// Contact is a point of contact of an organisation item.
type Contact struct {
	Name           InternationalString
	OrgUnit        InternationalString
	Responsibility InternationalString
	Telephone      string
	URI            []string
	Email          []string
}

// ItemScheme is a maintainable, ordered, id-keyed collection of items.
// The scheme owns the flattened set of all items including descendants;
// duplicate insertions of the same item are silently absorbed.
type ItemScheme struct {
	MaintainableArtefact
	class     Class
	IsPartial bool
	items     []*Item
	index     map[string]*Item
}

// NewItemScheme constructs an empty scheme of the given scheme class.
func NewItemScheme(cls Class) *ItemScheme {
	return &ItemScheme{class: cls, index: make(map[string]*Item)}
}

// Class returns the concrete scheme class.
func (s *ItemScheme) Class() Class { return s.class }

// ItemClass returns the member class of the scheme.
func (s *ItemScheme) ItemClass() Class { return ItemClassOf(s.class) }

// Append inserts an item, preserving first-seen order. It reports whether
// the item was inserted: the same object twice, or a distinct object with
// an already-present id, are absorbed without effect.
func (s *ItemScheme) Append(it *Item) bool {
	if it == nil {
		return false
	}
	if _, ok := s.index[it.ID]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]*Item)
	}
	it.Scheme = s
	s.index[it.ID] = it
	s.items = append(s.items, it)
	return true
}

// Get looks up an item by plain id.
func (s *ItemScheme) Get(id string) (*Item, bool) {
	it, ok := s.index[id]
	return it, ok
}

// GetOrCreate returns the item with the given id, creating and inserting
// it when absent. Used to materialize members of external-reference
// schemes on demand.
func (s *ItemScheme) GetOrCreate(id string) *Item {
	if it, ok := s.index[id]; ok {
		return it
	}
	it := NewItem(s.ItemClass(), id)
	s.Append(it)
	return it
}

// GetHierarchical resolves a dotted id path ("A.B.C") through the item
// forest. A plain id falls back to Get.
func (s *ItemScheme) GetHierarchical(id string) (*Item, bool) {
	if !strings.Contains(id, ".") {
		return s.Get(id)
	}
	parts := strings.Split(id, ".")
	var cur *Item
	for _, it := range s.items {
		if it.Parent == nil && it.ID == parts[0] {
			cur = it
			break
		}
	}
	if cur == nil {
		return nil, false
	}
	for _, p := range parts[1:] {
		var next *Item
		for _, c := range cur.Children {
			if c.ID == p {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Items returns the items in first-seen order.
func (s *ItemScheme) Items() []*Item { return s.items }

// Len returns the number of items in the flattened scheme.
func (s *ItemScheme) Len() int { return len(s.items) }

// Facet is a non-enumerated value-domain restriction.
type Facet struct {
	TextType  string
	MinLength string
	MaxLength string
	MinValue  string
	MaxValue  string
	Pattern   string
}

// Representation is the value domain of a concept or component: an
// enumeration (a codelist, possibly an external reference) and/or facets.
type Representation struct {
	Enumerated    *ItemScheme
	NonEnumerated []*Facet
}
