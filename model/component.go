package model

import "sort"

// AttributeRelationship states at which structural level the values of a
// DataAttribute attach: the data set, a group, a series, or the
// observation. It is a closed choice.
type AttributeRelationship interface{ isAttributeRelationship() }

// NoSpecifiedRelationship attaches values at the data-set level.
type NoSpecifiedRelationship struct{}

// PrimaryMeasureRelationship attaches values at the observation level.
type PrimaryMeasureRelationship struct{}

// DimensionRelationship attaches values at the level implied by the
// referenced subset of dimensions: the observation when the subset covers
// every dimension, otherwise the series.
type DimensionRelationship struct {
	Dimensions []*Component
}

// GroupRelationship attaches values at a group identified by a
// GroupDimensionDescriptor.
type GroupRelationship struct {
	Group *ComponentList
}

func (NoSpecifiedRelationship) isAttributeRelationship()    {}
func (PrimaryMeasureRelationship) isAttributeRelationship() {}
func (DimensionRelationship) isAttributeRelationship()      {}
func (GroupRelationship) isAttributeRelationship()          {}

// Component is a dimension, attribute, or measure of a data structure.
type Component struct {
	IdentifiableArtefact
	class               Class
	ConceptIdentity     *Item
	ConceptRole         *Item
	LocalRepresentation *Representation

	// Order is 1-based; 0 means not yet assigned.
	Order int

	// RelatedTo is set for DataAttribute components only.
	RelatedTo AttributeRelationship

	// List is the owning component list.
	List *ComponentList
}

// NewComponent constructs a component of the given component class.
func NewComponent(cls Class, id string) *Component {
	c := &Component{class: cls}
	c.ID = id
	return c
}

// Class returns the concrete component class.
func (c *Component) Class() Class { return c.class }

// ComponentList is an ordered, id-keyed collection of components. The
// concrete kinds (DimensionDescriptor, AttributeDescriptor,
// MeasureDescriptor, GroupDimensionDescriptor) share this type.
type ComponentList struct {
	IdentifiableArtefact
	class      Class
	components []*Component
	index      map[string]*Component

	// DSD is the owning data structure definition.
	DSD *DataStructureDefinition
}

// NewComponentList constructs an empty list of the given descriptor class.
// When id is empty the conventional fixed id (the class name) is used.
func NewComponentList(cls Class, id string) *ComponentList {
	if id == "" {
		id = cls.String()
	}
	cl := &ComponentList{class: cls, index: make(map[string]*Component)}
	cl.ID = id
	return cl
}

// Class returns the concrete descriptor class.
func (cl *ComponentList) Class() Class { return cl.class }

// Append inserts a component, assigning the next order value when the
// component does not already carry one.
func (cl *ComponentList) Append(c *Component) {
	if c == nil {
		return
	}
	if _, ok := cl.index[c.ID]; ok {
		return
	}
	if c.Order == 0 {
		c.Order = cl.maxOrder() + 1
	}
	c.List = cl
	cl.index[c.ID] = c
	cl.components = append(cl.components, c)
}

func (cl *ComponentList) maxOrder() int {
	m := 0
	for _, c := range cl.components {
		if c.Order > m {
			m = c.Order
		}
	}
	return m
}

// AssignOrder numbers components lacking an order sequentially in
// first-seen order, after the largest explicit order already present.
func (cl *ComponentList) AssignOrder() {
	next := cl.maxOrder()
	for _, c := range cl.components {
		if c.Order == 0 {
			next++
			c.Order = next
		}
	}
}

// Get looks up a component by id.
func (cl *ComponentList) Get(id string) (*Component, bool) {
	c, ok := cl.index[id]
	return c, ok
}

// GetOrCreate returns the component with the given id, synthesizing one of
// the given class when absent. Used by extend-mode schema inference.
func (cl *ComponentList) GetOrCreate(id string, cls Class) *Component {
	if c, ok := cl.index[id]; ok {
		return c
	}
	c := NewComponent(cls, id)
	cl.Append(c)
	return c
}

// Components returns the components ordered by ascending Order, ties
// broken by first-seen order.
func (cl *ComponentList) Components() []*Component {
	out := make([]*Component, len(cl.components))
	copy(out, cl.components)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Len returns the number of components.
func (cl *ComponentList) Len() int { return len(cl.components) }
