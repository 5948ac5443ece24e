package model

import (
	"fmt"
	"iter"
)

// AllDimensions is a sentinel observation-dimension meaning that
// observations carry their full key (flat, non-series layout).
var AllDimensions = NewComponent(ClassDimension, "AllDimensions")

// DataStructureDefinition (DSD) is the schema of a data set: exactly one
// dimension, attribute, and measure descriptor, plus zero or more group
// dimension descriptors.
type DataStructureDefinition struct {
	MaintainableArtefact
	Dimensions *ComponentList
	Attributes *ComponentList
	Measures   *ComponentList

	groupDims  []*ComponentList
	groupIndex map[string]*ComponentList
}

// NewDataStructureDefinition constructs a DSD with empty descriptors.
func NewDataStructureDefinition() *DataStructureDefinition {
	d := &DataStructureDefinition{
		Dimensions: NewComponentList(ClassDimensionDescriptor, ""),
		Attributes: NewComponentList(ClassAttributeDescriptor, ""),
		Measures:   NewComponentList(ClassMeasureDescriptor, ""),
		groupIndex: make(map[string]*ComponentList),
	}
	d.Dimensions.DSD = d
	d.Attributes.DSD = d
	d.Measures.DSD = d
	return d
}

// Class implements Identifiable.
func (d *DataStructureDefinition) Class() Class { return ClassDataStructureDefinition }

// AddGroupDimension attaches a GroupDimensionDescriptor.
func (d *DataStructureDefinition) AddGroupDimension(cl *ComponentList) {
	if cl == nil {
		return
	}
	if d.groupIndex == nil {
		d.groupIndex = make(map[string]*ComponentList)
	}
	if _, ok := d.groupIndex[cl.ID]; ok {
		return
	}
	cl.DSD = d
	d.groupIndex[cl.ID] = cl
	d.groupDims = append(d.groupDims, cl)
}

// GroupDimension looks up a GroupDimensionDescriptor by id.
func (d *DataStructureDefinition) GroupDimension(id string) (*ComponentList, bool) {
	cl, ok := d.groupIndex[id]
	return cl, ok
}

// GroupDimensions returns the group dimension descriptors in definition
// order.
func (d *DataStructureDefinition) GroupDimensions() []*ComponentList { return d.groupDims }

// PrimaryMeasure returns the first measure, or nil when none is defined.
func (d *DataStructureDefinition) PrimaryMeasure() *Component {
	if d.Measures == nil || d.Measures.Len() == 0 {
		return nil
	}
	return d.Measures.Components()[0]
}

// MakeKey builds a Key from ordered (id, value) pairs, resolving every id
// against the DSD. Ids naming dimensions become key values; ids naming
// attributes become attribute values carried on the key. An unknown id is
// an error unless extend is true, in which case a plain Dimension is
// synthesized (ad hoc schema inference; never a TimeDimension).
func (d *DataStructureDefinition) MakeKey(pairs []KeyValue, extend bool) (*Key, error) {
	k := &Key{}
	for _, p := range pairs {
		id, value := p.ID, p.Value
		if dim, ok := d.Dimensions.Get(id); ok {
			k.Add(&KeyValue{ID: id, Value: value, ValueFor: dim})
			continue
		}
		if att, ok := d.Attributes.Get(id); ok {
			k.Attrib = append(k.Attrib, &AttributeValue{Value: value, ValueFor: att})
			continue
		}
		if !extend {
			return nil, fmt.Errorf("model: no component with id %q in %s", id, d.ID)
		}
		dim := d.Dimensions.GetOrCreate(id, ClassDimension)
		k.Add(&KeyValue{ID: id, Value: value, ValueFor: dim})
	}
	return k, nil
}

// IterKeys enumerates the key space of the DSD as a lazy, restartable
// sequence: the Cartesian product of each selected dimension's candidate
// values. Candidates come from the constraint when it restricts a
// dimension, otherwise from the dimension's enumerated representation.
// Keys not contained by the constraint are filtered out.
func (d *DataStructureDefinition) IterKeys(c *ContentConstraint, dims ...string) (iter.Seq[*Key], error) {
	var selected []*Component
	if len(dims) == 0 {
		selected = d.Dimensions.Components()
	} else {
		for _, id := range dims {
			dim, ok := d.Dimensions.Get(id)
			if !ok {
				return nil, fmt.Errorf("model: no dimension with id %q in %s", id, d.ID)
			}
			selected = append(selected, dim)
		}
	}

	candidates := make([][]string, len(selected))
	for i, dim := range selected {
		vals := constraintValues(c, dim.ID)
		if len(vals) == 0 {
			vals = enumeratedValues(dim)
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("model: no candidate values for dimension %q", dim.ID)
		}
		candidates[i] = vals
	}

	seq := func(yield func(*Key) bool) {
		idx := make([]int, len(selected))
		for {
			k := &Key{}
			for i, dim := range selected {
				k.Add(&KeyValue{ID: dim.ID, Value: candidates[i][idx[i]], ValueFor: dim})
			}
			if c == nil || c.ContainsKey(k) {
				if !yield(k) {
					return
				}
			}
			// Odometer increment over the candidate sets.
			pos := len(idx) - 1
			for pos >= 0 {
				idx[pos]++
				if idx[pos] < len(candidates[pos]) {
					break
				}
				idx[pos] = 0
				pos--
			}
			if pos < 0 {
				return
			}
		}
	}
	return seq, nil
}

func enumeratedValues(dim *Component) []string {
	if dim.LocalRepresentation == nil || dim.LocalRepresentation.Enumerated == nil {
		return nil
	}
	items := dim.LocalRepresentation.Enumerated.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func constraintValues(c *ContentConstraint, dimID string) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, cr := range c.DataContentRegion {
		if !cr.Included {
			continue
		}
		for _, ms := range cr.Member {
			if ms.ValuesFor == nil || ms.ValuesFor.ID != dimID || !ms.Included {
				continue
			}
			for _, mv := range ms.Values {
				out = append(out, mv.Value)
			}
		}
	}
	return out
}

// Dataflow associates a usage context with the DSD that structures it.
type Dataflow struct {
	MaintainableArtefact
	Structure *DataStructureDefinition
}

// Class implements Identifiable.
func (d *Dataflow) Class() Class { return ClassDataflow }

// ProvisionAgreement links a dataflow to the data provider supplying it.
type ProvisionAgreement struct {
	MaintainableArtefact
	StructureUsage *Dataflow
	DataProvider   *Item
}

// Class implements Identifiable.
func (p *ProvisionAgreement) Class() Class { return ClassProvisionAgreement }

// Categorisation links any maintainable artefact to a category.
type Categorisation struct {
	MaintainableArtefact
	Artefact Maintainable
	Category *Item
}

// Class implements Identifiable.
func (c *Categorisation) Class() Class { return ClassCategorisation }
