package model

import (
	"sort"
	"strings"
)

// KeyValue is one dimension coordinate of a key.
type KeyValue struct {
	ID       string
	Value    string
	ValueFor *Component
}

// AttributeValue is one attribute value together with the attribute it
// instantiates.
type AttributeValue struct {
	Value    string
	ValueFor *Component
}

// AttributeValueList is an ordered set of attribute values keyed by
// attribute id.
type AttributeValueList []*AttributeValue

// Get looks up a value by attribute id.
func (l AttributeValueList) Get(id string) (*AttributeValue, bool) {
	for _, av := range l {
		if av.ValueFor != nil && av.ValueFor.ID == id {
			return av, true
		}
	}
	return nil, false
}

// Set adds or replaces the value for an attribute id.
func (l *AttributeValueList) Set(av *AttributeValue) {
	if av == nil || av.ValueFor == nil {
		return
	}
	for i, old := range *l {
		if old.ValueFor != nil && old.ValueFor.ID == av.ValueFor.ID {
			(*l)[i] = av
			return
		}
	}
	*l = append(*l, av)
}

// Key is an ordered tuple of dimension coordinates, plus any attribute
// values attached at the same level.
type Key struct {
	values []*KeyValue
	index  map[string]*KeyValue

	Attrib AttributeValueList
}

// Add appends a coordinate, replacing any earlier coordinate for the same
// dimension id in place.
func (k *Key) Add(kv *KeyValue) {
	if kv == nil {
		return
	}
	if k.index == nil {
		k.index = make(map[string]*KeyValue)
	}
	if old, ok := k.index[kv.ID]; ok {
		*old = *kv
		return
	}
	k.index[kv.ID] = kv
	k.values = append(k.values, kv)
}

// Get returns the coordinate for a dimension id.
func (k *Key) Get(id string) (*KeyValue, bool) {
	kv, ok := k.index[id]
	return kv, ok
}

// KeyValues returns the coordinates in insertion order.
func (k *Key) KeyValues() []*KeyValue {
	out := make([]*KeyValue, len(k.values))
	copy(out, k.values)
	return out
}

// Len returns the number of coordinates.
func (k *Key) Len() int {
	if k == nil {
		return 0
	}
	return len(k.values)
}

// CombinedWith returns a new key holding the union of both keys'
// coordinates and attribute values; on dimension clashes the receiver's
// coordinate wins over the other key's.
func (k *Key) CombinedWith(other *Key) *Key {
	out := &Key{}
	if other != nil {
		for _, kv := range other.values {
			c := *kv
			out.Add(&c)
		}
		for _, av := range other.Attrib {
			out.Attrib.Set(av)
		}
	}
	if k != nil {
		for _, kv := range k.values {
			c := *kv
			out.Add(&c)
		}
		for _, av := range k.Attrib {
			out.Attrib.Set(av)
		}
	}
	return out
}

// ContainsAll reports whether every coordinate of other appears in k with
// an equal value.
func (k *Key) ContainsAll(other *Key) bool {
	if other == nil {
		return true
	}
	for _, kv := range other.values {
		mine, ok := k.Get(kv.ID)
		if !ok || mine.Value != kv.Value {
			return false
		}
	}
	return true
}

// String renders the key as "DIM1=v1, DIM2=v2" in coordinate order.
func (k *Key) String() string {
	var b strings.Builder
	for i, kv := range k.values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(kv.ID)
		b.WriteByte('=')
		b.WriteString(kv.Value)
	}
	return b.String()
}

// SeriesKey identifies a series: the key over the series-level dimensions.
type SeriesKey struct {
	Key
}

// GroupKey identifies a group: a partial key over the dimensions of one
// GroupDimensionDescriptor.
type GroupKey struct {
	Key
	DescribedBy *ComponentList
}

// Observation is one data point.
type Observation struct {
	// Dimension holds the observation-level coordinates: the full key in
	// flat layouts, the single observation dimension in series layouts.
	Dimension *KeyValue

	Value    string
	ValueFor *Component

	AttachedAttribute AttributeValueList

	SeriesKey *SeriesKey
	GroupKeys []*GroupKey

	// FullKey is set in flat layouts where the observation carries all
	// dimensions itself.
	FullKey *Key
}

// Key returns the complete key of the observation: its own coordinates
// combined with the series key, when any.
func (o *Observation) Key() *Key {
	own := o.FullKey
	if own == nil {
		own = &Key{}
		if o.Dimension != nil {
			c := *o.Dimension
			own.Add(&c)
		}
	}
	if o.SeriesKey == nil {
		return own
	}
	return own.CombinedWith(&o.SeriesKey.Key)
}

// DataSetKind distinguishes the wire flavours of a data set. The flavour
// controls encoding only; the decoded in-memory shape is uniform.
type DataSetKind int

const (
	KindGenericData DataSetKind = iota
	KindGenericTimeSeriesData
	KindStructureSpecificData
	KindStructureSpecificTimeSeriesData
)

var dataSetKindNames = map[DataSetKind]string{
	KindGenericData:                     "GenericData",
	KindGenericTimeSeriesData:           "GenericTimeSeriesData",
	KindStructureSpecificData:           "StructureSpecificData",
	KindStructureSpecificTimeSeriesData: "StructureSpecificTimeSeriesData",
}

func (k DataSetKind) String() string { return dataSetKindNames[k] }

// IsGeneric reports whether the kind is one of the generic flavours.
func (k DataSetKind) IsGeneric() bool {
	return k == KindGenericData || k == KindGenericTimeSeriesData
}

// Series is one series: its key and its observations in document order.
type Series struct {
	Key *SeriesKey
	Obs []*Observation
}

// Group is one group: its key and the attribute values attached to it.
type Group struct {
	Key *GroupKey
}

// DataSet is a decoded data set: observations in document order, plus the
// series and groups they hang from.
type DataSet struct {
	AnnotableArtefact
	Kind         DataSetKind
	Action       string
	ValidFrom    string
	StructuredBy *DataStructureDefinition

	// Attrib holds data-set-level attribute values.
	Attrib AttributeValueList

	Obs    []*Observation
	Series []*Series
	Groups []*Group

	seriesIndex map[string]*Series
}

// AddObs appends an observation, filing it under its series when it has
// one.
func (ds *DataSet) AddObs(obs ...*Observation) {
	for _, o := range obs {
		if o == nil {
			continue
		}
		ds.Obs = append(ds.Obs, o)
		if o.SeriesKey == nil {
			continue
		}
		if ds.seriesIndex == nil {
			ds.seriesIndex = make(map[string]*Series)
		}
		sk := o.SeriesKey.String()
		s, ok := ds.seriesIndex[sk]
		if !ok {
			s = &Series{Key: o.SeriesKey}
			ds.seriesIndex[sk] = s
			ds.Series = append(ds.Series, s)
		}
		s.Obs = append(s.Obs, o)
	}
}

// AddGroup registers a group key.
func (ds *DataSet) AddGroup(gk *GroupKey) {
	if gk == nil {
		return
	}
	ds.Groups = append(ds.Groups, &Group{Key: gk})
}

// Finalize runs once all observations are read. It associates each
// observation with the groups whose key its own key subsumes, and moves
// attribute values to the level their attribute's relationship declares,
// regardless of the level the wire attached them at.
func (ds *DataSet) Finalize() {
	for _, o := range ds.Obs {
		full := o.Key()
		for _, g := range ds.Groups {
			if full.ContainsAll(&g.Key.Key) {
				o.GroupKeys = append(o.GroupKeys, g.Key)
			}
		}
	}
	if ds.StructuredBy != nil {
		ds.realignAttributes()
	}
}

func (ds *DataSet) realignAttributes() {
	nDims := ds.StructuredBy.Dimensions.Len()

	realign := func(av *AttributeValue, from string, o *Observation) bool {
		if av.ValueFor == nil || av.ValueFor.RelatedTo == nil {
			return false
		}
		switch rel := av.ValueFor.RelatedTo.(type) {
		case NoSpecifiedRelationship:
			if from == "dataset" {
				return false
			}
			ds.Attrib.Set(av)
			return true
		case GroupRelationship:
			for _, g := range ds.Groups {
				if rel.Group != nil && g.Key.DescribedBy == rel.Group {
					g.Key.Attrib.Set(av)
					return true
				}
			}
			return false
		case DimensionRelationship:
			// A full-coverage dimension relationship means observation
			// level; a proper subset means series level.
			if len(rel.Dimensions) >= nDims && nDims > 0 {
				if from == "obs" {
					return false
				}
				if o != nil {
					o.AttachedAttribute.Set(av)
					return true
				}
				return false
			}
			if from == "series" {
				return false
			}
			if o != nil && o.SeriesKey != nil {
				o.SeriesKey.Attrib.Set(av)
				return true
			}
			return false
		case PrimaryMeasureRelationship:
			if from == "obs" {
				return false
			}
			if o != nil {
				o.AttachedAttribute.Set(av)
				return true
			}
			return false
		}
		return false
	}

	for _, s := range ds.Series {
		kept := s.Key.Attrib[:0]
		for _, av := range s.Key.Attrib {
			var target *Observation
			if len(s.Obs) > 0 {
				target = s.Obs[0]
			}
			moved := false
			if av.ValueFor != nil {
				switch av.ValueFor.RelatedTo.(type) {
				case NoSpecifiedRelationship, GroupRelationship:
					moved = realign(av, "series", target)
				}
			}
			if !moved {
				kept = append(kept, av)
			}
		}
		s.Key.Attrib = kept
	}
	for _, o := range ds.Obs {
		kept := o.AttachedAttribute[:0]
		for _, av := range o.AttachedAttribute {
			moved := false
			if av.ValueFor != nil && av.ValueFor.RelatedTo != nil {
				switch av.ValueFor.RelatedTo.(type) {
				case NoSpecifiedRelationship, GroupRelationship:
					moved = realign(av, "obs", o)
				case DimensionRelationship:
					moved = realign(av, "obs", o)
				}
			}
			if !moved {
				kept = append(kept, av)
			}
		}
		o.AttachedAttribute = kept
	}
}

// ObsSorted returns the observations ordered by their combined key string.
// Document order is preserved for equal keys.
func (ds *DataSet) ObsSorted() []*Observation {
	out := make([]*Observation, len(ds.Obs))
	copy(out, ds.Obs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key().String() < out[j].Key().String()
	})
	return out
}
