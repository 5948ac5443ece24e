package writer

import (
	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmltree"
	"github.com/sdmxkit/sdmxml/model"
)

func genericValues(tag string, kvs []*model.KeyValue) *xmltree.El {
	elem := xmltree.New(tag)
	for _, kv := range kvs {
		elem.Child("gen:Value").SetAttr("id", kv.ID).SetAttr("value", kv.Value)
	}
	return elem
}

func genericAttributes(avs model.AttributeValueList) *xmltree.El {
	elem := xmltree.New("gen:Attributes")
	for _, av := range avs {
		id := ""
		if av.ValueFor != nil {
			id = av.ValueFor.ID
		}
		elem.Child("gen:Value").SetAttr("id", id).SetAttr("value", av.Value)
	}
	return elem
}

func genericObs(obs *model.Observation) *xmltree.El {
	elem := xmltree.New("gen:Obs")
	switch {
	case obs.FullKey != nil:
		// Flat layout: the observation carries its complete key.
		elem.Add(genericValues("gen:ObsKey", obs.FullKey.KeyValues()))
	case obs.Dimension != nil:
		elem.Child("gen:ObsDimension").SetAttr("value", obs.Dimension.Value)
	}
	elem.Child("gen:ObsValue").SetAttr("value", obs.Value)
	if len(obs.AttachedAttribute) > 0 {
		elem.Add(genericAttributes(obs.AttachedAttribute))
	}
	return elem
}

// dataSet writes one generic data set. Sets carrying groups have no
// faithful generic rendering of the group-attached values, so they are
// rejected rather than silently flattened.
func dataSet(ds *model.DataSet) (*xmltree.El, error) {
	if len(ds.Groups) > 0 {
		return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "",
			"encoding a data set with groups is not supported")
	}

	elem := xmltree.New("mes:DataSet")
	elem.SetAttrIf("action", ds.Action)
	if ds.StructuredBy != nil {
		elem.SetAttr("structureRef", ds.StructuredBy.ID)
	}
	if len(ds.Attrib) > 0 {
		elem.Add(genericAttributes(ds.Attrib))
	}

	written := make(map[*model.Observation]bool)
	for _, s := range ds.Series {
		se := elem.Child("gen:Series")
		se.Add(genericValues("gen:SeriesKey", s.Key.KeyValues()))
		if len(s.Key.Attrib) > 0 {
			se.Add(genericAttributes(s.Key.Attrib))
		}
		for _, obs := range s.Obs {
			se.Add(genericObs(obs))
			written[obs] = true
		}
	}

	// Observations not filed under any series.
	for _, obs := range ds.Obs {
		if !written[obs] {
			elem.Add(genericObs(obs))
		}
	}
	return elem, nil
}
