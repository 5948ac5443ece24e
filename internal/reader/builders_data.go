package reader

import (
	"strings"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
)

// startDataSet resolves the structureRef back through the header and opens
// a data set.
func startDataSet(rd *Reader, e *xmlstream.Element) error {
	msg := rd.dataMessage()
	if msg == nil {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(), "DataSet outside a data message")
	}

	ref, ok := e.Attr("structureRef")
	if !ok {
		ref, _ = e.AttrNS(xmlformat.NSSpecific, "structureRef")
	}

	var dsd *model.DataStructureDefinition
	if h := msg.MessageHeader(); h != nil {
		if su, ok := h.StructureFor(ref); ok {
			dsd = su.EffectiveStructure()
		}
	}
	if dsd == nil {
		dsd = rd.opts.DSD
	}
	if dsd == nil && rd.extend() {
		dsd = model.NewDataStructureDefinition()
		dsd.ID = "INFERRED"
	}
	if dsd == nil {
		return sdmxerr.New(sdmxerr.CodeMissingStructure, e.Path(),
			"no data structure for structureRef %q", ref)
	}

	ds := &model.DataSet{
		Kind:         msg.Kind,
		StructuredBy: dsd,
		Action:       e.AttrDefault("action", ""),
		ValidFrom:    e.AttrDefault("validFromDate", ""),
	}
	rd.eng.Push("DataSet", "", ds)
	return nil
}

// endDataSet closes the set: leftover ungrouped observations are claimed,
// then group association and attribute placement run.
func endDataSet(rd *Reader, e *xmlstream.Element) error {
	v, ok := rd.eng.PopSingle("DataSet")
	if !ok {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(), "unbalanced DataSet")
	}
	ds := v.(*model.DataSet)

	if av, ok := rd.eng.PopSingle("Attributes"); ok {
		for _, a := range av.(model.AttributeValueList) {
			ds.Attrib.Set(a)
		}
	}
	for _, ov := range rd.eng.PopAll("Observation") {
		ds.AddObs(ov.(*model.Observation))
	}
	ds.Finalize()

	msg := rd.dataMessage()
	msg.DataSets = append(msg.DataSets, ds)
	return nil
}

// endGenericValue captures one <gen:Value id="..." value="..."/>.
func endGenericValue(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("KVPair", "", model.KeyValue{
		ID:    e.AttrDefault("id", ""),
		Value: e.AttrDefault("value", ""),
	})
	return nil
}

func endObsDimension(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("ObsDimension", "", e.AttrDefault("value", ""))
	return nil
}

func endObsValue(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("ObsValue", "", e.AttrDefault("value", ""))
	return nil
}

// endGenericAttributes converts the pending value pairs into attribute
// values resolved against the data structure.
func endGenericAttributes(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	var avs model.AttributeValueList
	for _, v := range rd.eng.PopAll("KVPair") {
		kv := v.(model.KeyValue)
		da := ds.StructuredBy.Attributes.GetOrCreate(kv.ID, model.ClassDataAttribute)
		avs.Set(&model.AttributeValue{Value: kv.Value, ValueFor: da})
	}
	rd.eng.Push("Attributes", "", avs)
	return nil
}

// endGenericKey builds the key carried by <gen:ObsKey>, <gen:SeriesKey> or
// <gen:GroupKey>.
func endGenericKey(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	var pairs []model.KeyValue
	for _, v := range rd.eng.PopAll("KVPair") {
		pairs = append(pairs, v.(model.KeyValue))
	}
	// Generic keys always extend: the id/value pairs are authoritative
	// even when the structure is a placeholder.
	k, err := ds.StructuredBy.MakeKey(pairs, true)
	if err != nil {
		return sdmxerr.Wrap(sdmxerr.CodeStructureMismatch, e.Path(), err)
	}
	switch e.Name.Local {
	case "SeriesKey":
		rd.eng.Push("SeriesKey", "", &model.SeriesKey{Key: *k})
	case "GroupKey":
		rd.eng.Push("GroupKey", "", &model.GroupKey{Key: *k})
	default:
		rd.eng.Push("Key", "", k)
	}
	return nil
}

func endGenericObs(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	obs := &model.Observation{
		Value:    rd.popText("ObsValue"),
		ValueFor: ds.StructuredBy.PrimaryMeasure(),
	}
	if v, ok := rd.eng.PopSingle("Key"); ok {
		obs.FullKey = v.(*model.Key)
	} else if dim, ok := rd.eng.PopSingle("ObsDimension"); ok {
		obsDim := rd.dataMessage().ObservationDimension
		if obsDim == nil {
			return sdmxerr.New(sdmxerr.CodeMissingStructure, e.Path(),
				"observation dimension unknown")
		}
		obs.Dimension = &model.KeyValue{
			ID:       obsDim.ID,
			Value:    dim.(string),
			ValueFor: obsDim,
		}
	}
	if v, ok := rd.eng.PopSingle("Attributes"); ok {
		obs.AttachedAttribute = v.(model.AttributeValueList)
	}
	rd.eng.Push("Observation", "", obs)
	return nil
}

func endGenericSeries(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	v, ok := rd.eng.PopSingle("SeriesKey")
	if !ok {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(), "Series without SeriesKey")
	}
	sk := v.(*model.SeriesKey)
	if av, ok := rd.eng.PopSingle("Attributes"); ok {
		for _, a := range av.(model.AttributeValueList) {
			sk.Attrib.Set(a)
		}
	}
	for _, ov := range rd.eng.PopAll("Observation") {
		obs := ov.(*model.Observation)
		obs.SeriesKey = sk
		ds.AddObs(obs)
	}
	return nil
}

func endGenericGroup(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	v, ok := rd.eng.PopSingle("GroupKey")
	if !ok {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(), "Group without GroupKey")
	}
	gk := v.(*model.GroupKey)
	if av, ok := rd.eng.PopSingle("Attributes"); ok {
		for _, a := range av.(model.AttributeValueList) {
			gk.Attrib.Set(a)
		}
	}
	ds.AddGroup(gk)
	return nil
}

// ssPairs converts the unqualified attributes of a structure-specific
// element into key pairs, excluding the named ids.
func ssPairs(e *xmlstream.Element, exclude ...string) []model.KeyValue {
	var pairs []model.KeyValue
	for _, a := range e.Attrs() {
		if a.Name.Space != "" {
			continue
		}
		skip := false
		for _, x := range exclude {
			if a.Name.Local == x {
				skip = true
				break
			}
		}
		if !skip {
			pairs = append(pairs, model.KeyValue{ID: a.Name.Local, Value: a.Value})
		}
	}
	return pairs
}

func endSSSeries(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	k, err := ds.StructuredBy.MakeKey(ssPairs(e), rd.extend())
	if err != nil {
		return sdmxerr.Wrap(sdmxerr.CodeStructureMismatch, e.Path(), err)
	}
	sk := &model.SeriesKey{Key: *k}
	for _, ov := range rd.eng.PopAll("Observation") {
		obs := ov.(*model.Observation)
		obs.SeriesKey = sk
		ds.AddObs(obs)
	}
	return nil
}

func endSSObs(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	dsd := ds.StructuredBy

	pm := dsd.PrimaryMeasure()
	if pm == nil {
		if !rd.extend() {
			return sdmxerr.New(sdmxerr.CodeMissingStructure, e.Path(),
				"structure %q has no primary measure", dsd.ID)
		}
		pm = dsd.Measures.GetOrCreate("OBS_VALUE", model.ClassPrimaryMeasure)
	}

	value, _ := e.Attr(pm.ID)
	k, err := dsd.MakeKey(ssPairs(e, pm.ID), rd.extend())
	if err != nil {
		return sdmxerr.Wrap(sdmxerr.CodeStructureMismatch, e.Path(), err)
	}

	obs := &model.Observation{
		FullKey:           k,
		Value:             value,
		ValueFor:          pm,
		AttachedAttribute: k.Attrib,
	}
	k.Attrib = nil
	rd.eng.Push("Observation", "", obs)
	return nil
}

func endSSGroup(rd *Reader, e *xmlstream.Element) error {
	ds, err := rd.currentDataSet()
	if err != nil {
		return err
	}
	dsd := ds.StructuredBy

	k, err := dsd.MakeKey(ssPairs(e), rd.extend())
	if err != nil {
		return sdmxerr.Wrap(sdmxerr.CodeStructureMismatch, e.Path(), err)
	}
	gk := &model.GroupKey{Key: *k}

	if typ, ok := e.AttrNS(xmlformat.NSXSI, "type"); ok {
		// "prefix:GroupID" in a message-defined namespace.
		id := typ
		if _, local, ok := strings.Cut(typ, ":"); ok {
			id = local
		}
		if gd, ok := dsd.GroupDimension(id); ok {
			gk.DescribedBy = gd
		} else if !rd.extend() {
			return sdmxerr.New(sdmxerr.CodeUnknownGroup, e.Path(),
				"structure %q has no group %q", dsd.ID, id)
		}
	}
	ds.AddGroup(gk)
	return nil
}
