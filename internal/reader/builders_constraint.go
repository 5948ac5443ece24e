package reader

import (
	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
)

func endPeriod(rd *Reader, e *xmlstream.Element) error {
	p := &model.Period{
		Value:       e.Text(),
		IsInclusive: e.AttrDefault("isInclusive", "true") == "true",
	}
	rd.eng.Push(e.Name.Local, "", p)
	return nil
}

func endTimeRange(rd *Reader, e *xmlstream.Element) error {
	tr := &model.RangePeriod{}
	if v, ok := rd.eng.PopSingle("StartPeriod"); ok {
		tr.Start = v.(*model.Period)
	}
	if v, ok := rd.eng.PopSingle("EndPeriod"); ok {
		tr.End = v.(*model.Period)
	}
	rd.eng.Push("RangePeriod", "", tr)
	return nil
}

// endMemberValue captures one <com:Value> of a member selection.
func endMemberValue(rd *Reader, e *xmlstream.Element) error {
	mv := &model.MemberValue{
		Value:   e.Text(),
		Cascade: e.AttrDefault("cascadeValues", "false") == "true",
	}
	rd.eng.Push("MemberValue", "", mv)
	return nil
}

// constrainedComponent locates the component a member selection restricts,
// by navigating the constraint's attachment to a dataflow or data
// structure. When no attachment yields a component list, a free-standing
// component is synthesized so the selection is not lost.
func (rd *Reader) constrainedComponent(id string, cls model.Class) *model.Component {
	var dsd *model.DataStructureDefinition
	if v, ok := rd.eng.GetSingle("Reference"); ok {
		if resolved, err := rd.resolve(v.(*Reference)); err == nil {
			switch obj := resolved.(type) {
			case *model.Dataflow:
				dsd = obj.Structure
			case *model.DataStructureDefinition:
				dsd = obj
			}
		}
	}
	if dsd != nil {
		cl := dsd.Dimensions
		if cls == model.ClassDataAttribute {
			cl = dsd.Attributes
		}
		if c, ok := cl.Get(id); ok {
			return c
		}
		if dsd.Maint().IsExternalReference {
			return cl.GetOrCreate(id, cls)
		}
	}
	return model.NewComponent(cls, id)
}

// endMemberSelection handles <com:KeyValue> (a dimension selection) and
// <com:Attribute> (an attribute selection) within a cube region or data
// key.
func endMemberSelection(rd *Reader, e *xmlstream.Element) error {
	cls := model.ClassDimension
	if e.Name.Local == "Attribute" {
		cls = model.ClassDataAttribute
	}
	id, ok := e.Attr("id")
	if !ok {
		return sdmxerr.New(sdmxerr.CodeBadReference, e.Path(), "selection without component id")
	}

	ms := &model.MemberSelection{
		Included:  true,
		ValuesFor: rd.constrainedComponent(id, cls),
	}
	for _, v := range rd.eng.PopAll("MemberValue") {
		ms.Values = append(ms.Values, v.(*model.MemberValue))
	}
	for _, v := range rd.eng.PopAll("RangePeriod") {
		ms.TimeRanges = append(ms.TimeRanges, v.(*model.RangePeriod))
	}
	rd.eng.Push("MemberSelection", "", ms)
	return nil
}

func endCubeRegion(rd *Reader, e *xmlstream.Element) error {
	cr := &model.CubeRegion{
		Included: e.AttrDefault("include", "true") == "true",
	}
	for _, v := range rd.eng.PopAll("MemberSelection") {
		cr.Member = append(cr.Member, v.(*model.MemberSelection))
	}
	rd.eng.Push("CubeRegion", "", cr)
	return nil
}

// endDataKey handles <str:Key> inside a data key set: a complete key,
// written as one single-valued selection per component.
func endDataKey(rd *Reader, e *xmlstream.Element) error {
	dk := &model.DataKey{
		Included: e.AttrDefault("isIncluded", "true") == "true",
		KeyValue: make(map[*model.Component]string),
	}
	for _, v := range rd.eng.PopAll("MemberSelection") {
		ms := v.(*model.MemberSelection)
		if len(ms.Values) > 0 {
			dk.KeyValue[ms.ValuesFor] = ms.Values[0].Value
		}
	}
	rd.eng.Push("DataKey", "", dk)
	return nil
}

func endDataKeySet(rd *Reader, e *xmlstream.Element) error {
	dks := &model.DataKeySet{
		Included: e.AttrDefault("isIncluded", "true") == "true",
	}
	for _, v := range rd.eng.PopAll("DataKey") {
		dks.Keys = append(dks.Keys, v.(*model.DataKey))
	}
	rd.eng.Push("DataKeySet", "", dks)
	return nil
}

func endContentConstraint(rd *Reader, e *xmlstream.Element) error {
	cc := rd.maintainable(model.ClassContentConstraint, e, refHints{}).(*model.ContentConstraint)
	cc.Role = model.ConstraintRoleFor(e.AttrDefault("type", "Allowable"))

	for _, v := range rd.eng.PopAll("Reference") {
		resolved, err := rd.resolve(v.(*Reference))
		if err != nil {
			rd.opts.log().Warn("unresolvable constraint attachment dropped", "error", err)
			continue
		}
		if m, ok := resolved.(model.Maintainable); ok {
			cc.Content = append(cc.Content, m)
		}
	}
	for _, v := range rd.eng.PopAll("DataKeySet") {
		cc.DataContentKeys = append(cc.DataContentKeys, v.(*model.DataKeySet))
	}
	for _, v := range rd.eng.PopAll("CubeRegion") {
		cc.DataContentRegion = append(cc.DataContentRegion, v.(*model.CubeRegion))
	}
	rd.pushMaintainable(cc)
	return nil
}
