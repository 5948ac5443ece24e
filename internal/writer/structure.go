package writer

import (
	"sort"
	"strconv"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmltree"
	"github.com/sdmxkit/sdmxml/model"
)

// maintainableEl dispatches on the concrete artefact kind.
func maintainableEl(obj model.Maintainable) (*xmltree.El, error) {
	switch v := obj.(type) {
	case *model.ItemScheme:
		return itemScheme(v)
	case *model.DataStructureDefinition:
		return dsd(v)
	case *model.Dataflow:
		return dataflow(v)
	case *model.ContentConstraint:
		return contentConstraint(v)
	case *model.ProvisionAgreement:
		return provisionAgreement(v)
	case *model.Categorisation:
		return categorisation(v)
	}
	return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "", "cannot encode %T", obj)
}

func component(c *model.Component) (*xmltree.El, error) {
	elem, err := identifiable(c, "")
	if err != nil {
		return nil, err
	}
	if c.Order > 0 && c.Class().IsDimension() {
		elem.SetAttr("position", strconv.Itoa(c.Order))
	}
	if ci := c.ConceptIdentity; ci != nil {
		var scheme model.Maintainable
		if ci.Scheme != nil {
			scheme = ci.Scheme
		}
		elem.Add(refEl("str:ConceptIdentity", scheme, ci.ID, model.ClassConcept))
	}
	if c.LocalRepresentation != nil {
		elem.Add(representation(c.LocalRepresentation, "str:LocalRepresentation"))
	}
	if c.RelatedTo != nil {
		elem.Add(attributeRelationship(c.RelatedTo))
	}
	return elem, nil
}

func attributeRelationship(rel model.AttributeRelationship) *xmltree.El {
	elem := xmltree.New("str:AttributeRelationship")
	switch r := rel.(type) {
	case model.NoSpecifiedRelationship:
		elem.Child("str:None")
	case model.PrimaryMeasureRelationship:
		elem.Child("str:PrimaryMeasure").Child("Ref").SetAttr("id", "OBS_VALUE")
	case model.DimensionRelationship:
		for _, dim := range r.Dimensions {
			elem.Child("str:Dimension").Child("Ref").SetAttr("id", dim.ID)
		}
	case model.GroupRelationship:
		id := ""
		if r.Group != nil {
			id = r.Group.ID
		}
		elem.Child("str:Group").Child("Ref").SetAttr("id", id)
	}
	return elem
}

func componentList(cl *model.ComponentList) (*xmltree.El, error) {
	elem, err := identifiable(cl, "")
	if err != nil {
		return nil, err
	}
	for _, c := range cl.Components() {
		e, err := component(c)
		if err != nil {
			return nil, err
		}
		elem.Add(e)
	}
	return elem, nil
}

func groupDescriptor(gd *model.ComponentList) (*xmltree.El, error) {
	elem, err := identifiable(gd, "")
	if err != nil {
		return nil, err
	}
	for _, dim := range gd.Components() {
		elem.Child("str:GroupDimension").
			Child("str:DimensionReference").
			Child("Ref").SetAttr("id", dim.ID)
	}
	return elem, nil
}

func dsd(d *model.DataStructureDefinition) (*xmltree.El, error) {
	elem, err := maintainable(d, "")
	if err != nil {
		return nil, err
	}
	comps := elem.Child("str:DataStructureComponents")

	dims, err := componentList(d.Dimensions)
	if err != nil {
		return nil, err
	}
	comps.Add(dims)
	for _, g := range d.GroupDimensions() {
		e, err := groupDescriptor(g)
		if err != nil {
			return nil, err
		}
		comps.Add(e)
	}
	attrs, err := componentList(d.Attributes)
	if err != nil {
		return nil, err
	}
	comps.Add(attrs)
	measures, err := componentList(d.Measures)
	if err != nil {
		return nil, err
	}
	comps.Add(measures)
	return elem, nil
}

func dataflow(df *model.Dataflow) (*xmltree.El, error) {
	elem, err := maintainable(df, "")
	if err != nil {
		return nil, err
	}
	if df.Structure != nil {
		elem.Add(maintRefEl("str:Structure", df.Structure))
	}
	return elem, nil
}

func categorisation(c *model.Categorisation) (*xmltree.El, error) {
	elem, err := maintainable(c, "")
	if err != nil {
		return nil, err
	}
	if c.Artefact != nil {
		elem.Add(maintRefEl("str:Source", c.Artefact))
	}
	if c.Category != nil {
		var scheme model.Maintainable
		if c.Category.Scheme != nil {
			scheme = c.Category.Scheme
		}
		elem.Add(refEl("str:Target", scheme, c.Category.HierarchicalID(), model.ClassCategory))
	}
	return elem, nil
}

func provisionAgreement(pa *model.ProvisionAgreement) (*xmltree.El, error) {
	elem, err := maintainable(pa, "")
	if err != nil {
		return nil, err
	}
	if pa.StructureUsage != nil {
		elem.Add(maintRefEl("str:StructureUsage", pa.StructureUsage))
	}
	if pa.DataProvider != nil {
		var scheme model.Maintainable
		if pa.DataProvider.Scheme != nil {
			scheme = pa.DataProvider.Scheme
		}
		elem.Add(refEl("str:DataProvider", scheme, pa.DataProvider.ID, model.ClassDataProvider))
	}
	return elem, nil
}

func memberSelection(ms *model.MemberSelection) *xmltree.El {
	id := ""
	if ms.ValuesFor != nil {
		id = ms.ValuesFor.ID
	}
	tag := "com:KeyValue"
	if ms.ValuesFor != nil && ms.ValuesFor.Class() == model.ClassDataAttribute {
		tag = "com:Attribute"
	}
	elem := xmltree.New(tag).SetAttr("id", id)
	for _, mv := range ms.Values {
		v := elem.Child("com:Value")
		v.Text = mv.Value
		if mv.Cascade {
			v.SetAttr("cascadeValues", "true")
		}
	}
	for _, tr := range ms.TimeRanges {
		e := elem.Child("com:TimeRange")
		if tr.Start != nil {
			p := e.Child("com:StartPeriod")
			p.Text = tr.Start.Value
			p.SetAttr("isInclusive", boolAttr(tr.Start.IsInclusive))
		}
		if tr.End != nil {
			p := e.Child("com:EndPeriod")
			p.Text = tr.End.Value
			p.SetAttr("isInclusive", boolAttr(tr.End.IsInclusive))
		}
	}
	return elem
}

func contentConstraint(cc *model.ContentConstraint) (*xmltree.El, error) {
	elem, err := maintainable(cc, "")
	if err != nil {
		return nil, err
	}
	role := "Allowed"
	if cc.Role == model.RoleActual {
		role = "Actual"
	}
	elem.SetAttr("type", role)

	for _, ca := range cc.Content {
		tag, ok := xmlformat.TagForClass(ca.Class())
		if !ok {
			return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "",
				"cannot reference %s from a constraint attachment", ca.Class())
		}
		elem.Child("str:ConstraintAttachment").Add(maintRefEl(tag, ca))
	}

	for _, dks := range cc.DataContentKeys {
		e := elem.Child("str:DataKeySet").SetAttr("isIncluded", boolAttr(dks.Included))
		for _, dk := range dks.Keys {
			ke := e.Child("str:Key").SetAttr("isIncluded", boolAttr(dk.Included))
			comps := make([]*model.Component, 0, len(dk.KeyValue))
			for comp := range dk.KeyValue {
				if comp != nil {
					comps = append(comps, comp)
				}
			}
			sort.Slice(comps, func(i, j int) bool { return comps[i].ID < comps[j].ID })
			for _, comp := range comps {
				kv := ke.Child("com:KeyValue").SetAttr("id", comp.ID)
				kv.Child("com:Value").Text = dk.KeyValue[comp]
			}
		}
	}
	for _, cr := range cc.DataContentRegion {
		e := elem.Child("str:CubeRegion").SetAttr("include", boolAttr(cr.Included))
		for _, ms := range cr.Member {
			e.Add(memberSelection(ms))
		}
	}
	return elem, nil
}
