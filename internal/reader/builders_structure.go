package reader

import (
	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
)

func classForElement(e *xmlstream.Element) (model.Class, bool) {
	p, ok := xmlformat.PrefixOf(e.Name.Space)
	if !ok {
		return model.ClassNone, false
	}
	return xmlformat.ClassForTag(p + ":" + e.Name.Local)
}

// startItem opens a scheme member. The member's name fragments must not be
// confused with the enclosing scheme's, so the shared stacks are stashed
// for the duration of the element.
func startItem(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Stash("Annotation", "Name", "Description")
	return nil
}

// itemEnd builds one scheme member, claiming nested members parsed before
// it and linking the <str:Parent> reference when present. It returns nil
// when the element was only a reference.
func itemEnd(rd *Reader, e *xmlstream.Element) (*model.Item, error) {
	cls, ok := classForElement(e)
	if !ok {
		return nil, sdmxerr.New(sdmxerr.CodeUnrecognizedTag, e.Path(), "unknown item tag")
	}

	if hasRef(e) {
		// A reference to an item elsewhere, e.g. <str:DataProvider> in a
		// constraint attachment.
		ref, err := rd.popReference(e, cls)
		if err != nil {
			return nil, err
		}
		rd.eng.Push("Reference", "", ref)
		return nil, rd.eng.Unstash()
	}

	item := model.NewItem(cls, "")
	rd.fillNameable(item, e)

	// Nested members were pushed by their own end events; claim exactly as
	// many as this element directly contains, restoring document order.
	n := e.ChildCount(e.Name)
	children := make([]*model.Item, 0, n)
	for i := 0; i < n; i++ {
		v, ok := rd.eng.PopSingle(cls.String())
		if !ok {
			break
		}
		children = append(children, v.(*model.Item))
	}
	for i := len(children) - 1; i >= 0; i-- {
		item.AppendChild(children[i])
	}

	parent, err := rd.popResolvedRef("Parent")
	if err != nil {
		return nil, err
	}
	if p, ok := parent.(*model.Item); ok {
		p.AppendChild(item)
	}

	for _, v := range rd.eng.PopAll("Contact") {
		item.Contacts = append(item.Contacts, v.(*model.Contact))
	}

	if err := rd.eng.Unstash(); err != nil {
		return nil, err
	}
	rd.eng.Push(cls.String(), item.ID, item)
	return item, nil
}

func endItem(rd *Reader, e *xmlstream.Element) error {
	_, err := itemEnd(rd, e)
	return err
}

// endConcept additionally claims the concept's core representation.
func endConcept(rd *Reader, e *xmlstream.Element) error {
	item, err := itemEnd(rd, e)
	if err != nil || item == nil {
		return err
	}
	if v, ok := rd.eng.PopSingle("Representation"); ok {
		item.CoreRepresentation = v.(*model.Representation)
	}
	return nil
}

// endItemScheme assembles a scheme from the members parsed inside it,
// flattening nested members into the scheme's item set.
func endItemScheme(rd *Reader, e *xmlstream.Element) error {
	cls, ok := classForElement(e)
	if !ok {
		return sdmxerr.New(sdmxerr.CodeUnrecognizedTag, e.Path(), "unknown scheme tag")
	}

	if hasRef(e) {
		ref, err := rd.popReference(e, cls)
		if err != nil {
			return err
		}
		rd.eng.Push("Reference", "", ref)
		return nil
	}

	scheme := rd.maintainable(cls, e, refHints{}).(*model.ItemScheme)
	if v, ok := e.Attr("isPartial"); ok {
		scheme.IsPartial = v == "true"
	}

	var flatten func(it *model.Item)
	flatten = func(it *model.Item) {
		scheme.Append(it)
		for _, c := range it.Children {
			flatten(c)
		}
	}
	for _, v := range rd.eng.PopAll(scheme.ItemClass().String()) {
		flatten(v.(*model.Item))
	}

	rd.pushMaintainable(scheme)
	return nil
}

// endComponent builds one component of the data structure under
// construction.
func endComponent(rd *Reader, e *xmlstream.Element) error {
	cls, ok := classForElement(e)
	if !ok {
		return sdmxerr.New(sdmxerr.CodeUnrecognizedTag, e.Path(), "unknown component tag")
	}

	if hasRef(e) {
		// Within <str:AttributeRelationship>, components appear as
		// references to dimensions or the primary measure.
		ref, err := rd.popReference(e, cls)
		if err != nil {
			return err
		}
		rd.eng.Push("Reference", "", ref)
		return nil
	}

	c := model.NewComponent(cls, e.AttrDefault("id", ""))
	rd.fillIdentifiable(c, e)
	c.Order = atoiDefault(e.AttrDefault("position", ""), 0)

	ci, err := rd.popResolvedRef("ConceptIdentity")
	if err != nil {
		return err
	}
	if concept, ok := ci.(*model.Item); ok {
		c.ConceptIdentity = concept
		// A component without an explicit id takes the id of its concept.
		if c.ID == "" {
			c.ID = concept.ID
		}
	}
	cr, err := rd.popResolvedRef("ConceptRole")
	if err != nil {
		return err
	}
	if role, ok := cr.(*model.Item); ok {
		c.ConceptRole = role
	}
	if v, ok := rd.eng.PopSingle("Representation"); ok {
		c.LocalRepresentation = v.(*model.Representation)
	}
	if v, ok := rd.eng.PopSingle("AttributeRelationship"); ok {
		c.RelatedTo = v.(model.AttributeRelationship)
	}

	rd.eng.Push("Component", "", c)
	return nil
}

func endNoRelationship(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("AttributeRelationship", "", model.NoSpecifiedRelationship{})
	return nil
}

// endAttributeRelationship resolves the referenced components against the
// data structure under construction.
func endAttributeRelationship(rd *Reader, e *xmlstream.Element) error {
	dsd, err := rd.currentDSD(e)
	if err != nil {
		return err
	}

	var rel model.AttributeRelationship
	var dims []*model.Component
	for _, v := range rd.eng.PopAll("Reference") {
		ref := v.(*Reference)
		switch {
		case ref.TargetClass.IsDimension():
			dims = append(dims, dsd.Dimensions.GetOrCreate(ref.TargetID, ref.TargetClass))
		case ref.TargetClass == model.ClassPrimaryMeasure:
			// Usually a forward reference into <str:MeasureList>; the
			// relationship itself carries no further detail.
			rel = model.PrimaryMeasureRelationship{}
		case ref.TargetClass == model.ClassGroupDimensionDescriptor:
			if g, ok := dsd.GroupDimension(ref.TargetID); ok {
				rel = model.GroupRelationship{Group: g}
			}
		}
	}
	if v, ok := rd.eng.PopSingle("AttachmentGroup"); ok {
		ref := v.(*Reference)
		if g, ok := dsd.GroupDimension(ref.TargetID); ok {
			rel = model.GroupRelationship{Group: g}
		}
	}

	if rel == nil && len(dims) == 0 {
		return nil
	}
	if len(dims) > 0 {
		rel = model.DimensionRelationship{Dimensions: dims}
	}
	rd.eng.Push("AttributeRelationship", "", rel)
	return nil
}

func (rd *Reader) currentDSD(e *xmlstream.Element) (*model.DataStructureDefinition, error) {
	v, ok := rd.eng.Peek("current DSD")
	if !ok {
		return nil, sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(),
			"component outside a DataStructure")
	}
	return v.(*model.DataStructureDefinition), nil
}

// endComponentList attaches a finished descriptor to the data structure
// eagerly, so later payload elements can resolve against it.
func endComponentList(rd *Reader, e *xmlstream.Element) error {
	cls, ok := classForElement(e)
	if !ok {
		return sdmxerr.New(sdmxerr.CodeUnrecognizedTag, e.Path(), "unknown descriptor tag")
	}
	dsd, err := rd.currentDSD(e)
	if err != nil {
		return err
	}

	cl := model.NewComponentList(cls, e.AttrDefault("id", ""))
	rd.fillIdentifiable(cl, e)
	for _, v := range rd.eng.PopAll("Component") {
		cl.Append(v.(*model.Component))
	}
	if cls == model.ClassDimensionDescriptor {
		cl.AssignOrder()
	}

	cl.DSD = dsd
	switch cls {
	case model.ClassDimensionDescriptor:
		dsd.Dimensions = cl
	case model.ClassAttributeDescriptor:
		dsd.Attributes = cl
	case model.ClassMeasureDescriptor:
		dsd.Measures = cl
	}
	return nil
}

// endGroupDescriptor handles <str:Group> inside the component payload: a
// GroupDimensionDescriptor whose members reference existing dimensions.
func endGroupDescriptor(rd *Reader, e *xmlstream.Element) error {
	if hasRef(e) {
		ref, err := rd.popReference(e, model.ClassGroupDimensionDescriptor)
		if err != nil {
			return err
		}
		rd.eng.Push("Reference", "", ref)
		return nil
	}
	dsd, err := rd.currentDSD(e)
	if err != nil {
		return err
	}

	gd := model.NewComponentList(model.ClassGroupDimensionDescriptor, e.AttrDefault("id", ""))
	for _, v := range rd.eng.PopAll("DimensionReference") {
		ref := v.(*Reference)
		if dim, ok := dsd.Dimensions.Get(ref.TargetID); ok {
			gd.Append(dim)
		} else {
			return sdmxerr.New(sdmxerr.CodeUnresolvableReference, e.Path(),
				"group %q references unknown dimension %q", gd.ID, ref.TargetID)
		}
	}
	dsd.AddGroupDimension(gd)
	return nil
}

// startDSD opens a concrete data structure. The reference form, which has
// no id attribute, is left for endDSD.
func startDSD(rd *Reader, e *xmlstream.Element) error {
	if _, ok := e.Attr("id"); !ok {
		return nil
	}
	dsd := rd.maintainable(model.ClassDataStructureDefinition, e, refHints{}).(*model.DataStructureDefinition)
	rd.pushMaintainable(dsd)
	rd.eng.Push("current DSD", "", dsd)
	return nil
}

func endDSD(rd *Reader, e *xmlstream.Element) error {
	if hasRef(e) {
		ref, err := rd.popReference(e, model.ClassDataStructureDefinition)
		if err != nil {
			return err
		}
		rd.eng.Push("Reference", "", ref)
		return nil
	}
	v, ok := rd.eng.PopSingle("current DSD")
	if !ok {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(), "unbalanced DataStructure")
	}
	dsd := v.(*model.DataStructureDefinition)
	// Names, description, and annotations trail the component payload.
	rd.fillNameable(dsd, e)
	return nil
}

func endDataflow(rd *Reader, e *xmlstream.Element) error {
	if hasRef(e) {
		ref, err := rd.popReference(e, model.ClassDataflow)
		if err != nil {
			return err
		}
		rd.eng.Push("Reference", "", ref)
		return nil
	}
	structure, err := rd.popResolvedRef("Structure")
	if err != nil {
		return err
	}
	df := rd.maintainable(model.ClassDataflow, e, refHints{}).(*model.Dataflow)
	if dsd, ok := structure.(*model.DataStructureDefinition); ok {
		df.Structure = dsd
	}
	rd.pushMaintainable(df)
	return nil
}

func endCategorisation(rd *Reader, e *xmlstream.Element) error {
	source, err := rd.popResolvedRef("Source")
	if err != nil {
		return err
	}
	target, err := rd.popResolvedRef("Target")
	if err != nil {
		return err
	}
	cat := rd.maintainable(model.ClassCategorisation, e, refHints{}).(*model.Categorisation)
	if a, ok := source.(model.Maintainable); ok {
		cat.Artefact = a
	}
	if c, ok := target.(*model.Item); ok {
		cat.Category = c
	}
	rd.pushMaintainable(cat)
	return nil
}

func endProvisionAgreement(rd *Reader, e *xmlstream.Element) error {
	su, err := rd.popResolvedRef("StructureUsage")
	if err != nil {
		return err
	}
	dp, err := rd.popResolvedRef("Reference")
	if err != nil {
		return err
	}
	pa := rd.maintainable(model.ClassProvisionAgreement, e, refHints{}).(*model.ProvisionAgreement)
	if df, ok := su.(*model.Dataflow); ok {
		pa.StructureUsage = df
	}
	if item, ok := dp.(*model.Item); ok {
		pa.DataProvider = item
	}
	rd.pushMaintainable(pa)
	return nil
}

func endUnsupported(rd *Reader, e *xmlstream.Element) error {
	return sdmxerr.New(sdmxerr.CodeNotImplemented, e.Path(),
		"<%s> is not supported by this decoder", e.Name.Local)
}
