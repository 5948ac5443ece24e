package reader

import (
	"strconv"

	"github.com/sdmxkit/sdmxml/codec"
	"github.com/sdmxkit/sdmxml/i18n"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
)

// endText pushes the element's character data under its local name.
func endText(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push(e.Name.Local, "", e.Text())
	return nil
}

// endDatetime normalizes a header timestamp before pushing it. Values that
// do not parse are kept verbatim.
func endDatetime(rd *Reader, e *xmlstream.Element) error {
	text := e.Text()
	if t, err := codec.ParseDateTime(text); err == nil {
		text = codec.FormatDateTime(t)
	} else {
		rd.opts.log().Debug("unparseable timestamp kept verbatim",
			"element", e.Name.Local, "value", text)
	}
	rd.eng.Push(e.Name.Local, "", text)
	return nil
}

// endLocalization pushes one (locale, text) pair under the element's local
// name. Locale tags are canonicalized so lookups do not depend on the
// provider's casing.
func endLocalization(rd *Reader, e *xmlstream.Element) error {
	lang, _ := e.AttrNS(xmlformat.NSXML, "lang")
	rd.eng.Push(e.Name.Local, "", model.LocalizedText{
		Locale: i18n.Canonical(lang),
		Value:  e.Text(),
	})
	return nil
}

// refHolderHints maps reference-holder tags to the class their target is
// known to have when the wire carries no class attribute.
var refHolderHints = map[string]model.Class{
	"Structure":          model.ClassDataStructureDefinition,
	"StructureUsage":     model.ClassDataflow,
	"Enumeration":        model.ClassCodelist,
	"ConceptIdentity":    model.ClassConcept,
	"ConceptRole":        model.ClassConcept,
	"DimensionReference": model.ClassDimension,
	"AttachmentGroup":    model.ClassGroupDimensionDescriptor,
	"Target":             model.ClassCategory,
}

// endRefHolder parses the reference carried by a named child element such
// as <str:ConceptIdentity> and pushes it under the element's local name.
func endRefHolder(rd *Reader, e *xmlstream.Element) error {
	hint := refHolderHints[e.Name.Local]
	if e.Name.Local == "Parent" && e.Parent() != nil {
		// The parent of an item is an item of the same kind.
		if p, ok := xmlformat.PrefixOf(e.Parent().Name.Space); ok {
			if cls, ok := xmlformat.ClassForTag(p + ":" + e.Parent().Name.Local); ok {
				hint = cls
			}
		}
	}
	ref, err := rd.popReference(e, hint)
	if err != nil {
		return err
	}
	rd.eng.Push(e.Name.Local, "", ref)
	return nil
}

// endAnnotation assembles one annotation from its child fragments.
func endAnnotation(rd *Reader, e *xmlstream.Element) error {
	a := &model.Annotation{
		Title: rd.popText("AnnotationTitle"),
		Type:  rd.popText("AnnotationType"),
		URL:   rd.popText("AnnotationURL"),
	}
	a.ID, _ = e.Attr("id")
	a.Text.Update(popTexts(rd, "AnnotationText")...)
	rd.eng.Push("Annotation", "", a)
	return nil
}

// endFacet converts <str:TextFormat> or <str:EnumerationFormat> attributes
// into a Facet.
func endFacet(rd *Reader, e *xmlstream.Element) error {
	f := &model.Facet{
		TextType:  e.AttrDefault("textType", "String"),
		MinLength: e.AttrDefault("minLength", ""),
		MaxLength: e.AttrDefault("maxLength", ""),
		MinValue:  e.AttrDefault("minValue", ""),
		MaxValue:  e.AttrDefault("maxValue", ""),
		Pattern:   e.AttrDefault("pattern", ""),
	}
	rd.eng.Push("Facet", "", f)
	return nil
}

// endRepresentation combines an enumeration reference and facets.
func endRepresentation(rd *Reader, e *xmlstream.Element) error {
	rep := &model.Representation{}
	enum, err := rd.popResolvedRef("Enumeration")
	if err != nil {
		return err
	}
	if enum != nil {
		rep.Enumerated = enum.(*model.ItemScheme)
	}
	for _, v := range rd.eng.PopAll("Facet") {
		rep.NonEnumerated = append(rep.NonEnumerated, v.(*model.Facet))
	}
	rd.eng.Push("Representation", "", rep)
	return nil
}

// startContact shields the enclosing organisation's name fragments from
// the contact's own.
func startContact(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Stash("Name", "Department", "Role")
	return nil
}

func endContact(rd *Reader, e *xmlstream.Element) error {
	c := &model.Contact{
		Name:           rd.popLocalizations("Name"),
		OrgUnit:        rd.popLocalizations("Department"),
		Responsibility: rd.popLocalizations("Role"),
		Telephone:      rd.popText("Telephone"),
	}
	for _, v := range rd.eng.PopAll("URI") {
		c.URI = append(c.URI, v.(string))
	}
	for _, v := range rd.eng.PopAll("Email") {
		c.Email = append(c.Email, v.(string))
	}
	rd.eng.Push("Contact", "", c)
	return rd.eng.Unstash()
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
