package writer

import (
	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmltree"
	"github.com/sdmxkit/sdmxml/model"
	"github.com/sdmxkit/sdmxml/urn"
)

// i11nEls renders every localization of s as one element with an xml:lang
// attribute, in insertion order.
func i11nEls(s model.InternationalString, tag string) []*xmltree.El {
	var out []*xmltree.El
	for _, locale := range s.Locales() {
		v, _ := s.Get(locale)
		e := xmltree.New(tag).SetAttr("xml:lang", locale)
		e.Text = v
		out = append(out, e)
	}
	return out
}

func annotation(a *model.Annotation) *xmltree.El {
	elem := xmltree.New("com:Annotation").SetAttrIf("id", a.ID)
	if a.Title != "" {
		elem.Child("com:AnnotationTitle").Text = a.Title
	}
	if a.Type != "" {
		elem.Child("com:AnnotationType").Text = a.Type
	}
	if a.URL != "" {
		elem.Child("com:AnnotationURL").Text = a.URL
	}
	elem.Add(i11nEls(a.Text, "com:AnnotationText")...)
	return elem
}

// annotable opens the element for an artefact and writes its annotations.
func annotable(obj model.Identifiable, tag string) (*xmltree.El, error) {
	if tag == "" {
		t, ok := xmlformat.TagForClass(obj.Class())
		if !ok {
			return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "",
				"no element for class %s", obj.Class())
		}
		tag = t
	}
	elem := xmltree.New(tag)
	if anns := obj.Ident().Annotations; len(anns) > 0 {
		wrap := elem.Child("com:Annotations")
		for _, a := range anns {
			wrap.Add(annotation(a))
		}
	}
	return elem, nil
}

func identifiable(obj model.Identifiable, tag string) (*xmltree.El, error) {
	elem, err := annotable(obj, tag)
	if err != nil {
		return nil, err
	}
	elem.SetAttrIf("id", obj.Ident().ID)
	elem.SetAttrIf("urn", obj.Ident().URN)
	return elem, nil
}

func nameable(obj model.Nameable, tag string) (*xmltree.El, error) {
	elem, err := identifiable(obj, tag)
	if err != nil {
		return nil, err
	}
	elem.Add(i11nEls(obj.Named().Name, "com:Name")...)
	elem.Add(i11nEls(obj.Named().Description, "com:Description")...)
	return elem, nil
}

func maintainable(obj model.Maintainable, tag string) (*xmltree.El, error) {
	elem, err := nameable(obj, tag)
	if err != nil {
		return nil, err
	}
	m := obj.Maint()
	if _, ok := elem.Attr("urn"); !ok {
		elem.SetAttr("urn", urn.Make(obj))
	}
	elem.SetAttrIf("version", m.Version)
	elem.SetAttr("isExternalReference", boolAttr(m.IsExternalReference))
	elem.SetAttr("isFinal", boolAttr(m.IsFinal))
	elem.SetAttrIf("agencyID", m.MaintainerID())
	elem.SetAttrIf("validFrom", m.ValidFrom)
	elem.SetAttrIf("validTo", m.ValidTo)
	return elem, nil
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// refEl writes a <Ref>-style reference to a child object inside the
// maintainable parent.
func refEl(tag string, parent model.Maintainable, targetID string, targetCls model.Class) *xmltree.El {
	elem := xmltree.New(tag)
	ref := elem.Child("Ref")
	if parent != nil {
		ref.SetAttrIf("agencyID", parent.Maint().MaintainerID())
		ref.SetAttr("maintainableParentID", parent.Ident().ID)
		ref.SetAttrIf("maintainableParentVersion", parent.Maint().Version)
		ref.SetAttrIf("package", model.PackageOf(parent.Class()))
	}
	ref.SetAttr("id", targetID)
	if targetCls != model.ClassNone {
		ref.SetAttr("class", targetCls.String())
	}
	return elem
}

// maintRefEl writes a <Ref>-style reference to a maintainable artefact.
func maintRefEl(tag string, obj model.Maintainable) *xmltree.El {
	elem := xmltree.New(tag)
	ref := elem.Child("Ref")
	ref.SetAttrIf("agencyID", obj.Maint().MaintainerID())
	ref.SetAttr("id", obj.Ident().ID)
	ref.SetAttrIf("version", obj.Maint().Version)
	ref.SetAttr("class", obj.Class().String())
	ref.SetAttrIf("package", model.PackageOf(obj.Class()))
	return elem
}

func item(it *model.Item, withURN bool) (*xmltree.El, error) {
	elem, err := nameable(it, "")
	if err != nil {
		return nil, err
	}
	if withURN {
		if _, ok := elem.Attr("urn"); !ok && it.Scheme != nil {
			elem.SetAttr("urn", urn.MakeItem(it.Scheme, it))
		}
	}
	if it.Parent != nil {
		elem.Child("str:Parent").Child("Ref").SetAttr("id", it.Parent.ID)
	}
	if it.CoreRepresentation != nil {
		elem.Add(representation(it.CoreRepresentation, "str:CoreRepresentation"))
	}
	for _, c := range it.Contacts {
		elem.Add(contact(c, "str:Contact"))
	}
	return elem, nil
}

func itemScheme(s *model.ItemScheme) (*xmltree.El, error) {
	elem, err := maintainable(s, "")
	if err != nil {
		return nil, err
	}
	if s.IsPartial {
		elem.SetAttr("isPartial", "true")
	}
	for _, it := range s.Items() {
		e, err := item(it, false)
		if err != nil {
			return nil, err
		}
		elem.Add(e)
	}
	return elem, nil
}

func representation(rep *model.Representation, tag string) *xmltree.El {
	elem := xmltree.New(tag)
	if rep.Enumerated != nil {
		elem.Add(maintRefEl("str:Enumeration", rep.Enumerated))
	}
	for _, f := range rep.NonEnumerated {
		e := elem.Child("str:TextFormat")
		e.SetAttrIf("textType", f.TextType)
		e.SetAttrIf("minLength", f.MinLength)
		e.SetAttrIf("maxLength", f.MaxLength)
		e.SetAttrIf("minValue", f.MinValue)
		e.SetAttrIf("maxValue", f.MaxValue)
		e.SetAttrIf("pattern", f.Pattern)
	}
	return elem
}

func contact(c *model.Contact, tag string) *xmltree.El {
	elem := xmltree.New(tag)
	elem.Add(i11nEls(c.Name, "com:Name")...)
	elem.Add(i11nEls(c.OrgUnit, "str:Department")...)
	elem.Add(i11nEls(c.Responsibility, "str:Role")...)
	if c.Telephone != "" {
		elem.Child("str:Telephone").Text = c.Telephone
	}
	for _, v := range c.URI {
		elem.Child("str:URI").Text = v
	}
	for _, v := range c.Email {
		elem.Child("str:Email").Text = v
	}
	return elem
}
