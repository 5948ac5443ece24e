package reader

import (
	"encoding/xml"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
	"github.com/sdmxkit/sdmxml/urn"
)

// Reference is a parsed <Ref> or <URN> child, not yet resolved.
//
// ParentClass, AgencyID, ID and Version identify the maintainable parent.
// For a reference to a maintainable artefact TargetClass and TargetID
// repeat the parent; otherwise they identify the child within it.
type Reference struct {
	ParentClass model.Class
	AgencyID    string
	ID          string
	Version     string

	TargetClass model.Class
	TargetID    string
}

// IsMaintainable reports whether the reference targets the parent itself.
func (r *Reference) IsMaintainable() bool { return r.TargetClass.IsMaintainable() }

// rawRef is what the <Ref>/<URN> end handlers push for the enclosing
// element to consume.
type rawRef struct {
	attrs   []xml.Attr // Ref form
	urnText string     // URN form
}

func endRawRef(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("RawRef", "", &rawRef{attrs: e.Attrs()})
	return nil
}

func endRawURN(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("RawRef", "", &rawRef{urnText: e.Text()})
	return nil
}

// hasRef reports whether e directly contains a <Ref> or <URN> child, i.e.
// is the reference form of its tag.
func hasRef(e *xmlstream.Element) bool {
	return e.ChildCount(xml.Name{Local: "Ref"}) > 0 ||
		e.ChildCount(xml.Name{Local: "URN"}) > 0
}

// popReference consumes the pending raw reference pushed by e's Ref or URN
// child. clsHint overrides or narrows the target class when the wire
// carries none.
func (rd *Reader) popReference(e *xmlstream.Element, clsHint model.Class) (*Reference, error) {
	v, ok := rd.eng.PopSingle("RawRef")
	if !ok {
		return nil, sdmxerr.New(sdmxerr.CodeBadReference, e.Path(), "element is not a reference")
	}
	raw := v.(*rawRef)

	if raw.urnText != "" {
		u, err := urn.Parse(raw.urnText)
		if err != nil {
			return nil, sdmxerr.Wrap(sdmxerr.CodeBadURN, e.Path(), err)
		}
		cls, ok := model.ClassFor(u.Class)
		if !ok {
			cls = clsHint
		}
		if cls == model.ClassNone {
			return nil, sdmxerr.New(sdmxerr.CodeBadReference, e.Path(),
				"unsupported artefact class %q in reference to %q", u.Class, u.ID)
		}
		ref := &Reference{AgencyID: u.Agency, ID: u.ID, Version: u.Version}
		if u.ItemID == "" {
			ref.TargetClass, ref.TargetID = cls, u.ID
			ref.ParentClass = cls
		} else {
			ref.TargetClass, ref.TargetID = cls, u.ItemID
			ref.ParentClass = model.ParentClassOf(cls)
		}
		return ref, nil
	}

	attr := func(name string) string {
		for _, a := range raw.attrs {
			if a.Name.Local == name {
				return a.Value
			}
		}
		return ""
	}

	targetID := attr("id")
	if targetID == "" {
		return nil, sdmxerr.New(sdmxerr.CodeBadReference, e.Path(), "Ref without id")
	}

	targetCls, haveCls := model.ClassFor(attr("class"))
	if clsHint != model.ClassNone && (!haveCls || clsHint.Matches(targetCls)) {
		targetCls = clsHint
	}
	if targetCls == model.ClassNone {
		return nil, sdmxerr.New(sdmxerr.CodeBadReference, e.Path(),
			"cannot determine class of reference to %q", targetID)
	}

	ref := &Reference{
		AgencyID:    attr("agencyID"),
		TargetClass: targetCls,
		TargetID:    targetID,
	}
	if ref.IsMaintainable() {
		ref.ParentClass = targetCls
		ref.ID = targetID
		ref.Version = attr("version")
	} else {
		ref.ParentClass = model.ParentClassOf(targetCls)
		ref.ID = attr("maintainableParentID")
		ref.Version = attr("maintainableParentVersion")
		if ref.Version == "" {
			ref.Version = attr("version")
		}
	}
	return ref, nil
}

// resolve returns the object a reference denotes.
//
// The target is first sought among already-parsed objects. Failing that,
// the maintainable parent is created as (or found to be) an external
// placeholder: a maintainable target resolves to that placeholder, and a
// child target is materialized inside it on demand. A child of a concrete
// parent that does not exist is an error.
func (rd *Reader) resolve(ref *Reference) (any, error) {
	if ref == nil {
		return nil, nil
	}

	var found any
	rd.eng.Scan(
		func(name string) bool {
			cls, ok := model.ClassFor(name)
			return ok && ref.TargetClass.Matches(cls)
		},
		func(_ string, v any) bool {
			id, ok := v.(model.Identifiable)
			if !ok {
				return true
			}
			if id.Ident().ID != ref.TargetID {
				return true
			}
			if ref.Version != "" {
				m, ok := v.(model.Maintainable)
				if ok && m.Maint().Version != "" && m.Maint().Version != ref.Version {
					return true
				}
			}
			found = v
			return false
		})
	if found != nil {
		return found, nil
	}

	parent := rd.maintainable(ref.ParentClass, nil, refHints{
		id:      ref.ID,
		agency:  ref.AgencyID,
		version: ref.Version,
	})
	if parent == nil {
		return nil, sdmxerr.New(sdmxerr.CodeUnresolvableReference, "",
			"no maintainable parent class for reference to %s %q", ref.TargetClass, ref.TargetID)
	}

	if ref.IsMaintainable() {
		return parent, nil
	}

	if parent.Maint().IsExternalReference {
		switch p := parent.(type) {
		case *model.ItemScheme:
			return p.GetOrCreate(ref.TargetID), nil
		case *model.DataStructureDefinition:
			return rd.dsdChild(p, ref), nil
		}
	}

	switch p := parent.(type) {
	case *model.ItemScheme:
		if it, ok := p.Get(ref.TargetID); ok {
			return it, nil
		}
		if it, ok := p.GetHierarchical(ref.TargetID); ok {
			return it, nil
		}
	case *model.DataStructureDefinition:
		if c := rd.dsdChild(p, ref); c != nil {
			return c, nil
		}
	}
	return nil, sdmxerr.New(sdmxerr.CodeUnresolvableReference, "",
		"%s %q not found in %s %q", ref.TargetClass, ref.TargetID, ref.ParentClass, ref.ID)
}

// dsdChild locates or materializes a component inside a DSD placeholder.
func (rd *Reader) dsdChild(dsd *model.DataStructureDefinition, ref *Reference) *model.Component {
	var cl *model.ComponentList
	switch {
	case ref.TargetClass.IsDimension():
		cl = dsd.Dimensions
	case ref.TargetClass == model.ClassDataAttribute:
		cl = dsd.Attributes
	case ref.TargetClass == model.ClassPrimaryMeasure:
		cl = dsd.Measures
	default:
		return nil
	}
	if dsd.Maint().IsExternalReference {
		return cl.GetOrCreate(ref.TargetID, ref.TargetClass)
	}
	c, _ := cl.Get(ref.TargetID)
	return c
}

// popResolvedRef pops the Reference stored under name, if any, and
// resolves it.
func (rd *Reader) popResolvedRef(name string) (any, error) {
	v, ok := rd.eng.PopSingle(name)
	if !ok {
		return nil, nil
	}
	ref, ok := v.(*Reference)
	if !ok {
		return v, nil
	}
	return rd.resolve(ref)
}
