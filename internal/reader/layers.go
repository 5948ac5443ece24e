package reader

import (
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/model"
	"github.com/sdmxkit/sdmxml/urn"
)

// fillIdentifiable copies the identifiable attributes from e and collects
// pending annotations.
func (rd *Reader) fillIdentifiable(obj model.Identifiable, e *xmlstream.Element) {
	id := obj.Ident()
	if v, ok := e.Attr("id"); ok && id.ID == "" {
		id.ID = v
	}
	if v, ok := e.Attr("urn"); ok {
		id.URN = v
	}
	if v, ok := e.Attr("uri"); ok {
		id.URI = v
	}
	for _, v := range rd.eng.PopAll("Annotation") {
		id.Annotations = append(id.Annotations, v.(*model.Annotation))
	}
}

// fillNameable additionally collects pending Name and Description
// localizations.
func (rd *Reader) fillNameable(obj model.Nameable, e *xmlstream.Element) {
	rd.fillIdentifiable(obj, e)
	n := obj.Named()
	n.Name.Update(popTexts(rd, "Name")...)
	n.Description.Update(popTexts(rd, "Description")...)
}

func popTexts(rd *Reader, name string) []model.LocalizedText {
	vs := rd.eng.PopAll(name)
	out := make([]model.LocalizedText, len(vs))
	for i, v := range vs {
		out[i] = v.(model.LocalizedText)
	}
	return out
}

// refHints carry identity fields for artefacts created from a reference
// rather than from a concrete element.
type refHints struct {
	id      string
	agency  string
	version string
}

// maintainable creates or retrieves a maintainable artefact of cls.
//
// With a concrete element the candidate is filled from its attributes and
// pending child fragments. With e == nil (reference target) an
// external-reference placeholder is created from hints, given a URN, and
// pushed so later references converge on it.
//
// When an artefact with the same identity already exists on the class
// stack the candidate is discarded in favour of it; a concrete element
// additionally promotes an existing placeholder in place, clearing
// IsExternalReference and copying the header attributes over.
func (rd *Reader) maintainable(cls model.Class, e *xmlstream.Element, hints refHints) model.Maintainable {
	obj := model.NewMaintainable(cls)
	if obj == nil {
		return nil
	}
	m := obj.Maint()
	m.IsExternalReference = e == nil

	agencyID := hints.agency
	if e != nil {
		if v, ok := e.Attr("isExternalReference"); ok {
			m.IsExternalReference = v == "true"
		}
		if v, ok := e.Attr("isFinal"); ok {
			m.IsFinal = v == "true"
		}
		m.ValidFrom, _ = e.Attr("validFrom")
		m.ValidTo, _ = e.Attr("validTo")
		m.Version, _ = e.Attr("version")
		if v, ok := e.Attr("agencyID"); ok {
			agencyID = v
		}
		rd.fillNameable(obj, e)
	} else {
		obj.Ident().ID = hints.id
		m.Version = hints.version
	}

	if agencyID != "" {
		m.Maintainer = rd.agency(agencyID)
	}

	if v, ok := rd.eng.GetByKey(cls.String(), obj.Ident().ID); ok {
		existing := v.(model.Maintainable)
		em := existing.Maint()
		if identityMatches(em.Identity(), m.Identity()) || em.URN == urn.Make(obj) {
			if e != nil {
				// Previously an external placeholder, now concrete.
				em.IsExternalReference = false
				em.IsFinal = m.IsFinal
				em.ValidFrom = m.ValidFrom
				em.ValidTo = m.ValidTo
				if m.Version != "" {
					em.Version = m.Version
				}
				if existing.Ident().URN == "" {
					existing.Ident().URN = obj.Ident().URN
				}
				if m.Maintainer != nil {
					em.Maintainer = m.Maintainer
				}
				existing.Named().Name.Update(localizedPairs(obj.Named().Name)...)
				existing.Named().Description.Update(localizedPairs(obj.Named().Description)...)
			}
			return existing
		}
	}

	if m.IsExternalReference {
		if obj.Ident().URN == "" {
			obj.Ident().URN = urn.Make(obj)
		}
		rd.eng.Push(cls.String(), obj.Ident().ID, obj)
		rd.eng.MarkIgnore(obj)
	}
	return obj
}

// identityMatches reports whether two identity tuples denote the same
// artefact. References may omit the agency or version, so an empty field
// on either side acts as a wildcard.
func identityMatches(a, b model.IdentityKey) bool {
	if a.ID != b.ID {
		return false
	}
	if a.Agency != "" && b.Agency != "" && a.Agency != b.Agency {
		return false
	}
	if a.Version != "" && b.Version != "" && a.Version != b.Version {
		return false
	}
	return true
}

func localizedPairs(is model.InternationalString) []model.LocalizedText {
	locales := is.Locales()
	out := make([]model.LocalizedText, 0, len(locales))
	for _, loc := range locales {
		v, _ := is.Get(loc)
		out = append(out, model.LocalizedText{Locale: loc, Value: v})
	}
	return out
}

// agency returns the Agency item with the given id, synthesizing one when
// the message never declares it.
func (rd *Reader) agency(id string) *model.Item {
	if v, ok := rd.eng.GetByKey("Agency", id); ok {
		return v.(*model.Item)
	}
	a := model.NewItem(model.ClassAgency, id)
	rd.eng.Push("Agency", id, a)
	rd.eng.MarkIgnore(a)
	return a
}

// pushMaintainable stores obj on its class stack unless the same object is
// already there under its id.
func (rd *Reader) pushMaintainable(obj model.Maintainable) {
	name := obj.Class().String()
	if v, ok := rd.eng.GetByKey(name, obj.Ident().ID); ok && v == any(obj) {
		return
	}
	rd.eng.Push(name, obj.Ident().ID, obj)
}
