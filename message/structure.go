package message

import "github.com/sdmxkit/sdmxml/model"

// StructureMessage holds the decoded payload of an SDMX-ML Structure
// message: one collection per artefact kind, in the canonical payload
// order.
type StructureMessage struct {
	common

	OrganisationScheme Collection
	Dataflow           Collection
	CategoryScheme     Collection
	Categorisation     Collection
	Codelist           Collection
	ConceptScheme      Collection
	Structure          Collection
	Constraint         Collection
	ProvisionAgreement Collection
}

// Add files an artefact into the collection its class belongs to. Unknown
// classes are ignored.
func (m *StructureMessage) Add(obj model.Maintainable) {
	if obj == nil {
		return
	}
	if c := m.collectionFor(obj.Class()); c != nil {
		c.Add(obj)
	}
}

func (m *StructureMessage) collectionFor(cls model.Class) *Collection {
	switch cls {
	case model.ClassAgencyScheme, model.ClassDataProviderScheme, model.ClassDataConsumerScheme:
		return &m.OrganisationScheme
	case model.ClassDataflow:
		return &m.Dataflow
	case model.ClassCategoryScheme:
		return &m.CategoryScheme
	case model.ClassCategorisation:
		return &m.Categorisation
	case model.ClassCodelist:
		return &m.Codelist
	case model.ClassConceptScheme:
		return &m.ConceptScheme
	case model.ClassDataStructureDefinition:
		return &m.Structure
	case model.ClassContentConstraint:
		return &m.Constraint
	case model.ClassProvisionAgreement:
		return &m.ProvisionAgreement
	}
	return nil
}

// Collections returns the non-empty collections with their payload names,
// in canonical order.
func (m *StructureMessage) Collections() []NamedCollection {
	all := []NamedCollection{
		{"OrganisationSchemes", &m.OrganisationScheme},
		{"Dataflows", &m.Dataflow},
		{"CategorySchemes", &m.CategoryScheme},
		{"Categorisations", &m.Categorisation},
		{"Codelists", &m.Codelist},
		{"Concepts", &m.ConceptScheme},
		{"DataStructures", &m.Structure},
		{"Constraints", &m.Constraint},
		{"ProvisionAgreements", &m.ProvisionAgreement},
	}
	out := all[:0]
	for _, nc := range all {
		if nc.Collection.Len() > 0 {
			out = append(out, nc)
		}
	}
	return out
}

// NamedCollection pairs a payload container name with its collection.
type NamedCollection struct {
	Name       string
	Collection *Collection
}

// Objects returns every artefact of the message in payload order.
func (m *StructureMessage) Objects() []model.Maintainable {
	var out []model.Maintainable
	for _, nc := range m.Collections() {
		out = append(out, nc.Collection.Items()...)
	}
	return out
}
