package model

// Class identifies the concrete kind of an artefact. Wire-tag dispatch and
// reference resolution use this closed enumeration instead of type
// assertions over the whole model.
type Class int

const (
	ClassNone Class = iota

	// Items
	ClassAgency
	ClassCode
	ClassCategory
	ClassConcept
	ClassDataProvider
	ClassDataConsumer

	// Item schemes
	ClassAgencyScheme
	ClassCodelist
	ClassCategoryScheme
	ClassConceptScheme
	ClassDataProviderScheme
	ClassDataConsumerScheme

	// Components
	ClassDimension
	ClassTimeDimension
	ClassMeasureDimension
	ClassPrimaryMeasure
	ClassDataAttribute

	// Component lists
	ClassDimensionDescriptor
	ClassAttributeDescriptor
	ClassMeasureDescriptor
	ClassGroupDimensionDescriptor

	// Other maintainables
	ClassDataStructureDefinition
	ClassDataflow
	ClassContentConstraint
	ClassProvisionAgreement
	ClassCategorisation
)

var classNames = map[Class]string{
	ClassAgency:                   "Agency",
	ClassCode:                     "Code",
	ClassCategory:                 "Category",
	ClassConcept:                  "Concept",
	ClassDataProvider:             "DataProvider",
	ClassDataConsumer:             "DataConsumer",
	ClassAgencyScheme:             "AgencyScheme",
	ClassCodelist:                 "Codelist",
	ClassCategoryScheme:           "CategoryScheme",
	ClassConceptScheme:            "ConceptScheme",
	ClassDataProviderScheme:       "DataProviderScheme",
	ClassDataConsumerScheme:       "DataConsumerScheme",
	ClassDimension:                "Dimension",
	ClassTimeDimension:            "TimeDimension",
	ClassMeasureDimension:         "MeasureDimension",
	ClassPrimaryMeasure:           "PrimaryMeasure",
	ClassDataAttribute:            "DataAttribute",
	ClassDimensionDescriptor:      "DimensionDescriptor",
	ClassAttributeDescriptor:      "AttributeDescriptor",
	ClassMeasureDescriptor:        "MeasureDescriptor",
	ClassGroupDimensionDescriptor: "GroupDimensionDescriptor",
	ClassDataStructureDefinition:  "DataStructure",
	ClassDataflow:                 "Dataflow",
	ClassContentConstraint:        "ContentConstraint",
	ClassProvisionAgreement:       "ProvisionAgreement",
	ClassCategorisation:           "Categorisation",
}

var classByName = func() map[string]Class {
	m := make(map[string]Class, len(classNames))
	for c, n := range classNames {
		m[n] = c
	}
	// Aliases that appear in URNs and Ref class attributes.
	m["DataStructureDefinition"] = ClassDataStructureDefinition
	m["Attribute"] = ClassDataAttribute
	return m
}()

func (c Class) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "None"
}

// ClassFor maps a class name as used in URNs and Ref tokens to a Class.
func ClassFor(name string) (Class, bool) {
	c, ok := classByName[name]
	return c, ok
}

// IsItem reports whether c is an ItemScheme member class.
func (c Class) IsItem() bool {
	switch c {
	case ClassAgency, ClassCode, ClassCategory, ClassConcept, ClassDataProvider, ClassDataConsumer:
		return true
	}
	return false
}

// IsItemScheme reports whether c is an ItemScheme class.
func (c Class) IsItemScheme() bool {
	switch c {
	case ClassAgencyScheme, ClassCodelist, ClassCategoryScheme, ClassConceptScheme,
		ClassDataProviderScheme, ClassDataConsumerScheme:
		return true
	}
	return false
}

// IsMaintainable reports whether artefacts of class c carry a maintaining
// agency and version.
func (c Class) IsMaintainable() bool {
	if c.IsItemScheme() {
		return true
	}
	switch c {
	case ClassDataStructureDefinition, ClassDataflow, ClassContentConstraint,
		ClassProvisionAgreement, ClassCategorisation:
		return true
	}
	return false
}

// IsComponent reports whether c is a Component class.
func (c Class) IsComponent() bool {
	switch c {
	case ClassDimension, ClassTimeDimension, ClassMeasureDimension, ClassPrimaryMeasure, ClassDataAttribute:
		return true
	}
	return false
}

// IsDimension reports whether c belongs to the dimension family.
func (c Class) IsDimension() bool {
	switch c {
	case ClassDimension, ClassTimeDimension, ClassMeasureDimension:
		return true
	}
	return false
}

// Matches reports whether an artefact of class c satisfies a reference to
// target. A plain Dimension target is satisfied by any dimension subtype.
func (c Class) Matches(target Class) bool {
	if c == target {
		return true
	}
	if target == ClassDimension && c.IsDimension() {
		return true
	}
	return false
}

// ItemClassOf returns the member class of an ItemScheme class.
func ItemClassOf(scheme Class) Class {
	switch scheme {
	case ClassAgencyScheme:
		return ClassAgency
	case ClassCodelist:
		return ClassCode
	case ClassCategoryScheme:
		return ClassCategory
	case ClassConceptScheme:
		return ClassConcept
	case ClassDataProviderScheme:
		return ClassDataProvider
	case ClassDataConsumerScheme:
		return ClassDataConsumer
	}
	return ClassNone
}

// ParentClassOf returns the Maintainable class owning artefacts of class c,
// or c itself when c is already maintainable.
func ParentClassOf(c Class) Class {
	if c.IsMaintainable() {
		return c
	}
	switch c {
	case ClassAgency:
		return ClassAgencyScheme
	case ClassCode:
		return ClassCodelist
	case ClassCategory:
		return ClassCategoryScheme
	case ClassConcept:
		return ClassConceptScheme
	case ClassDataProvider:
		return ClassDataProviderScheme
	case ClassDataConsumer:
		return ClassDataConsumerScheme
	}
	if c.IsComponent() || c == ClassDimensionDescriptor || c == ClassAttributeDescriptor ||
		c == ClassMeasureDescriptor || c == ClassGroupDimensionDescriptor {
		return ClassDataStructureDefinition
	}
	return ClassNone
}

// PackageOf returns the SDMX information-model package a class belongs to,
// as used in URNs and Ref tokens.
func PackageOf(c Class) string {
	switch {
	case c == ClassCode || c == ClassCodelist:
		return "codelist"
	case c == ClassConcept || c == ClassConceptScheme:
		return "conceptscheme"
	case c == ClassCategory || c == ClassCategoryScheme || c == ClassCategorisation:
		return "categoryscheme"
	case c == ClassAgency || c == ClassAgencyScheme || c == ClassDataProvider ||
		c == ClassDataProviderScheme || c == ClassDataConsumer || c == ClassDataConsumerScheme:
		return "base"
	case c == ClassContentConstraint || c == ClassProvisionAgreement:
		return "registry"
	default:
		return "datastructure"
	}
}
