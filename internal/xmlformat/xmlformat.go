// Package xmlformat holds the SDMX-ML 2.1 namespace table and the mapping
// between qualified tag names and information-model classes.
package xmlformat

import (
	"strings"

	"github.com/sdmxkit/sdmxml/model"
)

// SDMX-ML 2.1 namespaces.
const (
	NSMessage   = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
	NSStructure = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure"
	NSCommon    = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common"
	NSGeneric   = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/data/generic"
	NSSpecific  = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/data/structurespecific"
	NSFooter    = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message/footer"
	NSXML       = "http://www.w3.org/XML/1998/namespace"
	NSXSI       = "http://www.w3.org/2001/XMLSchema-instance"
)

var prefixToNS = map[string]string{
	"mes":    NSMessage,
	"str":    NSStructure,
	"com":    NSCommon,
	"gen":    NSGeneric,
	"data":   NSSpecific,
	"footer": NSFooter,
	"xml":    NSXML,
	"xsi":    NSXSI,
}

var nsToPrefix = func() map[string]string {
	m := make(map[string]string, len(prefixToNS))
	for p, ns := range prefixToNS {
		m[ns] = p
	}
	return m
}()

// QName is a namespace-qualified element name.
type QName struct {
	Space string
	Local string
}

// Parse resolves a conventional prefixed name such as "str:Codelist" into
// its qualified form. A name without a prefix gets an empty namespace.
func Parse(name string) QName {
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		return QName{Local: name}
	}
	return QName{Space: prefixToNS[prefix], Local: local}
}

// String renders the qualified name back into conventional prefixed form.
// Names in unknown namespaces render as "{space}local".
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	if p, ok := nsToPrefix[q.Space]; ok {
		return p + ":" + q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Namespaces returns the prefix declarations emitted on document roots.
// The predefined xml prefix is omitted.
func Namespaces() map[string]string {
	out := make(map[string]string, len(prefixToNS))
	for p, ns := range prefixToNS {
		if p == "xml" {
			continue
		}
		out[p] = ns
	}
	return out
}

// PrefixOf returns the conventional prefix for a known namespace.
func PrefixOf(ns string) (string, bool) {
	p, ok := nsToPrefix[ns]
	return p, ok
}

// tagByClass maps model classes to their structure-payload tag.
var tagByClass = map[model.Class]string{
	model.ClassAgency:                   "str:Agency",
	model.ClassAgencyScheme:             "str:AgencyScheme",
	model.ClassCode:                     "str:Code",
	model.ClassCodelist:                 "str:Codelist",
	model.ClassCategory:                 "str:Category",
	model.ClassCategoryScheme:           "str:CategoryScheme",
	model.ClassConcept:                  "str:Concept",
	model.ClassConceptScheme:            "str:ConceptScheme",
	model.ClassDataProvider:             "str:DataProvider",
	model.ClassDataProviderScheme:       "str:DataProviderScheme",
	model.ClassDataConsumer:             "str:DataConsumer",
	model.ClassDataConsumerScheme:       "str:DataConsumerScheme",
	model.ClassDimension:                "str:Dimension",
	model.ClassTimeDimension:            "str:TimeDimension",
	model.ClassMeasureDimension:         "str:MeasureDimension",
	model.ClassPrimaryMeasure:           "str:PrimaryMeasure",
	model.ClassDataAttribute:            "str:Attribute",
	model.ClassDimensionDescriptor:      "str:DimensionList",
	model.ClassAttributeDescriptor:      "str:AttributeList",
	model.ClassMeasureDescriptor:        "str:MeasureList",
	model.ClassGroupDimensionDescriptor: "str:Group",
	model.ClassDataStructureDefinition:  "str:DataStructure",
	model.ClassDataflow:                 "str:Dataflow",
	model.ClassContentConstraint:        "str:ContentConstraint",
	model.ClassProvisionAgreement:       "str:ProvisionAgreement",
	model.ClassCategorisation:           "str:Categorisation",
}

var classByTag = func() map[string]model.Class {
	m := make(map[string]model.Class, len(tagByClass))
	for cls, tag := range tagByClass {
		m[tag] = cls
	}
	return m
}()

// TagForClass returns the payload tag of a class, in prefixed form.
func TagForClass(cls model.Class) (string, bool) {
	t, ok := tagByClass[cls]
	return t, ok
}

// ClassForTag returns the class a payload tag denotes.
func ClassForTag(tag string) (model.Class, bool) {
	cls, ok := classByTag[tag]
	return cls, ok
}
