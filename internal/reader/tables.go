package reader

import (
	"encoding/xml"
	"strings"

	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
)

// handler processes one start or end event. A nil handler means the tag is
// recognized but carries nothing of its own.
type handler func(*Reader, *xmlstream.Element) error

var (
	startHandlers = map[xml.Name]handler{}
	endHandlers   = map[xml.Name]handler{}
)

func names(tags string) []xml.Name {
	var out []xml.Name
	for _, tag := range strings.Fields(tags) {
		q := xmlformat.Parse(strings.TrimPrefix(tag, ":"))
		out = append(out, xml.Name{Space: q.Space, Local: q.Local})
	}
	return out
}

func onStart(tags string, h handler) {
	for _, n := range names(tags) {
		startHandlers[n] = h
	}
}

func onEnd(tags string, h handler) {
	for _, n := range names(tags) {
		endHandlers[n] = h
	}
}

// on registers h for the end phase and marks the start phase as known.
func on(tags string, h handler) {
	for _, n := range names(tags) {
		endHandlers[n] = h
		if _, ok := startHandlers[n]; !ok {
			startHandlers[n] = nil
		}
	}
}

// skip marks tags as known no-ops for both phases.
func skip(tags string) {
	for _, n := range names(tags) {
		if _, ok := startHandlers[n]; !ok {
			startHandlers[n] = nil
		}
		if _, ok := endHandlers[n]; !ok {
			endHandlers[n] = nil
		}
	}
}

func init() {
	// Bare containers and tags fully consumed by their parent's handler.
	skip(`
		com:Annotations com:Footer mes:Header
		str:Categorisations str:CategorySchemes str:Codelists str:Concepts
		str:ConstraintAttachment str:Constraints str:Dataflows
		str:DataStructureComponents str:DataStructures str:GroupDimension
		str:OrganisationSchemes str:ProvisionAgreements
	`)

	// Reference contents.
	onStart(":Ref :URN", nil)
	onEnd(":Ref", endRawRef)
	onEnd(":URN", endRawURN)

	// Message roots.
	onStart(`mes:Structure mes:Error mes:GenericData mes:GenericTimeSeriesData
		mes:StructureSpecificData mes:StructureSpecificTimeSeriesData`, startMessage)
	onEnd(`mes:Error mes:GenericData mes:GenericTimeSeriesData
		mes:StructureSpecificData mes:StructureSpecificTimeSeriesData`, nil)
	onEnd("mes:Structure", endHeaderStructure)

	// Header.
	on("mes:Header", endHeader)
	on("mes:Sender mes:Receiver", endHeaderOrg)
	on(`com:AnnotationTitle com:AnnotationType com:AnnotationURL com:None
		mes:DataSetAction mes:DataSetID mes:Email mes:ID mes:Test mes:Timezone
		str:Email str:Telephone str:URI`, endText)
	on("mes:Extracted mes:Prepared mes:ReportingBegin mes:ReportingEnd", endDatetime)
	on(`com:AnnotationText com:Name com:Description com:Text mes:Source
		mes:Department mes:Role str:Department str:Role`, endLocalization)
	on("mes:ErrorMessage", endErrorMessage)

	// Footer.
	onStart("footer:Footer footer:Message", nil)
	onEnd("footer:Footer", endFooter)
	onEnd("footer:Message", endFooterMessage)

	// References held by a named child element.
	on(`com:Structure com:StructureUsage str:AttachmentGroup str:ConceptIdentity
		str:ConceptRole str:DimensionReference str:Parent str:Source str:Structure
		str:StructureUsage str:Target str:Enumeration`, endRefHolder)

	on("com:Annotation", endAnnotation)

	// Item schemes and their members.
	onStart(`str:Agency str:Code str:Category str:Concept str:DataConsumer
		str:DataProvider`, startItem)
	onEnd("str:Agency str:Code str:Category str:DataConsumer str:DataProvider", endItem)
	onEnd("str:Concept", endConcept)
	on(`str:AgencyScheme str:Codelist str:ConceptScheme str:CategoryScheme
		str:DataConsumerScheme str:DataProviderScheme`, endItemScheme)

	onStart("mes:Contact str:Contact", startContact)
	onEnd("mes:Contact str:Contact", endContact)

	// Representations.
	on("str:EnumerationFormat str:TextFormat", endFacet)
	on("str:CoreRepresentation str:LocalRepresentation", endRepresentation)

	// Data structures.
	on(`str:Attribute str:Dimension str:MeasureDimension str:PrimaryMeasure
		str:TimeDimension`, endComponent)
	on("str:AttributeList str:DimensionList str:MeasureList", endComponentList)
	on("str:Group", endGroupDescriptor)
	on("str:AttributeRelationship", endAttributeRelationship)
	on("str:None", endNoRelationship)
	onStart("str:DataStructure", startDSD)
	onEnd("str:DataStructure", endDSD)
	on("str:Dataflow", endDataflow)
	on("str:Categorisation", endCategorisation)
	on("str:ProvisionAgreement", endProvisionAgreement)
	on("mes:Structures", endStructures)

	// Constraints.
	on("com:StartPeriod com:EndPeriod", endPeriod)
	on("com:TimeRange", endTimeRange)
	on("com:Value", endMemberValue)
	on("com:KeyValue com:Attribute", endMemberSelection)
	on("str:CubeRegion", endCubeRegion)
	on("str:Key", endDataKey)
	on("str:DataKeySet", endDataKeySet)
	on("str:ContentConstraint", endContentConstraint)

	// Metadata structures are out of scope of this decoder.
	on(`str:Metadataflows str:MetadataStructures str:Metadataflow
		str:MetadataStructure str:HierarchicalCodelists str:HierarchicalCodelist
		str:StructureSets str:StructureSet`, endUnsupported)

	// Data sets.
	onStart("mes:DataSet", startDataSet)
	onEnd("mes:DataSet", endDataSet)
	on("gen:ObsDimension", endObsDimension)
	on("gen:ObsValue", endObsValue)
	on("gen:Value", endGenericValue)
	on("gen:Attributes", endGenericAttributes)
	on("gen:ObsKey gen:SeriesKey gen:GroupKey", endGenericKey)
	on("gen:Obs", endGenericObs)
	on("gen:Series", endGenericSeries)
	on("gen:Group", endGenericGroup)
}

// ssFallback handles the structure-specific data elements, which arrive in
// the message namespace or in a message-defined one.
var ssFallback = map[string]struct{ start, end handler }{
	"DataSet": {startDataSet, endDataSet},
	"Series":  {nil, endSSSeries},
	"Group":   {nil, endSSGroup},
	"Obs":     {nil, endSSObs},
}

// lookup resolves the handler for an event. Exact tag matches win; for
// structure-specific data messages the data elements fall back to a
// local-name match so message-defined namespaces need no registration.
func (rd *Reader) lookup(phase xmlstream.Phase, e *xmlstream.Element) (handler, bool) {
	table := startHandlers
	if phase == xmlstream.End {
		table = endHandlers
	}
	if h, ok := table[e.Name]; ok {
		return h, true
	}
	if rd.isSS {
		if fb, ok := ssFallback[e.Name.Local]; ok {
			if phase == xmlstream.Start {
				return fb.start, true
			}
			return fb.end, true
		}
	}
	return nil, false
}
