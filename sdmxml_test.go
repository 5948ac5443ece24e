package sdmxml_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdmxml "github.com/sdmxkit/sdmxml"
	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/model"
)

const structureDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mes:Structure
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:str="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header>
    <mes:ID>IREF000001</mes:ID>
    <mes:Test>false</mes:Test>
    <mes:Prepared>2021-03-01T10:00:00Z</mes:Prepared>
    <mes:Sender id="ECB"/>
  </mes:Header>
  <mes:Structures>
    <str:Codelists>
      <str:Codelist id="CL_FREQ" agencyID="ECB" version="1.0">
        <com:Name xml:lang="en">Frequency code list</com:Name>
        <str:Code id="M"><com:Name xml:lang="en">Monthly</com:Name></str:Code>
        <str:Code id="A"><com:Name xml:lang="en">Annual</com:Name></str:Code>
      </str:Codelist>
    </str:Codelists>
    <str:Concepts>
      <str:ConceptScheme id="CS_EXR" agencyID="ECB" version="1.0">
        <com:Name xml:lang="en">Exchange rate concepts</com:Name>
        <str:Concept id="FREQ"><com:Name xml:lang="en">Frequency</com:Name></str:Concept>
        <str:Concept id="CURRENCY"><com:Name xml:lang="en">Currency</com:Name></str:Concept>
        <str:Concept id="OBS_VALUE"><com:Name xml:lang="en">Observation value</com:Name></str:Concept>
      </str:ConceptScheme>
    </str:Concepts>
    <str:DataStructures>
      <str:DataStructure id="EXR" agencyID="ECB" version="1.0">
        <com:Name xml:lang="en">Exchange rates</com:Name>
        <str:DataStructureComponents>
          <str:DimensionList id="DimensionDescriptor">
            <str:Dimension id="FREQ" position="1">
              <str:ConceptIdentity>
                <Ref id="FREQ" maintainableParentID="CS_EXR" agencyID="ECB" class="Concept"/>
              </str:ConceptIdentity>
              <str:LocalRepresentation>
                <str:Enumeration>
                  <Ref id="CL_FREQ" agencyID="ECB" version="1.0" class="Codelist"/>
                </str:Enumeration>
              </str:LocalRepresentation>
            </str:Dimension>
            <str:Dimension id="CURRENCY" position="2">
              <str:ConceptIdentity>
                <Ref id="CURRENCY" maintainableParentID="CS_EXR" agencyID="ECB" class="Concept"/>
              </str:ConceptIdentity>
            </str:Dimension>
            <str:TimeDimension id="TIME_PERIOD"/>
          </str:DimensionList>
          <str:AttributeList id="AttributeDescriptor">
            <str:Attribute id="OBS_STATUS">
              <str:AttributeRelationship>
                <str:PrimaryMeasure><Ref id="OBS_VALUE"/></str:PrimaryMeasure>
              </str:AttributeRelationship>
            </str:Attribute>
          </str:AttributeList>
          <str:MeasureList id="MeasureDescriptor">
            <str:PrimaryMeasure id="OBS_VALUE">
              <str:ConceptIdentity>
                <Ref id="OBS_VALUE" maintainableParentID="CS_EXR" agencyID="ECB" class="Concept"/>
              </str:ConceptIdentity>
            </str:PrimaryMeasure>
          </str:MeasureList>
        </str:DataStructureComponents>
      </str:DataStructure>
    </str:DataStructures>
  </mes:Structures>
</mes:Structure>
`

const genericDataDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mes:GenericData
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:gen="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/data/generic"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header>
    <mes:ID>DATA000001</mes:ID>
    <mes:Test>false</mes:Test>
    <mes:Prepared>2021-03-01T10:00:00Z</mes:Prepared>
    <mes:Sender id="ECB"/>
    <mes:Structure structureID="STR1" dimensionAtObservation="TIME_PERIOD">
      <com:Structure>
        <Ref id="EXR" agencyID="ECB" version="1.0" class="DataStructure"/>
      </com:Structure>
    </mes:Structure>
  </mes:Header>
  <mes:DataSet structureRef="STR1" action="Replace">
    <gen:Series>
      <gen:SeriesKey>
        <gen:Value id="FREQ" value="M"/>
        <gen:Value id="CURRENCY" value="USD"/>
      </gen:SeriesKey>
      <gen:Attributes>
        <gen:Value id="COLLECTION" value="A"/>
      </gen:Attributes>
      <gen:Obs>
        <gen:ObsDimension value="2021-01"/>
        <gen:ObsValue value="1.1"/>
      </gen:Obs>
      <gen:Obs>
        <gen:ObsDimension value="2021-02"/>
        <gen:ObsValue value="1.2"/>
      </gen:Obs>
    </gen:Series>
  </mes:DataSet>
</mes:GenericData>
`

const ssDataDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mes:StructureSpecificData
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header>
    <mes:ID>DATA000002</mes:ID>
    <mes:Test>false</mes:Test>
    <mes:Prepared>2021-03-01T10:00:00Z</mes:Prepared>
    <mes:Sender id="ECB"/>
    <mes:Structure structureID="STR1" dimensionAtObservation="TIME_PERIOD">
      <com:Structure>
        <Ref id="EXR" agencyID="ECB" version="1.0" class="DataStructure"/>
      </com:Structure>
    </mes:Structure>
  </mes:Header>
  <mes:DataSet structureRef="STR1">
    <Series FREQ="M" CURRENCY="USD">
      <Obs TIME_PERIOD="2021-01" OBS_VALUE="1.1" OBS_STATUS="A"/>
      <Obs TIME_PERIOD="2021-02" OBS_VALUE="1.2" OBS_STATUS="A"/>
    </Series>
  </mes:DataSet>
</mes:StructureSpecificData>
`

const errorDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mes:Error
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:ErrorMessage code="150">
    <com:Text xml:lang="en">Invalid number of items in the query</com:Text>
  </mes:ErrorMessage>
</mes:Error>
`

// exrDSD builds the EXR structure used by the structure-specific tests.
func exrDSD() *model.DataStructureDefinition {
	dsd := model.NewDataStructureDefinition()
	dsd.ID = "EXR"
	dsd.Version = "1.0"
	dsd.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	dsd.Dimensions.Append(model.NewComponent(model.ClassDimension, "FREQ"))
	dsd.Dimensions.Append(model.NewComponent(model.ClassDimension, "CURRENCY"))
	dsd.Dimensions.Append(model.NewComponent(model.ClassTimeDimension, "TIME_PERIOD"))
	dsd.Attributes.Append(model.NewComponent(model.ClassDataAttribute, "OBS_STATUS"))
	dsd.Measures.Append(model.NewComponent(model.ClassPrimaryMeasure, "OBS_VALUE"))
	return dsd
}

func TestRead_StructureMessage(t *testing.T) {
	msg, err := sdmxml.ReadBytes([]byte(structureDoc))
	require.NoError(t, err)
	sm, ok := msg.(*message.StructureMessage)
	require.True(t, ok)

	h := sm.MessageHeader()
	require.NotNil(t, h)
	assert.Equal(t, "IREF000001", h.ID)
	assert.Equal(t, "2021-03-01T10:00:00Z", h.Prepared)
	require.NotNil(t, h.Sender)
	assert.Equal(t, "ECB", h.Sender.ID)

	var names []string
	for _, nc := range sm.Collections() {
		names = append(names, nc.Name)
	}
	assert.Equal(t, []string{"Codelists", "Concepts", "DataStructures"}, names)

	clv, ok := sm.Codelist.Get("CL_FREQ")
	require.True(t, ok)
	cl := clv.(*model.ItemScheme)
	assert.Equal(t, 2, cl.Len())
	m, ok := cl.Get("M")
	require.True(t, ok)
	assert.Equal(t, "Monthly", m.Name.String())

	csv, ok := sm.ConceptScheme.Get("CS_EXR")
	require.True(t, ok)
	cs := csv.(*model.ItemScheme)
	assert.False(t, cs.IsExternalReference)
	assert.Equal(t, 3, cs.Len())

	dsdv, ok := sm.Structure.Get("EXR")
	require.True(t, ok)
	dsd := dsdv.(*model.DataStructureDefinition)
	assert.Equal(t, "Exchange rates", dsd.Name.String())

	var dimIDs []string
	for _, dim := range dsd.Dimensions.Components() {
		dimIDs = append(dimIDs, dim.ID)
	}
	assert.Equal(t, []string{"FREQ", "CURRENCY", "TIME_PERIOD"}, dimIDs)

	freq, ok := dsd.Dimensions.Get("FREQ")
	require.True(t, ok)
	assert.Equal(t, 1, freq.Order)
	freqConcept, ok := cs.Get("FREQ")
	require.True(t, ok)
	assert.Same(t, freqConcept, freq.ConceptIdentity,
		"concept identity without a version resolves against the parsed scheme")
	require.NotNil(t, freq.LocalRepresentation)
	assert.Same(t, cl, freq.LocalRepresentation.Enumerated)

	status, ok := dsd.Attributes.Get("OBS_STATUS")
	require.True(t, ok)
	assert.IsType(t, model.PrimaryMeasureRelationship{}, status.RelatedTo)

	pm := dsd.PrimaryMeasure()
	require.NotNil(t, pm)
	assert.Equal(t, "OBS_VALUE", pm.ID)

	// The versionless references must not have spawned placeholder
	// duplicates of the concrete artefacts.
	assert.Equal(t, 1, sm.ConceptScheme.Len())
	assert.Equal(t, 1, sm.Codelist.Len())
}

func TestRead_GenericData(t *testing.T) {
	msg, err := sdmxml.ReadBytes([]byte(genericDataDoc))
	require.NoError(t, err)
	dm, ok := msg.(*message.DataMessage)
	require.True(t, ok)
	assert.Equal(t, "GenericData", dm.Kind.String())

	require.NotNil(t, dm.ObservationDimension)
	assert.Equal(t, "TIME_PERIOD", dm.ObservationDimension.ID)

	require.Len(t, dm.DataSets, 1)
	ds := dm.DataSets[0]
	assert.Equal(t, "Replace", ds.Action)

	// No structure was supplied, so the header reference becomes an
	// external placeholder.
	require.NotNil(t, ds.StructuredBy)
	assert.Equal(t, "EXR", ds.StructuredBy.ID)
	assert.True(t, ds.StructuredBy.IsExternalReference)

	require.Len(t, ds.Series, 1)
	s := ds.Series[0]
	assert.Equal(t, "FREQ=M, CURRENCY=USD", s.Key.String())
	av, ok := s.Key.Attrib.Get("COLLECTION")
	require.True(t, ok)
	assert.Equal(t, "A", av.Value)

	require.Len(t, s.Obs, 2)
	assert.Equal(t, "1.1", s.Obs[0].Value)
	assert.Equal(t, "FREQ=M, CURRENCY=USD, TIME_PERIOD=2021-01", s.Obs[0].Key().String())
	assert.Equal(t, "1.2", s.Obs[1].Value)
}

func TestRead_StructureSpecificData(t *testing.T) {
	t.Run("without structure", func(t *testing.T) {
		_, err := sdmxml.ReadBytes([]byte(ssDataDoc))
		require.Error(t, err)
		assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeMissingStructure))
	})

	t.Run("with structure", func(t *testing.T) {
		msg, err := sdmxml.ReadBytes([]byte(ssDataDoc), sdmxml.WithDSD(exrDSD()))
		require.NoError(t, err)
		dm := msg.(*message.DataMessage)

		require.Len(t, dm.DataSets, 1)
		ds := dm.DataSets[0]
		require.Len(t, ds.Series, 1)
		require.Len(t, ds.Series[0].Obs, 2)

		obs := ds.Series[0].Obs[0]
		assert.Equal(t, "1.1", obs.Value)
		assert.Equal(t, "FREQ=M, CURRENCY=USD, TIME_PERIOD=2021-01", obs.Key().String())
		av, ok := obs.AttachedAttribute.Get("OBS_STATUS")
		require.True(t, ok)
		assert.Equal(t, "A", av.Value)
	})

	t.Run("with inference", func(t *testing.T) {
		msg, err := sdmxml.ReadBytes([]byte(ssDataDoc), sdmxml.WithInference())
		require.NoError(t, err)
		dm := msg.(*message.DataMessage)

		require.Len(t, dm.DataSets, 1)
		ds := dm.DataSets[0]
		assert.Len(t, ds.Obs, 2)
		// The inferred structure grows a dimension per unknown id, so the
		// observation attributes surface as key coordinates here.
		kv, ok := ds.Obs[0].Key().Get("TIME_PERIOD")
		require.True(t, ok)
		assert.Equal(t, "2021-01", kv.Value)
		pm := ds.StructuredBy.PrimaryMeasure()
		require.NotNil(t, pm)
		assert.Equal(t, "OBS_VALUE", pm.ID)
	})
}

func TestRead_ErrorMessage(t *testing.T) {
	msg, err := sdmxml.ReadBytes([]byte(errorDoc))
	require.NoError(t, err)
	em, ok := msg.(*message.ErrorMessage)
	require.True(t, ok)

	f := em.MessageFooter()
	require.NotNil(t, f)
	assert.Equal(t, 150, f.Code)
	assert.Equal(t, "Error", f.Severity)
	require.Len(t, f.Text, 1)
	assert.Equal(t, "Invalid number of items in the query", f.Text[0].String())
}

func TestRead_UnrecognizedTag(t *testing.T) {
	doc := `<?xml version="1.0"?>
<mes:Structure xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message">
  <mes:Bogus/>
</mes:Structure>`
	_, err := sdmxml.ReadBytes([]byte(doc))
	require.Error(t, err)
	assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeUnrecognizedTag))
}

func TestRead_MetadataPayloadUnsupported(t *testing.T) {
	doc := `<?xml version="1.0"?>
<mes:Structure
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:str="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure">
  <mes:Header><mes:ID>X</mes:ID><mes:Test>false</mes:Test></mes:Header>
  <mes:Structures>
    <str:HierarchicalCodelists/>
  </mes:Structures>
</mes:Structure>`
	_, err := sdmxml.ReadBytes([]byte(doc))
	require.Error(t, err)
	assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeNotImplemented))
}

func TestRead_UnsupportedReferenceClass(t *testing.T) {
	// Registry exports categorise artefacts this library does not model,
	// such as metadataflows. The reference must fail cleanly.
	doc := `<?xml version="1.0"?>
<mes:Structure
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:str="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header><mes:ID>X</mes:ID><mes:Test>false</mes:Test></mes:Header>
  <mes:Structures>
    <str:Categorisations>
      <str:Categorisation id="CAT1" agencyID="AG" version="1.0">
        <com:Name xml:lang="en">Metadataflow link</com:Name>
        <str:Source>
          <URN>urn:sdmx:org.sdmx.infomodel.metadatastructure.Metadataflow=AG:MDF(1.0)</URN>
        </str:Source>
        <str:Target>
          <Ref id="C1" maintainableParentID="CS1" agencyID="AG" class="Category"/>
        </str:Target>
      </str:Categorisation>
    </str:Categorisations>
  </mes:Structures>
</mes:Structure>`
	_, err := sdmxml.ReadBytes([]byte(doc))
	require.Error(t, err)
	assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeBadReference))
	assert.Contains(t, err.Error(), "Metadataflow")
}

func TestRead_MalformedDocument(t *testing.T) {
	doc := `<?xml version="1.0"?>
<mes:Structure xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message">
  <mes:Header>`
	_, err := sdmxml.ReadBytes([]byte(doc))
	require.Error(t, err)
	assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeXMLSyntax))
	assert.Contains(t, err.Error(), "at byte")
}

func TestRead_LocaleTagCanonicalized(t *testing.T) {
	doc := `<?xml version="1.0"?>
<mes:Structure
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:str="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/structure"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header><mes:ID>X</mes:ID><mes:Test>false</mes:Test></mes:Header>
  <mes:Structures>
    <str:Codelists>
      <str:Codelist id="CL" agencyID="AG" version="1.0">
        <com:Name xml:lang="EN-gb">Code list</com:Name>
      </str:Codelist>
    </str:Codelists>
  </mes:Structures>
</mes:Structure>`
	msg, err := sdmxml.ReadBytes([]byte(doc))
	require.NoError(t, err)
	sm := msg.(*message.StructureMessage)
	clv, ok := sm.Codelist.Get("CL")
	require.True(t, ok)
	cl := clv.(*model.ItemScheme)
	name, ok := cl.Name.Get("en-GB")
	require.True(t, ok, "locale tags are stored in canonical form")
	assert.Equal(t, "Code list", name)
}

func TestWrite_StructureRoundTrip(t *testing.T) {
	cl := model.NewItemScheme(model.ClassCodelist)
	cl.ID = "CL_FREQ"
	cl.Version = "1.0"
	cl.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	cl.Name.Set("en", "Frequency code list")
	cl.GetOrCreate("M").Name.Set("en", "Monthly")
	cl.GetOrCreate("A").Name.Set("en", "Annual")

	cs := model.NewItemScheme(model.ClassConceptScheme)
	cs.ID = "CS_EXR"
	cs.Version = "1.0"
	cs.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	freqConcept := cs.GetOrCreate("FREQ")

	dsd := exrDSD()
	dsd.Name.Set("en", "Exchange rates")
	freq, _ := dsd.Dimensions.Get("FREQ")
	freq.ConceptIdentity = freqConcept
	freq.LocalRepresentation = &model.Representation{Enumerated: cl}
	status, _ := dsd.Attributes.Get("OBS_STATUS")
	status.RelatedTo = model.PrimaryMeasureRelationship{}

	msg := &message.StructureMessage{}
	msg.Add(cl)
	msg.Add(cs)
	msg.Add(dsd)

	out, err := sdmxml.Write(msg, sdmxml.Pretty())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
	assert.Contains(t, string(out), `<str:Codelist`)
	assert.Contains(t, string(out), `<str:DataStructure`)

	back, err := sdmxml.ReadBytes(out)
	require.NoError(t, err)
	sm, ok := back.(*message.StructureMessage)
	require.True(t, ok)

	clv, ok := sm.Codelist.Get("CL_FREQ")
	require.True(t, ok)
	cl2 := clv.(*model.ItemScheme)
	assert.Equal(t, 2, cl2.Len())
	assert.Equal(t, "Frequency code list", cl2.Name.String())

	csv, ok := sm.ConceptScheme.Get("CS_EXR")
	require.True(t, ok)
	cs2 := csv.(*model.ItemScheme)

	dsdv, ok := sm.Structure.Get("EXR")
	require.True(t, ok)
	dsd2 := dsdv.(*model.DataStructureDefinition)

	var dimIDs []string
	for _, dim := range dsd2.Dimensions.Components() {
		dimIDs = append(dimIDs, dim.ID)
	}
	assert.Equal(t, []string{"FREQ", "CURRENCY", "TIME_PERIOD"}, dimIDs)

	freq2, ok := dsd2.Dimensions.Get("FREQ")
	require.True(t, ok)
	require.NotNil(t, freq2.LocalRepresentation)
	assert.Same(t, cl2, freq2.LocalRepresentation.Enumerated)
	freqConcept2, ok := cs2.Get("FREQ")
	require.True(t, ok)
	assert.Same(t, freqConcept2, freq2.ConceptIdentity)

	status2, ok := dsd2.Attributes.Get("OBS_STATUS")
	require.True(t, ok)
	assert.IsType(t, model.PrimaryMeasureRelationship{}, status2.RelatedTo)
}

func TestWrite_SkipsExternalPlaceholders(t *testing.T) {
	cl := model.NewItemScheme(model.ClassCodelist)
	cl.ID = "CL_FREQ"
	cl.Version = "1.0"
	cl.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	cl.GetOrCreate("M")

	ext := model.NewItemScheme(model.ClassConceptScheme)
	ext.ID = "CS_EXT"
	ext.Version = "1.0"
	ext.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	ext.IsExternalReference = true
	ext.GetOrCreate("FREQ")

	msg := &message.StructureMessage{}
	msg.Add(cl)
	msg.Add(ext)

	out, err := sdmxml.Write(msg)
	require.NoError(t, err)
	// A placeholder stands for an artefact defined elsewhere; writing out
	// a full definition for it would assert content we never saw.
	assert.Contains(t, string(out), `<str:Codelist`)
	assert.NotContains(t, string(out), "CS_EXT")
	assert.NotContains(t, string(out), "<str:Concepts")

	back, err := sdmxml.ReadBytes(out)
	require.NoError(t, err)
	sm := back.(*message.StructureMessage)
	assert.Equal(t, 1, sm.Codelist.Len())
	assert.Equal(t, 0, sm.ConceptScheme.Len())
}

func TestWrite_GenericDataRoundTrip(t *testing.T) {
	dsd := exrDSD()
	timeDim, _ := dsd.Dimensions.Get("TIME_PERIOD")

	sk, err := dsd.MakeKey([]model.KeyValue{
		{ID: "FREQ", Value: "M"},
		{ID: "CURRENCY", Value: "USD"},
	}, false)
	require.NoError(t, err)
	seriesKey := &model.SeriesKey{Key: *sk}

	ds := &model.DataSet{Kind: model.KindGenericData, StructuredBy: dsd, Action: "Replace"}
	for _, p := range []struct{ period, value string }{
		{"2021-01", "1.1"},
		{"2021-02", "1.2"},
	} {
		ds.AddObs(&model.Observation{
			Dimension: &model.KeyValue{ID: "TIME_PERIOD", Value: p.period, ValueFor: timeDim},
			Value:     p.value,
			ValueFor:  dsd.PrimaryMeasure(),
			SeriesKey: seriesKey,
		})
	}

	msg := &message.DataMessage{
		Kind:                 model.KindGenericData,
		ObservationDimension: timeDim,
		DataSets:             []*model.DataSet{ds},
	}

	out, err := sdmxml.Write(msg)
	require.NoError(t, err)
	assert.Contains(t, string(out), `dimensionAtObservation="TIME_PERIOD"`)
	assert.Contains(t, string(out), `<gen:SeriesKey>`)

	back, err := sdmxml.ReadBytes(out)
	require.NoError(t, err)
	dm, ok := back.(*message.DataMessage)
	require.True(t, ok)

	require.Len(t, dm.DataSets, 1)
	ds2 := dm.DataSets[0]
	assert.Equal(t, "Replace", ds2.Action)
	require.Len(t, ds2.Series, 1)
	assert.Equal(t, "FREQ=M, CURRENCY=USD", ds2.Series[0].Key.String())
	require.Len(t, ds2.Series[0].Obs, 2)
	assert.Equal(t, "FREQ=M, CURRENCY=USD, TIME_PERIOD=2021-02",
		ds2.Series[0].Obs[1].Key().String())
	assert.Equal(t, "1.2", ds2.Series[0].Obs[1].Value)
}

func TestWrite_ErrorRoundTrip(t *testing.T) {
	em := &message.ErrorMessage{}
	var text model.InternationalString
	text.Set("en", "No results found")
	message.SetFooter(em, &message.Footer{
		Code:     100,
		Severity: "Error",
		Text:     []model.InternationalString{text},
	})

	out, err := sdmxml.Write(em)
	require.NoError(t, err)

	back, err := sdmxml.ReadBytes(out)
	require.NoError(t, err)
	f := back.MessageFooter()
	require.NotNil(t, f)
	assert.Equal(t, 100, f.Code)
	assert.Equal(t, "Error", f.Severity)
	require.Len(t, f.Text, 1)
	assert.Equal(t, "No results found", f.Text[0].String())
}

func TestWrite_NotImplemented(t *testing.T) {
	t.Run("structure specific data", func(t *testing.T) {
		msg := &message.DataMessage{Kind: model.KindStructureSpecificData}
		_, err := sdmxml.Write(msg)
		require.Error(t, err)
		assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeNotImplemented))
	})

	t.Run("data set with groups", func(t *testing.T) {
		dsd := exrDSD()
		ds := &model.DataSet{Kind: model.KindGenericData, StructuredBy: dsd}
		ds.AddGroup(&model.GroupKey{})
		msg := &message.DataMessage{
			Kind:     model.KindGenericData,
			DataSets: []*model.DataSet{ds},
		}
		_, err := sdmxml.Write(msg)
		require.Error(t, err)
		assert.True(t, sdmxerr.HasCode(err, sdmxerr.CodeNotImplemented))
	})
}
