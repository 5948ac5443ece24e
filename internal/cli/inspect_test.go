package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
    <mes:Sender id="ECB"/>
  </mes:Header>
  <mes:Structures>
    <str:Codelists>
      <str:Codelist id="CL_FREQ" agencyID="ECB" version="1.0">
        <com:Name xml:lang="en">Frequency code list</com:Name>
        <str:Code id="M"/>
      </str:Codelist>
    </str:Codelists>
  </mes:Structures>
</mes:Structure>
`

func structureMessage() *message.StructureMessage {
	cl := model.NewItemScheme(model.ClassCodelist)
	cl.ID = "CL_FREQ"
	cl.Version = "1.0"
	cl.Maintainer = model.NewItem(model.ClassAgency, "ECB")
	msg := &message.StructureMessage{}
	msg.Add(cl)
	message.SetHeader(msg, &message.Header{ID: "IREF1"})
	return msg
}

func TestBuildReport_Structure(t *testing.T) {
	r := buildReport(structureMessage())
	assert.Equal(t, "structure", r.Kind)
	assert.Equal(t, "IREF1", r.MessageID)
	require.Len(t, r.Collections, 1)
	assert.Equal(t, "Codelists", r.Collections[0].Name)
	assert.Equal(t, []string{"CL_FREQ"}, r.Collections[0].Keys)
}

func TestBuildReport_Data(t *testing.T) {
	dsd := model.NewDataStructureDefinition()
	dsd.ID = "EXR"
	ds := &model.DataSet{StructuredBy: dsd, Action: "Replace"}
	ds.AddObs(&model.Observation{Value: "1.1"})
	msg := &message.DataMessage{
		Kind:     model.KindGenericData,
		DataSets: []*model.DataSet{ds},
	}

	r := buildReport(msg)
	assert.Equal(t, "GenericData", r.Kind)
	require.Len(t, r.DataSets, 1)
	assert.Equal(t, "EXR", r.DataSets[0].Structure)
	assert.Equal(t, "Replace", r.DataSets[0].Action)
	assert.Equal(t, 1, r.DataSets[0].Observations)
}

func TestBuildReport_Error(t *testing.T) {
	em := &message.ErrorMessage{}
	var text model.InternationalString
	text.Set("en", "No results found")
	message.SetFooter(em, &message.Footer{
		Code:     100,
		Severity: "Error",
		Text:     []model.InternationalString{text},
	})

	r := buildReport(em)
	assert.Equal(t, "error", r.Kind)
	require.NotNil(t, r.Footer)
	assert.Equal(t, 100, r.Footer.Code)
	assert.Equal(t, []string{"No results found"}, r.Footer.Text)
}

func TestWriteReport(t *testing.T) {
	r := buildReport(structureMessage())

	var text bytes.Buffer
	require.NoError(t, writeReport(&text, "text", r))
	assert.Contains(t, text.String(), "structure message IREF1")
	assert.Contains(t, text.String(), "Codelists (1)")
	assert.Contains(t, text.String(), "CL_FREQ")

	var out bytes.Buffer
	require.NoError(t, writeReport(&out, "json", r))
	var back InspectReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &back))
	assert.Equal(t, r, back)
}

func TestInspectCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structure.xml")
	require.NoError(t, os.WriteFile(path, []byte(structureDoc), 0o644))

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"inspect", path, "--format", "json"})
	require.NoError(t, cmd.Execute())

	var r InspectReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))
	assert.Equal(t, "structure", r.Kind)
	assert.Equal(t, "IREF000001", r.MessageID)
	assert.Equal(t, "ECB", r.Sender)
	require.Len(t, r.Collections, 1)
	assert.Equal(t, []string{"CL_FREQ"}, r.Collections[0].Keys)
}

func TestRootCommand_RejectsBadFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"inspect", "--format", "xml"})
	assert.Error(t, cmd.Execute())
}
