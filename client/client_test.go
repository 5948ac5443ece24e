package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdmxml "github.com/sdmxkit/sdmxml"
	"github.com/sdmxkit/sdmxml/client"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/registry"
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
      </str:Codelist>
    </str:Codelists>
  </mes:Structures>
</mes:Structure>
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

const ssDataDoc = `<?xml version="1.0" encoding="UTF-8"?>
<mes:StructureSpecificData
    xmlns:mes="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message"
    xmlns:com="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/common">
  <mes:Header>
    <mes:ID>DATA000001</mes:ID>
    <mes:Test>false</mes:Test>
    <mes:Prepared>2021-03-01T10:00:00Z</mes:Prepared>
    <mes:Sender id="ECB"/>
    <mes:Structure structureID="S1" dimensionAtObservation="TIME_PERIOD">
      <com:Structure>
        <Ref id="EXR" agencyID="ECB" version="1.0" class="DataStructure"/>
      </com:Structure>
    </mes:Structure>
  </mes:Header>
  <mes:DataSet structureRef="S1">
    <Series FREQ="M" CURRENCY="USD">
      <Obs TIME_PERIOD="2021-01" OBS_VALUE="1.1"/>
    </Series>
  </mes:DataSet>
</mes:StructureSpecificData>
`

func testSource(url string) registry.Source {
	return registry.Source{ID: "TEST", Name: "Test provider", URL: url}
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := client.New(registry.Source{ID: "X"})
	assert.Error(t, err)
}

func TestGet_Structure(t *testing.T) {
	var gotPath, gotAccept, gotCustom string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		gotCustom = r.Header.Get("X-Requested-With")
		w.Header().Set("Content-Type", "application/vnd.sdmx.structure+xml;version=2.1")
		w.Write([]byte(structureDoc))
	}))
	defer srv.Close()

	src := testSource(srv.URL + "/service")
	src.Headers = map[string]string{"X-Requested-With": "sdmxml"}
	c, err := client.New(src)
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "codelist/ECB/CL_FREQ",
		url.Values{"references": {"none"}})
	require.NoError(t, err)

	assert.Equal(t, "/service/codelist/ECB/CL_FREQ", gotPath)
	assert.Equal(t, "none", gotQuery.Get("references"))
	assert.Equal(t, "application/xml", gotAccept)
	assert.Equal(t, "sdmxml", gotCustom)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sm, ok := resp.Message.(*message.StructureMessage)
	require.True(t, ok)
	cl, ok := sm.Codelist.Get("CL_FREQ")
	require.True(t, ok)
	assert.Equal(t, "Frequency code list", cl.Named().Name.String())
}

func TestGet_ErrorDocument(t *testing.T) {
	// Providers serve error documents under arbitrary status codes and
	// content types; the decoded footer must still surface.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(errorDoc))
	}))
	defer srv.Close()

	c, err := client.New(testSource(srv.URL))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "data/EXR/M.USD", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "150")
	assert.Contains(t, err.Error(), "Invalid number of items")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.IsType(t, &message.ErrorMessage{}, resp.Message)
}

func TestGet_RejectsContentTypeOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c, err := client.New(testSource(srv.URL))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "codelist/ECB/CL_FREQ", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content type")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, resp.Message)
}

func TestGet_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := client.New(testSource(srv.URL))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "data/EXR/M.USD", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGet_ReadOptionsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(ssDataDoc))
	}))
	defer srv.Close()

	// Without a structure or inference the decode fails.
	c, err := client.New(testSource(srv.URL))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "data/EXR/M.USD", nil)
	assert.Error(t, err)

	// Inference passed through the client makes the same body decode.
	c, err = client.New(testSource(srv.URL),
		client.WithReadOptions(sdmxml.WithInference()))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "data/EXR/M.USD", nil)
	require.NoError(t, err)
	dm, ok := resp.Message.(*message.DataMessage)
	require.True(t, ok)
	require.Len(t, dm.DataSets, 1)
	require.Len(t, dm.DataSets[0].Series, 1)
	assert.Len(t, dm.DataSets[0].Series[0].Obs, 1)
}
