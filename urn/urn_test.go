package urn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdmxkit/sdmxml/model"
	"github.com/sdmxkit/sdmxml/urn"
)

func TestParse_Maintainable(t *testing.T) {
	u, err := urn.Parse("urn:sdmx:org.sdmx.infomodel.codelist.Codelist=ECB:CL_FREQ(1.0)")
	require.NoError(t, err)
	assert.Equal(t, "codelist", u.Package)
	assert.Equal(t, "Codelist", u.Class)
	assert.Equal(t, "ECB", u.Agency)
	assert.Equal(t, "CL_FREQ", u.ID)
	assert.Equal(t, "1.0", u.Version)
	assert.Empty(t, u.ItemID)
}

func TestParse_Item(t *testing.T) {
	u, err := urn.Parse("urn:sdmx:org.sdmx.infomodel.codelist.Code=ECB:CL_FREQ(1.0).M")
	require.NoError(t, err)
	assert.Equal(t, "Code", u.Class)
	assert.Equal(t, "CL_FREQ", u.ID)
	assert.Equal(t, "M", u.ItemID)
}

func TestParse_HierarchicalItem(t *testing.T) {
	u, err := urn.Parse("urn:sdmx:org.sdmx.infomodel.categoryscheme.Category=SDMX:SUBJECT(1.0).ECO.GROWTH")
	require.NoError(t, err)
	assert.Equal(t, "ECO.GROWTH", u.ItemID)
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"not a urn",
		"urn:sdmx:org.sdmx.infomodel.codelist.Codelist=ECB:CL_FREQ", // no version
	} {
		_, err := urn.Parse(s)
		assert.Error(t, err, s)
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, s := range []string{
		"urn:sdmx:org.sdmx.infomodel.codelist.Codelist=ECB:CL_FREQ(1.0)",
		"urn:sdmx:org.sdmx.infomodel.datastructure.DataStructure=ECB:EXR(2.1)",
		"urn:sdmx:org.sdmx.infomodel.conceptscheme.Concept=SDMX:CROSS_DOMAIN_CONCEPTS(1.0).OBS_VALUE",
	} {
		u, err := urn.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, u.String())
	}
}

func TestMake(t *testing.T) {
	cl := model.NewItemScheme(model.ClassCodelist)
	cl.ID = "CL_FREQ"
	cl.Version = "1.2"
	cl.Maintainer = model.NewItem(model.ClassAgency, "ECB")

	assert.Equal(t,
		"urn:sdmx:org.sdmx.infomodel.codelist.Codelist=ECB:CL_FREQ(1.2)",
		urn.Make(cl))
}

func TestMake_DefaultVersion(t *testing.T) {
	df := &model.Dataflow{}
	df.ID = "EXR"
	df.Maintainer = model.NewItem(model.ClassAgency, "ECB")

	assert.Equal(t,
		"urn:sdmx:org.sdmx.infomodel.datastructure.Dataflow=ECB:EXR(1.0)",
		urn.Make(df))
}

func TestMakeItem_Hierarchical(t *testing.T) {
	cs := model.NewItemScheme(model.ClassCategoryScheme)
	cs.ID = "SUBJECT"
	cs.Version = "1.0"
	cs.Maintainer = model.NewItem(model.ClassAgency, "SDMX")

	parent := model.NewItem(model.ClassCategory, "ECO")
	child := model.NewItem(model.ClassCategory, "GROWTH")
	parent.AppendChild(child)
	cs.Append(parent)
	cs.Append(child)

	assert.Equal(t,
		"urn:sdmx:org.sdmx.infomodel.categoryscheme.Category=SDMX:SUBJECT(1.0).ECO.GROWTH",
		urn.MakeItem(cs, child))
}
