package reader

import (
	"strings"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/model"
)

// startMessage instantiates the message object for a root element.
// <mes:Structure> also occurs inside a data message header; that usage is
// handled by endHeaderStructure.
func startMessage(rd *Reader, e *xmlstream.Element) error {
	if e.Parent() != nil {
		return nil
	}

	local := e.Name.Local
	rd.isSS = strings.HasPrefix(local, "StructureSpecific")
	rd.isTimeSeries = strings.Contains(local, "TimeSeries")

	var msg message.Message
	switch {
	case local == "Structure":
		msg = &message.StructureMessage{}
	case local == "Error":
		msg = &message.ErrorMessage{}
	default:
		kind := map[string]model.DataSetKind{
			"GenericData":                     model.KindGenericData,
			"GenericTimeSeriesData":           model.KindGenericTimeSeriesData,
			"StructureSpecificData":           model.KindStructureSpecificData,
			"StructureSpecificTimeSeriesData": model.KindStructureSpecificTimeSeriesData,
		}[local]
		msg = &message.DataMessage{Kind: kind}

		if rd.isSS && rd.opts.DSD == nil {
			if !rd.opts.Extend {
				return sdmxerr.New(sdmxerr.CodeMissingStructure, e.Path(),
					"structure-specific data needs a data structure or schema inference")
			}
			rd.ssWithoutDSD = true
			rd.opts.log().Warn("no data structure supplied for structure-specific data; inferring one")
		}
	}
	rd.eng.Push("Message", "", msg)
	return nil
}

// endHeader assembles the header from its popped fragments and attaches it
// to the message.
func endHeader(rd *Reader, e *xmlstream.Element) error {
	h := &message.Header{
		ID:             rd.popText("ID"),
		Test:           rd.popText("Test") == "true",
		Prepared:       rd.popText("Prepared"),
		Extracted:      rd.popText("Extracted"),
		ReportingBegin: rd.popText("ReportingBegin"),
		ReportingEnd:   rd.popText("ReportingEnd"),
		DataSetAction:  rd.popText("DataSetAction"),
		Source:         rd.popLocalizations("Source"),
	}
	if v, ok := rd.eng.PopSingle("Sender"); ok {
		h.Sender = v.(*model.Item)
	}
	if v, ok := rd.eng.PopSingle("Receiver"); ok {
		h.Receiver = v.(*model.Item)
	}
	for _, v := range rd.eng.PopAll("DataSetID") {
		h.DataSetID = append(h.DataSetID, v.(string))
	}
	for _, v := range rd.eng.PopAll("HeaderStructure") {
		h.Structures = append(h.Structures, v.(*message.StructureUsage))
	}
	// Appears in some provider responses; carried nowhere.
	rd.eng.PopAll("Timezone")

	message.SetHeader(rd.msg(), h)
	return nil
}

// endHeaderOrg builds the Sender or Receiver party.
func endHeaderOrg(rd *Reader, e *xmlstream.Element) error {
	org := model.NewItem(model.ClassAgency, "")
	rd.fillNameable(org, e)
	for _, v := range rd.eng.PopAll("Contact") {
		org.Contacts = append(org.Contacts, v.(*model.Contact))
	}
	rd.eng.Push(e.Name.Local, "", org)
	return nil
}

// endHeaderStructure handles <mes:Structure> within a data message header:
// it fixes the data structure that data sets with a matching structureRef
// conform to.
func endHeaderStructure(rd *Reader, e *xmlstream.Element) error {
	if e.Parent() == nil {
		// Root of a structure message; nothing to collect here.
		return nil
	}
	msg := rd.dataMessage()
	if msg == nil {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(),
			"header Structure outside a data message")
	}

	headerDSDv, err := rd.popResolvedRef("Structure")
	if err != nil {
		return err
	}
	headerDSD, _ := headerDSDv.(*model.DataStructureDefinition)

	headerSUv, err := rd.popResolvedRef("StructureUsage")
	if err != nil {
		return err
	}
	headerSU, _ := headerSUv.(*model.Dataflow)

	var dsd *model.DataStructureDefinition
	switch {
	case rd.opts.DSD != nil:
		dsd = rd.opts.DSD
	case headerDSD != nil:
		dsd = headerDSD
	case headerSU != nil:
		// Only a usage reference: synthesize a placeholder structure
		// carrying the dataflow's identity.
		dsd = rd.maintainable(model.ClassDataStructureDefinition, nil, refHints{
			id:      headerSU.ID,
			agency:  headerSU.MaintainerID(),
			version: headerSU.Version,
		}).(*model.DataStructureDefinition)
	default:
		return sdmxerr.New(sdmxerr.CodeMissingStructure, e.Path(),
			"header Structure carries no usable structure reference")
	}
	if headerSU != nil && headerSU.Structure == nil {
		headerSU.Structure = dsd
	}

	su := &message.StructureUsage{
		StructureID:            e.AttrDefault("structureID", ""),
		Namespace:              e.AttrDefault("namespace", ""),
		DimensionAtObservation: e.AttrDefault("dimensionAtObservation", ""),
		Structure:              dsd,
		StructureUsage:         headerSU,
	}
	rd.eng.Push("HeaderStructure", su.StructureID, su)
	rd.eng.MarkIgnore(dsd)

	switch dim := su.DimensionAtObservation; {
	case dim == "" || dim == "AllDimensions":
		msg.ObservationDimension = model.AllDimensions
	case rd.opts.DSD != nil && !rd.extend():
		c, ok := dsd.Dimensions.Get(dim)
		if !ok {
			return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(),
				"dimension at observation %q not in structure %q", dim, dsd.ID)
		}
		msg.ObservationDimension = c
	default:
		cls := model.ClassDimension
		if rd.isTimeSeries {
			cls = model.ClassTimeDimension
		}
		msg.ObservationDimension = dsd.Dimensions.GetOrCreate(dim, cls)
	}
	return nil
}

// endFooterMessage captures the status attributes of <footer:Message>; the
// texts themselves travel on the Text stack.
func endFooterMessage(rd *Reader, e *xmlstream.Element) error {
	rd.eng.Push("FooterCode", "", e.AttrDefault("code", ""))
	rd.eng.Push("FooterSeverity", "", e.AttrDefault("severity", ""))
	return nil
}

func endFooter(rd *Reader, e *xmlstream.Element) error {
	f := &message.Footer{
		Code:     atoiDefault(rd.popText("FooterCode"), 0),
		Severity: rd.popText("FooterSeverity"),
	}
	for _, lt := range popTexts(rd, "Text") {
		var is model.InternationalString
		is.Set(lt.Locale, lt.Value)
		f.Text = append(f.Text, is)
	}
	message.SetFooter(rd.msg(), f)
	return nil
}

// endErrorMessage turns the <mes:ErrorMessage> of an error message into
// the footer.
func endErrorMessage(rd *Reader, e *xmlstream.Element) error {
	f := &message.Footer{
		Code:     atoiDefault(e.AttrDefault("code", ""), 0),
		Severity: "Error",
	}
	for _, lt := range popTexts(rd, "Text") {
		var is model.InternationalString
		is.Set(lt.Locale, lt.Value)
		f.Text = append(f.Text, is)
	}
	message.SetFooter(rd.msg(), f)
	return nil
}

// structurePayloadClasses lists the maintainable stacks drained into the
// structure message, in payload order.
var structurePayloadClasses = []model.Class{
	model.ClassAgencyScheme,
	model.ClassDataProviderScheme,
	model.ClassDataConsumerScheme,
	model.ClassDataflow,
	model.ClassCategoryScheme,
	model.ClassCategorisation,
	model.ClassCodelist,
	model.ClassConceptScheme,
	model.ClassDataStructureDefinition,
	model.ClassContentConstraint,
	model.ClassProvisionAgreement,
}

// endStructures files every parsed maintainable into its collection.
func endStructures(rd *Reader, e *xmlstream.Element) error {
	msg, ok := rd.msg().(*message.StructureMessage)
	if !ok {
		return sdmxerr.New(sdmxerr.CodeStructureMismatch, e.Path(),
			"Structures payload outside a structure message")
	}
	for _, cls := range structurePayloadClasses {
		for _, v := range rd.eng.PopAll(cls.String()) {
			msg.Add(v.(model.Maintainable))
		}
	}
	return nil
}
