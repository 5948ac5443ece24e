// Package writer implements the recursive SDMX-ML 2.1 encoder: the object
// graph is rendered into an element tree bottom-up, then serialized once.
package writer

import (
	"strconv"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/xmlformat"
	"github.com/sdmxkit/sdmxml/internal/xmltree"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/model"
)

// Options configure one encode.
type Options struct {
	// Indent pretty-prints with the given string per level. Empty writes
	// a compact document.
	Indent string
}

// Write encodes a message as a complete SDMX-ML document.
func Write(msg message.Message, opts Options) ([]byte, error) {
	var root *xmltree.El
	var err error
	switch m := msg.(type) {
	case *message.StructureMessage:
		root, err = structureMessage(m)
	case *message.DataMessage:
		root, err = dataMessage(m)
	case *message.ErrorMessage:
		root = errorMessage(m)
	default:
		return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "", "cannot encode %T", msg)
	}
	if err != nil {
		return nil, err
	}
	return xmltree.Marshal(root, xmlformat.Namespaces(), opts.Indent)
}

func structureMessage(m *message.StructureMessage) (*xmltree.El, error) {
	elem := xmltree.New("mes:Structure")
	elem.Add(header(m.MessageHeader(), nil))

	structures := elem.Child("mes:Structures")
	for _, nc := range m.Collections() {
		container := xmltree.New("str:" + nc.Name)
		for _, obj := range nc.Collection.Items() {
			if obj.Maint().IsExternalReference {
				continue
			}
			e, err := maintainableEl(obj)
			if err != nil {
				return nil, err
			}
			container.Add(e)
		}
		if len(container.Children) > 0 {
			structures.Add(container)
		}
	}

	if f := m.MessageFooter(); f != nil {
		elem.Add(footer(f))
	}
	return elem, nil
}

func dataMessage(m *message.DataMessage) (*xmltree.El, error) {
	if !m.Kind.IsGeneric() {
		return nil, sdmxerr.New(sdmxerr.CodeNotImplemented, "",
			"encoding structure-specific data is not supported; convert to a generic set")
	}
	elem := xmltree.New("mes:GenericData")

	// Header Structure entries are derived from the data sets themselves
	// so every structureRef written below has a referent.
	seen := map[*model.DataStructureDefinition]bool{}
	var entries []*xmltree.El
	for _, ds := range m.DataSets {
		dsd := ds.StructuredBy
		if dsd == nil || seen[dsd] {
			continue
		}
		seen[dsd] = true
		e := xmltree.New("mes:Structure").SetAttr("structureID", dsd.ID)
		if dim := m.ObservationDimension; dim != nil {
			e.SetAttr("dimensionAtObservation", dim.ID)
		}
		e.Add(structRef(dsd, "com:Structure"))
		entries = append(entries, e)
	}
	elem.Add(header(m.MessageHeader(), entries))

	for _, ds := range m.DataSets {
		e, err := dataSet(ds)
		if err != nil {
			return nil, err
		}
		elem.Add(e)
	}

	if f := m.MessageFooter(); f != nil {
		elem.Add(footer(f))
	}
	return elem, nil
}

func errorMessage(m *message.ErrorMessage) *xmltree.El {
	elem := xmltree.New("mes:Error")
	elem.Add(header(m.MessageHeader(), nil))
	if f := m.MessageFooter(); f != nil {
		elem.Add(footer(f))
	}
	return elem
}

// structRef writes a header reference to a data structure: by URN when the
// object carries one, otherwise as a <Ref>.
func structRef(dsd *model.DataStructureDefinition, tag string) *xmltree.El {
	elem := xmltree.New(tag)
	if dsd.URN != "" {
		elem.Child("URN").Text = dsd.URN
		return elem
	}
	ref := elem.Child("Ref")
	ref.SetAttrIf("agencyID", dsd.MaintainerID())
	ref.SetAttr("id", dsd.ID)
	ref.SetAttrIf("version", dsd.Version)
	ref.SetAttr("class", "DataStructure")
	ref.SetAttr("package", "datastructure")
	return elem
}

func header(h *message.Header, structures []*xmltree.El) *xmltree.El {
	elem := xmltree.New("mes:Header")
	if h == nil {
		h = message.NewHeader()
	}
	if h.ID != "" {
		elem.Child("mes:ID").Text = h.ID
	}
	elem.Child("mes:Test").Text = strconv.FormatBool(h.Test)
	if h.Prepared != "" {
		elem.Child("mes:Prepared").Text = h.Prepared
	}
	if h.Sender != nil {
		elem.Add(headerOrg(h.Sender, "mes:Sender"))
	}
	if h.Receiver != nil {
		elem.Add(headerOrg(h.Receiver, "mes:Receiver"))
	}
	elem.Add(structures...)
	elem.Add(i11nEls(h.Source, "mes:Source")...)
	return elem
}

func headerOrg(org *model.Item, tag string) *xmltree.El {
	elem := xmltree.New(tag).SetAttrIf("id", org.ID)
	elem.Add(i11nEls(org.Name, "com:Name")...)
	for _, c := range org.Contacts {
		elem.Add(contact(c, "mes:Contact"))
	}
	return elem
}

func footer(f *message.Footer) *xmltree.El {
	elem := xmltree.New("footer:Footer")
	mes := elem.Child("footer:Message")
	if f.Code != 0 {
		mes.SetAttr("code", strconv.Itoa(f.Code))
	}
	mes.SetAttrIf("severity", f.Severity)
	for _, text := range f.Text {
		mes.Add(i11nEls(text, "com:Text")...)
	}
	return elem
}
