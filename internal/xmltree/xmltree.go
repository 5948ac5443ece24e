// Package xmltree is a minimal writable element tree with namespace-prefix
// aware serialization, used by the encoder to assemble documents before
// marshalling.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
)

// El is one element. Attrs preserve insertion order.
type El struct {
	Name     string // prefixed form, e.g. "str:Codelist"
	attrs    []xml.Attr
	Children []*El
	Text     string
}

// New constructs an element and appends it nowhere.
func New(name string) *El { return &El{Name: name} }

// SetAttr sets an attribute, replacing an earlier one of the same name.
func (e *El) SetAttr(name, value string) *El {
	for i, a := range e.attrs {
		if a.Name.Local == name {
			e.attrs[i].Value = value
			return e
		}
	}
	e.attrs = append(e.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// SetAttrIf sets the attribute only for a non-empty value.
func (e *El) SetAttrIf(name, value string) *El {
	if value != "" {
		e.SetAttr(name, value)
	}
	return e
}

// Attr returns an attribute value.
func (e *El) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Add appends child elements and returns e.
func (e *El) Add(children ...*El) *El {
	e.Children = append(e.Children, children...)
	return e
}

// Child appends a new element with the given name and returns the child.
func (e *El) Child(name string) *El {
	c := New(name)
	e.Children = append(e.Children, c)
	return c
}

// Marshal serializes the tree. Namespace declarations for every prefix
// given in ns are emitted on the root element, sorted by prefix for a
// stable output. With indent non-empty the output is pretty-printed.
func Marshal(root *El, ns map[string]string, indent string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	prefixes := make([]string, 0, len(ns))
	for p := range ns {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	var decls []xml.Attr
	for _, p := range prefixes {
		decls = append(decls, xml.Attr{Name: xml.Name{Local: "xmlns:" + p}, Value: ns[p]})
	}

	if err := write(&buf, root, decls, indent, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, e *El, extra []xml.Attr, indent string, depth int) error {
	if indent != "" && depth > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, depth))
	}
	buf.WriteByte('<')
	buf.WriteString(e.Name)
	for _, a := range append(extra, e.attrs...) {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.Local)
		buf.WriteString(`="`)
		if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
			return err
		}
		buf.WriteByte('"')
	}

	if e.Text == "" && len(e.Children) == 0 {
		buf.WriteString("/>")
		return nil
	}
	buf.WriteByte('>')

	if e.Text != "" {
		if err := xml.EscapeText(buf, []byte(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := write(buf, c, nil, indent, depth+1); err != nil {
			return err
		}
	}
	if indent != "" && len(e.Children) > 0 {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(indent, depth))
	}
	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteByte('>')
	return nil
}
