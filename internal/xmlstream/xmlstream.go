// Package xmlstream turns an XML token stream into start/end element
// events. Each event carries an Element that knows its attributes, its
// accumulated character data, its parent, and how many direct children of
// each tag it has seen, which is all the context the single-pass decoder
// needs.
package xmlstream

import (
	"encoding/xml"
	"io"
	"strings"
)

// Phase distinguishes the two event kinds.
type Phase int

const (
	// Start fires when an element opens, before any of its content.
	Start Phase = iota
	// End fires when an element closes, after all of its content.
	End
)

// Element is one element of the document being streamed.
type Element struct {
	Name xml.Name

	parent   *Element
	attrs    []xml.Attr
	text     strings.Builder
	children map[xml.Name]int
}

// Parent returns the enclosing element, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Attr returns the value of an attribute matched by local name alone.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrNS returns the value of an attribute matched by namespace and local
// name.
func (e *Element) AttrNS(space, local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrDefault returns the attribute value or a fallback.
func (e *Element) AttrDefault(local, def string) string {
	if v, ok := e.Attr(local); ok {
		return v
	}
	return def
}

// Attrs returns all attributes in document order.
func (e *Element) Attrs() []xml.Attr { return e.attrs }

// Text returns the accumulated character data, trimmed.
func (e *Element) Text() string { return strings.TrimSpace(e.text.String()) }

// ChildCount returns how many direct children with the given name have
// been seen so far. At an End event the count is final.
func (e *Element) ChildCount(name xml.Name) int { return e.children[name] }

// Path returns the slash-joined local-name path from the root to e, for
// error reporting.
func (e *Element) Path() string {
	if e == nil {
		return ""
	}
	return e.parent.Path() + "/" + e.Name.Local
}

// Source streams events from an XML document.
type Source struct {
	dec *xml.Decoder
	cur *Element
}

// NewSource wraps a reader.
func NewSource(r io.Reader) *Source {
	return &Source{dec: xml.NewDecoder(r)}
}

// Next returns the next start or end event. It returns io.EOF after the
// document ends.
func (s *Source) Next() (Phase, *Element, error) {
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return End, nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{
				Name:     t.Name,
				parent:   s.cur,
				attrs:    append([]xml.Attr(nil), t.Attr...),
				children: make(map[xml.Name]int),
			}
			if s.cur != nil {
				s.cur.children[t.Name]++
			}
			s.cur = e
			return Start, e, nil
		case xml.EndElement:
			e := s.cur
			s.cur = e.parent
			return End, e, nil
		case xml.CharData:
			if s.cur != nil {
				s.cur.text.Write(t)
			}
		}
	}
}

// InputOffset reports the decoder's byte offset, for error reporting.
func (s *Source) InputOffset() int64 { return s.dec.InputOffset() }
