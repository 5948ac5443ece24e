// Package message defines the three SDMX-ML message shapes produced by
// decoding: structure messages, data messages, and error messages, each
// carrying a header and an optional footer.
package message

import "github.com/sdmxkit/sdmxml/model"

// Message is any decoded SDMX-ML message.
type Message interface {
	MessageHeader() *Header
	MessageFooter() *Footer
	setHeader(*Header)
	setFooter(*Footer)
}

// common carries the parts shared by every message kind.
type common struct {
	Header *Header
	Footer *Footer
}

func (c *common) MessageHeader() *Header { return c.Header }
func (c *common) MessageFooter() *Footer { return c.Footer }
func (c *common) setHeader(h *Header)    { c.Header = h }
func (c *common) setFooter(f *Footer)    { c.Footer = f }

// SetHeader attaches a header to any message.
func SetHeader(m Message, h *Header) { m.setHeader(h) }

// SetFooter attaches a footer to any message.
func SetFooter(m Message, f *Footer) { m.setFooter(f) }

// Footer carries out-of-band status information appended after the
// payload.
type Footer struct {
	Severity string
	Code     int
	Text     []model.InternationalString
}

// ErrorMessage is a standalone error response. The error text travels in
// the footer.
type ErrorMessage struct {
	common
}
