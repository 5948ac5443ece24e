package sdmxml

import (
	"github.com/sdmxkit/sdmxml/internal/writer"
	"github.com/sdmxkit/sdmxml/message"
)

// Write encodes a message as a complete SDMX-ML document. Structure
// messages and generic data messages are supported; encoding
// structure-specific data or a data set with groups returns an error with
// code errors.CodeNotImplemented.
func Write(msg message.Message, opts ...WriteOption) ([]byte, error) {
	var o writer.Options
	for _, opt := range opts {
		opt(&o)
	}
	return writer.Write(msg, o)
}
