package sdmxml

import (
	"bytes"
	"io"

	"github.com/sdmxkit/sdmxml/internal/reader"
	"github.com/sdmxkit/sdmxml/message"
)

// Read decodes one complete SDMX-ML message from r in a single pass.
func Read(r io.Reader, opts ...ReadOption) (message.Message, error) {
	var o reader.Options
	for _, opt := range opts {
		opt(&o)
	}
	return reader.New(o).Read(r)
}

// ReadBytes decodes one complete SDMX-ML message from data.
func ReadBytes(data []byte, opts ...ReadOption) (message.Message, error) {
	return Read(bytes.NewReader(data), opts...)
}
