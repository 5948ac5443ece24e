package sdmxml

import (
	"log/slog"

	"github.com/sdmxkit/sdmxml/internal/reader"
	"github.com/sdmxkit/sdmxml/internal/writer"
	"github.com/sdmxkit/sdmxml/model"
)

// ReadOption adjusts decoding.
type ReadOption func(*reader.Options)

// WithDSD supplies the data structure definition that structure-specific
// data sets conform to. Without it, such messages fail unless
// WithInference is also given.
func WithDSD(dsd *model.DataStructureDefinition) ReadOption {
	return func(o *reader.Options) { o.DSD = dsd }
}

// WithInference allows the decoder to grow the data structure on the fly:
// dimensions and attributes seen in the data but absent from the structure
// are synthesized instead of failing the decode.
func WithInference() ReadOption {
	return func(o *reader.Options) { o.Extend = true }
}

// WithLogger directs best-effort diagnostics (recoverable oddities in the
// input) to the given logger.
func WithLogger(l *slog.Logger) ReadOption {
	return func(o *reader.Options) { o.Logger = l }
}

// WriteOption adjusts encoding.
type WriteOption func(*writer.Options)

// Pretty indents the output with two spaces per level.
func Pretty() WriteOption {
	return func(o *writer.Options) { o.Indent = "  " }
}
