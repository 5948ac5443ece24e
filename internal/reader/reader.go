// Package reader implements the single-pass, event-driven SDMX-ML 2.1
// decoder. Completed fragments accumulate on named stacks; each element's
// end handler pops exactly the fragments its children pushed, so a clean
// decode drains every stack.
package reader

import (
	"fmt"
	"io"
	"log/slog"

	sdmxerr "github.com/sdmxkit/sdmxml/errors"
	"github.com/sdmxkit/sdmxml/internal/stack"
	"github.com/sdmxkit/sdmxml/internal/xmlstream"
	"github.com/sdmxkit/sdmxml/message"
	"github.com/sdmxkit/sdmxml/model"
)

// Options configure one decode.
type Options struct {
	// DSD supplies the data structure for structure-specific data
	// messages that do not embed one.
	DSD *model.DataStructureDefinition

	// Extend allows ad hoc schema inference: unknown dimensions and
	// attributes encountered in data are added to the DSD instead of
	// failing.
	Extend bool

	// Logger receives best-effort diagnostics. Nil disables them.
	Logger *slog.Logger
}

func (o Options) log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Reader decodes one message. Not reusable; create one per document.
type Reader struct {
	eng  *stack.Engine
	opts Options

	// Data-message state, set at the message root.
	isSS         bool
	isTimeSeries bool
	ssWithoutDSD bool
}

// New returns a reader with the given options.
func New(opts Options) *Reader {
	return &Reader{eng: stack.New(), opts: opts}
}

// Read decodes one complete SDMX-ML message from r.
func (rd *Reader) Read(r io.Reader) (message.Message, error) {
	src := xmlstream.NewSource(r)
	for {
		phase, e, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			werr := sdmxerr.Wrap(sdmxerr.CodeXMLSyntax, e.Path(), err)
			werr.Message = fmt.Sprintf("at byte %d: %v", src.InputOffset(), err)
			return nil, werr
		}
		h, ok := rd.lookup(phase, e)
		if !ok {
			return nil, sdmxerr.New(sdmxerr.CodeUnrecognizedTag, e.Path(),
				"no handler for <%s> in namespace %q", e.Name.Local, e.Name.Space)
		}
		if h == nil {
			continue
		}
		if err := h(rd, e); err != nil {
			if se, ok := sdmxerr.AsError(err); ok && se.Path == "" {
				se.Path = e.Path()
			}
			return nil, err
		}
	}
	return rd.finish()
}

// finish verifies the workspace drained and detaches the message.
func (rd *Reader) finish() (message.Message, error) {
	v, ok := rd.eng.PopSingle("Message")
	if !ok {
		return nil, sdmxerr.New(sdmxerr.CodeXMLSyntax, "", "no message element found")
	}
	msg := v.(message.Message)

	if left := rd.eng.Uncollected(); len(left) > 0 {
		rd.opts.log().Debug("workspace not drained", "dump", rd.eng.Dump())
		return nil, sdmxerr.New(sdmxerr.CodeUncollectedItems, "",
			"decode left unconsumed objects on stacks %v", left)
	}
	return msg, nil
}

// msg returns the in-progress message.
func (rd *Reader) msg() message.Message {
	v, _ := rd.eng.Peek("Message")
	m, _ := v.(message.Message)
	return m
}

func (rd *Reader) dataMessage() *message.DataMessage {
	m, _ := rd.msg().(*message.DataMessage)
	return m
}

// extend reports whether schema inference is active for the current data
// set.
func (rd *Reader) extend() bool {
	return rd.opts.Extend || rd.ssWithoutDSD
}

// currentDataSet returns the data set being filled.
func (rd *Reader) currentDataSet() (*model.DataSet, error) {
	v, ok := rd.eng.Peek("DataSet")
	if !ok {
		return nil, sdmxerr.New(sdmxerr.CodeStructureMismatch, "", "data outside a DataSet")
	}
	return v.(*model.DataSet), nil
}

// popText pops the most recent text value pushed under name.
func (rd *Reader) popText(name string) string {
	v, ok := rd.eng.PopSingle(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// popLocalizations drains the named stack into an InternationalString.
func (rd *Reader) popLocalizations(name string) model.InternationalString {
	var is model.InternationalString
	for _, v := range rd.eng.PopAll(name) {
		lt := v.(model.LocalizedText)
		is.Set(lt.Locale, lt.Value)
	}
	return is
}
