// Package sdmxml reads and writes SDMX-ML 2.1, the XML interchange format
// for statistical data and the structural metadata describing it.
//
// Decoding is a single streaming pass:
//
//	msg, err := sdmxml.Read(r)
//
// returns a *message.StructureMessage, *message.DataMessage, or
// *message.ErrorMessage depending on the document's root element.
// Structure-specific data needs the data structure definition up front:
//
//	msg, err := sdmxml.Read(r, sdmxml.WithDSD(dsd))
//
// or schema inference with sdmxml.WithInference(). Encoding is the
// reverse:
//
//	data, err := sdmxml.Write(msg)
//
// The information-model types live in the model subpackage, the message
// envelopes in message, and artefact URNs in urn.
package sdmxml
