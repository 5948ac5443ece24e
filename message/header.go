package message

import (
	"time"

	"github.com/google/uuid"

	"github.com/sdmxkit/sdmxml/codec"
	"github.com/sdmxkit/sdmxml/model"
)

// Header is the message header common to all message kinds. Data messages
// additionally carry one Structures entry per distinct data structure used
// by their data sets.
type Header struct {
	ID       string
	Test     bool
	Prepared string
	Sender   *model.Item
	Receiver *model.Item
	Source   model.InternationalString

	ReportingBegin string
	ReportingEnd   string
	Extracted      string

	DataSetAction string
	DataSetID     []string

	Structures []*StructureUsage
}

// NewHeader returns a header with a fresh message id and the current
// preparation time.
func NewHeader() *Header {
	return &Header{
		ID:       "M" + uuid.NewString(),
		Prepared: codec.FormatDateTime(time.Now()),
	}
}

// StructureUsage is one header Structure entry of a data message: the data
// structure the sets conform to and the dimension placed at the
// observation level.
type StructureUsage struct {
	// StructureID is the header-local id data sets refer back to.
	StructureID string

	// Namespace is the target namespace of structure-specific data sets.
	Namespace string

	DimensionAtObservation string

	Structure      *model.DataStructureDefinition
	StructureUsage *model.Dataflow
	Provision      *model.ProvisionAgreement
}

// EffectiveStructure returns the data structure reached through whichever
// reference the entry carries.
func (su *StructureUsage) EffectiveStructure() *model.DataStructureDefinition {
	switch {
	case su.Structure != nil:
		return su.Structure
	case su.StructureUsage != nil:
		return su.StructureUsage.Structure
	case su.Provision != nil && su.Provision.StructureUsage != nil:
		return su.Provision.StructureUsage.Structure
	}
	return nil
}

// StructureFor returns the header entry with the given header-local id.
func (h *Header) StructureFor(structureID string) (*StructureUsage, bool) {
	for _, su := range h.Structures {
		if su.StructureID == structureID {
			return su, true
		}
	}
	return nil, false
}
