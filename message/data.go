package message

import "github.com/sdmxkit/sdmxml/model"

// DataMessage holds the decoded payload of a data message in any of its
// wire flavours.
type DataMessage struct {
	common

	Kind model.DataSetKind

	// ObservationDimension is the dimension placed at the observation
	// level, or model.AllDimensions for flat layouts.
	ObservationDimension *model.Component

	DataSets []*model.DataSet
}

// Structure returns the data structure of the first data set, which by
// construction all sets of one message share through the header.
func (m *DataMessage) Structure() *model.DataStructureDefinition {
	if len(m.DataSets) == 0 {
		return nil
	}
	return m.DataSets[0].StructuredBy
}
