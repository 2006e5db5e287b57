package document

import (
	"cropclassify/internal/model"
	"cropclassify/internal/timeutil"
)

// Provenance carries the optional caller-supplied audit fields. Unset fields
// are stored as empty strings, never omitted.
type Provenance struct {
	CreateDt   string
	UpdateDt   string
	UpdateBy   string
	AffectedDt string
}

// Assembler builds submission documents. It performs no I/O.
type Assembler struct {
	clock timeutil.Clock
}

func NewAssembler(clock timeutil.Clock) *Assembler {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Assembler{clock: clock}
}

// Assemble stamps the capture time and derives the id as author_timestamp.
func (a *Assembler) Assemble(individual model.IndividualData, averages model.AggregateRecord, author string, prov Provenance) *model.SubmissionDocument {
	timestamp := a.clock.Now().Format(model.TimestampLayout)

	return &model.SubmissionDocument{
		Metadata: model.Metadata{
			Tab: model.DocumentTab,
			ID:  model.DocumentID(author, timestamp),
		},
		CreateDt:       prov.CreateDt,
		CreateBy:       author,
		UpdateDt:       prov.UpdateDt,
		UpdateBy:       prov.UpdateBy,
		AffectedDt:     prov.AffectedDt,
		IndividualData: individual,
		AvgAll:         averages,
		Timestamp:      timestamp,
	}
}
