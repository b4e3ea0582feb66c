package entities

// Category is the coarse grouping of an examination used as the primary scheduling sort key
type Category string

const (
	CategoryLaboratory   Category = "laboratory"
	CategoryImaging      Category = "imaging"
	CategoryEKG          Category = "ekg"
	CategoryConsultation Category = "consultation"

	// CategoryUnknown marks examination keys missing from the catalog
	CategoryUnknown Category = ""
)

// ExaminationOrder is one questionnaire answer for an examination key
type ExaminationOrder struct {
	Order    bool `json:"order"`
	Priority int  `json:"priority"`
}

// Questionnaire is the snapshot of requested examinations derived from the health questionnaire
type Questionnaire struct {
	Mandatory map[string]ExaminationOrder `json:"mandatory" validate:"required"`
	Optional  map[string]ExaminationOrder `json:"optional"`
}

// PrioritizedExamination is one entry of the ordered scheduling worklist
type PrioritizedExamination struct {
	Key      string   `json:"key"`
	Priority int      `json:"priority"`
	Category Category `json:"category,omitempty"`
}

// ExaminationType is an entry of the examination type directory
type ExaminationType struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
