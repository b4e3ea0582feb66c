package scheduling

import (
	"sort"

	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
)

// UnknownCategoryRank sorts examinations missing from the catalog after every known category.
const UnknownCategoryRank = 999

var categoryRanks = map[entities.Category]int{
	entities.CategoryLaboratory:   1,
	entities.CategoryImaging:      2,
	entities.CategoryEKG:          3,
	entities.CategoryConsultation: 4,
}

type catalogEntry struct {
	category entities.Category
	typeName string // name used by the examination type directory
}

var catalog = map[string]catalogEntry{
	// Laboratory
	"bloodCount":       {entities.CategoryLaboratory, "Complete Blood Count"},
	"bloodGlucose":     {entities.CategoryLaboratory, "Fasting Blood Glucose"},
	"hba1c":            {entities.CategoryLaboratory, "HbA1c"},
	"lipidPanel":       {entities.CategoryLaboratory, "Lipid Panel"},
	"liverPanel":       {entities.CategoryLaboratory, "Liver Function Panel"},
	"kidneyPanel":      {entities.CategoryLaboratory, "Kidney Function Panel"},
	"thyroidPanel":     {entities.CategoryLaboratory, "Thyroid Panel"},
	"psa":              {entities.CategoryLaboratory, "PSA Test"},
	"urinalysis":       {entities.CategoryLaboratory, "Urinalysis"},
	"fecalOccultBlood": {entities.CategoryLaboratory, "Fecal Occult Blood Test"},

	// Imaging
	"chestXray":           {entities.CategoryImaging, "Chest X-Ray"},
	"mammography":         {entities.CategoryImaging, "Mammography"},
	"colonoscopy":         {entities.CategoryImaging, "Colonoscopy"},
	"abdominalUltrasound": {entities.CategoryImaging, "Abdominal Ultrasound"},
	"thyroidUltrasound":   {entities.CategoryImaging, "Thyroid Ultrasound"},
	"carotidUltrasound":   {entities.CategoryImaging, "Carotid Ultrasound"},
	"boneDensity":         {entities.CategoryImaging, "Bone Density Scan"},
	"lowDoseCt":           {entities.CategoryImaging, "Low-Dose Chest CT"},

	// EKG
	"ekg":       {entities.CategoryEKG, "Resting ECG"},
	"stressEkg": {entities.CategoryEKG, "Stress ECG"},
	"holterEkg": {entities.CategoryEKG, "Holter ECG"},

	// Consultation
	"generalConsultation":       {entities.CategoryConsultation, "General Practitioner Consultation"},
	"cardiologyConsultation":    {entities.CategoryConsultation, "Cardiology Consultation"},
	"dermatologyConsultation":   {entities.CategoryConsultation, "Dermatology Consultation"},
	"gynecologyConsultation":    {entities.CategoryConsultation, "Gynecology Consultation"},
	"urologyConsultation":       {entities.CategoryConsultation, "Urology Consultation"},
	"ophthalmologyConsultation": {entities.CategoryConsultation, "Ophthalmology Consultation"},
}

// CategoryOf returns the category of an examination key.
// Keys missing from the catalog return CategoryUnknown and false.
func CategoryOf(key string) (entities.Category, bool) {
	entry, ok := catalog[key]
	if !ok {
		return entities.CategoryUnknown, false
	}
	return entry.category, true
}

// CategoryRank returns the scheduling rank of a category, lower first.
func CategoryRank(category entities.Category) int {
	if rank, ok := categoryRanks[category]; ok {
		return rank
	}
	return UnknownCategoryRank
}

// TypeName returns the examination type directory name for a key.
// Unknown keys are looked up in the directory under their own name.
func TypeName(key string) string {
	if entry, ok := catalog[key]; ok {
		return entry.typeName
	}
	return key
}

// Keys returns every catalogued examination key in lexical order.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
