package domain

// CategoryDisease tags every item produced from the disease classification
// lookup. A single source exists today; the field stays on the item so that
// additional catalogs can be merged in later without a shape change.
const CategoryDisease = "disease"

// CandidateRow is one raw record from the upstream classification lookup.
// Upstream gives no shape guarantee: any field may be missing, empty,
// or malformed. Rows live only for the duration of one request.
type CandidateRow struct {
	Code        string
	Name        string
	EnglishName string
}

// DiseaseSearchItem is the public output shape of a search: one ranked
// suggestion for the type-ahead UI.
type DiseaseSearchItem struct {
	Name     string   `json:"name"`
	Code     string   `json:"code"`
	Category string   `json:"category"`
	Aliases  []string `json:"aliases"`
}
