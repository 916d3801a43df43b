package domain

// EntityControversy is the per-entity detail behind a controversy report.
type EntityControversy struct {
	EntityID  string  `json:"entity_id"`
	Variance  float64 `json:"variance"`
	Mean      float64 `json:"mean"`
	UserCount int     `json:"user_count"`
}

// ControversyReport measures disagreement in trust values across the user
// population. Score is average population variance normalized so that ~0.15
// (empirical ceiling for "very controversial") maps to 1.
type ControversyReport struct {
	Score          float64             `json:"score"`
	AvgVariance    float64             `json:"avg_variance"`
	AssertionCount int                 `json:"assertion_count"`
	UserCount      int                 `json:"user_count"`
	Entities       []EntityControversy `json:"entities,omitempty"`
}
