package models

// ScoreBreakdown reports how many distinct keywords from each set were
// found in the input, for transparency and testability.
type ScoreBreakdown struct {
	LegalScore      int `json:"legalScore"`
	CounsellorScore int `json:"counsellorScore"`
}

// ClassificationResult is the transient outcome of triaging a free-text
// situation description. It is never persisted.
type ClassificationResult struct {
	RecommendedCategory Category       `json:"recommendedCategory"`
	Rationale           string         `json:"rationale"`
	ScoreBreakdown      ScoreBreakdown `json:"scoreBreakdown"`
}
