package models

// SimilarityResult is the fused score together with the three signals it was built from.
type SimilarityResult struct {
	Score    float64 `json:"score"`
	Semantic float64 `json:"semantic"`
	Lexical  float64 `json:"lexical"`
	Edit     float64 `json:"edit"`
}

type SimilarityRequest struct {
	Text1 string `json:"text1"`
	Text2 string `json:"text2"`
}

type SimilarityResponse struct {
	SimilarityScore float64           `json:"similarity_score"`
	IsSimilar       bool              `json:"is_similar"`
	Confidence      float64           `json:"confidence"`
	Components      *SimilarityResult `json:"components,omitempty"`
}

// Candidate is a text that a query is compared against.
type Candidate struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type SimilarMatch struct {
	ID              int64   `json:"id"`
	Index           int     `json:"index"`
	Text            string  `json:"text"`
	SimilarityScore float64 `json:"similarity_score"`
}
