package models

// AIGrade is what the external grader returned for an essay, already clamped.
type AIGrade struct {
	Score          float64            `json:"score"`
	MaxScore       float64            `json:"max_score"`
	Feedback       string             `json:"feedback"`
	CriteriaScores map[string]float64 `json:"criteria_scores"`
	Strengths      []string           `json:"strengths"`
	Weaknesses     []string           `json:"weaknesses"`
	Suggestions    []string           `json:"suggestions"`
	Confidence     float64            `json:"confidence"`
	Degraded       bool               `json:"-"`
}

type ValidationResult struct {
	IsCorrect   bool     `json:"is_correct"`
	Confidence  float64  `json:"confidence"`
	Feedback    string   `json:"feedback"`
	Score       float64  `json:"score"`
	MaxScore    float64  `json:"max_score"`
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
}

type PlagiarismResult struct {
	IsOriginal      bool     `json:"is_original"`
	Confidence      float64  `json:"confidence"`
	SimilarityScore float64  `json:"similarity_score"`
	Feedback        string   `json:"feedback"`
	Concerns        []string `json:"concerns"`
	Suggestions     []string `json:"suggestions"`
}

func (p *PlagiarismResult) Check() *PlagiarismCheck {
	return &PlagiarismCheck{
		IsOriginal:      p.IsOriginal,
		Confidence:      p.Confidence,
		SimilarityScore: p.SimilarityScore,
		Concerns:        p.Concerns,
	}
}
