package models

type GradingMethod string

const (
	GradingMethodAIStudio       GradingMethod = "ai_studio"
	GradingMethodTraditionalNLP GradingMethod = "traditional_nlp"
	GradingMethodError          GradingMethod = "error"
)

func (m GradingMethod) String() string {
	return string(m)
}

// SubScores holds the points awarded per grading dimension.
type SubScores struct {
	Content   float64 `json:"content"`
	Structure float64 `json:"structure"`
	Language  float64 `json:"language"`
	Relevance float64 `json:"relevance"`
}

func (s SubScores) Values() []float64 {
	return []float64{s.Content, s.Structure, s.Language, s.Relevance}
}

func (s SubScores) Total() float64 {
	return s.Content + s.Structure + s.Language + s.Relevance
}

type GradingResult struct {
	Score           float64            `json:"score"`
	MaxScore        float64            `json:"max_score"`
	Percentage      float64            `json:"percentage"`
	Feedback        []string           `json:"feedback"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	Suggestions     []string           `json:"suggestions"`
	Confidence      float64            `json:"confidence"`
	GradingMethod   GradingMethod      `json:"grading_method"`
	SubScores       *SubScores         `json:"sub_scores,omitempty"`
	CriteriaScores  map[string]float64 `json:"criteria_scores,omitempty"`
	PlagiarismCheck *PlagiarismCheck   `json:"plagiarism_check,omitempty"`
}

// ErrorGradingResult is the terminal result returned when grading itself failed.
func ErrorGradingResult(maxScore float64, cause error) *GradingResult {
	msg := "Error in grading"
	if cause != nil {
		msg = "Error in grading: " + cause.Error()
	}
	return &GradingResult{
		Score:         0,
		MaxScore:      maxScore,
		Percentage:    0,
		Feedback:      []string{msg},
		Strengths:     []string{},
		Weaknesses:    []string{"Technical error occurred"},
		Suggestions:   []string{"Please try again"},
		Confidence:    0,
		GradingMethod: GradingMethodError,
	}
}

type PlagiarismCheck struct {
	IsOriginal      bool     `json:"is_original"`
	Confidence      float64  `json:"confidence"`
	SimilarityScore float64  `json:"similarity_score"`
	Concerns        []string `json:"concerns"`
}

type GradingRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	MaxScore *float64 `json:"max_score,omitempty"`
	Criteria []string `json:"criteria,omitempty"`
}

type EvaluateAnswerRequest struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	UserAnswer    string   `json:"user_answer"`
	MaxScore      *float64 `json:"max_score,omitempty"`
}

type AnswerEvaluation struct {
	Score       float64  `json:"score"`
	MaxScore    float64  `json:"max_score"`
	Percentage  float64  `json:"percentage"`
	IsCorrect   bool     `json:"is_correct"`
	Feedback    string   `json:"feedback"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
}

type ValidateAnswerRequest struct {
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	ExpectedAnswer *string `json:"expected_answer,omitempty"`
}

type PlagiarismRequest struct {
	Text string `json:"text"`
}
