package models

const QuestionTypeOpenEnded = "OPEN_ENDED"

// Question is a question as served by the question store.
type Question struct {
	ID       int64    `json:"id"`
	Content  string   `json:"content"`
	Type     string   `json:"type,omitempty"`
	MaxScore *float64 `json:"maxScore,omitempty"`
}

type Exam struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

type StoredAnswer struct {
	Answer string `json:"answer"`
}

type AnswerScore struct {
	Score *float64 `json:"score"`
}

// ExamResult is the payload persisted to the exam store.
type ExamResult struct {
	ExamID         int64          `json:"examId"`
	QuestionID     int64          `json:"questionId"`
	UserAnswer     string         `json:"userAnswer"`
	Score          float64        `json:"score"`
	MaxScore       float64        `json:"maxScore"`
	AutoGraded     bool           `json:"autoGraded"`
	Feedback       []string       `json:"feedback"`
	GradingDetails GradingDetails `json:"gradingDetails"`
}

type GradingDetails struct {
	Strengths     []string      `json:"strengths"`
	Weaknesses    []string      `json:"weaknesses"`
	Suggestions   []string      `json:"suggestions"`
	Confidence    float64       `json:"confidence"`
	GradingMethod GradingMethod `json:"gradingMethod"`
}

type SimilarQuestion struct {
	QuestionID      int64   `json:"question_id"`
	Content         string  `json:"question_content"`
	SimilarityScore float64 `json:"similarity_score"`
}

type DuplicateCheckResult struct {
	SimilarQuestions []SimilarQuestion `json:"similar_questions"`
	IsDuplicate      bool              `json:"is_duplicate"`
	DuplicateCount   int               `json:"duplicate_count"`
	Error            string            `json:"error,omitempty"`
}

type QuestionSimilarityRequest struct {
	QuestionText string `json:"question_text"`
	ExcludeID    *int64 `json:"exclude_id,omitempty"`
}

type QuestionSimilarityResponse struct {
	SimilarQuestions []SimilarQuestion `json:"similar_questions"`
	SimilarityScores []float64         `json:"similarity_scores"`
	IsDuplicate      bool              `json:"is_duplicate"`
	Error            string            `json:"error,omitempty"`
}

type ExamGradingRequest struct {
	AnswerText string   `json:"answer_text"`
	MaxScore   *float64 `json:"max_score,omitempty"`
}

type ExamGradeRecord struct {
	ExamID        int64         `json:"exam_id"`
	QuestionID    int64         `json:"question_id"`
	Score         float64       `json:"score"`
	MaxScore      float64       `json:"max_score"`
	Percentage    float64       `json:"percentage"`
	Feedback      string        `json:"feedback"`
	AutoGraded    bool          `json:"auto_graded"`
	Confidence    float64       `json:"confidence"`
	GradingMethod GradingMethod `json:"grading_method,omitempty"`
	Error         string        `json:"error,omitempty"`
}

type GradedQuestion struct {
	QuestionID int64   `json:"question_id"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	AutoGraded bool    `json:"auto_graded"`
	Error      string  `json:"error,omitempty"`
}

type BatchGradeResult struct {
	ExamID          int64            `json:"exam_id"`
	GradedQuestions []GradedQuestion `json:"graded_questions"`
	TotalQuestions  int              `json:"total_questions"`
	GradedCount     int              `json:"graded_count"`
	Success         bool             `json:"success"`
	Error           string           `json:"error,omitempty"`
}
