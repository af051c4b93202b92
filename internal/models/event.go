package models

import "time"

// ExamSubmittedEvent asks the worker to grade every open-ended answer of an exam.
type ExamSubmittedEvent struct {
	EventID     string    `json:"event_id"`
	ExamID      int64     `json:"exam_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type AnswerGradedEvent struct {
	EventID       string        `json:"event_id"`
	ExamID        int64         `json:"exam_id"`
	QuestionID    int64         `json:"question_id"`
	Score         float64       `json:"score"`
	MaxScore      float64       `json:"max_score"`
	Percentage    float64       `json:"percentage"`
	Confidence    float64       `json:"confidence"`
	GradingMethod GradingMethod `json:"grading_method"`
	GradedAt      time.Time     `json:"graded_at"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}
