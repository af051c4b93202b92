package models

type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

type AnalyticsSummary struct {
	TotalAnswers      int                `json:"total_answers"`
	AverageScore      float64            `json:"average_score"`
	CommonIssues      []string           `json:"common_issues"`
	DifficultyLevel   string             `json:"difficulty_level"`
	ScoreDistribution *ScoreDistribution `json:"score_distribution,omitempty"`
}

type QuestionAnalytics struct {
	QuestionID      int64             `json:"question_id"`
	QuestionContent string            `json:"question_content,omitempty"`
	Analytics       *AnalyticsSummary `json:"analytics,omitempty"`
	Error           string            `json:"error,omitempty"`
}
