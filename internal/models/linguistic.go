package models

type LinguisticProfile struct {
	WordCount         int      `json:"word_count"`
	SentenceCount     int      `json:"sentence_count"`
	AvgSentenceLength float64  `json:"avg_sentence_length"`
	AvgWordLength     float64  `json:"avg_word_length"`
	LexicalDiversity  float64  `json:"lexical_diversity"`
	ComplexityScore   float64  `json:"complexity_score"`
	Keywords          []string `json:"keywords"`
}

type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Classification struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

type AnalyzeTextRequest struct {
	Text       string   `json:"text"`
	Categories []string `json:"categories,omitempty"`
}

type AnalyzeTextResponse struct {
	Normalized     string            `json:"normalized"`
	Profile        LinguisticProfile `json:"profile"`
	Entities       []Entity          `json:"entities"`
	Sentiment      Sentiment         `json:"sentiment"`
	Classification *Classification   `json:"classification,omitempty"`
}
