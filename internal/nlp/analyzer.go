package nlp

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"github.com/samber/lo"

	"github.com/Min-Trees/abc-interview-microservice/internal/models"
)

const (
	DefaultMaxKeywords = 10

	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"

	EntityProperNoun = "PROPER_NOUN"
	EntityAcronym    = "ACRONYM"
	EntityNumber     = "NUMBER"
)

// Analyzer extracts linguistic features from free text. Implementations must be
// safe for concurrent use.
type Analyzer interface {
	Keywords(text string, limit int) []string
	Profile(text string) models.LinguisticProfile
	Entities(text string) []models.Entity
	Sentiment(text string) models.Sentiment
	Classify(text string, labels []string) models.Classification
}

type ruleAnalyzer struct {
	maxKeywords int
}

// NewAnalyzer returns the rule based analyzer. maxKeywords <= 0 means DefaultMaxKeywords.
func NewAnalyzer(maxKeywords int) Analyzer {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	return &ruleAnalyzer{maxKeywords: maxKeywords}
}

// Lemma returns the english snowball stem of a lowercased word.
func Lemma(word string) string {
	return english.Stem(strings.ToLower(word), false)
}

func (a *ruleAnalyzer) Keywords(text string, limit int) []string {
	if limit <= 0 {
		limit = a.maxKeywords
	}

	keywords := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, w := range Words(strings.ToLower(text)) {
		if len(w) <= 2 || IsStopWord(w) || isNumeric(w) {
			continue
		}
		lemma := Lemma(w)
		if _, ok := seen[lemma]; ok {
			continue
		}
		seen[lemma] = struct{}{}
		keywords = append(keywords, lemma)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}

func (a *ruleAnalyzer) Profile(text string) models.LinguisticProfile {
	words := Words(text)
	profile := models.LinguisticProfile{
		WordCount: len(words),
		Keywords:  a.Keywords(text, a.maxKeywords),
	}
	if len(words) == 0 {
		return profile
	}

	profile.SentenceCount = len(SplitSentences(text))
	if profile.SentenceCount == 0 {
		profile.SentenceCount = 1
	}
	profile.AvgSentenceLength = float64(len(words)) / float64(profile.SentenceCount)

	totalLen := lo.SumBy(words, func(w string) int { return len([]rune(w)) })
	profile.AvgWordLength = float64(totalLen) / float64(len(words))

	lemmas := lo.Uniq(lo.Map(words, func(w string, _ int) string { return Lemma(w) }))
	profile.LexicalDiversity = math.Min(1, float64(len(lemmas))/float64(len(words)))

	profile.ComplexityScore = profile.AvgSentenceLength*0.3 + profile.AvgWordLength*0.3 + profile.LexicalDiversity*0.4
	return profile
}

func (a *ruleAnalyzer) Entities(text string) []models.Entity {
	entities := make([]models.Entity, 0)
	locs := wordPattern.FindAllStringIndex(text, -1)

	sentenceStart := true
	runStart, runEnd := -1, -1
	flush := func() {
		if runStart >= 0 {
			entities = append(entities, models.Entity{
				Text:  text[runStart:runEnd],
				Label: EntityProperNoun,
				Start: runStart,
				End:   runEnd,
			})
		}
		runStart, runEnd = -1, -1
	}

	prevEnd := 0
	for _, loc := range locs {
		gap := text[prevEnd:loc[0]]
		if strings.ContainsAny(gap, ".!?\n") {
			flush()
			sentenceStart = true
		} else if strings.TrimSpace(gap) != "" {
			flush()
		}
		prevEnd = loc[1]
		word := text[loc[0]:loc[1]]

		switch {
		case isNumeric(word):
			flush()
			entities = append(entities, models.Entity{Text: word, Label: EntityNumber, Start: loc[0], End: loc[1]})
		case isAcronym(word):
			flush()
			entities = append(entities, models.Entity{Text: word, Label: EntityAcronym, Start: loc[0], End: loc[1]})
		case len(word) > 1 && isCapitalised(word) && !(sentenceStart && runStart < 0 && IsStopWord(strings.ToLower(word))):
			if runStart < 0 {
				runStart = loc[0]
			}
			runEnd = loc[1]
		default:
			flush()
		}
		sentenceStart = false
	}
	flush()
	return entities
}

func (a *ruleAnalyzer) Sentiment(text string) models.Sentiment {
	words := Words(strings.ToLower(text))
	var pos, neg int
	for i, w := range words {
		polarity := 0
		if _, ok := positiveWords[w]; ok {
			polarity = 1
		} else if _, ok := negativeWords[w]; ok {
			polarity = -1
		}
		if polarity == 0 {
			continue
		}
		if i > 0 {
			if _, ok := negators[words[i-1]]; ok {
				polarity = -polarity
			}
		}
		if polarity > 0 {
			pos++
		} else {
			neg++
		}
	}

	hits := pos + neg
	if hits == 0 || pos == neg {
		return models.Sentiment{Label: SentimentNeutral, Score: 0.5}
	}
	if pos > neg {
		return models.Sentiment{Label: SentimentPositive, Score: 0.5 + 0.5*float64(pos-neg)/float64(hits)}
	}
	return models.Sentiment{Label: SentimentNegative, Score: 0.5 + 0.5*float64(neg-pos)/float64(hits)}
}

// Classify ranks labels by how many of their lemmas occur in text. Scores sum to 1.
func (a *ruleAnalyzer) Classify(text string, labels []string) models.Classification {
	if len(labels) == 0 {
		return models.Classification{Labels: []string{}, Scores: []float64{}}
	}

	vocab := make(map[string]struct{})
	for _, w := range Words(strings.ToLower(text)) {
		vocab[Lemma(w)] = struct{}{}
	}

	type ranked struct {
		label string
		raw   float64
	}
	items := make([]ranked, len(labels))
	var total float64
	for i, label := range labels {
		// smoothing keeps every label at a non-zero share
		raw := 1.0
		for _, w := range Words(strings.ToLower(label)) {
			if _, ok := vocab[Lemma(w)]; ok {
				raw += 2
			}
		}
		items[i] = ranked{label: label, raw: raw}
		total += raw
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].raw > items[j].raw })

	out := models.Classification{
		Labels: make([]string, len(items)),
		Scores: make([]float64, len(items)),
	}
	for i, it := range items {
		out.Labels[i] = it.label
		out.Scores[i] = it.raw / total
	}
	return out
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return w != ""
}

func isAcronym(w string) bool {
	if len(w) < 2 {
		return false
	}
	for _, r := range w {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return unicode.IsUpper([]rune(w)[0])
}

func isCapitalised(w string) bool {
	r := []rune(w)
	return len(r) > 0 && unicode.IsUpper(r[0])
}
