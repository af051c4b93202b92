package nlp

var stopWords = toSet(
	"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each", "either",
	"else", "etc", "ever", "every", "few", "for", "from", "further", "get", "got", "had", "has",
	"have", "having", "he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"however", "i", "if", "in", "into", "is", "it", "its", "itself", "just", "let", "like", "may",
	"me", "might", "more", "most", "much", "must", "my", "myself", "no", "nor", "not", "now", "of",
	"off", "often", "on", "once", "one", "only", "or", "other", "our", "ours", "ourselves", "out",
	"over", "own", "same", "shall", "she", "should", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "upon", "us", "use", "used", "using", "very",
	"was", "we", "well", "were", "what", "when", "where", "whether", "which", "while", "who",
	"whom", "whose", "why", "will", "with", "within", "without", "would", "yet", "you", "your",
	"yours", "yourself", "yourselves",
)

var positiveWords = toSet(
	"accurate", "advantage", "benefit", "beneficial", "best", "better", "clear", "correct",
	"effective", "efficient", "excellent", "fast", "good", "great", "helpful", "improve",
	"improved", "love", "nice", "positive", "powerful", "reliable", "robust", "safe", "simple",
	"strong", "success", "successful", "useful", "valuable", "well", "win", "wonderful",
)

var negativeWords = toSet(
	"bad", "broken", "bug", "complex", "confusing", "difficult", "disadvantage", "error",
	"fail", "failed", "failure", "hard", "hate", "incorrect", "poor", "problem", "risk", "slow",
	"terrible", "unclear", "unreliable", "unsafe", "weak", "worse", "worst", "wrong",
)

var negators = toSet("not", "no", "never", "none", "cannot", "without", "hardly")

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}
