package semantic

import (
	"regexp"
	"strconv"
	"strings"
)

// numericSymbolRe validates the symbol before it is substituted into a
// template. Anything that is not a plain digit run is rejected so malformed
// input can never reach the generated query.
var numericSymbolRe = regexp.MustCompile(`^\d+$`)

// Synthesizer instantiates per-intent SQL templates with parameters pulled
// from the question text.
type Synthesizer struct {
	classifier *Classifier
}

// NewSynthesizer builds a synthesizer over the given classifier's templates.
func NewSynthesizer(classifier *Classifier) *Synthesizer {
	return &Synthesizer{classifier: classifier}
}

// Synthesize produces an executable query for a classified intent, or
// (_, false) when no query can be produced. A false return is a decline, not
// an error: the caller falls back to the generative path.
func (s *Synthesizer) Synthesize(intent string, match MatchResult, question string) (string, bool) {
	template, ok := s.classifier.TemplateFor(intent)
	if !ok {
		return "", false
	}

	symbol, found := ExtractSymbol(question)
	if !found || !numericSymbolRe.MatchString(symbol) {
		return "", false
	}

	query := strings.ReplaceAll(template, "{symbol}", symbol)

	if intent == IntentTrendHistory {
		days := ExtractDayCount(question)
		query = strings.ReplaceAll(query, "{days}", strconv.Itoa(days))
	}

	// A leftover placeholder means a template asked for a parameter no
	// extractor can resolve; fail closed rather than emit a malformed query.
	if strings.Contains(query, "{") {
		return "", false
	}

	return query, true
}
