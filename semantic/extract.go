package semantic

import (
	"regexp"
	"strconv"
)

// DefaultHistoryDays is used when a question asks for history without an
// explicit day count.
const DefaultHistoryDays = 7

// symbolRuleKind tags the declarative forms a symbol reference can take.
// The tag exists so the first-match tie-break between rules stays auditable:
// a keyword form anywhere in the text beats a bare digit run, regardless of
// position.
type symbolRuleKind int

const (
	keywordSymbolDigits symbolRuleKind = iota // literal "symbol" then digits
	keywordStockDigits                        // literal "stock" then digits
	bareDigitRun                              // 6+ consecutive digits
)

type symbolRule struct {
	kind symbolRuleKind
	re   *regexp.Regexp
}

// symbolRules are applied in order; the first satisfied rule wins.
var symbolRules = []symbolRule{
	{keywordSymbolDigits, regexp.MustCompile(`(?i)symbol\s+(\d+)`)},
	{keywordStockDigits, regexp.MustCompile(`(?i)stock\s+(\d+)`)},
	{bareDigitRun, regexp.MustCompile(`(\d{6,})`)},
}

// dayCountRe requires the number to immediately precede "day(s)" so that a
// symbol earlier in the sentence is never mistaken for a day count.
var dayCountRe = regexp.MustCompile(`(?i)(\d+)\s+days?\b`)

// ExtractSymbol pulls a stock symbol out of free question text. It returns
// the capture of the first satisfied rule and false when no rule matches.
func ExtractSymbol(question string) (string, bool) {
	for _, rule := range symbolRules {
		if m := rule.re.FindStringSubmatch(question); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExtractDayCount pulls an explicit "<n> day(s)" count out of question text,
// defaulting to DefaultHistoryDays when none is present.
func ExtractDayCount(question string) int {
	if m := dayCountRe.FindStringSubmatch(question); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return DefaultHistoryDays
}
