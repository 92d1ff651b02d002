package semantic

import (
	"regexp"
	"strings"
)

// Intent identifiers. IntentGeneral is the sentinel returned when no pattern
// matches; it routes the question to the generative fallback.
const (
	IntentTrendCurrent = "trend_current"
	IntentTrendChange  = "trend_change"
	IntentTrendHistory = "trend_history"
	IntentGeneral      = "general"
)

// IntentPattern is one recognizable question shape: an ordered matcher list
// and the SQL template instantiated when the shape is recognized.
type IntentPattern struct {
	Intent   string
	Matchers []*regexp.Regexp
	Template string
}

// MatchResult carries the matcher that won and its captured groups.
type MatchResult struct {
	Pattern string
	Groups  []string
}

// Empty reports whether classification fell through to the sentinel intent.
func (m MatchResult) Empty() bool {
	return m.Pattern == ""
}

// Query templates. The history template's {days} placeholder is a row-count
// cap, not a date-range filter: "last N days" means "N most recent records",
// which diverges from calendar days when the data has gaps. Kept to match
// the system's established behavior.
const (
	trendCurrentTemplate = `SELECT s."Nrnum", s."Date", s."TheTrendD", s."Price", s."UpsDowns",
       n."HebName", n."EngName"
FROM stock_data s
LEFT JOIN name_index n ON s."Nrnum" = n."Nrnum"
WHERE s."Nrnum" = {symbol}
ORDER BY s."Date" DESC
LIMIT 1`

	trendChangeTemplate = `SELECT s1."Nrnum", s1."Date", s1."TheTrendD" AS from_trend,
       s2."TheTrendD" AS to_trend, s1."Price", s1."UpsDowns",
       n."HebName", n."EngName"
FROM stock_data s1
JOIN stock_data s2 ON s1."Nrnum" = s2."Nrnum"
    AND s1."Date" < s2."Date"
LEFT JOIN name_index n ON s1."Nrnum" = n."Nrnum"
WHERE s1."Nrnum" = {symbol}
    AND s1."TheTrendD" = 1 AND s2."TheTrendD" = 2
ORDER BY s1."Date" DESC
LIMIT 10`

	trendHistoryTemplate = `SELECT s."Nrnum", s."Date", s."TheTrendD", s."Price", s."UpsDowns",
       n."HebName", n."EngName"
FROM stock_data s
LEFT JOIN name_index n ON s."Nrnum" = n."Nrnum"
WHERE s."Nrnum" = {symbol}
ORDER BY s."Date" DESC
LIMIT {days}`
)

// defaultPatterns is the ordered intent table. First matcher across all
// intents, in this order, wins. Change and history come before current:
// "trend ... symbol N" also matches history and change questions, so the
// more specific shapes must be scanned first.
func defaultPatterns() []IntentPattern {
	return []IntentPattern{
		{
			Intent: IntentTrendChange,
			Matchers: []*regexp.Regexp{
				regexp.MustCompile(`last.*time.*(\d+).*moved.*uptrend.*downtrend`),
				regexp.MustCompile(`last.*time.*(\d+).*changed.*long.*short`),
				regexp.MustCompile(`when.*(\d+).*moved.*up.*down`),
				regexp.MustCompile(`trend.*change.*(\d+)`),
			},
			Template: trendChangeTemplate,
		},
		{
			Intent: IntentTrendHistory,
			Matchers: []*regexp.Regexp{
				regexp.MustCompile(`trend.*history.*(\d+)`),
				regexp.MustCompile(`(\d+).*trend.*last.*(\d+).*days`),
				regexp.MustCompile(`how.*(\d+).*trending.*last`),
			},
			Template: trendHistoryTemplate,
		},
		{
			Intent: IntentTrendCurrent,
			Matchers: []*regexp.Regexp{
				regexp.MustCompile(`trend.*symbol\s+(\d+)`),
				regexp.MustCompile(`trend.*stock\s+(\d+)`),
				regexp.MustCompile(`(\d+).*trend.*today`),
				regexp.MustCompile(`current.*trend.*(\d+)`),
				regexp.MustCompile(`how.*(\d+).*trending`),
			},
			Template: trendCurrentTemplate,
		},
	}
}

// Classifier matches question text against the intent pattern table. The
// table is immutable after construction and safe for concurrent use.
type Classifier struct {
	patterns []IntentPattern
}

// NewClassifier builds a classifier over the default intent table.
func NewClassifier() *Classifier {
	return &Classifier{patterns: defaultPatterns()}
}

// Classify scans intents in declaration order and each intent's matchers in
// declared order, returning the first match. No match yields IntentGeneral
// with an empty result. Pure function of the question text.
func (c *Classifier) Classify(question string) (string, MatchResult) {
	lower := strings.ToLower(question)

	for _, p := range c.patterns {
		for _, re := range p.Matchers {
			if m := re.FindStringSubmatch(lower); m != nil {
				return p.Intent, MatchResult{Pattern: re.String(), Groups: m[1:]}
			}
		}
	}

	return IntentGeneral, MatchResult{}
}

// TemplateFor returns the SQL template declared for an intent.
func (c *Classifier) TemplateFor(intent string) (string, bool) {
	for _, p := range c.patterns {
		if p.Intent == intent {
			return p.Template, true
		}
	}
	return "", false
}
