package resolver

import (
	"strings"

	"stock-ai-analyst/semantic"
)

// refusalMarkers identify generated output that is apology or refusal prose
// rather than SQL. Matching output is replaced wholesale with the safe
// fallback query.
var refusalMarkers = []string{
	"I'm sorry",
	"I cannot",
	"does not contain",
}

// placeholderReplacements map bracketed placeholder tokens the generator is
// known to emit to a literal default value.
var placeholderReplacements = []string{
	"[Enter Stock Nrnum Here]",
	"[Enter specific value]",
	"[Enter value here]",
	"[value]",
}

// placeholderDefault substitutes for any bracketed placeholder token.
const placeholderDefault = "1"

// SanitizeQuery applies the deterministic cleanup rules to raw generator
// output: strip code-fence markers, replace refusal prose with the safe
// no-op query, replace bracketed placeholders with a literal default, and
// ensure the statement ends with a terminator.
func SanitizeQuery(raw string) string {
	query := strings.TrimSpace(raw)

	if strings.HasPrefix(query, "```sql") {
		query = strings.ReplaceAll(query, "```sql", "")
		query = strings.ReplaceAll(query, "```", "")
		query = strings.TrimSpace(query)
	} else if strings.HasPrefix(query, "```") {
		query = strings.ReplaceAll(query, "```", "")
		query = strings.TrimSpace(query)
	}

	for _, marker := range refusalMarkers {
		if strings.Contains(query, marker) {
			return semantic.SafeFallbackQuery + " -- No valid query could be generated"
		}
	}

	for _, placeholder := range placeholderReplacements {
		query = strings.ReplaceAll(query, placeholder, placeholderDefault)
	}

	if !strings.HasSuffix(query, ";") {
		query += ";"
	}

	return query
}

// hasLimitClause reports whether the query already bounds its result set.
func hasLimitClause(query string) bool {
	return strings.Contains(strings.ToUpper(query), "LIMIT")
}
