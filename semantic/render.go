package semantic

import (
	"fmt"
	"strings"
)

// Row is one named-field record from query execution.
type Row = map[string]interface{}

const (
	noDataMessage      = "No data found for your query."
	noTrendChanges     = "No trend changes found for the specified criteria."
	maxRenderedChanges = 5
	trendField         = "TheTrendD"
)

// Renderer turns result rows into a natural-language summary using the
// catalog's value interpretations. Stateless apart from the catalog.
type Renderer struct {
	catalog *Catalog
}

// NewRenderer builds a renderer over the catalog.
func NewRenderer(catalog *Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// Render dispatches per intent. Empty row sets yield a fixed no-data message
// for every intent; missing optional fields fall back to labels instead of
// failing.
func (r *Renderer) Render(intent string, rows []Row) string {
	if len(rows) == 0 {
		return noDataMessage
	}

	switch intent {
	case IntentTrendCurrent:
		return r.renderCurrent(rows)
	case IntentTrendChange:
		return r.renderChange(rows)
	case IntentTrendHistory:
		return r.renderHistory(rows)
	default:
		return fmt.Sprintf("Found %d results for your query.", len(rows))
	}
}

func (r *Renderer) renderCurrent(rows []Row) string {
	row := rows[0]
	symbol := fieldText(row, "Nrnum", "Unknown")
	trend := r.catalog.DescribeValue(trendField, row[trendField])
	name := stockName(row, symbol)
	date := fieldText(row, "Date", "")
	price := fieldText(row, "Price", "")

	return fmt.Sprintf("The current trend for %s (symbol %s) as of %s is %s. The stock price is %s.",
		name, symbol, date, trend, price)
}

func (r *Renderer) renderChange(rows []Row) string {
	if len(rows) == 0 {
		return noTrendChanges
	}

	changes := make([]string, 0, maxRenderedChanges)
	for i, row := range rows {
		if i >= maxRenderedChanges {
			break
		}
		symbol := fieldText(row, "Nrnum", "Unknown")
		name := stockName(row, symbol)
		date := fieldText(row, "Date", "")
		from := r.catalog.DescribeValue(trendField, row["from_trend"])
		to := r.catalog.DescribeValue(trendField, row["to_trend"])

		changes = append(changes, fmt.Sprintf("%s changed from %s to %s on %s", name, from, to, date))
	}

	return fmt.Sprintf("Found %d trend changes. Recent changes: %s.", len(rows), strings.Join(changes, "; "))
}

func (r *Renderer) renderHistory(rows []Row) string {
	symbol := fieldText(rows[0], "Nrnum", "Unknown")
	name := stockName(rows[0], symbol)

	// Frequency table over the interpreted trend label. Counts are
	// order-independent; display order is first occurrence.
	counts := make(map[string]int)
	var order []string
	for _, row := range rows {
		trend := r.catalog.DescribeValue(trendField, row[trendField])
		if _, seen := counts[trend]; !seen {
			order = append(order, trend)
		}
		counts[trend]++
	}

	parts := make([]string, 0, len(order))
	for _, trend := range order {
		parts = append(parts, fmt.Sprintf("%d days of %s", counts[trend], trend))
	}

	return fmt.Sprintf("Trend history for %s (symbol %s): %s.", name, symbol, strings.Join(parts, ", "))
}

// stockName prefers the English name, then the Hebrew name, then a
// generated label from the symbol.
func stockName(row Row, symbol string) string {
	if name := fieldText(row, "EngName", ""); name != "" {
		return name
	}
	if name := fieldText(row, "HebName", ""); name != "" {
		return name
	}
	return "Stock " + symbol
}

// fieldText reads a row field as text, substituting fallback when the field
// is absent or empty.
func fieldText(row Row, key, fallback string) string {
	if v, ok := row[key]; ok {
		if text := valueText(v); text != "" {
			return text
		}
	}
	return fallback
}
