// Package semantic implements the deterministic half of the question
// resolution pipeline: the field catalog, intent classification, parameter
// extraction, SQL synthesis from templates, and natural-language rendering
// of result rows.
package semantic

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKind categorizes a database field for semantic interpretation.
type FieldKind string

const (
	KindTrend     FieldKind = "trend"
	KindPrice     FieldKind = "price"
	KindVolume    FieldKind = "volume"
	KindSymbol    FieldKind = "symbol"
	KindDate      FieldKind = "date"
	KindIndicator FieldKind = "indicator"
	KindGrade     FieldKind = "grade"
	KindName      FieldKind = "name"
)

// FieldDefinition describes one semantic column: what it means, what its raw
// values stand for, and which table it lives in.
type FieldDefinition struct {
	Name        string            `json:"field_name"`
	Kind        FieldKind         `json:"type"`
	Description string            `json:"description"`
	Values      map[string]string `json:"possible_values,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	Table       string            `json:"table"`
}

// DescribeValue returns the human-readable meaning of a raw field value, or
// the value's text form unchanged when no meaning is mapped.
func (f FieldDefinition) DescribeValue(raw interface{}) string {
	text := valueText(raw)
	if f.Values != nil {
		if meaning, ok := f.Values[text]; ok {
			return meaning
		}
	}
	return text
}

// Column describes one physical column as reported by schema introspection.
type Column struct {
	Field      string `json:"field"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"is_primary_key"`
}

// TableColumns maps a table name to its ordered column list.
type TableColumns map[string][]Column

// trendMeanings are shared by the daily, weekly and monthly trend fields.
var trendMeanings = map[string]string{
	"0": "sideways (no clear trend)",
	"1": "uptrend (long position)",
	"2": "downtrend (short position)",
}

// Catalog is the static table of field definitions. Populated once at
// construction, read-only afterwards, safe to share across requests.
type Catalog struct {
	fields map[string]FieldDefinition
	order  []string
}

// NewCatalog builds the catalog for the stock dataset.
func NewCatalog() *Catalog {
	defs := []FieldDefinition{
		{Name: "TheTrendD", Kind: KindTrend, Description: "Daily trend indicator", Values: trendMeanings, Table: "stock_data"},
		{Name: "TheTrendW", Kind: KindTrend, Description: "Weekly trend indicator", Values: trendMeanings, Table: "stock_data"},
		{Name: "TheTrendM", Kind: KindTrend, Description: "Monthly trend indicator", Values: trendMeanings, Table: "stock_data"},
		{Name: "Price", Kind: KindPrice, Description: "Stock price", Unit: "currency", Table: "stock_data"},
		{Name: "UpsDowns", Kind: KindVolume, Description: "Trading volume/activity", Unit: "shares", Table: "stock_data"},
		{Name: "UpsDownsD", Kind: KindVolume, Description: "Daily trading volume", Unit: "shares", Table: "stock_data"},
		{Name: "Nrnum", Kind: KindSymbol, Description: "Stock identifier/symbol", Table: "stock_data"},
		{Name: "HebName", Kind: KindName, Description: "Stock name in Hebrew", Table: "name_index"},
		{Name: "EngName", Kind: KindName, Description: "Stock name in English", Table: "name_index"},
		{Name: "Date", Kind: KindDate, Description: "Trading date", Table: "stock_data"},
		{Name: "MainSug", Kind: KindIndicator, Description: "Main suggestion/indicator", Table: "stock_data"},
		{Name: "SubSug", Kind: KindIndicator, Description: "Sub suggestion/indicator", Table: "stock_data"},
		{Name: "Index", Kind: KindIndicator, Description: "Market index value", Table: "stock_data"},
		{Name: "FinalGradeD", Kind: KindGrade, Description: "Final daily grade/rating", Table: "stock_data"},
		{Name: "FinalGradeW", Kind: KindGrade, Description: "Final weekly grade/rating", Table: "stock_data"},
		{Name: "FinalGradeM", Kind: KindGrade, Description: "Final monthly grade/rating", Table: "stock_data"},
	}

	c := &Catalog{fields: make(map[string]FieldDefinition, len(defs))}
	for _, d := range defs {
		c.fields[d.Name] = d
		c.order = append(c.order, d.Name)
	}
	return c
}

// Lookup returns the definition of a field by name.
func (c *Catalog) Lookup(name string) (FieldDefinition, bool) {
	def, ok := c.fields[name]
	return def, ok
}

// DescribeValue interprets a raw value through the named field's value
// meanings. Unknown fields and unmapped values come back as plain text.
func (c *Catalog) DescribeValue(name string, raw interface{}) string {
	if def, ok := c.fields[name]; ok {
		return def.DescribeValue(raw)
	}
	return valueText(raw)
}

// Fields returns every definition in declaration order.
func (c *Catalog) Fields() []FieldDefinition {
	out := make([]FieldDefinition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.fields[name])
	}
	return out
}

// SafeFallbackQuery is the no-op statement the generative collaborator is
// instructed to return when it cannot produce a valid query.
const SafeFallbackQuery = "SELECT 1 LIMIT 0;"

// RenderSchemaDescription produces the deterministic schema briefing that
// grounds the generative fallback: every table and column with PK/NOT NULL
// marks, followed by a fixed block of field semantics and generation rules.
func (c *Catalog) RenderSchemaDescription(tables TableColumns) string {
	var sb strings.Builder
	sb.Grow(2048)

	sb.WriteString("You are an AI assistant that helps users query a stock market database.\n")
	sb.WriteString("The database contains the following tables and their structure:\n")

	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("\nTable: %s\nColumns:\n", name))
		for _, col := range tables[name] {
			sb.WriteString(fmt.Sprintf("  - %s (%s)", col.Field, col.Type))
			if !col.Nullable {
				sb.WriteString(" [NOT NULL]")
			}
			if col.PrimaryKey {
				sb.WriteString(" [PRIMARY KEY]")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nIMPORTANT: All the fields listed above are available in the database. Do NOT say fields don't exist.\n")
	sb.WriteString("\nField interpretations for stock data:\n")
	for _, name := range c.order {
		def := c.fields[name]
		sb.WriteString(fmt.Sprintf("- %s: %s", def.Name, def.Description))
		if len(def.Values) > 0 {
			keys := make([]string, 0, len(def.Values))
			for k := range def.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%s", k, def.Values[k]))
			}
			sb.WriteString(" (" + strings.Join(parts, ", ") + ")")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`
SQL Generation Rules:
1. Always use proper PostgreSQL syntax
2. Use appropriate date functions (DATE_TRUNC, EXTRACT, etc.)
3. Handle NULL values with IS NULL or IS NOT NULL
4. Use proper JOIN syntax when combining tables
5. Always include LIMIT clauses (default: LIMIT 100)
6. Use proper aggregation functions (COUNT, SUM, AVG, MAX, MIN)
7. Use LIKE for text searches, = for exact matches
8. Use proper comparison operators (<, >, <=, >=, =, !=)
9. NEVER use placeholder text like [Enter value here] - use actual values
10. If filtering by specific stocks, use actual stock numbers from the "Nrnum" field
11. Generate queries that can be executed immediately without modification
12. For trend analysis, use "TheTrendD", "TheTrendW", or "TheTrendM" fields
13. For volume analysis, use the "UpsDowns" field
14. For price analysis, use the "Price" field
15. Return exactly ONE executable statement terminated by a semicolon (;)

CRITICAL: Generate ONLY valid, executable SQL. If you cannot create a valid query, return: ` + SafeFallbackQuery + "\n")

	return sb.String()
}
