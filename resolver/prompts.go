package resolver

import (
	"encoding/json"
	"fmt"
	"strings"

	"stock-ai-analyst/semantic"
)

// explainSystemMessage frames the explanation call of the generative path.
const explainSystemMessage = "You are a helpful financial data analyst. Explain stock market data in clear, understandable terms."

// maxSampleRows bounds how many result rows are handed back to the generator
// when asking for an explanation.
const maxSampleRows = 3

// buildQueryPrompt composes the user prompt of the generative path's first
// call: the question plus hard output-format requirements.
func buildQueryPrompt(question string) string {
	var sb strings.Builder
	sb.Grow(1024)

	sb.WriteString(fmt.Sprintf("User Question: %s\n\n", question))
	sb.WriteString("CRITICAL: Generate ONLY a valid PostgreSQL SQL query that can be executed immediately.\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("- Return ONLY the SQL statement\n")
	sb.WriteString("- Start with SELECT\n")
	sb.WriteString("- End with semicolon (;)\n")
	sb.WriteString("- NO placeholders like [Enter Stock Nrnum Here] or [specific value]\n")
	sb.WriteString("- NO explanations, no \"I'm sorry\", no additional text\n")
	sb.WriteString("- Use actual column names and values from the database\n")
	sb.WriteString(fmt.Sprintf("- If you cannot create a valid query, return: %s\n\n", semantic.SafeFallbackQuery))
	sb.WriteString("Example format:\n")
	sb.WriteString("SELECT column1, column2 FROM table_name WHERE condition LIMIT 100;\n")

	return sb.String()
}

// buildExplainPrompt composes the user prompt of the generative path's
// second call: question, query, result count and a small row sample.
func buildExplainPrompt(question, query string, rows []semantic.Row) string {
	sample := rows
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	sampleJSON, err := json.Marshal(sample)
	if err != nil {
		sampleJSON = []byte("[]")
	}

	var sb strings.Builder
	sb.Grow(1024 + len(sampleJSON))

	sb.WriteString(fmt.Sprintf("Original Question: %s\n", question))
	sb.WriteString(fmt.Sprintf("SQL Query Used: %s\n", query))
	sb.WriteString(fmt.Sprintf("Number of Results: %d\n\n", len(rows)))
	sb.WriteString(fmt.Sprintf("Sample Results: %s\n\n", sampleJSON))
	sb.WriteString("Please provide a natural language explanation of these results.\n")
	sb.WriteString("Make it conversational and easy to understand for a non-technical user.\n")
	sb.WriteString("Include insights about what the data shows and any notable patterns.\n")

	return sb.String()
}

// genericExplanation is the degraded summary used when the explanation call
// fails after a successful execution.
func genericExplanation(rowCount int) string {
	return fmt.Sprintf("Found %d results for your query. Please review the data for specific insights.", rowCount)
}
