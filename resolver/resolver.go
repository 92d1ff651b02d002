// Package resolver implements the question-resolution orchestrator: it
// classifies a question, tries the deterministic template path, and falls
// back to the generative path, normalizing both outcomes into one result
// shape.
package resolver

import (
	"context"
	"fmt"
	"log"
	"strings"

	"stock-ai-analyst/semantic"
)

// DefaultRowLimit bounds generative-path result sets when the generated
// query carries no LIMIT of its own.
const DefaultRowLimit = 100

// Executor runs a query and returns its rows. External collaborator; it
// owns its own timeouts and must accept the exact query text it is given.
type Executor interface {
	Execute(ctx context.Context, query string) ([]semantic.Row, error)
}

// Generator produces free text from a system context and a user prompt.
// Opaque: the pipeline only guarantees robust handling of its output.
type Generator interface {
	Generate(ctx context.Context, systemContext, userPrompt string) (string, error)
}

// SchemaProvider describes the tables reachable by generated queries.
type SchemaProvider interface {
	DescribeTables(ctx context.Context) (semantic.TableColumns, error)
}

// Resolver is the top-level resolution policy. All fields are immutable
// after construction; per-request state lives on the call stack, so one
// Resolver serves concurrent requests.
type Resolver struct {
	catalog      *semantic.Catalog
	classifier   *semantic.Classifier
	synth        *semantic.Synthesizer
	renderer     *semantic.Renderer
	executor     Executor
	generator    Generator
	schema       SchemaProvider
	defaultLimit int
}

// Option adjusts resolver construction.
type Option func(*Resolver)

// WithDefaultLimit overrides the row cap applied when the caller passes no
// limit and the generated query carries no LIMIT of its own. Non-positive
// values are ignored.
func WithDefaultLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.defaultLimit = n
		}
	}
}

// New wires a resolver from its collaborators. The semantic components are
// built here; the external collaborators are injected.
func New(executor Executor, generator Generator, schema SchemaProvider, opts ...Option) *Resolver {
	catalog := semantic.NewCatalog()
	classifier := semantic.NewClassifier()
	r := &Resolver{
		catalog:      catalog,
		classifier:   classifier,
		synth:        semantic.NewSynthesizer(classifier),
		renderer:     semantic.NewRenderer(catalog),
		executor:     executor,
		generator:    generator,
		schema:       schema,
		defaultLimit: DefaultRowLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog exposes the field catalog for callers that serve field meanings.
func (r *Resolver) Catalog() *semantic.Catalog {
	return r.catalog
}

// Resolve answers one question. The template path is attempted first for any
// known intent; a decline or execution failure there falls through silently
// to the generative path. Generative-path failures are terminal. Any panic
// in between is converted to a generic error result.
func (r *Resolver) Resolve(ctx context.Context, question string, limit int) (res *Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("⚠️  Resolver panic for question %q: %v", question, p)
			res = errorResult(question, fmt.Sprintf("Unexpected error: %v", p))
		}
	}()

	if limit <= 0 {
		limit = r.defaultLimit
	}

	intent, match := r.classifier.Classify(question)

	if intent != semantic.IntentGeneral {
		if res := r.resolveTemplate(ctx, question, intent, match); res != nil {
			return res
		}
		log.Printf("ℹ️  Template path declined for intent %s, falling back to generative path", intent)
	}

	return r.resolveGenerative(ctx, question, intent, limit)
}

// resolveTemplate runs the deterministic path. A nil return is the typed
// decline signal: no query produced, or execution failed. Declines are
// logged, never surfaced.
func (r *Resolver) resolveTemplate(ctx context.Context, question, intent string, match semantic.MatchResult) *Result {
	query, ok := r.synth.Synthesize(intent, match, question)
	if !ok {
		return nil
	}

	rows, err := r.executor.Execute(ctx, query)
	if err != nil {
		log.Printf("⚠️  Template query failed for intent %s: %v", intent, err)
		return nil
	}

	return &Result{
		Status:      StatusSuccess,
		Question:    question,
		Intent:      intent,
		Strategy:    StrategyTemplate,
		Query:       query,
		Rows:        rows,
		RowCount:    len(rows),
		Explanation: r.renderer.Render(intent, rows),
	}
}

// resolveGenerative runs the fallback path: generate a query from the schema
// briefing, sanitize it, execute it, then generate an explanation. Failures
// here are terminal and reported to the caller.
func (r *Resolver) resolveGenerative(ctx context.Context, question, intent string, limit int) *Result {
	tables, err := r.schema.DescribeTables(ctx)
	if err != nil {
		return errorResult(question, fmt.Sprintf("Database schema not available: %v", err))
	}

	systemContext := r.catalog.RenderSchemaDescription(tables)

	raw, err := r.generator.Generate(ctx, systemContext, buildQueryPrompt(question))
	if err != nil {
		return errorResult(question, fmt.Sprintf("Failed to generate SQL query: %v", err))
	}

	query := SanitizeQuery(raw)
	if !hasLimitClause(query) {
		query = strings.TrimSuffix(query, ";") + fmt.Sprintf(" LIMIT %d;", limit)
	}

	rows, err := r.executor.Execute(ctx, query)
	if err != nil {
		res := errorResult(question, fmt.Sprintf("Query execution failed: %v", err))
		res.Query = query
		res.Strategy = StrategyGenerative
		return res
	}

	explanation, err := r.generator.Generate(ctx, explainSystemMessage, buildExplainPrompt(question, query, rows))
	if err != nil {
		log.Printf("⚠️  Explanation generation failed: %v", err)
		explanation = genericExplanation(len(rows))
	}

	return &Result{
		Status:      StatusSuccess,
		Question:    question,
		Intent:      intent,
		Strategy:    StrategyGenerative,
		Query:       query,
		Rows:        rows,
		RowCount:    len(rows),
		Explanation: strings.TrimSpace(explanation),
	}
}
