package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-ai-analyst/semantic"
)

// ==========================
// Test Fakes
// ==========================

type fakeExecutor struct {
	rows    []semantic.Row
	err     error
	queries []string
	// errOnce fails only the first call, so the fallback's own execution
	// can still succeed
	errOnce bool
}

func (f *fakeExecutor) Execute(_ context.Context, query string) ([]semantic.Row, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		err := f.err
		if f.errOnce {
			f.err = nil
		}
		return nil, err
	}
	return f.rows, nil
}

type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
	systems   []string
}

func (f *fakeGenerator) Generate(_ context.Context, systemContext, userPrompt string) (string, error) {
	i := f.calls
	f.calls++
	f.systems = append(f.systems, systemContext)
	f.prompts = append(f.prompts, userPrompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("unexpected generator call")
}

type fakeSchema struct {
	tables semantic.TableColumns
	err    error
	calls  int
}

func (f *fakeSchema) DescribeTables(_ context.Context) (semantic.TableColumns, error) {
	f.calls++
	return f.tables, f.err
}

func testTables() semantic.TableColumns {
	return semantic.TableColumns{
		"stock_data": {
			{Field: "Nrnum", Type: "bigint", PrimaryKey: true},
			{Field: "Date", Type: "date", PrimaryKey: true},
			{Field: "TheTrendD", Type: "integer", Nullable: true},
		},
	}
}

// ==========================
// Template Path
// ==========================

func TestResolveTemplateCurrentTrend(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{{
		"Nrnum":     "230011",
		"Date":      "2026-08-28",
		"TheTrendD": int64(1),
		"Price":     1520.0,
		"EngName":   "Acme Industries",
	}}}
	gen := &fakeGenerator{}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "What is the trend on symbol 230011 today?", 0)

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, StrategyTemplate, result.Strategy)
	assert.Equal(t, semantic.IntentTrendCurrent, result.Intent)
	assert.Contains(t, result.Query, "230011")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result.Query), "LIMIT 1"))
	assert.Equal(t, 1, result.RowCount)
	assert.Contains(t, result.Explanation, "uptrend (long position)")
	assert.Zero(t, gen.calls, "template path must not touch the generator")
}

func TestResolveTemplateHistoryDayCap(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{}}
	r := New(exec, &fakeGenerator{}, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "Show me the trend history for symbol 230011 over the last 7 days", 0)

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, semantic.IntentTrendHistory, result.Intent)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result.Query), "LIMIT 7"))
	assert.Equal(t, "No data found for your query.", result.Explanation)
}

// ==========================
// Fallback Escalation
// ==========================

func TestResolveGeneralSkipsTemplatePath(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{{"Nrnum": "1"}}}
	gen := &fakeGenerator{responses: []string{
		"SELECT * FROM stock_data LIMIT 10;",
		"Plenty of active stocks today.",
	}}
	schema := &fakeSchema{tables: testTables()}
	r := New(exec, gen, schema)

	result := r.Resolve(context.Background(), "What stocks have high volume?", 0)

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, StrategyGenerative, result.Strategy)
	assert.Equal(t, semantic.IntentGeneral, result.Intent)
	require.Len(t, exec.queries, 1, "only the generated query may execute")
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 10;", exec.queries[0])
	assert.Equal(t, 1, schema.calls)
	assert.Contains(t, gen.systems[0], "Table: stock_data")
	assert.Contains(t, gen.prompts[0], "What stocks have high volume?")
	assert.Equal(t, "Plenty of active stocks today.", result.Explanation)
}

func TestResolveSynthesisDeclineFallsBack(t *testing.T) {
	// Classifies as trend_current via "how ... <digits> ... trending" but the
	// digit run is too short for symbol extraction, so synthesis declines.
	exec := &fakeExecutor{rows: []semantic.Row{}}
	gen := &fakeGenerator{responses: []string{
		"SELECT 1 LIMIT 0;",
		"Nothing to report.",
	}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "how is 123 trending", 0)

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, StrategyGenerative, result.Strategy)
	assert.Equal(t, 2, gen.calls)
}

func TestResolveTemplateExecutionErrorFallsBack(t *testing.T) {
	exec := &fakeExecutor{
		rows:    []semantic.Row{{"Nrnum": "230011"}},
		err:     errors.New("relation does not exist"),
		errOnce: true,
	}
	gen := &fakeGenerator{responses: []string{
		"SELECT * FROM stock_data LIMIT 5;",
		"Recovered via fallback.",
	}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "What is the trend on symbol 230011 today?", 0)

	require.Equal(t, StatusSuccess, result.Status, "template execution errors are never surfaced")
	assert.Equal(t, StrategyGenerative, result.Strategy)
	require.Len(t, exec.queries, 2)
	assert.Contains(t, exec.queries[0], "230011")
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 5;", exec.queries[1])
}

// ==========================
// Generative Path
// ==========================

func TestResolveSanitizesRefusal(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{}}
	gen := &fakeGenerator{responses: []string{
		"I'm sorry, I cannot help",
		"No data matched.",
	}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "delete everything please", 0)

	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, exec.queries, 1)
	assert.True(t, strings.HasPrefix(exec.queries[0], "SELECT 1 LIMIT 0;"),
		"refusal output must be replaced with the safe no-op query, got %q", exec.queries[0])
}

func TestResolveAppendsLimitWhenAbsent(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{}}
	gen := &fakeGenerator{responses: []string{
		"SELECT * FROM stock_data",
		"Everything.",
	}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "show me everything interesting", 25)

	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 25;", exec.queries[0])
	assert.Equal(t, exec.queries[0], result.Query)
}

func TestResolveDefaultLimitOption(t *testing.T) {
	newResolver := func(opts ...Option) (*Resolver, *fakeExecutor) {
		exec := &fakeExecutor{rows: []semantic.Row{}}
		gen := &fakeGenerator{responses: []string{
			"SELECT * FROM stock_data",
			"Everything.",
		}}
		return New(exec, gen, &fakeSchema{tables: testTables()}, opts...), exec
	}

	r, exec := newResolver(WithDefaultLimit(500))
	result := r.Resolve(context.Background(), "show me everything interesting", 0)
	require.Equal(t, StatusSuccess, result.Status)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 500;", exec.queries[0])

	// without the option the built-in cap applies
	r, exec = newResolver()
	r.Resolve(context.Background(), "show me everything interesting", 0)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 100;", exec.queries[0])

	// non-positive override is ignored
	r, exec = newResolver(WithDefaultLimit(0))
	r.Resolve(context.Background(), "show me everything interesting", 0)
	require.Len(t, exec.queries, 1)
	assert.Equal(t, "SELECT * FROM stock_data LIMIT 100;", exec.queries[0])
}

func TestResolveGenerativeExecutionErrorIsTerminal(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("syntax error at or near FORM")}
	gen := &fakeGenerator{responses: []string{"SELECT * FORM stock_data LIMIT 1;"}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "anything unusual going on?", 0)

	require.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "Query execution failed")
	assert.Contains(t, result.ErrorMessage, "syntax error")
	assert.Equal(t, 1, gen.calls, "no explanation call after a failed execution")
}

func TestResolveGenerationErrorIsTerminal(t *testing.T) {
	exec := &fakeExecutor{}
	gen := &fakeGenerator{errs: []error{errors.New("model overloaded")}}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "anything unusual going on?", 0)

	require.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "Failed to generate SQL query")
	assert.Empty(t, exec.queries)
}

func TestResolveSchemaErrorIsTerminal(t *testing.T) {
	r := New(&fakeExecutor{}, &fakeGenerator{}, &fakeSchema{err: errors.New("connection refused")})

	result := r.Resolve(context.Background(), "anything unusual going on?", 0)

	require.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "Database schema not available")
}

func TestResolveExplanationFailureDegrades(t *testing.T) {
	exec := &fakeExecutor{rows: []semantic.Row{{"a": 1}, {"a": 2}}}
	gen := &fakeGenerator{
		responses: []string{"SELECT a FROM stock_data LIMIT 2;", ""},
		errs:      []error{nil, errors.New("model overloaded")},
	}
	r := New(exec, gen, &fakeSchema{tables: testTables()})

	result := r.Resolve(context.Background(), "summarize activity for me", 0)

	require.Equal(t, StatusSuccess, result.Status, "explanation failure must not fail the request")
	assert.Equal(t, "Found 2 results for your query. Please review the data for specific insights.", result.Explanation)
	assert.Equal(t, 2, result.RowCount)
}

func TestResolveRecoversFromPanic(t *testing.T) {
	r := New(&fakeExecutor{}, &fakeGenerator{}, panickySchema{})

	result := r.Resolve(context.Background(), "anything unusual going on?", 0)

	require.NotNil(t, result)
	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.ErrorMessage, "Unexpected error")
}

type panickySchema struct{}

func (panickySchema) DescribeTables(context.Context) (semantic.TableColumns, error) {
	panic("introspection exploded")
}
