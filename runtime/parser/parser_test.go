package parser

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/pipeparse/core/ast"
	"github.com/aledsdavies/pipeparse/runtime/lexer"
	"github.com/aledsdavies/pipeparse/runtime/source"
)

// shape is a comparable rendering of an AST used in expectations
type shape struct {
	Kind  string
	Words []string
	Error string
	Left  *shape
	Right *shape
}

func shapeOf(n ast.Node) *shape {
	switch n := n.(type) {
	case *ast.ErrorNode:
		return &shape{Kind: "error", Error: n.Message}
	case *ast.CommandNode:
		return &shape{Kind: "command", Words: n.Args()}
	case *ast.PipeNode:
		return &shape{Kind: "pipe", Left: shapeOf(n.Left), Right: shapeOf(n.Right)}
	default:
		return nil
	}
}

func command(words ...string) *shape {
	if words == nil {
		words = []string{}
	}
	return &shape{Kind: "command", Words: words}
}

func pipe(left, right *shape) *shape {
	return &shape{Kind: "pipe", Left: left, Right: right}
}

func parseError(msg string) *shape {
	return &shape{Kind: "error", Error: msg}
}

// assertParse compares the parsed AST with the expected shape
func assertParse(t *testing.T, input string, expected *shape) {
	t.Helper()

	result := ParseString(input)
	if diff := cmp.Diff(expected, shapeOf(result.Root)); diff != "" {
		t.Errorf("parse %q mismatch (-expected +actual):\n%s", input, diff)
	}
}

func TestParsePipelines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *shape
	}{
		{
			name:     "single word",
			input:    "ls",
			expected: command("ls"),
		},
		{
			name:     "command with arguments",
			input:    "ls -la /tmp",
			expected: command("ls", "-la", "/tmp"),
		},
		{
			name:     "two stages",
			input:    "cat file | wc",
			expected: pipe(command("cat", "file"), command("wc")),
		},
		{
			name:  "right associative",
			input: "ls -la | grep foo | wc -l",
			expected: pipe(
				command("ls", "-la"),
				pipe(command("grep", "foo"), command("wc", "-l")),
			),
		},
		{
			name:  "four stages lean right",
			input: "a|b|c|d",
			expected: pipe(command("a"),
				pipe(command("b"),
					pipe(command("c"), command("d")))),
		},
		{
			name:     "multiline input",
			input:    "echo hi\n|\ntr a-z A-Z\n",
			expected: pipe(command("echo", "hi"), command("tr", "a-z", "A-Z")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertParse(t, tt.input, tt.expected)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *shape
	}{
		{"empty input", "", parseError(ast.MsgEndOfStream)},
		{"only whitespace", "  \t\n", parseError(ast.MsgEndOfStream)},
		{"lone pipe", "|", parseError(ast.MsgExpectedWord)},
		{"leading pipe", "| wc", parseError(ast.MsgExpectedWord)},
		// The error replaces only the stage the recursion could not start
		{"trailing pipe", "ls |", pipe(command("ls"), parseError(ast.MsgEndOfStream))},
		{"double pipe", "ls | | wc", pipe(command("ls"), parseError(ast.MsgExpectedWord))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertParse(t, tt.input, tt.expected)
		})
	}
}

func TestParseErrorIsSingleNode(t *testing.T) {
	result := ParseString("| a | b")

	e, ok := result.Root.(*ast.ErrorNode)
	require.True(t, ok, "expected *ast.ErrorNode, got %T", result.Root)
	assert.Equal(t, ast.MsgExpectedWord, e.Message)
	assert.Equal(t, ast.Position{Line: 1, Column: 1, Offset: 0}, e.Pos)
}

func TestParseWithTokenizer(t *testing.T) {
	tok := lexer.New(source.NewString("grep foo | wc -l"))
	defer tok.Release()

	root := Parse(tok)
	assert.Equal(t, "grep foo | wc -l", root.String())
	assert.False(t, tok.HasNext(), "parse consumes the whole stream")
}

func TestEmptyCommandIsValid(t *testing.T) {
	// pipeline() only enters command() on a WORD, so an empty command is
	// reachable through command() directly.
	tok := lexer.New(source.NewString("| x"))
	defer tok.Release()

	p := &parser{tok: tok, config: newConfig(nil)}
	c := p.command()
	assert.Equal(t, 0, c.Words.Len())
	assert.Equal(t, lexer.PIPE, tok.Peek().Kind, "empty command consumes nothing")
}

func TestParsePositions(t *testing.T) {
	result := ParseString("ls -la\n  | wc")

	p, ok := result.Root.(*ast.PipeNode)
	require.True(t, ok)
	assert.Equal(t, ast.Position{Line: 1, Column: 1, Offset: 0}, p.Left.Position())
	assert.Equal(t, ast.Position{Line: 2, Column: 5, Offset: 11}, p.Right.Position())
	assert.Equal(t, p.Left.Position(), p.Position())
}

func TestParseOwnsLexemes(t *testing.T) {
	result := ParseString("a b | c")
	stages := ast.Stages(result.Root)
	require.Len(t, stages, 2)

	// Words survive the tokenizer being released by ParseString
	assert.Equal(t, []string{"a", "b"}, stages[0].Args())
	assert.Equal(t, []string{"c"}, stages[1].Args())

	assert.Nil(t, ast.Release(result.Root))
}

func TestParseTelemetry(t *testing.T) {
	result := ParseString("ls -la | grep foo | wc -l", WithTelemetryBasic())
	require.NotNil(t, result.Telemetry)

	assert.Equal(t, 3, result.Telemetry.CommandCount)
	assert.Equal(t, 2, result.Telemetry.PipeCount)
	assert.Equal(t, 6, result.Telemetry.WordCount)
	assert.Equal(t, 0, result.Telemetry.ErrorCount)
	assert.Zero(t, result.Telemetry.ParseTime)

	assert.Nil(t, ParseString("ls").Telemetry, "telemetry off by default")
}

func TestParseTelemetryTiming(t *testing.T) {
	result := ParseString("ls | wc", WithTelemetryTiming())
	require.NotNil(t, result.Telemetry)
	assert.GreaterOrEqual(t, result.Telemetry.TotalTime, result.Telemetry.ParseTime)
}

func TestParseErrorTelemetry(t *testing.T) {
	result := ParseString("ls | |", WithTelemetryBasic())
	assert.Equal(t, 1, result.Telemetry.ErrorCount)
	assert.Equal(t, 1, result.Telemetry.CommandCount)
}

func TestLexerOptsPassThrough(t *testing.T) {
	result := ParseString("a | b", WithLexerOpts(lexer.WithTelemetryBasic()))
	require.NotNil(t, result.TokenTelemetry)
	assert.Equal(t, 2, result.TokenTelemetry[lexer.WORD].Count)
	assert.Equal(t, 1, result.TokenTelemetry[lexer.PIPE].Count)
}

func TestParseDebugEvents(t *testing.T) {
	result := ParseString("a b | c", WithDebugDetailed())

	var events []string
	for _, ev := range result.DebugEvents {
		events = append(events, ev.Event+"("+ev.Context+")")
	}

	want := []string{
		"enter_pipeline()",
		"enter_command()",
		"word(a)",
		"word(b)",
		"exit_command(words=2)",
		"enter_pipeline()",
		"enter_command()",
		"word(c)",
		"exit_command(words=1)",
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("debug events mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ParseString("ls | wc", WithLogger(logger))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "msg=command"))
	assert.Equal(t, 1, strings.Count(out, "msg=pipe"))
	assert.Contains(t, out, "msg=token", "logger reaches the tokenizer")
}

// levelCounter rejects every level and counts how it is used
type levelCounter struct {
	enabledCalls int
	handled      int
}

func (h *levelCounter) Enabled(context.Context, slog.Level) bool { h.enabledCalls++; return false }
func (h *levelCounter) Handle(context.Context, slog.Record) error { h.handled++; return nil }
func (h *levelCounter) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *levelCounter) WithGroup(string) slog.Handler             { return h }

func TestDisabledLoggerSkipsRecords(t *testing.T) {
	h := &levelCounter{}
	tok := lexer.New(source.NewString("ls | | wc"))
	defer tok.Release()

	root, _, _ := run(tok, newConfig([]Opt{WithLogger(slog.New(h))}))
	defer ast.Release(root)

	assert.Equal(t, "ls | error: expected a word token", root.String())
	assert.Equal(t, 1, h.enabledCalls, "level is checked once per parse")
	assert.Zero(t, h.handled)
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"", "|", "a", "a | b", "a b | c d | e", "||a", "a\t|\nb"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		result := ParseString(input)
		require.NotNil(t, result.Root)

		// Every stage keeps its words in source order
		var words []string
		for _, stage := range ast.Stages(result.Root) {
			words = append(words, stage.Args()...)
		}
		for _, w := range words {
			if w == "" || strings.ContainsAny(w, " \t\n|\x00") {
				t.Fatalf("invalid word %q from input %q", w, input)
			}
		}

		ast.Release(result.Root)
	})
}

func BenchmarkParse(b *testing.B) {
	input := strings.Repeat("cat file | grep foo | ", 100) + "wc -l"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := ParseString(input)
		ast.Release(result.Root)
	}
}
