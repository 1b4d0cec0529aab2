package lexer

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/pipeparse/runtime/source"
)

// tokenExpectation represents an expected token for testing
type tokenExpectation struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

// assertTokens compares actual tokens with expected, providing clear error messages
func assertTokens(t *testing.T, name string, input string, expected []tokenExpectation) {
	t.Helper()

	tok := New(source.NewString(input))
	var actual []tokenExpectation
	for _, token := range tok.Tokens() {
		actual = append(actual, tokenExpectation{
			Kind:   token.Kind,
			Text:   token.String(),
			Line:   token.Position.Line,
			Column: token.Position.Column,
		})
	}

	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("%s: token mismatch (-expected +actual):\n%s", name, diff)
	}
}

func TestEmptyInput(t *testing.T) {
	assertTokens(t, "empty input", "", []tokenExpectation{
		{END, "", 1, 1},
	})
}

func TestOnlySeparators(t *testing.T) {
	assertTokens(t, "separators", " \t\n  ", []tokenExpectation{
		{END, "", 2, 3},
	})
}

func TestWordsAndPipes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenExpectation
	}{
		{
			name:  "simple pipeline",
			input: "a b | c",
			expected: []tokenExpectation{
				{WORD, "a", 1, 1},
				{WORD, "b", 1, 3},
				{PIPE, "|", 1, 5},
				{WORD, "c", 1, 7},
				{END, "", 1, 8},
			},
		},
		{
			name:  "pipe without spaces",
			input: "ls|wc",
			expected: []tokenExpectation{
				{WORD, "ls", 1, 1},
				{PIPE, "|", 1, 3},
				{WORD, "wc", 1, 4},
				{END, "", 1, 6},
			},
		},
		{
			name:  "consecutive pipes",
			input: "||",
			expected: []tokenExpectation{
				{PIPE, "|", 1, 1},
				{PIPE, "|", 1, 2},
				{END, "", 1, 3},
			},
		},
		{
			name:  "tabs and newlines separate words",
			input: "grep\tfoo\nwc -l",
			expected: []tokenExpectation{
				{WORD, "grep", 1, 1},
				{WORD, "foo", 1, 6},
				{WORD, "wc", 2, 1},
				{WORD, "-l", 2, 4},
				{END, "", 2, 6},
			},
		},
		{
			name:  "punctuation stays inside words",
			input: "echo 'a;b' $HOME",
			expected: []tokenExpectation{
				{WORD, "echo", 1, 1},
				{WORD, "'a;b'", 1, 6},
				{WORD, "$HOME", 1, 12},
				{END, "", 1, 17},
			},
		},
		{
			name:  "carriage return is a word byte",
			input: "a\r b",
			expected: []tokenExpectation{
				{WORD, "a\r", 1, 1},
				{WORD, "b", 1, 4},
				{END, "", 1, 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokens(t, tt.name, tt.input, tt.expected)
		})
	}
}

func TestNulByteEndsStream(t *testing.T) {
	tok := New(source.NewBytes([]byte{'a', 0, 'b'}))

	first := tok.Next()
	assert.Equal(t, WORD, first.Kind)
	assert.Equal(t, "a", first.String())

	assert.False(t, tok.HasNext(), "a NUL byte reads as end of input")
	assert.Equal(t, END, tok.Peek().Kind)

	// Bytes after the NUL are never scanned
	for i := 0; i < 3; i++ {
		end := tok.Next()
		assert.Equal(t, END, end.Kind, "call %d", i)
		assert.Equal(t, "", end.String())
	}
	assert.False(t, tok.HasNext())
}

func TestEagerLookahead(t *testing.T) {
	src := source.NewString("ls -la")
	tok := New(src)

	// The first word is already scanned before any call
	assert.Equal(t, 2, src.Offset())
	assert.True(t, tok.HasNext())
	assert.Equal(t, "ls", tok.Peek().String())
}

func TestPeekIsIdempotent(t *testing.T) {
	tok := New(source.NewString("a b"))

	first := tok.Peek()
	second := tok.Peek()
	assert.Same(t, first.Lexeme, second.Lexeme)
	assert.Equal(t, "a", tok.Next().String())
	assert.Equal(t, "b", tok.Peek().String())
}

func TestNextConsumesExactlyOnce(t *testing.T) {
	tok := New(source.NewString("a b | c"))

	var got []string
	for tok.HasNext() {
		token := tok.Next()
		got = append(got, token.Kind.String()+":"+token.String())
	}

	want := []string{"WORD:a", "WORD:b", "PIPE:|", "WORD:c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestNextAfterEndKeepsReturningEnd(t *testing.T) {
	tok := New(source.NewString("x"))
	tok.Next()

	for i := 0; i < 3; i++ {
		end := tok.Next()
		assert.Equal(t, END, end.Kind)
		assert.Equal(t, 0, end.Lexeme.Len())
	}
	assert.False(t, tok.HasNext())
}

func TestNextHandsOffLexemeOwnership(t *testing.T) {
	tok := New(source.NewString("foo bar"))

	foo := tok.Next()
	foo.Release()

	// Releasing a consumed token leaves the lookahead intact
	assert.Equal(t, "bar", tok.Peek().String())
}

func TestRelease(t *testing.T) {
	tok := New(source.NewString("a b"))
	lookahead := tok.Peek().Lexeme

	tok.Release()
	tok.Release() // second release is a no-op

	assert.Empty(t, lookahead.Raw(), "lookahead storage is released")
	assert.Panics(t, func() { tok.Peek() })
	assert.Panics(t, func() { tok.Next() })
	assert.Panics(t, func() { tok.HasNext() })
}

func TestNewRejectsNilSource(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

// plainSource has no position information
type plainSource struct{ data string }

func (p *plainSource) HasNext() bool { return len(p.data) > 0 }
func (p *plainSource) Peek() byte    { return p.data[0] }
func (p *plainSource) Next() byte {
	ch := p.data[0]
	p.data = p.data[1:]
	return ch
}

func TestSourceWithoutPositions(t *testing.T) {
	tok := New(&plainSource{data: "a | b"})
	tokens := tok.Tokens()

	require.Len(t, tokens, 4)
	for _, token := range tokens {
		assert.Equal(t, Position{}, token.Position)
	}
	assert.Equal(t, PIPE, tokens[1].Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "WORD", WORD.String())
	assert.Equal(t, "PIPE", PIPE.String())
	assert.Equal(t, "END", END.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tok := New(source.NewString("ls | wc"), WithLogger(logger))
	tok.Tokens()

	out := buf.String()
	assert.Contains(t, out, "kind=WORD")
	assert.Contains(t, out, "lexeme=ls")
	assert.Contains(t, out, "kind=PIPE")
	assert.Equal(t, 5, strings.Count(out, "msg=token"), "one record per scanned token")
}

// countingHandler rejects every level and counts how it is used
type countingHandler struct {
	enabledCalls int
	handled      int
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { h.enabledCalls++; return false }
func (h *countingHandler) Handle(context.Context, slog.Record) error { h.handled++; return nil }
func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *countingHandler) WithGroup(string) slog.Handler             { return h }

func TestDisabledLoggerBuildsNoRecords(t *testing.T) {
	h := &countingHandler{}
	tok := New(source.NewString("ls | wc"), WithLogger(slog.New(h)))
	tok.Tokens()

	assert.Equal(t, 1, h.enabledCalls, "level is checked once, not per token")
	assert.Zero(t, h.handled)
}

func BenchmarkTokenize(b *testing.B) {
	input := strings.Repeat("ls -la /tmp | grep foo | wc -l\n", 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tok := New(source.NewString(input))
		for tok.HasNext() {
			tok.Next().Release()
		}
		tok.Release()
	}
}
