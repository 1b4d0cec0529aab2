package lexer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aledsdavies/pipeparse/core/invariant"
	"github.com/aledsdavies/pipeparse/core/text"
	"github.com/aledsdavies/pipeparse/runtime/source"
)

// Tokenizer turns a character source into WORD / PIPE / END tokens with one
// token of lookahead. The lookahead is scanned eagerly on construction and
// after every Next, so Peek always reflects the true next token.
type Tokenizer struct {
	src source.CharSource
	pos source.Positioner // nil when src cannot report positions

	next     Token
	released bool
	ended    bool // a NUL byte ended the stream; the source is not read again

	// Telemetry (nil when disabled for zero allocation)
	telemetryMode  TelemetryMode
	tokenTelemetry map[Kind]*TokenTelemetry

	// Debug (nil when disabled for zero allocation)
	debugLevel  DebugLevel
	debugEvents []DebugEvent

	logger   *slog.Logger
	logDebug bool // logger accepts Debug records
}

// New creates a tokenizer borrowing src and scans the first token.
func New(src source.CharSource, opts ...Opt) *Tokenizer {
	invariant.NotNil(src, "source")

	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}

	t := &Tokenizer{
		src:           src,
		telemetryMode: config.telemetry,
		debugLevel:    config.debug,
		logger:        config.logger,
	}
	if p, ok := src.(source.Positioner); ok {
		t.pos = p
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.logDebug = t.logger.Enabled(context.Background(), slog.LevelDebug)

	// Only allocate telemetry structures when needed
	if config.telemetry > TelemetryOff {
		t.tokenTelemetry = make(map[Kind]*TokenTelemetry)
	}
	if config.debug > DebugOff {
		t.debugEvents = make([]DebugEvent, 0, 64)
	}

	t.advance()
	return t
}

// HasNext reports whether the lookahead is anything other than END.
func (t *Tokenizer) HasNext() bool {
	t.checkLive()
	return t.next.Kind != END
}

// Peek returns the lookahead without consuming it. The tokenizer keeps
// ownership of the returned lexeme.
func (t *Tokenizer) Peek() Token {
	t.checkLive()
	return t.next
}

// Next returns the lookahead, handing ownership of its lexeme to the caller,
// and scans the following token. Once the input is exhausted every call
// returns a fresh END token.
func (t *Tokenizer) Next() Token {
	t.checkLive()
	tok := t.next
	t.advance()
	return tok
}

// Tokens consumes the rest of the stream, including the final END token.
func (t *Tokenizer) Tokens() []Token {
	var tokens []Token
	for t.HasNext() {
		tokens = append(tokens, t.Next())
	}
	return append(tokens, t.Next())
}

// Release frees the buffered lookahead. The source is borrowed and is left
// untouched. The tokenizer must not be used afterwards.
func (t *Tokenizer) Release() {
	if t.released {
		return
	}
	t.next.Release()
	t.next = Token{}
	t.released = true
}

// Telemetry returns per-kind telemetry (production safe)
func (t *Tokenizer) Telemetry() map[Kind]*TokenTelemetry {
	if t.telemetryMode == TelemetryOff || t.tokenTelemetry == nil {
		return nil
	}

	// Return a copy to prevent external modification
	result := make(map[Kind]*TokenTelemetry, len(t.tokenTelemetry))
	for k, v := range t.tokenTelemetry {
		telemetryCopy := *v
		result[k] = &telemetryCopy
	}
	return result
}

// DebugEvents returns debug events (development only)
func (t *Tokenizer) DebugEvents() []DebugEvent {
	if t.debugLevel == DebugOff || t.debugEvents == nil {
		return nil
	}

	result := make([]DebugEvent, len(t.debugEvents))
	copy(result, t.debugEvents)
	return result
}

func (t *Tokenizer) checkLive() {
	invariant.Precondition(!t.released, "tokenizer used after release")
}

// advance scans the next lookahead token into t.next
func (t *Tokenizer) advance() {
	var start time.Time
	if t.telemetryMode >= TelemetryTiming {
		start = time.Now()
	}

	t.next = t.scan()

	if t.telemetryMode > TelemetryOff {
		var elapsed time.Duration
		if t.telemetryMode >= TelemetryTiming {
			elapsed = time.Since(start)
		}
		t.recordTokenTelemetry(t.next.Kind, elapsed)
	}

	if t.logDebug {
		t.logger.Debug("token",
			"kind", t.next.Kind.String(),
			"lexeme", t.next.String(),
			"pos", t.next.Position.String())
	}
}

// scan performs the actual tokenization work
func (t *Tokenizer) scan() Token {
	if t.debugLevel > DebugOff {
		t.recordDebugEvent("enter_scan", "")
	}

	if t.ended {
		return Token{Kind: END, Lexeme: text.From(""), Position: t.position()}
	}

	t.skipSeparators()
	pos := t.position()

	if !t.src.HasNext() {
		if t.debugLevel > DebugOff {
			t.recordDebugEvent("found_END", "end of input")
		}
		return Token{Kind: END, Lexeme: text.From(""), Position: pos}
	}

	switch ch := t.src.Peek(); {
	case ch == pipeChar:
		t.src.Next()
		return t.emit(Token{Kind: PIPE, Lexeme: text.From("|"), Position: pos})
	case ch == nulChar:
		// Sources do not yield NUL as data; treat it as end of input if one does.
		t.src.Next()
		t.ended = true
		return t.emit(Token{Kind: END, Lexeme: text.From(""), Position: pos})
	default:
		return t.emit(t.scanWord(pos))
	}
}

// scanWord consumes a maximal run of word bytes.
func (t *Tokenizer) scanWord(pos Position) Token {
	lexeme := text.New(1)
	for t.src.HasNext() && isWordByte[t.src.Peek()] {
		ch := t.src.Next()
		lexeme.AppendByte(ch)
		if t.debugLevel >= DebugDetailed {
			t.recordDebugEvent("word_byte", string(ch))
		}
	}

	invariant.Postcondition(lexeme.Len() > 0, "word token must not be empty at %s", pos)
	return Token{Kind: WORD, Lexeme: lexeme, Position: pos}
}

func (t *Tokenizer) skipSeparators() {
	for t.src.HasNext() && isSeparator[t.src.Peek()] {
		ch := t.src.Next()
		if t.debugLevel >= DebugDetailed {
			t.recordDebugEvent("skip_separator", string(ch))
		}
	}
}

func (t *Tokenizer) emit(tok Token) Token {
	if t.debugLevel > DebugOff {
		t.recordDebugEvent("emit_"+tok.Kind.String(), tok.String())
	}
	return tok
}

func (t *Tokenizer) position() Position {
	if t.pos == nil {
		return Position{}
	}
	return Position{Line: t.pos.Line(), Column: t.pos.Column(), Offset: t.pos.Offset()}
}

// recordTokenTelemetry records per-kind telemetry (production safe)
func (t *Tokenizer) recordTokenTelemetry(kind Kind, elapsed time.Duration) {
	telemetry, exists := t.tokenTelemetry[kind]
	if !exists {
		telemetry = &TokenTelemetry{
			Kind:    kind,
			MinTime: elapsed,
			MaxTime: elapsed,
		}
		t.tokenTelemetry[kind] = telemetry
	}

	telemetry.Count++

	if t.telemetryMode >= TelemetryTiming {
		telemetry.TotalTime += elapsed
		telemetry.AvgTime = telemetry.TotalTime / time.Duration(telemetry.Count)

		if elapsed < telemetry.MinTime || telemetry.Count == 1 {
			telemetry.MinTime = elapsed
		}
		if elapsed > telemetry.MaxTime || telemetry.Count == 1 {
			telemetry.MaxTime = elapsed
		}
	}
}

// recordDebugEvent records debug events when debug tracing is enabled
func (t *Tokenizer) recordDebugEvent(event, context string) {
	if t.debugLevel == DebugOff || t.debugEvents == nil {
		return
	}

	t.debugEvents = append(t.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Position:  t.position(),
		Context:   context,
	})
}
