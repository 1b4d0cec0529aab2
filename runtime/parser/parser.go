// Package parser builds pipeline ASTs from a token stream.
//
// Grammar (recursive descent, no backtracking):
//
//	pipeline := command ( PIPE command )*    -- right-associated
//	command  := WORD*
//
// Grammar errors are values: a parse that cannot begin returns a single
// *ast.ErrorNode in place of a pipeline. There is no recovery and at most one
// error per recursive parse.
package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aledsdavies/pipeparse/core/ast"
	"github.com/aledsdavies/pipeparse/core/invariant"
	"github.com/aledsdavies/pipeparse/core/text"
	"github.com/aledsdavies/pipeparse/runtime/lexer"
	"github.com/aledsdavies/pipeparse/runtime/source"
)

// Result is the output of ParseString and ParseSource.
type Result struct {
	Root        ast.Node
	Telemetry   *ParseTelemetry // nil unless telemetry is enabled
	DebugEvents []DebugEvent    // nil unless debug tracing is enabled

	// Per-kind tokenizer telemetry, when enabled through WithLexerOpts
	TokenTelemetry map[lexer.Kind]*lexer.TokenTelemetry
}

// Parse consumes tokens from tok and returns the pipeline AST.
// The tokenizer is borrowed; the caller still releases it.
func Parse(tok *lexer.Tokenizer, opts ...Opt) ast.Node {
	root, _, _ := run(tok, newConfig(opts))
	return root
}

// ParseSource tokenizes and parses src, releasing the tokenizer afterwards.
func ParseSource(src source.CharSource, opts ...Opt) *Result {
	config := newConfig(opts)

	var startTotal time.Time
	if config.telemetry >= TelemetryTiming {
		startTotal = time.Now()
	}

	lexOpts := append([]lexer.Opt{lexer.WithLogger(config.logger)}, config.lexerOpts...)
	tok := lexer.New(src, lexOpts...)
	defer tok.Release()

	root, telemetry, events := run(tok, config)
	if telemetry != nil && config.telemetry >= TelemetryTiming {
		telemetry.TotalTime = time.Since(startTotal)
	}

	return &Result{
		Root:           root,
		Telemetry:      telemetry,
		DebugEvents:    events,
		TokenTelemetry: tok.Telemetry(),
	}
}

// ParseString is a convenience wrapper over ParseSource.
func ParseString(input string, opts ...Opt) *Result {
	return ParseSource(source.NewString(input), opts...)
}

func newConfig(opts []Opt) *Config {
	config := &Config{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return config
}

func run(tok *lexer.Tokenizer, config *Config) (ast.Node, *ParseTelemetry, []DebugEvent) {
	invariant.NotNil(tok, "tokenizer")

	p := &parser{
		tok:      tok,
		config:   config,
		logDebug: config.logger.Enabled(context.Background(), slog.LevelDebug),
	}
	if config.telemetry >= TelemetryBasic {
		p.telemetry = &ParseTelemetry{}
	}
	if config.debug > DebugOff {
		p.debugEvents = make([]DebugEvent, 0, 16)
	}

	var start time.Time
	if config.telemetry >= TelemetryTiming {
		start = time.Now()
	}

	root := p.pipeline()

	if config.telemetry >= TelemetryTiming {
		p.telemetry.ParseTime = time.Since(start)
		p.telemetry.TotalTime = p.telemetry.ParseTime
	}

	return root, p.telemetry, p.debugEvents
}

// parser is the internal parser state
type parser struct {
	tok         *lexer.Tokenizer
	config      *Config
	telemetry   *ParseTelemetry
	debugEvents []DebugEvent
	logDebug    bool // logger accepts Debug records
}

// pipeline parses command ( PIPE pipeline )?
func (p *parser) pipeline() ast.Node {
	if p.config.debug > DebugOff {
		p.recordDebugEvent("enter_pipeline", "")
	}

	if !p.tok.HasNext() {
		return p.errorNode(ast.MsgEndOfStream)
	}
	if p.tok.Peek().Kind != lexer.WORD {
		return p.errorNode(ast.MsgExpectedWord)
	}

	left := p.command()
	if !p.tok.HasNext() || p.tok.Peek().Kind != lexer.PIPE {
		return left
	}

	// The pipe lexeme is not kept in the tree
	p.tok.Next().Release()

	right := p.pipeline()
	node := ast.NewPipe(left, right)
	if p.telemetry != nil {
		p.telemetry.PipeCount++
	}
	if p.logDebug {
		p.config.logger.Debug("pipe", "pos", node.Pos.String())
	}
	return node
}

// command collects consecutive WORD lexemes; zero words is valid.
func (p *parser) command() *ast.CommandNode {
	if p.config.debug > DebugOff {
		p.recordDebugEvent("enter_command", "")
	}

	pos := toASTPosition(p.tok.Peek().Position)
	words := text.NewWordList(1)
	for p.tok.HasNext() && p.tok.Peek().Kind == lexer.WORD {
		word := p.tok.Next()
		if p.config.debug >= DebugDetailed {
			p.recordDebugEvent("word", word.String())
		}
		words.Push(word.Lexeme)
	}

	node := ast.NewCommand(words)
	node.Pos = pos
	if p.telemetry != nil {
		p.telemetry.CommandCount++
		p.telemetry.WordCount += words.Len()
	}
	if p.logDebug {
		p.config.logger.Debug("command", "words", words.Len(), "pos", pos.String())
	}

	if p.config.debug > DebugOff {
		p.recordDebugEvent("exit_command", fmt.Sprintf("words=%d", words.Len()))
	}
	return node
}

func (p *parser) errorNode(message string) *ast.ErrorNode {
	node := ast.NewError(message)
	node.Pos = toASTPosition(p.tok.Peek().Position)
	if p.telemetry != nil {
		p.telemetry.ErrorCount++
	}
	if p.logDebug {
		p.config.logger.Debug("parse error", "message", message, "pos", node.Pos.String())
	}
	return node
}

// recordDebugEvent records debug events when debug tracing is enabled
func (p *parser) recordDebugEvent(event, context string) {
	if p.config.debug == DebugOff || p.debugEvents == nil {
		return
	}

	p.debugEvents = append(p.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Position:  p.tok.Peek().Position,
		Context:   context,
	})
}

func toASTPosition(pos lexer.Position) ast.Position {
	return ast.Position{Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
}
