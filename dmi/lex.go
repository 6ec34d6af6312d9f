package dmi

import (
	"strings"
)

// token is a single lexeme of a description.
type token struct {
	text string
	line int
	eof  bool
}

func (t token) String() string {
	if t.eof {
		return "EOF"
	}
	return t.text
}

// lexer splits a description into tokens.
//
// Tokens are separated by whitespace. '=' and ',' always form tokens of
// their own, so "delay = 1,2" and "delay=1 , 2" lex the same. A token that
// starts with '"' runs up to and including the next '"', spaces and all.
type lexer struct {
	src  string
	pos  int
	line int

	peeked *token
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

// next returns the next token, or a token with eof set at the end.
func (l *lexer) next() token {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t
	}
	return l.scan()
}

func (l *lexer) peek() token {
	if l.peeked == nil {
		t := l.scan()
		l.peeked = &t
	}
	return *l.peeked
}

func (l *lexer) scan() token {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\n' {
			l.line++
		}
		if !isSpace(c) {
			break
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{line: l.line, eof: true}
	}

	start, line := l.pos, l.line
	switch l.src[l.pos] {
	case '=', ',':
		l.pos++
	case '"':
		end := strings.IndexByte(l.src[l.pos+1:], '"')
		if end < 0 {
			l.pos = len(l.src)
		} else {
			l.pos += end + 2
		}
		l.line += strings.Count(l.src[start:l.pos], "\n")
	default:
		for l.pos < len(l.src) {
			c := l.src[l.pos]
			if c == '=' || c == ',' || isSpace(c) {
				break
			}
			l.pos++
		}
	}
	return token{text: l.src[start:l.pos], line: line}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
