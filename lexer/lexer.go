// Package lexer turns Lox source text into a token stream, grounded on
// sam-decook-lox's byte-cursor scanner (Scanner.next/peek/peekTwo).
package lexer

import (
	"strconv"

	"github.com/sdecook/glox/loxerr"
	"github.com/sdecook/glox/token"
)

// Scanner consumes source bytes and produces tokens, accumulating scan
// errors rather than stopping at the first one so later errors are still
// reported.
type Scanner struct {
	source []byte
	line   int
	idx    int  // index of the current character, -1 before the first next()
	ch     byte // current character
	errors []*loxerr.Signal
}

// New creates a Scanner over source.
func New(source []byte) *Scanner {
	return &Scanner{source: source, line: 1, idx: -1}
}

// Scan runs the scanner to completion, returning the token stream
// (terminated by an EOF token) and any accumulated scan errors.
func (s *Scanner) Scan() ([]token.Token, []*loxerr.Signal) {
	toks := make([]token.Token, 0, len(s.source)+1)

	for s.next() {
		switch s.ch {
		case ' ', '\t', '\r':
			// skip whitespace
		case '\n':
			s.line++
		case '(':
			toks = append(toks, s.simple(token.LeftParen))
		case ')':
			toks = append(toks, s.simple(token.RightParen))
		case '{':
			toks = append(toks, s.simple(token.LeftBrace))
		case '}':
			toks = append(toks, s.simple(token.RightBrace))
		case ',':
			toks = append(toks, s.simple(token.Comma))
		case '.':
			toks = append(toks, s.simple(token.Dot))
		case '-':
			toks = append(toks, s.simple(token.Minus))
		case '+':
			toks = append(toks, s.simple(token.Plus))
		case ';':
			toks = append(toks, s.simple(token.Semicolon))
		case '*':
			toks = append(toks, s.simple(token.Star))
		case '/':
			if s.peek() == '/' {
				s.lineComment()
			} else {
				toks = append(toks, s.simple(token.Slash))
			}
		case '=':
			toks = append(toks, s.oneOrTwo('=', token.Equal, token.EqualEqual))
		case '!':
			toks = append(toks, s.oneOrTwo('=', token.Bang, token.BangEqual))
		case '<':
			toks = append(toks, s.oneOrTwo('=', token.Less, token.LessEqual))
		case '>':
			toks = append(toks, s.oneOrTwo('=', token.Greater, token.GreaterEqual))
		case '"':
			if tok, ok := s.stringLiteral(); ok {
				toks = append(toks, tok)
			}
		default:
			switch {
			case isDigit(s.ch):
				toks = append(toks, s.numberLiteral())
			case isAlpha(s.ch):
				toks = append(toks, s.identifier())
			default:
				s.errorf("Unexpected character: " + string(s.ch))
			}
		}
	}

	toks = append(toks, token.Token{Type: token.EOF, Line: s.line})
	return toks, s.errors
}

func (s *Scanner) simple(typ token.Type) token.Token {
	return token.Token{Type: typ, Lexeme: string(s.ch), Line: s.line}
}

// oneOrTwo consumes `second` if it follows the current char, producing a
// two-char token, else a one-char token.
func (s *Scanner) oneOrTwo(second byte, one, two token.Type) token.Token {
	if s.peek() == second {
		ch := s.ch
		s.next()
		return token.Token{Type: two, Lexeme: string(ch) + string(second), Line: s.line}
	}
	return s.simple(one)
}

func (s *Scanner) next() bool {
	if s.idx == len(s.source)-1 {
		return false
	}
	s.idx++
	s.ch = s.source[s.idx]
	return true
}

func (s *Scanner) peek() byte {
	if s.idx == len(s.source)-1 {
		return 0
	}
	return s.source[s.idx+1]
}

func (s *Scanner) peekTwo() byte {
	if s.idx >= len(s.source)-2 {
		return 0
	}
	return s.source[s.idx+2]
}

func (s *Scanner) lineComment() {
	for s.peek() != 0 && s.peek() != '\n' {
		s.next()
	}
}

func (s *Scanner) stringLiteral() (token.Token, bool) {
	start := s.idx
	startLine := s.line

	for {
		if !s.next() {
			s.errorf("Unterminated string.")
			return token.Token{}, false
		}
		if s.ch == '"' {
			break
		}
		if s.ch == '\n' {
			s.line++
		}
	}

	lexeme := string(s.source[start : s.idx+1])
	literal := lexeme[1 : len(lexeme)-1]
	return token.Token{Type: token.String, Lexeme: lexeme, Literal: literal, Line: startLine}, true
}

func (s *Scanner) numberLiteral() token.Token {
	start := s.idx

	for isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' && isDigit(s.peekTwo()) {
		s.next()
		for isDigit(s.peek()) {
			s.next()
		}
	}

	lexeme := string(s.source[start : s.idx+1])
	f, _ := strconv.ParseFloat(lexeme, 64)
	return token.Token{Type: token.Number, Lexeme: lexeme, Literal: f, Line: s.line}
}

func (s *Scanner) identifier() token.Token {
	start := s.idx
	for isAlphaNumeric(s.peek()) {
		s.next()
	}
	text := string(s.source[start : s.idx+1])
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Type: kw, Lexeme: text, Line: s.line}
	}
	return token.Token{Type: token.Identifier, Lexeme: text, Line: s.line}
}

func (s *Scanner) errorf(msg string) {
	s.errors = append(s.errors, loxerr.NewScanError(s.line, msg))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
