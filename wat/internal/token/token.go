package token

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/wippyai/zod/errors"
)

type Type int

const (
	LParen Type = iota
	RParen
	Ident
	String
	Number
)

func (t Type) String() string {
	switch t {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	}
	return "unknown"
}

type Token struct {
	Value string
	Type  Type
	Line  int
}

// Tokenize splits WAT source into tokens. String values are unescaped.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	line := 1
	runes := []rune(input)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			line++
			continue
		}
		if unicode.IsSpace(r) {
			continue
		}

		// Line comment
		if r == ';' && i+1 < len(runes) && runes[i+1] == ';' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			line++
			continue
		}

		// Block comment or left paren
		if r == '(' {
			if i+1 < len(runes) && runes[i+1] == ';' {
				start := line
				depth := 1
				i += 2
				for i < len(runes) && depth > 0 {
					if runes[i] == '(' && i+1 < len(runes) && runes[i+1] == ';' {
						depth++
						i++
					} else if runes[i] == ';' && i+1 < len(runes) && runes[i+1] == ')' {
						depth--
						i++
					} else if runes[i] == '\n' {
						line++
					}
					i++
				}
				if depth > 0 {
					return nil, errors.ParseFailed(start, "unterminated block comment")
				}
				i--
				continue
			}
			tokens = append(tokens, Token{"(", LParen, line})
			continue
		}

		if r == ')' {
			tokens = append(tokens, Token{")", RParen, line})
			continue
		}

		// String literal
		if r == '"' {
			var b strings.Builder
			i++
			for ; i < len(runes) && runes[i] != '"'; i++ {
				if runes[i] == '\n' {
					return nil, errors.ParseFailed(line, "newline in string literal")
				}
				if runes[i] != '\\' {
					b.WriteRune(runes[i])
					continue
				}
				n, ok := unescape(runes[i+1:], &b)
				if !ok {
					return nil, errors.ParseFailed(line, "invalid escape sequence in string literal")
				}
				i += n
			}
			if i >= len(runes) {
				return nil, errors.ParseFailed(line, "unterminated string literal")
			}
			tokens = append(tokens, Token{b.String(), String, line})
			continue
		}

		// Integer, optionally signed, hex, or with _ separators
		if r == '-' || r == '+' || unicode.IsDigit(r) {
			start := i
			if r == '-' || r == '+' {
				i++
			}
			for i < len(runes) {
				c := runes[i]
				if unicode.IsDigit(c) || c == 'x' || c == 'X' || c == '_' ||
					(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
					i++
				} else {
					break
				}
			}
			tokens = append(tokens, Token{string(runes[start:i]), Number, line})
			i--
			continue
		}

		// Identifier ($names and keywords)
		if r == '$' || unicode.IsLetter(r) || r == '_' {
			start := i
			for i < len(runes) {
				c := runes[i]
				if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.' || c == '$' || c == '-' {
					i++
				} else {
					break
				}
			}
			tokens = append(tokens, Token{string(runes[start:i]), Ident, line})
			i--
			continue
		}

		return nil, errors.ParseFailed(line, "unexpected character %q", r)
	}

	return tokens, nil
}

// unescape decodes the escape sequence following a backslash and returns
// the number of runes it consumed.
func unescape(rest []rune, b *strings.Builder) (int, bool) {
	if len(rest) == 0 {
		return 0, false
	}
	switch rest[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '"', '\'', '\\':
		b.WriteRune(rest[0])
	default:
		if len(rest) < 2 {
			return 0, false
		}
		v, err := strconv.ParseUint(string(rest[:2]), 16, 8)
		if err != nil {
			return 0, false
		}
		b.WriteByte(byte(v))
		return 2, true
	}
	return 1, true
}
