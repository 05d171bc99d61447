package engine

import (
	"bytes"
	"strings"
)

// kwPrefix marks keyword names rewritten by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene scripts before they reach zygomys:
//
//  1. Keywords become string literals: :depth -> "__kw_depth".
//  2. Kebab-case identifiers become underscores: select-next -> select_next.
//     zygomys reads a hyphen inside an identifier as subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals are copied through untouched; := is left alone.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	b := []byte(source)
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			end := skipQuoted(b, i)
			out.Write(b[i:end])
			i = end

		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			end := i
			for end < len(b) && b[end] != '\n' {
				end++
			}
			out.Write(b[i:end])
			i = end

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			end := i + 1
			for end < len(b) && isKWChar(b[end]) {
				end++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.Write(b[i+1 : end])
			out.WriteByte('"')
			i = end

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// skipQuoted returns the index just past the literal opening at b[start].
// Double-quoted literals honour backslash escapes; backtick literals do not.
func skipQuoted(b []byte, start int) int {
	quote := b[start]
	i := start + 1
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			i++
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// form is one top-level expression of a preprocessed script.
type form struct {
	line int // 1-based line the form starts on
	text string
}

// splitForms cuts preprocessed source into top-level expressions so each
// one can be run on its own and tied to the line it starts on. Comments
// between forms are dropped. Unbalanced input ends up in the last form.
func splitForms(source string) []form {
	var forms []form
	b := []byte(source)
	line, depth := 1, 0
	start, startLine := -1, 0

	emit := func(end int) {
		forms = append(forms, form{line: startLine, text: string(b[start:end]) + "\n"})
		start = -1
	}
	skip := func(i, end int) int {
		line += bytes.Count(b[i:end], []byte{'\n'})
		return end
	}

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			end := bytes.IndexByte(b[i:], '\n')
			if end < 0 {
				end = len(b) - i
			}
			if start >= 0 && depth == 0 {
				emit(i)
			}
			i += end
			continue

		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := bytes.Index(b[i+2:], []byte("*/"))
			if end < 0 {
				end = len(b)
			} else {
				end += i + 4
			}
			if start >= 0 && depth == 0 {
				emit(i)
			}
			i = skip(i, end)
			continue

		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if start >= 0 && depth == 0 {
				emit(i)
			}
			if c == '\n' {
				line++
			}
			i++
			continue
		}

		if start < 0 {
			start, startLine = i, line
		}
		switch c {
		case '"', '`':
			i = skip(i, skipQuoted(b, i))
			if depth == 0 {
				emit(i)
			}
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth <= 0 {
				depth = 0
				emit(i + 1)
			}
		}
		i++
	}
	if start >= 0 {
		emit(len(b))
	}
	return forms
}
