// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cell splits the raw text of a %flux line or %%flux cell into an
// optional connection descriptor, an optional result variable and the Flux
// payload.
//
//	http://localhost:8086 cpu << from(bucket: "b") |> range(start: -1h)
//	^ descriptor          ^ result variable  ^ payload
package cell

import (
	"os"
	"regexp"
	"strings"
	"unicode"
)

// maxTokens bounds the split: descriptor, variable, "<<" and the remainder.
const maxTokens = 4

var reEnvRef = regexp.MustCompile(`\$(\{[A-Za-z_][A-Za-z0-9_]*\}|[A-Za-z_][A-Za-z0-9_]*)`)

// Parsed is the result of splitting a cell.
type Parsed struct {
	// Connection is the descriptor of the connection to use, "" for current.
	Connection string
	// ResultVar names the variable that receives the result, "" for none.
	ResultVar string
	// Flux is the query text, trimmed.
	Flux string
}

// Split parses text, expanding environment references in the descriptor
// from the process environment.
func Split(text string) Parsed {
	return SplitWithEnv(text, os.LookupEnv)
}

// SplitWithEnv is Split with an explicit environment lookup.
func SplitWithEnv(text string, lookup func(string) (string, bool)) Parsed {
	var p Parsed

	pieces := fields(text, maxTokens)
	if len(pieces) == 0 {
		return p
	}

	if first := expand(pieces[0].text, lookup); IsDescriptor(first) {
		p.Connection = first
		pieces = pieces[1:]
	}
	if len(pieces) > 1 && pieces[1].text == "<<" {
		p.ResultVar = pieces[0].text
		pieces = pieces[2:]
	}
	if len(pieces) > 0 {
		// Slice the original text so line breaks between tokens survive.
		p.Flux = strings.TrimSpace(text[pieces[0].start:])
	}
	return p
}

// IsDescriptor reports whether a token names a connection rather than
// starting the query: a URL or a rough "host@org" form.
func IsDescriptor(token string) bool {
	return strings.Contains(token, "://") || strings.Contains(token, "@")
}

type token struct {
	text  string
	start int
}

// fields splits s on runs of whitespace into at most n tokens. The last token
// keeps its internal whitespace and newlines.
func fields(s string, n int) []token {
	var out []token
	pos := 0
	skip := func() {
		rest := strings.TrimLeftFunc(s[pos:], unicode.IsSpace)
		pos = len(s) - len(rest)
	}
	skip()
	for pos < len(s) {
		if len(out) == n-1 {
			out = append(out, token{text: s[pos:], start: pos})
			break
		}
		i := strings.IndexFunc(s[pos:], unicode.IsSpace)
		if i < 0 {
			out = append(out, token{text: s[pos:], start: pos})
			break
		}
		out = append(out, token{text: s[pos : pos+i], start: pos})
		pos += i
		skip()
	}
	return out
}

// expand replaces $VAR and ${VAR} with their values; unset variables are
// left as written.
func expand(s string, lookup func(string) (string, bool)) string {
	if lookup == nil || !strings.Contains(s, "$") {
		return s
	}
	return reEnvRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.Trim(ref[1:], "{}")
		if v, ok := lookup(name); ok {
			return v
		}
		return ref
	})
}
