// Copyright 2015 Light Code Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accesslog

import (
	"strconv"
	"strings"
)

// Compile parses a format string (spec.md §4.1's grammar) into an
// immutable FormatTemplate. Every template error surfaces here, as a
// *CompileError; the returned FormatTemplate evaluates any number of times
// without ever erroring again.
//
// This package ships exactly one parser: a hand-written scanner over the
// format string's three productions (plain text, bare directive,
// parameterized directive). The source carries two conflicting parser
// backends (an ANTLR grammar and a yacc-style one); spec.md §9 calls for
// committing to a single abstraction, and the grammar here is small enough
// that a generator buys nothing.
func Compile(format string) (*FormatTemplate, error) {
	directives, err := parseDirectives(format)
	if err != nil {
		return nil, err
	}
	return &FormatTemplate{directives: directives}, nil
}

// CompileJSON compiles a JsonTemplate from a field-name -> format-string
// mapping. It compiles every field before returning, so a config loader
// gets one error for the first broken field rather than partially
// succeeding — mirroring caddyhttp/log/setup.go's logParse building its
// whole rule set before attaching anything.
func CompileJSON(fields map[string]string) (*JsonTemplate, error) {
	names := make([]string, 0, len(fields))
	templates := make(map[string]*FormatTemplate, len(fields))
	for name, format := range fields {
		names = append(names, name)
		tmpl, err := Compile(format)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return &JsonTemplate{names: names, templates: templates}, nil
}

func parseDirectives(format string) ([]directive, error) {
	var out []directive
	i, n := 0, len(format)

	for i < n {
		if format[i] != '%' {
			j := i
			for j < n && format[j] != '%' {
				j++
			}
			out = append(out, plainText(format[i:j]))
			i = j
			continue
		}

		start := i
		i++ // consume '%'
		if i >= n {
			return nil, grammarErr(start, "unterminated '%'")
		}

		nameStart := i
		for i < n && isNameByte(format[i]) {
			i++
		}
		name := format[nameStart:i]
		if name == "" || !isNameStartByte(format[nameStart]) {
			return nil, grammarErr(start, "expected a directive name matching [A-Z_][A-Z0-9_]*")
		}
		if i >= n {
			return nil, grammarErr(start, "unterminated directive")
		}

		switch format[i] {
		case '%':
			i++ // consume closing '%'
			d, err := resolveBare(start, name)
			if err != nil {
				return nil, err
			}
			out = append(out, d)

		case '(':
			i++ // consume '('
			keyStart := i
			for i < n && format[i] != ')' {
				i++
			}
			if i >= n {
				return nil, grammarErr(start, "unterminated '(' — missing ')'")
			}
			key := format[keyStart:i]
			i++ // consume ')'

			hasCap := false
			capStr := ""
			if i < n && format[i] == ':' {
				hasCap = true
				i++
				capStart := i
				for i < n && format[i] != '%' {
					i++
				}
				capStr = format[capStart:i]
			}

			if i >= n || format[i] != '%' {
				return nil, grammarErr(start, "unterminated directive")
			}
			i++ // consume trailing '%'

			d, err := resolveParam(start, name, key, capStr, hasCap)
			if err != nil {
				return nil, err
			}
			out = append(out, d)

		default:
			return nil, grammarErr(start, "expected '%' or '(' after directive name")
		}
	}

	return out, nil
}

func isNameStartByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || b == '_'
}

func isNameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

func resolveBare(pos int, name string) (directive, error) {
	if name == "START_TIME" {
		return paramDirective{family: famStartTime}, nil
	}
	fn, ok := bareCatalog[name]
	if !ok {
		return nil, unknownDirectiveErr(pos, name)
	}
	return bareDirective{name: name, fn: fn}, nil
}

var paramFamilies = map[string]paramFamily{
	"REQ":     famREQ,
	"RESP":    famRESP,
	"TRAILER": famTRAILER,
}

func resolveParam(pos int, funcName, key, capStr string, hasCap bool) (directive, error) {
	if strings.ContainsRune(key, '\n') {
		return nil, grammarErr(pos, "key contains an embedded newline")
	}

	var capN int
	if hasCap {
		n, err := strconv.Atoi(capStr)
		if err != nil || n < 0 {
			return nil, badLengthErr(pos, capStr)
		}
		capN = n
	}

	switch funcName {
	case "REQ", "RESP", "TRAILER":
		if strings.Count(key, "?") > 1 {
			return nil, tooManyFallbacksErr(pos)
		}
		main, alt := splitFallbackKey(key)
		return paramDirective{family: paramFamilies[funcName], main: main, alt: alt, cap: capN, hasCap: hasCap}, nil

	case "DYNAMIC_METADATA":
		ns, path := splitDynamicMetadataKey(key)
		return paramDirective{family: famDynamicMetadata, metaNamespace: ns, metaPath: path, cap: capN, hasCap: hasCap}, nil

	case "FILTER_STATE":
		return paramDirective{family: famFilterState, filterKey: key, cap: capN, hasCap: hasCap}, nil

	case "START_TIME":
		if hasCap {
			return nil, grammarErr(pos, "START_TIME does not accept a length cap")
		}
		if containsNewlinePattern(key) {
			return nil, illegalTimePatternErr(pos)
		}
		return paramDirective{family: famStartTime, timePattern: key}, nil

	default:
		return nil, unknownDirectiveErr(pos, funcName)
	}
}

// splitFallbackKey splits "A?B" into primary and alternate header keys. A
// key with no "?" has no alternate.
func splitFallbackKey(key string) (main, alt string) {
	if idx := strings.IndexByte(key, '?'); idx >= 0 {
		return key[:idx], key[idx+1:]
	}
	return key, ""
}
