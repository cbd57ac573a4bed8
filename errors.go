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

import "fmt"

// ErrorKind classifies a CompileError, the error Compile and CompileJSON
// return; NewMask returns the regexp package's own error. Evaluate is total.
type ErrorKind int

const (
	// ErrGrammar means the template did not parse.
	ErrGrammar ErrorKind = iota
	// ErrUnknownDirective means a directive name isn't in the catalog.
	ErrUnknownDirective
	// ErrBadLengthSpec means a ":N" length cap wasn't a decimal integer.
	ErrBadLengthSpec
	// ErrIllegalTimePattern means a START_TIME pattern would emit a literal newline.
	ErrIllegalTimePattern
	// ErrTooManyFallbacks means a KEY contained more than one "?".
	ErrTooManyFallbacks
)

func (k ErrorKind) String() string {
	switch k {
	case ErrGrammar:
		return "grammar error"
	case ErrUnknownDirective:
		return "unknown directive"
	case ErrBadLengthSpec:
		return "bad length spec"
	case ErrIllegalTimePattern:
		return "illegal time pattern"
	case ErrTooManyFallbacks:
		return "too many fallbacks"
	default:
		return "compile error"
	}
}

// CompileError is returned by Compile and CompileJSON. It never occurs on
// the per-request evaluation path: compile errors abort configuration
// loading of the surrounding proxy, they never appear mid-traffic.
type CompileError struct {
	Kind     ErrorKind
	Message  string
	Position int // byte offset into the format string, -1 if not applicable
}

func (e *CompileError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func grammarErr(pos int, msg string) *CompileError {
	if msg == "" {
		msg = "Could not parse"
	}
	return &CompileError{Kind: ErrGrammar, Message: msg, Position: pos}
}

func unknownDirectiveErr(pos int, name string) *CompileError {
	return &CompileError{Kind: ErrUnknownDirective, Message: fmt.Sprintf("not supported field: %s", name), Position: pos}
}

func badLengthErr(pos int, text string) *CompileError {
	return &CompileError{Kind: ErrBadLengthSpec, Message: fmt.Sprintf("length must be an integer, given: %s", text), Position: pos}
}

func illegalTimePatternErr(pos int) *CompileError {
	return &CompileError{Kind: ErrIllegalTimePattern, Message: "format string contains a newline-producing strftime directive", Position: pos}
}

func tooManyFallbacksErr(pos int) *CompileError {
	return &CompileError{Kind: ErrTooManyFallbacks, Message: "key contains more than one '?'", Position: pos}
}
