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

// Context is the read-only, per-request bundle of inputs the formatter
// evaluates a compiled template against. It is borrowed for the duration of
// one evaluation and never retained; nothing in this package stores a
// Context beyond a single Evaluate call.
type Context struct {
	RequestHeaders   Headers
	ResponseHeaders  Headers
	ResponseTrailers Headers
	StreamInfo       StreamInfo
}

// HeaderMap is a map-backed Headers implementation good enough for tests,
// demos, and simple callers. Lookup is case-insensitive, same as
// net/http.Header, but without requiring canonical MIME casing on writes.
type HeaderMap map[string]string

// Get implements Headers.
func (h HeaderMap) Get(name string) (string, bool) {
	for k, v := range h {
		if equalFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
