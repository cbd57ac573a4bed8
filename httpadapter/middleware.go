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

package httpadapter

import (
	"net/http"
	"time"

	"github.com/edgeproxylabs/accesslog"
)

// LineTemplate is whatever Evaluate accepts: *accesslog.FormatTemplate or
// *accesslog.JsonTemplate, anything with a single-line Evaluate method.
type LineTemplate interface {
	Evaluate(accesslog.Context) string
}

// Sink receives one finished, masked log line per request.
type Sink func(line string)

// Middleware builds net/http middleware that times a request, stamps a
// request ID when one isn't already present, evaluates tmpl once the
// handler chain finishes, runs the result through masks, and hands the
// line to sink. This mirrors caddyhttp/log.Logger.ServeHTTP: wrap the
// response, call the next handler, then render and emit exactly one log
// line per request — never sooner, so RESPONSE_CODE/BYTES_SENT reflect
// what was actually written.
func Middleware(tmpl LineTemplate, masks *accesslog.MaskPipeline, sink Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			StampRequestID(r)
			rec := NewResponseRecorder(w)
			start := time.Now()

			// Emit from a defer, the same shape as httpserver.Server.ServeHTTP's
			// top-level recover, so a panicking handler still produces a log
			// line (whatever status/bytes rec observed before the panic)
			// instead of vanishing silently. Re-panic so an outer recoverer
			// still sees and handles the panic.
			defer func() {
				line := Evaluate(tmpl, r, rec, start)
				sink(masks.Apply(line))
				if p := recover(); p != nil {
					panic(p)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
