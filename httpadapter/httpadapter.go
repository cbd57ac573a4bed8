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

// Package httpadapter wires the accesslog Context façade to a real
// net/http request/response pair, the same role caddyhttp/httpserver's
// concrete Replacer implementation plays for replacer.go: a template
// engine that only knows about interfaces gets a real transport-backed
// implementation to evaluate against.
package httpadapter

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/edgeproxylabs/accesslog"
)

// RequestIDHeader is the header StampRequestID stamps a generated
// request ID into when the inbound request doesn't already carry one,
// mirroring caddyhttp/requestid.Handler's uuid.New() fallback.
const RequestIDHeader = "X-Request-Id"

// headerAdapter makes an http.Header satisfy accesslog.Headers without
// copying it into an accesslog.HeaderMap.
type headerAdapter struct{ h http.Header }

func (a headerAdapter) Get(name string) (string, bool) {
	v := a.h.Values(name)
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// ResponseRecorder captures the handful of response attributes the access
// log needs that a plain http.ResponseWriter doesn't expose after the
// fact (status code, bytes written), the same job
// httpserver.NewResponseRecorder does for replacer.go.
type ResponseRecorder struct {
	http.ResponseWriter
	status      int
	bytesSent   uint64
	wroteHeader bool
}

// NewResponseRecorder wraps w so its status code and byte count can be
// read back after the handler chain finishes.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{ResponseWriter: w}
}

func (r *ResponseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *ResponseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.status = http.StatusOK
		r.wroteHeader = true
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytesSent += uint64(n)
	return n, err
}

// requestStreamInfo adapts one HTTP request/response round trip into an
// accesslog.StreamInfo. It is built fresh per request and discarded after
// the access log line is rendered, same lifetime as replacer.go's
// per-request replacer value.
type requestStreamInfo struct {
	req      *http.Request
	rec      *ResponseRecorder
	start    time.Time
	duration time.Duration
}

func (s *requestStreamInfo) Protocol() (string, bool) { return s.req.Proto, s.req.Proto != "" }

// ResponseCode reports the status net/http actually sent. A handler that
// never calls WriteHeader/Write still gets an implicit 200 OK once it
// returns, so the absence of an explicit write is not the same as an
// absent response — unlike the proxy-populated StreamInfo this interface
// otherwise models, there is no round trip through this adapter that ends
// without a real status code.
func (s *requestStreamInfo) ResponseCode() (int, bool) {
	if !s.rec.wroteHeader {
		return http.StatusOK, true
	}
	return s.rec.status, true
}

func (s *requestStreamInfo) ResponseCodeDetails() (string, bool) { return "", false }
func (s *requestStreamInfo) ResponseFlags() string               { return "" }
func (s *requestStreamInfo) BytesReceived() uint64 {
	if s.req.ContentLength < 0 {
		return 0
	}
	return uint64(s.req.ContentLength)
}
func (s *requestStreamInfo) BytesSent() uint64 { return s.rec.bytesSent }

// Duration is the only timing this adapter can measure honestly: the
// wall-clock span around the whole handler chain. It has no visibility
// into a separate upstream leg the way a proxy's StreamInfo does, so the
// sub-durations below report unmeasured (ok=false) rather than faking
// identical values that would make RESPONSE_TX_DURATION's subtraction
// silently collapse to zero.
func (s *requestStreamInfo) Duration() (time.Duration, bool) { return s.duration, true }
func (s *requestStreamInfo) RequestDuration() (time.Duration, bool) {
	return 0, false
}
func (s *requestStreamInfo) ResponseDuration() (time.Duration, bool) {
	return 0, false
}
func (s *requestStreamInfo) LastDownstreamTxByteSent() (time.Duration, bool) {
	return 0, false
}

func (s *requestStreamInfo) UpstreamHost() (string, bool)       { return "", false }
func (s *requestStreamInfo) UpstreamCluster() (string, bool)    { return "", false }
func (s *requestStreamInfo) UpstreamLocalAddress() (string, bool) {
	return "", false
}
func (s *requestStreamInfo) UpstreamTransportFailureReason() (string, bool) {
	return "", false
}

func (s *requestStreamInfo) DownstreamLocalAddress() string { return s.req.Host }
func (s *requestStreamInfo) DownstreamRemoteAddress() string {
	return s.req.RemoteAddr
}
func (s *requestStreamInfo) DownstreamDirectRemoteAddress() string {
	return s.req.RemoteAddr
}

func (s *requestStreamInfo) RequestedServerName() (string, bool) {
	if s.req.TLS == nil {
		return "", false
	}
	return s.req.TLS.ServerName, s.req.TLS.ServerName != ""
}
func (s *requestStreamInfo) RouteName() (string, bool) { return "", false }

func (s *requestStreamInfo) TLS() (accesslog.TLSSession, bool) {
	if s.req.TLS == nil {
		return nil, false
	}
	return tlsConnectionState{s.req.TLS}, true
}

func (s *requestStreamInfo) DynamicMetadata(string) (any, bool) { return nil, false }
func (s *requestStreamInfo) FilterState(string) (any, bool)     { return nil, false }
func (s *requestStreamInfo) StartTime() time.Time               { return s.start }

// Evaluate renders tmpl against one finished HTTP request/response round
// trip. Callers typically call this from deferred middleware logic after
// the handler chain has run, once rec has observed the real status code
// and byte count.
func Evaluate(tmpl interface{ Evaluate(accesslog.Context) string }, req *http.Request, rec *ResponseRecorder, start time.Time) string {
	si := &requestStreamInfo{req: req, rec: rec, start: start, duration: time.Since(start)}
	ctx := accesslog.Context{
		RequestHeaders:  headerAdapter{req.Header},
		ResponseHeaders: headerAdapter{rec.Header()},
		StreamInfo:      si,
	}
	return tmpl.Evaluate(ctx)
}

// StampRequestID ensures req carries an X-Request-Id header, generating
// one via uuid.New() when absent — the same fallback
// caddyhttp/requestid.Handler applies, so %REQ(X-REQUEST-ID)% always
// renders a real value instead of Sentinel.
func StampRequestID(req *http.Request) {
	if req.Header.Get(RequestIDHeader) != "" {
		return
	}
	req.Header.Set(RequestIDHeader, uuid.New().String())
}
