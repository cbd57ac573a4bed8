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
	"strings"
	"testing"
	"time"
)

func emptyContext() Context {
	return Context{
		RequestHeaders:   HeaderMap{},
		ResponseHeaders:  HeaderMap{},
		ResponseTrailers: HeaderMap{},
		StreamInfo:       &StaticStreamInfo{},
	}
}

func TestCompilePlainText(t *testing.T) {
	tmpl, err := Compile("plain text, no directives here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := tmpl.Evaluate(emptyContext())
	if got != "plain text, no directives here" {
		t.Errorf("got %q", got)
	}
}

func TestCompileBareDirectiveMissingData(t *testing.T) {
	tmpl, err := Compile("%PROTOCOL% %UPSTREAM_HOST%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := tmpl.Evaluate(emptyContext())
	if got != "- -" {
		t.Errorf("expected sentinel for absent fields, got %q", got)
	}
}

func TestCompileUnknownDirective(t *testing.T) {
	_, err := Compile("%NOT_A_REAL_DIRECTIVE%")
	if err == nil {
		t.Fatal("expected an error for an unknown directive")
	}
	ce, ok := err.(*CompileError)
	if !ok {
		t.Fatalf("expected *CompileError, got %T", err)
	}
	if ce.Kind != ErrUnknownDirective {
		t.Errorf("got kind %v", ce.Kind)
	}
}

func TestCompileRejectsUnterminatedPercent(t *testing.T) {
	_, err := Compile("abc%")
	if err == nil {
		t.Fatal("expected a grammar error")
	}
}

func TestCompileRejectsUnterminatedParen(t *testing.T) {
	_, err := Compile("%REQ(X-Foo%")
	if err == nil {
		t.Fatal("expected a grammar error")
	}
}

func TestCompileRejectsBadLengthSpec(t *testing.T) {
	_, err := Compile("%REQ(X-Foo):abc%")
	if err == nil {
		t.Fatal("expected a bad-length-spec error")
	}
	ce := err.(*CompileError)
	if ce.Kind != ErrBadLengthSpec {
		t.Errorf("got kind %v", ce.Kind)
	}
}

func TestCompileRejectsTooManyFallbacks(t *testing.T) {
	_, err := Compile("%REQ(X-Foo?X-Bar?X-Baz)%")
	if err == nil {
		t.Fatal("expected a too-many-fallbacks error")
	}
	ce := err.(*CompileError)
	if ce.Kind != ErrTooManyFallbacks {
		t.Errorf("got kind %v", ce.Kind)
	}
}

func TestCompileRejectsIllegalTimePattern(t *testing.T) {
	_, err := Compile("%START_TIME(%n)%")
	if err == nil {
		t.Fatal("expected an illegal-time-pattern error")
	}
	ce := err.(*CompileError)
	if ce.Kind != ErrIllegalTimePattern {
		t.Errorf("got kind %v", ce.Kind)
	}
}

func TestCompileIsIdempotentAndConcurrencySafe(t *testing.T) {
	tmpl, err := Compile("%PROTOCOL% %REQ(X-Foo)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{
		RequestHeaders: HeaderMap{"X-Foo": "bar"},
		StreamInfo:     &StaticStreamInfo{ProtocolValue: "HTTP/1.1"},
	}

	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- tmpl.Evaluate(ctx) }()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != "HTTP/1.1 bar" {
			t.Errorf("concurrent Evaluate mismatch, got %q", got)
		}
	}
}

func TestHeaderFallbackOnAbsent(t *testing.T) {
	tmpl, err := Compile("%REQ(X-Primary?X-Fallback)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{
		RequestHeaders: HeaderMap{"X-Fallback": "fallback-value"},
		StreamInfo:     &StaticStreamInfo{},
	}
	if got := tmpl.Evaluate(ctx); got != "fallback-value" {
		t.Errorf("got %q", got)
	}
}

func TestHeaderFallbackOnEmpty(t *testing.T) {
	tmpl, err := Compile("%REQ(X-Primary?X-Fallback)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{
		RequestHeaders: HeaderMap{"X-Primary": "", "X-Fallback": "fallback-value"},
		StreamInfo:     &StaticStreamInfo{},
	}
	if got := tmpl.Evaluate(ctx); got != "fallback-value" {
		t.Errorf("present-but-empty primary header should still fall back, got %q", got)
	}
}

func TestHeaderNoFallbackRendersSentinel(t *testing.T) {
	tmpl, err := Compile("%REQ(X-Missing)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestHeaderTruncation(t *testing.T) {
	tmpl, err := Compile("%REQ(X-Foo):3%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{RequestHeaders: HeaderMap{"X-Foo": "abcdef"}, StreamInfo: &StaticStreamInfo{}}
	if got := tmpl.Evaluate(ctx); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestTruncationAppliesToSentinelToo(t *testing.T) {
	tmpl, err := Compile("%REQ(X-Missing):1%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != "-" {
		t.Errorf("got %q", got)
	}
}

func TestResponseCodeAbsentRendersZero(t *testing.T) {
	tmpl, err := Compile("%RESPONSE_CODE%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != "0" {
		t.Errorf("RESPONSE_CODE should render 0 when absent, got %q", got)
	}
}

func TestByteCountersNeverSentinel(t *testing.T) {
	tmpl, err := Compile("%BYTES_SENT% %BYTES_RECEIVED%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != "0 0" {
		t.Errorf("got %q", got)
	}
}

func TestDurationTruncatesTowardZero(t *testing.T) {
	tmpl, err := Compile("%DURATION%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DurationValue: 1500*time.Microsecond + 400*time.Nanosecond,
		HasDuration:   true,
	}}
	if got := tmpl.Evaluate(ctx); got != "1" {
		t.Errorf("expected floor(1.5ms) = 1ms, got %q", got)
	}
}

func TestTLSFieldsSentinelWithoutSession(t *testing.T) {
	tmpl, err := Compile("%DOWNSTREAM_TLS_CIPHER% %DOWNSTREAM_PEER_SUBJECT%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != "- -" {
		t.Errorf("got %q", got)
	}
}

func TestTLSFieldsSentinelWhenEmptyButSessionPresent(t *testing.T) {
	tmpl, err := Compile("%DOWNSTREAM_TLS_CIPHER%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{TLSSession_: &StaticTLSSession{}}}
	if got := tmpl.Evaluate(ctx); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestTLSFieldsPopulated(t *testing.T) {
	tmpl, err := Compile("%DOWNSTREAM_TLS_CIPHER%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		TLSSession_: &StaticTLSSession{CipherValue: "TLS_AES_128_GCM_SHA256"},
	}}
	if got := tmpl.Evaluate(ctx); got != "TLS_AES_128_GCM_SHA256" {
		t.Errorf("got %q", got)
	}
}

func TestAddressWithoutPort(t *testing.T) {
	tmpl, err := Compile("%DOWNSTREAM_REMOTE_ADDRESS_WITHOUT_PORT%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{DownstreamRemoteAddr: "10.0.0.1:54321"}}
	if got := tmpl.Evaluate(ctx); got != "10.0.0.1" {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataWholeNamespace(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(envoy.filters)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{
			"envoy.filters": map[string]any{"a": 1.0},
		},
	}}
	got := tmpl.Evaluate(ctx)
	if got != `{"a":1}` {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataPathDescent(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(envoy.filters:nested:leaf)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{
			"envoy.filters": map[string]any{
				"nested": map[string]any{"leaf": "value"},
			},
		},
	}}
	if got := tmpl.Evaluate(ctx); got != `"value"` {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataArrayIndexDescent(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(envoy.filters:items:1)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{
			"envoy.filters": map[string]any{
				"items": []any{"first", "second"},
			},
		},
	}}
	if got := tmpl.Evaluate(ctx); got != `"second"` {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataArrayIndexOutOfRangeSentinel(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(ns:items:5)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{
			"ns": map[string]any{"items": []any{"only"}},
		},
	}}
	if got := tmpl.Evaluate(ctx); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataNonNumericArraySegmentSentinel(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(ns:items:leaf)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{
			"ns": map[string]any{"items": []any{"only"}},
		},
	}}
	if got := tmpl.Evaluate(ctx); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestDynamicMetadataMissingPathSentinel(t *testing.T) {
	tmpl, err := Compile("%DYNAMIC_METADATA(ns:missing)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		DynamicMetadataValue: map[string]any{"ns": map[string]any{}},
	}}
	if got := tmpl.Evaluate(ctx); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestFilterStateAbsentRendersSentinel(t *testing.T) {
	tmpl, err := Compile("%FILTER_STATE(missing)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tmpl.Evaluate(emptyContext()); got != Sentinel {
		t.Errorf("got %q", got)
	}
}

func TestFilterStateSerializes(t *testing.T) {
	tmpl, err := Compile("%FILTER_STATE(key)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		FilterStateValue: map[string]any{"key": map[string]any{"x": "y"}},
	}}
	if got := tmpl.Evaluate(ctx); got != `{"x":"y"}` {
		t.Errorf("got %q", got)
	}
}

func TestStartTimeDefaultFormat(t *testing.T) {
	tmpl, err := Compile("%START_TIME%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	when := time.Date(2024, 3, 5, 12, 30, 45, 123000000, time.UTC)
	ctx := Context{StreamInfo: &StaticStreamInfo{StartTimeValue: when}}
	if got := tmpl.Evaluate(ctx); got != "2024-03-05T12:30:45.123Z" {
		t.Errorf("got %q", got)
	}
}

func TestStartTimeCustomPattern(t *testing.T) {
	tmpl, err := Compile("%START_TIME(%Y-%m-%d)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	when := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	ctx := Context{StreamInfo: &StaticStreamInfo{StartTimeValue: when}}
	if got := tmpl.Evaluate(ctx); got != "2024-03-05" {
		t.Errorf("got %q", got)
	}
}

func TestStartTimeSubsecondExtension(t *testing.T) {
	tmpl, err := Compile("%START_TIME(%3N)%")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	when := time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
	ctx := Context{StreamInfo: &StaticStreamInfo{StartTimeValue: when}}
	if got := tmpl.Evaluate(ctx); got != "123" {
		t.Errorf("got %q", got)
	}
}

func TestOrderPreservedAndImmutable(t *testing.T) {
	tmpl, err := Compile(`[%START_TIME%] "%REQ(:METHOD)%" %RESPONSE_CODE% %BYTES_SENT%` + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{
		RequestHeaders: HeaderMap{":METHOD": "GET"},
		StreamInfo: &StaticStreamInfo{
			StartTimeValue:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			HasResponseCode:   true,
			ResponseCodeValue: 200,
			BytesSentValue:    512,
		},
	}
	first := tmpl.Evaluate(ctx)
	second := tmpl.Evaluate(ctx)
	if first != second {
		t.Errorf("Evaluate is not idempotent across calls: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "[2024-01-01T00:00:00.000Z] \"GET\" 200 512") {
		t.Errorf("unexpected rendering: %q", first)
	}
}

func TestCompileJSONCompilesEveryField(t *testing.T) {
	tmpl, err := CompileJSON(map[string]string{
		"protocol": "%PROTOCOL%",
		"status":   "%RESPONSE_CODE%",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tmpl.Fields()) != 2 {
		t.Errorf("expected 2 fields, got %d", len(tmpl.Fields()))
	}
}

func TestCompileJSONPropagatesFirstError(t *testing.T) {
	_, err := CompileJSON(map[string]string{
		"bad": "%NOT_REAL%",
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}
