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

// Package accesslog compiles access-log format templates and evaluates
// them against a per-request Context to produce one finished log line.
package accesslog

import "time"

// Sentinel is rendered whenever a directive's backing value is unavailable.
const Sentinel = "-"

// Headers is a narrow, read-only capability over a header (or trailer) map.
// Lookup is case-insensitive on the header name, as HTTP requires; the
// returned value is verbatim. ok reports whether the name was present at
// all, distinct from the value being empty.
type Headers interface {
	Get(name string) (value string, ok bool)
}

// TLSSession exposes the downstream TLS connection's attributes. A
// plaintext connection has no TLSSession; StreamInfo.TLS returns ok=false
// for it.
type TLSSession interface {
	PeerURISAN() []string
	LocalURISAN() []string
	PeerSubject() string
	LocalSubject() string
	SessionID() string
	Cipher() string
	Version() string
	PeerFingerprint256() string
	PeerSerial() string
	PeerIssuer() string
	// PeerCertPEM returns the URL-encoded PEM of the peer certificate.
	PeerCertPEM() string
	PeerCertValidFrom() (time.Time, bool)
	PeerCertValidTo() (time.Time, bool)
}

// StreamInfo is the proxy's per-request metadata bundle: timings, byte
// counts, protocol, addresses, response code, upstream host, TLS session,
// dynamic metadata, filter state, route name, and SNI. It is populated by
// the surrounding proxy and stays opaque to the formatter beyond this
// interface — the Context façade spec.md §2 calls for.
//
// Every optional getter follows the same shape: (value, ok), with ok=false
// rendering as Sentinel. Byte counts are not optional: they have no ok flag
// and a zero count renders as "0". DURATION is optional like the other
// timings: a duration the proxy never measured renders Sentinel.
type StreamInfo interface {
	Protocol() (string, bool)
	ResponseCode() (int, bool)
	ResponseCodeDetails() (string, bool)
	ResponseFlags() string
	BytesReceived() uint64
	BytesSent() uint64

	// Duration is the total request duration (DURATION).
	Duration() (time.Duration, bool)
	// RequestDuration is time from request start to last downstream byte received.
	RequestDuration() (time.Duration, bool)
	// ResponseDuration is time from request start to first upstream byte received.
	ResponseDuration() (time.Duration, bool)
	// LastDownstreamTxByteSent is used together with ResponseDuration to
	// compute RESPONSE_TX_DURATION.
	LastDownstreamTxByteSent() (time.Duration, bool)

	UpstreamHost() (string, bool)
	UpstreamCluster() (string, bool)
	UpstreamLocalAddress() (string, bool)
	UpstreamTransportFailureReason() (string, bool)

	// Downstream addresses include the port; the *_WITHOUT_PORT directives
	// strip it with net.SplitHostPort (addressWithoutPort in directives.go).
	DownstreamLocalAddress() string
	DownstreamRemoteAddress() string
	DownstreamDirectRemoteAddress() string

	RequestedServerName() (string, bool)
	RouteName() (string, bool)

	TLS() (TLSSession, bool)

	// DynamicMetadata returns the full structured payload for a filter
	// namespace (e.g. a nested map[string]any / []any / scalar tree).
	DynamicMetadata(namespace string) (any, bool)
	// FilterState returns the stored object for key. The object must be
	// JSON-marshalable for FILTER_STATE(key) to render it; otherwise the
	// directive renders Sentinel.
	FilterState(key string) (any, bool)

	StartTime() time.Time
}
