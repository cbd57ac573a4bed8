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
	"net"
	"strconv"
	"strings"
	"time"
)

// bareCatalog is the complete set of recognized bare directives (spec.md
// §4.2's table): evaluated purely against StreamInfo, rendering strings.
// Every entry here is a plain function value, shared by every compiled
// occurrence of that directive name — not a per-instance closure built in
// a constructor the way the source's FormatterProvider subclasses are.
var bareCatalog = map[string]func(StreamInfo) string{
	"PROTOCOL": func(si StreamInfo) string {
		v, ok := si.Protocol()
		if !ok {
			return Sentinel
		}
		return v
	},
	"RESPONSE_CODE": func(si StreamInfo) string {
		code, ok := si.ResponseCode()
		if !ok {
			return "0"
		}
		return strconv.Itoa(code)
	},
	"RESPONSE_CODE_DETAILS": func(si StreamInfo) string {
		v, ok := si.ResponseCodeDetails()
		if !ok {
			return Sentinel
		}
		return v
	},
	"RESPONSE_FLAGS":  func(si StreamInfo) string { return emptyToSentinel(si.ResponseFlags()) },
	"BYTES_RECEIVED":  func(si StreamInfo) string { return strconv.FormatUint(si.BytesReceived(), 10) },
	"BYTES_SENT":      func(si StreamInfo) string { return strconv.FormatUint(si.BytesSent(), 10) },
	"DURATION": func(si StreamInfo) string {
		return durationField(si.Duration())
	},
	"REQUEST_DURATION": func(si StreamInfo) string {
		return durationField(si.RequestDuration())
	},
	"RESPONSE_DURATION": func(si StreamInfo) string {
		return durationField(si.ResponseDuration())
	},
	"RESPONSE_TX_DURATION": func(si StreamInfo) string {
		downstream, ok1 := si.LastDownstreamTxByteSent()
		upstream, ok2 := si.ResponseDuration()
		if !ok1 || !ok2 {
			return Sentinel
		}
		return durationField(downstream-upstream, true)
	},
	"UPSTREAM_HOST": func(si StreamInfo) string {
		v, ok := si.UpstreamHost()
		if !ok {
			return Sentinel
		}
		return v
	},
	"UPSTREAM_CLUSTER": func(si StreamInfo) string {
		v, ok := si.UpstreamCluster()
		if !ok {
			return Sentinel
		}
		return v
	},
	"UPSTREAM_LOCAL_ADDRESS": func(si StreamInfo) string {
		v, ok := si.UpstreamLocalAddress()
		if !ok {
			return Sentinel
		}
		return v
	},
	"UPSTREAM_TRANSPORT_FAILURE_REASON": func(si StreamInfo) string {
		v, ok := si.UpstreamTransportFailureReason()
		if !ok {
			return Sentinel
		}
		return v
	},
	"DOWNSTREAM_LOCAL_ADDRESS": func(si StreamInfo) string {
		return emptyToSentinel(si.DownstreamLocalAddress())
	},
	"DOWNSTREAM_LOCAL_ADDRESS_WITHOUT_PORT": func(si StreamInfo) string {
		return emptyToSentinel(addressWithoutPort(si.DownstreamLocalAddress()))
	},
	"DOWNSTREAM_REMOTE_ADDRESS": func(si StreamInfo) string {
		return emptyToSentinel(si.DownstreamRemoteAddress())
	},
	"DOWNSTREAM_REMOTE_ADDRESS_WITHOUT_PORT": func(si StreamInfo) string {
		return emptyToSentinel(addressWithoutPort(si.DownstreamRemoteAddress()))
	},
	"DOWNSTREAM_DIRECT_REMOTE_ADDRESS": func(si StreamInfo) string {
		return emptyToSentinel(si.DownstreamDirectRemoteAddress())
	},
	"DOWNSTREAM_DIRECT_REMOTE_ADDRESS_WITHOUT_PORT": func(si StreamInfo) string {
		return emptyToSentinel(addressWithoutPort(si.DownstreamDirectRemoteAddress()))
	},
	"REQUESTED_SERVER_NAME": func(si StreamInfo) string {
		v, ok := si.RequestedServerName()
		if !ok {
			return Sentinel
		}
		return v
	},
	"ROUTE_NAME": func(si StreamInfo) string {
		v, ok := si.RouteName()
		if !ok {
			return Sentinel
		}
		return v
	},
	"DOWNSTREAM_PEER_URI_SAN": tlsField(func(t TLSSession) string {
		return strings.Join(t.PeerURISAN(), ",")
	}),
	"DOWNSTREAM_LOCAL_URI_SAN": tlsField(func(t TLSSession) string {
		return strings.Join(t.LocalURISAN(), ",")
	}),
	"DOWNSTREAM_PEER_SUBJECT":         tlsField(func(t TLSSession) string { return t.PeerSubject() }),
	"DOWNSTREAM_LOCAL_SUBJECT":        tlsField(func(t TLSSession) string { return t.LocalSubject() }),
	"DOWNSTREAM_TLS_SESSION_ID":       tlsField(func(t TLSSession) string { return t.SessionID() }),
	"DOWNSTREAM_TLS_CIPHER":           tlsField(func(t TLSSession) string { return t.Cipher() }),
	"DOWNSTREAM_TLS_VERSION":          tlsField(func(t TLSSession) string { return t.Version() }),
	"DOWNSTREAM_PEER_FINGERPRINT_256": tlsField(func(t TLSSession) string { return t.PeerFingerprint256() }),
	"DOWNSTREAM_PEER_SERIAL":          tlsField(func(t TLSSession) string { return t.PeerSerial() }),
	"DOWNSTREAM_PEER_ISSUER":          tlsField(func(t TLSSession) string { return t.PeerIssuer() }),
	"DOWNSTREAM_PEER_CERT":            tlsField(func(t TLSSession) string { return t.PeerCertPEM() }),
	"DOWNSTREAM_PEER_CERT_V_START":    tlsTimeField(func(t TLSSession) (time.Time, bool) { return t.PeerCertValidFrom() }),
	"DOWNSTREAM_PEER_CERT_V_END":      tlsTimeField(func(t TLSSession) (time.Time, bool) { return t.PeerCertValidTo() }),
}

// durationField renders an optional duration truncated toward zero to
// milliseconds (spec.md §4.2: "floor(nanoseconds / 1_000_000)"), or
// Sentinel if the duration wasn't measured.
func durationField(d time.Duration, ok bool) string {
	if !ok {
		return Sentinel
	}
	return strconv.FormatInt(int64(d/time.Millisecond), 10)
}

func emptyToSentinel(s string) string {
	if s == "" {
		return Sentinel
	}
	return s
}

// addressWithoutPort strips a trailing ":port", mirroring
// caddyhttp/httpserver's {hostonly} placeholder: on a malformed address
// (no port to strip), the address is returned unchanged.
func addressWithoutPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// tlsField adapts a TLSSession-only extractor into a bare-catalog entry,
// handling the uniform rule that a plaintext connection, and a present
// connection whose extracted string is empty, both render Sentinel. This
// is the one helper standing in for source's sslConnectionInfoStringExtractor.
func tlsField(extract func(TLSSession) string) func(StreamInfo) string {
	return func(si StreamInfo) string {
		t, ok := si.TLS()
		if !ok {
			return Sentinel
		}
		v := extract(t)
		if v == "" {
			return Sentinel
		}
		return v
	}
}

// tlsTimeField is tlsField's counterpart for the two certificate validity
// timestamps, rendered via the default time format (spec.md §6).
func tlsTimeField(extract func(TLSSession) (time.Time, bool)) func(StreamInfo) string {
	return func(si StreamInfo) string {
		t, ok := si.TLS()
		if !ok {
			return Sentinel
		}
		v, ok := extract(t)
		if !ok {
			return Sentinel
		}
		return formatDefaultTime(v)
	}
}
