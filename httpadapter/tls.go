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
	"crypto/sha256"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"net/url"
	"time"
)

// tlsConnectionState adapts the standard library's crypto/tls.ConnectionState
// into an accesslog.TLSSession, the same role caddytls's connection-state
// lookups play for replacer_test.go's TLS placeholder tests.
type tlsConnectionState struct {
	state *tls.ConnectionState
}

func (t tlsConnectionState) PeerURISAN() []string {
	if len(t.state.PeerCertificates) == 0 {
		return nil
	}
	out := make([]string, 0, len(t.state.PeerCertificates[0].URIs))
	for _, u := range t.state.PeerCertificates[0].URIs {
		out = append(out, u.String())
	}
	return out
}

func (t tlsConnectionState) LocalURISAN() []string { return nil }

func (t tlsConnectionState) PeerSubject() string {
	if len(t.state.PeerCertificates) == 0 {
		return ""
	}
	return t.state.PeerCertificates[0].Subject.String()
}

func (t tlsConnectionState) LocalSubject() string { return "" }

// SessionID is always empty: crypto/tls.ConnectionState doesn't expose a
// session identifier, so this renders Sentinel via tlsField's empty-string
// rule rather than fabricate one.
func (t tlsConnectionState) SessionID() string { return "" }

func (t tlsConnectionState) Cipher() string {
	return tls.CipherSuiteName(t.state.CipherSuite)
}

func (t tlsConnectionState) Version() string {
	switch t.state.Version {
	case tls.VersionTLS10:
		return "TLSv1"
	case tls.VersionTLS11:
		return "TLSv1.1"
	case tls.VersionTLS12:
		return "TLSv1.2"
	case tls.VersionTLS13:
		return "TLSv1.3"
	default:
		return ""
	}
}

func (t tlsConnectionState) PeerFingerprint256() string {
	if len(t.state.PeerCertificates) == 0 {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(t.state.PeerCertificates[0].Raw))
}

func (t tlsConnectionState) PeerSerial() string {
	if len(t.state.PeerCertificates) == 0 {
		return ""
	}
	return t.state.PeerCertificates[0].SerialNumber.String()
}

func (t tlsConnectionState) PeerIssuer() string {
	if len(t.state.PeerCertificates) == 0 {
		return ""
	}
	return t.state.PeerCertificates[0].Issuer.String()
}

// PeerCertPEM returns the URL-encoded PEM of the peer certificate,
// matching the source's urlEncodedPemEncodedPeerCertificate() — the PEM
// encoding's embedded newlines would otherwise break the one-line-per-
// request invariant every other directive in this package preserves.
func (t tlsConnectionState) PeerCertPEM() string {
	if len(t.state.PeerCertificates) == 0 {
		return ""
	}
	block := &pem.Block{Type: "CERTIFICATE", Bytes: t.state.PeerCertificates[0].Raw}
	return url.QueryEscape(string(pem.EncodeToMemory(block)))
}

func (t tlsConnectionState) PeerCertValidFrom() (time.Time, bool) {
	if len(t.state.PeerCertificates) == 0 {
		return time.Time{}, false
	}
	return t.state.PeerCertificates[0].NotBefore, true
}

func (t tlsConnectionState) PeerCertValidTo() (time.Time, bool) {
	if len(t.state.PeerCertificates) == 0 {
		return time.Time{}, false
	}
	return t.state.PeerCertificates[0].NotAfter, true
}
