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

import "time"

// StaticStreamInfo is a plain, in-memory StreamInfo: the concrete type
// tests, the httpadapter package, and simple embedders populate directly
// and hand to Context.StreamInfo, instead of implementing the StreamInfo
// interface themselves. Zero values mean "not measured" for every optional
// field, except where zero is itself a real value: the response code and
// the four durations each carry a Has* boolean, so a real zero is
// distinguishable from "never measured".
type StaticStreamInfo struct {
	ProtocolValue string

	ResponseCodeValue        int
	HasResponseCode          bool
	ResponseCodeDetailsValue string

	ResponseFlagsValue string
	BytesReceivedValue uint64
	BytesSentValue     uint64

	DurationValue    time.Duration
	HasDuration      bool
	RequestDuration_ time.Duration
	HasRequestDur    bool
	ResponseDur_     time.Duration
	HasResponseDur   bool
	LastDownstreamTx time.Duration
	HasLastDownTx    bool

	UpstreamHostValue   string
	UpstreamCluster_    string
	UpstreamLocalAddr   string
	UpstreamFailReason  string

	DownstreamLocalAddr  string
	DownstreamRemoteAddr string
	DownstreamDirectAddr string

	RequestedServerName_ string
	RouteName_           string

	TLSSession_ TLSSession

	DynamicMetadataValue map[string]any
	FilterStateValue     map[string]any

	StartTimeValue time.Time
}

func (s *StaticStreamInfo) Protocol() (string, bool) {
	return s.ProtocolValue, s.ProtocolValue != ""
}

func (s *StaticStreamInfo) ResponseCode() (int, bool) { return s.ResponseCodeValue, s.HasResponseCode }

func (s *StaticStreamInfo) ResponseCodeDetails() (string, bool) {
	return s.ResponseCodeDetailsValue, s.ResponseCodeDetailsValue != ""
}

func (s *StaticStreamInfo) ResponseFlags() string { return s.ResponseFlagsValue }

func (s *StaticStreamInfo) BytesReceived() uint64 { return s.BytesReceivedValue }

func (s *StaticStreamInfo) BytesSent() uint64 { return s.BytesSentValue }

func (s *StaticStreamInfo) Duration() (time.Duration, bool) { return s.DurationValue, s.HasDuration }

func (s *StaticStreamInfo) RequestDuration() (time.Duration, bool) {
	return s.RequestDuration_, s.HasRequestDur
}

func (s *StaticStreamInfo) ResponseDuration() (time.Duration, bool) {
	return s.ResponseDur_, s.HasResponseDur
}

func (s *StaticStreamInfo) LastDownstreamTxByteSent() (time.Duration, bool) {
	return s.LastDownstreamTx, s.HasLastDownTx
}

func (s *StaticStreamInfo) UpstreamHost() (string, bool) {
	return s.UpstreamHostValue, s.UpstreamHostValue != ""
}

func (s *StaticStreamInfo) UpstreamCluster() (string, bool) {
	return s.UpstreamCluster_, s.UpstreamCluster_ != ""
}

func (s *StaticStreamInfo) UpstreamLocalAddress() (string, bool) {
	return s.UpstreamLocalAddr, s.UpstreamLocalAddr != ""
}

func (s *StaticStreamInfo) UpstreamTransportFailureReason() (string, bool) {
	return s.UpstreamFailReason, s.UpstreamFailReason != ""
}

func (s *StaticStreamInfo) DownstreamLocalAddress() string  { return s.DownstreamLocalAddr }
func (s *StaticStreamInfo) DownstreamRemoteAddress() string { return s.DownstreamRemoteAddr }
func (s *StaticStreamInfo) DownstreamDirectRemoteAddress() string {
	return s.DownstreamDirectAddr
}

func (s *StaticStreamInfo) RequestedServerName() (string, bool) {
	return s.RequestedServerName_, s.RequestedServerName_ != ""
}

func (s *StaticStreamInfo) RouteName() (string, bool) {
	return s.RouteName_, s.RouteName_ != ""
}

func (s *StaticStreamInfo) TLS() (TLSSession, bool) {
	return s.TLSSession_, s.TLSSession_ != nil
}

func (s *StaticStreamInfo) DynamicMetadata(namespace string) (any, bool) {
	if s.DynamicMetadataValue == nil {
		return nil, false
	}
	v, ok := s.DynamicMetadataValue[namespace]
	return v, ok
}

func (s *StaticStreamInfo) FilterState(key string) (any, bool) {
	if s.FilterStateValue == nil {
		return nil, false
	}
	v, ok := s.FilterStateValue[key]
	return v, ok
}

func (s *StaticStreamInfo) StartTime() time.Time { return s.StartTimeValue }

// StaticTLSSession is a plain TLSSession a test or adapter can populate
// field by field.
type StaticTLSSession struct {
	PeerURISANValue   []string
	LocalURISANValue  []string
	PeerSubjectValue  string
	LocalSubjectValue string
	SessionIDValue    string
	CipherValue       string
	VersionValue      string
	FingerprintValue  string
	SerialValue       string
	IssuerValue       string
	CertPEMValue      string
	ValidFrom         time.Time
	HasValidFrom      bool
	ValidTo           time.Time
	HasValidTo        bool
}

func (t *StaticTLSSession) PeerURISAN() []string    { return t.PeerURISANValue }
func (t *StaticTLSSession) LocalURISAN() []string   { return t.LocalURISANValue }
func (t *StaticTLSSession) PeerSubject() string     { return t.PeerSubjectValue }
func (t *StaticTLSSession) LocalSubject() string    { return t.LocalSubjectValue }
func (t *StaticTLSSession) SessionID() string       { return t.SessionIDValue }
func (t *StaticTLSSession) Cipher() string          { return t.CipherValue }
func (t *StaticTLSSession) Version() string         { return t.VersionValue }
func (t *StaticTLSSession) PeerFingerprint256() string { return t.FingerprintValue }
func (t *StaticTLSSession) PeerSerial() string      { return t.SerialValue }
func (t *StaticTLSSession) PeerIssuer() string      { return t.IssuerValue }
func (t *StaticTLSSession) PeerCertPEM() string     { return t.CertPEMValue }
func (t *StaticTLSSession) PeerCertValidFrom() (time.Time, bool) { return t.ValidFrom, t.HasValidFrom }
func (t *StaticTLSSession) PeerCertValidTo() (time.Time, bool)   { return t.ValidTo, t.HasValidTo }
