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
	"encoding/json"
	"strconv"
	"strings"
)

// paramFamily is the FUNC half of a parameterized directive
// (spec.md §4.2): REQ/RESP/TRAILER/DYNAMIC_METADATA/FILTER_STATE/START_TIME.
type paramFamily int

const (
	famREQ paramFamily = iota
	famRESP
	famTRAILER
	famDynamicMetadata
	famFilterState
	famStartTime
)

// paramDirective is the parameterized half of the tagged-variant directive
// set: FUNC(KEY[?ALT])[:N]. It is resolved once at compile time and shares
// no mutable state across evaluations.
type paramDirective struct {
	family paramFamily

	// REQ/RESP/TRAILER
	main string
	alt  string

	// cap applies to every family: it is a byte-prefix truncation on the
	// already-rendered value, including the Sentinel itself, matching
	// source's HeaderFormatter::format doing the same truncation
	// unconditionally.
	cap    int
	hasCap bool

	// DYNAMIC_METADATA
	metaNamespace string
	metaPath      []string

	// FILTER_STATE
	filterKey string

	// START_TIME
	timePattern string
}

func (p paramDirective) render(ctx Context) string {
	var v string
	switch p.family {
	case famREQ:
		v = lookupHeaderWithFallback(ctx.RequestHeaders, p.main, p.alt)
	case famRESP:
		v = lookupHeaderWithFallback(ctx.ResponseHeaders, p.main, p.alt)
	case famTRAILER:
		v = lookupHeaderWithFallback(ctx.ResponseTrailers, p.main, p.alt)
	case famDynamicMetadata:
		v = renderDynamicMetadata(ctx.StreamInfo, p.metaNamespace, p.metaPath)
	case famFilterState:
		v = renderFilterState(ctx.StreamInfo, p.filterKey)
	case famStartTime:
		if p.timePattern == "" {
			return formatDefaultTime(ctx.StreamInfo.StartTime())
		}
		return formatStrftime(ctx.StreamInfo.StartTime(), p.timePattern)
	}
	if p.hasCap && len(v) > p.cap {
		return v[:p.cap]
	}
	return v
}

// lookupHeaderWithFallback implements spec.md §4.2's header family and
// resolves the ALT-fallback Open Question from spec.md §9/§8 property 4 in
// favor of: ALT is consulted whenever the primary header is absent OR
// present with an empty value, not only when it is absent outright. This
// keeps the uniform "missing renders Sentinel, never empty string"
// invariant from spec.md §3 intact for headers, which the source's literal
// nullptr-only check does not (a present-but-empty header there renders
// an empty string).
func lookupHeaderWithFallback(h Headers, main, alt string) string {
	if h == nil {
		return Sentinel
	}
	if v, ok := h.Get(main); ok && v != "" {
		return v
	}
	if alt != "" {
		if v, ok := h.Get(alt); ok && v != "" {
			return v
		}
	}
	return Sentinel
}

// renderDynamicMetadata implements DYNAMIC_METADATA(NS:p1:p2:...): an empty
// path serializes the whole namespace payload; otherwise it descends a
// nested map[string]any/[]any/scalar tree along path.
func renderDynamicMetadata(si StreamInfo, namespace string, path []string) string {
	payload, ok := si.DynamicMetadata(namespace)
	if !ok {
		return Sentinel
	}
	value := payload
	for _, segment := range path {
		switch node := value.(type) {
		case map[string]any:
			v, ok := node[segment]
			if !ok {
				return Sentinel
			}
			value = v
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return Sentinel
			}
			value = node[idx]
		default:
			return Sentinel
		}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return Sentinel
	}
	return string(encoded)
}

// renderFilterState implements FILTER_STATE(KEY): absent key, or a stored
// object that can't be JSON-marshaled, both render Sentinel.
func renderFilterState(si StreamInfo, key string) string {
	obj, ok := si.FilterState(key)
	if !ok {
		return Sentinel
	}
	encoded, err := json.Marshal(obj)
	if err != nil {
		return Sentinel
	}
	return string(encoded)
}

// splitDynamicMetadataKey splits "NS:p1:p2" into namespace and path parts.
func splitDynamicMetadataKey(key string) (namespace string, path []string) {
	parts := strings.Split(key, ":")
	return parts[0], parts[1:]
}
