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

import "regexp"

// Mask is a compiled regex/replacement pair applied to a finished log line
// before it reaches the sink (spec.md §4.5). Replacement supports the
// standard regexp package's backreference syntax ($1, ${name}, ...).
//
// No third-party regex engine appears anywhere in the example corpus —
// caddyhttp/rewrite's SimpleRule builds its rewrite rules on top of the
// standard library's regexp.Compile the same way this does.
type Mask struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewMask compiles pattern and pairs it with replacement. Mask compilation
// is a compile-time concern: a MaskPipeline is built once at config load
// and is immutable and safe for concurrent use afterward.
func NewMask(pattern, replacement string) (Mask, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Mask{}, err
	}
	return Mask{pattern: re, replacement: replacement}, nil
}

// MaskPipeline is an ordered, immutable list of Masks. Masks are applied
// sequentially in configured order; overlapping patterns interact
// order-dependently by design — this is how operators compose masking
// rules, not an accident to guard against.
type MaskPipeline struct {
	masks []Mask
}

// NewMaskPipeline builds a MaskPipeline from already-compiled masks.
func NewMaskPipeline(masks ...Mask) *MaskPipeline {
	return &MaskPipeline{masks: masks}
}

// Apply runs every mask over line in order and returns the result. A nil
// or empty pipeline returns line unchanged.
func (p *MaskPipeline) Apply(line string) string {
	if p == nil {
		return line
	}
	for _, m := range p.masks {
		line = m.pattern.ReplaceAllString(line, m.replacement)
	}
	return line
}
