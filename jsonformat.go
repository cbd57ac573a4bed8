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
	"fmt"
)

// Evaluate runs every sub-template exactly once against ctx (component 6)
// and assembles a single-line JSON object whose values are all strings,
// followed by "\n". Field order is not guaranteed and not meaningful: the
// output is a JSON object, not an array.
//
// If the finished map somehow can't be serialized, Evaluate falls back to
// a fixed-shape error string instead of aborting, matching
// JsonFormatterImpl::format in the source.
func (t *JsonTemplate) Evaluate(ctx Context) string {
	out := make(map[string]string, len(t.names))
	for _, name := range t.names {
		out[name] = t.templates[name].Evaluate(ctx)
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf("Error serializing access log to JSON: %v\n", err)
	}
	return string(encoded) + "\n"
}
