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
	"strings"
	"testing"
)

func TestJsonTemplateEvaluateProducesValidObject(t *testing.T) {
	tmpl, err := CompileJSON(map[string]string{
		"protocol": "%PROTOCOL%",
		"status":   "%RESPONSE_CODE%",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := Context{StreamInfo: &StaticStreamInfo{
		ProtocolValue: "HTTP/1.1", HasResponseCode: true, ResponseCodeValue: 200,
	}}
	line := tmpl.Evaluate(ctx)
	if !strings.HasSuffix(line, "\n") {
		t.Fatal("expected a trailing newline")
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSuffix(line, "\n")), &out); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if out["protocol"] != "HTTP/1.1" || out["status"] != "200" {
		t.Errorf("got %#v", out)
	}
}

func TestJsonTemplateEvaluateMissingFieldRendersSentinel(t *testing.T) {
	tmpl, err := CompileJSON(map[string]string{"host": "%UPSTREAM_HOST%"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := tmpl.Evaluate(emptyContext())
	var out map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSuffix(line, "\n")), &out); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if out["host"] != Sentinel {
		t.Errorf("got %#v", out)
	}
}
