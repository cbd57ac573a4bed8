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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeproxylabs/accesslog"
)

func TestLoadStringCompilesFormatsAndMasks(t *testing.T) {
	cfg, err := LoadString(`
default = "line"

[formats.line]
template = "%PROTOCOL% %RESPONSE_CODE%"

[formats.structured.json]
status = "%RESPONSE_CODE%"

[[masks]]
pattern = "password=\\S+"
replacement = "password=***"
`)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Len(t, cfg.Formats, 2)
	assert.NotNil(t, cfg.DefaultFormat())

	ctx := accesslog.Context{StreamInfo: &accesslog.StaticStreamInfo{
		ProtocolValue: "HTTP/1.1", HasResponseCode: true, ResponseCodeValue: 200,
	}}
	assert.Equal(t, "HTTP/1.1 200", cfg.DefaultFormat().Evaluate(ctx))

	structured := cfg.Formats["structured"]
	require.NotNil(t, structured)
	assert.Contains(t, structured.Evaluate(ctx), `"status":"200"`)

	masked := cfg.Masks.Apply("user password=hunter2")
	assert.Equal(t, "user password=***", masked)
}

func TestLoadStringRejectsBothTemplateAndJSON(t *testing.T) {
	_, err := LoadString(`
[formats.bad]
template = "%PROTOCOL%"
[formats.bad.json]
x = "%PROTOCOL%"
`)
	require.Error(t, err)
}

func TestLoadStringRejectsUnknownDefault(t *testing.T) {
	_, err := LoadString(`
default = "missing"
[formats.line]
template = "%PROTOCOL%"
`)
	require.Error(t, err)
}

func TestLoadStringRejectsBadTemplate(t *testing.T) {
	_, err := LoadString(`
[formats.bad]
template = "%NOT_REAL%"
`)
	require.Error(t, err)
}

func TestLoadStringRejectsBadMask(t *testing.T) {
	_, err := LoadString(`
[formats.line]
template = "%PROTOCOL%"
[[masks]]
pattern = "(unterminated"
replacement = "x"
`)
	require.Error(t, err)
}

func TestLoadStringWithNoMasksIsFine(t *testing.T) {
	cfg, err := LoadString(`
[formats.line]
template = "%PROTOCOL%"
`)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", cfg.Masks.Apply("unchanged"))
}
