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

// Package config loads the declarative document describing which format
// templates a deployment uses and how its masking pipeline is built, the
// equivalent of caddyhttp/log/setup.go's Caddyfile directive for this
// library. Compile errors here abort startup, never per-request traffic —
// spec.md §7's compile-error class.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/edgeproxylabs/accesslog"
)

// Format is a named, already-compiled template: either a flat line
// (Template set) or a JSON object (JSON set), never both.
type Format struct {
	Name     string
	Template *accesslog.FormatTemplate
	JSON     *accesslog.JsonTemplate
}

// Evaluate runs whichever compiled shape this Format holds.
func (f *Format) Evaluate(ctx accesslog.Context) string {
	if f.JSON != nil {
		return f.JSON.Evaluate(ctx)
	}
	return f.Template.Evaluate(ctx)
}

// Config is the fully compiled result of loading a document: every format
// template and mask has already been compiled, so a Config is safe to
// share across request-handling goroutines and never fails again.
type Config struct {
	Default string
	Formats map[string]*Format
	Masks   *accesslog.MaskPipeline
}

// DefaultFormat returns the Format named by Default, or nil if none was
// configured.
func (c *Config) DefaultFormat() *Format {
	return c.Formats[c.Default]
}

type rawDocument struct {
	Default string               `toml:"default"`
	Formats map[string]rawFormat `toml:"formats"`
	Masks   []rawMask            `toml:"masks"`
}

type rawFormat struct {
	Template string            `toml:"template"`
	JSON     map[string]string `toml:"json"`
}

type rawMask struct {
	Pattern     string `toml:"pattern"`
	Replacement string `toml:"replacement"`
}

// Load decodes a TOML document at path and compiles every format and mask
// it declares. It mirrors logParse in caddyhttp/log/setup.go: the whole
// document is validated before anything is handed back, so a caller never
// ends up with a half-built, partially-compiled Config.
func Load(path string) (*Config, error) {
	var doc rawDocument
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decoding config %q: %w", path, err)
	}
	return compile(doc)
}

// LoadString decodes a TOML document from a string, for tests and embedded
// defaults that don't warrant their own file.
func LoadString(contents string) (*Config, error) {
	var doc rawDocument
	if _, err := toml.Decode(contents, &doc); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return compile(doc)
}

func compile(doc rawDocument) (*Config, error) {
	cfg := &Config{
		Default: doc.Default,
		Formats: make(map[string]*Format, len(doc.Formats)),
	}

	for name, raw := range doc.Formats {
		f := &Format{Name: name}
		switch {
		case len(raw.JSON) > 0 && raw.Template != "":
			return nil, fmt.Errorf("format %q: specify either template or json, not both", name)
		case len(raw.JSON) > 0:
			tmpl, err := accesslog.CompileJSON(raw.JSON)
			if err != nil {
				return nil, fmt.Errorf("format %q: %w", name, err)
			}
			f.JSON = tmpl
		default:
			tmpl, err := accesslog.Compile(raw.Template)
			if err != nil {
				return nil, fmt.Errorf("format %q: %w", name, err)
			}
			f.Template = tmpl
		}
		cfg.Formats[name] = f
	}

	if cfg.Default != "" {
		if _, ok := cfg.Formats[cfg.Default]; !ok {
			return nil, fmt.Errorf("default format %q is not defined", cfg.Default)
		}
	}

	masks := make([]accesslog.Mask, 0, len(doc.Masks))
	for i, raw := range doc.Masks {
		m, err := accesslog.NewMask(raw.Pattern, raw.Replacement)
		if err != nil {
			return nil, fmt.Errorf("mask %d (%q): %w", i, raw.Pattern, err)
		}
		masks = append(masks, m)
	}
	cfg.Masks = accesslog.NewMaskPipeline(masks...)

	accesslog.Log().Info("loaded access log config",
		zap.Int("formats", len(cfg.Formats)), zap.Int("masks", len(masks)))

	return cfg, nil
}
