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

// directive is the tagged-variant a compiled template is made of. Each of
// the three grammar productions (plain text, bare directive, parameterized
// directive) gets its own concrete type; dispatch is this interface's one
// render method over that closed set of types rather than an open class
// hierarchy.
type directive interface {
	render(ctx Context) string
}

// plainText is a literal run of bytes copied verbatim, preserving
// surrounding quotes/brackets/whitespace from the source template.
type plainText string

func (p plainText) render(Context) string { return string(p) }

// bareDirective wraps one entry of the StreamInfo-only catalog (directives.go).
type bareDirective struct {
	name string
	fn   func(StreamInfo) string
}

func (b bareDirective) render(ctx Context) string { return b.fn(ctx.StreamInfo) }

// FormatTemplate is an ordered, immutable sequence of directives produced
// by Compile. It preserves the exact textual order of the source template,
// including interstitial plain text, and is safe to evaluate concurrently
// any number of times from multiple goroutines.
type FormatTemplate struct {
	directives []directive
}

// Evaluate runs the line formatter (component 5): it invokes every
// directive in template order against ctx and concatenates the results.
// Evaluate is total — it never fails; unavailable data renders as
// Sentinel. Evaluate never appends a trailing newline; if the source
// template wants one, it is plain text baked into the template itself.
func (t *FormatTemplate) Evaluate(ctx Context) string {
	buf := make([]byte, 0, 256)
	for _, d := range t.directives {
		buf = append(buf, d.render(ctx)...)
	}
	return string(buf)
}

// JsonTemplate is an ordered mapping from field name to FormatTemplate.
// Field insertion order is not semantically meaningful: the rendered
// output is a JSON object.
type JsonTemplate struct {
	names     []string
	templates map[string]*FormatTemplate
}

// Fields returns the field names this JsonTemplate was compiled with, in
// an arbitrary (but stable-for-this-instance) order.
func (t *JsonTemplate) Fields() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
