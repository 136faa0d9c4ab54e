// Copyright 2016 Google Inc. All rights reserved.
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to writing, software distributed
// under the License is distributed on a "AS IS" BASIS, WITHOUT WARRANTIES OR
// CONDITIONS OF ANY KIND, either express or implied.
//
// See the License for the specific language governing permissions and
// limitations under the License.

package mdgolden

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// ErrUnknownExtension is returned when a set names an extension the
	// converter has no builder for.
	ErrUnknownExtension = errors.New("unknown extension")
	// ErrBadOption is returned for unknown or ill-typed extension options.
	ErrBadOption = errors.New("bad extension option")
)

// Converter turns markdown into HTML with the given extensions enabled.
type Converter interface {
	Convert(source []byte, set ExtensionSet) ([]byte, error)
}

// ConvertFile converts the UTF-8 file input and writes the result to
// output.
func ConvertFile(fs afero.Fs, conv Converter, input, output string, set ExtensionSet) error {
	source, err := readSource(fs, input)
	if err != nil {
		return err
	}
	out, err := conv.Convert(source, set)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	if err := afero.WriteFile(fs, output, out, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %v", output, err)
	}
	return nil
}

func readSource(fs afero.Fs, path string) ([]byte, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("could not read %s: not valid UTF-8", path)
	}
	return b, nil
}

// ExtensionFunc maps the options of one named extension to goldmark
// options. opts is never nil.
type ExtensionFunc func(opts *Settings) ([]goldmark.Option, error)

// Goldmark is a Converter backed by github.com/yuin/goldmark. A new
// goldmark instance is built for every conversion, so extensions never
// leak from one fixture into the next.
type Goldmark struct {
	extensions map[string]ExtensionFunc
}

// NewGoldmark returns a converter knowing the goldmark built-in extensions
// and the parser and renderer switches.
func NewGoldmark() *Goldmark {
	g := &Goldmark{extensions: map[string]ExtensionFunc{}}
	g.Register("table", table)
	g.Register("strikethrough", extender(extension.Strikethrough))
	g.Register("linkify", extender(extension.Linkify))
	g.Register("tasklist", extender(extension.TaskList))
	g.Register("gfm", extender(extension.GFM))
	g.Register("footnote", footnote)
	g.Register("definition_list", extender(extension.DefinitionList))
	g.Register("typographer", typographer)
	g.Register("cjk", extender(extension.CJK))
	g.Register("auto_heading_id", plain(goldmark.WithParserOptions(parser.WithAutoHeadingID())))
	g.Register("attribute", plain(goldmark.WithParserOptions(parser.WithAttribute())))
	g.Register("hard_wraps", plain(goldmark.WithRendererOptions(html.WithHardWraps())))
	g.Register("xhtml", plain(goldmark.WithRendererOptions(html.WithXHTML())))
	g.Register("unsafe", plain(goldmark.WithRendererOptions(html.WithUnsafe())))
	return g
}

// Register makes the extension name available, replacing any extension
// registered under the same name.
func (g *Goldmark) Register(name string, fn ExtensionFunc) {
	g.extensions[name] = fn
}

// Convert renders source with a goldmark instance built from set. Extensions
// are applied in set order.
func (g *Goldmark) Convert(source []byte, set ExtensionSet) ([]byte, error) {
	var opts []goldmark.Option
	for _, name := range set.Names {
		fn, ok := g.extensions[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownExtension, name)
		}
		eo := set.Options[name]
		if eo == nil {
			eo = NewSettings()
		}
		o, err := fn(eo)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		opts = append(opts, o...)
	}

	var buf bytes.Buffer
	if err := goldmark.New(opts...).Convert(source, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plain(o goldmark.Option) ExtensionFunc {
	return func(opts *Settings) ([]goldmark.Option, error) {
		if err := allowOptions(opts); err != nil {
			return nil, err
		}
		return []goldmark.Option{o}, nil
	}
}

func extender(e goldmark.Extender) ExtensionFunc {
	return plain(goldmark.WithExtensions(e))
}

var tableAlign = map[string]extension.TableCellAlignMethod{
	"default":   extension.TableCellAlignDefault,
	"attribute": extension.TableCellAlignAttribute,
	"style":     extension.TableCellAlignStyle,
	"none":      extension.TableCellAlignNone,
}

func table(opts *Settings) ([]goldmark.Option, error) {
	if err := allowOptions(opts, "align"); err != nil {
		return nil, err
	}
	var to []extension.TableOption
	if s, ok, err := stringOption(opts, "align"); err != nil {
		return nil, err
	} else if ok {
		m, ok := tableAlign[s]
		if !ok {
			return nil, fmt.Errorf("%w: align %q", ErrBadOption, s)
		}
		to = append(to, extension.WithTableCellAlignMethod(m))
	}
	return []goldmark.Option{goldmark.WithExtensions(extension.NewTable(to...))}, nil
}

func footnote(opts *Settings) ([]goldmark.Option, error) {
	if err := allowOptions(opts, "id_prefix", "backlink_html"); err != nil {
		return nil, err
	}
	var fo []extension.FootnoteOption
	if s, ok, err := stringOption(opts, "id_prefix"); err != nil {
		return nil, err
	} else if ok {
		fo = append(fo, extension.WithFootnoteIDPrefix([]byte(s)))
	}
	if s, ok, err := stringOption(opts, "backlink_html"); err != nil {
		return nil, err
	} else if ok {
		fo = append(fo, extension.WithFootnoteBacklinkHTML([]byte(s)))
	}
	return []goldmark.Option{goldmark.WithExtensions(extension.NewFootnote(fo...))}, nil
}

var punctuation = map[string]extension.TypographicPunctuation{
	"left_single_quote":  extension.LeftSingleQuote,
	"right_single_quote": extension.RightSingleQuote,
	"left_double_quote":  extension.LeftDoubleQuote,
	"right_double_quote": extension.RightDoubleQuote,
	"en_dash":            extension.EnDash,
	"em_dash":            extension.EmDash,
	"ellipsis":           extension.Ellipsis,
	"left_angle_quote":   extension.LeftAngleQuote,
	"right_angle_quote":  extension.RightAngleQuote,
	"apostrophe":         extension.Apostrophe,
}

func typographer(opts *Settings) ([]goldmark.Option, error) {
	if err := allowOptions(opts, "substitutions"); err != nil {
		return nil, err
	}
	var to []extension.TypographerOption
	if v, ok := opts.Get("substitutions"); ok {
		subs, ok := v.(*Settings)
		if !ok {
			return nil, fmt.Errorf("%w: substitutions must be a mapping", ErrBadOption)
		}
		values := map[extension.TypographicPunctuation][]byte{}
		for name, v := range subs.All() {
			p, ok := punctuation[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown punctuation %q", ErrBadOption, name)
			}
			switch v := v.(type) {
			case nil:
				// nil turns the substitution off
				values[p] = nil
			case string:
				values[p] = []byte(v)
			default:
				return nil, fmt.Errorf("%w: substitution %q must be a string", ErrBadOption, name)
			}
		}
		to = append(to, extension.WithTypographicSubstitutions(values))
	}
	return []goldmark.Option{goldmark.WithExtensions(extension.NewTypographer(to...))}, nil
}

func allowOptions(opts *Settings, allowed ...string) error {
outer:
	for _, k := range opts.Keys() {
		for _, a := range allowed {
			if k == a {
				continue outer
			}
		}
		return fmt.Errorf("%w %q", ErrBadOption, k)
	}
	return nil
}

func stringOption(opts *Settings, key string) (string, bool, error) {
	v, ok := opts.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrBadOption, key)
	}
	return s, true, nil
}

