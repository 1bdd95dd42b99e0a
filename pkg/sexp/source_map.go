// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

import "fmt"

// Span identifies a range of characters [start, end) within some source text.
// Spans are kept as offsets, rather than string slices, so that the lines
// around them can still be recovered when reporting errors.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span, which must not end before it starts.
func NewSpan(start int, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span [%d, %d)", start, end))
	}
	//
	return Span{start, end}
}

// Start returns the offset of the first character in this span.
func (p *Span) Start() int {
	return p.start
}

// Length returns the number of characters in this span.
func (p *Span) Length() int {
	return p.end - p.start
}

// Line is a single line of some source text, numbered from 1.  The span of a
// line excludes its terminating newline.
type Line struct {
	text   []rune
	span   Span
	number int
}

func (p Line) String() string {
	return string(p.text[p.span.start:p.span.end])
}

// Number returns the line number, counting from 1.
func (p Line) Number() int {
	return p.number
}

// Start returns the offset of the first character of this line.
func (p Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p Line) Length() int {
	return p.span.Length()
}

// enclosingLine returns the line of some text containing the start of a given
// span.  Offsets past the end of the text give the last line.
func enclosingLine(span Span, text []rune) Line {
	var (
		start  = min(span.start, len(text))
		end    = start
		number = 1
	)
	// Move back to the start of the line.
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	// Move forward to its end.
	for end < len(text) && text[end] != '\n' {
		end++
	}
	//
	for _, c := range text[:start] {
		if c == '\n' {
			number++
		}
	}
	//
	return Line{text, Span{start, end}, number}
}

// SourceMap records the span of text from which each term was parsed, so that
// errors can be reported against the original source.
type SourceMap[T comparable] struct {
	spans map[T]Span
	text  []rune
}

// NewSourceMap constructs an empty source map over some text.
func NewSourceMap[T comparable](text []rune) *SourceMap[T] {
	return &SourceMap[T]{make(map[T]Span), text}
}

// Put records the span of a given term, which must not already be recorded.
func (p *SourceMap[T]) Put(item T, span Span) {
	if _, ok := p.spans[item]; ok {
		panic(fmt.Sprintf("duplicate source map entry %v", item))
	}
	//
	p.spans[item] = span
}

// Has checks whether the span of a given term is recorded.
func (p *SourceMap[T]) Has(item T) bool {
	_, ok := p.spans[item]
	return ok
}

// Get returns the span of a given term, which must be recorded.
func (p *SourceMap[T]) Get(item T) Span {
	span, ok := p.spans[item]
	if !ok {
		panic(fmt.Sprintf("no source map entry for %v", item))
	}
	//
	return span
}

// FindFirstEnclosingLine returns the line containing the start of a span.  A
// span may extend over several lines, in which case only the first is given.
func (p *SourceMap[T]) FindFirstEnclosingLine(span Span) Line {
	return enclosingLine(span, p.text)
}
