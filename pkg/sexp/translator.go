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

import (
	"errors"
	"fmt"
)

// SymbolRule is responsible for converting a terminating expression (i.e. a
// symbol) into an expression type T.  A rule which does not apply to the given
// symbol returns false, allowing subsequent rules to be tried.
type SymbolRule[T any] func(string) (T, bool, error)

// ListRule is responsible for converting a list whose first element names the
// rule into an expression type T.  The list is given untranslated, so the rule
// decides which elements are translated and how.
type ListRule[T any] func(*List) (T, error)

// RecursiveRule is a wrapper for translating lists whose elements can be built
// by recursively reusing the enclosing translator.  The arguments (excluding
// the name) are already translated.
type RecursiveRule[T any] func([]T) (T, error)

// ===================================================================
// Translator
// ===================================================================

// Translator is a generic mechanism for translating S-Expressions into a
// structured form.  Errors arising from the rules are reported against the
// span of the S-Expression being translated.
type Translator[T any] struct {
	srcfile *SourceFile
	srcmap  *SourceMap[SExp]
	lists   map[string]ListRule[T]
	symbols []SymbolRule[T]
}

// NewTranslator constructs a new Translator instance for the S-Expressions
// parsed from a given source file.
func NewTranslator[T any](srcfile *SourceFile, srcmap *SourceMap[SExp]) *Translator[T] {
	return &Translator[T]{
		srcfile: srcfile,
		srcmap:  srcmap,
		lists:   make(map[string]ListRule[T]),
		symbols: make([]SymbolRule[T], 0),
	}
}

// ===================================================================
// Public
// ===================================================================

// Translate a given S-Expression into the structured representation T.
func (p *Translator[T]) Translate(sexp SExp) (T, *SyntaxError) {
	var empty T
	//
	t, err := p.translate(sexp)
	//
	if err != nil {
		return empty, p.wrap(sexp, err)
	}
	//
	return t, nil
}

// AddListRule adds a new list translator to this translator.
func (p *Translator[T]) AddListRule(name string, t ListRule[T]) {
	p.lists[name] = t
}

// AddRecursiveRule adds a new list translator to this expression translator,
// which requires a given number of arguments (or any number, if negative).
func (p *Translator[T]) AddRecursiveRule(name string, arity int, t RecursiveRule[T]) {
	p.lists[name] = func(l *List) (T, error) {
		var empty T
		//
		if arity >= 0 && l.Len() != arity+1 {
			return empty, fmt.Errorf("incorrect number of arguments (expected %d, found %d)", arity, l.Len()-1)
		}
		// Translate arguments
		args := make([]T, l.Len()-1)
		//
		for i, s := range l.Elements[1:] {
			arg, err := p.Translate(s)
			if err != nil {
				return empty, err
			}
			//
			args[i] = arg
		}
		//
		return t(args)
	}
}

// AddSymbolRule adds a new symbol translator to this expression translator.
func (p *Translator[T]) AddSymbolRule(t SymbolRule[T]) {
	p.symbols = append(p.symbols, t)
}

// SyntaxError constructs a syntax error for a given S-Expression.
func (p *Translator[T]) SyntaxError(s SExp, msg string) *SyntaxError {
	if !p.srcmap.Has(s) {
		return p.srcfile.SyntaxError(NewSpan(0, 0), msg)
	}
	//
	return p.srcfile.SyntaxError(p.srcmap.Get(s), msg)
}

// ===================================================================
// Private
// ===================================================================

func (p *Translator[T]) translate(s SExp) (T, error) {
	var empty T
	//
	switch e := s.(type) {
	case *List:
		t, ok := p.lists[e.Head()]
		//
		if !ok {
			return empty, fmt.Errorf("unknown list %s", e.Head())
		}
		//
		return t(e)
	case *Symbol:
		for _, rule := range p.symbols {
			if t, ok, err := rule(e.Value); ok || err != nil {
				return t, err
			}
		}
		//
		return empty, fmt.Errorf("unknown symbol %s", e.Value)
	}
	//
	panic("invalid S-Expression")
}

// wrap attaches the span of a given S-Expression to an error, unless it already
// has one.
func (p *Translator[T]) wrap(s SExp, err error) *SyntaxError {
	var serr *SyntaxError
	//
	if errors.As(err, &serr) {
		return serr
	}
	//
	return p.SyntaxError(s, err.Error())
}
