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
// Package reader reads the textual (S-Expression) form of expressions,
// statements and function definitions.
package reader

import (
	"fmt"
	"os"

	"github.com/consensys/go-bounds/pkg/function"
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/sexp"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
)

// Reader translates S-Expressions into the IR.  A reader retains the functions
// it has read, such that calls to them in subsequent text are typed
// accordingly.
type Reader struct {
	// Parameters which variables and image calls may refer to.
	params map[string]*ir.Parameter
	// Functions read so far, in order.
	funcs map[string]*function.Function
	order []*function.Function
	// Types of variables bound by enclosing lets and loops.
	env *scope.Scope[ir.Type]
	// Literals without an explicit type, which adopt the type of the operand
	// they are combined with.
	untyped map[ir.Expr]bool
	// Translators for the file currently being read.
	exprs *sexp.Translator[ir.Expr]
	stmts *sexp.Translator[ir.Stmt]
	defs  *sexp.Translator[*function.Function]
}

// NewReader constructs a reader for text which may refer to the given
// parameters.
func NewReader(params ...*ir.Parameter) *Reader {
	p := &Reader{
		params:  make(map[string]*ir.Parameter),
		funcs:   make(map[string]*function.Function),
		env:     scope.NewScope[ir.Type](nil),
		untyped: make(map[ir.Expr]bool),
	}
	//
	for _, param := range params {
		p.params[param.Name] = param
	}
	//
	return p
}

// ReadFile reads a given file into a source file.
func ReadFile(filename string) (*sexp.SourceFile, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return sexp.NewSourceFile(filename, bytes), nil
}

// ParseExpr parses the text of a single expression.
func ParseExpr(text string, params ...*ir.Parameter) (ir.Expr, error) {
	exprs, err := NewReader(params...).ReadExprs(sexp.NewSourceFile("<input>", []byte(text)))
	//
	switch {
	case err != nil:
		return nil, err
	case len(exprs) != 1:
		return nil, fmt.Errorf("expected one expression, found %d", len(exprs))
	default:
		return exprs[0], nil
	}
}

// ParseExprOfType parses the text of a single expression of a given type.  An
// untyped literal adopts that type.
func ParseExprOfType(text string, t ir.Type, params ...*ir.Parameter) (ir.Expr, error) {
	r := NewReader(params...)
	exprs, err := r.ReadExprs(sexp.NewSourceFile("<input>", []byte(text)))
	//
	switch {
	case err != nil:
		return nil, err
	case len(exprs) != 1:
		return nil, fmt.Errorf("expected one expression, found %d", len(exprs))
	case r.untyped[exprs[0]] && exprs[0].Type() != t:
		return retype(exprs[0], t)
	case exprs[0].Type() != t:
		return nil, fmt.Errorf("expected %s expression, found %s", t, exprs[0].Type())
	default:
		return exprs[0], nil
	}
}

// ReadExprs reads every expression in a given source file.
func (p *Reader) ReadExprs(srcfile *sexp.SourceFile) ([]ir.Expr, *sexp.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, err
	}
	//
	p.init(srcfile, srcmap)
	//
	exprs := make([]ir.Expr, len(terms))
	//
	for i, term := range terms {
		if exprs[i], err = p.exprs.Translate(term); err != nil {
			return nil, err
		}
	}
	//
	return exprs, nil
}

// ReadNode reads the single statement (or expression) held in a given source
// file.  Several top-level statements are read as a block.
func (p *Reader) ReadNode(srcfile *sexp.SourceFile) (ir.Node, *sexp.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, err
	}
	//
	p.init(srcfile, srcmap)
	//
	if len(terms) == 0 {
		return nil, srcfile.SyntaxError(sexp.NewSpan(0, 0), "empty file")
	} else if len(terms) == 1 && !isStmt(terms[0]) {
		return p.exprs.Translate(terms[0])
	}
	//
	stmts := make([]ir.Stmt, len(terms))
	//
	for i, term := range terms {
		if stmts[i], err = p.stmts.Translate(term); err != nil {
			return nil, err
		}
	}
	//
	return ir.NewBlock(stmts...), nil
}

// ReadFunctions reads the function definitions in a given source file,
// returning them in the order they were first defined.
func (p *Reader) ReadFunctions(srcfile *sexp.SourceFile) ([]*function.Function, *sexp.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, err
	}
	//
	p.init(srcfile, srcmap)
	//
	for _, term := range terms {
		if _, err := p.defs.Translate(term); err != nil {
			return nil, err
		}
	}
	//
	return p.order, nil
}

// Functions returns the functions read so far, indexed by name.
func (p *Reader) Functions() map[string]*function.Function {
	return p.funcs
}

func (p *Reader) init(srcfile *sexp.SourceFile, srcmap *sexp.SourceMap[sexp.SExp]) {
	p.exprs = sexp.NewTranslator[ir.Expr](srcfile, srcmap)
	p.stmts = sexp.NewTranslator[ir.Stmt](srcfile, srcmap)
	p.defs = sexp.NewTranslator[*function.Function](srcfile, srcmap)
	//
	p.addExprRules()
	p.addStmtRules()
	p.addFunctionRules()
}

func isStmt(term sexp.SExp) bool {
	if l, ok := term.(*sexp.List); ok {
		_, ok = stmtHeads[l.Head()]
		return ok
	}
	//
	return false
}
