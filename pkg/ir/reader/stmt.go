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
package reader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/sexp"
)

// stmtHeads identifies the lists which denote statements.
var stmtHeads = map[string]bool{
	"letstmt": true, "for": true, "if": true, "block": true, "assert": true, "produce": true,
	"consume": true, "provide": true, "eval": true, "store": true, "allocate": true, "free": true,
}

var forKinds = []string{"serial", "parallel", "vectorized", "unrolled"}

func (p *Reader) addStmtRules() {
	p.stmts.AddListRule("letstmt", p.letStmtRule)
	p.stmts.AddListRule("for", p.forRule)
	p.stmts.AddListRule("if", p.ifRule)
	p.stmts.AddListRule("block", p.blockRule)
	p.stmts.AddListRule("assert", p.assertRule)
	p.stmts.AddListRule("produce", p.producerConsumerRule(true))
	p.stmts.AddListRule("consume", p.producerConsumerRule(false))
	p.stmts.AddListRule("provide", p.provideRule)
	p.stmts.AddListRule("eval", p.evalRule)
	p.stmts.AddListRule("store", p.storeRule)
	p.stmts.AddListRule("allocate", p.allocateRule)
	p.stmts.AddListRule("free", p.freeRule)
}

func (p *Reader) letStmtRule(l *sexp.List) (ir.Stmt, error) {
	name, err := nameOf(l, 4, "(letstmt name value body)")
	if err != nil {
		return nil, err
	}
	//
	value, err := p.expr(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	defer p.env.Bind(name, value.Type())()
	//
	body, err := p.stmt(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewLetStmt(name, value, body), nil
}

// forRule translates (for name min extent [kind] body).  Loop variables are
// int32.
func (p *Reader) forRule(l *sexp.List) (ir.Stmt, error) {
	var (
		kind = ir.Serial
		name string
		err  error
	)
	//
	if l.Len() == 6 && l.Get(4).IsSymbol() {
		index := slices.Index(forKinds, l.Get(4).String())
		if index < 0 {
			return nil, fmt.Errorf("unknown loop kind %s", l.Get(4))
		}
		//
		kind = ir.ForKind(index)
		name, err = nameOf(l, 6, "(for name min extent kind body)")
	} else {
		name, err = nameOf(l, 5, "(for name min extent body)")
	}
	//
	if err != nil {
		return nil, err
	}
	//
	bounds, err := p.exprList(l.Elements[2:4])
	if err != nil {
		return nil, err
	}
	//
	for _, e := range bounds {
		if e.Type() != ir.Int(32) {
			return nil, fmt.Errorf("loop bounds must be int32, found %s", e.Type())
		}
	}
	//
	defer p.env.Bind(name, ir.Int(32))()
	//
	body, err := p.stmt(l.Get(l.Len() - 1))
	if err != nil {
		return nil, err
	}
	//
	loop := ir.NewFor(name, bounds[0], bounds[1], body)
	loop.Kind = kind
	//
	return loop, nil
}

func (p *Reader) ifRule(l *sexp.List) (ir.Stmt, error) {
	if l.Len() != 3 && l.Len() != 4 {
		return nil, errors.New("expected (if condition then [else])")
	}
	//
	cond, err := p.condition(l.Get(1))
	if err != nil {
		return nil, err
	}
	//
	stmts, err := p.stmtList(l.Elements[2:])
	if err != nil {
		return nil, err
	} else if len(stmts) == 1 {
		return ir.NewIfThenElse(cond, stmts[0], nil), nil
	}
	//
	return ir.NewIfThenElse(cond, stmts[0], stmts[1]), nil
}

func (p *Reader) blockRule(l *sexp.List) (ir.Stmt, error) {
	if l.Len() < 2 {
		return nil, errors.New("empty block")
	}
	//
	stmts, err := p.stmtList(l.Elements[1:])
	if err != nil {
		return nil, err
	}
	//
	return ir.NewBlock(stmts...), nil
}

// assertRule translates (assert condition ["message"]).
func (p *Reader) assertRule(l *sexp.List) (ir.Stmt, error) {
	if l.Len() != 2 && l.Len() != 3 {
		return nil, errors.New("expected (assert condition [message])")
	}
	//
	cond, err := p.condition(l.Get(1))
	if err != nil {
		return nil, err
	}
	//
	var msg ir.Expr = ir.NewStringImm("assertion failed")
	//
	if l.Len() == 3 {
		if msg, err = p.expr(l.Get(2)); err != nil {
			return nil, err
		}
	}
	//
	return ir.NewAssert(cond, msg), nil
}

func (p *Reader) producerConsumerRule(producer bool) sexp.ListRule[ir.Stmt] {
	return func(l *sexp.List) (ir.Stmt, error) {
		name, err := nameOf(l, 3, fmt.Sprintf("(%s name body)", l.Head()))
		if err != nil {
			return nil, err
		}
		//
		body, err := p.stmt(l.Get(2))
		//
		switch {
		case err != nil:
			return nil, err
		case producer:
			return ir.NewProducer(name, body), nil
		default:
			return ir.NewConsumer(name, body), nil
		}
	}
}

// provideRule translates (provide name (values...) (args...)).
func (p *Reader) provideRule(l *sexp.List) (ir.Stmt, error) {
	name, err := nameOf(l, 4, "(provide name (values...) (args...))")
	if err != nil {
		return nil, err
	}
	//
	values, err := p.exprSequence(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	args, err := p.exprSequence(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	if f, ok := p.funcs[name]; ok {
		if err := p.checkValues(f, values); err != nil {
			return nil, err
		} else if len(args) != len(f.Args) {
			return nil, fmt.Errorf("provide of %s has %d arguments, expected %d", name, len(args), len(f.Args))
		}
	}
	//
	return ir.NewProvide(name, values, args), nil
}

func (p *Reader) evalRule(l *sexp.List) (ir.Stmt, error) {
	if l.Len() != 2 {
		return nil, errors.New("expected (eval value)")
	}
	//
	value, err := p.expr(l.Get(1))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewEvaluate(value), nil
}

// storeRule translates (store name value index).
func (p *Reader) storeRule(l *sexp.List) (ir.Stmt, error) {
	name, err := nameOf(l, 4, "(store name value index)")
	if err != nil {
		return nil, err
	}
	//
	args, err := p.exprList(l.Elements[2:])
	//
	switch {
	case err != nil:
		return nil, err
	case args[0].Type().Lanes != args[1].Type().Lanes:
		return nil, fmt.Errorf("store of %s at index of %s", args[0].Type(), args[1].Type())
	}
	//
	return ir.NewStore(name, args[0], args[1]), nil
}

// allocateRule translates (allocate name type (extents...) body).
func (p *Reader) allocateRule(l *sexp.List) (ir.Stmt, error) {
	name, err := nameOf(l, 5, "(allocate name type (extents...) body)")
	if err != nil {
		return nil, err
	}
	//
	t, err := p.typeOf(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	extents, err := p.exprSequence(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	body, err := p.stmt(l.Get(4))
	if err != nil {
		return nil, err
	}
	//
	return &ir.Allocate{Name: name, Type: t, Extents: extents, Condition: ir.ConstTrue(1), Body: body}, nil
}

func (p *Reader) freeRule(l *sexp.List) (ir.Stmt, error) {
	name, err := nameOf(l, 2, "(free name)")
	if err != nil {
		return nil, err
	}
	//
	return &ir.Free{Name: name}, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (p *Reader) stmt(s sexp.SExp) (ir.Stmt, error) {
	stmt, err := p.stmts.Translate(s)
	//
	if err != nil {
		return nil, err
	}
	//
	return stmt, nil
}

func (p *Reader) stmtList(terms []sexp.SExp) ([]ir.Stmt, error) {
	stmts := make([]ir.Stmt, len(terms))
	//
	for i, term := range terms {
		stmt, err := p.stmt(term)
		if err != nil {
			return nil, err
		}
		//
		stmts[i] = stmt
	}
	//
	return stmts, nil
}

// exprSequence translates a list of expressions, such as the arguments of a
// provide.
func (p *Reader) exprSequence(s sexp.SExp) ([]ir.Expr, error) {
	l, ok := s.(*sexp.List)
	if !ok {
		return nil, fmt.Errorf("expected list of expressions, found %s", s)
	}
	//
	return p.exprList(l.Elements)
}

func (p *Reader) condition(s sexp.SExp) (ir.Expr, error) {
	cond, err := p.expr(s)
	//
	switch {
	case err != nil:
		return nil, err
	case !cond.Type().IsBool() || cond.Type().IsVector():
		return nil, fmt.Errorf("expected bool condition, found %s", cond.Type())
	}
	//
	return cond, nil
}
