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
	"strconv"
	"strings"
	"unicode"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/sexp"
)

var binaryOps = map[string]func(a, b ir.Expr) ir.Expr{
	"+":   func(a, b ir.Expr) ir.Expr { return ir.NewAdd(a, b) },
	"-":   func(a, b ir.Expr) ir.Expr { return ir.NewSub(a, b) },
	"*":   func(a, b ir.Expr) ir.Expr { return ir.NewMul(a, b) },
	"/":   func(a, b ir.Expr) ir.Expr { return ir.NewDiv(a, b) },
	"%":   func(a, b ir.Expr) ir.Expr { return ir.NewMod(a, b) },
	"min": func(a, b ir.Expr) ir.Expr { return ir.NewMin(a, b) },
	"max": func(a, b ir.Expr) ir.Expr { return ir.NewMax(a, b) },
	"==":  func(a, b ir.Expr) ir.Expr { return ir.NewEQ(a, b) },
	"!=":  func(a, b ir.Expr) ir.Expr { return ir.NewNE(a, b) },
	"<":   func(a, b ir.Expr) ir.Expr { return ir.NewLT(a, b) },
	"<=":  func(a, b ir.Expr) ir.Expr { return ir.NewLE(a, b) },
	">":   func(a, b ir.Expr) ir.Expr { return ir.NewGT(a, b) },
	">=":  func(a, b ir.Expr) ir.Expr { return ir.NewGE(a, b) },
	"&&":  func(a, b ir.Expr) ir.Expr { return ir.NewAnd(a, b) },
	"||":  func(a, b ir.Expr) ir.Expr { return ir.NewOr(a, b) },
}

var reduceOps = map[string]ir.ReduceOp{
	"add":            ir.ReduceAdd,
	"saturating_add": ir.ReduceSaturatingAdd,
	"mul":            ir.ReduceMul,
	"min":            ir.ReduceMin,
	"max":            ir.ReduceMax,
	"and":            ir.ReduceAnd,
	"or":             ir.ReduceOr,
}

func (p *Reader) addExprRules() {
	p.exprs.AddSymbolRule(p.literal)
	p.exprs.AddSymbolRule(p.variable)
	//
	for name, build := range binaryOps {
		logical := name == "&&" || name == "||"
		p.exprs.AddRecursiveRule(name, 2, p.binary(name, logical, build))
	}
	//
	p.exprs.AddRecursiveRule("!", 1, func(args []ir.Expr) (ir.Expr, error) {
		if !args[0].Type().IsBool() {
			return nil, fmt.Errorf("expected bool operand for !, found %s", args[0].Type())
		}
		//
		return ir.NewNot(args[0]), nil
	})
	p.exprs.AddRecursiveRule("select", 3, p.selectRule)
	p.exprs.AddListRule("cast", p.castRule(false))
	p.exprs.AddListRule("reinterpret", p.castRule(true))
	p.exprs.AddListRule("let", p.letRule)
	p.exprs.AddListRule("call", p.callRule)
	p.exprs.AddListRule("load", p.loadRule)
	p.exprs.AddListRule("ramp", p.rampRule)
	p.exprs.AddListRule("broadcast", p.broadcastRule)
	p.exprs.AddListRule("reduce", p.reduceRule)
}

// ============================================================================
// Symbols
// ============================================================================

func (p *Reader) literal(symbol string) (ir.Expr, bool, error) {
	switch {
	case symbol == "true":
		return ir.ConstTrue(1), true, nil
	case symbol == "false":
		return ir.ConstFalse(1), true, nil
	case len(symbol) >= 2 && strings.HasPrefix(symbol, "\"") && strings.HasSuffix(symbol, "\""):
		s, err := strconv.Unquote(symbol)
		return ir.NewStringImm(s), true, err
	case !isNumber(symbol):
		return nil, false, nil
	}
	//
	e, err := parseLiteral(symbol)
	//
	if err == nil && !strings.Contains(symbol, ":") {
		p.untyped[e] = true
	}
	//
	return e, true, err
}

func (p *Reader) variable(symbol string) (ir.Expr, bool, error) {
	name, suffix, typed := strings.Cut(symbol, ":")
	//
	if err := checkName(name); err != nil {
		return nil, true, err
	}
	//
	if !typed {
		return p.untypedVariable(name), true, nil
	}
	//
	t, ok := ParseType(suffix)
	//
	if !ok {
		return nil, true, fmt.Errorf("unknown type %s", suffix)
	}
	//
	return ir.NewVar(name, t), true, nil
}

// untypedVariable determines the type of a variable from its binding, or from
// the parameter of that name.  Otherwise, it is int32.
func (p *Reader) untypedVariable(name string) ir.Expr {
	if t, ok := p.env.TryGet(name); ok {
		return ir.NewVar(name, t)
	} else if param, ok := p.params[name]; ok && !param.IsBuffer {
		return ir.NewParamVar(param)
	}
	//
	return ir.NewVar(name, ir.Int(32))
}

// checkName checks a variable or function name is valid.  Names may contain
// dots (e.g. f.s0.x) but not $, which is reserved for generated names.
func checkName(name string) error {
	for i, c := range name {
		switch {
		case c == '_' || unicode.IsLetter(c):
		case i > 0 && (c == '.' || unicode.IsDigit(c)):
		default:
			return fmt.Errorf("invalid name %q", name)
		}
	}
	//
	if name == "" {
		return errors.New("empty name")
	}
	//
	return nil
}

// ============================================================================
// Lists
// ============================================================================

func (p *Reader) binary(name string, logical bool, build func(a, b ir.Expr) ir.Expr) sexp.RecursiveRule[ir.Expr] {
	return func(args []ir.Expr) (ir.Expr, error) {
		a, b, err := p.unify(name, args[0], args[1])
		//
		if err != nil {
			return nil, err
		} else if logical && !a.Type().IsBool() {
			return nil, fmt.Errorf("expected bool operands for %s, found %s", name, a.Type())
		}
		//
		return build(a, b), nil
	}
}

func (p *Reader) selectRule(args []ir.Expr) (ir.Expr, error) {
	if !args[0].Type().IsBool() {
		return nil, fmt.Errorf("expected bool condition, found %s", args[0].Type())
	}
	//
	a, b, err := p.unify("select", args[1], args[2])
	//
	if err != nil {
		return nil, err
	}
	//
	return ir.NewSelect(args[0], a, b), nil
}

func (p *Reader) castRule(reinterpret bool) sexp.ListRule[ir.Expr] {
	return func(l *sexp.List) (ir.Expr, error) {
		if l.Len() != 3 {
			return nil, fmt.Errorf("expected (%s type value)", l.Head())
		}
		//
		t, err := p.typeOf(l.Get(1))
		if err != nil {
			return nil, err
		}
		//
		value, err := p.expr(l.Get(2))
		//
		switch {
		case err != nil:
			return nil, err
		case reinterpret && int(t.Bits)*int(t.Lanes) != int(value.Type().Bits)*int(value.Type().Lanes):
			return nil, fmt.Errorf("cannot reinterpret %s as %s", value.Type(), t)
		case reinterpret:
			return ir.NewReinterpret(t, value), nil
		case t.Lanes != value.Type().Lanes:
			return nil, fmt.Errorf("cannot cast %s to %s", value.Type(), t)
		}
		//
		return ir.NewCast(t, value), nil
	}
}

func (p *Reader) letRule(l *sexp.List) (ir.Expr, error) {
	name, err := nameOf(l, 4, "(let name value body)")
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
	body, err := p.expr(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewLet(name, value, body), nil
}

// callRule translates (call name[:type] calltype args...).  The type of a call
// to a known function is that of its output, where name#i identifies the ith
// output.
func (p *Reader) callRule(l *sexp.List) (ir.Expr, error) {
	if l.Len() < 3 || !l.MatchSymbols(3) {
		return nil, errors.New("expected (call name type args...)")
	}
	//
	var (
		target, index       = splitIndex(l.Get(1).String())
		name, suffix, typed = strings.Cut(target, ":")
		t                   = ir.Int(32)
	)
	//
	callType, ok := ir.ParseCallType(l.Get(2).String())
	if !ok {
		return nil, fmt.Errorf("unknown call type %s", l.Get(2))
	} else if err := checkName(name); err != nil {
		return nil, err
	}
	//
	args, err := p.exprList(l.Elements[3:])
	if err != nil {
		return nil, err
	}
	// Determine the type of the call.
	if f, ok := p.funcs[name]; ok && callType == ir.CallHalide && !typed {
		if index >= f.Outputs() {
			return nil, fmt.Errorf("function %s has no output %d", name, index)
		} else if len(args) != len(f.Args) {
			return nil, fmt.Errorf("function %s called with %d arguments, expected %d", name, len(args), len(f.Args))
		}
		//
		t = f.OutputTypes[index]
	} else if typed {
		if t, ok = ParseType(suffix); !ok {
			return nil, fmt.Errorf("unknown type %s", suffix)
		}
	}
	//
	if param, ok := p.params[name]; ok && param.IsBuffer && callType == ir.CallImage {
		return ir.NewImageCall(param, args), nil
	} else if callType == ir.CallHalide {
		return ir.NewFuncCall(t, name, args, index), nil
	}
	//
	return ir.NewCall(t, name, args, callType), nil
}

func (p *Reader) loadRule(l *sexp.List) (ir.Expr, error) {
	if l.Len() != 4 || !l.MatchSymbols(3) {
		return nil, errors.New("expected (load type name index)")
	}
	//
	t, err := p.typeOf(l.Get(1))
	if err != nil {
		return nil, err
	}
	//
	index, err := p.expr(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewLoad(t, l.Get(2).String(), index), nil
}

func (p *Reader) rampRule(l *sexp.List) (ir.Expr, error) {
	if l.Len() != 4 {
		return nil, errors.New("expected (ramp base stride lanes)")
	}
	//
	args, err := p.exprList(l.Elements[1:3])
	if err != nil {
		return nil, err
	}
	//
	lanes, err := lanesOf(l.Get(3))
	if err != nil {
		return nil, err
	}
	//
	base, stride, err := p.unify("ramp", args[0], args[1])
	if err != nil {
		return nil, err
	}
	//
	return ir.NewRamp(base, stride, lanes), nil
}

func (p *Reader) broadcastRule(l *sexp.List) (ir.Expr, error) {
	if l.Len() != 3 {
		return nil, errors.New("expected (broadcast value lanes)")
	}
	//
	value, err := p.expr(l.Get(1))
	if err != nil {
		return nil, err
	}
	//
	lanes, err := lanesOf(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	return ir.NewBroadcast(value, lanes), nil
}

func (p *Reader) reduceRule(l *sexp.List) (ir.Expr, error) {
	if l.Len() != 4 || !l.MatchSymbols(2) {
		return nil, errors.New("expected (reduce op value lanes)")
	}
	//
	op, ok := reduceOps[l.Get(1).String()]
	if !ok {
		return nil, fmt.Errorf("unknown reduction %s", l.Get(1))
	}
	//
	value, err := p.expr(l.Get(2))
	if err != nil {
		return nil, err
	}
	//
	lanes, err := lanesOf(l.Get(3))
	//
	switch {
	case err != nil:
		return nil, err
	case value.Type().Lanes%lanes != 0:
		return nil, fmt.Errorf("cannot reduce %d lanes to %d", value.Type().Lanes, lanes)
	}
	//
	return ir.NewVectorReduce(op, value, lanes), nil
}

// ============================================================================
// Helpers
// ============================================================================

func (p *Reader) expr(s sexp.SExp) (ir.Expr, error) {
	e, err := p.exprs.Translate(s)
	//
	if err != nil {
		return nil, err
	}
	//
	return e, nil
}

func (p *Reader) exprList(terms []sexp.SExp) ([]ir.Expr, error) {
	exprs := make([]ir.Expr, len(terms))
	//
	for i, term := range terms {
		e, err := p.expr(term)
		if err != nil {
			return nil, err
		}
		//
		exprs[i] = e
	}
	//
	return exprs, nil
}

// unify checks that two operands have the same type, where an untyped literal
// adopts the type of the other operand.
func (p *Reader) unify(op string, a, b ir.Expr) (ir.Expr, ir.Expr, error) {
	var err error
	//
	switch {
	case a.Type() == b.Type():
		return a, b, nil
	case p.untyped[a] && !p.untyped[b]:
		a, err = retype(a, b.Type())
	case p.untyped[b] && !p.untyped[a]:
		b, err = retype(b, a.Type())
	default:
		err = fmt.Errorf("mismatched types for %s (%s vs %s)", op, a.Type(), b.Type())
	}
	//
	if err != nil {
		return nil, nil, err
	}
	//
	return a, b, nil
}

func (p *Reader) typeOf(s sexp.SExp) (ir.Type, error) {
	if s.IsSymbol() {
		if t, ok := ParseType(s.String()); ok {
			return t, nil
		}
	}
	//
	return ir.Type{}, fmt.Errorf("unknown type %s", s)
}

func lanesOf(s sexp.SExp) (uint16, error) {
	if s.IsSymbol() {
		if n, err := strconv.ParseUint(s.String(), 10, 16); err == nil && n > 0 {
			return uint16(n), nil
		}
	}
	//
	return 0, fmt.Errorf("invalid number of lanes %s", s)
}

// nameOf extracts the name bound by a list of a given length.
func nameOf(l *sexp.List, n int, form string) (string, error) {
	if l.Len() != n || !l.MatchSymbols(2) {
		return "", fmt.Errorf("expected %s", form)
	}
	//
	name := l.Get(1).String()
	//
	return name, checkName(name)
}

// splitIndex splits a function name of the form f#i into its name and output.
func splitIndex(symbol string) (string, int) {
	if name, index, ok := strings.Cut(symbol, "#"); ok {
		if i, err := strconv.Atoi(index); err == nil && i >= 0 {
			return name, i
		}
	}
	//
	return symbol, 0
}
