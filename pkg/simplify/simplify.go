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
package simplify

import (
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util/math"
	log "github.com/sirupsen/logrus"
)

var simplifier = &ir.Mutator{Expr: simplifyExpr, Stmt: simplifyStmt}

// maxPasses bounds the number of rewriting passes made by Simplify.
const maxPasses = 8

// Simplify rewrites an expression into an equivalent, simpler, canonical form.
// Constants are folded, integer sums are collected into a canonical linear
// form and comparisons are decided where the operand ranges allow.
// Rewriting repeats until nothing changes, hence simplification is idempotent.
func Simplify(e ir.Expr) ir.Expr {
	if e == nil {
		return nil
	}
	//
	r := simplifier.MutateExpr(e)
	//
	for i := 1; i < maxPasses && !ir.Equal(r, e); i++ {
		e, r = r, simplifier.MutateExpr(r)
	}
	//
	return r
}

// SimplifyStmt simplifies every expression within a statement, additionally
// eliminating branches whose conditions are constant and lets which are
// trivial or unused.
func SimplifyStmt(s ir.Stmt) ir.Stmt {
	if s == nil {
		return nil
	}
	//
	return simplifier.MutateStmt(s)
}

// CanProve attempts to show that a boolean expression is always true.  This is
// conservative: failing to prove something does not mean it is false.
func CanProve(e ir.Expr) bool {
	r := Simplify(e)
	//
	if !ir.IsConstTrue(r) {
		log.Tracef("cannot prove %s (simplified to %s)", e, r)
		return false
	}
	//
	return true
}

func simplifyExpr(m *ir.Mutator, e ir.Expr) (ir.Expr, bool) {
	if let, ok := e.(*ir.Let); ok {
		return simplifyLet(m, let), true
	}
	//
	return rewrite(m.DefaultExpr(e)), true
}

func simplifyLet(m *ir.Mutator, e *ir.Let) ir.Expr {
	value := m.MutateExpr(e.Value)
	//
	if isTrivial(value) && !rebinds(e.Body, value) {
		return m.MutateExpr(ir.Substitute(e.Name, value, e.Body))
	}
	//
	body := m.MutateExpr(e.Body)
	//
	if !ir.ExprUsesVar(body, e.Name) {
		return body
	}
	//
	return ir.WithChildren(e, []ir.Expr{value, body})
}

func simplifyStmt(m *ir.Mutator, s ir.Stmt) (ir.Stmt, bool) {
	switch s := s.(type) {
	case *ir.IfThenElse:
		cond := m.MutateExpr(s.Condition)
		//
		if ir.IsConstTrue(cond) {
			return m.MutateStmt(s.ThenCase), true
		} else if ir.IsConstFalse(cond) && s.ElseCase != nil {
			return m.MutateStmt(s.ElseCase), true
		} else if ir.IsConstFalse(cond) {
			return ir.NewEvaluate(ir.I32(0)), true
		}
		//
		return ir.WithStmtChildren(s, []ir.Expr{cond}, []ir.Stmt{m.MutateStmt(s.ThenCase),
			m.MutateStmt(s.ElseCase)}), true
	case *ir.LetStmt:
		value := m.MutateExpr(s.Value)
		//
		if isTrivial(value) && !rebinds(s.Body, value) {
			return m.MutateStmt(ir.SubstituteInStmt(s.Name, value, s.Body)), true
		}
		//
		body := m.MutateStmt(s.Body)
		//
		if !ir.StmtUsesVar(body, s.Name) {
			return body, true
		}
		//
		return ir.WithStmtChildren(s, []ir.Expr{value}, []ir.Stmt{body}), true
	}
	//
	return nil, false
}

// isTrivial identifies values which are no more expensive to recompute than
// to refer to by name.
func isTrivial(e ir.Expr) bool {
	switch e := e.(type) {
	case *ir.Variable:
		return true
	case *ir.Broadcast:
		return isTrivial(e.Value)
	default:
		return ir.IsConst(e)
	}
}

// rebinds checks whether substituting a given value into a node could capture
// a variable, because the node binds a name used in the value.
func rebinds(n ir.Node, value ir.Expr) bool {
	v, ok := value.(*ir.Variable)
	if !ok {
		return false
	}
	//
	found := false
	//
	ir.Walk(n, func(n ir.Node) bool {
		switch n := n.(type) {
		case *ir.Let:
			found = found || n.Name == v.Name
		case *ir.LetStmt:
			found = found || n.Name == v.Name
		case *ir.For:
			found = found || n.Name == v.Name
		}
		//
		return !found
	})
	//
	return found
}

// rewrite applies local rewrite rules to a node whose children are already
// simplified.
func rewrite(e ir.Expr) ir.Expr {
	if r, ok := liftBroadcast(e); ok {
		return r
	}
	//
	switch e := e.(type) {
	case *ir.Cast:
		return rewriteCast(e)
	case *ir.Add, *ir.Sub, *ir.Mul:
		return rewriteArith(e)
	case *ir.Div:
		return rewriteDiv(e)
	case *ir.Mod:
		return rewriteMod(e)
	case *ir.Min:
		return rewriteMinMax(e, e.A, e.B, true)
	case *ir.Max:
		return rewriteMinMax(e, e.A, e.B, false)
	case *ir.EQ:
		return rewriteEquality(e, e.A, e.B, true)
	case *ir.NE:
		return rewriteEquality(e, e.A, e.B, false)
	case *ir.LT:
		return rewriteOrdering(e, e.A, e.B, true)
	case *ir.LE:
		return rewriteOrdering(e, e.A, e.B, false)
	case *ir.GT:
		return rewrite(ir.NewLT(e.B, e.A))
	case *ir.GE:
		return rewrite(ir.NewLE(e.B, e.A))
	case *ir.And:
		return rewriteLogical(e, e.A, e.B, true)
	case *ir.Or:
		return rewriteLogical(e, e.A, e.B, false)
	case *ir.Not:
		return rewriteNot(e)
	case *ir.Select:
		return rewriteSelect(e)
	case *ir.Ramp:
		if ir.IsConstZero(e.Stride) {
			return ir.NewBroadcast(e.Base, e.Lanes)
		}
	}
	//
	return e
}

// liftBroadcast rewrites an operation over broadcasts into a broadcast of the
// operation over scalars.
func liftBroadcast(e ir.Expr) (ir.Expr, bool) {
	switch e.(type) {
	case *ir.Add, *ir.Sub, *ir.Mul, *ir.Div, *ir.Mod, *ir.Min, *ir.Max, *ir.EQ, *ir.NE, *ir.LT, *ir.LE, *ir.GT,
		*ir.GE, *ir.And, *ir.Or, *ir.Not, *ir.Cast:
		// fall through
	default:
		return nil, false
	}
	//
	children := ir.Children(e)
	scalars := make([]ir.Expr, len(children))
	lanes := uint16(0)
	//
	for i, c := range children {
		b, ok := c.(*ir.Broadcast)
		if !ok || (lanes != 0 && b.Lanes != lanes) || b.Value.Type().IsVector() {
			return nil, false
		}
		//
		lanes, scalars[i] = b.Lanes, b.Value
	}
	//
	if c, ok := e.(*ir.Cast); ok {
		return ir.NewBroadcast(rewrite(ir.NewCast(c.Type().ElementOf(), scalars[0])), lanes), true
	}
	//
	return ir.NewBroadcast(rewrite(ir.WithChildren(e, scalars)), lanes), true
}

func rewriteCast(e *ir.Cast) ir.Expr {
	t := e.Type()
	vt := e.Value.Type()
	//
	if t == vt {
		return e.Value
	} else if r, ok := foldCast(t, e.Value); ok {
		return r
	} else if inner, ok := e.Value.(*ir.Cast); ok && vt.CanRepresent(inner.Value.Type()) {
		// The inner cast preserves the value, so it can be skipped.
		return rewrite(ir.NewCast(t, inner.Value))
	}
	//
	return e
}

func rewriteArith(e ir.Expr) ir.Expr {
	children := ir.Children(e)
	a, b := children[0], children[1]
	//
	if r, ok := foldBinary(e, a, b); ok {
		return r
	} else if e.Type().IsFloat() {
		switch e.(type) {
		case *ir.Add:
			if ir.IsConstZero(a) {
				return b
			} else if ir.IsConstZero(b) {
				return a
			}
		case *ir.Sub:
			if ir.IsConstZero(b) {
				return a
			}
		case *ir.Mul:
			if ir.IsConstOne(a) {
				return b
			} else if ir.IsConstOne(b) {
				return a
			}
		}
		//
		return e
	} else if l, ok := linearize(e); ok {
		return l.expr()
	}
	//
	return e
}

func rewriteDiv(e *ir.Div) ir.Expr {
	if r, ok := foldBinary(e, e.A, e.B); ok {
		return r
	} else if ir.IsConstOne(e.B) {
		return e.A
	}
	//
	c, ok := positiveDivisor(e.B)
	//
	if !ok {
		return e
	} else if r := ConstantInterval(e.A); r.Within(math.NewInterval64(0, c-1)) {
		return ir.MakeZero(e.Type())
	} else if !noOverflow(e.Type()) {
		return e
	} else if l, ok := linearize(e.A); ok && l.divisibleBy(c) {
		// (c*x + k) / c == x + k/c
		q := l.scaleDown(c)
		q.constant = EuclideanDiv(l.constant, c)
		//
		return q.expr()
	}
	//
	return e
}

func rewriteMod(e *ir.Mod) ir.Expr {
	if r, ok := foldBinary(e, e.A, e.B); ok {
		return r
	}
	//
	c, ok := positiveDivisor(e.B)
	//
	if !ok {
		return e
	} else if c == 1 {
		return ir.MakeZero(e.Type())
	} else if r := ConstantInterval(e.A); r.Within(math.NewInterval64(0, c-1)) {
		return e.A
	} else if !noOverflow(e.Type()) {
		return e
	} else if l, ok := linearize(e.A); ok && l.divisibleBy(c) {
		// (c*x + k) % c == k % c
		return ir.MakeConst(e.Type(), EuclideanMod(l.constant, c))
	}
	//
	return e
}

// positiveDivisor extracts a scalar integer divisor which is strictly positive.
func positiveDivisor(e ir.Expr) (int64, bool) {
	if !e.Type().IsIntOrUInt() || !e.Type().IsScalar() {
		return 0, false
	} else if c, ok := constValue(e); ok && c > 0 {
		return c, true
	}
	//
	return 0, false
}

// noOverflow identifies integer types whose arithmetic is assumed never to
// overflow.
func noOverflow(t ir.Type) bool {
	return t.IsInt() && !t.CanOverflowInt()
}

func rewriteMinMax(e ir.Expr, a, b ir.Expr, isMin bool) ir.Expr {
	// choose returns a if a <= b, otherwise b (for min; inverted for max).
	choose := func(aFirst bool) ir.Expr {
		if aFirst == isMin {
			return a
		}
		//
		return b
	}
	//
	t := e.Type()
	//
	if r, ok := foldBinary(e, a, b); ok {
		return r
	} else if ir.Equal(a, b) {
		return a
	} else if ir.IsConst(a) && !ir.IsConst(b) {
		return rewrite(ir.WithChildren(e, []ir.Expr{b, a}))
	} else if !t.IsIntOrUInt() {
		return e
	} else if t.IsScalar() && ir.Equal(b, t.Max()) {
		return choose(true)
	} else if t.IsScalar() && ir.Equal(b, t.Min()) {
		return choose(false)
	}
	//
	if noOverflow(t) {
		la, oka := linearize(a)
		lb, okb := linearize(b)
		//
		if oka && okb {
			if d := la.sub(lb); d.isConstant() {
				return choose(d.constant <= 0)
			}
		}
	}
	//
	ia, ib := ConstantInterval(a), ConstantInterval(b)
	//
	if ia.BelowOrEqual(ib) {
		return choose(true)
	} else if ib.BelowOrEqual(ia) {
		return choose(false)
	}
	// Collapse nested constant bounds, e.g. min(min(x, 3), 5) ==> min(x, 3)
	if inner, ok := a.(*ir.Min); ok && isMin && ir.IsConst(inner.B) && ir.IsConst(b) {
		return rewrite(ir.NewMin(inner.A, rewrite(ir.NewMin(inner.B, b))))
	} else if inner, ok := a.(*ir.Max); ok && !isMin && ir.IsConst(inner.B) && ir.IsConst(b) {
		return rewrite(ir.NewMax(inner.A, rewrite(ir.NewMax(inner.B, b))))
	}
	//
	return e
}

func rewriteEquality(e ir.Expr, a, b ir.Expr, eq bool) ir.Expr {
	t := a.Type()
	//
	if r, ok := foldBinary(e, a, b); ok {
		return r
	} else if !t.IsIntOrUInt() {
		return e
	} else if ir.Equal(a, b) {
		return ir.MakeConst(e.Type(), boolValue(eq))
	} else if t.IsBool() {
		return rewriteBoolEquality(e, a, b, eq)
	}
	//
	ia, ib := ConstantInterval(a), ConstantInterval(b)
	//
	if ia.Below(ib) || ib.Below(ia) {
		return ir.MakeConst(e.Type(), boolValue(!eq))
	}
	//
	la, oka := linearize(a)
	lb, okb := linearize(b)
	//
	if !oka || !okb {
		return e
	}
	//
	d := la.sub(lb)
	//
	if d.isConstant() {
		return ir.MakeConst(e.Type(), boolValue((d.constant == 0) == eq))
	} else if !ir.IsConst(a) && !ir.IsConst(b) {
		return e
	} else if d.allNegative() {
		d = d.negate()
	}
	// terms + k == 0 <==> terms == -k
	lhs, rhs := d.withoutConstant().expr(), ir.MakeConst(t, -d.constant)
	//
	if eq {
		return ir.NewEQ(lhs, rhs)
	}
	//
	return ir.NewNE(lhs, rhs)
}

func rewriteBoolEquality(e ir.Expr, a, b ir.Expr, eq bool) ir.Expr {
	if ir.IsConst(a) {
		a, b = b, a
	}
	//
	switch {
	case ir.IsConstTrue(b) == eq && ir.IsConst(b):
		return a
	case ir.IsConst(b):
		return rewrite(ir.NewNot(a))
	default:
		return e
	}
}

func rewriteOrdering(e ir.Expr, a, b ir.Expr, strict bool) ir.Expr {
	t := a.Type()
	//
	if r, ok := foldBinary(e, a, b); ok {
		return r
	} else if !t.IsIntOrUInt() {
		return e
	} else if ir.Equal(a, b) {
		return ir.MakeConst(e.Type(), boolValue(!strict))
	}
	//
	ia, ib := ConstantInterval(a), ConstantInterval(b)
	//
	switch {
	case strict && ia.Below(ib), !strict && ia.BelowOrEqual(ib):
		return ir.MakeConst(e.Type(), 1)
	case strict && ib.BelowOrEqual(ia), !strict && ib.Below(ia):
		return ir.MakeConst(e.Type(), 0)
	case !noOverflow(t):
		return e
	}
	//
	la, oka := linearize(a)
	lb, okb := linearize(b)
	//
	if !oka || !okb {
		return e
	}
	//
	d := la.sub(lb)
	di := d.interval()
	zero := math.Point(0)
	// Decide a - b < 0 (or a - b <= 0)
	switch {
	case strict && di.Below(zero), !strict && di.BelowOrEqual(zero):
		return ir.MakeConst(e.Type(), 1)
	case strict && zero.BelowOrEqual(di), !strict && zero.Below(di):
		return ir.MakeConst(e.Type(), 0)
	case !ir.IsConst(a) && !ir.IsConst(b):
		return e
	}
	// Isolate the terms from the constant
	var lhs, rhs ir.Expr
	//
	if d.allNegative() {
		// k - terms < 0 <==> k < terms
		lhs, rhs = ir.MakeConst(t, d.constant), d.negate().withoutConstant().expr()
	} else {
		// terms + k < 0 <==> terms < -k
		lhs, rhs = d.withoutConstant().expr(), ir.MakeConst(t, -d.constant)
	}
	//
	if strict {
		return ir.NewLT(lhs, rhs)
	}
	//
	return ir.NewLE(lhs, rhs)
}

func rewriteLogical(e ir.Expr, a, b ir.Expr, isAnd bool) ir.Expr {
	// For conjunctions, true is the identity and false the annihilator.  For
	// disjunctions, this is reversed.
	identity := func(x ir.Expr) bool {
		return (isAnd && ir.IsConstTrue(x)) || (!isAnd && ir.IsConstFalse(x))
	}
	annihilator := func(x ir.Expr) bool {
		return (isAnd && ir.IsConstFalse(x)) || (!isAnd && ir.IsConstTrue(x))
	}
	//
	switch {
	case identity(a):
		return b
	case identity(b), ir.Equal(a, b):
		return a
	case annihilator(a):
		return a
	case annihilator(b):
		return b
	case isNegationOf(a, b) || isNegationOf(b, a):
		return ir.MakeConst(e.Type(), boolValue(!isAnd))
	}
	//
	return e
}

func isNegationOf(a, b ir.Expr) bool {
	n, ok := a.(*ir.Not)
	return ok && ir.Equal(n.A, b)
}

func rewriteNot(e *ir.Not) ir.Expr {
	switch a := e.A.(type) {
	case *ir.UIntImm:
		return ir.MakeBool(a.Value == 0)
	case *ir.Not:
		return a.A
	case *ir.LT:
		return rewrite(ir.NewLE(a.B, a.A))
	case *ir.LE:
		return rewrite(ir.NewLT(a.B, a.A))
	case *ir.EQ:
		return rewrite(ir.NewNE(a.A, a.B))
	case *ir.NE:
		return rewrite(ir.NewEQ(a.A, a.B))
	}
	//
	return e
}

func rewriteSelect(e *ir.Select) ir.Expr {
	c := e.Condition
	//
	switch {
	case ir.IsConstTrue(c):
		return e.TrueValue
	case ir.IsConstFalse(c):
		return e.FalseValue
	case ir.Equal(e.TrueValue, e.FalseValue):
		return e.TrueValue
	}
	//
	if n, ok := c.(*ir.Not); ok {
		return rewrite(ir.NewSelect(n.A, e.FalseValue, e.TrueValue))
	} else if e.Type().IsBool() && ir.IsConstTrue(e.TrueValue) && ir.IsConstFalse(e.FalseValue) {
		return c
	} else if e.Type().IsBool() && ir.IsConstFalse(e.TrueValue) && ir.IsConstTrue(e.FalseValue) {
		return rewrite(ir.NewNot(c))
	} else if inner, ok := e.TrueValue.(*ir.Select); ok && ir.Equal(inner.Condition, c) {
		return rewrite(ir.NewSelect(c, inner.TrueValue, e.FalseValue))
	} else if inner, ok := e.FalseValue.(*ir.Select); ok && ir.Equal(inner.Condition, c) {
		return rewrite(ir.NewSelect(c, e.TrueValue, inner.FalseValue))
	}
	//
	return e
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
