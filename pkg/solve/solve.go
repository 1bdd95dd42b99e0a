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
package solve

import (
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// Result is the outcome of solving an expression for a variable.
type Result struct {
	// Expr is an expression equivalent to the one given, which (when fully
	// solved) refers to the variable only as the left-hand side of comparisons.
	Expr ir.Expr
	// FullySolved indicates every occurrence of the variable was isolated.
	FullySolved bool
}

// SolveExpression rewrites a boolean expression so that a given variable
// appears alone on the left-hand side of each comparison.  Only comparisons
// which are linear in the variable are handled; when the variable has a
// coefficient other than one, ordering comparisons are solved with floor
// division (for types which cannot overflow) whilst equalities are left
// unsolved.  Conjunctions, disjunctions and negations are solved recursively.
func SolveExpression(e ir.Expr, name string) Result {
	if !ir.ExprUsesVar(e, name) {
		return Result{e, true}
	}
	//
	switch e := e.(type) {
	case *ir.And:
		a, b := SolveExpression(e.A, name), SolveExpression(e.B, name)
		return Result{ir.NewAnd(a.Expr, b.Expr), a.FullySolved && b.FullySolved}
	case *ir.Or:
		a, b := SolveExpression(e.A, name), SolveExpression(e.B, name)
		return Result{ir.NewOr(a.Expr, b.Expr), a.FullySolved && b.FullySolved}
	case *ir.Not:
		if negated, ok := negate(e.A); ok {
			return SolveExpression(negated, name)
		}
	case *ir.EQ:
		return solveComparison(e, e.A, e.B, opEQ, name)
	case *ir.NE:
		return solveComparison(e, e.A, e.B, opNE, name)
	case *ir.LT:
		return solveComparison(e, e.A, e.B, opLT, name)
	case *ir.LE:
		return solveComparison(e, e.A, e.B, opLE, name)
	case *ir.GT:
		return solveComparison(e, e.A, e.B, opGT, name)
	case *ir.GE:
		return solveComparison(e, e.A, e.B, opGE, name)
	}
	//
	return Result{e, false}
}

type cmpOp uint8

const (
	opEQ cmpOp = iota
	opNE
	opLT
	opLE
	opGT
	opGE
)

// flip returns the operator obtained by swapping operands.
func (op cmpOp) flip() cmpOp {
	switch op {
	case opLT:
		return opGT
	case opLE:
		return opGE
	case opGT:
		return opLT
	case opGE:
		return opLE
	default:
		return op
	}
}

func (op cmpOp) make(a, b ir.Expr) ir.Expr {
	switch op {
	case opEQ:
		return ir.NewEQ(a, b)
	case opNE:
		return ir.NewNE(a, b)
	case opLT:
		return ir.NewLT(a, b)
	case opLE:
		return ir.NewLE(a, b)
	case opGT:
		return ir.NewGT(a, b)
	default:
		return ir.NewGE(a, b)
	}
}

func negate(e ir.Expr) (ir.Expr, bool) {
	switch e := e.(type) {
	case *ir.Not:
		return e.A, true
	case *ir.EQ:
		return ir.NewNE(e.A, e.B), true
	case *ir.NE:
		return ir.NewEQ(e.A, e.B), true
	case *ir.LT:
		return ir.NewGE(e.A, e.B), true
	case *ir.LE:
		return ir.NewGT(e.A, e.B), true
	case *ir.GT:
		return ir.NewLE(e.A, e.B), true
	case *ir.GE:
		return ir.NewLT(e.A, e.B), true
	case *ir.And:
		return ir.NewOr(ir.NewNot(e.A), ir.NewNot(e.B)), true
	case *ir.Or:
		return ir.NewAnd(ir.NewNot(e.A), ir.NewNot(e.B)), true
	}
	//
	return nil, false
}

// solveComparison isolates a variable in the comparison a op b, by collecting
// everything into the form c*v + rest op 0.
func solveComparison(e ir.Expr, a, b ir.Expr, op cmpOp, name string) Result {
	t := a.Type()
	ordering := op != opEQ && op != opNE
	//
	if !t.IsIntOrUInt() || !t.IsScalar() || t.IsBool() {
		return Result{e, false}
	} else if ordering && (!t.IsInt() || t.CanOverflowInt()) {
		// rearranging inequalities is unsound when arithmetic wraps
		return Result{e, false}
	}
	//
	coeff, rest, ok := isolate(simplify.Simplify(ir.NewSub(a, b)), name)
	//
	if !ok || coeff == 0 {
		return Result{e, false}
	}
	// c*v + rest op 0 <==> c*v op -rest
	rhs := simplify.Simplify(ir.NewSub(ir.MakeZero(t), rest))
	v := ir.NewVar(name, t)
	//
	if coeff < 0 {
		coeff, rhs, op = -coeff, simplify.Simplify(ir.NewSub(ir.MakeZero(t), rhs)), op.flip()
	}
	//
	if coeff == 1 {
		return Result{op.make(v, rhs), true}
	} else if !ordering {
		return Result{e, false}
	}
	//
	c := ir.MakeConst(t, coeff)
	// c*v op X, with c > 1
	switch op {
	case opLT:
		// v <= floor((X - 1) / c)
		rhs = ir.NewDiv(ir.NewSub(rhs, ir.MakeOne(t)), c)
		op = opLE
	case opLE:
		// v <= floor(X / c)
		rhs = ir.NewDiv(rhs, c)
	case opGT:
		// v > floor(X / c)
		rhs = ir.NewDiv(rhs, c)
	case opGE:
		// v > floor((X - 1) / c)
		rhs = ir.NewDiv(ir.NewSub(rhs, ir.MakeOne(t)), c)
		op = opGT
	}
	//
	return Result{op.make(v, simplify.Simplify(rhs)), true}
}

// isolate decomposes a (simplified) expression into c*v + rest, where rest
// does not refer to v.  This fails if v occurs anywhere other than as a
// linear term.
func isolate(e ir.Expr, name string) (int64, ir.Expr, bool) {
	if !ir.ExprUsesVar(e, name) {
		return 0, e, true
	}
	//
	switch e := e.(type) {
	case *ir.Variable:
		return 1, ir.MakeZero(e.Type()), e.Name == name
	case *ir.Add:
		ca, ra, oka := isolate(e.A, name)
		cb, rb, okb := isolate(e.B, name)
		//
		if oka && okb {
			return ca + cb, ir.NewAdd(ra, rb), true
		}
	case *ir.Sub:
		ca, ra, oka := isolate(e.A, name)
		cb, rb, okb := isolate(e.B, name)
		//
		if oka && okb {
			return ca - cb, ir.NewSub(ra, rb), true
		}
	case *ir.Mul:
		if k, ok := ir.AsConstInt(e.B); ok {
			if c, r, ok := isolate(e.A, name); ok {
				return c * k, ir.NewMul(r, e.B), true
			}
		}
	}
	//
	return 0, nil, false
}
