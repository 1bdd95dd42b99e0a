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
package bounds

import (
	"github.com/consensys/go-bounds/pkg/ir"
)

// boolEverything is the interval of a condition about which nothing is known.
func boolEverything() Interval {
	return Interval{ir.ConstFalse(1), ir.ConstTrue(1)}
}

// boolBounds replaces any infinite side of a boolean interval with the
// corresponding boolean extreme.
func boolBounds(i Interval) Interval {
	if !i.HasLowerBound() {
		i.Min = ir.ConstFalse(1)
	}
	//
	if !i.HasUpperBound() {
		i.Max = ir.ConstTrue(1)
	}
	//
	return i
}

// visitOrdering handles a < b (strict) or a <= b.  The lower bound of the
// result is a sufficient condition for the comparison to hold, and the upper
// bound a necessary condition.
func (p *boundsVisitor) visitOrdering(e ir.Expr, x, y ir.Expr, strict bool) Interval {
	a, b := p.bounds(x), p.bounds(y)
	//
	if a.IsSinglePointOf(x) && b.IsSinglePointOf(y) {
		return SinglePoint(e)
	}
	//
	cmp := func(l, r ir.Expr) ir.Expr {
		if strict {
			return fold(ir.NewLT(l, r))
		}
		//
		return fold(ir.NewLE(l, r))
	}
	//
	r := boolEverything()
	//
	if a.HasUpperBound() && b.HasLowerBound() {
		r.Min = cmp(a.Max, b.Min)
	}
	//
	if a.HasLowerBound() && b.HasUpperBound() {
		r.Max = cmp(a.Min, b.Max)
	}
	//
	return r
}

// visitEquality handles a == b (eq) or a != b.
func (p *boundsVisitor) visitEquality(e ir.Expr, x, y ir.Expr, eq bool) Interval {
	a, b := p.bounds(x), p.bounds(y)
	//
	if a.IsSinglePointOf(x) && b.IsSinglePointOf(y) {
		return SinglePoint(e)
	} else if a.IsSinglePoint() && b.IsSinglePoint() {
		if eq {
			return SinglePoint(fold(ir.NewEQ(a.Min, b.Min)))
		}
		//
		return SinglePoint(fold(ir.NewNE(a.Min, b.Min)))
	}
	// Determine when the two ranges overlap, and when they are disjoint.
	var overlap, disjoint ir.Expr
	//
	if a.HasUpperBound() && b.HasLowerBound() {
		overlap = fold(ir.NewLE(b.Min, a.Max))
		disjoint = fold(ir.NewLT(a.Max, b.Min))
	}
	//
	if a.HasLowerBound() && b.HasUpperBound() {
		overlap = makeAnd(overlap, fold(ir.NewLE(a.Min, b.Max)))
		disjoint = makeOr(disjoint, fold(ir.NewLT(b.Max, a.Min)))
	}
	//
	r := boolEverything()
	//
	if eq && overlap != nil {
		r.Max = overlap
	} else if !eq && disjoint != nil {
		r.Min = disjoint
	}
	//
	return r
}

// visitLogical handles a && b (and) or a || b.
func (p *boundsVisitor) visitLogical(e ir.Expr, x, y ir.Expr, and bool) Interval {
	a, b := p.bounds(x), p.bounds(y)
	//
	if a.IsSinglePointOf(x) && b.IsSinglePointOf(y) {
		return SinglePoint(e)
	}
	//
	a, b = boolBounds(a), boolBounds(b)
	//
	if and {
		return Interval{makeAnd(a.Min, b.Min), makeAnd(a.Max, b.Max)}
	}
	//
	return Interval{makeOr(a.Min, b.Min), makeOr(a.Max, b.Max)}
}

func (p *boundsVisitor) visitNot(e *ir.Not) Interval {
	a := p.bounds(e.A)
	//
	if a.IsSinglePointOf(e.A) {
		return SinglePoint(e)
	}
	//
	a = boolBounds(a)
	//
	return Interval{makeNot(a.Max), makeNot(a.Min)}
}

func (p *boundsVisitor) visitSelect(e *ir.Select) Interval {
	c := p.bounds(e.Condition)
	// A condition which always (or never) holds picks a branch.
	if ir.IsConstTrue(c.Min) {
		return p.bounds(e.TrueValue)
	} else if ir.IsConstFalse(c.Max) {
		return p.bounds(e.FalseValue)
	}
	//
	a, b := p.bounds(e.TrueValue), p.bounds(e.FalseValue)
	//
	if !c.IsSinglePointOf(e.Condition) || p.constBound || e.Condition.Type().IsVector() {
		return MakeUnion(a, b)
	} else if a.IsSinglePointOf(e.TrueValue) && b.IsSinglePointOf(e.FalseValue) {
		return SinglePoint(e)
	}
	// The condition is fixed, so the bounds can select on it directly.
	r := Everything()
	//
	if a.HasLowerBound() && b.HasLowerBound() {
		r.Min = p.selectBound(e.Condition, a.Min, b.Min)
	}
	//
	if a.HasUpperBound() && b.HasUpperBound() {
		r.Max = p.selectBound(e.Condition, a.Max, b.Max)
	}
	//
	return r
}

// selectBound constructs a select between two bounds.  Non-trivial bounds are
// bound to fresh names first, which keeps the select itself small.
func (p *boundsVisitor) selectBound(c ir.Expr, x, y ir.Expr) ir.Expr {
	if ir.Equal(x, y) {
		return x
	}
	//
	var (
		names  []string
		values []ir.Expr
	)
	//
	bind := func(e ir.Expr) ir.Expr {
		if isTrivial(e) {
			return e
		}
		//
		v := p.ctx.names.FreshVar("t", e.Type())
		names = append(names, v.Name)
		values = append(values, e)
		//
		return v
	}
	//
	var r ir.Expr = ir.NewSelect(c, bind(x), bind(y))
	//
	for i := len(names) - 1; i >= 0; i-- {
		r = ir.NewLet(names[i], values[i], r)
	}
	//
	return r
}

func isTrivial(e ir.Expr) bool {
	_, ok := e.(*ir.Variable)
	return ok || ir.IsConst(e)
}

func makeAnd(a, b ir.Expr) ir.Expr {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case ir.IsConstFalse(a) || ir.IsConstTrue(b):
		return a
	case ir.IsConstFalse(b) || ir.IsConstTrue(a):
		return b
	default:
		return ir.NewAnd(a, b)
	}
}

func makeOr(a, b ir.Expr) ir.Expr {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case ir.IsConstTrue(a) || ir.IsConstFalse(b):
		return a
	case ir.IsConstTrue(b) || ir.IsConstFalse(a):
		return b
	default:
		return ir.NewOr(a, b)
	}
}

func makeNot(a ir.Expr) ir.Expr {
	switch {
	case ir.IsConstTrue(a):
		return ir.ConstFalse(1)
	case ir.IsConstFalse(a):
		return ir.ConstTrue(1)
	default:
		return ir.NewNot(a)
	}
}
