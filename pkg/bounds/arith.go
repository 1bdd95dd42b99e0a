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
	"github.com/consensys/go-bounds/pkg/simplify"
)

// pointOf handles the two shortcuts shared by all binary operators: when both
// operands are their own single point, the node is too; when both are some
// single point, the operator is applied to them.
func pointOf(e ir.Expr, x, y ir.Expr, a, b Interval, op func(a, b ir.Expr) ir.Expr) (Interval, bool) {
	if a.IsSinglePointOf(x) && b.IsSinglePointOf(y) {
		return SinglePoint(e), true
	} else if a.IsSinglePoint() && b.IsSinglePoint() {
		if r := exact(op(a.Min, b.Min)); r != nil {
			return SinglePoint(r), true
		}
		//
		return boundsOfType(e.Type()), true
	}
	//
	return Interval{}, false
}

func (p *boundsVisitor) visitAdd(e *ir.Add) Interval {
	a, b := p.bounds(e.A), p.bounds(e.B)
	//
	if r, ok := pointOf(e, e.A, e.B, a, b, addOp); ok {
		return r
	}
	//
	t := e.Type().ElementOf()
	r := Everything()
	//
	if a.HasLowerBound() && b.HasLowerBound() {
		r.Min = orElse(add(a.Min, b.Min), NegInf)
	}
	//
	if a.HasUpperBound() && b.HasUpperBound() {
		r.Max = orElse(add(a.Max, b.Max), PosInf)
	}
	//
	if t.CanOverflow() && !(r.IsBounded() && noOverflow(t, addOp, [2]ir.Expr{a.Min, b.Min}, [2]ir.Expr{a.Max, b.Max})) {
		return boundsOfType(t)
	}
	//
	return r
}

func (p *boundsVisitor) visitSub(e *ir.Sub) Interval {
	a, b := p.bounds(e.A), p.bounds(e.B)
	//
	if r, ok := pointOf(e, e.A, e.B, a, b, subOp); ok {
		return r
	}
	//
	t := e.Type().ElementOf()
	r := Everything()
	//
	if a.HasLowerBound() && b.HasUpperBound() {
		r.Min = orElse(sub(a.Min, b.Max), NegInf)
	}
	//
	if a.HasUpperBound() && b.HasLowerBound() {
		r.Max = orElse(sub(a.Max, b.Min), PosInf)
	}
	//
	if t.CanOverflow() && !(r.IsBounded() && noOverflow(t, subOp, [2]ir.Expr{a.Min, b.Max}, [2]ir.Expr{a.Max, b.Min})) {
		return boundsOfType(t)
	}
	//
	return r
}

func (p *boundsVisitor) visitMul(e *ir.Mul) Interval {
	a, b := p.bounds(e.A), p.bounds(e.B)
	//
	if r, ok := pointOf(e, e.A, e.B, a, b, mulOp); ok {
		return r
	}
	//
	var (
		t       = e.Type().ElementOf()
		r       Interval
		corners [][2]ir.Expr
	)
	// Move any single point to the right.
	if a.IsSinglePoint() {
		a, b = b, a
	}
	//
	switch {
	case b.IsSinglePoint():
		r, corners = scaleBounds(a, b.Min, t)
	case a.IsBounded() && b.IsBounded():
		r = Nothing()
		corners = [][2]ir.Expr{{a.Min, b.Min}, {a.Min, b.Max}, {a.Max, b.Min}, {a.Max, b.Max}}
		//
		for _, c := range corners {
			v := mul(c[0], c[1])
			//
			if v == nil {
				return Everything()
			}
			//
			r.IncludeExpr(v)
		}
	default:
		r = Everything()
	}
	//
	if t.CanOverflow() && !(r.IsBounded() && (corners == nil || noOverflow(t, mulOp, corners...))) {
		return boundsOfType(t)
	}
	//
	return r
}

// scaleBounds computes the bounds of an interval multiplied by a single value.
func scaleBounds(a Interval, k ir.Expr, t ir.Type) (Interval, [][2]ir.Expr) {
	var (
		corners = [][2]ir.Expr{{a.Min, k}, {a.Max, k}}
		lo      = NegInf
		hi      = PosInf
	)
	//
	switch {
	case ir.IsConstZero(k):
		return SinglePoint(k), nil
	case ir.IsConstOne(k):
		return a, nil
	case ir.IsPositiveConst(k) || t.IsUInt():
		if a.HasLowerBound() {
			lo = orElse(mul(a.Min, k), NegInf)
		}
		//
		if a.HasUpperBound() {
			hi = orElse(mul(a.Max, k), PosInf)
		}
	case ir.IsNegativeConst(k):
		if a.HasUpperBound() {
			lo = orElse(mul(a.Max, k), NegInf)
		}
		//
		if a.HasLowerBound() {
			hi = orElse(mul(a.Min, k), PosInf)
		}
	case a.IsBounded():
		// The sign of k is unknown, but fixed.
		x, y := mul(a.Min, k), mul(a.Max, k)
		//
		if x != nil && y != nil {
			positive := ir.NewLE(ir.MakeZero(k.Type()), k)
			lo, hi = ir.NewSelect(positive, x, y), ir.NewSelect(positive, y, x)
		}
	}
	//
	return Interval{lo, hi}, corners
}

func (p *boundsVisitor) visitDiv(e *ir.Div) Interval {
	a, b := p.bounds(e.A), p.bounds(e.B)
	//
	if r, ok := pointOf(e, e.A, e.B, a, b, func(x, y ir.Expr) ir.Expr { return ir.NewDiv(x, y) }); ok {
		return r
	}
	//
	var (
		t = e.Type().ElementOf()
		r Interval
	)
	//
	switch {
	case b.IsSinglePoint():
		r = p.divBySinglePoint(a, b.Min, t)
	case b.IsBounded() && (isPositive(b.Min) || isNegative(b.Max)):
		// The denominator does not cross zero, hence the extremes are at the
		// corners.
		r = Nothing()
		//
		for _, x := range []ir.Expr{a.Min, a.Max} {
			for _, y := range []ir.Expr{b.Min, b.Max} {
				if isInf(x) {
					return divMagnitude(a, t)
				}
				//
				r.IncludeExpr(orElse(div(x, y), PosInf))
			}
		}
	default:
		r = divMagnitude(a, t)
	}
	//
	if t.IsInt() && t.CanOverflowInt() && !divCannotOverflow(a, b, t) {
		return boundsOfType(t)
	}
	//
	return r
}

func (p *boundsVisitor) divBySinglePoint(a Interval, k ir.Expr, t ir.Type) Interval {
	var lo, hi = NegInf, PosInf
	//
	switch {
	case ir.IsConstZero(k):
		// Division by zero gives zero.
		return SinglePoint(ir.MakeZero(t))
	case ir.IsPositiveConst(k) || t.IsUInt():
		if a.HasLowerBound() {
			lo = orElse(div(a.Min, k), NegInf)
		}
		//
		if a.HasUpperBound() {
			hi = orElse(div(a.Max, k), PosInf)
		}
	case ir.IsNegativeConst(k):
		if a.HasUpperBound() {
			lo = orElse(div(a.Max, k), NegInf)
		}
		//
		if a.HasLowerBound() {
			hi = orElse(div(a.Min, k), PosInf)
		}
	case a.IsBounded():
		x, y := div(a.Min, k), div(a.Max, k)
		//
		if x == nil || y == nil {
			return divMagnitude(a, t)
		}
		//
		positive := ir.NewLT(ir.MakeZero(k.Type()), k)
		lo, hi = ir.NewSelect(positive, x, y), ir.NewSelect(positive, y, x)
	default:
		return divMagnitude(a, t)
	}
	//
	return Interval{lo, hi}
}

// divMagnitude bounds a division whose denominator is unknown (or may be zero),
// using the fact that integer division never increases magnitude.
func divMagnitude(a Interval, t ir.Type) Interval {
	switch {
	case t.IsFloat():
		return Everything()
	case t.IsUInt():
		return Interval{ir.MakeZero(t), a.Max}
	case !a.IsBounded():
		return Everything()
	}
	//
	var m ir.Expr
	//
	switch {
	case isNonNegative(a.Min):
		m = a.Max
	case isNonPositive(a.Max):
		m = sub(ir.MakeZero(t), a.Min)
	default:
		if neg := sub(ir.MakeZero(t), a.Min); neg != nil {
			m = MakeMax(neg, a.Max)
		}
	}
	//
	if m == nil {
		return Everything()
	}
	// The lower bound is the reflection of the upper.
	return Interval{orElse(sub(ir.MakeZero(t), m), NegInf), m}
}

// divCannotOverflow checks that a narrow signed division never divides the
// smallest value of its type by -1.
func divCannotOverflow(a, b Interval, t ir.Type) bool {
	minusOne := ir.MakeConst(t, -1)
	//
	switch {
	case a.HasLowerBound() && proves(ir.NewLT(t.Min(), a.Min)):
		return true
	case b.HasUpperBound() && proves(ir.NewLT(b.Max, minusOne)):
		return true
	case b.HasLowerBound() && proves(ir.NewLT(minusOne, b.Min)):
		return true
	default:
		return false
	}
}

func (p *boundsVisitor) visitMod(e *ir.Mod) Interval {
	a, b := p.bounds(e.A), p.bounds(e.B)
	//
	if r, ok := pointOf(e, e.A, e.B, a, b, func(x, y ir.Expr) ir.Expr { return ir.NewMod(x, y) }); ok {
		return r
	}
	//
	t := e.Type().ElementOf()
	zero := ir.MakeZero(t)
	//
	if t.IsFloat() {
		if b.IsBounded() && isPositive(b.Min) {
			return Interval{zero, b.Max}
		}
		//
		return Everything()
	} else if !b.IsBounded() {
		if isNonNegative(a.Min) && a.HasUpperBound() {
			return Interval{zero, a.Max}
		}
		//
		if t.CanOverflow() {
			return withinType(Interval{zero, PosInf}, t)
		}
		//
		return Interval{zero, PosInf}
	} else if ir.IsConstZero(b.Min) && ir.IsConstZero(b.Max) {
		// Modulo zero gives zero.
		return SinglePoint(zero)
	}
	//
	var hi ir.Expr
	//
	if t.IsUInt() || isPositive(b.Min) {
		hi = orElse(sub(b.Max, ir.MakeOne(t)), PosInf)
	} else {
		// The divisor may be negative, in which case the remainder is bounded
		// by its magnitude.
		hi = MakeMax(zero, orElse(sub(b.Max, ir.MakeOne(t)), PosInf))
		hi = MakeMax(hi, orElse(sub(ir.MakeConst(t, -1), b.Min), PosInf))
	}
	//
	if isNonNegative(a.Min) && a.HasUpperBound() {
		hi = MakeMin(hi, a.Max)
	}
	//
	return Interval{zero, hi}
}

func (p *boundsVisitor) visitMinMax(e, x, y ir.Expr, op func(a, b ir.Expr) ir.Expr) Interval {
	a, b := p.bounds(x), p.bounds(y)
	//
	if a.IsSinglePointOf(x) && b.IsSinglePointOf(y) {
		return SinglePoint(e)
	}
	//
	return Interval{op(a.Min, b.Min), op(a.Max, b.Max)}
}

func proves(e ir.Expr) bool {
	return ir.IsConstTrue(fold(e)) || simplify.CanProve(e)
}
