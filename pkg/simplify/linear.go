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
	"slices"
	"strings"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util/math"
)

// term is a non-linear subexpression scaled by a constant coefficient.
type term struct {
	coeff int64
	expr  ir.Expr
	key   string
}

// linear is a sum of scaled terms plus a constant, over a scalar integer type.
// Arithmetic on coefficients is performed modulo the width of the type, which
// makes rearrangement sound even for types which wrap on overflow.
type linear struct {
	typ      ir.Type
	terms    []term
	constant int64
}

// linearize decomposes an integer expression into a linear form.  This returns
// false for expressions which are not scalar integers.
func linearize(e ir.Expr) (linear, bool) {
	t := e.Type()
	//
	if !t.IsIntOrUInt() || !t.IsScalar() || t.IsBool() {
		return linear{}, false
	}
	//
	l := linear{typ: t}
	l.accumulate(e, 1)
	l.normalise()
	//
	return l, true
}

func (l *linear) accumulate(e ir.Expr, scale int64) {
	switch e := e.(type) {
	case *ir.IntImm:
		l.constant += scale * e.Value
	case *ir.UIntImm:
		l.constant += scale * int64(e.Value)
	case *ir.Add:
		l.accumulate(e.A, scale)
		l.accumulate(e.B, scale)
	case *ir.Sub:
		l.accumulate(e.A, scale)
		l.accumulate(e.B, -scale)
	case *ir.Mul:
		if c, ok := constValue(e.B); ok {
			l.accumulate(e.A, scale*c)
		} else if c, ok := constValue(e.A); ok {
			l.accumulate(e.B, scale*c)
		} else {
			l.add(e, scale)
		}
	default:
		l.add(e, scale)
	}
}

func (l *linear) add(e ir.Expr, coeff int64) {
	key := e.String()
	//
	for i := range l.terms {
		if l.terms[i].key == key {
			l.terms[i].coeff += coeff
			return
		}
	}
	//
	l.terms = append(l.terms, term{coeff, e, key})
}

// normalise wraps coefficients into the signed range of the type, and removes
// cancelled terms before sorting what remains.  The constant of an unsigned
// form is kept in the unsigned range of its type.
func (l *linear) normalise() {
	wrap := ir.Int(l.typ.Bits)
	//
	if l.typ.IsUInt() {
		l.constant = int64(uint64(l.constant) & l.typ.UIntMax())
	} else {
		l.constant = ir.WrapInt(wrap, l.constant)
	}
	//
	for i := range l.terms {
		l.terms[i].coeff = ir.WrapInt(wrap, l.terms[i].coeff)
	}
	//
	l.terms = slices.DeleteFunc(l.terms, func(t term) bool { return t.coeff == 0 })
	//
	slices.SortFunc(l.terms, func(a, b term) int { return strings.Compare(a.key, b.key) })
}

// sub computes the difference of two linear forms over the same type.
func (l linear) sub(o linear) linear {
	r := linear{typ: l.typ, terms: slices.Clone(l.terms), constant: l.constant - o.constant}
	//
	for _, t := range o.terms {
		r.add(t.expr, -t.coeff)
	}
	//
	r.normalise()
	//
	return r
}

// isConstant determines whether this linear form has no terms.
func (l linear) isConstant() bool {
	return len(l.terms) == 0
}

// divisibleBy determines whether every coefficient is a multiple of a given
// positive constant.
func (l linear) divisibleBy(c int64) bool {
	for _, t := range l.terms {
		if t.coeff%c != 0 {
			return false
		}
	}
	//
	return true
}

// allNegative determines whether every coefficient is negative.
func (l linear) allNegative() bool {
	for _, t := range l.terms {
		if t.coeff > 0 {
			return false
		}
	}
	//
	return len(l.terms) > 0
}

// negate returns the negation of this linear form.
func (l linear) negate() linear {
	r := linear{typ: l.typ, terms: make([]term, len(l.terms)), constant: -l.constant}
	//
	for i, t := range l.terms {
		r.terms[i] = term{-t.coeff, t.expr, t.key}
	}
	//
	r.normalise()
	//
	return r
}

// interval computes the range of values this linear form can take, assuming
// no overflow occurs.
func (l linear) interval() math.Interval {
	r := math.Point(l.constant)
	//
	for _, t := range l.terms {
		ti := ConstantInterval(t.expr)
		ti.Mul(math.Point(t.coeff))
		r.Add(ti)
	}
	//
	return r
}

// withoutConstant returns this linear form with a zero constant.
func (l linear) withoutConstant() linear {
	return linear{l.typ, l.terms, 0}
}

// scaleDown divides every coefficient by a constant which divides them all.
func (l linear) scaleDown(c int64) linear {
	r := linear{typ: l.typ, terms: make([]term, len(l.terms))}
	//
	for i, t := range l.terms {
		r.terms[i] = term{t.coeff / c, t.expr, t.key}
	}
	//
	return r
}

// expr rebuilds an expression from this linear form.  Positive terms come
// first, followed by negated terms and, finally, the constant.
func (l linear) expr() ir.Expr {
	var sum ir.Expr
	//
	for _, t := range l.terms {
		if t.coeff > 0 {
			sum = addTo(sum, scaled(t.expr, t.coeff))
		}
	}
	//
	for _, t := range l.terms {
		if t.coeff < 0 {
			if sum == nil {
				sum = ir.MakeConst(l.typ, l.constant)
				l.constant = 0
			}
			//
			sum = ir.NewSub(sum, scaled(t.expr, -t.coeff))
		}
	}
	//
	switch {
	case sum == nil:
		return ir.MakeConst(l.typ, l.constant)
	case l.typ.IsUInt() && l.constant != 0:
		return ir.NewAdd(sum, ir.MakeUIntConst(l.typ, uint64(l.constant)))
	case l.constant > 0:
		return ir.NewAdd(sum, ir.MakeConst(l.typ, l.constant))
	case l.constant < 0:
		return ir.NewSub(sum, ir.MakeConst(l.typ, -l.constant))
	default:
		return sum
	}
}

func addTo(sum, e ir.Expr) ir.Expr {
	if sum == nil {
		return e
	}
	//
	return ir.NewAdd(sum, e)
}

func scaled(e ir.Expr, coeff int64) ir.Expr {
	if coeff == 1 {
		return e
	}
	//
	return ir.NewMul(e, ir.MakeConst(e.Type(), coeff))
}

// constValue extracts the value of a scalar integer constant, reinterpreting
// unsigned values as signed.
func constValue(e ir.Expr) (int64, bool) {
	if v, ok := ir.AsConstInt(e); ok {
		return v, true
	} else if v, ok := ir.AsConstUInt(e); ok {
		return int64(v), true
	}
	//
	return 0, false
}
