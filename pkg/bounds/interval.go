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
	"fmt"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// NegInf is the marker used as the lower bound of an interval which is
// unbounded below.  It is not a numeric value and never appears inside
// arithmetic built by this package.
var NegInf ir.Expr = ir.NewVar("neg_inf", ir.Handle())

// PosInf is the marker used as the upper bound of an interval which is
// unbounded above.
var PosInf ir.Expr = ir.NewVar("pos_inf", ir.Handle())

// Interval is a (possibly symbolic) range [Min, Max] enclosing every value an
// expression can take.  Either bound may be infinite, which is represented by
// the markers NegInf / PosInf.  A nil bound is treated as infinite as well.
// Bounds are not required to be constants: they may be arbitrary expressions
// over variables which are not in scope.
type Interval struct {
	Min ir.Expr
	Max ir.Expr
}

// NewInterval constructs an interval from two bounds, where nil indicates an
// unbounded side.
func NewInterval(min, max ir.Expr) Interval {
	if min == nil {
		min = NegInf
	}
	//
	if max == nil {
		max = PosInf
	}
	//
	return Interval{min, max}
}

// Everything returns the interval with no bounds.
func Everything() Interval {
	return Interval{NegInf, PosInf}
}

// Nothing returns the empty interval, which is the identity of union.
func Nothing() Interval {
	return Interval{PosInf, NegInf}
}

// SinglePoint returns the interval holding exactly one value.
func SinglePoint(e ir.Expr) Interval {
	return Interval{e, e}
}

// IsNegInf checks whether an expression is (or stands for) minus infinity.
func IsNegInf(e ir.Expr) bool {
	return e == nil || e == NegInf
}

// IsPosInf checks whether an expression is (or stands for) plus infinity.
func IsPosInf(e ir.Expr) bool {
	return e == nil || e == PosInf
}

func isInf(e ir.Expr) bool {
	return e == nil || e == NegInf || e == PosInf
}

// HasLowerBound checks whether this interval is bounded below.
func (p Interval) HasLowerBound() bool {
	return !isInf(p.Min)
}

// HasUpperBound checks whether this interval is bounded above.
func (p Interval) HasUpperBound() bool {
	return !isInf(p.Max)
}

// IsBounded checks whether this interval is bounded on both sides.
func (p Interval) IsBounded() bool {
	return p.HasLowerBound() && p.HasUpperBound()
}

// IsEverything checks whether this interval is unbounded on both sides.
func (p Interval) IsEverything() bool {
	return IsNegInf(p.Min) && IsPosInf(p.Max)
}

// IsEmpty checks whether this is the empty interval.
func (p Interval) IsEmpty() bool {
	return p.Min == PosInf && p.Max == NegInf
}

// IsSinglePoint checks whether both bounds of this interval are the same
// expression.  This is a syntactic check: the bounds must either be the same
// node, or equal constants.
func (p Interval) IsSinglePoint() bool {
	if !p.IsBounded() {
		return false
	} else if p.Min == p.Max {
		return true
	}
	//
	return ir.IsConst(p.Min) && ir.IsConst(p.Max) && ir.Equal(p.Min, p.Max)
}

// IsSinglePointOf checks whether this interval holds exactly the given
// expression (by identity).  This is used to detect that the bounds of an
// expression are the expression itself, such that a node can be reused rather
// than rebuilt.
func (p Interval) IsSinglePointOf(e ir.Expr) bool {
	return p.Min == e && p.Max == e
}

// Include widens this interval to cover another.
func (p *Interval) Include(other Interval) {
	p.Min = MakeMin(p.Min, other.Min)
	p.Max = MakeMax(p.Max, other.Max)
}

// IncludeExpr widens this interval to cover a single value.
func (p *Interval) IncludeExpr(e ir.Expr) {
	p.Min = MakeMin(p.Min, e)
	p.Max = MakeMax(p.Max, e)
}

// MakeUnion returns the smallest interval covering both arguments.
func MakeUnion(a, b Interval) Interval {
	a.Include(b)
	return a
}

// MakeIntersection returns the largest interval covered by both arguments.
func MakeIntersection(a, b Interval) Interval {
	return Interval{MakeMax(a.Min, b.Min), MakeMin(a.Max, b.Max)}
}

// MakeMin constructs the minimum of two bounds, absorbing infinities and
// folding constants.
func MakeMin(a, b ir.Expr) ir.Expr {
	switch {
	case a == nil || b == nil:
		panic("undefined bound")
	case a == PosInf || b == NegInf:
		return b
	case b == PosInf || a == NegInf:
		return a
	case a == b:
		return a
	}
	//
	if c, ok := compareConsts(a, b); ok {
		if c <= 0 {
			return a
		}
		//
		return b
	}
	//
	return ir.NewMin(a, b)
}

// MakeMax constructs the maximum of two bounds, absorbing infinities and
// folding constants.
func MakeMax(a, b ir.Expr) ir.Expr {
	switch {
	case a == nil || b == nil:
		panic("undefined bound")
	case a == NegInf || b == PosInf:
		return b
	case b == NegInf || a == PosInf:
		return a
	case a == b:
		return a
	}
	//
	if c, ok := compareConsts(a, b); ok {
		if c >= 0 {
			return a
		}
		//
		return b
	}
	//
	return ir.NewMax(a, b)
}

// compareConsts orders two numeric constants of the same type.
func compareConsts(a, b ir.Expr) (int, bool) {
	if a.Type() != b.Type() {
		return 0, false
	} else if x, ok := ir.AsConstInt(a); ok {
		if y, ok := ir.AsConstInt(b); ok {
			return cmpValues(x, y), true
		}
	} else if x, ok := ir.AsConstUInt(a); ok {
		if y, ok := ir.AsConstUInt(b); ok {
			return cmpValues(x, y), true
		}
	} else if x, ok := ir.AsConstFloat(a); ok {
		if y, ok := ir.AsConstFloat(b); ok {
			return cmpValues(x, y), true
		}
	}
	//
	return 0, false
}

func cmpValues[T int64 | uint64 | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Simplified returns this interval with both (finite) bounds simplified.
func (p Interval) Simplified() Interval {
	if p.HasLowerBound() {
		p.Min = simplify.Simplify(p.Min)
	}
	//
	if p.HasUpperBound() {
		p.Max = simplify.Simplify(p.Max)
	}
	//
	return p
}

// Equal checks whether two intervals have structurally identical bounds.
func (p Interval) Equal(other Interval) bool {
	return equalBound(p.Min, other.Min, true) && equalBound(p.Max, other.Max, false)
}

func equalBound(a, b ir.Expr, lower bool) bool {
	if lower && (IsNegInf(a) || IsNegInf(b)) {
		return IsNegInf(a) && IsNegInf(b)
	} else if !lower && (IsPosInf(a) || IsPosInf(b)) {
		return IsPosInf(a) && IsPosInf(b)
	} else if isInf(a) || isInf(b) {
		return a == b
	}
	//
	return ir.Equal(a, b)
}

func (p Interval) String() string {
	return fmt.Sprintf("[%s, %s]", boundString(p.Min, "-∞"), boundString(p.Max, "+∞"))
}

func boundString(e ir.Expr, inf string) string {
	switch {
	case e == nil:
		return inf
	case e == NegInf:
		return "-∞"
	case e == PosInf:
		return "+∞"
	default:
		return e.String()
	}
}
