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
	"strings"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// Box is a multi-dimensional region of a buffer or function: one interval per
// dimension.  A box may additionally be guarded by a boolean expression, in
// which case the region is only touched when the guard holds.  An absent guard
// means the region is always touched.
type Box struct {
	Bounds []Interval
	Used   ir.Expr
}

// NewBox constructs an unguarded box of a given dimensionality, where every
// dimension is unbounded.
func NewBox(dims int) Box {
	box := Box{Bounds: make([]Interval, dims)}
	for i := range box.Bounds {
		box.Bounds[i] = Everything()
	}
	//
	return box
}

// Size returns the number of dimensions of this box.
func (p Box) Size() int {
	return len(p.Bounds)
}

// Empty checks whether this box has no dimensions.
func (p Box) Empty() bool {
	return len(p.Bounds) == 0
}

// Resize changes the number of dimensions of this box.  New dimensions are
// unbounded.
func (p *Box) Resize(n int) {
	for len(p.Bounds) < n {
		p.Bounds = append(p.Bounds, Everything())
	}
	//
	p.Bounds = p.Bounds[:n]
}

// MaybeUnused checks whether this box might not actually be touched, i.e. it
// has a guard which is not trivially true.
func (p Box) MaybeUnused() bool {
	return p.Used != nil && !ir.IsConstTrue(p.Used)
}

// Clone returns a copy of this box which shares no intervals with it.
func (p Box) Clone() Box {
	bounds := make([]Interval, len(p.Bounds))
	copy(bounds, p.Bounds)
	//
	return Box{bounds, p.Used}
}

// Simplified returns a copy of this box with every bound, and its guard,
// simplified.
func (p Box) Simplified() Box {
	r := p.Clone()
	//
	for i := range r.Bounds {
		r.Bounds[i] = r.Bounds[i].Simplified()
	}
	//
	if r.Used != nil {
		r.Used = simplify.Simplify(r.Used)
	}
	//
	return r
}

func (p Box) String() string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, b := range p.Bounds {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(b.String())
	}
	//
	builder.WriteString("}")
	//
	if p.Used != nil {
		builder.WriteString(fmt.Sprintf(" if %s", p.Used))
	}
	//
	return builder.String()
}

// MergeBoxes widens a box in place so that it also covers another.  Merging
// only ever loosens a box: if either box is unconditionally touched, so is the
// result.  When both boxes are guarded, the bounds are selected according to
// which guards hold, so that a box guarded by a condition and one guarded by
// its negation merge without any loss of precision.
func MergeBoxes(a *Box, b Box) {
	if b.Empty() {
		return
	} else if a.Empty() {
		*a = b.Clone()
		return
	} else if a.Size() != b.Size() {
		panic(fmt.Sprintf("merging boxes of differing dimensionality (%d vs %d)", a.Size(), b.Size()))
	}
	//
	var (
		aUnused       = a.MaybeUnused()
		bUnused       = b.MaybeUnused()
		complementary = aUnused && bUnused && areComplementary(a.Used, b.Used)
	)
	//
	a.Bounds = append([]Interval(nil), a.Bounds...)
	//
	for i := range a.Bounds {
		ai, bi := &a.Bounds[i], b.Bounds[i]
		//
		if ai.Min != bi.Min {
			if ai.HasLowerBound() && bi.HasLowerBound() {
				ai.Min = simplify.Simplify(mergeBound(ai.Min, bi.Min, a.Used, b.Used, aUnused, bUnused,
					complementary, MakeMin))
			} else {
				ai.Min = NegInf
			}
		}
		//
		if ai.Max != bi.Max {
			if ai.HasUpperBound() && bi.HasUpperBound() {
				ai.Max = simplify.Simplify(mergeBound(ai.Max, bi.Max, a.Used, b.Used, aUnused, bUnused,
					complementary, MakeMax))
			} else {
				ai.Max = PosInf
			}
		}
	}
	//
	switch {
	case complementary:
		a.Used = nil
	case aUnused && bUnused:
		if !ir.Equal(a.Used, b.Used) {
			a.Used = simplify.Simplify(ir.NewOr(a.Used, b.Used))
			//
			if ir.IsConstTrue(a.Used) {
				a.Used = nil
			}
		}
	default:
		a.Used = nil
	}
}

// mergeBound combines one side of two intervals, taking into account that
// either box may not be used.
func mergeBound(x, y, xUsed, yUsed ir.Expr, xUnused, yUnused, complementary bool,
	combine func(ir.Expr, ir.Expr) ir.Expr) ir.Expr {
	switch {
	case complementary:
		return ir.NewSelect(xUsed, x, y)
	case xUnused && yUnused:
		return ir.NewSelect(ir.NewAnd(xUsed, yUsed), combine(x, y), ir.NewSelect(xUsed, x, y))
	case xUnused:
		return ir.NewSelect(xUsed, combine(x, y), y)
	case yUnused:
		return ir.NewSelect(yUsed, combine(x, y), x)
	default:
		return combine(x, y)
	}
}

// areComplementary checks whether one guard is (syntactically, after
// simplification) the negation of the other.
func areComplementary(a, b ir.Expr) bool {
	var (
		sa = simplify.Simplify(a)
		sb = simplify.Simplify(b)
	)
	//
	return ir.Equal(sa, simplify.Simplify(ir.NewNot(b))) || ir.Equal(simplify.Simplify(ir.NewNot(a)), sb)
}

// BoxUnion returns the smallest box covering both arguments.
func BoxUnion(a, b Box) Box {
	result := a.Clone()
	MergeBoxes(&result, b)
	//
	return result
}

// BoxIntersection returns the region covered by both arguments.  This is only
// touched when both boxes are touched.
func BoxIntersection(a, b Box) Box {
	if a.Empty() || b.Empty() {
		return Box{}
	} else if a.Size() != b.Size() {
		panic(fmt.Sprintf("intersecting boxes of differing dimensionality (%d vs %d)", a.Size(), b.Size()))
	}
	//
	result := Box{Bounds: make([]Interval, a.Size())}
	//
	for i := range a.Bounds {
		result.Bounds[i] = MakeIntersection(a.Bounds[i], b.Bounds[i]).Simplified()
	}
	//
	switch {
	case a.Used != nil && b.Used != nil:
		result.Used = simplify.Simplify(ir.NewAnd(a.Used, b.Used))
	case a.Used != nil:
		result.Used = a.Used
	default:
		result.Used = b.Used
	}
	//
	return result
}

// BoxesOverlap checks whether two boxes may overlap.  This is conservative:
// boxes are assumed to overlap unless it can be proven that they do not.
func BoxesOverlap(a, b Box) bool {
	// A scalar box cannot overlap a non-scalar one.
	if a.Size() != b.Size() && (a.Empty() || b.Empty()) {
		return false
	} else if a.Size() != b.Size() {
		panic(fmt.Sprintf("overlapping boxes of differing dimensionality (%d vs %d)", a.Size(), b.Size()))
	}
	//
	overlap := ir.ConstTrue(1)
	//
	if a.MaybeUnused() {
		overlap = a.Used
	}
	//
	if b.MaybeUnused() {
		overlap = ir.NewAnd(overlap, b.Used)
	}
	//
	for i := range a.Bounds {
		ai, bi := a.Bounds[i], b.Bounds[i]
		//
		if ai.HasUpperBound() && bi.HasLowerBound() {
			overlap = ir.NewAnd(overlap, ir.NewLE(bi.Min, ai.Max))
		}
		//
		if ai.HasLowerBound() && bi.HasUpperBound() {
			overlap = ir.NewAnd(overlap, ir.NewLE(ai.Min, bi.Max))
		}
	}
	//
	return !simplify.CanProve(ir.NewNot(overlap))
}

// BoxContains checks whether an outer box provably contains an inner box.  If
// the outer box is guarded, the inner box must only be used when the outer box
// is.
func BoxContains(outer, inner Box) bool {
	if inner.Size() > outer.Size() {
		return false
	}
	//
	condition := ir.ConstTrue(1)
	//
	for i, in := range inner.Bounds {
		out := outer.Bounds[i]
		//
		if (out.HasLowerBound() && !in.HasLowerBound()) || (out.HasUpperBound() && !in.HasUpperBound()) {
			return false
		}
		//
		if out.HasLowerBound() {
			condition = ir.NewAnd(condition, ir.NewLE(out.Min, in.Min))
		}
		//
		if out.HasUpperBound() {
			condition = ir.NewAnd(condition, ir.NewLE(in.Max, out.Max))
		}
	}
	//
	if outer.MaybeUnused() {
		if inner.MaybeUnused() {
			condition = ir.NewAnd(condition, ir.NewOr(ir.NewNot(inner.Used), outer.Used))
		} else {
			condition = ir.NewAnd(condition, outer.Used)
		}
	}
	//
	return simplify.CanProve(condition)
}
