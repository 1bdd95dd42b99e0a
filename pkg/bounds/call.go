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
	"math"
	"math/big"
	"math/bits"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// lazyArgs computes the bounds of the arguments of a call on demand, at most
// once each.  Many intrinsics only look at some of their arguments.
type lazyArgs struct {
	visitor *boundsVisitor
	args    []ir.Expr
	cache   []*Interval
}

func newLazyArgs(visitor *boundsVisitor, args []ir.Expr) *lazyArgs {
	return &lazyArgs{visitor, args, make([]*Interval, len(args))}
}

func (p *lazyArgs) get(i int) Interval {
	if p.cache[i] == nil {
		r := p.visitor.bounds(p.args[i])
		p.cache[i] = &r
	}
	//
	return *p.cache[i]
}

func (p *lazyArgs) allSinglePoints() bool {
	for i := range p.args {
		if !p.get(i).IsSinglePoint() {
			return false
		}
	}
	//
	return true
}

func (p *lazyArgs) allConstant() bool {
	for i := range p.args {
		if !ir.IsConst(p.get(i).Min) {
			return false
		}
	}
	//
	return true
}

// pointCall replaces the arguments of a call with their single points.
func (p *lazyArgs) pointCall(e *ir.Call) *ir.Call {
	var (
		args    = make([]ir.Expr, len(p.args))
		changed = false
	)
	//
	for i, arg := range p.args {
		args[i] = p.get(i).Min
		changed = changed || !p.get(i).IsSinglePointOf(arg)
	}
	//
	if !changed {
		return e
	}
	//
	call := *e
	call.Args = args
	//
	return &call
}

type intrinsicHandler func(p *boundsVisitor, e *ir.Call, args *lazyArgs) Interval

// intrinsicHandlers gives the bounds rule for each intrinsic which has one.
// Initialised separately to break the initialisation cycle through the visitor.
var intrinsicHandlers map[string]intrinsicHandler

func init() {
	intrinsicHandlers = map[string]intrinsicHandler{
		ir.ReturnSecond:          func(_ *boundsVisitor, _ *ir.Call, args *lazyArgs) Interval { return args.get(1) },
		ir.Promise:               (*boundsVisitor).boundsOfPromise,
		ir.UnsafePromise:         (*boundsVisitor).boundsOfPromise,
		ir.Abs:                   (*boundsVisitor).boundsOfAbs,
		ir.Absd:                  (*boundsVisitor).boundsOfAbsd,
		ir.SaturatingCast:        (*boundsVisitor).boundsOfSaturatingCast,
		ir.SaturatingAdd:         (*boundsVisitor).boundsOfSaturatingArith,
		ir.SaturatingSub:         (*boundsVisitor).boundsOfSaturatingArith,
		ir.WideningAdd:           (*boundsVisitor).boundsOfWidening,
		ir.WideningSub:           (*boundsVisitor).boundsOfWidening,
		ir.WideningMul:           (*boundsVisitor).boundsOfWidening,
		ir.WideningShiftLeft:     (*boundsVisitor).boundsOfWidening,
		ir.WideningShiftRight:    (*boundsVisitor).boundsOfWidening,
		ir.ShiftLeft:             (*boundsVisitor).boundsOfShiftLeft,
		ir.ShiftRight:            (*boundsVisitor).boundsOfShiftRight,
		ir.BitwiseAnd:            (*boundsVisitor).boundsOfBitwise,
		ir.BitwiseOr:             (*boundsVisitor).boundsOfBitwise,
		ir.BitwiseXor:            (*boundsVisitor).boundsOfBitwise,
		ir.BitwiseNot:            (*boundsVisitor).boundsOfBitwiseNot,
		ir.CountLeadingZeros:     (*boundsVisitor).boundsOfBitCount,
		ir.CountTrailingZeros:    (*boundsVisitor).boundsOfBitCount,
		ir.PopCount:              (*boundsVisitor).boundsOfBitCount,
		ir.HalvingAdd:            (*boundsVisitor).boundsOfHalving,
		ir.RoundingHalvingAdd:    (*boundsVisitor).boundsOfHalving,
		ir.SortedAvg:             (*boundsVisitor).boundsOfHalving,
		ir.HalvingSub:            (*boundsVisitor).boundsOfHalvingSub,
		ir.MulShiftRight:         (*boundsVisitor).boundsOfMulShiftRight,
		ir.RoundingMulShiftRight: (*boundsVisitor).boundsOfMulShiftRight,
		ir.RoundingShiftLeft:     (*boundsVisitor).boundsOfRoundingShift,
		ir.RoundingShiftRight:    (*boundsVisitor).boundsOfRoundingShift,
		ir.Mux:                   (*boundsVisitor).boundsOfMux,
		ir.IfThenElseIntrinsic:   (*boundsVisitor).boundsOfIfThenElse,
	}
	//
	for name := range floatMath {
		intrinsicHandlers[name] = (*boundsVisitor).boundsOfFloatMath
	}
}

func (p *boundsVisitor) visitCall(e *ir.Call) Interval {
	args := newLazyArgs(p, e.Args)
	//
	if e.IsTag() {
		return args.get(0)
	}
	//
	handler, handled := intrinsicHandlers[e.Name]
	handled = handled && e.CallType != ir.CallHalide && e.CallType != ir.CallImage
	// A pure call of single points is itself a single point.  Constant
	// arguments are left to the handler, which can fold them.
	if !p.constBound && e.IsPure() && args.allSinglePoints() && !(handled && args.allConstant()) {
		return SinglePoint(args.pointCall(e))
	}
	//
	if handled {
		return handler(p, e, args)
	} else if e.CallType == ir.CallHalide {
		if r, ok := p.ctx.funcBounds[FuncKey{e.Name, e.ValueIndex}]; ok {
			return r
		}
	}
	//
	return boundsOfType(e.Type())
}

func (p *boundsVisitor) boundsOfPromise(e *ir.Call, args *lazyArgs) Interval {
	r, lo, hi := args.get(0), args.get(1), args.get(2)
	//
	if lo.HasLowerBound() && compatible(r.Min, lo.Min) {
		r.Min = MakeMax(r.Min, lo.Min)
	}
	//
	if hi.HasUpperBound() && compatible(r.Max, hi.Max) {
		r.Max = MakeMin(r.Max, hi.Max)
	}
	//
	return r
}

func (p *boundsVisitor) boundsOfAbs(e *ir.Call, args *lazyArgs) Interval {
	var (
		a    = args.get(0)
		t    = e.Type().ElementOf()
		zero = ir.MakeZero(t)
		top  = boundsOfType(t).Max
	)
	//
	abs := func(x ir.Expr) ir.Expr {
		return fold(ir.NewIntrinsic(t, ir.Abs, x))
	}
	//
	switch {
	case isNonNegative(a.Min):
		if a.HasUpperBound() {
			top = abs(a.Max)
		}
		//
		return Interval{abs(a.Min), top}
	case isNonPositive(a.Max):
		if a.HasLowerBound() {
			top = abs(a.Min)
		}
		//
		return Interval{abs(a.Max), top}
	case a.IsBounded():
		return Interval{zero, MakeMax(abs(a.Min), abs(a.Max))}
	default:
		return Interval{zero, top}
	}
}

func (p *boundsVisitor) boundsOfAbsd(e *ir.Call, args *lazyArgs) Interval {
	var (
		a, b = args.get(0), args.get(1)
		t    = e.Type().ElementOf()
	)
	//
	if t.IsFloat() {
		return Interval{ir.MakeZero(t), PosInf}
	}
	//
	aMin, ok1 := asBig(a.Min)
	aMax, ok2 := asBig(a.Max)
	bMin, ok3 := asBig(b.Min)
	bMax, ok4 := asBig(b.Max)
	//
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Interval{ir.MakeZero(t), t.Max()}
	}
	//
	var lo, hi, other big.Int
	// The least distance is zero, unless the ranges are disjoint.
	if aMax.Cmp(bMin) < 0 {
		lo.Sub(bMin, aMax)
	} else if bMax.Cmp(aMin) < 0 {
		lo.Sub(aMin, bMax)
	}
	//
	hi.Sub(bMax, aMin)
	other.Sub(aMax, bMin)
	//
	if other.Cmp(&hi) > 0 {
		hi.Set(&other)
	}
	//
	return Interval{bigConst(t, &lo), bigConst(t, &hi)}
}

func (p *boundsVisitor) boundsOfSaturatingCast(e *ir.Call, _ *lazyArgs) Interval {
	return p.saturatingCast(e.Type(), e.Args[0])
}

// saturatingCast computes the bounds of a saturating cast, by clamping the
// value to the range of the target type before casting it.
func (p *boundsVisitor) saturatingCast(t ir.Type, x ir.Expr) Interval {
	var (
		from    = x.Type().ElementOf()
		to      = t.ElementOf()
		clamped = x
	)
	//
	if !to.IsFloat() {
		fromRange, toRange := simplify.TypeInterval(from), simplify.TypeInterval(to)
		fromMin, fromMax := fromRange.MinValue(), fromRange.MaxValue()
		toMin, toMax := toRange.MinValue(), toRange.MaxValue()
		//
		if from.IsFloat() || fromMin.Cmp(toMin) < 0 {
			clamped = ir.NewMax(clamped, splat(fold(ir.NewCast(from, to.Min())), t.Lanes))
		}
		//
		if from.IsFloat() || toMax.Cmp(fromMax) < 0 {
			clamped = ir.NewMin(clamped, splat(fold(ir.NewCast(from, to.Max())), t.Lanes))
		}
	}
	//
	return p.bounds(ir.NewCast(t, clamped))
}

func (p *boundsVisitor) boundsOfSaturatingArith(e *ir.Call, _ *lazyArgs) Interval {
	t := e.Type()
	//
	if el := t.ElementOf(); el.Bits > 32 || !el.IsIntOrUInt() {
		return boundsOfType(t)
	}
	//
	var (
		wide = ir.Int(2 * t.Bits).WithLanes(t.Lanes)
		x    = ir.NewCast(wide, e.Args[0])
		y    = ir.NewCast(wide, e.Args[1])
	)
	//
	if e.Name == ir.SaturatingAdd {
		return p.saturatingCast(t, ir.NewAdd(x, y))
	}
	//
	return p.saturatingCast(t, ir.NewSub(x, y))
}

func (p *boundsVisitor) boundsOfWidening(e *ir.Call, _ *lazyArgs) Interval {
	var (
		t = e.Type()
		x = ir.NewCast(t, e.Args[0])
	)
	//
	switch e.Name {
	case ir.WideningAdd:
		return p.bounds(ir.NewAdd(x, ir.NewCast(t, e.Args[1])))
	case ir.WideningSub:
		return p.bounds(ir.NewSub(x, ir.NewCast(t, e.Args[1])))
	case ir.WideningMul:
		return p.bounds(ir.NewMul(x, ir.NewCast(t, e.Args[1])))
	case ir.WideningShiftLeft:
		return p.bounds(ir.NewIntrinsic(t, ir.ShiftLeft, x, e.Args[1]))
	default:
		return p.bounds(ir.NewIntrinsic(t, ir.ShiftRight, x, e.Args[1]))
	}
}

// constShift extracts a constant shift amount.
func constShift(i Interval) (int64, bool) {
	if !i.IsSinglePoint() {
		return 0, false
	} else if v, ok := ir.AsConstInt(i.Min); ok {
		return v, true
	} else if v, ok := ir.AsConstUInt(i.Min); ok && v <= math.MaxInt32 {
		return int64(v), true
	}
	//
	return 0, false
}

// shiftLeft computes the bounds of x << c, as x * 2^c.
func (p *boundsVisitor) shiftLeft(x ir.Expr, c int64) Interval {
	t := x.Type()
	//
	if c < 0 || c >= int64(t.Bits) || !t.CanRepresentInt(int64(1)<<c) {
		return boundsOfType(t)
	}
	//
	return p.bounds(ir.NewMul(x, ir.MakeConst(t, int64(1)<<c)))
}

// shr computes a bound of x >> k, as x / 2^k, for 0 < k < bits.  When 2^k is
// not representable (only for signed types) the result is either -1 or 0.
func shr(x ir.Expr, k int64, lower bool) ir.Expr {
	t := x.Type()
	//
	switch {
	case t.IsUInt():
		return orElse(div(x, ir.MakeUIntConst(t, uint64(1)<<k)), x)
	case t.CanRepresentInt(int64(1) << k):
		return orElse(div(x, ir.MakeConst(t, int64(1)<<k)), x)
	case lower:
		return ir.MakeConst(t, -1)
	default:
		return ir.MakeZero(t)
	}
}

func (p *boundsVisitor) boundsOfShiftLeft(e *ir.Call, args *lazyArgs) Interval {
	t := e.Type().ElementOf()
	//
	if c, ok := constShift(args.get(1)); !ok || !t.IsIntOrUInt() {
		return boundsOfType(t)
	} else if c == 0 {
		return args.get(0)
	} else if c < 0 {
		return shiftRightBy(withinType(args.get(0), t), -c, t)
	} else {
		return p.shiftLeft(e.Args[0], c)
	}
}

func shiftRightBy(a Interval, c int64, t ir.Type) Interval {
	if c >= int64(t.Bits) {
		return boundsOfType(t)
	}
	//
	return Interval{shr(a.Min, c, true), shr(a.Max, c, false)}
}

func (p *boundsVisitor) boundsOfShiftRight(e *ir.Call, args *lazyArgs) Interval {
	t := e.Type().ElementOf()
	//
	if !t.IsIntOrUInt() {
		return boundsOfType(t)
	}
	//
	a, b := withinType(args.get(0), t), args.get(1)
	//
	if c, ok := constShift(b); ok {
		switch {
		case c == 0:
			return a
		case c < 0:
			return p.shiftLeft(e.Args[0], -c)
		default:
			return shiftRightBy(a, c, t)
		}
	}
	// A range of shift amounts.
	lo, ok1 := ir.AsConstFloat64(b.Min)
	hi, ok2 := ir.AsConstFloat64(b.Max)
	//
	if !ok1 || !ok2 || lo < 0 || hi >= float64(t.Bits) {
		return boundsOfType(t)
	}
	//
	x, y := int64(lo), int64(hi)
	r := Interval{}
	//
	switch {
	case isNonNegative(a.Min):
		r.Min = shr(a.Min, y, true)
	case isNegative(a.Min):
		r.Min = shr(a.Min, x, true)
	default:
		r.Min = MakeMin(shr(a.Min, x, true), shr(a.Min, y, true))
	}
	//
	switch {
	case isNonNegative(a.Max):
		r.Max = shr(a.Max, x, false)
	case isNegative(a.Max):
		r.Max = shr(a.Max, y, false)
	default:
		r.Max = MakeMax(shr(a.Max, x, false), shr(a.Max, y, false))
	}
	//
	return r
}

func (p *boundsVisitor) boundsOfBitwise(e *ir.Call, args *lazyArgs) Interval {
	var (
		t    = e.Type().ElementOf()
		a, b = args.get(0), args.get(1)
		zero = ir.MakeZero(t)
		top  = boundsOfType(t).Max
	)
	//
	if !t.IsIntOrUInt() {
		return boundsOfType(t)
	} else if x, ok := asBits(a); ok {
		if y, ok := asBits(b); ok {
			return SinglePoint(bitsConst(t, bitwise(e.Name, x, y)))
		}
	}
	//
	var (
		aNonNeg = t.IsUInt() || isNonNegative(a.Min)
		bNonNeg = t.IsUInt() || isNonNegative(b.Min)
		aNeg    = isNegative(a.Max)
		bNeg    = isNegative(b.Max)
		r       Interval
	)
	//
	switch e.Name {
	case ir.BitwiseAnd:
		switch {
		case aNonNeg && bNonNeg:
			r = Interval{zero, MakeMin(a.Max, b.Max)}
		case aNonNeg:
			r = Interval{zero, a.Max}
		case bNonNeg:
			r = Interval{zero, b.Max}
		case aNeg && bNeg:
			r = Interval{t.Min(), MakeMin(a.Max, b.Max)}
		default:
			return boundsOfType(t)
		}
	case ir.BitwiseOr:
		switch {
		case aNonNeg && bNonNeg:
			r = Interval{MakeMax(a.Min, b.Min), orElse(smear(MakeMax(a.Max, b.Max), t), top)}
		case aNeg && bNeg:
			r = Interval{MakeMax(a.Min, b.Min), ir.MakeConst(t, -1)}
		case aNeg:
			r = Interval{a.Min, ir.MakeConst(t, -1)}
		case bNeg:
			r = Interval{b.Min, ir.MakeConst(t, -1)}
		default:
			return boundsOfType(t)
		}
	default:
		if !aNonNeg || !bNonNeg {
			return boundsOfType(t)
		}
		//
		r = Interval{zero, orElse(smear(MakeMax(a.Max, b.Max), t), top)}
	}
	//
	return withinType(r, t)
}

// smear returns the smallest all-ones bit pattern covering a non-negative
// constant, or nil if the bound is not constant.
func smear(e ir.Expr, t ir.Type) ir.Expr {
	if v, ok := asBits(SinglePoint(e)); ok {
		return bitsConst(t, uint64(1)<<bits.Len64(v)-1)
	}
	//
	return nil
}

func bitwise(name string, x, y uint64) uint64 {
	switch name {
	case ir.BitwiseAnd:
		return x & y
	case ir.BitwiseOr:
		return x | y
	default:
		return x ^ y
	}
}

func (p *boundsVisitor) boundsOfBitwiseNot(e *ir.Call, args *lazyArgs) Interval {
	t := e.Type().ElementOf()
	//
	if !t.IsIntOrUInt() || t.IsBool() {
		return boundsOfType(t)
	}
	//
	a := withinType(args.get(0), t)
	// Bitwise negation reverses the order.
	if t.IsUInt() {
		return Interval{fold(ir.NewSub(t.Max(), a.Max)), fold(ir.NewSub(t.Max(), a.Min))}
	}
	//
	minusOne := ir.MakeConst(t, -1)
	//
	return Interval{fold(ir.NewSub(minusOne, a.Max)), fold(ir.NewSub(minusOne, a.Min))}
}

func (p *boundsVisitor) boundsOfBitCount(e *ir.Call, _ *lazyArgs) Interval {
	t := e.Type().ElementOf()
	//
	return Interval{ir.MakeZero(t), ir.MakeConst(t, int64(e.Args[0].Type().Bits))}
}

func (p *boundsVisitor) boundsOfHalving(e *ir.Call, _ *lazyArgs) Interval {
	t := e.Type()
	el := t.ElementOf()
	//
	if el.Bits > 32 || !el.IsIntOrUInt() {
		return boundsOfType(t)
	}
	//
	var (
		wide = ir.Int(2 * el.Bits).WithLanes(t.Lanes)
		sum  = ir.Expr(ir.NewAdd(ir.NewCast(wide, e.Args[0]), ir.NewCast(wide, e.Args[1])))
	)
	//
	if e.Name == ir.RoundingHalvingAdd {
		sum = ir.NewAdd(sum, ir.MakeOne(wide))
	}
	// The average always lies within the type, so no overflow check is
	// needed on the way back.
	r := withinType(p.bounds(ir.NewDiv(sum, ir.MakeConst(wide, 2))), wide.ElementOf())
	//
	return Interval{fold(ir.NewCast(el, r.Min)), fold(ir.NewCast(el, r.Max))}
}

func (p *boundsVisitor) boundsOfHalvingSub(e *ir.Call, _ *lazyArgs) Interval {
	t := e.Type()
	el := t.ElementOf()
	//
	if el.Bits > 32 || !el.IsIntOrUInt() {
		return boundsOfType(t)
	}
	//
	wide := ir.Int(2 * el.Bits).WithLanes(t.Lanes)
	diff := ir.NewSub(ir.NewCast(wide, e.Args[0]), ir.NewCast(wide, e.Args[1]))
	//
	return p.bounds(ir.NewCast(t, ir.NewDiv(diff, ir.MakeConst(wide, 2))))
}

func (p *boundsVisitor) boundsOfMulShiftRight(e *ir.Call, args *lazyArgs) Interval {
	t := e.Type()
	el := t.ElementOf()
	q, ok := constShift(args.get(2))
	//
	if !ok || el.Bits > 32 || !el.IsIntOrUInt() || q < 0 || q >= 2*int64(el.Bits) {
		return boundsOfType(t)
	}
	//
	var (
		wide    = t.WithBits(2 * el.Bits)
		product = ir.Expr(ir.NewMul(ir.NewCast(wide, e.Args[0]), ir.NewCast(wide, e.Args[1])))
	)
	//
	if e.Name == ir.RoundingMulShiftRight && q > 0 {
		product = ir.NewAdd(product, ir.MakeConst(wide, int64(1)<<(q-1)))
	}
	//
	shifted := ir.NewIntrinsic(wide, ir.ShiftRight, product, ir.MakeConst(wide, q))
	//
	return p.saturatingCast(t, shifted)
}

func (p *boundsVisitor) boundsOfRoundingShift(e *ir.Call, args *lazyArgs) Interval {
	var (
		t     = e.Type()
		el    = t.ElementOf()
		c, ok = constShift(args.get(1))
	)
	//
	if e.Name == ir.RoundingShiftLeft {
		c = -c
	}
	//
	switch {
	case !ok || !el.IsIntOrUInt():
		return boundsOfType(t)
	case c == 0:
		return args.get(0)
	case c < 0:
		return p.shiftLeft(e.Args[0], -c)
	case el.Bits > 32 || c >= int64(el.Bits):
		return boundsOfType(t)
	}
	// Shifting right, rounding to nearest.
	wide := t.WithBits(2 * el.Bits)
	biased := ir.NewAdd(ir.NewCast(wide, e.Args[0]), ir.MakeConst(wide, int64(1)<<(c-1)))
	shifted := ir.NewIntrinsic(wide, ir.ShiftRight, biased, ir.MakeConst(wide, c))
	//
	return p.bounds(ir.NewCast(t, shifted))
}

func (p *boundsVisitor) boundsOfMux(_ *ir.Call, args *lazyArgs) Interval {
	r := Nothing()
	//
	for i := 1; i < len(args.args); i++ {
		r.Include(args.get(i))
	}
	//
	return r
}

func (p *boundsVisitor) boundsOfIfThenElse(e *ir.Call, args *lazyArgs) Interval {
	c := boolBounds(args.get(0))
	//
	switch {
	case len(e.Args) < 3 || ir.IsConstTrue(c.Min):
		return args.get(1)
	case ir.IsConstFalse(c.Max):
		return args.get(2)
	default:
		return MakeUnion(args.get(1), args.get(2))
	}
}

// floatFunction describes a monotonically non-decreasing function on floats.
type floatFunction struct {
	eval func(float64) float64
	// least is the smallest result, used when the argument has no suitable
	// lower bound.
	least float64
	// valid checks that the lower bound of the argument is within the domain.
	valid func(ir.Expr) bool
}

var floatMath = map[string]floatFunction{
	ir.SqrtF32:  {math.Sqrt, 0, isNonNegative},
	ir.SqrtF64:  {math.Sqrt, 0, isNonNegative},
	ir.ExpF32:   {math.Exp, 0, hasBound},
	ir.ExpF64:   {math.Exp, 0, hasBound},
	ir.LogF32:   {math.Log, math.Inf(-1), isPositive},
	ir.LogF64:   {math.Log, math.Inf(-1), isPositive},
	ir.FloorF32: {math.Floor, math.Inf(-1), hasBound},
	ir.FloorF64: {math.Floor, math.Inf(-1), hasBound},
	ir.CeilF32:  {math.Ceil, math.Inf(-1), hasBound},
	ir.CeilF64:  {math.Ceil, math.Inf(-1), hasBound},
	ir.RoundF32: {math.RoundToEven, math.Inf(-1), hasBound},
	ir.RoundF64: {math.RoundToEven, math.Inf(-1), hasBound},
	ir.TruncF32: {math.Trunc, math.Inf(-1), hasBound},
	ir.TruncF64: {math.Trunc, math.Inf(-1), hasBound},
}

func hasBound(e ir.Expr) bool { return !isInf(e) }

func (p *boundsVisitor) boundsOfFloatMath(e *ir.Call, args *lazyArgs) Interval {
	var (
		fn = floatMath[e.Name]
		a  = args.get(0)
		t  = e.Type().ElementOf()
		r  = Everything()
	)
	//
	apply := func(x ir.Expr) ir.Expr {
		call := *e
		call.Args = []ir.Expr{x}
		//
		return fold(&call)
	}
	//
	if fn.valid(a.Min) {
		r.Min = apply(a.Min)
	} else if !math.IsInf(fn.least, -1) {
		r.Min = ir.MakeFloatConst(t, fn.least)
	}
	//
	if a.HasUpperBound() {
		r.Max = apply(a.Max)
	}
	//
	return r
}

// splat broadcasts a scalar to a given number of lanes.
func splat(e ir.Expr, lanes uint16) ir.Expr {
	if lanes > 1 {
		return ir.NewBroadcast(e, lanes)
	}
	//
	return e
}

// asBits extracts the bit pattern of a constant single point.
func asBits(i Interval) (uint64, bool) {
	if !i.IsSinglePoint() {
		return 0, false
	} else if v, ok := ir.AsConstInt(i.Min); ok {
		return uint64(v), true
	}
	//
	return ir.AsConstUInt(i.Min)
}

// bitsConst constructs a constant of a given type from a bit pattern.
func bitsConst(t ir.Type, v uint64) ir.Expr {
	if t.IsUInt() {
		return ir.MakeUIntConst(t, v)
	}
	//
	return ir.MakeConst(t, int64(v))
}

// asBig extracts the value of an integer constant.
func asBig(e ir.Expr) (*big.Int, bool) {
	if isInf(e) {
		return nil, false
	} else if v, ok := ir.AsConstInt(e); ok {
		return big.NewInt(v), true
	} else if v, ok := ir.AsConstUInt(e); ok {
		return new(big.Int).SetUint64(v), true
	}
	//
	return nil, false
}

// bigConst constructs a constant of a given type, saturating at the type's
// extremes.
func bigConst(t ir.Type, v *big.Int) ir.Expr {
	r := simplify.TypeInterval(t)
	//
	switch {
	case !r.Contains(*v) && v.Sign() < 0:
		return t.Min()
	case !r.Contains(*v):
		return t.Max()
	case t.IsUInt():
		return ir.MakeUIntConst(t, v.Uint64())
	default:
		return ir.MakeConst(t, v.Int64())
	}
}
