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
	"math/rand/v2"
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	"github.com/go-quicktest/qt"
)

var (
	i32 = ir.Int(32)
	u8  = ir.UInt(8)
	u16 = ir.UInt(16)
	x   = ir.NewVar("x", i32)
	y   = ir.NewVar("y", i32)
)

func Test_Bounds_01(t *testing.T) {
	s := rangeScope("x", 0, 10)
	checkBounds(t, ir.NewAdd(x, ir.I32(1)), s, ir.I32(1), ir.I32(11))
	checkBounds(t, ir.NewMul(ir.NewAdd(x, ir.I32(1)), ir.I32(2)), s, ir.I32(2), ir.I32(22))
	checkBounds(t, ir.NewMul(x, x), s, ir.I32(0), ir.I32(100))
	checkBounds(t, ir.NewSub(ir.I32(5), x), s, ir.I32(-5), ir.I32(5))
}

func Test_Bounds_02(t *testing.T) {
	s := rangeScope("x", 0, 10)
	e := ir.NewSelect(ir.NewLT(x, ir.I32(4)), x, ir.NewAdd(x, ir.I32(100)))
	checkBounds(t, e, s, ir.I32(0), ir.I32(110))
}

func Test_Bounds_03(t *testing.T) {
	s := rangeScope("x", 0, 10)
	checkBounds(t, ir.NewDiv(ir.I32(11), ir.NewAdd(x, ir.I32(1))), s, ir.I32(1), ir.I32(11))
	checkBounds(t, ir.NewCast(u16, ir.NewDiv(x, ir.I32(2))), s, ir.MakeUIntConst(u16, 0),
		ir.MakeUIntConst(u16, 5))
}

func Test_Bounds_04(t *testing.T) {
	s := rangeScope("x", 0, 10)
	checkBounds(t, ir.NewLT(x, ir.I32(5)), s, ir.ConstFalse(1), ir.ConstTrue(1))
	checkBounds(t, ir.NewLT(x, ir.I32(11)), s, ir.ConstTrue(1), ir.ConstTrue(1))
	checkBounds(t, ir.NewEQ(x, ir.I32(20)), s, ir.ConstFalse(1), ir.ConstFalse(1))
}

func Test_Bounds_05(t *testing.T) {
	s := rangeScope("x", 0, 10)
	// y is not in scope, so remains symbolic.
	body := ir.NewAdd(ir.NewSub(y, x), ir.I32(10))
	e := ir.NewAdd(y, ir.NewLet("y", ir.NewAdd(x, ir.I32(3)), body))
	checkBounds(t, e, s, ir.NewAdd(y, ir.I32(3)), ir.NewAdd(y, ir.I32(23)))
}

func Test_Bounds_06(t *testing.T) {
	s := rangeScope("x", 0, 10)
	ux := ir.NewCast(u8, x)
	checkBounds(t, ir.NewAdd(ux, u8c(250)), s, u8c(0), u8c(255))
	checkBounds(t, ir.NewAdd(ux, u8c(240)), s, u8c(240), u8c(250))
}

func Test_Bounds_07(t *testing.T) {
	s := rangeScope("x", 0, 10)
	ux := ir.NewCast(u8, x)
	checkBounds(t, ir.NewMul(ir.NewAdd(ux, u8c(10)), u8c(10)), s, u8c(100), u8c(200))
	checkBounds(t, ir.NewMul(ir.NewAdd(ux, u8c(10)), ux), s, u8c(0), u8c(200))
}

func Test_Bounds_08(t *testing.T) {
	s := rangeScope("x", 0, 10)
	ux := ir.NewCast(u8, x)
	e1 := ir.NewSub(ir.NewAdd(ux, u8c(20)), ir.NewAdd(ux, u8c(5)))
	e2 := ir.NewSub(ir.NewAdd(ux, u8c(10)), ir.NewAdd(ux, u8c(5)))
	checkBounds(t, e1, s, u8c(5), u8c(25))
	checkBounds(t, e2, s, u8c(0), u8c(255))
}

func Test_Bounds_09(t *testing.T) {
	s := rangeScope("y", -5, 10)
	s.Push("x", Everything())
	//
	checkBounds(t, ir.NewDiv(y, x), s, ir.I32(-10), ir.I32(10))
}

func Test_Bounds_10(t *testing.T) {
	s := rangeScope("x", -3, 7)
	checkBounds(t, ir.NewMod(x, ir.I32(4)), s, ir.I32(0), ir.I32(3))
	checkBounds(t, ir.NewMin(x, ir.I32(2)), s, ir.I32(-3), ir.I32(2))
	checkBounds(t, ir.NewMax(x, ir.I32(2)), s, ir.I32(2), ir.I32(7))
}

func Test_Bounds_11(t *testing.T) {
	// Unbounded variables are single points of themselves.
	r := BoundsOfExprInScope(x, scope.NewScope[Interval](nil), nil, false)
	qt.Assert(t, qt.IsTrue(r.IsSinglePointOf(x)))
	// Unless the constant bounds are required.
	r = BoundsOfExprInScope(x, scope.NewScope[Interval](nil), nil, true)
	qt.Assert(t, qt.IsTrue(r.Equal(Interval{i32.Min(), i32.Max()})), qt.Commentf("%s", r))
}

func Test_Bounds_12(t *testing.T) {
	f := ir.NewVar("f", ir.Float(32))
	r := BoundsOfExprInScope(ir.NewAdd(f, f), scope.NewScope[Interval](nil), nil, true)
	qt.Assert(t, qt.IsTrue(r.IsEverything()), qt.Commentf("%s", r))
}

func Test_Bounds_13(t *testing.T) {
	s := rangeScope("x", 0, 10)
	// Lanes of a ramp
	ramp := ir.NewRamp(x, ir.I32(2), 4)
	checkBounds(t, ramp, s, ir.I32(0), ir.I32(16))
	//
	sum := ir.NewVectorReduce(ir.ReduceAdd, ramp, 1)
	checkBounds(t, sum, s, ir.I32(0), ir.I32(64))
}

func Test_Bounds_14(t *testing.T) {
	s := rangeScope("x", 0, 10)
	abs := ir.NewIntrinsic(i32, ir.Abs, ir.NewSub(x, ir.I32(20)))
	checkBounds(t, abs, s, ir.I32(10), ir.I32(20))
	//
	shl := ir.NewIntrinsic(i32, ir.ShiftLeft, x, ir.I32(2))
	checkBounds(t, shl, s, ir.I32(0), ir.I32(40))
}

func Test_Bounds_15(t *testing.T) {
	fb := FuncValueBounds{FuncKey{"f", 0}: {ir.I32(-1), ir.I32(1)}}
	call := ir.NewFuncCall(i32, "f", []ir.Expr{x}, 0)
	r := BoundsOfExprInScope(ir.NewMul(call, ir.I32(3)), rangeScope("x", 0, 10), fb, false)
	//
	qt.Assert(t, qt.IsTrue(r.Simplified().Equal(Interval{ir.I32(-3), ir.I32(3)})), qt.Commentf("%s", r))
}

func Test_FindConstantBound_01(t *testing.T) {
	s := rangeScope("x", 0, 10)
	e := ir.NewAdd(ir.NewMul(x, ir.I32(2)), ir.I32(1))
	//
	upper := FindConstantBound(e, Upper, s)
	lower := FindConstantBound(e, Lower, s)
	//
	qt.Assert(t, qt.IsTrue(ir.Equal(upper, ir.I32(21))), qt.Commentf("%s", upper))
	qt.Assert(t, qt.IsTrue(ir.Equal(lower, ir.I32(1))), qt.Commentf("%s", lower))
}

func Test_FindConstantBound_02(t *testing.T) {
	s := rangeScope("x", 0, 10)
	// y is unbounded, hence the sum has no literal upper bound.
	e := ir.NewAdd(x, y)
	//
	qt.Assert(t, qt.Equals(FindConstantBound(e, Upper, s), ir.Expr(nil)))
	qt.Assert(t, qt.IsTrue(ir.Equal(FindConstantBound(e, Lower, s), i32.Min())))
	// Floats have no literal bounds.
	f := ir.NewVar("f", ir.Float(32))
	qt.Assert(t, qt.Equals(FindConstantBound(f, Upper, s), ir.Expr(nil)))
}

// Checks that, for randomly generated integer expressions, every value taken
// when the variables are assigned values within their bounds lies within the
// computed bounds.
func Test_Bounds_Sound_01(t *testing.T) {
	var (
		rng = rand.New(rand.NewPCG(1, 2))
		i64 = ir.Int(64)
	)
	//
	for n := 0; n < 200; n++ {
		var (
			gen    = &exprGenerator{rng: rng, typ: i64}
			e      = gen.expr(3)
			xs, ys = randomRange(rng), randomRange(rng)
			s      = scope.NewScope[Interval](nil)
		)
		//
		s.Push("x", Interval{ir.MakeConst(i64, xs[0]), ir.MakeConst(i64, xs[1])})
		s.Push("y", Interval{ir.MakeConst(i64, ys[0]), ir.MakeConst(i64, ys[1])})
		//
		r := BoundsOfExprInScope(e, s, nil, false)
		//
		for vx := xs[0]; vx <= xs[1]; vx++ {
			for vy := ys[0]; vy <= ys[1]; vy++ {
				env := map[string]ir.Expr{"x": ir.MakeConst(i64, vx), "y": ir.MakeConst(i64, vy)}
				v := evaluate(t, e, env)
				msg := qt.Commentf("%s with x=%d, y=%d has bounds %s", e, vx, vy, r)
				//
				if r.HasLowerBound() {
					qt.Assert(t, qt.IsTrue(evaluate(t, r.Min, env) <= v), msg)
				}
				//
				if r.HasUpperBound() {
					qt.Assert(t, qt.IsTrue(v <= evaluate(t, r.Max, env)), msg)
				}
			}
		}
	}
}

func Test_Bounds_Sound_02(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	// Narrow and unsigned types wrap, including under the bitwise intrinsics.
	for _, typ := range []ir.Type{ir.Int(8), u8, ir.Int(16), u16} {
		for n := 0; n < 150; n++ {
			var (
				gen    = &exprGenerator{rng: rng, typ: typ, intrinsics: true}
				e      = gen.expr(3)
				xs, ys = typedRange(rng, typ), typedRange(rng, typ)
				s      = scope.NewScope[Interval](nil)
			)
			//
			s.Push("x", Interval{ir.MakeConst(typ, xs[0]), ir.MakeConst(typ, xs[1])})
			s.Push("y", Interval{ir.MakeConst(typ, ys[0]), ir.MakeConst(typ, ys[1])})
			//
			r := BoundsOfExprInScope(e, s, nil, false)
			//
			for vx := xs[0]; vx <= xs[1]; vx++ {
				for vy := ys[0]; vy <= ys[1]; vy++ {
					env := map[string]int64{"x": vx, "y": vy}
					v := interpret(t, e, env)
					msg := qt.Commentf("%s with x=%d, y=%d has bounds %s", e, vx, vy, r)
					//
					if r.HasLowerBound() {
						qt.Assert(t, qt.IsTrue(interpret(t, r.Min, env) <= v), msg)
					}
					//
					if r.HasUpperBound() {
						qt.Assert(t, qt.IsTrue(v <= interpret(t, r.Max, env)), msg)
					}
				}
			}
		}
	}
}

func Test_Bounds_Monotonic_01(t *testing.T) {
	var (
		rng = rand.New(rand.NewPCG(5, 6))
		i64 = ir.Int(64)
	)
	// Widening the range of a variable never narrows the bounds.
	for n := 0; n < 200; n++ {
		var (
			gen    = &exprGenerator{rng: rng, typ: i64}
			e      = gen.expr(3)
			xs, ys = randomRange(rng), randomRange(rng)
			inner  = scope.NewScope[Interval](nil)
			outer  = scope.NewScope[Interval](nil)
		)
		//
		inner.Push("x", Interval{ir.MakeConst(i64, xs[0]), ir.MakeConst(i64, xs[1])})
		inner.Push("y", Interval{ir.MakeConst(i64, ys[0]), ir.MakeConst(i64, ys[1])})
		outer.Push("x", Interval{ir.MakeConst(i64, xs[0]-rng.Int64N(4)), ir.MakeConst(i64, xs[1]+rng.Int64N(4))})
		outer.Push("y", Interval{ir.MakeConst(i64, ys[0]-rng.Int64N(4)), ir.MakeConst(i64, ys[1]+rng.Int64N(4))})
		//
		var (
			narrow = BoundsOfExprInScope(e, inner, nil, false)
			wide   = BoundsOfExprInScope(e, outer, nil, false)
			msg    = qt.Commentf("%s has bounds %s, but %s in a wider scope", e, narrow, wide)
		)
		//
		if wide.HasLowerBound() {
			qt.Assert(t, qt.IsTrue(narrow.HasLowerBound()), msg)
			qt.Assert(t, qt.IsTrue(evaluate(t, wide.Min, nil) <= evaluate(t, narrow.Min, nil)), msg)
		}
		//
		if wide.HasUpperBound() {
			qt.Assert(t, qt.IsTrue(narrow.HasUpperBound()), msg)
			qt.Assert(t, qt.IsTrue(evaluate(t, narrow.Max, nil) <= evaluate(t, wide.Max, nil)), msg)
		}
	}
}

func Test_Bounds_Simplify_01(t *testing.T) {
	var (
		rng = rand.New(rand.NewPCG(7, 8))
		m   = ir.NewVar("m", i32)
		k   = ir.NewVar("k", i32)
	)
	// Symbolic bounds are already in simplified form.
	for n := 0; n < 200; n++ {
		var (
			gen = &exprGenerator{rng: rng, typ: i32}
			e   = gen.expr(3)
			s   = scope.NewScope[Interval](nil)
		)
		//
		s.Push("x", Interval{ir.I32(0), m})
		s.Push("y", Interval{k, ir.NewAdd(k, ir.I32(4))})
		//
		r := BoundsOfExprInScope(e, s, nil, false)
		//
		for _, b := range []ir.Expr{r.Min, r.Max} {
			if isInf(b) {
				continue
			}
			//
			once := simplify.Simplify(b)
			twice := simplify.Simplify(once)
			qt.Assert(t, qt.IsTrue(ir.Equal(once, twice)), qt.Commentf("bound %s of %s: %s vs %s", b, e, once, twice))
		}
	}
}

func Test_Bounds_16(t *testing.T) {
	var (
		u64 = ir.UInt(64)
		v   = ir.NewVar("v", u64)
		s   = scope.NewScope[Interval](nil)
	)
	// The divisor 2^63 is representable only as an unsigned value.
	s.Push("v", Interval{ir.MakeUIntConst(u64, 0), ir.MakeUIntConst(u64, 1<<63+5)})
	//
	checkBounds(t, ir.NewIntrinsic(u64, ir.ShiftRight, v, ir.MakeUIntConst(u64, 63)), s,
		ir.MakeUIntConst(u64, 0), ir.MakeUIntConst(u64, 1))
	checkBounds(t, ir.NewIntrinsic(u64, ir.ShiftRight, v, ir.MakeUIntConst(u64, 62)), s,
		ir.MakeUIntConst(u64, 0), ir.MakeUIntConst(u64, 2))
}

// ============================================================================
// Helpers
// ============================================================================

func u8c(v uint64) ir.Expr {
	return ir.MakeUIntConst(u8, v)
}

func rangeScope(name string, lo, hi int64) *scope.Scope[Interval] {
	s := scope.NewScope[Interval](nil)
	s.Push(name, Interval{ir.I32(lo), ir.I32(hi)})
	//
	return s
}

func checkBounds(t *testing.T, e ir.Expr, s *scope.Scope[Interval], lo, hi ir.Expr) {
	t.Helper()
	//
	var (
		r        = BoundsOfExprInScope(e, s, nil, false).Simplified()
		expected = Interval{simplify.Simplify(lo), simplify.Simplify(hi)}
	)
	//
	qt.Assert(t, qt.IsTrue(r.Equal(expected)), qt.Commentf("bounds of %s are %s, expected %s", e, r, expected))
}

func evaluate(t *testing.T, e ir.Expr, env map[string]ir.Expr) int64 {
	t.Helper()
	//
	r := simplify.Simplify(ir.SubstituteMap(env, e))
	v, ok := ir.AsConstInt(r)
	//
	if !ok {
		t.Fatalf("%s does not evaluate to a constant (got %s)", e, r)
	}
	//
	return v
}

func randomRange(rng *rand.Rand) [2]int64 {
	lo := rng.Int64N(21) - 10
	//
	return [2]int64{lo, lo + rng.Int64N(8)}
}

type exprGenerator struct {
	rng  *rand.Rand
	typ  ir.Type
	lets int
	// intrinsics enables shifts by constants and the bitwise operations.
	intrinsics bool
}

func (p *exprGenerator) expr(depth int) ir.Expr {
	if depth == 0 || p.rng.IntN(4) == 0 {
		return p.leaf()
	}
	//
	a, b := p.expr(depth-1), p.expr(depth-1)
	//
	if p.intrinsics && p.rng.IntN(3) == 0 {
		return p.intrinsic(a, b)
	}
	//
	switch p.rng.IntN(9) {
	case 0:
		return ir.NewAdd(a, b)
	case 1:
		return ir.NewSub(a, b)
	case 2:
		return ir.NewMul(a, b)
	case 3:
		return ir.NewDiv(a, b)
	case 4:
		return ir.NewMod(a, b)
	case 5:
		return ir.NewMin(a, b)
	case 6:
		return ir.NewMax(a, b)
	case 7:
		return ir.NewSelect(ir.NewLT(a, b), b, p.expr(depth-1))
	default:
		name := fmt.Sprintf("t%d", p.lets)
		p.lets++
		//
		return ir.NewLet(name, a, ir.NewAdd(ir.NewVar(name, p.typ), b))
	}
}

func (p *exprGenerator) leaf() ir.Expr {
	switch p.rng.IntN(3) {
	case 0:
		return ir.NewVar("x", p.typ)
	case 1:
		return ir.NewVar("y", p.typ)
	default:
		return ir.MakeConst(p.typ, p.rng.Int64N(11)-5)
	}
}

func (p *exprGenerator) intrinsic(a, b ir.Expr) ir.Expr {
	k := ir.MakeConst(p.typ, p.rng.Int64N(int64(p.typ.Bits)))
	//
	switch p.rng.IntN(6) {
	case 0:
		return ir.NewIntrinsic(p.typ, ir.ShiftLeft, a, k)
	case 1:
		return ir.NewIntrinsic(p.typ, ir.ShiftRight, a, k)
	case 2:
		return ir.NewIntrinsic(p.typ, ir.BitwiseAnd, a, b)
	case 3:
		return ir.NewIntrinsic(p.typ, ir.BitwiseOr, a, b)
	case 4:
		return ir.NewIntrinsic(p.typ, ir.BitwiseXor, a, b)
	default:
		return ir.NewIntrinsic(p.typ, ir.BitwiseNot, a)
	}
}

// typedRange picks a small range of values of an integer type, sometimes at
// either extreme of the type.
func typedRange(rng *rand.Rand, t ir.Type) [2]int64 {
	lo, hi := int64(0), int64(t.UIntMax())
	//
	if t.IsInt() {
		lo, hi = t.IntRange()
	}
	//
	var start int64
	//
	switch rng.IntN(3) {
	case 0:
		start = lo + rng.Int64N(4)
	case 1:
		start = hi - rng.Int64N(8)
	default:
		start = max(lo, rng.Int64N(21)-10)
	}
	//
	return [2]int64{start, min(hi, start+rng.Int64N(6))}
}

// interpret evaluates an integer expression directly, with arithmetic wrapping
// to the width of each type.  Unsigned values are never negative, and booleans
// are either 0 or 1.
func interpret(t *testing.T, e ir.Expr, env map[string]int64) int64 {
	t.Helper()
	//
	eval := func(e ir.Expr) int64 { return interpret(t, e, env) }
	both := func(a, b ir.Expr) (int64, int64) { return eval(a), eval(b) }
	wrap := func(v int64) int64 { return wrapTo(e.Type(), v) }
	//
	switch e := e.(type) {
	case *ir.IntImm:
		return e.Value
	case *ir.UIntImm:
		return int64(e.Value)
	case *ir.Variable:
		v, ok := env[e.Name]
		if !ok {
			t.Fatalf("unbound variable %s", e.Name)
		}
		//
		return v
	case *ir.Cast:
		return wrap(eval(e.Value))
	case *ir.Add:
		a, b := both(e.A, e.B)
		return wrap(a + b)
	case *ir.Sub:
		a, b := both(e.A, e.B)
		return wrap(a - b)
	case *ir.Mul:
		a, b := both(e.A, e.B)
		return wrap(a * b)
	case *ir.Div:
		a, b := both(e.A, e.B)
		return wrap(simplify.EuclideanDiv(a, b))
	case *ir.Mod:
		a, b := both(e.A, e.B)
		return wrap(simplify.EuclideanMod(a, b))
	case *ir.Min:
		a, b := both(e.A, e.B)
		return min(a, b)
	case *ir.Max:
		a, b := both(e.A, e.B)
		return max(a, b)
	case *ir.EQ:
		a, b := both(e.A, e.B)
		return truth(a == b)
	case *ir.NE:
		a, b := both(e.A, e.B)
		return truth(a != b)
	case *ir.LT:
		a, b := both(e.A, e.B)
		return truth(a < b)
	case *ir.LE:
		a, b := both(e.A, e.B)
		return truth(a <= b)
	case *ir.GT:
		a, b := both(e.A, e.B)
		return truth(a > b)
	case *ir.GE:
		a, b := both(e.A, e.B)
		return truth(a >= b)
	case *ir.And:
		a, b := both(e.A, e.B)
		return a & b
	case *ir.Or:
		a, b := both(e.A, e.B)
		return a | b
	case *ir.Not:
		return 1 - eval(e.A)
	case *ir.Select:
		if eval(e.Condition) != 0 {
			return eval(e.TrueValue)
		}
		//
		return eval(e.FalseValue)
	case *ir.Let:
		inner := map[string]int64{e.Name: eval(e.Value)}
		//
		for k, v := range env {
			if k != e.Name {
				inner[k] = v
			}
		}
		//
		return interpret(t, e.Body, inner)
	case *ir.Call:
		return wrap(interpretIntrinsic(t, e, eval))
	}
	//
	t.Fatalf("cannot interpret %s", e)
	//
	return 0
}

func interpretIntrinsic(t *testing.T, e *ir.Call, eval func(ir.Expr) int64) int64 {
	t.Helper()
	//
	switch e.Name {
	case ir.ShiftLeft:
		return eval(e.Args[0]) << eval(e.Args[1])
	case ir.ShiftRight:
		return eval(e.Args[0]) >> eval(e.Args[1])
	case ir.BitwiseAnd:
		return eval(e.Args[0]) & eval(e.Args[1])
	case ir.BitwiseOr:
		return eval(e.Args[0]) | eval(e.Args[1])
	case ir.BitwiseXor:
		return eval(e.Args[0]) ^ eval(e.Args[1])
	case ir.BitwiseNot:
		return ^eval(e.Args[0])
	}
	//
	t.Fatalf("cannot interpret %s", e)
	//
	return 0
}

func wrapTo(t ir.Type, v int64) int64 {
	if t.IsUInt() {
		return int64(uint64(v) & t.UIntMax())
	}
	//
	return ir.WrapInt(t, v)
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	//
	return 0
}
