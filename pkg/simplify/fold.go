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
	gomath "math"

	"github.com/consensys/go-bounds/pkg/ir"
	"golang.org/x/exp/constraints"
)

// EuclideanDiv divides two integers, rounding such that the corresponding
// remainder is never negative.  Division by zero yields zero.
func EuclideanDiv[T constraints.Integer](a, b T) T {
	if b == 0 {
		return 0
	}
	//
	q, r := a/b, a%b
	//
	if r < 0 {
		if b > 0 {
			q--
		} else {
			q++
		}
	}
	//
	return q
}

// EuclideanMod computes the non-negative remainder of dividing two integers.
// The remainder of division by zero is zero.
func EuclideanMod[T constraints.Integer](a, b T) T {
	if b == 0 {
		return 0
	}
	//
	r := a % b
	//
	if r < 0 {
		if b > 0 {
			r += b
		} else {
			r -= b
		}
	}
	//
	return r
}

func floatMod(a, b float64) float64 {
	return a - b*gomath.Floor(a/b)
}

// foldBinary evaluates a binary operation over two constant operands.  This
// returns false if either operand is not a scalar constant.
func foldBinary(e ir.Expr, a, b ir.Expr) (ir.Expr, bool) {
	t := a.Type()
	//
	if !t.IsScalar() {
		return nil, false
	}
	//
	switch t.Code {
	case ir.TypeInt:
		x, okx := ir.AsConstInt(a)
		y, oky := ir.AsConstInt(b)
		//
		if okx && oky {
			return foldInts(e, t, x, y), true
		}
	case ir.TypeUInt:
		x, okx := ir.AsConstUInt(a)
		y, oky := ir.AsConstUInt(b)
		//
		if okx && oky {
			return foldUInts(e, t, x, y), true
		}
	case ir.TypeFloat:
		x, okx := ir.AsConstFloat(a)
		y, oky := ir.AsConstFloat(b)
		//
		if okx && oky {
			return foldFloats(e, t, x, y), true
		}
	}
	//
	return nil, false
}

func foldInts(e ir.Expr, t ir.Type, x, y int64) ir.Expr {
	switch e.(type) {
	case *ir.Add:
		return ir.MakeConst(t, x+y)
	case *ir.Sub:
		return ir.MakeConst(t, x-y)
	case *ir.Mul:
		return ir.MakeConst(t, x*y)
	case *ir.Div:
		return ir.MakeConst(t, EuclideanDiv(x, y))
	case *ir.Mod:
		return ir.MakeConst(t, EuclideanMod(x, y))
	case *ir.Min:
		return ir.MakeConst(t, min(x, y))
	case *ir.Max:
		return ir.MakeConst(t, max(x, y))
	default:
		return foldComparison(e, cmpOrdered(x, y))
	}
}

func foldUInts(e ir.Expr, t ir.Type, x, y uint64) ir.Expr {
	switch e.(type) {
	case *ir.Add:
		return ir.MakeUIntConst(t, x+y)
	case *ir.Sub:
		return ir.MakeUIntConst(t, x-y)
	case *ir.Mul:
		return ir.MakeUIntConst(t, x*y)
	case *ir.Div:
		return ir.MakeUIntConst(t, EuclideanDiv(x, y))
	case *ir.Mod:
		return ir.MakeUIntConst(t, EuclideanMod(x, y))
	case *ir.Min:
		return ir.MakeUIntConst(t, min(x, y))
	case *ir.Max:
		return ir.MakeUIntConst(t, max(x, y))
	case *ir.And:
		return ir.MakeBool(x != 0 && y != 0)
	case *ir.Or:
		return ir.MakeBool(x != 0 || y != 0)
	default:
		return foldComparison(e, cmpOrdered(x, y))
	}
}

func foldFloats(e ir.Expr, t ir.Type, x, y float64) ir.Expr {
	switch e.(type) {
	case *ir.Add:
		return ir.MakeFloatConst(t, x+y)
	case *ir.Sub:
		return ir.MakeFloatConst(t, x-y)
	case *ir.Mul:
		return ir.MakeFloatConst(t, x*y)
	case *ir.Div:
		return ir.MakeFloatConst(t, x/y)
	case *ir.Mod:
		return ir.MakeFloatConst(t, floatMod(x, y))
	case *ir.Min:
		return ir.MakeFloatConst(t, gomath.Min(x, y))
	case *ir.Max:
		return ir.MakeFloatConst(t, gomath.Max(x, y))
	default:
		return foldComparison(e, cmpOrdered(x, y))
	}
}

func cmpOrdered[T constraints.Ordered](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func foldComparison(e ir.Expr, c int) ir.Expr {
	switch e.(type) {
	case *ir.EQ:
		return ir.MakeBool(c == 0)
	case *ir.NE:
		return ir.MakeBool(c != 0)
	case *ir.LT:
		return ir.MakeBool(c < 0)
	case *ir.LE:
		return ir.MakeBool(c <= 0)
	case *ir.GT:
		return ir.MakeBool(c > 0)
	case *ir.GE:
		return ir.MakeBool(c >= 0)
	default:
		panic("unknown binary operation")
	}
}

// foldCast evaluates a cast of a scalar constant.  This returns false when the
// value is not constant, or when the conversion is not well defined (e.g. an
// out of range float to integer conversion).
func foldCast(t ir.Type, value ir.Expr) (ir.Expr, bool) {
	if !t.IsScalar() || t.IsHandle() {
		return nil, false
	}
	//
	if v, ok := ir.AsConstInt(value); ok {
		switch {
		case t.IsInt():
			return ir.MakeConst(t, v), true
		case t.IsUInt():
			return ir.MakeUIntConst(t, uint64(v)), true
		default:
			return ir.MakeFloatConst(t, float64(v)), true
		}
	} else if v, ok := ir.AsConstUInt(value); ok {
		switch {
		case t.IsInt():
			return ir.MakeConst(t, int64(v)), true
		case t.IsUInt():
			return ir.MakeUIntConst(t, v), true
		default:
			return ir.MakeFloatConst(t, float64(v)), true
		}
	} else if v, ok := ir.AsConstFloat(value); ok {
		switch {
		case t.IsFloat():
			return ir.MakeFloatConst(t, v), true
		case t.CanRepresentFloat(gomath.Trunc(v)):
			if t.IsInt() {
				return ir.MakeConst(t, int64(gomath.Trunc(v))), true
			}
			//
			return ir.MakeUIntConst(t, uint64(gomath.Trunc(v))), true
		}
	}
	//
	return nil, false
}
