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

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// fold simplifies an expression whose operands are all constants, and returns
// any other expression as is.  This keeps the bounds of simple expressions
// literal without paying for a full simplification at every node.
func fold(e ir.Expr) ir.Expr {
	for _, c := range ir.Children(e) {
		if !ir.IsConst(c) {
			return e
		}
	}
	//
	if call, ok := e.(*ir.Call); ok {
		return foldCall(call)
	}
	//
	return simplify.Simplify(e)
}

// exact folds an arithmetic expression, returning nil if its operands are
// constants of a type assumed not to overflow and the result lies outside that
// type.  Callers treat nil as the appropriate infinity.
func exact(e ir.Expr) ir.Expr {
	if t := e.Type(); t.IsInt() && !t.CanOverflowInt() && overflows(e, t) {
		return nil
	}
	//
	return fold(e)
}

func overflows(e ir.Expr, t ir.Type) bool {
	cs := ir.Children(e)
	//
	if len(cs) != 2 {
		return false
	}
	//
	x, xok := ir.AsConstInt(cs[0])
	y, yok := ir.AsConstInt(cs[1])
	//
	if !xok || !yok {
		return false
	}
	//
	var (
		r      big.Int
		lo, hi = t.IntRange()
	)
	//
	switch e.(type) {
	case *ir.Add:
		r.Add(big.NewInt(x), big.NewInt(y))
	case *ir.Sub:
		r.Sub(big.NewInt(x), big.NewInt(y))
	case *ir.Mul:
		r.Mul(big.NewInt(x), big.NewInt(y))
	case *ir.Div:
		return x == lo && y == -1
	default:
		return false
	}
	//
	return r.Cmp(big.NewInt(lo)) < 0 || r.Cmp(big.NewInt(hi)) > 0
}

func add(a, b ir.Expr) ir.Expr { return exact(ir.NewAdd(a, b)) }
func sub(a, b ir.Expr) ir.Expr { return exact(ir.NewSub(a, b)) }
func mul(a, b ir.Expr) ir.Expr { return exact(ir.NewMul(a, b)) }
func div(a, b ir.Expr) ir.Expr { return exact(ir.NewDiv(a, b)) }

// orElse returns a bound, or the given default if the bound is missing.
func orElse(e ir.Expr, def ir.Expr) ir.Expr {
	if e == nil {
		return def
	}
	//
	return e
}

// foldCall evaluates the intrinsics which have an obvious constant value.
func foldCall(call *ir.Call) ir.Expr {
	if len(call.Args) != 1 || (call.CallType != ir.CallPureIntrinsic && call.CallType != ir.CallPureExtern) {
		return call
	}
	//
	t := call.Type()
	arg := call.Args[0]
	//
	if call.Name == ir.Abs {
		if v, ok := ir.AsConstInt(arg); ok {
			if v < 0 {
				v = -v
			}
			// Note that abs(MIN) is representable in the unsigned result.
			if t.IsUInt() {
				return ir.MakeUIntConst(t, uint64(v))
			}
			//
			return ir.MakeConst(t, v)
		} else if v, ok := ir.AsConstUInt(arg); ok {
			return ir.MakeUIntConst(t, v)
		} else if v, ok := ir.AsConstFloat(arg); ok {
			return ir.MakeFloatConst(t, math.Abs(v))
		}
		//
		return call
	}
	//
	fn, ok := floatMath[call.Name]
	//
	if v, isFloat := ir.AsConstFloat(arg); ok && isFloat {
		return ir.MakeFloatConst(t, fn.eval(v))
	}
	//
	return call
}

// isPositive determines whether a bound is provably strictly positive.
func isPositive(e ir.Expr) bool {
	if isInf(e) {
		return false
	} else if v, ok := ir.AsConstFloat64(e); ok {
		return v > 0
	}
	//
	return simplify.CanProve(ir.NewLT(ir.MakeZero(e.Type()), e))
}

// isNonNegative determines whether a bound is provably non-negative.
func isNonNegative(e ir.Expr) bool {
	if isInf(e) {
		return false
	} else if e.Type().IsUInt() {
		return true
	} else if v, ok := ir.AsConstFloat64(e); ok {
		return v >= 0
	}
	//
	return simplify.CanProve(ir.NewLE(ir.MakeZero(e.Type()), e))
}

// isNegative determines whether a bound is provably strictly negative.
func isNegative(e ir.Expr) bool {
	if isInf(e) || e.Type().IsUInt() {
		return false
	} else if v, ok := ir.AsConstFloat64(e); ok {
		return v < 0
	}
	//
	return simplify.CanProve(ir.NewLT(e, ir.MakeZero(e.Type())))
}

// isNonPositive determines whether a bound is provably non-positive.
func isNonPositive(e ir.Expr) bool {
	if isInf(e) {
		return false
	} else if v, ok := ir.AsConstFloat64(e); ok {
		return v <= 0
	}
	//
	return simplify.CanProve(ir.NewLE(e, ir.MakeZero(e.Type())))
}

// noOverflow attempts to show that none of the given operations wrapped, by
// checking each gives the same value when evaluated in a wider type.  Each
// pair holds the (narrow) operands of one instance of the operation.
func noOverflow(t ir.Type, op func(a, b ir.Expr) ir.Expr, pairs ...[2]ir.Expr) bool {
	if t.Bits > 32 {
		return false
	}
	//
	var (
		wide      = ir.Int(2 * t.Bits)
		condition ir.Expr
	)
	//
	for _, pair := range pairs {
		x, y := pair[0], pair[1]
		//
		if isInf(x) || isInf(y) {
			return false
		}
		//
		widened := op(ir.NewCast(wide, x), ir.NewCast(wide, y))
		narrowed := ir.NewCast(wide, op(x, y))
		check := ir.Expr(ir.NewEQ(widened, narrowed))
		//
		if condition == nil {
			condition = check
		} else {
			condition = ir.NewAnd(condition, check)
		}
	}
	//
	return condition != nil && simplify.CanProve(condition)
}

func addOp(a, b ir.Expr) ir.Expr { return ir.NewAdd(a, b) }
func subOp(a, b ir.Expr) ir.Expr { return ir.NewSub(a, b) }
func mulOp(a, b ir.Expr) ir.Expr { return ir.NewMul(a, b) }
