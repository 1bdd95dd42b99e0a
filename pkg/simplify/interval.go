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
	"math/big"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util/math"
)

// ConstantInterval computes a constant range enclosing every value which a
// (scalar or vector) integer expression could evaluate to.  Non-integer
// expressions produce the infinite interval.  The result respects the width of
// the expression's type: wrapping arithmetic which could overflow produces the
// full range of the type.
func ConstantInterval(e ir.Expr) math.Interval {
	return constantInterval(e, nil)
}

// TypeInterval returns the range of values representable in a given integer
// type, or the infinite interval for non-integer types.
func TypeInterval(t ir.Type) math.Interval {
	switch {
	case t.IsInt():
		lo, hi := t.IntRange()
		return math.NewInterval64(lo, hi)
	case t.IsUInt():
		return math.NewIntervalU64(0, t.UIntMax())
	default:
		return math.INFINITY
	}
}

func constantInterval(e ir.Expr, env map[string]math.Interval) math.Interval {
	t := e.Type()
	//
	if !t.IsIntOrUInt() {
		return math.INFINITY
	}
	//
	switch e := e.(type) {
	case *ir.IntImm:
		return math.Point(e.Value)
	case *ir.UIntImm:
		return math.NewIntervalU64(e.Value, e.Value)
	case *ir.Variable:
		if r, ok := env[e.Name]; ok {
			return r
		}
		//
		return parameterInterval(e)
	case *ir.Broadcast:
		return constantInterval(e.Value, env)
	case *ir.Ramp:
		r := constantInterval(e.Base, env)
		s := constantInterval(e.Stride, env)
		s.Mul(math.NewInterval64(0, int64(e.Lanes)-1))
		r.Add(s)
		//
		return fitted(r, t)
	case *ir.Cast:
		if e.Value.Type().IsIntOrUInt() {
			return fitted(constantInterval(e.Value, env), t)
		}
	case *ir.Add:
		r := constantInterval(e.A, env)
		r.Add(constantInterval(e.B, env))
		//
		return fitted(r, t)
	case *ir.Sub:
		r := constantInterval(e.A, env)
		r.Sub(constantInterval(e.B, env))
		//
		return fitted(r, t)
	case *ir.Mul:
		r := constantInterval(e.A, env)
		r.Mul(constantInterval(e.B, env))
		//
		return fitted(r, t)
	case *ir.Div:
		if c, ok := constValue(e.B); ok && c > 0 && (t.IsInt() || c <= int64(t.UIntMax())) {
			r := constantInterval(e.A, env)
			r.Div(*big.NewInt(c))
			//
			return r
		}
	case *ir.Mod:
		if c, ok := constValue(e.B); ok && c > 0 && (t.IsInt() || c <= int64(t.UIntMax())) {
			r := constantInterval(e.A, env)
			m := math.NewInterval64(0, c-1)
			//
			if r.Within(m) {
				return r
			}
			//
			return m
		}
	case *ir.Min:
		r := constantInterval(e.A, env)
		r.Min(constantInterval(e.B, env))
		//
		return r
	case *ir.Max:
		r := constantInterval(e.A, env)
		r.Max(constantInterval(e.B, env))
		//
		return r
	case *ir.Select:
		r := constantInterval(e.TrueValue, env)
		return r.Union(constantInterval(e.FalseValue, env))
	case *ir.Let:
		inner := make(map[string]math.Interval, len(env)+1)
		for k, v := range env {
			inner[k] = v
		}
		//
		inner[e.Name] = constantInterval(e.Value, env)
		//
		return constantInterval(e.Body, inner)
	}
	//
	return TypeInterval(t)
}

// parameterInterval returns the range of a variable, refined by any constant
// bounds on the parameter it refers to.
func parameterInterval(v *ir.Variable) math.Interval {
	r := TypeInterval(v.Type())
	//
	if v.Param == nil {
		return r
	}
	//
	if v.Param.Min != nil {
		if lo, ok := constValue(v.Param.Min); ok {
			r.Max(math.Point(lo))
		}
	}
	//
	if v.Param.Max != nil {
		if hi, ok := constValue(v.Param.Max); ok {
			r.Min(math.Point(hi))
		}
	}
	//
	return r
}

// fitted returns a given interval if it fits within the range of a type,
// otherwise the range of the type itself.  Since arithmetic on narrow types
// wraps, any result outside the range could land anywhere within it.
func fitted(r math.Interval, t ir.Type) math.Interval {
	bounds := TypeInterval(t)
	//
	if r.Within(bounds) {
		return r
	}
	//
	return bounds
}
