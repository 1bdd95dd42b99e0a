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
package ir

import (
	"fmt"
	"math"
)

// WrapInt wraps a signed value into the range of a given signed integer type,
// using two's complement arithmetic.
func WrapInt(t Type, value int64) int64 {
	if t.Bits >= 64 {
		return value
	}
	//
	shift := 64 - t.Bits
	//
	return (value << shift) >> shift
}

// MakeConst constructs a constant of the given type holding the given value.
// Vector types produce a broadcast of the scalar constant.  Values which do
// not fit the type are wrapped.
func MakeConst(t Type, value int64) Expr {
	var e Expr
	//
	switch t.Code {
	case TypeInt:
		e = NewIntImm(t.ElementOf(), value)
	case TypeUInt:
		e = NewUIntImm(t.ElementOf(), uint64(value))
	case TypeFloat:
		e = NewFloatImm(t.ElementOf(), float64(value))
	default:
		panic(fmt.Sprintf("constant of type %s", t))
	}
	//
	return broadcastTo(e, t.Lanes)
}

// MakeFloatConst constructs a floating point constant of the given type.
func MakeFloatConst(t Type, value float64) Expr {
	return broadcastTo(NewFloatImm(t.ElementOf(), value), t.Lanes)
}

// MakeUIntConst constructs an unsigned constant of the given type.
func MakeUIntConst(t Type, value uint64) Expr {
	return broadcastTo(NewUIntImm(t.ElementOf(), value), t.Lanes)
}

// MakeZero constructs the constant zero of the given type.
func MakeZero(t Type) Expr {
	return MakeConst(t, 0)
}

// MakeOne constructs the constant one of the given type.
func MakeOne(t Type) Expr {
	return MakeConst(t, 1)
}

// ConstTrue constructs the boolean constant true with the given number of lanes.
func ConstTrue(lanes uint16) Expr {
	return MakeConst(Bool().WithLanes(lanes), 1)
}

// ConstFalse constructs the boolean constant false with the given number of
// lanes.
func ConstFalse(lanes uint16) Expr {
	return MakeConst(Bool().WithLanes(lanes), 0)
}

// MakeBool constructs a scalar boolean constant.
func MakeBool(b bool) Expr {
	if b {
		return ConstTrue(1)
	}
	//
	return ConstFalse(1)
}

// I32 constructs a 32bit signed integer constant.
func I32(value int64) Expr {
	return NewIntImm(Int(32), value)
}

func broadcastTo(e Expr, lanes uint16) Expr {
	if lanes > 1 {
		return NewBroadcast(e, lanes)
	}
	//
	return e
}

// ===================================================================
// Constant queries
// ===================================================================

// IsConst determines whether an expression is a numeric literal, or a
// broadcast of one.
func IsConst(e Expr) bool {
	switch e := e.(type) {
	case *IntImm, *UIntImm, *FloatImm:
		return true
	case *Broadcast:
		return IsConst(e.Value)
	default:
		return false
	}
}

// AsConstInt extracts the value of a signed integer constant (or broadcast
// thereof).
func AsConstInt(e Expr) (int64, bool) {
	switch e := e.(type) {
	case *IntImm:
		return e.Value, true
	case *Broadcast:
		return AsConstInt(e.Value)
	default:
		return 0, false
	}
}

// AsConstUInt extracts the value of an unsigned integer constant (or broadcast
// thereof).
func AsConstUInt(e Expr) (uint64, bool) {
	switch e := e.(type) {
	case *UIntImm:
		return e.Value, true
	case *Broadcast:
		return AsConstUInt(e.Value)
	default:
		return 0, false
	}
}

// AsConstFloat extracts the value of a floating point constant (or broadcast
// thereof).
func AsConstFloat(e Expr) (float64, bool) {
	switch e := e.(type) {
	case *FloatImm:
		return e.Value, true
	case *Broadcast:
		return AsConstFloat(e.Value)
	default:
		return 0, false
	}
}

// AsConstFloat64 extracts the value of any numeric constant as a float.  This
// is used to order constants of arbitrary type.
func AsConstFloat64(e Expr) (float64, bool) {
	if v, ok := AsConstInt(e); ok {
		return float64(v), true
	} else if v, ok := AsConstUInt(e); ok {
		return float64(v), true
	}
	//
	return AsConstFloat(e)
}

// IsConstValue determines whether an expression is a constant equal to a given
// (small) integer value.
func IsConstValue(e Expr, value int64) bool {
	if v, ok := AsConstInt(e); ok {
		return v == value
	} else if v, ok := AsConstUInt(e); ok {
		return value >= 0 && v == uint64(value)
	} else if v, ok := AsConstFloat(e); ok {
		return v == float64(value)
	}
	//
	return false
}

// IsConstZero determines whether an expression is the constant zero.
func IsConstZero(e Expr) bool {
	return IsConstValue(e, 0)
}

// IsConstOne determines whether an expression is the constant one.
func IsConstOne(e Expr) bool {
	return IsConstValue(e, 1)
}

// IsConstTrue determines whether an expression is the boolean constant true.
func IsConstTrue(e Expr) bool {
	return e.Type().IsBool() && IsConstOne(e)
}

// IsConstFalse determines whether an expression is the boolean constant false.
func IsConstFalse(e Expr) bool {
	return e.Type().IsBool() && IsConstZero(e)
}

// IsPositiveConst determines whether an expression is a constant strictly
// greater than zero.
func IsPositiveConst(e Expr) bool {
	if v, ok := AsConstInt(e); ok {
		return v > 0
	} else if v, ok := AsConstUInt(e); ok {
		return v > 0
	} else if v, ok := AsConstFloat(e); ok {
		return v > 0
	}
	//
	return false
}

// IsNegativeConst determines whether an expression is a constant strictly
// less than zero.
func IsNegativeConst(e Expr) bool {
	if v, ok := AsConstInt(e); ok {
		return v < 0
	} else if v, ok := AsConstFloat(e); ok {
		return v < 0
	}
	//
	return false
}

// ConstFitsInt checks whether a floating point value can be converted into an
// int64 without loss.
func ConstFitsInt(v float64) bool {
	return v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64
}
