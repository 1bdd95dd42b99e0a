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

// TypeCode identifies the kind of scalar carried by a type.
type TypeCode uint8

const (
	// TypeInt is a signed two's complement integer.
	TypeInt TypeCode = iota
	// TypeUInt is an unsigned integer.  Booleans are one bit unsigned integers.
	TypeUInt
	// TypeFloat is an IEEE floating point number.
	TypeFloat
	// TypeHandle is an opaque pointer (e.g. a buffer).
	TypeHandle
)

// Type describes the type of an expression: the scalar kind, its width in bits
// and the number of vector lanes (one for scalars).
type Type struct {
	Code  TypeCode
	Bits  uint8
	Lanes uint16
}

// Int constructs a scalar signed integer type of the given width.
func Int(bits uint8) Type {
	return Type{TypeInt, bits, 1}
}

// UInt constructs a scalar unsigned integer type of the given width.
func UInt(bits uint8) Type {
	return Type{TypeUInt, bits, 1}
}

// Float constructs a scalar floating point type of the given width.
func Float(bits uint8) Type {
	return Type{TypeFloat, bits, 1}
}

// Bool constructs the scalar boolean type.
func Bool() Type {
	return Type{TypeUInt, 1, 1}
}

// Handle constructs the (scalar) opaque handle type.
func Handle() Type {
	return Type{TypeHandle, 64, 1}
}

// IsInt checks whether this is a signed integer type.
func (t Type) IsInt() bool { return t.Code == TypeInt }

// IsUInt checks whether this is an unsigned integer type (including bool).
func (t Type) IsUInt() bool { return t.Code == TypeUInt }

// IsFloat checks whether this is a floating point type.
func (t Type) IsFloat() bool { return t.Code == TypeFloat }

// IsHandle checks whether this is a handle type.
func (t Type) IsHandle() bool { return t.Code == TypeHandle }

// IsBool checks whether this is a boolean type.
func (t Type) IsBool() bool { return t.Code == TypeUInt && t.Bits == 1 }

// IsIntOrUInt checks whether this is any kind of integer type.
func (t Type) IsIntOrUInt() bool { return t.Code == TypeInt || t.Code == TypeUInt }

// IsVector checks whether this type has more than one lane.
func (t Type) IsVector() bool { return t.Lanes > 1 }

// IsScalar checks whether this type has exactly one lane.
func (t Type) IsScalar() bool { return t.Lanes == 1 }

// ElementOf returns the scalar type of each lane.
func (t Type) ElementOf() Type {
	return Type{t.Code, t.Bits, 1}
}

// WithBits returns this type with a different bit width.
func (t Type) WithBits(bits uint8) Type {
	return Type{t.Code, bits, t.Lanes}
}

// WithLanes returns this type with a different number of lanes.
func (t Type) WithLanes(lanes uint16) Type {
	return Type{t.Code, t.Bits, lanes}
}

// WithCode returns this type with a different scalar kind.
func (t Type) WithCode(code TypeCode) Type {
	return Type{code, t.Bits, t.Lanes}
}

// CanOverflowInt returns true for signed integer types on which overflow is
// defined to wrap.  Signed types of 32 bits or more are assumed never to
// overflow.
func (t Type) CanOverflowInt() bool {
	return t.IsInt() && t.Bits < 32
}

// CanOverflow returns true for integer types whose arithmetic may wrap around.
func (t Type) CanOverflow() bool {
	return (t.IsUInt() && !t.IsBool()) || t.CanOverflowInt()
}

// CanRepresent determines whether every value of the other type can be
// represented in this type (ignoring lanes).
func (t Type) CanRepresent(other Type) bool {
	switch t.Code {
	case TypeInt:
		return (other.IsInt() && other.Bits <= t.Bits) || (other.IsUInt() && other.Bits < t.Bits)
	case TypeUInt:
		return other.IsUInt() && other.Bits <= t.Bits
	case TypeFloat:
		return (other.IsFloat() && other.Bits <= t.Bits) ||
			(t.Bits == 64 && other.IsIntOrUInt() && other.Bits <= 32) ||
			(t.Bits == 32 && other.IsIntOrUInt() && other.Bits <= 16)
	default:
		return false
	}
}

// CanRepresentInt checks whether a given signed value fits in this type.
func (t Type) CanRepresentInt(v int64) bool {
	switch t.Code {
	case TypeInt:
		lo, hi := t.IntRange()
		return lo <= v && v <= hi
	case TypeUInt:
		return v >= 0 && uint64(v) <= t.UIntMax()
	case TypeFloat:
		return true
	default:
		return false
	}
}

// CanRepresentUInt checks whether a given unsigned value fits in this type.
func (t Type) CanRepresentUInt(v uint64) bool {
	switch t.Code {
	case TypeInt:
		_, hi := t.IntRange()
		return v <= uint64(hi)
	case TypeUInt:
		return v <= t.UIntMax()
	case TypeFloat:
		return true
	default:
		return false
	}
}

// CanRepresentFloat checks whether a given floating point value lies within
// the range of this type.  Fractional values are only representable in
// floating point types.
func (t Type) CanRepresentFloat(v float64) bool {
	switch t.Code {
	case TypeFloat:
		if t.Bits == 32 {
			return math.IsInf(v, 0) || math.Abs(v) <= math.MaxFloat32
		}
		//
		return true
	case TypeInt, TypeUInt:
		if v != math.Trunc(v) {
			return false
		} else if t.IsInt() {
			lo, hi := t.IntRange()
			return float64(lo) <= v && v <= float64(hi)
		}
		//
		return v >= 0 && v <= float64(t.UIntMax())
	default:
		return false
	}
}

// IntRange returns the smallest and largest values of a signed integer type.
func (t Type) IntRange() (int64, int64) {
	if !t.IsInt() {
		panic(fmt.Sprintf("integer range of non-int type %s", t))
	} else if t.Bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	//
	hi := int64(1)<<(t.Bits-1) - 1
	//
	return -hi - 1, hi
}

// UIntMax returns the largest value of an unsigned integer type.
func (t Type) UIntMax() uint64 {
	if !t.IsUInt() {
		panic(fmt.Sprintf("unsigned range of non-uint type %s", t))
	} else if t.Bits >= 64 {
		return math.MaxUint64
	}
	//
	return uint64(1)<<t.Bits - 1
}

// Min returns a literal holding the smallest value of (the element type of)
// this type.
func (t Type) Min() Expr {
	e := t.ElementOf()
	//
	switch t.Code {
	case TypeInt:
		lo, _ := t.IntRange()
		return &IntImm{e, lo}
	case TypeUInt:
		return &UIntImm{e, 0}
	case TypeFloat:
		if t.Bits == 32 {
			return &FloatImm{e, -math.MaxFloat32}
		}
		//
		return &FloatImm{e, -math.MaxFloat64}
	default:
		panic(fmt.Sprintf("minimum of type %s", t))
	}
}

// Max returns a literal holding the largest value of (the element type of)
// this type.
func (t Type) Max() Expr {
	e := t.ElementOf()
	//
	switch t.Code {
	case TypeInt:
		_, hi := t.IntRange()
		return &IntImm{e, hi}
	case TypeUInt:
		return &UIntImm{e, t.UIntMax()}
	case TypeFloat:
		if t.Bits == 32 {
			return &FloatImm{e, math.MaxFloat32}
		}
		//
		return &FloatImm{e, math.MaxFloat64}
	default:
		panic(fmt.Sprintf("maximum of type %s", t))
	}
}

func (t Type) String() string {
	var name string
	//
	switch {
	case t.IsBool():
		name = "bool"
	case t.Code == TypeInt:
		name = fmt.Sprintf("int%d", t.Bits)
	case t.Code == TypeUInt:
		name = fmt.Sprintf("uint%d", t.Bits)
	case t.Code == TypeFloat:
		name = fmt.Sprintf("float%d", t.Bits)
	default:
		name = "handle"
	}
	//
	if t.Lanes > 1 {
		return fmt.Sprintf("%sx%d", name, t.Lanes)
	}
	//
	return name
}
