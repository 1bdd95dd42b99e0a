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
	"slices"
)

// CallType classifies the target of a call.
type CallType uint8

const (
	// CallImage is a read from an input image (buffer parameter).
	CallImage CallType = iota
	// CallExtern is a call to an external C function.
	CallExtern
	// CallExternCPlusPlus is a call to an external C++ function.
	CallExternCPlusPlus
	// CallPureExtern is a call to an external function without side effects.
	CallPureExtern
	// CallHalide is a read from another (pipeline) function.
	CallHalide
	// CallIntrinsic is a call to a built-in operation with side effects.
	CallIntrinsic
	// CallPureIntrinsic is a call to a built-in operation without side effects.
	CallPureIntrinsic
)

var callTypeNames = []string{"image", "extern", "extern_c++", "pure_extern", "halide", "intrinsic", "pure_intrinsic"}

func (c CallType) String() string {
	return callTypeNames[c]
}

// ParseCallType converts a textual call type into its code.
func ParseCallType(name string) (CallType, bool) {
	if i := slices.Index(callTypeNames, name); i >= 0 {
		return CallType(i), true
	}
	//
	return 0, false
}

// Call is a call to a function, an input image, an external function or an
// intrinsic.  For multi-valued functions, ValueIndex identifies which output
// is being read.
type Call struct {
	typ        Type
	Name       string
	Args       []Expr
	CallType   CallType
	ValueIndex int
	// Param is the buffer parameter read by image calls, or nil.
	Param *Parameter
}

// Type implementation for the Expr interface.
func (p *Call) Type() Type { return p.typ }

// NewCall constructs a call of a given type.
func NewCall(t Type, name string, args []Expr, callType CallType) *Call {
	return &Call{t, name, args, callType, 0, nil}
}

// NewFuncCall constructs a call reading a given output of a pipeline function.
func NewFuncCall(t Type, name string, args []Expr, valueIndex int) *Call {
	return &Call{t, name, args, CallHalide, valueIndex, nil}
}

// NewImageCall constructs a read of an input image.
func NewImageCall(param *Parameter, args []Expr) *Call {
	if !param.IsBuffer {
		panic(fmt.Sprintf("image call of non-buffer parameter %s", param.Name))
	}
	//
	return &Call{param.Type, param.Name, args, CallImage, 0, param}
}

// NewIntrinsic constructs a call to a pure intrinsic.
func NewIntrinsic(t Type, name string, args ...Expr) *Call {
	return &Call{t, name, args, CallPureIntrinsic, 0, nil}
}

// NewImpureIntrinsic constructs a call to an intrinsic with side effects.
func NewImpureIntrinsic(t Type, name string, args ...Expr) *Call {
	return &Call{t, name, args, CallIntrinsic, 0, nil}
}

// IsPure determines whether this call has no side effects, meaning that its
// result depends only on its arguments.
func (p *Call) IsPure() bool {
	return p.CallType == CallPureExtern || p.CallType == CallPureIntrinsic || p.CallType == CallImage ||
		p.CallType == CallHalide
}

// IsIntrinsic checks whether this is a call to a given intrinsic.
func (p *Call) IsIntrinsic(names ...string) bool {
	if p.CallType != CallIntrinsic && p.CallType != CallPureIntrinsic {
		return false
	}
	//
	return slices.Contains(names, p.Name)
}

// IsExtern checks whether this is a call to an external function.
func (p *Call) IsExtern() bool {
	return p.CallType == CallExtern || p.CallType == CallExternCPlusPlus || p.CallType == CallPureExtern
}

// IsTag checks whether this is a call to an intrinsic which simply returns its
// argument, annotating it for later passes.
func (p *Call) IsTag() bool {
	return p.IsIntrinsic(Likely, LikelyIfInnermost, StrictFloat)
}

// Names of the intrinsics known to the analyses.
const (
	Abs                   = "abs"
	Absd                  = "absd"
	BitwiseAnd            = "bitwise_and"
	BitwiseOr             = "bitwise_or"
	BitwiseXor            = "bitwise_xor"
	BitwiseNot            = "bitwise_not"
	ShiftLeft             = "shift_left"
	ShiftRight            = "shift_right"
	CountLeadingZeros     = "count_leading_zeros"
	CountTrailingZeros    = "count_trailing_zeros"
	PopCount              = "popcount"
	Likely                = "likely"
	LikelyIfInnermost     = "likely_if_innermost"
	StrictFloat           = "strict_float"
	Promise               = "promise_clamped"
	UnsafePromise         = "unsafe_promise_clamped"
	ReturnSecond          = "return_second"
	IfThenElseIntrinsic   = "if_then_else"
	Extract               = "extract_bits"
	Concat                = "concat_bits"
	Mux                   = "mux"
	SaturatingAdd         = "saturating_add"
	SaturatingSub         = "saturating_sub"
	SaturatingCast        = "saturating_cast"
	WideningAdd           = "widening_add"
	WideningSub           = "widening_sub"
	WideningMul           = "widening_mul"
	WideningShiftLeft     = "widening_shift_left"
	WideningShiftRight    = "widening_shift_right"
	HalvingAdd            = "halving_add"
	RoundingHalvingAdd    = "rounding_halving_add"
	HalvingSub            = "halving_sub"
	MulShiftRight         = "mul_shift_right"
	RoundingMulShiftRight = "rounding_mul_shift_right"
	RoundingShiftLeft     = "rounding_shift_left"
	RoundingShiftRight    = "rounding_shift_right"
	SortedAvg             = "sorted_avg"
	DeclareBoxTouched     = "declare_box_touched"
	BufferCrop            = "buffer_crop"
	BufferSetBounds       = "buffer_set_bounds"
	BufferGetMin          = "buffer_get_min"
	BufferGetMax          = "buffer_get_max"
	BufferGetExtent       = "buffer_get_extent"
	MakeStruct            = "make_struct"
	BufferCopy            = "halide_buffer_copy"
	Undef                 = "undef"
	SqrtF32               = "sqrt_f32"
	SqrtF64               = "sqrt_f64"
	ExpF32                = "exp_f32"
	ExpF64                = "exp_f64"
	LogF32                = "log_f32"
	LogF64                = "log_f64"
	FloorF32              = "floor_f32"
	FloorF64              = "floor_f64"
	CeilF32               = "ceil_f32"
	CeilF64               = "ceil_f64"
	RoundF32              = "round_f32"
	RoundF64              = "round_f64"
	TruncF32              = "trunc_f32"
	TruncF64              = "trunc_f64"
)

// ===================================================================
// Parameters
// ===================================================================

// Parameter is an input to the pipeline: either a scalar value or a buffer.
// Scalar parameters may carry known bounds, and buffers carry the element type
// of the values stored in them.
type Parameter struct {
	Name     string
	Type     Type
	IsBuffer bool
	// Dimensions of a buffer parameter.
	Dimensions int
	// Min, Max are optional bounds on a scalar parameter (or nil).
	Min, Max Expr
	// Estimate is an optional estimated value for a scalar parameter (or nil).
	Estimate Expr
}

// NewScalarParameter constructs a scalar parameter of a given type.
func NewScalarParameter(name string, t Type) *Parameter {
	return &Parameter{Name: name, Type: t}
}

// NewBufferParameter constructs a buffer parameter with a given element type
// and dimensionality.
func NewBufferParameter(name string, t Type, dims int) *Parameter {
	return &Parameter{Name: name, Type: t, IsBuffer: true, Dimensions: dims}
}
