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
)

// Node is any element of the IR: either an expression or a statement.
type Node interface {
	// String returns a human readable rendering of this node.
	String() string
}

// Expr is an expression node.  Every expression has a type, and expressions
// are immutable once constructed: transformations build new trees sharing
// unmodified subtrees.
type Expr interface {
	Node
	// Type returns the type of value this expression evaluates to.
	Type() Type
	exprNode()
}

// ===================================================================
// Literals
// ===================================================================

// IntImm is a signed integer literal.
type IntImm struct {
	typ   Type
	Value int64
}

// UIntImm is an unsigned integer (or boolean) literal.
type UIntImm struct {
	typ   Type
	Value uint64
}

// FloatImm is a floating point literal.
type FloatImm struct {
	typ   Type
	Value float64
}

// StringImm is a string literal, used only as an argument of calls.
type StringImm struct {
	Value string
}

// Type implementation for the Expr interface.
func (p *IntImm) Type() Type { return p.typ }

// Type implementation for the Expr interface.
func (p *UIntImm) Type() Type { return p.typ }

// Type implementation for the Expr interface.
func (p *FloatImm) Type() Type { return p.typ }

// Type implementation for the Expr interface.
func (p *StringImm) Type() Type { return Handle() }

// NewIntImm constructs a signed integer literal, wrapping the value into the
// range of the given type.
func NewIntImm(t Type, value int64) *IntImm {
	if !t.IsInt() || t.IsVector() {
		panic(fmt.Sprintf("invalid type %s for integer literal", t))
	}
	//
	return &IntImm{t, WrapInt(t, value)}
}

// NewUIntImm constructs an unsigned integer literal, wrapping the value into
// the range of the given type.
func NewUIntImm(t Type, value uint64) *UIntImm {
	if !t.IsUInt() || t.IsVector() {
		panic(fmt.Sprintf("invalid type %s for unsigned literal", t))
	}
	//
	return &UIntImm{t, value & t.UIntMax()}
}

// NewFloatImm constructs a floating point literal.  Values of 32bit literals
// are rounded to single precision.
func NewFloatImm(t Type, value float64) *FloatImm {
	if !t.IsFloat() || t.IsVector() {
		panic(fmt.Sprintf("invalid type %s for float literal", t))
	} else if t.Bits == 32 {
		value = float64(float32(value))
	}
	//
	return &FloatImm{t, value}
}

// NewStringImm constructs a string literal.
func NewStringImm(value string) *StringImm {
	return &StringImm{value}
}

// ===================================================================
// Variables
// ===================================================================

// Variable is a reference to a named value: a let binding, a loop variable or
// a (scalar or buffer) parameter.
type Variable struct {
	typ  Type
	Name string
	// Param is the parameter this variable refers to, or nil.
	Param *Parameter
}

// Type implementation for the Expr interface.
func (p *Variable) Type() Type { return p.typ }

// NewVar constructs a reference to a named variable of a given type.
func NewVar(name string, t Type) *Variable {
	return &Variable{t, name, nil}
}

// NewParamVar constructs a reference to a parameter.
func NewParamVar(param *Parameter) *Variable {
	if param.IsBuffer {
		return &Variable{Handle(), param.Name + ".buffer", param}
	}
	//
	return &Variable{param.Type, param.Name, param}
}

// ===================================================================
// Casts
// ===================================================================

// Cast converts a value into a different type, preserving its numeric value
// where possible (and wrapping or truncating otherwise).
type Cast struct {
	typ   Type
	Value Expr
}

// Reinterpret reinterprets the bits of a value as a different type of the same
// width.
type Reinterpret struct {
	typ   Type
	Value Expr
}

// Type implementation for the Expr interface.
func (p *Cast) Type() Type { return p.typ }

// Type implementation for the Expr interface.
func (p *Reinterpret) Type() Type { return p.typ }

// NewCast constructs a cast of a value into a given type.
func NewCast(t Type, value Expr) *Cast {
	if t.Lanes != value.Type().Lanes {
		panic(fmt.Sprintf("cast of %s to %s changes lanes", value, t))
	}
	//
	return &Cast{t, value}
}

// NewReinterpret constructs a reinterpretation of a value as a given type.
func NewReinterpret(t Type, value Expr) *Reinterpret {
	return &Reinterpret{t, value}
}

// ===================================================================
// Arithmetic
// ===================================================================

// Add is the sum of two values of identical type.
type Add struct{ A, B Expr }

// Sub is the difference of two values of identical type.
type Sub struct{ A, B Expr }

// Mul is the product of two values of identical type.
type Mul struct{ A, B Expr }

// Div is integer (Euclidean) or floating point division.  Integer division by
// zero evaluates to zero.
type Div struct{ A, B Expr }

// Mod is the Euclidean remainder, which is never negative.  Modulus by zero
// evaluates to zero.
type Mod struct{ A, B Expr }

// Min is the smaller of two values.
type Min struct{ A, B Expr }

// Max is the larger of two values.
type Max struct{ A, B Expr }

// Type implementation for the Expr interface.
func (p *Add) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Sub) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Mul) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Div) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Mod) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Min) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Max) Type() Type { return p.A.Type() }

// NewAdd constructs a + b.
func NewAdd(a, b Expr) *Add {
	checkMatchingTypes("+", a, b)
	return &Add{a, b}
}

// NewSub constructs a - b.
func NewSub(a, b Expr) *Sub {
	checkMatchingTypes("-", a, b)
	return &Sub{a, b}
}

// NewMul constructs a * b.
func NewMul(a, b Expr) *Mul {
	checkMatchingTypes("*", a, b)
	return &Mul{a, b}
}

// NewDiv constructs a / b.
func NewDiv(a, b Expr) *Div {
	checkMatchingTypes("/", a, b)
	return &Div{a, b}
}

// NewMod constructs a % b.
func NewMod(a, b Expr) *Mod {
	checkMatchingTypes("%", a, b)
	return &Mod{a, b}
}

// NewMin constructs min(a, b).
func NewMin(a, b Expr) *Min {
	checkMatchingTypes("min", a, b)
	return &Min{a, b}
}

// NewMax constructs max(a, b).
func NewMax(a, b Expr) *Max {
	checkMatchingTypes("max", a, b)
	return &Max{a, b}
}

// ===================================================================
// Comparisons and logic
// ===================================================================

// EQ tests two values for equality.
type EQ struct{ A, B Expr }

// NE tests two values for inequality.
type NE struct{ A, B Expr }

// LT tests whether a < b.
type LT struct{ A, B Expr }

// LE tests whether a <= b.
type LE struct{ A, B Expr }

// GT tests whether a > b.
type GT struct{ A, B Expr }

// GE tests whether a >= b.
type GE struct{ A, B Expr }

// And is the logical conjunction of two booleans.
type And struct{ A, B Expr }

// Or is the logical disjunction of two booleans.
type Or struct{ A, B Expr }

// Not is the logical negation of a boolean.
type Not struct{ A Expr }

// Type implementation for the Expr interface.
func (p *EQ) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *NE) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *LT) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *LE) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *GT) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *GE) Type() Type { return boolOf(p.A) }

// Type implementation for the Expr interface.
func (p *And) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Or) Type() Type { return p.A.Type() }

// Type implementation for the Expr interface.
func (p *Not) Type() Type { return p.A.Type() }

// NewEQ constructs a == b.
func NewEQ(a, b Expr) *EQ {
	checkMatchingTypes("==", a, b)
	return &EQ{a, b}
}

// NewNE constructs a != b.
func NewNE(a, b Expr) *NE {
	checkMatchingTypes("!=", a, b)
	return &NE{a, b}
}

// NewLT constructs a < b.
func NewLT(a, b Expr) *LT {
	checkMatchingTypes("<", a, b)
	return &LT{a, b}
}

// NewLE constructs a <= b.
func NewLE(a, b Expr) *LE {
	checkMatchingTypes("<=", a, b)
	return &LE{a, b}
}

// NewGT constructs a > b.
func NewGT(a, b Expr) *GT {
	checkMatchingTypes(">", a, b)
	return &GT{a, b}
}

// NewGE constructs a >= b.
func NewGE(a, b Expr) *GE {
	checkMatchingTypes(">=", a, b)
	return &GE{a, b}
}

// NewAnd constructs a && b.
func NewAnd(a, b Expr) *And {
	checkBool("&&", a)
	checkMatchingTypes("&&", a, b)
	//
	return &And{a, b}
}

// NewOr constructs a || b.
func NewOr(a, b Expr) *Or {
	checkBool("||", a)
	checkMatchingTypes("||", a, b)
	//
	return &Or{a, b}
}

// NewNot constructs !a.
func NewNot(a Expr) *Not {
	checkBool("!", a)
	return &Not{a}
}

// ===================================================================
// Select / Let
// ===================================================================

// Select chooses between two values based on a condition.  Both values are
// evaluated.
type Select struct {
	Condition  Expr
	TrueValue  Expr
	FalseValue Expr
}

// Type implementation for the Expr interface.
func (p *Select) Type() Type { return p.TrueValue.Type() }

// NewSelect constructs select(c, t, f).
func NewSelect(condition, trueValue, falseValue Expr) *Select {
	checkBool("select", condition)
	checkMatchingTypes("select", trueValue, falseValue)
	//
	return &Select{condition, trueValue, falseValue}
}

// Let binds a name to a value within a body expression.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
}

// Type implementation for the Expr interface.
func (p *Let) Type() Type { return p.Body.Type() }

// NewLet constructs let name = value in body.
func NewLet(name string, value, body Expr) *Let {
	return &Let{name, value, body}
}

// ===================================================================
// Memory and vectors
// ===================================================================

// Load reads a value from a named buffer at a given (flat) index, provided the
// predicate holds.
type Load struct {
	typ       Type
	Name      string
	Index     Expr
	Predicate Expr
	Param     *Parameter
}

// Type implementation for the Expr interface.
func (p *Load) Type() Type { return p.typ }

// NewLoad constructs an unconditional load.
func NewLoad(t Type, name string, index Expr) *Load {
	return &Load{t, name, index, ConstTrue(index.Type().Lanes), nil}
}

// NewPredicatedLoad constructs a load which only happens when predicate holds.
func NewPredicatedLoad(t Type, name string, index, predicate Expr, param *Parameter) *Load {
	return &Load{t, name, index, predicate, param}
}

// Ramp is the vector base, base + stride, ..., base + (lanes-1)*stride.
type Ramp struct {
	Base   Expr
	Stride Expr
	Lanes  uint16
}

// Type implementation for the Expr interface.
func (p *Ramp) Type() Type {
	t := p.Base.Type()
	return t.WithLanes(t.Lanes * p.Lanes)
}

// NewRamp constructs a ramp.
func NewRamp(base, stride Expr, lanes uint16) *Ramp {
	checkMatchingTypes("ramp", base, stride)
	//
	if lanes < 1 {
		panic("ramp with zero lanes")
	}
	//
	return &Ramp{base, stride, lanes}
}

// Broadcast replicates a value across a number of lanes.
type Broadcast struct {
	Value Expr
	Lanes uint16
}

// Type implementation for the Expr interface.
func (p *Broadcast) Type() Type {
	t := p.Value.Type()
	return t.WithLanes(t.Lanes * p.Lanes)
}

// NewBroadcast constructs a broadcast.
func NewBroadcast(value Expr, lanes uint16) *Broadcast {
	return &Broadcast{value, lanes}
}

// Shuffle concatenates a number of vectors and then selects lanes from the
// result by index.
type Shuffle struct {
	Vectors []Expr
	Indices []int
}

// Type implementation for the Expr interface.
func (p *Shuffle) Type() Type {
	return p.Vectors[0].Type().WithLanes(uint16(len(p.Indices)))
}

// NewShuffle constructs a shuffle.
func NewShuffle(vectors []Expr, indices []int) *Shuffle {
	if len(vectors) == 0 {
		panic("shuffle of no vectors")
	}
	//
	total := 0
	for _, v := range vectors {
		if v.Type().ElementOf() != vectors[0].Type().ElementOf() {
			panic(fmt.Sprintf("shuffle of mismatched vectors %s and %s", vectors[0], v))
		}
		//
		total += int(v.Type().Lanes)
	}
	//
	for _, i := range indices {
		if i < 0 || i >= total {
			panic(fmt.Sprintf("shuffle index %d out of bounds", i))
		}
	}
	//
	return &Shuffle{vectors, indices}
}

// ReduceOp identifies the reduction performed by a VectorReduce.
type ReduceOp uint8

const (
	// ReduceAdd sums lanes together.
	ReduceAdd ReduceOp = iota
	// ReduceSaturatingAdd sums lanes together, saturating on overflow.
	ReduceSaturatingAdd
	// ReduceMul multiplies lanes together.
	ReduceMul
	// ReduceMin takes the minimum of the lanes.
	ReduceMin
	// ReduceMax takes the maximum of the lanes.
	ReduceMax
	// ReduceAnd takes the conjunction of the lanes.
	ReduceAnd
	// ReduceOr takes the disjunction of the lanes.
	ReduceOr
)

var reduceOpNames = []string{"add", "saturating_add", "mul", "min", "max", "and", "or"}

func (op ReduceOp) String() string {
	return reduceOpNames[op]
}

// VectorReduce reduces groups of adjacent lanes of a vector down to a vector
// with fewer lanes.
type VectorReduce struct {
	Op    ReduceOp
	Value Expr
	Lanes uint16
}

// Type implementation for the Expr interface.
func (p *VectorReduce) Type() Type {
	return p.Value.Type().WithLanes(p.Lanes)
}

// NewVectorReduce constructs a vector reduction down to a given number of
// lanes.
func NewVectorReduce(op ReduceOp, value Expr, lanes uint16) *VectorReduce {
	if lanes == 0 || value.Type().Lanes%lanes != 0 {
		panic(fmt.Sprintf("cannot reduce %d lanes to %d", value.Type().Lanes, lanes))
	}
	//
	return &VectorReduce{op, value, lanes}
}

// ===================================================================
// Helpers
// ===================================================================

func boolOf(e Expr) Type {
	return Bool().WithLanes(e.Type().Lanes)
}

func checkMatchingTypes(op string, a, b Expr) {
	if a.Type() != b.Type() {
		panic(fmt.Sprintf("mismatched types for %s: %s (%s) vs %s (%s)", op, a, a.Type(), b, b.Type()))
	}
}

func checkBool(op string, a Expr) {
	if !a.Type().IsBool() {
		panic(fmt.Sprintf("non-boolean operand for %s: %s (%s)", op, a, a.Type()))
	}
}

func (p *IntImm) exprNode()       {}
func (p *UIntImm) exprNode()      {}
func (p *FloatImm) exprNode()     {}
func (p *StringImm) exprNode()    {}
func (p *Variable) exprNode()     {}
func (p *Cast) exprNode()         {}
func (p *Reinterpret) exprNode()  {}
func (p *Add) exprNode()          {}
func (p *Sub) exprNode()          {}
func (p *Mul) exprNode()          {}
func (p *Div) exprNode()          {}
func (p *Mod) exprNode()          {}
func (p *Min) exprNode()          {}
func (p *Max) exprNode()          {}
func (p *EQ) exprNode()           {}
func (p *NE) exprNode()           {}
func (p *LT) exprNode()           {}
func (p *LE) exprNode()           {}
func (p *GT) exprNode()           {}
func (p *GE) exprNode()           {}
func (p *And) exprNode()          {}
func (p *Or) exprNode()           {}
func (p *Not) exprNode()          {}
func (p *Select) exprNode()       {}
func (p *Let) exprNode()          {}
func (p *Load) exprNode()         {}
func (p *Ramp) exprNode()         {}
func (p *Broadcast) exprNode()    {}
func (p *Shuffle) exprNode()      {}
func (p *VectorReduce) exprNode() {}
func (p *Call) exprNode()         {}
