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

// Equal determines whether two expressions are structurally identical.
// Expressions which are the same node are trivially equal.
func Equal(a, b Expr) bool {
	if a == b {
		return true
	} else if a == nil || b == nil || a.Type() != b.Type() {
		return false
	}
	//
	switch a := a.(type) {
	case *IntImm:
		b, ok := b.(*IntImm)
		return ok && a.Value == b.Value
	case *UIntImm:
		b, ok := b.(*UIntImm)
		return ok && a.Value == b.Value
	case *FloatImm:
		b, ok := b.(*FloatImm)
		return ok && a.Value == b.Value
	case *StringImm:
		b, ok := b.(*StringImm)
		return ok && a.Value == b.Value
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *Cast:
		b, ok := b.(*Cast)
		return ok && Equal(a.Value, b.Value)
	case *Reinterpret:
		b, ok := b.(*Reinterpret)
		return ok && Equal(a.Value, b.Value)
	case *Select:
		b, ok := b.(*Select)
		return ok && Equal(a.Condition, b.Condition) && Equal(a.TrueValue, b.TrueValue) &&
			Equal(a.FalseValue, b.FalseValue)
	case *Let:
		b, ok := b.(*Let)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value) && Equal(a.Body, b.Body)
	case *Load:
		b, ok := b.(*Load)
		return ok && a.Name == b.Name && Equal(a.Index, b.Index) && Equal(a.Predicate, b.Predicate)
	case *Ramp:
		b, ok := b.(*Ramp)
		return ok && a.Lanes == b.Lanes && Equal(a.Base, b.Base) && Equal(a.Stride, b.Stride)
	case *Broadcast:
		b, ok := b.(*Broadcast)
		return ok && a.Lanes == b.Lanes && Equal(a.Value, b.Value)
	case *Shuffle:
		b, ok := b.(*Shuffle)
		return ok && slices.Equal(a.Indices, b.Indices) && EqualAll(a.Vectors, b.Vectors)
	case *VectorReduce:
		b, ok := b.(*VectorReduce)
		return ok && a.Op == b.Op && Equal(a.Value, b.Value)
	case *Call:
		b, ok := b.(*Call)
		return ok && a.Name == b.Name && a.CallType == b.CallType && a.ValueIndex == b.ValueIndex &&
			EqualAll(a.Args, b.Args)
	default:
		// Remaining nodes are distinguished by their kind and operands alone.
		as, bs := Children(a), Children(b)
		return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b) && EqualAll(as, bs)
	}
}

// EqualAll determines whether two lists of expressions are pairwise
// structurally identical.
func EqualAll(as, bs []Expr) bool {
	return slices.EqualFunc(as, bs, Equal)
}

// EqualStmt determines whether two statements are structurally identical.
func EqualStmt(a, b Stmt) bool {
	if a == b {
		return true
	} else if a == nil || b == nil {
		return false
	}
	// Statements are compared via their canonical rendering, which includes
	// every field.
	return a.String() == b.String()
}
