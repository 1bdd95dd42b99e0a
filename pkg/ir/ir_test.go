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
	"testing"

	"github.com/go-quicktest/qt"
)

var (
	i32 = Int(32)
	x   = NewVar("x", i32)
	y   = NewVar("y", i32)
	z   = NewVar("z", i32)
)

// ============================================================================
// Types
// ============================================================================

func Test_Type_01(t *testing.T) {
	qt.Assert(t, qt.Equals(i32.String(), "int32"))
	qt.Assert(t, qt.Equals(UInt(8).WithLanes(4).String(), "uint8x4"))
	qt.Assert(t, qt.Equals(Bool().String(), "bool"))
	qt.Assert(t, qt.Equals(Float(32).String(), "float32"))
	qt.Assert(t, qt.Equals(Handle().String(), "handle"))
}

func Test_Type_02(t *testing.T) {
	qt.Assert(t, qt.IsTrue(i32.CanRepresent(UInt(16))))
	qt.Assert(t, qt.IsFalse(i32.CanRepresent(UInt(32))))
	qt.Assert(t, qt.IsFalse(UInt(8).CanRepresent(Int(8))))
	qt.Assert(t, qt.IsTrue(Float(64).CanRepresent(i32)))
	qt.Assert(t, qt.IsFalse(Float(32).CanRepresent(i32)))
}

func Test_Type_03(t *testing.T) {
	lo, hi := Int(8).IntRange()
	//
	qt.Assert(t, qt.Equals(lo, -128))
	qt.Assert(t, qt.Equals(hi, 127))
	qt.Assert(t, qt.Equals(UInt(16).UIntMax(), 65535))
	qt.Assert(t, qt.Equals(Int(8).Min().String(), "(int8)-128"))
	qt.Assert(t, qt.Equals(UInt(8).Max().String(), "(uint8)255"))
}

func Test_Type_04(t *testing.T) {
	// Only narrow signed types wrap.
	qt.Assert(t, qt.IsTrue(Int(16).CanOverflow()))
	qt.Assert(t, qt.IsFalse(i32.CanOverflow()))
	qt.Assert(t, qt.IsTrue(UInt(32).CanOverflow()))
	qt.Assert(t, qt.IsFalse(Bool().CanOverflow()))
}

// ============================================================================
// Constants
// ============================================================================

func Test_Const_01(t *testing.T) {
	qt.Assert(t, qt.Equals(MakeConst(Int(8), 200).String(), "(int8)-56"))
	qt.Assert(t, qt.Equals(MakeConst(UInt(8), 256).String(), "(uint8)0"))
	qt.Assert(t, qt.Equals(MakeConst(i32.WithLanes(4), 2).String(), "x4(2)"))
	qt.Assert(t, qt.Equals(MakeBool(true).String(), "true"))
}

func Test_Const_02(t *testing.T) {
	v, ok := AsConstInt(I32(7))
	//
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 7))
	//
	_, ok = AsConstInt(x)
	qt.Assert(t, qt.IsFalse(ok))
	//
	qt.Assert(t, qt.IsTrue(IsConstZero(MakeZero(UInt(16)))))
	qt.Assert(t, qt.IsTrue(IsConstOne(MakeOne(i32.WithLanes(8)))))
	qt.Assert(t, qt.IsTrue(IsConstTrue(ConstTrue(1))))
	qt.Assert(t, qt.IsTrue(IsNegativeConst(I32(-1))))
	qt.Assert(t, qt.IsFalse(IsPositiveConst(I32(0))))
}

// ============================================================================
// Printing
// ============================================================================

func Test_Print_01(t *testing.T) {
	qt.Assert(t, qt.Equals(NewAdd(x, I32(1)).String(), "(x + 1)"))
	qt.Assert(t, qt.Equals(NewSelect(NewLT(x, I32(4)), x, I32(0)).String(), "select((x < 4), x, 0)"))
	qt.Assert(t, qt.Equals(NewLet("y", x, NewMul(y, y)).String(), "(let y = x in (y * y))"))
	qt.Assert(t, qt.Equals(NewMin(x, NewMax(y, I32(2))).String(), "min(x, max(y, 2))"))
}

func Test_Print_02(t *testing.T) {
	qt.Assert(t, qt.Equals(NewRamp(x, I32(1), 4).String(), "ramp(x, 1, 4)"))
	qt.Assert(t, qt.Equals(NewFuncCall(i32, "f", []Expr{x}, 1).String(), "f(x)[1]"))
	qt.Assert(t, qt.Equals(NewFuncCall(i32, "f", []Expr{x, y}, 0).String(), "f(x, y)"))
	qt.Assert(t, qt.Equals(NewCast(UInt(16), x).String(), "uint16(x)"))
}

func Test_Print_03(t *testing.T) {
	var (
		i    = NewVar("i", i32)
		body = NewEvaluate(NewFuncCall(i32, "f", []Expr{i}, 0))
		loop = NewFor("i", I32(0), I32(10), body)
	)
	//
	qt.Assert(t, qt.Equals(loop.String(), "for<serial> (i, 0, 10) {\n  f(i)\n}\n"))
	//
	stmt := NewIfThenElse(NewLT(x, I32(0)), body, NewProvide("g", []Expr{x}, []Expr{y}))
	qt.Assert(t, qt.Equals(stmt.String(), "if ((x < 0)) {\n  f(i)\n} else {\n  g(y) = {x}\n}\n"))
}

func Test_Print_04(t *testing.T) {
	// Mismatched operands are rejected on construction.
	qt.Assert(t, qt.PanicMatches(func() {
		NewAdd(x, MakeConst(UInt(8), 1))
	}, `mismatched types for \+: .*`))
	//
	qt.Assert(t, qt.PanicMatches(func() {
		NewIfThenElse(x, nil, nil)
	}, `non-boolean operand for if: .*`))
}

// ============================================================================
// Substitution and free variables
// ============================================================================

func Test_Substitute_01(t *testing.T) {
	e := Substitute("x", I32(3), NewAdd(x, y))
	qt.Assert(t, qt.Equals(e.String(), "(3 + y)"))
	// Shadowed occurrences are left alone.
	e = Substitute("x", I32(3), NewAdd(x, NewLet("x", I32(1), x)))
	qt.Assert(t, qt.Equals(e.String(), "(3 + (let x = 1 in x))"))
}

func Test_Substitute_02(t *testing.T) {
	loop := NewFor("x", y, I32(4), NewEvaluate(NewAdd(x, y)))
	s := SubstituteInStmt("y", z, SubstituteInStmt("x", I32(0), loop))
	//
	qt.Assert(t, qt.Equals(s.String(), "for<serial> (x, z, 4) {\n  (x + z)\n}\n"))
}

func Test_Substitute_03(t *testing.T) {
	e := NewAdd(x, y)
	// Substituting nothing preserves the node.
	qt.Assert(t, qt.Equals(SubstituteMap(nil, e), Expr(e)))
	qt.Assert(t, qt.Equals(Substitute("z", I32(1), e), Expr(e)))
}

func Test_FreeVars_01(t *testing.T) {
	e := NewAdd(y, NewLet("x", I32(1), NewAdd(x, z)))
	//
	qt.Assert(t, qt.DeepEquals(FreeVariables(e), []string{"y", "z"}))
	qt.Assert(t, qt.IsFalse(ExprUsesVar(e, "x")))
	qt.Assert(t, qt.IsTrue(ExprUsesVar(e, "z")))
	qt.Assert(t, qt.Equals(CountVariableUses(NewMul(x, NewAdd(x, y)), "x"), 2))
}

func Test_FreeVars_02(t *testing.T) {
	loop := NewFor("x", y, I32(4), NewEvaluate(NewAdd(x, z)))
	//
	qt.Assert(t, qt.IsFalse(StmtUsesVar(loop, "x")))
	qt.Assert(t, qt.IsTrue(StmtUsesVar(loop, "y")))
	qt.Assert(t, qt.IsTrue(StmtUsesVar(loop, "z")))
}

// ============================================================================
// Equality and traversal
// ============================================================================

func Test_Equal_01(t *testing.T) {
	qt.Assert(t, qt.IsTrue(Equal(NewAdd(x, I32(1)), NewAdd(NewVar("x", i32), I32(1)))))
	qt.Assert(t, qt.IsFalse(Equal(NewAdd(x, I32(1)), NewSub(x, I32(1)))))
	qt.Assert(t, qt.IsFalse(Equal(I32(1), MakeConst(Int(16), 1))))
	qt.Assert(t, qt.IsFalse(Equal(NewFuncCall(i32, "f", []Expr{x}, 0), NewFuncCall(i32, "f", []Expr{x}, 1))))
	qt.Assert(t, qt.IsTrue(Equal(nil, nil)))
	qt.Assert(t, qt.IsFalse(Equal(x, nil)))
}

func Test_Traverse_01(t *testing.T) {
	e := NewAdd(x, NewMul(y, I32(2)))
	// Rebuilding with the same children preserves the node.
	qt.Assert(t, qt.Equals(WithChildren(e, Children(e)), Expr(e)))
	//
	count := 0
	Walk(e, func(Node) bool {
		count++
		return true
	})
	//
	qt.Assert(t, qt.Equals(count, 5))
}

func Test_Traverse_02(t *testing.T) {
	// Rename every variable.
	m := Mutator{Expr: func(_ *Mutator, e Expr) (Expr, bool) {
		if v, ok := e.(*Variable); ok {
			return NewVar(v.Name+"'", v.Type()), true
		}
		//
		return nil, false
	}}
	//
	qt.Assert(t, qt.Equals(m.MutateExpr(NewAdd(x, NewMul(y, I32(2)))).String(), "(x' + (y' * 2))"))
}

func Test_Names_01(t *testing.T) {
	names := NewNameGenerator()
	//
	qt.Assert(t, qt.Equals(names.Fresh("t"), "t$1"))
	qt.Assert(t, qt.Equals(names.Fresh("t"), "t$2"))
	qt.Assert(t, qt.Equals(names.FreshVar("v", i32).Name, "v$3"))
}
