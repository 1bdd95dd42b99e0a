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
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/ir/reader"
	"github.com/go-quicktest/qt"
)

// ============================================================================
// Folding
// ============================================================================

func Test_Fold_01(t *testing.T) {
	checkSimplify(t, "(+ 2 3)", "5")
	checkSimplify(t, "(* (- 2 7) 3)", "-15")
	checkSimplify(t, "(min 4 (max 1 9))", "4")
}

func Test_Fold_02(t *testing.T) {
	// Division rounds towards negative infinity, so the remainder is positive.
	checkSimplify(t, "(/ -7 2)", "-4")
	checkSimplify(t, "(% -7 2)", "1")
	checkSimplify(t, "(/ 7 0)", "0")
}

func Test_Fold_03(t *testing.T) {
	// Unsigned arithmetic wraps.
	checkSimplify(t, "(* 3:u8 100:u8)", "(uint8)44")
	checkSimplify(t, "(- 1:u8 2:u8)", "(uint8)255")
}

func Test_Fold_04(t *testing.T) {
	checkSimplify(t, "(< 1 2)", "true")
	checkSimplify(t, "(== 3 4)", "false")
	checkSimplify(t, "(select (< 1 2) x y)", "x")
}

func Test_Fold_05(t *testing.T) {
	qt.Assert(t, qt.Equals(EuclideanDiv(7, 2), 3))
	qt.Assert(t, qt.Equals(EuclideanDiv(-7, 2), -4))
	qt.Assert(t, qt.Equals(EuclideanDiv(-7, -2), 4))
	qt.Assert(t, qt.Equals(EuclideanMod(-7, 2), 1))
	qt.Assert(t, qt.Equals(EuclideanMod(-7, -2), 1))
	qt.Assert(t, qt.Equals(EuclideanMod(7, 0), 0))
}

// ============================================================================
// Linear forms
// ============================================================================

func Test_Linear_01(t *testing.T) {
	checkSimplify(t, "(+ (+ x 1) 2)", "(x + 3)")
	checkSimplify(t, "(- (* x 2) x)", "x")
	checkSimplify(t, "(- x x)", "0")
}

func Test_Linear_02(t *testing.T) {
	checkSimplify(t, "(- 3 x)", "(3 - x)")
	checkSimplify(t, "(- (+ x 5) 5)", "x")
}

func Test_Linear_03(t *testing.T) {
	checkSimplify(t, "(/ (+ (* x 4) 8) 4)", "(x + 2)")
	checkSimplify(t, "(% (+ (* x 4) 7) 4)", "3")
	checkSimplify(t, "(/ x 1)", "x")
	checkSimplify(t, "(% x 1)", "0")
}

func Test_Linear_04(t *testing.T) {
	checkSimplify(t, "(min x (+ x 1))", "x")
	checkSimplify(t, "(max x (+ x 1))", "(x + 1)")
	checkSimplify(t, "(min x x)", "x")
}

// ============================================================================
// Comparisons and logic
// ============================================================================

func Test_Compare_01(t *testing.T) {
	checkSimplify(t, "(< x (+ x 1))", "true")
	checkSimplify(t, "(<= (+ x 1) x)", "false")
	checkSimplify(t, "(== (+ x 2) 5)", "(x == 3)")
}

func Test_Compare_02(t *testing.T) {
	// Unsigned values are never negative.
	checkSimplify(t, "(< (cast u8 x) 0:u8)", "false")
	checkSimplify(t, "(<= (cast u8 x) 255:u8)", "true")
}

func Test_Logic_01(t *testing.T) {
	checkSimplify(t, "(|| (< x 3) true)", "true")
	checkSimplify(t, "(&& (< x 3) true)", "(x < 3)")
	checkSimplify(t, "(! (! (< x 3)))", "(x < 3)")
}

// ============================================================================
// Casts, lets and statements
// ============================================================================

func Test_Cast_01(t *testing.T) {
	checkSimplify(t, "(cast i32 (cast i64 x))", "x")
	checkSimplify(t, "(cast u8 300)", "(uint8)44")
	checkSimplify(t, "(cast i32 x)", "x")
}

func Test_Let_01(t *testing.T) {
	// Trivial values are substituted, and unused lets are dropped.
	checkSimplify(t, "(let y 3 (+ x y))", "(x + 3)")
	checkSimplify(t, "(let y (* x x) 1)", "1")
	checkSimplify(t, "(let y (* x x) (+ y 1))", "(let y = (x * x) in (y + 1))")
}

func Test_Stmt_01(t *testing.T) {
	var (
		x = ir.NewVar("x", ir.Int(32))
		a = ir.NewEvaluate(x)
		b = ir.NewEvaluate(ir.I32(1))
	)
	//
	qt.Assert(t, qt.Equals(SimplifyStmt(ir.NewIfThenElse(ir.ConstTrue(1), a, b)), ir.Stmt(a)))
	qt.Assert(t, qt.Equals(SimplifyStmt(ir.NewIfThenElse(ir.ConstFalse(1), a, b)), ir.Stmt(b)))
	qt.Assert(t, qt.IsNil(SimplifyStmt(nil)))
}

func Test_Idempotent_01(t *testing.T) {
	inputs := []string{
		"(+ (* x 3) (- y (* x 2)))",
		"(min (+ x 1) (max y 2))",
		"(select (< x y) (/ x 2) (% y 3))",
		"(== (* 2 (+ x 1)) (+ y 4))",
	}
	//
	for _, input := range inputs {
		once := Simplify(parse(t, input))
		twice := Simplify(once)
		//
		qt.Assert(t, qt.IsTrue(ir.Equal(once, twice)), qt.Commentf("%s vs %s", once, twice))
	}
}

func Test_CanProve_01(t *testing.T) {
	qt.Assert(t, qt.IsTrue(CanProve(parse(t, "(<= x (+ x 0))"))))
	qt.Assert(t, qt.IsTrue(CanProve(parse(t, "(>= (% x 8) 0)"))))
	qt.Assert(t, qt.IsFalse(CanProve(parse(t, "(< x 5)"))))
}

// ============================================================================
// Constant intervals
// ============================================================================

func Test_ConstantInterval_01(t *testing.T) {
	checkInterval(t, "(% x 10)", "(0..9)")
	checkInterval(t, "(cast u8 x)", "(0..255)")
	checkInterval(t, "(+ (cast u8 x) (cast u8 y))", "(0..255)")
	checkInterval(t, "(+ (cast i32 (cast u8 x)) 1)", "(1..256)")
}

func Test_ConstantInterval_02(t *testing.T) {
	checkInterval(t, "(select (< x 0) 3 (min (% x 5) 2))", "(0..3)")
	checkInterval(t, "(let y (% x 4) (* y 2))", "(0..6)")
	checkInterval(t, "(/ (% x 9) 2)", "(0..4)")
}

// ============================================================================
// Helpers
// ============================================================================

func parse(t *testing.T, input string) ir.Expr {
	t.Helper()
	//
	e, err := reader.ParseExpr(input)
	qt.Assert(t, qt.IsNil(err))
	//
	return e
}

func checkSimplify(t *testing.T, input string, expected string) {
	t.Helper()
	//
	qt.Assert(t, qt.Equals(Simplify(parse(t, input)).String(), expected), qt.Commentf("simplifying %s", input))
}

func checkInterval(t *testing.T, input string, expected string) {
	t.Helper()
	//
	r := ConstantInterval(parse(t, input))
	qt.Assert(t, qt.Equals(r.String(), expected), qt.Commentf("interval of %s", input))
}
