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
package cse

import (
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/ir/reader"
	"github.com/go-quicktest/qt"
)

func Test_CSE_01(t *testing.T) {
	checkCSE(t, "(* (+ x 1) (+ x 1))", "(let t$1 = (x + 1) in (t$1 * t$1))")
}

func Test_CSE_02(t *testing.T) {
	// Nothing is repeated.
	checkCSE(t, "(+ x 1)", "(x + 1)")
	checkCSE(t, "(+ x x)", "(x + x)")
}

func Test_CSE_03(t *testing.T) {
	// Larger subexpressions absorb the smaller ones they contain.
	checkCSE(t, "(+ (* (+ x 1) y) (* (+ x 1) y))", "(let t$1 = ((x + 1) * y) in (t$1 + t$1))")
}

func Test_CSE_04(t *testing.T) {
	checkCSE(t, "(+ (+ (* x 2) (* y 3)) (- (* x 2) (* y 3)))",
		"(let t$2 = (y * 3) in (let t$1 = (x * 2) in ((t$1 + t$2) + (t$1 - t$2))))")
}

func Test_CSE_05(t *testing.T) {
	// Subexpressions over let-bound variables stay where they are.
	checkCSE(t, "(let z (+ x 1) (+ (* z 2) (* z 2)))", "(let z = (x + 1) in ((z * 2) + (z * 2)))")
}

func checkCSE(t *testing.T, input string, expected string) {
	t.Helper()
	//
	e, err := reader.ParseExpr(input)
	qt.Assert(t, qt.IsNil(err))
	//
	r := CommonSubexpressionElimination(e, ir.NewNameGenerator())
	qt.Assert(t, qt.Equals(r.String(), expected))
}
