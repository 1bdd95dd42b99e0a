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
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	"github.com/go-quicktest/qt"
)

func Test_BoxesTouched_01(t *testing.T) {
	boxes := BoxesRequired(pipeline(), rangeScope("y", 0, 10), nil)
	//
	qt.Assert(t, qt.HasLen(boxes, 1))
	checkBox(t, boxes["input"], box(6, 25))
}

func Test_BoxesTouched_02(t *testing.T) {
	boxes := BoxesProvided(pipeline(), rangeScope("y", 0, 10), nil)
	//
	qt.Assert(t, qt.HasLen(boxes, 1))
	checkBox(t, boxes["output"], box(4, 13))
}

func Test_BoxesTouched_03(t *testing.T) {
	boxes := BoxesTouched(pipeline(), rangeScope("y", 0, 10), nil)
	//
	qt.Assert(t, qt.HasLen(boxes, 2))
	checkBox(t, boxes["input"], box(6, 25))
	checkBox(t, boxes["output"], box(4, 13))
}

func Test_BoxesTouched_04(t *testing.T) {
	s := rangeScope("y", 0, 10)
	checkBox(t, BoxRequired(pipeline(), "input", s, nil), box(6, 25))
	checkBox(t, BoxProvided(pipeline(), "output", s, nil), box(4, 13))
	checkBox(t, BoxTouched(pipeline(), "output", s, nil), box(4, 13))
	// Untouched functions give empty boxes.
	qt.Assert(t, qt.IsTrue(BoxRequired(pipeline(), "other", s, nil).Empty()))
}

func Test_BoxesTouched_05(t *testing.T) {
	// Expressions are handled as well as statements.
	e := ir.NewAdd(call("f", ir.NewMul(x, ir.I32(2))), call("f", ir.NewAdd(x, ir.I32(30))))
	boxes := BoxesRequired(e, rangeScope("x", 0, 10), nil)
	//
	checkBox(t, boxes["f"], box(0, 40))
}

func Test_BoxesTouched_06(t *testing.T) {
	var (
		p = ir.NewVar("p", i32)
		q = ir.NewVar("q", i32)
		c = ir.NewLT(p, q)
	)
	// Branches on a pure condition over unbounded variables are guarded, and
	// complementary guards cancel.
	stmt := ir.NewIfThenElse(c, ir.NewEvaluate(call("f", ir.I32(0))), ir.NewEvaluate(call("f", ir.I32(5))))
	b := BoxRequired(stmt, "f", scope.NewScope[Interval](nil), nil)
	//
	qt.Assert(t, qt.Equals(b.Size(), 1))
	qt.Assert(t, qt.IsFalse(b.MaybeUnused()), qt.Commentf("%s", b))
}

func Test_BoxesTouched_07(t *testing.T) {
	var (
		p = ir.NewVar("p", i32)
		c = ir.NewLT(p, ir.I32(0))
	)
	// Only one branch touches f.
	stmt := ir.NewIfThenElse(c, ir.NewEvaluate(call("f", ir.I32(1))), nil)
	b := BoxRequired(stmt, "f", scope.NewScope[Interval](nil), nil)
	//
	checkBounds1(t, b, ir.I32(1), ir.I32(1))
	qt.Assert(t, qt.IsTrue(b.MaybeUnused()), qt.Commentf("%s", b))
}

func Test_BoxesTouched_08(t *testing.T) {
	var (
		p    = ir.NewVar("p", i32)
		fail = ir.NewAssert(ir.ConstFalse(1), ir.NewStringImm("unreachable"))
	)
	// Failing branches imply the other is taken.
	stmt := ir.NewIfThenElse(ir.NewLT(p, ir.I32(0)), ir.NewEvaluate(call("f", ir.I32(1))), fail)
	b := BoxRequired(stmt, "f", scope.NewScope[Interval](nil), nil)
	//
	checkBox(t, b, box(1, 1))
}

func Test_BoxesTouched_09(t *testing.T) {
	// Conditions over bounded variables narrow them.
	cond := ir.NewLT(x, ir.I32(4))
	stmt := ir.NewIfThenElse(cond, ir.NewEvaluate(call("f", x)), ir.NewEvaluate(call("g", x)))
	boxes := BoxesRequired(stmt, rangeScope("x", 0, 10), nil)
	//
	checkBox(t, boxes["f"], box(0, 3))
	checkBox(t, boxes["g"], box(4, 10))
}

func Test_BoxesTouched_10(t *testing.T) {
	// Loops bind their variable to the range iterated.
	loop := ir.NewFor("i", ir.I32(0), y, ir.NewEvaluate(call("f", ir.NewVar("i", i32))))
	b := BoxRequired(loop, "f", rangeScope("y", 1, 8), nil)
	//
	checkBox(t, b, box(0, 7))
}

func Test_BoxesTouched_11(t *testing.T) {
	var (
		buf  = ir.NewVar("f.buffer", ir.Handle())
		decl = ir.NewImpureIntrinsic(i32, ir.DeclareBoxTouched, buf, ir.I32(2), ir.NewAdd(x, ir.I32(2)))
	)
	//
	b := BoxTouched(ir.NewEvaluate(decl), "f", rangeScope("x", 0, 10), nil)
	checkBox(t, b, box(2, 12))
}

func Test_BoxesTouched_12(t *testing.T) {
	// Multi-dimensional provides are bounded in each dimension.
	args := []ir.Expr{x, ir.NewMul(y, ir.I32(3))}
	stmt := ir.NewProvide("out", []ir.Expr{ir.I32(0)}, args)
	//
	s := rangeScope("x", 0, 10)
	s.Push("y", Interval{ir.I32(-1), ir.I32(1)})
	//
	b := BoxProvided(stmt, "out", s, nil)
	qt.Assert(t, qt.Equals(b.Size(), 2))
	checkBounds1(t, Box{Bounds: b.Bounds[:1]}, ir.I32(0), ir.I32(10))
	checkBounds1(t, Box{Bounds: b.Bounds[1:]}, ir.I32(-3), ir.I32(3))
}

func Test_BoxesTouched_13(t *testing.T) {
	var (
		p    = ir.NewVar("p", i32)
		fail = ir.NewAssert(ir.ConstFalse(1), ir.NewStringImm("unreachable"))
	)
	// Anything touched by a failing branch before it fails is still touched.
	elseCase := ir.NewBlock(ir.NewEvaluate(call("f", ir.I32(5))), fail)
	stmt := ir.NewIfThenElse(ir.NewLT(p, ir.I32(0)), ir.NewEvaluate(call("f", ir.I32(1))), elseCase)
	b := BoxRequired(stmt, "f", scope.NewScope[Interval](nil), nil)
	//
	checkBox(t, b, box(1, 5))
	// Likewise when the failing branch comes first.
	stmt = ir.NewIfThenElse(ir.NewLT(p, ir.I32(0)), elseCase, ir.NewEvaluate(call("f", ir.I32(1))))
	b = BoxRequired(stmt, "f", scope.NewScope[Interval](nil), nil)
	//
	checkBox(t, b, box(1, 5))
}

func Test_BoxesTouched_14(t *testing.T) {
	// Conditions which cannot be solved for a variable leave it unnarrowed.
	cond := ir.NewLT(ir.NewAdd(ir.NewMul(x, x), ir.I32(1)), ir.I32(5))
	stmt := ir.NewIfThenElse(cond, ir.NewEvaluate(call("f", x)), nil)
	b := BoxRequired(stmt, "f", rangeScope("x", 0, 10), nil)
	//
	checkBox(t, b, box(0, 10))
}

func Test_BoxesTouched_15(t *testing.T) {
	// A copy into a buffer only provides to it within its own producer.
	s := rangeScope("x", 0, 10)
	checkBox(t, BoxProvided(bufferCopy(ir.NewProducer, "f"), "f", s, nil), box(0, 13))
	qt.Assert(t, qt.IsTrue(BoxProvided(bufferCopy(ir.NewProducer, "g"), "f", s, nil).Empty()))
	qt.Assert(t, qt.IsTrue(BoxProvided(bufferCopy(ir.NewConsumer, "f"), "f", s, nil).Empty()))
}

func Test_BoxesTouched_16(t *testing.T) {
	var (
		buf    = ir.NewVar("f.buffer", ir.Handle())
		mins   = ir.NewIntrinsic(ir.Handle(), ir.MakeStruct, x, y)
		extent = ir.NewIntrinsic(ir.Handle(), ir.MakeStruct, ir.I32(4))
	)
	// Malformed crops give no box.
	crops := []ir.Expr{
		ir.NewImpureIntrinsic(ir.Handle(), ir.BufferCrop, buf),
		ir.NewImpureIntrinsic(ir.Handle(), ir.BufferCrop, buf, buf, buf, mins, extent),
		ir.NewImpureIntrinsic(ir.Handle(), ir.BufferSetBounds, buf, ir.I32(0)),
	}
	//
	for _, crop := range crops {
		qt.Assert(t, qt.IsTrue(boxFromExtendedCrop(crop).Empty()), qt.Commentf("%s", crop))
	}
}

// ============================================================================
// Helpers
// ============================================================================

func call(name string, args ...ir.Expr) ir.Expr {
	return ir.NewFuncCall(i32, name, args, 0)
}

func checkBounds1(t *testing.T, b Box, lo, hi ir.Expr) {
	t.Helper()
	//
	qt.Assert(t, qt.Equals(b.Size(), 1), qt.Commentf("%s", b))
	qt.Assert(t, qt.IsTrue(b.Bounds[0].Simplified().Equal(Interval{lo, hi})), qt.Commentf("%s", b))
}

// pipeline constructs the following statement, where the loop variable shadows
// an enclosing let:
//
//	let x = y + 10
//	let z = x + 2
//	let w = z + 3
//	for x in [3, 13):
//	  if z > 18:
//	    if y > 4:
//	      output(x + 1) = input(2*x) + input(2*x + 1)
func pipeline() ir.Stmt {
	var (
		z   = ir.NewVar("z", i32)
		two = ir.NewMul(ir.I32(2), x)
	)
	//
	value := ir.NewAdd(call("input", two), call("input", ir.NewAdd(two, ir.I32(1))))
	provide := ir.NewProvide("output", []ir.Expr{value}, []ir.Expr{ir.NewAdd(x, ir.I32(1))})
	body := ir.NewIfThenElse(ir.NewGT(z, ir.I32(18)), ir.NewIfThenElse(ir.NewGT(y, ir.I32(4)), provide, nil), nil)
	loop := ir.NewFor("x", ir.I32(3), ir.I32(10), body)
	//
	return ir.NewLetStmt("x", ir.NewAdd(y, ir.I32(10)),
		ir.NewLetStmt("z", ir.NewAdd(x, ir.I32(2)),
			ir.NewLetStmt("w", ir.NewAdd(z, ir.I32(3)), loop)))
}

// bufferCopy constructs a copy into the buffer of f, cropped to [x, x+3], within
// a producer (or consumer) of a given function.
func bufferCopy(node func(string, ir.Stmt) *ir.ProducerConsumer, fn string) ir.Stmt {
	var (
		buf  = ir.NewVar("f.buffer", ir.Handle())
		src  = ir.NewVar("in.buffer", ir.Handle())
		dev  = ir.NewVar("device", ir.Handle())
		crop = ir.NewImpureIntrinsic(ir.Handle(), ir.BufferCrop, ir.NewVar("dst", ir.Handle()), dev, src,
			ir.NewIntrinsic(ir.Handle(), ir.MakeStruct, x), ir.NewIntrinsic(ir.Handle(), ir.MakeStruct, ir.I32(4)))
		cp = ir.NewCall(i32, ir.BufferCopy, []ir.Expr{src, dev, buf}, ir.CallExtern)
	)
	//
	return node(fn, ir.NewLetStmt("f.buffer", crop, ir.NewEvaluate(cp)))
}
