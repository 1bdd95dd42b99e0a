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
package function

import (
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/go-quicktest/qt"
)

func Test_Function_01(t *testing.T) {
	x := ir.NewVar("x", ir.Int(32))
	f := NewFunction("f", []string{"x"}, ir.NewAdd(x, ir.I32(1)))
	//
	qt.Assert(t, qt.IsTrue(f.IsPure()))
	qt.Assert(t, qt.Equals(f.Outputs(), 1))
	qt.Assert(t, qt.Equals(f.String(), "f(x) = (x + 1)"))
	//
	f.Update([]ir.Expr{ir.I32(0)}, ir.I32(3))
	qt.Assert(t, qt.IsFalse(f.IsPure()))
}

func Test_Function_02(t *testing.T) {
	f := NewExternFunction("g", []string{"x", "y"}, ir.UInt(8))
	qt.Assert(t, qt.IsFalse(f.IsPure()))
	//
	call := f.Call(0, ir.I32(1), ir.I32(2))
	qt.Assert(t, qt.Equals(call.Type(), ir.UInt(8)))
	qt.Assert(t, qt.Equals(call.CallType, ir.CallHalide))
	qt.Assert(t, qt.PanicMatches(func() { f.Call(1, ir.I32(1), ir.I32(2)) }, "function g has no output 1"))
}

func Test_Function_03(t *testing.T) {
	x := ir.NewVar("x", ir.Int(32))
	p := ir.NewVar("p", ir.Int(32))
	f := NewFunction("f", []string{"x"}, x)
	f.Specialize(ir.NewGT(p, ir.I32(0)), ir.I32(0))
	f.SpecializeFail(ir.NewLT(p, ir.I32(-5)), "p is too small")
	//
	specs := f.Definition.Specializations
	qt.Assert(t, qt.HasLen(specs, 2))
	qt.Assert(t, qt.Equals(specs[0].Failure, ""))
	qt.Assert(t, qt.Equals(specs[1].Failure, "p is too small"))
	qt.Assert(t, qt.IsTrue(f.IsPure()))
}
