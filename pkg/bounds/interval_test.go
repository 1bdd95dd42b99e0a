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
	"github.com/go-quicktest/qt"
)

func Test_Interval_01(t *testing.T) {
	qt.Assert(t, qt.IsTrue(Everything().IsEverything()))
	qt.Assert(t, qt.IsFalse(Everything().HasLowerBound()))
	qt.Assert(t, qt.IsTrue(Nothing().IsEmpty()))
	qt.Assert(t, qt.IsFalse(Everything().IsEmpty()))
	qt.Assert(t, qt.IsTrue(NewInterval(nil, nil).IsEverything()))
	qt.Assert(t, qt.IsTrue(Interval{}.IsEverything()))
}

func Test_Interval_02(t *testing.T) {
	i := SinglePoint(x)
	qt.Assert(t, qt.IsTrue(i.IsSinglePoint()))
	qt.Assert(t, qt.IsTrue(i.IsSinglePointOf(x)))
	qt.Assert(t, qt.IsFalse(i.IsSinglePointOf(ir.NewVar("x", i32))))
	// Equal constants are single points, even when distinct nodes.
	qt.Assert(t, qt.IsTrue(Interval{ir.I32(3), ir.I32(3)}.IsSinglePoint()))
	qt.Assert(t, qt.IsFalse(Interval{ir.I32(3), ir.I32(4)}.IsSinglePoint()))
	qt.Assert(t, qt.IsFalse(Interval{ir.I32(3), PosInf}.IsSinglePoint()))
}

func Test_Interval_03(t *testing.T) {
	i := Interval{ir.I32(0), ir.I32(5)}
	i.Include(Interval{ir.I32(-2), ir.I32(3)})
	qt.Assert(t, qt.IsTrue(i.Equal(Interval{ir.I32(-2), ir.I32(5)})), qt.Commentf("%s", i))
	//
	i.IncludeExpr(ir.I32(9))
	qt.Assert(t, qt.IsTrue(i.Equal(Interval{ir.I32(-2), ir.I32(9)})), qt.Commentf("%s", i))
	// Nothing is the identity of union.
	u := MakeUnion(Nothing(), i)
	qt.Assert(t, qt.IsTrue(u.Equal(i)), qt.Commentf("%s", u))
}

func Test_Interval_04(t *testing.T) {
	var (
		a = Interval{ir.I32(0), ir.I32(10)}
		b = Interval{ir.I32(5), PosInf}
	)
	//
	r := MakeIntersection(a, b)
	qt.Assert(t, qt.IsTrue(r.Equal(Interval{ir.I32(5), ir.I32(10)})), qt.Commentf("%s", r))
	//
	r = MakeUnion(a, b)
	qt.Assert(t, qt.IsTrue(r.Equal(Interval{ir.I32(0), PosInf})), qt.Commentf("%s", r))
}

func Test_Interval_05(t *testing.T) {
	qt.Assert(t, qt.Equals(MakeMin(NegInf, x), NegInf))
	qt.Assert(t, qt.Equals(MakeMin(PosInf, x), ir.Expr(x)))
	qt.Assert(t, qt.Equals(MakeMax(PosInf, x), PosInf))
	qt.Assert(t, qt.Equals(MakeMax(NegInf, x), ir.Expr(x)))
	qt.Assert(t, qt.IsTrue(ir.Equal(MakeMin(ir.I32(4), ir.I32(2)), ir.I32(2))))
	qt.Assert(t, qt.IsTrue(ir.Equal(MakeMax(ir.I32(4), ir.I32(2)), ir.I32(4))))
	qt.Assert(t, qt.IsTrue(ir.Equal(MakeMin(x, y), ir.NewMin(x, y))))
	// Identical bounds are returned as is.
	qt.Assert(t, qt.Equals(MakeMax(x, x), ir.Expr(x)))
	qt.Assert(t, qt.PanicMatches(func() { MakeMin(nil, x) }, "undefined bound"))
}

func Test_Interval_06(t *testing.T) {
	i := Interval{ir.NewAdd(ir.I32(1), ir.I32(2)), PosInf}.Simplified()
	//
	qt.Assert(t, qt.IsTrue(i.Equal(Interval{ir.I32(3), PosInf})), qt.Commentf("%s", i))
	qt.Assert(t, qt.Equals(i.String(), "[3, +∞]"))
	qt.Assert(t, qt.Equals(Everything().String(), "[-∞, +∞]"))
}
