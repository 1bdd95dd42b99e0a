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
	"github.com/consensys/go-bounds/pkg/ir"
)

func (p *boundsVisitor) visitLoad(e *ir.Load) Interval {
	index := p.bounds(e.Index)
	//
	if !p.constBound && e.Type().IsScalar() && index.IsSinglePoint() && ir.IsConstTrue(e.Predicate) {
		if index.IsSinglePointOf(e.Index) {
			return SinglePoint(e)
		}
		// A load from a single location is itself a single point.
		return SinglePoint(ir.NewPredicatedLoad(e.Type(), e.Name, index.Min, e.Predicate, e.Param))
	}
	//
	return boundsOfType(e.Type())
}

func (p *boundsVisitor) visitRamp(e *ir.Ramp) Interval {
	var (
		t     = e.Stride.Type().ElementOf()
		lanes = int64(e.Lanes) - 1
		name  = p.ctx.names.Fresh("ramp.lane")
		lane  ir.Expr
	)
	// The lane index must be representable in the type of the stride.
	switch {
	case t.IsInt():
		if _, hi := t.IntRange(); hi < lanes {
			lanes = hi
		}
	case t.IsUInt():
		if t.UIntMax() < uint64(lanes) {
			lanes = int64(t.UIntMax())
		}
	}
	//
	lane = ir.NewVar(name, t)
	//
	if n := e.Stride.Type().Lanes; n > 1 {
		lane = ir.NewBroadcast(lane, n)
	}
	//
	laneBounds := Interval{ir.MakeZero(t), ir.MakeConst(t, lanes)}
	// Every lane is of the form base + lane * stride.
	return p.boundsWith(name, laneBounds, ir.NewAdd(e.Base, ir.NewMul(lane, e.Stride)))
}

func (p *boundsVisitor) visitShuffle(e *ir.Shuffle) Interval {
	r := Nothing()
	//
	for _, v := range e.Vectors {
		r.Include(p.bounds(v))
	}
	//
	return r
}

func (p *boundsVisitor) visitVectorReduce(e *ir.VectorReduce) Interval {
	var (
		a = p.bounds(e.Value)
		t = e.Type().ElementOf()
	)
	//
	switch e.Op {
	case ir.ReduceAdd:
		factor := int64(e.Value.Type().Lanes / e.Lanes)
		//
		if !t.CanRepresentInt(factor) {
			return boundsOfType(t)
		}
		//
		r, corners := scaleBounds(a, ir.MakeConst(t, factor), t)
		//
		if t.CanOverflow() && !(r.IsBounded() && (corners == nil || noOverflow(t, mulOp, corners...))) {
			return boundsOfType(t)
		}
		//
		return r
	case ir.ReduceMin, ir.ReduceMax, ir.ReduceAnd, ir.ReduceOr:
		return a
	default:
		return boundsOfType(t)
	}
}
