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
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
)

// Direction selects one side of an interval.
type Direction uint8

const (
	// Upper selects the upper bound of an interval.
	Upper Direction = iota
	// Lower selects the lower bound of an interval.
	Lower
)

// BoundsOfExprInScope computes an interval enclosing every value an expression
// can take, given intervals for the variables in scope and (optionally) the
// value bounds of the functions it calls.  See Context.BoundsOfExprInScope.
func BoundsOfExprInScope(e ir.Expr, s *scope.Scope[Interval], fb FuncValueBounds, constBound bool) Interval {
	return NewContext(fb, nil).BoundsOfExprInScope(e, s, constBound)
}

// FindConstantBounds computes literal bounds on an expression.  Any side which
// cannot be given a literal bound is infinite.
func FindConstantBounds(e ir.Expr, s *scope.Scope[Interval]) Interval {
	r := BoundsOfExprInScope(e, s, nil, true).Simplified()
	// Simplification may expose a constant, but never destroys one.
	if !isInf(r.Min) && !ir.IsConst(r.Min) {
		r.Min = NegInf
	}
	//
	if !isInf(r.Max) && !ir.IsConst(r.Max) {
		r.Max = PosInf
	}
	//
	return r
}

// FindConstantBound computes a literal bound on one side of an expression,
// returning nil when there is none.
func FindConstantBound(e ir.Expr, d Direction, s *scope.Scope[Interval]) ir.Expr {
	var (
		r     = FindConstantBounds(e, s)
		bound = r.Max
	)
	//
	if d == Lower {
		bound = r.Min
	}
	//
	if isInf(bound) {
		return nil
	}
	//
	return bound
}
