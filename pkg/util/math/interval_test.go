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
package math

import (
	"math/big"
	"math/rand/v2"
	"testing"
)

const (
	ADD = iota
	SUB
	MUL
	MIN
	MAX
	DIV
)

func Test_Interval_01(t *testing.T) {
	checkInterval(t, []uint{}, [][]int{})
}
func Test_Interval_02a(t *testing.T) {
	checkInterval(t, []uint{ADD}, [][]int{{1, 2, 3}})
}
func Test_Interval_02b(t *testing.T) {
	checkInterval(t, []uint{ADD}, [][]int{{-1, 2, 3}})
}
func Test_Interval_03a(t *testing.T) {
	checkInterval(t, []uint{SUB}, [][]int{{1, 2, 3}})
}
func Test_Interval_03b(t *testing.T) {
	checkInterval(t, []uint{SUB}, [][]int{{-1, -2, -3}})
}
func Test_Interval_04a(t *testing.T) {
	checkInterval(t, []uint{ADD, MUL}, [][]int{{1, 2, 3}, {-4, 5}})
}
func Test_Interval_04b(t *testing.T) {
	checkInterval(t, []uint{SUB, MUL}, [][]int{{-1, 2, 3}, {-4, -5}})
}
func Test_Interval_05a(t *testing.T) {
	checkInterval(t, []uint{ADD, MIN}, [][]int{{-1, 7, 3}, {2, 5}})
}
func Test_Interval_05b(t *testing.T) {
	checkInterval(t, []uint{ADD, MAX}, [][]int{{-1, 7, 3}, {2, 5}})
}
func Test_Interval_06a(t *testing.T) {
	checkInterval(t, []uint{ADD, DIV}, [][]int{{-7, 2, 13}, {3}})
}
func Test_Interval_06b(t *testing.T) {
	checkInterval(t, []uint{SUB, MUL, DIV}, [][]int{{-7, 2, 13}, {-2, 3}, {4}})
}

// Infinities

func Test_Interval_10(t *testing.T) {
	r := Interval{NegInfinity, finite(5)}
	r.Min(NewInterval64(0, 10))
	// min(x, [0,10]) where x <= 5
	checkBounds(t, r, "-∞", "5")
}

func Test_Interval_11(t *testing.T) {
	r := Interval{finite(3), PosInfinity}
	r.Min(NewInterval64(0, 10))
	// min(x, [0,10]) where x >= 3
	checkBounds(t, r, "0", "10")
}

func Test_Interval_12(t *testing.T) {
	r := Interval{finite(3), PosInfinity}
	r.Max(NewInterval64(0, 10))
	checkBounds(t, r, "3", "+∞")
}

func Test_Interval_13(t *testing.T) {
	r := INFINITY
	r.Mul(NewInterval64(2, 2))
	checkBounds(t, r, "-∞", "+∞")
}

func Test_Interval_14(t *testing.T) {
	r := Interval{finite(-9), PosInfinity}
	r.Div(*big.NewInt(4))
	checkBounds(t, r, "-3", "+∞")
}

func Test_Interval_15(t *testing.T) {
	a := NewInterval64(0, 9)
	b := NewInterval64(10, 20)
	//
	if !a.Below(b) || b.Below(a) || !a.BelowOrEqual(b) {
		t.Errorf("incorrect ordering of %s and %s", a.String(), b.String())
	}
	//
	if INFINITY.Below(b) || a.Below(INFINITY) {
		t.Errorf("infinite interval incorrectly ordered")
	}
}

// Random

func Test_Interval_30(t *testing.T) {
	checkRandomWalk(t, 3, 10)
}

func Test_Interval_31(t *testing.T) {
	checkRandomWalk(t, 4, 20)
}

func Test_Interval_32(t *testing.T) {
	checkRandomWalk(t, 5, 100)
}

func checkRandomWalk(t *testing.T, n uint, m int) {
	ops := make([]uint, n)
	sets := make([][]int, n)
	// Fill out steps
	for i := uint(0); i < n; i++ {
		ops[i] = uint(rand.IntN(DIV))
		sets[i] = make([]int, n)
		//
		for j := range sets[i] {
			sets[i][j] = rand.IntN(2*m) - m
		}
	}
	// Check the operations
	checkInterval(t, ops, sets)
}

func checkInterval(t *testing.T, ops []uint, sets [][]int) {
	var (
		r Interval
		s = []int{0}
	)
	//
	for i, set := range sets {
		ith := toInterval(set)
		//
		switch ops[i] {
		case ADD:
			r.Add(ith)
			s = apply(s, set, func(x, y int) int { return x + y })
		case SUB:
			r.Sub(ith)
			s = apply(s, set, func(x, y int) int { return x - y })
		case MUL:
			r.Mul(ith)
			s = apply(s, set, func(x, y int) int { return x * y })
		case MIN:
			r.Min(ith)
			s = apply(s, set, func(x, y int) int { return min(x, y) })
		case MAX:
			r.Max(ith)
			s = apply(s, set, func(x, y int) int { return max(x, y) })
		case DIV:
			// divisors are always a single positive constant
			r.Div(*big.NewInt(int64(set[0])))
			s = apply(s, set[:1], floorDiv)
		default:
			panic("unknown operation")
		}
	}
	// final check
	for _, item := range s {
		if !r.Contains(*big.NewInt(int64(item))) {
			t.Errorf("value %d not contained in %s", item, r.String())
		}
	}
}

func checkBounds(t *testing.T, r Interval, lo, hi string) {
	rmin, rmax := r.MinValue(), r.MaxValue()
	//
	if rmin.String() != lo || rmax.String() != hi {
		t.Errorf("expected (%s..%s), got %s", lo, hi, r.String())
	}
}

func apply(lhs []int, rhs []int, fn func(int, int) int) []int {
	res := make([]int, 0)
	//
	for i := range lhs {
		for j := range rhs {
			res = append(res, fn(lhs[i], rhs[j]))
		}
	}
	//
	return res
}

func floorDiv(x, y int) int {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	//
	return q
}

func toInterval(items []int) Interval {
	var r Interval
	//
	for i, item := range items {
		ith := NewInterval64(int64(item), int64(item))
		//
		if i == 0 {
			r.Set(ith)
		} else {
			r.Insert(ith)
		}
	}
	//
	return r
}

func finite(v int64) InfInt {
	var r InfInt
	//
	r.SetInt(*big.NewInt(v))
	//
	return r
}
