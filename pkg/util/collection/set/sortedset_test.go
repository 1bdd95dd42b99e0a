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
package set

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"
)

func Test_SortedSet_00(t *testing.T) {
	check_SortedSet_Insert(t, 5, 10)
	check_SortedSet_Remove(t, 5, 10)
}

func Test_SortedSet_01(t *testing.T) {
	// Really hammer it.
	for i := 0; i < 1000; i++ {
		t.Run(fmt.Sprintf("i=%d", i), func(t *testing.T) {
			check_SortedSet_Insert(t, 10, 32)
			check_SortedSet_Remove(t, 10, 32)
		})
	}
}

func Test_SortedSet_02(t *testing.T) {
	check_SortedSet_Insert(t, 100, 32)
	check_SortedSet_Remove(t, 50, 32)
}

func Test_SortedSet_03(t *testing.T) {
	check_SortedSet_Insert(t, 1000, 64)
	check_SortedSet_Remove(t, 500, 64)
}

func Test_SortedSet_04(t *testing.T) {
	set := toSortedSet([]int{5, 1, 3, 1, 4})
	//
	if !slices.Equal(slices.Collect(set.All()), []int{1, 3, 4, 5}) {
		t.Errorf("unexpected order %v", *set)
	}
	//
	if set.Len() != 4 {
		t.Errorf("unexpected length %d", set.Len())
	}
}

func Test_SortedSet_05(t *testing.T) {
	set := toSortedSet([]int{1, 3})
	alias := *set
	// Insertion must not disturb aliases of the underlying array either
	set.Insert(2)
	//
	if !slices.Equal(alias, []int{1, 3}) || !slices.Equal(*set, []int{1, 2, 3}) {
		t.Errorf("unexpected contents %v (alias %v)", *set, alias)
	}
}

func Test_SortedSet_06(t *testing.T) {
	set := toSortedSet([]int{1, 2, 3})
	alias := *set
	// Removal must not disturb aliases of the underlying array
	set.Remove(2)
	//
	if !slices.Equal(alias, []int{1, 2, 3}) {
		t.Errorf("alias modified: %v", alias)
	}
	//
	set.Remove(7)
	//
	if !slices.Equal(*set, []int{1, 3}) {
		t.Errorf("unexpected contents %v", *set)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func generateRandomInts(n int, m int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = rand.IntN(m)
	}
	//
	return items
}

func check_SortedSet_Insert(t *testing.T, n int, m int) {
	items := generateRandomInts(n, m)
	aset := toSortedSet(items)

	for i := 0; i < m; i++ {
		l := slices.Contains(items, i)
		r := aset.Contains(i)
		// Check set
		if !l && r {
			t.Errorf("unexpected item %d", i)
		} else if l && !r {
			t.Errorf("missing item %d", i)
		}
	}
}

func check_SortedSet_Remove(t *testing.T, n int, m int) {
	items := generateRandomInts(n, m)
	removed := generateRandomInts(n/2, m)
	aset := toSortedSet(items)
	//
	for _, r := range removed {
		aset.Remove(r)
	}
	//
	for i := 0; i < m; i++ {
		l := slices.Contains(items, i) && !slices.Contains(removed, i)
		r := aset.Contains(i)
		//
		if !l && r {
			t.Errorf("unexpected item %d", i)
		} else if l && !r {
			t.Errorf("missing item %d", i)
		}
	}
}

func toSortedSet(items []int) *SortedSet[int] {
	set := NewSortedSet[int]()
	for _, v := range items {
		set.Insert(v)
	}

	return set
}
