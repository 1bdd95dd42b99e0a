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
	"cmp"
	"iter"
	"slices"
)

// SortedSet holds unique values in ascending order.  Sorted sets are used
// where a deterministic iteration order matters, such as when walking the
// dependents of a binding in the order they were introduced.
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns an empty sorted set.
func NewSortedSet[T cmp.Ordered]() *SortedSet[T] {
	return &SortedSet[T]{}
}

// Contains checks whether a given element is in this set.
func (p *SortedSet[T]) Contains(element T) bool {
	_, found := slices.BinarySearch(*p, element)
	return found
}

// Insert adds an element to this set, if it is not already present.  The
// underlying array is never modified in place, so earlier aliases of it are
// unaffected.
func (p *SortedSet[T]) Insert(element T) {
	if i, found := slices.BinarySearch(*p, element); !found {
		*p = slices.Insert(slices.Clip(*p), i, element)
	}
}

// Remove an element from this set, if it is present.
func (p *SortedSet[T]) Remove(element T) {
	if i, found := slices.BinarySearch(*p, element); found {
		*p = slices.Delete(slices.Clone(*p), i, i+1)
	}
}

// Len returns the number of elements in this set.
func (p *SortedSet[T]) Len() int {
	return len(*p)
}

// All returns an iterator over the elements of this set, in ascending order.
func (p *SortedSet[T]) All() iter.Seq[T] {
	return slices.Values(*p)
}
