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
	"fmt"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/simplify"
)

// Region is an explicit multi-dimensional region, given as a (min, extent)
// pair in each dimension.
type Region []ir.Range

// RegionUnion returns the smallest region containing both arguments.
func RegionUnion(a, b Region) Region {
	if len(a) != len(b) {
		panic(fmt.Sprintf("region union of differing dimensionality (%d vs %d)", len(a), len(b)))
	}
	//
	result := make(Region, len(a))
	//
	for i := range a {
		var (
			min   = ir.NewMin(a[i].Min, b[i].Min)
			aEnd  = ir.NewAdd(a[i].Min, a[i].Extent)
			bEnd  = ir.NewAdd(b[i].Min, b[i].Extent)
			limit = ir.NewMax(aEnd, bEnd)
		)
		//
		result[i] = ir.Range{Min: simplify.Simplify(min), Extent: simplify.Simplify(ir.NewSub(limit, min))}
	}
	//
	return result
}

// IntervalToRange converts a bounded interval into a (min, extent) range.
// This panics if the interval is unbounded.
func IntervalToRange(i Interval) ir.Range {
	if !i.IsBounded() {
		panic(fmt.Sprintf("range of unbounded interval %s", i))
	}
	//
	extent := ir.NewAdd(ir.NewSub(i.Max, i.Min), ir.MakeOne(i.Min.Type()))
	//
	return ir.Range{Min: i.Min, Extent: simplify.Simplify(extent)}
}

// BoxToRegion converts a bounded box into a region.  The guard of the box (if
// any) is dropped.
func BoxToRegion(b Box) Region {
	region := make(Region, b.Size())
	for i, bound := range b.Bounds {
		region[i] = IntervalToRange(bound)
	}
	//
	return region
}

// RegionToBox converts a region into an unguarded box.
func RegionToBox(r Region) Box {
	box := Box{Bounds: make([]Interval, len(r))}
	//
	for i, rng := range r {
		max := ir.NewSub(ir.NewAdd(rng.Min, rng.Extent), ir.MakeOne(rng.Min.Type()))
		box.Bounds[i] = Interval{rng.Min, simplify.Simplify(max)}
	}
	//
	return box
}
