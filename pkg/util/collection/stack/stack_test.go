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
package stack

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func Test_Stack_01(t *testing.T) {
	s := NewStack[int]()
	qt.Assert(t, qt.IsTrue(s.IsEmpty()))
	s.Push(1)
	s.Push(2)
	s.Push(3)
	qt.Assert(t, qt.Equals(s.Len(), uint(3)))
	qt.Assert(t, qt.Equals(s.Pop(), 3))
	qt.Assert(t, qt.Equals(s.Len(), uint(2)))
}

func Test_Stack_02(t *testing.T) {
	s := NewStack[string]()
	//
	for _, item := range []string{"x", "y", "z"} {
		s.Push(item)
	}
	//
	var order []string
	//
	s.Unwind(func(item string) { order = append(order, item) })
	qt.Assert(t, qt.DeepEquals(order, []string{"z", "y", "x"}))
	qt.Assert(t, qt.IsTrue(s.IsEmpty()))
}

func Test_Stack_03(t *testing.T) {
	s := NewStack[int]()
	qt.Assert(t, qt.PanicMatches(func() { s.Pop() }, "cannot pop from empty stack"))
}
