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
package ir

import (
	"fmt"
	"sync"
)

// NameGenerator produces names which are guaranteed not to collide with each
// other, nor with any name accepted by the reader (which never contains '$').
// A generator can be shared between goroutines.
type NameGenerator struct {
	mux     sync.Mutex
	counter uint
}

// NewNameGenerator constructs a fresh name generator.
func NewNameGenerator() *NameGenerator {
	return &NameGenerator{}
}

// Fresh returns a unique name beginning with the given prefix.
func (p *NameGenerator) Fresh(prefix string) string {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	p.counter++
	//
	return fmt.Sprintf("%s$%d", prefix, p.counter)
}

// FreshVar returns a variable of the given type with a unique name beginning
// with the given prefix.
func (p *NameGenerator) FreshVar(prefix string, t Type) *Variable {
	return NewVar(p.Fresh(prefix), t)
}
