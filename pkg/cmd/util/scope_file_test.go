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
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/go-quicktest/qt"
)

const tomlScope = `
[scope.x]
min = 0
max = "(+ n 1)"

[scope.c]
type = "u8"
max = 200

[params.n]
min = 1
max = 16

[buffers.input]
type = "u16"
dims = 2
`

const yamlScope = `
scope:
  x:
    min: 0
    max: (+ n 1)
params:
  n: {min: 1, max: 16}
`

func Test_ScopeFile_01(t *testing.T) {
	file := readScopeFile(t, "scope.toml", tomlScope)
	params, err := file.Parameters()
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(params, 2))
	qt.Assert(t, qt.Equals(params[0].Name, "input"))
	qt.Assert(t, qt.IsTrue(params[0].IsBuffer))
	qt.Assert(t, qt.Equals(params[0].Type, ir.UInt(16)))
	qt.Assert(t, qt.Equals(params[1].Name, "n"))
	qt.Assert(t, qt.Equals(params[1].Min.String(), "1"))
	qt.Assert(t, qt.Equals(params[1].Max.String(), "16"))
	//
	s, err := file.Intervals(params...)
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s.Get("x").String(), "[0, (n + 1)]"))
	qt.Assert(t, qt.Equals(s.Get("c").String(), "[-∞, (uint8)200]"))
}

func Test_ScopeFile_02(t *testing.T) {
	file := readScopeFile(t, "scope.yaml", yamlScope)
	params, err := file.Parameters()
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(params, 1))
	//
	s, err := file.Intervals(params...)
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(s.Get("x").String(), "[0, (n + 1)]"))
	qt.Assert(t, qt.Equals(s.Get("x").Max.(*ir.Add).A.(*ir.Variable).Param, params[0]))
}

func Test_ScopeFile_03(t *testing.T) {
	_, err := ReadScopeFile(writeFile(t, "scope.yaml", "scope:\n  x:\n    low: 0\n"))
	qt.Assert(t, qt.IsNotNil(err))
}

func Test_ScopeFile_04(t *testing.T) {
	_, err := ReadScopeFile(writeFile(t, "scope.json", "{}"))
	qt.Assert(t, qt.ErrorMatches(err, "unknown scope file format: .json"))
}

func Test_ScopeFile_05(t *testing.T) {
	file := readScopeFile(t, "scope.toml", "[params.m]\nmax = \"(+ n 1)\"\n")
	_, err := file.Parameters()
	//
	qt.Assert(t, qt.ErrorMatches(err, `parameter m: bound \(n \+ 1\) is not constant`))
}

func Test_ScopeFile_06(t *testing.T) {
	file := readScopeFile(t, "scope.toml", "[scope.x]\ntype = \"u8\"\nmax = 300\n")
	_, err := file.Intervals()
	//
	qt.Assert(t, qt.ErrorMatches(err, "variable x: literal 300 out of range for uint8"))
}

func Test_ScopeFile_07(t *testing.T) {
	// An empty file declares nothing.
	file := readScopeFile(t, "scope.yml", "")
	s, err := file.Intervals()
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(s.IsEmpty()))
}

func readScopeFile(t *testing.T, name string, contents string) *ScopeFile {
	t.Helper()
	//
	file, err := ReadScopeFile(writeFile(t, name, contents))
	qt.Assert(t, qt.IsNil(err))
	//
	return file
}

func writeFile(t *testing.T, name string, contents string) string {
	t.Helper()
	//
	filename := filepath.Join(t.TempDir(), name)
	qt.Assert(t, qt.IsNil(os.WriteFile(filename, []byte(contents), 0o644)))
	//
	return filename
}
