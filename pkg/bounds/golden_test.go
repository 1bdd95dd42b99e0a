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
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/ir/reader"
	"github.com/consensys/go-bounds/pkg/sexp"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
	"golang.org/x/tools/txtar"
)

// Each archive under testdata/boxes holds a scope (one "name min max" line per
// variable), an input program and the boxes it touches.
func Test_Golden_Boxes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "boxes", "*.txtar"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Not(qt.HasLen(files, 0)))
	//
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			checkGolden(t, file)
		})
	}
}

func checkGolden(t *testing.T, file string) {
	archive, err := txtar.ParseFile(file)
	qt.Assert(t, qt.IsNil(err))
	//
	sections := make(map[string]string)
	for _, f := range archive.Files {
		sections[f.Name] = string(f.Data)
	}
	//
	s := goldenScope(t, sections["scope"])
	node, serr := reader.NewReader().ReadNode(sexp.NewSourceFile(file, []byte(sections["input.lisp"])))
	qt.Assert(t, qt.IsNil(serr))
	//
	var (
		boxes    = BoxesTouched(node, s, nil)
		actual   []string
		expected = goldenLines(sections["boxes"])
	)
	//
	for _, name := range sortedKeys(boxes) {
		actual = append(actual, fmt.Sprintf("%s: %s", name, boxes[name].Simplified()))
	}
	//
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("boxes mismatch (-expected +actual):\n%s\n%s", diff, pretty.Sprint(node))
	}
}

func goldenScope(t *testing.T, text string) *scope.Scope[Interval] {
	s := scope.NewScope[Interval](nil)
	//
	for _, line := range goldenLines(text) {
		fields := strings.Fields(line)
		qt.Assert(t, qt.HasLen(fields, 3), qt.Commentf("invalid scope line %q", line))
		//
		lo, err := reader.ParseExprOfType(fields[1], ir.Int(32))
		qt.Assert(t, qt.IsNil(err))
		hi, err := reader.ParseExprOfType(fields[2], ir.Int(32))
		qt.Assert(t, qt.IsNil(err))
		//
		s.Push(fields[0], Interval{lo, hi})
	}
	//
	return s
}

func goldenLines(text string) []string {
	var lines []string
	//
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	//
	return lines
}
