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
package sexp

import (
	"errors"
	"strconv"
	"testing"

	"github.com/go-quicktest/qt"
)

// ============================================================================
// Positive Tests
// ============================================================================

func Test_Sexp_01(t *testing.T) {
	checkOk(t, nil, "")
}

func Test_Sexp_02(t *testing.T) {
	checkOk(t, &List{nil}, "()")
}

func Test_Sexp_03(t *testing.T) {
	checkOk(t, &List{[]SExp{&List{nil}}}, "(())")
}

func Test_Sexp_04(t *testing.T) {
	checkOk(t, &Symbol{"symbol"}, "symbol")
}

func Test_Sexp_05(t *testing.T) {
	checkOk(t, &Symbol{"-12345:u8"}, "  -12345:u8 ")
}

func Test_Sexp_06(t *testing.T) {
	e := &List{[]SExp{&Symbol{"+"}, &Symbol{"x"}, &Symbol{"1"}}}
	checkOk(t, e, "(+ x 1)")
}

func Test_Sexp_07(t *testing.T) {
	inner := &List{[]SExp{&Symbol{"*"}, &Symbol{"x"}, &Symbol{"2"}}}
	e := &List{[]SExp{&Symbol{"+"}, inner, &Symbol{"1"}}}
	checkOk(t, e, "(+ (* x 2) ; comment\n 1)")
}

func Test_Sexp_08(t *testing.T) {
	srcfile := NewSourceFile("test", []byte("(a) b ; c\n(d (e))"))
	terms, _, err := ParseAll(srcfile)
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(terms, 3))
	qt.Assert(t, qt.Equals(terms[2].String(), "(d (e))"))
}

func Test_Sexp_09(t *testing.T) {
	l := &List{[]SExp{&Symbol{"let"}, &Symbol{"x"}, &List{nil}}}
	qt.Assert(t, qt.Equals(l.Head(), "let"))
	qt.Assert(t, qt.IsTrue(l.MatchSymbols(2, "let")))
	qt.Assert(t, qt.IsFalse(l.MatchSymbols(3, "let")))
	qt.Assert(t, qt.IsFalse(l.MatchSymbols(1, "for")))
	qt.Assert(t, qt.Equals((&List{nil}).Head(), ""))
}

func Test_Sexp_10(t *testing.T) {
	// Spans are recorded for every term.
	srcfile := NewSourceFile("test", []byte("\n  (f  x)"))
	term, srcmap, err := Parse(srcfile)
	//
	qt.Assert(t, qt.IsNil(err))
	span := srcmap.Get(term)
	qt.Assert(t, qt.Equals(span.Start(), 3))
	qt.Assert(t, qt.Equals(span.Length(), 6))
	//
	x := term.(*List).Get(1)
	line := srcmap.FindFirstEnclosingLine(srcmap.Get(x))
	qt.Assert(t, qt.Equals(line.Number(), 2))
	qt.Assert(t, qt.Equals(line.String(), "  (f  x)"))
}

func Test_Sexp_11(t *testing.T) {
	e := &List{[]SExp{&Symbol{"assert"}, &Symbol{"c"}, &Symbol{`"x (is \"odd\")"`}}}
	checkOk(t, e, `(assert c "x (is \"odd\")")`)
}

// ============================================================================
// Negative Tests
// ============================================================================

func Test_Sexp_Err_01(t *testing.T) {
	checkErr(t, ")", "unexpected end-of-list")
}

func Test_Sexp_Err_02(t *testing.T) {
	checkErr(t, "(", "unexpected end-of-file")
}

func Test_Sexp_Err_03(t *testing.T) {
	checkErr(t, "(string))", "unexpected remainder")
}

func Test_Sexp_Err_04(t *testing.T) {
	checkErr(t, "(another (string)", "unexpected end-of-file")
}

// ============================================================================
// Translator
// ============================================================================

func Test_Translator_01(t *testing.T) {
	checkTranslate(t, "(+ 1 (* 2 3))", 7)
	checkTranslate(t, "(neg (+ 1 2))", -3)
}

func Test_Translator_02(t *testing.T) {
	err := checkTranslateErr(t, "(+ 1\n  (* 2 x))")
	//
	qt.Assert(t, qt.Equals(err.Message(), "unknown symbol x"))
	qt.Assert(t, qt.Equals(err.FirstEnclosingLine().Number(), 2))
	qt.Assert(t, qt.Equals(err.Error(), "test:2:8 unknown symbol x"))
}

func Test_Translator_03(t *testing.T) {
	err := checkTranslateErr(t, "(neg 1 2)")
	qt.Assert(t, qt.Equals(err.Message(), "incorrect number of arguments (expected 1, found 2)"))
	//
	err = checkTranslateErr(t, "(div 1 0)")
	qt.Assert(t, qt.Equals(err.Message(), "unknown list div"))
}

// ============================================================================
// Helpers
// ============================================================================

func checkOk(t *testing.T, expected SExp, input string) {
	t.Helper()
	//
	actual, _, err := Parse(NewSourceFile("test", []byte(input)))
	//
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.DeepEquals(actual, expected))
}

func checkErr(t *testing.T, input string, msg string) {
	t.Helper()
	//
	_, _, err := Parse(NewSourceFile("test", []byte(input)))
	//
	qt.Assert(t, qt.IsNotNil(err), qt.Commentf("input should not have parsed"))
	qt.Assert(t, qt.Equals(err.Message(), msg))
}

func arithmetic(srcfile *SourceFile, srcmap *SourceMap[SExp]) *Translator[int] {
	p := NewTranslator[int](srcfile, srcmap)
	//
	p.AddSymbolRule(func(s string) (int, bool, error) {
		n, err := strconv.Atoi(s)
		return n, err == nil, nil
	})
	p.AddRecursiveRule("+", 2, func(args []int) (int, error) { return args[0] + args[1], nil })
	p.AddRecursiveRule("*", 2, func(args []int) (int, error) { return args[0] * args[1], nil })
	p.AddRecursiveRule("neg", 1, func(args []int) (int, error) { return -args[0], nil })
	//
	return p
}

func checkTranslate(t *testing.T, input string, expected int) {
	t.Helper()
	//
	srcfile := NewSourceFile("test", []byte(input))
	term, srcmap, err := Parse(srcfile)
	qt.Assert(t, qt.IsNil(err))
	//
	actual, err := arithmetic(srcfile, srcmap).Translate(term)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(actual, expected))
}

func checkTranslateErr(t *testing.T, input string) *SyntaxError {
	t.Helper()
	//
	srcfile := NewSourceFile("test", []byte(input))
	term, srcmap, err := Parse(srcfile)
	qt.Assert(t, qt.IsNil(err))
	//
	_, err = arithmetic(srcfile, srcmap).Translate(term)
	qt.Assert(t, qt.IsNotNil(err))
	//
	var serr *SyntaxError
	qt.Assert(t, qt.IsTrue(errors.As(error(err), &serr)))
	//
	return serr
}
