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
package reader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/consensys/go-bounds/pkg/ir"
)

// ParseType parses the name of a type.  Both the long form used when printing
// types (e.g. int32, uint8x4, float64, bool, handle) and the short form (e.g.
// i32, u8x4, f64) are accepted.
func ParseType(name string) (ir.Type, bool) {
	var (
		lanes uint64 = 1
		err   error
	)
	// Split off vector lanes
	if i := strings.LastIndexByte(name, 'x'); i > 0 && i+1 < len(name) {
		if lanes, err = strconv.ParseUint(name[i+1:], 10, 16); err != nil || lanes == 0 {
			return ir.Type{}, false
		}
		//
		name = name[:i]
	}
	//
	switch name {
	case "bool":
		return ir.Bool().WithLanes(uint16(lanes)), true
	case "handle", "h":
		return ir.Handle().WithLanes(uint16(lanes)), true
	}
	//
	var (
		code ir.TypeCode
		bits string
	)
	//
	switch {
	case strings.HasPrefix(name, "int"):
		code, bits = ir.TypeInt, name[3:]
	case strings.HasPrefix(name, "uint"):
		code, bits = ir.TypeUInt, name[4:]
	case strings.HasPrefix(name, "float"):
		code, bits = ir.TypeFloat, name[5:]
	case strings.HasPrefix(name, "i"):
		code, bits = ir.TypeInt, name[1:]
	case strings.HasPrefix(name, "u"):
		code, bits = ir.TypeUInt, name[1:]
	case strings.HasPrefix(name, "f"):
		code, bits = ir.TypeFloat, name[1:]
	default:
		return ir.Type{}, false
	}
	//
	switch n, err := strconv.ParseUint(bits, 10, 8); {
	case err != nil:
		return ir.Type{}, false
	case code == ir.TypeFloat && n != 32 && n != 64:
		return ir.Type{}, false
	case code != ir.TypeFloat && n != 1 && n != 8 && n != 16 && n != 32 && n != 64:
		return ir.Type{}, false
	case code == ir.TypeInt && n == 1:
		return ir.Type{}, false
	default:
		return ir.Type{Code: code, Bits: uint8(n), Lanes: uint16(lanes)}, true
	}
}

// isNumber checks whether a symbol looks like a numeric literal.
func isNumber(symbol string) bool {
	s := strings.TrimLeft(symbol, "+-")
	//
	if len(s) == 0 || len(symbol)-len(s) > 1 {
		return false
	}
	//
	return (s[0] >= '0' && s[0] <= '9') || (s[0] == '.' && len(s) > 1 && s[1] >= '0' && s[1] <= '9')
}

// parseLiteral parses a numeric literal, with an optional type suffix (e.g.
// 10:u8).  Literals without a suffix are float32 when written with a decimal
// point or exponent, and int32 otherwise.  Literals are parsed exactly, such that values out of range for
// their type are reported rather than silently truncated.
func parseLiteral(symbol string) (ir.Expr, error) {
	var (
		text, suffix, typed = strings.Cut(symbol, ":")
		t                   = ir.Int(32)
	)
	//
	d, _, err := apd.NewFromString(text)
	//
	if err != nil {
		return nil, fmt.Errorf("invalid numeric literal %s", symbol)
	}
	//
	var integral apd.Decimal
	if _, err := apd.BaseContext.Floor(&integral, d); err != nil {
		return nil, fmt.Errorf("invalid numeric literal %s", symbol)
	}
	//
	isIntegral := integral.Cmp(d) == 0
	//
	if typed {
		var ok bool
		//
		if t, ok = ParseType(suffix); !ok {
			return nil, fmt.Errorf("unknown type %s", suffix)
		} else if t.IsVector() || t.IsHandle() {
			return nil, fmt.Errorf("invalid type %s for literal", t)
		}
	} else if !isIntegral || strings.ContainsAny(text, ".eE") {
		t = ir.Float(32)
	}
	//
	switch {
	case t.IsFloat():
		f, err := d.Float64()
		//
		if err != nil || !t.CanRepresentFloat(f) {
			return nil, fmt.Errorf("literal %s out of range for %s", text, t)
		}
		//
		return ir.MakeFloatConst(t, f), nil
	case !isIntegral:
		return nil, fmt.Errorf("non-integral literal %s for %s", text, t)
	case t.IsInt():
		lo, hi := t.IntRange()
		//
		if d.Cmp(apd.New(lo, 0)) < 0 || d.Cmp(apd.New(hi, 0)) > 0 {
			return nil, fmt.Errorf("literal %s out of range for %s", text, t)
		}
		//
		v, err := integral.Int64()
		if err != nil {
			return nil, err
		}
		//
		return ir.MakeConst(t, v), nil
	default:
		var hi apd.Decimal
		//
		if _, _, err := hi.SetString(strconv.FormatUint(t.UIntMax(), 10)); err != nil {
			return nil, err
		} else if d.Sign() < 0 || d.Cmp(&hi) > 0 {
			return nil, fmt.Errorf("literal %s out of range for %s", text, t)
		}
		//
		v, err := strconv.ParseUint(integral.Text('f'), 10, 64)
		if err != nil {
			return nil, err
		}
		//
		return ir.MakeUIntConst(t, v), nil
	}
}

// retype converts a literal into an equivalent literal of a given type, which
// fails if the value cannot be represented.  Literals are broadcast to vector
// types.
func retype(e ir.Expr, t ir.Type) (ir.Expr, error) {
	switch {
	case t.IsHandle():
		return nil, fmt.Errorf("invalid type %s for literal %s", t, e)
	case t.IsFloat():
		if v, ok := ir.AsConstFloat64(e); ok {
			return ir.MakeFloatConst(t, v), nil
		}
	}
	//
	if v, ok := ir.AsConstInt(e); ok {
		switch {
		case t.IsFloat():
			return ir.MakeFloatConst(t, float64(v)), nil
		case t.IsInt() && t.CanRepresentInt(v):
			return ir.MakeConst(t, v), nil
		case t.IsUInt() && v >= 0 && t.CanRepresentUInt(uint64(v)):
			return ir.MakeUIntConst(t, uint64(v)), nil
		}
	}
	//
	return nil, fmt.Errorf("literal %s out of range for %s", e, t)
}
