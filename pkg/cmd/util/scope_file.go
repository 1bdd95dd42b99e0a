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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/consensys/go-bounds/pkg/bounds"
	"github.com/consensys/go-bounds/pkg/ir"
	"github.com/consensys/go-bounds/pkg/ir/reader"
	"github.com/consensys/go-bounds/pkg/util/collection/scope"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ScopeFile describes the initial bounds of variables, along with the
// parameters of a pipeline, as read from a TOML or YAML file.  For example:
//
//	[scope.x]
//	min = 0
//	max = "(+ n 1)"
//
//	[params.n]
//	type = "i32"
//	min = 1
//	max = 16
//
//	[buffers.input]
//	type = "u8"
//	dims = 2
//
// Bounds are given as integers or as expression text.  An omitted bound is
// unbounded.
type ScopeFile struct {
	Scope   map[string]VariableDecl  `toml:"scope" yaml:"scope"`
	Params  map[string]ParameterDecl `toml:"params" yaml:"params"`
	Buffers map[string]BufferDecl    `toml:"buffers" yaml:"buffers"`
}

// VariableDecl gives the bounds of a variable in scope.
type VariableDecl struct {
	Type string `toml:"type" yaml:"type"`
	Min  any    `toml:"min" yaml:"min"`
	Max  any    `toml:"max" yaml:"max"`
}

// ParameterDecl declares a scalar parameter, along with any constant bounds
// known for it.
type ParameterDecl struct {
	Type     string `toml:"type" yaml:"type"`
	Min      any    `toml:"min" yaml:"min"`
	Max      any    `toml:"max" yaml:"max"`
	Estimate any    `toml:"estimate" yaml:"estimate"`
}

// BufferDecl declares a buffer parameter (i.e. an input image).
type BufferDecl struct {
	Type string `toml:"type" yaml:"type"`
	Dims int    `toml:"dims" yaml:"dims"`
}

// ReadScopeFile reads a scope file, using a parser based on the extension of
// the filename.
func ReadScopeFile(filename string) (*ScopeFile, error) {
	var file ScopeFile
	//
	switch ext := path.Ext(filename); ext {
	case ".toml":
		md, err := toml.DecodeFile(filename, &file)
		if err != nil {
			return nil, err
		}
		//
		for _, key := range md.Undecoded() {
			log.Warnf("ignoring unknown key %s in %s", key, filename)
		}
	case ".yaml", ".yml":
		bs, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		//
		decoder := yaml.NewDecoder(bytes.NewReader(bs))
		decoder.KnownFields(true)
		//
		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("unknown scope file format: %s", ext)
	}
	//
	return &file, nil
}

// Parameters returns the parameters declared in this file, sorted by name.
func (p *ScopeFile) Parameters() ([]*ir.Parameter, error) {
	var params []*ir.Parameter
	//
	for _, name := range sortedKeys(p.Buffers) {
		decl := p.Buffers[name]
		//
		t, err := parseType(decl.Type)
		if err != nil {
			return nil, fmt.Errorf("buffer %s: %w", name, err)
		} else if decl.Dims <= 0 {
			return nil, fmt.Errorf("buffer %s: invalid dimensions %d", name, decl.Dims)
		}
		//
		params = append(params, ir.NewBufferParameter(name, t, decl.Dims))
	}
	//
	for _, name := range sortedKeys(p.Params) {
		decl := p.Params[name]
		//
		t, err := parseType(decl.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		//
		param := ir.NewScalarParameter(name, t)
		// Parameter bounds must be constants.
		for _, b := range []struct {
			value  any
			target *ir.Expr
		}{{decl.Min, &param.Min}, {decl.Max, &param.Max}, {decl.Estimate, &param.Estimate}} {
			if *b.target, err = parseBound(b.value, t); err != nil {
				return nil, fmt.Errorf("parameter %s: %w", name, err)
			} else if *b.target != nil && !ir.IsConst(*b.target) {
				return nil, fmt.Errorf("parameter %s: bound %s is not constant", name, *b.target)
			}
		}
		//
		params = append(params, param)
	}
	//
	return params, nil
}

// Intervals returns the intervals of the variables in this file.  Their bounds may
// refer to the given parameters.
func (p *ScopeFile) Intervals(params ...*ir.Parameter) (*scope.Scope[bounds.Interval], error) {
	s := scope.NewScope[bounds.Interval](nil)
	//
	for _, name := range sortedKeys(p.Scope) {
		decl := p.Scope[name]
		//
		t, err := parseType(decl.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		//
		lo, err := parseBound(decl.Min, t, params...)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		//
		hi, err := parseBound(decl.Max, t, params...)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		//
		s.Push(name, bounds.NewInterval(lo, hi))
		log.Debugf("variable %s in %s", name, s.Get(name))
	}
	//
	return s, nil
}

// parseType parses an optional type name, which defaults to int32.
func parseType(name string) (ir.Type, error) {
	if name == "" {
		return ir.Int(32), nil
	} else if t, ok := reader.ParseType(name); ok {
		return t, nil
	}
	//
	return ir.Type{}, fmt.Errorf("unknown type %s", name)
}

// parseBound parses an optional bound of a given type, returning nil when it is
// absent.
func parseBound(value any, t ir.Type, params ...*ir.Parameter) (ir.Expr, error) {
	var text string
	//
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		text = v
	case int:
		text = strconv.Itoa(v)
	case int64:
		text = strconv.FormatInt(v, 10)
	case float64:
		text = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return nil, fmt.Errorf("invalid bound %v", value)
	}
	//
	return reader.ParseExprOfType(text, t, params...)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	//
	return keys
}
