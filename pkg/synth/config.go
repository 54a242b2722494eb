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
package synth

import (
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/dsl"
)

// Encoding determines how the effect of an operation on a node is represented
// within a synthesis formula.
type Encoding uint8

const (
	// Inline encodes each operation as a case split over every node in the
	// tree.  This is simple, but the formula grows with the number of nodes for
	// every slot of every example.
	Inline Encoding = iota
	// Table encodes each operation as a lookup into an array, which is
	// initialised once per formula.  This is the preferred encoding for larger
	// trees.
	Table
)

// ParseEncoding parses the name of an encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "inline":
		return Inline, nil
	case "table":
		return Table, nil
	default:
		return 0, &InvalidConfigurationError{fmt.Sprintf("unknown encoding %q", name)}
	}
}

func (e Encoding) String() string {
	if e == Table {
		return "table"
	}
	//
	return "inline"
}

// Example is an observed pair of nodes which a synthesised program must map
// from source to destination.
type Example struct {
	Source ast.NodeId
	Dest   ast.NodeId
}

func (e Example) String() string {
	return fmt.Sprintf("%d->%d", e.Source, e.Dest)
}

// Config determines the shape of the program being synthesised.
type Config struct {
	// Length of the program (i.e. the number of operations).
	Length uint
	// Encoding to use for operations.
	Encoding Encoding
	// Operations which may be used, where nil means the whole catalog.
	Ops []dsl.OpCode
}

// Validate checks this configuration describes a program which can be
// synthesised.
func (c *Config) Validate() error {
	switch {
	case c.Length == 0:
		return &InvalidConfigurationError{"program length must be at least one"}
	case c.Encoding != Inline && c.Encoding != Table:
		return &InvalidConfigurationError{fmt.Sprintf("unknown encoding %d", c.Encoding)}
	case c.Ops != nil && len(c.Ops) == 0:
		return &InvalidConfigurationError{"operation catalog is empty"}
	}
	//
	for i, op := range c.Ops {
		if !op.IsValid() {
			return &InvalidConfigurationError{fmt.Sprintf("unknown operation %d", op)}
		} else if slices.Contains(c.Ops[:i], op) {
			return &InvalidConfigurationError{fmt.Sprintf("operation %s given twice", op)}
		}
	}
	//
	return nil
}

// Operations returns the operations a program may use, in order of code.
func (c *Config) Operations() []dsl.OpCode {
	if c.Ops == nil {
		return dsl.Catalog()
	}
	//
	ops := slices.Clone(c.Ops)
	slices.Sort(ops)
	//
	return ops
}

// InvalidConfigurationError is reported when a synthesis problem cannot be
// posed, such as when asking for an empty program.
type InvalidConfigurationError struct {
	Msg string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Msg)
}

// InconsistentModelError is reported when a solver's model decodes to a
// program which does not in fact reproduce every example.  This indicates a
// fault in either the formula construction or the solver.
type InconsistentModelError struct {
	Program dsl.Program
	Example Example
	Msg     string
}

// Error implements the error interface.
func (e *InconsistentModelError) Error() string {
	if e.Program == nil {
		return fmt.Sprintf("inconsistent model: %s", e.Msg)
	}
	//
	return fmt.Sprintf("inconsistent model: program %s on example %s: %s", e.Program, e.Example, e.Msg)
}
