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
package solver

import (
	"context"
	"fmt"

	"github.com/consensys/go-treesynth/pkg/smt"
)

// Status is the verdict of a solver on a given formula.
type Status uint8

const (
	// Unsat indicates the formula has no model.
	Unsat Status = iota
	// Sat indicates the formula has a model.
	Sat
)

func (s Status) String() string {
	if s == Sat {
		return "sat"
	}
	//
	return "unsat"
}

// Model is an assignment of values to the (integer) constants of a formula.
type Model interface {
	// Int returns the value assigned to a given integer constant, or false
	// if the model does not assign it.
	Int(name string) (int64, bool)
}

// Assignment is a model held as a simple map.
type Assignment map[string]int64

// Int implementation for the Model interface.
func (a Assignment) Int(name string) (int64, bool) {
	v, ok := a[name]
	return v, ok
}

// Result is the outcome of successfully solving a formula.
type Result struct {
	Status Status
	// Model of the formula (when Sat).
	Model Model
}

// Solver decides the satisfiability of a formula.  A failure to decide (for
// whatever reason, including timeouts and cancellation) is always reported as
// an *Error, never as Unsat.
type Solver interface {
	Solve(ctx context.Context, formula *smt.Formula) (Result, error)
}

// Error signals that a solver could not decide a given formula.
type Error struct {
	// Name of solver reporting this error
	Solver string
	// Message describing the failure
	Msg string
	// Underlying cause (if any)
	Cause error
}

// Errorf constructs a solver error with a formatted message.
func Errorf(solver string, format string, args ...any) *Error {
	return &Error{solver, fmt.Sprintf(format, args...), nil}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Solver, e.Msg, e.Cause)
	}
	//
	return fmt.Sprintf("%s: %s", e.Solver, e.Msg)
}

// Unwrap returns the underlying cause of this error.
func (e *Error) Unwrap() error {
	return e.Cause
}
