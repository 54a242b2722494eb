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
	"context"
	"errors"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/consensys/go-treesynth/pkg/solver"
	"github.com/consensys/go-treesynth/pkg/util"
	log "github.com/sirupsen/logrus"
)

// Outcome is the result of a synthesis run which completed normally.
type Outcome struct {
	// Program found, or nil if no program exists.
	Program dsl.Program
}

// Found constructs the outcome of a successful synthesis run.
func Found(program dsl.Program) Outcome {
	return Outcome{program}
}

// NotFound constructs the outcome of a synthesis run which proved no program
// of the requested length exists.
func NotFound() Outcome {
	return Outcome{}
}

// IsFound checks whether a program was found.
func (o Outcome) IsFound() bool {
	return o.Program != nil
}

func (o Outcome) String() string {
	if o.IsFound() {
		return "Found(" + o.Program.String() + ")"
	}
	//
	return "NotFound"
}

// Synthesize attempts to find a program of the configured length which maps the
// source of every example to its destination, using a given solver.  Not
// finding a program is a normal outcome, and proves no such program exists.
// Errors arise from an invalid configuration, or from the solver failing to
// reach a verdict (reported as *solver.Error).
func Synthesize(ctx context.Context, store *ast.Store, examples []Example, config Config,
	s solver.Solver) (Outcome, error) {
	builder, err := NewBuilder(store, config)
	if err != nil {
		return NotFound(), err
	}
	// Construct formula
	stats := util.NewPerfStats()
	query, err := builder.Build(examples)
	//
	if err != nil {
		return NotFound(), err
	}
	//
	stats.Log("building formula")
	log.WithFields(log.Fields{
		"encoding": config.Encoding,
		"length":   config.Length,
		"examples": len(examples),
		"nodes":    store.Len(),
		"size":     query.Formula.Size(),
	}).Debug("constructed synthesis formula")
	// Solve formula
	stats = util.NewPerfStats()
	result, err := s.Solve(ctx, query.Formula)
	//
	if err != nil {
		var serr *solver.Error
		if !errors.As(err, &serr) {
			err = &solver.Error{Solver: "solver", Msg: "failed", Cause: err}
		}
		//
		return NotFound(), err
	}
	//
	stats.Log("solving formula")
	log.Debugf("solver returned %s", result.Status)
	//
	if result.Status == solver.Unsat {
		return NotFound(), nil
	}
	//
	program, err := query.Decode(result.Model)
	if err != nil {
		return NotFound(), err
	}
	//
	if err := Verify(store, program, examples); err != nil {
		return NotFound(), err
	}
	//
	return Found(program), nil
}

// Verify checks a given program reproduces every example, by running it
// through the interpreter.
func Verify(store *ast.Store, program dsl.Program, examples []Example) error {
	for _, ex := range examples {
		if r := program.Run(ex.Source, store); r.IsEmpty() || r.Unwrap() != ex.Dest {
			return &InconsistentModelError{program, ex, "reached " + r.String()}
		}
	}
	//
	return nil
}
