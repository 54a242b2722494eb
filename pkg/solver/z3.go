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
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/consensys/go-treesynth/pkg/sexp"
	"github.com/consensys/go-treesynth/pkg/smt"
	log "github.com/sirupsen/logrus"
)

// Z3 solves formulas by running the z3 executable on an SMT-LIB script, and
// reading back its verdict along with the values of all integer constants.
type Z3 struct {
	// Path of the z3 executable.
	Path string
	// Timeout for a single invocation, where zero means no timeout.
	Timeout time.Duration
}

// NewZ3 constructs a Z3 solver which runs a given executable.
func NewZ3(path string, timeout time.Duration) *Z3 {
	if path == "" {
		path = "z3"
	}
	//
	return &Z3{path, timeout}
}

// Solve implementation for the Solver interface.
func (z *Z3) Solve(ctx context.Context, formula *smt.Formula) (Result, error) {
	var stdout, stderr bytes.Buffer
	//
	if z.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, z.Timeout)
		//
		defer cancel()
	}
	//
	cmd := exec.CommandContext(ctx, z.Path, "-in", "-smt2")
	cmd.Stdin = strings.NewReader(Script(formula))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// z3 exits with a non-zero status when asked for values of an unsat
	// formula, so the exit status alone is not conclusive.
	runErr := cmd.Run()
	//
	if err := ctx.Err(); err != nil {
		return Result{}, &Error{"z3", "interrupted", err}
	} else if stdout.Len() == 0 && runErr != nil {
		return Result{}, &Error{"z3", strings.TrimSpace(stderr.String()), runErr}
	}
	//
	log.Debugf("z3 replied: %s", strings.TrimSpace(stdout.String()))
	//
	return ParseReply(stdout.String())
}

// Script renders a formula as a complete SMT-LIB script which checks
// satisfiability and then asks for the values of all integer constants.
func Script(formula *smt.Formula) string {
	var (
		builder strings.Builder
		ints    []sexp.SExp
	)
	//
	builder.WriteString(formula.String())
	builder.WriteString("(check-sat)\n")
	//
	for _, v := range formula.Declarations() {
		if v.Sort() == smt.IntSort {
			ints = append(ints, v.SExp())
		}
	}
	//
	if len(ints) > 0 {
		getValue := sexp.NewList(sexp.NewSymbol("get-value"), sexp.NewList(ints...))
		builder.WriteString(getValue.String())
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// ParseReply parses the output of z3 for a script generated by Script.
func ParseReply(reply string) (Result, error) {
	terms, err := sexp.ParseAll(reply)
	//
	if err != nil {
		return Result{}, &Error{"z3", fmt.Sprintf("malformed reply %q", reply), err}
	} else if len(terms) == 0 {
		return Result{}, Errorf("z3", "empty reply")
	}
	//
	// Errors are reported as (error "message")
	if list, ok := terms[0].(*sexp.List); ok && list.MatchSymbols(1, "error") {
		return Result{}, Errorf("z3", "%s", list)
	}
	//
	switch terms[0].String() {
	case "sat":
		if len(terms) < 2 {
			return Result{Status: Sat, Model: Assignment{}}, nil
		}
		//
		model, err := parseValues(terms[1])
		if err != nil {
			return Result{}, &Error{"z3", "malformed model", err}
		}
		//
		return Result{Sat, model}, nil
	case "unsat":
		return Result{Status: Unsat}, nil
	case "unknown":
		return Result{}, Errorf("z3", "solver returned unknown")
	default:
		return Result{}, Errorf("z3", "unexpected reply %s", terms[0])
	}
}

// Parse a list of (name value) pairs, as returned from get-value.
func parseValues(term sexp.SExp) (Assignment, error) {
	var (
		model      = make(Assignment)
		list, ok   = term.(*sexp.List)
		translator = valueTranslator()
	)
	//
	if !ok {
		return nil, fmt.Errorf("expected list of values, found %s", term)
	}
	//
	for _, e := range list.Elements {
		pair, ok := e.(*sexp.List)
		//
		if !ok || pair.Len() != 2 || !pair.Get(0).IsSymbol() {
			return nil, fmt.Errorf("expected (name value), found %s", e)
		}
		//
		val, err := translator.Translate(pair.Get(1))
		if err != nil {
			return nil, err
		}
		//
		model[pair.Get(0).String()] = val
	}
	//
	return model, nil
}

// Translates integer values written in SMT-LIB notation, e.g. "3" or "(- 1)".
func valueTranslator() *sexp.Translator[int64] {
	translator := sexp.NewTranslator[int64]()
	//
	translator.AddSymbolRule(func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	translator.AddRecursiveRule("-", func(args []int64) (int64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("expected one argument to negation, found %d", len(args))
		}
		//
		return -args[0], nil
	})
	//
	return translator
}
