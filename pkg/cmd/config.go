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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/consensys/go-treesynth/pkg/solver"
	"github.com/consensys/go-treesynth/pkg/synth"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RunConfig describes a single synthesis run, as read from a YAML file.  For
// example:
//
//	tree: trees.jsonl
//	tree_id: 0
//	length: 2
//	encoding: table
//	examples:
//	  - {source: 3, dest: 4}
//	solver:
//	  name: z3
//	  timeout: 30s
type RunConfig struct {
	Tree     string          `yaml:"tree" validate:"required"`
	TreeId   uint            `yaml:"tree_id"`
	Length   uint            `yaml:"length" validate:"required,min=1"`
	Encoding string          `yaml:"encoding" validate:"omitempty,oneof=inline table"`
	Ops      []string        `yaml:"ops" validate:"omitempty,dive,required"`
	Solver   SolverConfig    `yaml:"solver"`
	Examples []ExampleConfig `yaml:"examples" validate:"required,min=1,dive"`
}

// SolverConfig selects the solver used to decide synthesis formulas.
type SolverConfig struct {
	Name         string        `yaml:"name" validate:"omitempty,oneof=search z3"`
	Path         string        `yaml:"path"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxDecisions uint          `yaml:"max_decisions"`
}

// ExampleConfig is a single source / destination pair.  Pointers distinguish
// node zero from a missing field.
type ExampleConfig struct {
	Source *uint `yaml:"source" validate:"required"`
	Dest   *uint `yaml:"dest" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ReadRunConfig reads a run configuration from a given file.  A relative tree
// path is resolved against the directory holding the configuration.
func ReadRunConfig(filename string) (*RunConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	config, err := ParseRunConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	if !filepath.IsAbs(config.Tree) {
		config.Tree = filepath.Join(filepath.Dir(filename), config.Tree)
	}
	//
	return config, nil
}

// ParseRunConfig parses and validates a run configuration.  Unknown fields are
// rejected.
func ParseRunConfig(data []byte) (*RunConfig, error) {
	var config RunConfig
	//
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	} else if err := config.Validate(); err != nil {
		return nil, err
	}
	//
	return &config, nil
}

// Validate checks all fields of this configuration are well-formed.  Problems
// with individual fields are summarised into a single error.
func (c *RunConfig) Validate() error {
	var valErr validator.ValidationErrors
	//
	err := validate.Struct(c)
	if errors.As(err, &valErr) {
		var fields []string
		for _, e := range valErr {
			fields = append(fields, e.Namespace()+" ("+e.Tag()+")")
		}
		//
		return fmt.Errorf("validation failed on %s", strings.Join(fields, ", "))
	}
	//
	return err
}

// SynthConfig returns the synthesis configuration described by this run.
func (c *RunConfig) SynthConfig() (synth.Config, error) {
	config := synth.Config{Length: c.Length, Encoding: synth.Inline}
	//
	if c.Encoding != "" {
		enc, err := synth.ParseEncoding(c.Encoding)
		if err != nil {
			return config, err
		}
		//
		config.Encoding = enc
	}
	//
	for _, name := range c.Ops {
		op, err := dsl.Encode(name)
		if err != nil {
			return config, err
		}
		//
		config.Ops = append(config.Ops, op)
	}
	//
	return config, config.Validate()
}

// SynthExamples returns the examples of this run.
func (c *RunConfig) SynthExamples() []synth.Example {
	examples := make([]synth.Example, len(c.Examples))
	//
	for i, ex := range c.Examples {
		examples[i] = synth.Example{Source: *ex.Source, Dest: *ex.Dest}
	}
	//
	return examples
}

// NewSolver constructs the solver selected by this run.
func (c *SolverConfig) NewSolver() solver.Solver {
	if c.Name == "z3" {
		return solver.NewZ3(c.Path, c.Timeout)
	}
	//
	return &solver.Search{MaxDecisions: c.MaxDecisions}
}
