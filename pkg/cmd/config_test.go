package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-treesynth/pkg/ast/asttest"
	"github.com/consensys/go-treesynth/pkg/dsl"
	"github.com/consensys/go-treesynth/pkg/solver"
	"github.com/consensys/go-treesynth/pkg/synth"
	"github.com/google/go-cmp/cmp"
	"github.com/lithammer/dedent"
)

func Test_RunConfig_01(t *testing.T) {
	run := checkRunConfig(t, `
		tree: trees.jsonl
		length: 2
		examples:
		  - {source: 3, dest: 4}
		  - {source: 0, dest: 1}
	`)
	//
	config, err := run.SynthConfig()
	if err != nil {
		t.Fatal(err)
	}
	//
	if diff := cmp.Diff(synth.Config{Length: 2, Encoding: synth.Inline}, config); diff != "" {
		t.Errorf("unexpected configuration (-want +got):\n%s", diff)
	}
	//
	if diff := cmp.Diff([]synth.Example{{Source: 3, Dest: 4}, {Source: 0, Dest: 1}}, run.SynthExamples()); diff != "" {
		t.Errorf("unexpected examples (-want +got):\n%s", diff)
	}
	//
	if _, ok := run.Solver.NewSolver().(*solver.Search); !ok {
		t.Errorf("expected search solver")
	}
}

func Test_RunConfig_02(t *testing.T) {
	run := checkRunConfig(t, `
		tree: trees.jsonl
		tree_id: 7
		length: 1
		encoding: table
		ops: [Up, downlast, Nop]
		solver:
		  name: z3
		  path: /opt/z3/bin/z3
		  timeout: 30s
		examples:
		  - {source: 3, dest: 1}
	`)
	//
	config, err := run.SynthConfig()
	if err != nil {
		t.Fatal(err)
	}
	//
	expected := synth.Config{Length: 1, Encoding: synth.Table, Ops: []dsl.OpCode{dsl.Up, dsl.DownLast, dsl.Nop}}
	if diff := cmp.Diff(expected, config); diff != "" {
		t.Errorf("unexpected configuration (-want +got):\n%s", diff)
	}
	//
	if run.TreeId != 7 {
		t.Errorf("unexpected tree id %d", run.TreeId)
	}
	//
	z3, ok := run.Solver.NewSolver().(*solver.Z3)
	if !ok {
		t.Fatalf("expected z3 solver")
	} else if z3.Path != "/opt/z3/bin/z3" || z3.Timeout != 30*time.Second {
		t.Errorf("unexpected z3 configuration %v", z3)
	}
}

// Missing tree
func Test_RunConfig_Err1(t *testing.T) {
	checkRunConfigError(t, "Tree (required)", `
		length: 1
		examples:
		  - {source: 3, dest: 1}
	`)
}

// Length zero
func Test_RunConfig_Err2(t *testing.T) {
	checkRunConfigError(t, "Length (required)", `
		tree: trees.jsonl
		length: 0
		examples:
		  - {source: 3, dest: 1}
	`)
}

// Unknown encoding
func Test_RunConfig_Err3(t *testing.T) {
	checkRunConfigError(t, "Encoding (oneof)", `
		tree: trees.jsonl
		length: 1
		encoding: compact
		examples:
		  - {source: 3, dest: 1}
	`)
}

// No examples
func Test_RunConfig_Err4(t *testing.T) {
	checkRunConfigError(t, "Examples (required)", `
		tree: trees.jsonl
		length: 1
	`)
}

// Example without destination
func Test_RunConfig_Err5(t *testing.T) {
	checkRunConfigError(t, "Dest (required)", `
		tree: trees.jsonl
		length: 1
		examples:
		  - {source: 3}
	`)
}

// Unknown solver
func Test_RunConfig_Err6(t *testing.T) {
	checkRunConfigError(t, "Name (oneof)", `
		tree: trees.jsonl
		length: 1
		solver: {name: cvc5}
		examples:
		  - {source: 3, dest: 1}
	`)
}

// Unknown field
func Test_RunConfig_Err7(t *testing.T) {
	checkRunConfigError(t, "field depth not found", `
		tree: trees.jsonl
		depth: 1
		examples:
		  - {source: 3, dest: 1}
	`)
}

// Unknown operation
func Test_RunConfig_Err8(t *testing.T) {
	run := checkRunConfig(t, `
		tree: trees.jsonl
		length: 1
		ops: [Up, Sideways]
		examples:
		  - {source: 3, dest: 1}
	`)
	//
	if _, err := run.SynthConfig(); err == nil {
		t.Errorf("expected unknown operation")
	}
}

// ============================================================================
// Examples & Trees
// ============================================================================

func Test_ParseExample_01(t *testing.T) {
	ex, err := ParseExample(" 3 : 12")
	if err != nil {
		t.Fatal(err)
	} else if ex != (synth.Example{Source: 3, Dest: 12}) {
		t.Errorf("unexpected example %s", ex)
	}
}

func Test_ParseExample_Err1(t *testing.T) {
	for _, text := range []string{"3", "3:", "a:1", "3:-1", "3-1"} {
		if _, err := ParseExample(text); err == nil {
			t.Errorf("expected error for \"%s\"", text)
		}
	}
}

func Test_PrintTree_01(t *testing.T) {
	var buf bytes.Buffer
	//
	if err := printTree(&buf, asttest.Simple(), false); err != nil {
		t.Fatal(err)
	}
	//
	expected := dedent.Dedent(`
		0:Node "n0"
		├── 1:Node "n1"
		│   ├── 3:Node "n3"
		│   └── 4:Node "n4"
		└── 2:Node "n2"
	`)
	//
	if diff := cmp.Diff(strings.TrimLeft(expected, "\n"), buf.String()); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func Test_PrintTree_02(t *testing.T) {
	label := nodeLabel(asttest.Simple(), 3, true)
	//
	if label != `3:Node "n3" [Up=1 NextLeaf=4 Right=4]` {
		t.Errorf("unexpected label %s", label)
	}
}

// ============================================================================
// Helpers
// ============================================================================

func checkRunConfig(t *testing.T, text string) *RunConfig {
	t.Helper()
	//
	run, err := ParseRunConfig([]byte(dedent.Dedent(text)))
	if err != nil {
		t.Fatal(err)
	}
	//
	return run
}

func checkRunConfigError(t *testing.T, msg string, text string) {
	t.Helper()
	//
	if _, err := ParseRunConfig([]byte(dedent.Dedent(text))); err == nil {
		t.Errorf("expected error containing \"%s\"", msg)
	} else if !strings.Contains(err.Error(), msg) {
		t.Errorf("expected error containing \"%s\", got \"%s\"", msg, err)
	}
}
