package solver

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-treesynth/pkg/smt"
	"github.com/google/go-cmp/cmp"
)

func Test_Z3_Reply_01(t *testing.T) {
	result, err := ParseReply("sat\n((op0 0)\n (op1 (- 1))\n (dst_0_0 12))\n")
	//
	if err != nil {
		t.Fatal(err)
	} else if result.Status != Sat {
		t.Fatalf("expected sat, got %s", result.Status)
	}
	//
	expected := Assignment{"op0": 0, "op1": -1, "dst_0_0": 12}
	if diff := cmp.Diff(expected, result.Model); diff != "" {
		t.Errorf("unexpected model (-want +got):\n%s", diff)
	}
}

func Test_Z3_Reply_02(t *testing.T) {
	result, err := ParseReply("unsat\n(error \"line 9 column 10: model is not available\")\n")
	//
	if err != nil {
		t.Fatal(err)
	} else if result.Status != Unsat {
		t.Errorf("expected unsat, got %s", result.Status)
	}
}

func Test_Z3_Reply_03(t *testing.T) {
	for _, reply := range []string{"unknown\n", "", "(error \"oops\")", "sat\n((op0 x))", "sat\n((op0 1)"} {
		var serr *Error
		//
		if _, err := ParseReply(reply); !errors.As(err, &serr) {
			t.Errorf("reply %q should give solver error, got %v", reply, err)
		}
	}
}

func Test_Z3_Script_01(t *testing.T) {
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	f.Declare("a", smt.ArraySort)
	f.Assert(smt.Equals(x, smt.Int(1)))
	//
	script := Script(f)
	//
	if !strings.HasSuffix(script, "(assert (= x 1))\n(check-sat)\n(get-value (x))\n") {
		t.Errorf("unexpected script:\n%s", script)
	}
}

func Test_Z3_Missing(t *testing.T) {
	var serr *Error
	//
	z3 := NewZ3("/nonexistent/z3", time.Second)
	//
	if _, err := z3.Solve(context.Background(), smt.NewFormula()); !errors.As(err, &serr) {
		t.Errorf("expected solver error, got %v", err)
	}
}

// Only runs when z3 is installed.
func Test_Z3_Solve(t *testing.T) {
	path, err := exec.LookPath("z3")
	if err != nil {
		t.Skip("z3 not available")
	}
	//
	f := smt.NewFormula()
	x := f.Declare("x", smt.IntSort)
	y := f.Declare("y", smt.IntSort)
	f.Assert(bounded(x, 0, 3))
	f.Assert(cases(x, y, 1))
	f.Assert(smt.Equals(y, smt.Int(3)))
	//
	result, err := NewZ3(path, 10*time.Second).Solve(context.Background(), f)
	//
	if err != nil {
		t.Fatal(err)
	} else if v, _ := result.Model.Int("x"); result.Status != Sat || v != 2 {
		t.Errorf("expected x = 2, got %d (%s)", v, result.Status)
	}
}
