package asttest

import (
	"testing"

	"github.com/consensys/go-treesynth/pkg/ast"
	"github.com/consensys/go-treesynth/pkg/util"
	"github.com/google/go-cmp/cmp"
)

func Test_Random_01(t *testing.T) {
	for _, size := range []uint{1, 2, 8, 60} {
		store := Random(7, size)
		//
		if store.Len() != size {
			t.Errorf("expected %d nodes, found %d", size, store.Len())
		} else if store.Root() != 0 {
			t.Errorf("expected root 0, found %d", store.Root())
		}
	}
}

// The same seed and size always give the same tree.
func Test_Random_02(t *testing.T) {
	a, b := Random(3, 40), Random(3, 40)
	//
	for _, id := range a.Ids() {
		if diff := cmp.Diff(a.Node(id), b.Node(id), cmp.AllowUnexported(util.Option[ast.NodeId]{})); diff != "" {
			t.Errorf("node %d differs (-first +second):\n%s", id, diff)
		}
	}
}
