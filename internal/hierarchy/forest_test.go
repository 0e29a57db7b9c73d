package hierarchy

import (
	"testing"

	apperrors "inventory-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(id uint64) *uint64 { return &id }

// 1
// ├── 2
// │   └── 4
// └── 3
// 5
func sampleForest() *Forest {
	return NewForest(
		Node{ID: 1, Label: "Шасси"},
		Node{ID: 2, ParentID: ref(1), Label: "Плата"},
		Node{ID: 3, ParentID: ref(1), Label: "Блок питания"},
		Node{ID: 4, ParentID: ref(2), Label: "Процессор"},
		Node{ID: 5, Label: "Кабель"},
	)
}

func ids(nodes []Node) []uint64 {
	out := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestForest_Children(t *testing.T) {
	f := sampleForest()

	assert.Equal(t, []uint64{2, 3}, ids(f.Children(1)))
	assert.Equal(t, []uint64{4}, ids(f.Children(2)))
	assert.Empty(t, f.Children(4))
	assert.Empty(t, f.Children(99))
}

func TestForest_Ancestors(t *testing.T) {
	f := sampleForest()

	chain, err := f.Ancestors(4)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 1}, ids(chain))

	chain, err = f.Ancestors(5)
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = f.Ancestors(42)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestForest_AncestorsDetectsCycle(t *testing.T) {
	f := NewForest(
		Node{ID: 1, ParentID: ref(3)},
		Node{ID: 2, ParentID: ref(1)},
		Node{ID: 3, ParentID: ref(2)},
	)

	_, err := f.Ancestors(1)
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)

	_, err = f.Root(2)
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)
}

func TestForest_AncestorsStopsAtMissingParent(t *testing.T) {
	f := NewForest(Node{ID: 10, ParentID: ref(11)}, Node{ID: 11, ParentID: ref(12)})

	chain, err := f.Ancestors(10)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11}, ids(chain))
}

func TestForest_Descendants(t *testing.T) {
	f := sampleForest()

	all, err := f.Descendants(1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4}, ids(all))

	leaf, err := f.Descendants(4)
	require.NoError(t, err)
	assert.Empty(t, leaf)
}

func TestForest_DescendantsTerminatesOnCycle(t *testing.T) {
	f := NewForest(
		Node{ID: 1, ParentID: ref(2)},
		Node{ID: 2, ParentID: ref(1)},
	)

	_, err := f.Descendants(1)
	assert.ErrorIs(t, err, apperrors.ErrCycleDetected)
}

func TestForest_Root(t *testing.T) {
	f := sampleForest()

	root, err := f.Root(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), root.ID)

	root, err = f.Root(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), root.ID)
}

func TestForest_CheckReparent(t *testing.T) {
	f := sampleForest()

	t.Run("detach to root", func(t *testing.T) {
		assert.NoError(t, f.CheckReparent(2, nil))
	})

	t.Run("move to unrelated tree", func(t *testing.T) {
		assert.NoError(t, f.CheckReparent(2, ref(5)))
	})

	t.Run("move to sibling", func(t *testing.T) {
		assert.NoError(t, f.CheckReparent(4, ref(3)))
	})

	t.Run("self", func(t *testing.T) {
		assert.ErrorIs(t, f.CheckReparent(2, ref(2)), apperrors.ErrCycleDetected)
	})

	t.Run("direct child", func(t *testing.T) {
		assert.ErrorIs(t, f.CheckReparent(2, ref(4)), apperrors.ErrCycleDetected)
	})

	t.Run("deep descendant", func(t *testing.T) {
		assert.ErrorIs(t, f.CheckReparent(1, ref(4)), apperrors.ErrCycleDetected)
	})

	t.Run("unknown parent", func(t *testing.T) {
		assert.ErrorIs(t, f.CheckReparent(2, ref(77)), apperrors.ErrNotFound)
	})
}

func TestForest_AddReplacesParentLink(t *testing.T) {
	f := sampleForest()

	f.Add(Node{ID: 4, ParentID: ref(3), Label: "Процессор"})

	assert.Empty(t, f.Children(2))
	assert.Equal(t, []uint64{4}, ids(f.Children(3)))
	assert.Equal(t, 5, f.Len())
}

func TestTree_Valid(t *testing.T) {
	assert.True(t, AstralParts.Valid())
	assert.True(t, Warehouses.Valid())
	assert.False(t, Tree("accounts").Valid())
}
