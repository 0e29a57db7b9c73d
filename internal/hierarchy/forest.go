// Package hierarchy хранит деревья с nullable-родителем (узлы, ревизии, материальные узлы, склады)
// как арену узлов, адресуемых по ID. Узел знает только ссылку на родителя; дети вычисляются по индексу.
package hierarchy

import (
	"fmt"
	"sort"

	apperrors "inventory-system/pkg/errors"
)

// Tree - таблица с самоссылкой parent_id.
type Tree string

const (
	AstralParts     Tree = "astral_parts"
	AstralRevisions Tree = "astral_revisions"
	MaterialParts   Tree = "material_parts"
	Warehouses      Tree = "material_warehouses"
)

func (t Tree) Valid() bool {
	switch t {
	case AstralParts, AstralRevisions, MaterialParts, Warehouses:
		return true
	}
	return false
}

type Node struct {
	ID       uint64  `json:"id"`
	ParentID *uint64 `json:"parent_id"`
	Label    string  `json:"label"`
}

type Forest struct {
	nodes    map[uint64]Node
	children map[uint64][]uint64
}

func NewForest(nodes ...Node) *Forest {
	f := &Forest{
		nodes:    make(map[uint64]Node, len(nodes)),
		children: make(map[uint64][]uint64),
	}
	for _, n := range nodes {
		f.Add(n)
	}
	return f
}

// Add добавляет узел или заменяет существующий с тем же ID.
func (f *Forest) Add(n Node) {
	if old, ok := f.nodes[n.ID]; ok && old.ParentID != nil {
		f.unlink(*old.ParentID, n.ID)
	}
	f.nodes[n.ID] = n
	if n.ParentID != nil {
		f.children[*n.ParentID] = append(f.children[*n.ParentID], n.ID)
	}
}

func (f *Forest) unlink(parentID, childID uint64) {
	siblings := f.children[parentID]
	for i, id := range siblings {
		if id == childID {
			f.children[parentID] = append(siblings[:i], siblings[i+1:]...)
			return
		}
	}
}

func (f *Forest) Len() int { return len(f.nodes) }

func (f *Forest) Node(id uint64) (Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Children возвращает прямых потомков, упорядоченных по ID.
func (f *Forest) Children(id uint64) []Node {
	ids := append([]uint64(nil), f.children[id]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]Node, 0, len(ids))
	for _, cid := range ids {
		out = append(out, f.nodes[cid])
	}
	return out
}

// Ancestors возвращает цепочку от родителя до корня. Повторное посещение узла означает цикл.
// Цепочка обрывается на родителе, которого нет в арене.
func (f *Forest) Ancestors(id uint64) ([]Node, error) {
	start, ok := f.nodes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	visited := map[uint64]struct{}{id: {}}
	out := make([]Node, 0)
	for cur := start; cur.ParentID != nil; {
		pid := *cur.ParentID
		if _, seen := visited[pid]; seen {
			return nil, fmt.Errorf("%w: узел %d встречен повторно при подъёме от %d", apperrors.ErrCycleDetected, pid, id)
		}
		parent, ok := f.nodes[pid]
		if !ok {
			break
		}
		visited[pid] = struct{}{}
		out = append(out, parent)
		cur = parent
	}
	return out, nil
}

// Root возвращает корень дерева, в котором находится узел.
func (f *Forest) Root(id uint64) (Node, error) {
	ancestors, err := f.Ancestors(id)
	if err != nil {
		return Node{}, err
	}
	if len(ancestors) == 0 {
		return f.nodes[id], nil
	}
	return ancestors[len(ancestors)-1], nil
}

// Descendants обходит поддерево в ширину. Повторное посещение узла означает цикл.
func (f *Forest) Descendants(id uint64) ([]Node, error) {
	if _, ok := f.nodes[id]; !ok {
		return nil, apperrors.ErrNotFound
	}

	visited := map[uint64]struct{}{id: {}}
	queue := []uint64{id}
	out := make([]Node, 0)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range f.Children(cur) {
			if _, seen := visited[child.ID]; seen {
				return nil, fmt.Errorf("%w: узел %d встречен повторно при обходе от %d", apperrors.ErrCycleDetected, child.ID, id)
			}
			visited[child.ID] = struct{}{}
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out, nil
}

// CheckReparent проверяет, что newParent не совпадает с id и не является его потомком.
// Арена должна содержать цепочку предков newParent.
func (f *Forest) CheckReparent(id uint64, newParent *uint64) error {
	if newParent == nil {
		return nil
	}
	if *newParent == id {
		return fmt.Errorf("%w: узел %d не может быть родителем самому себе", apperrors.ErrCycleDetected, id)
	}
	if _, ok := f.nodes[*newParent]; !ok {
		return fmt.Errorf("%w: родитель %d не найден", apperrors.ErrNotFound, *newParent)
	}

	ancestors, err := f.Ancestors(*newParent)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a.ID == id {
			return fmt.Errorf("%w: узел %d является предком нового родителя %d", apperrors.ErrCycleDetected, id, *newParent)
		}
	}
	return nil
}
