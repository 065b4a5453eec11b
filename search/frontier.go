package search

import (
	"container/heap"

	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// node is one entry on the search frontier: an abstract state, the
// accumulated cost that reached it, and the path back to the start.
// States are owned by the node that created them and never mutated
// after being pushed.
type node struct {
	state  state.State
	step   *step.Step // step that produced this state; nil for the start
	parent *node
	g      float64 // accumulated step cost from the initial state
	h      float64 // heuristic estimate of remaining cost
	seq    uint64  // insertion order, the final deterministic tie-break
	index  int
}

// f is the frontier ordering key.
func (n *node) f() float64 {
	return n.g + n.h
}

// path reconstructs the step sequence from the start to this node.
func (n *node) path() []*step.Step {
	var rev []*step.Step
	for cur := n; cur.step != nil; cur = cur.parent {
		rev = append(rev, cur.step)
	}
	out := make([]*step.Step, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}

// frontier is a priority queue of nodes ordered by f = g + h. Ties
// prefer lower h (states that look closer to the goal), then earlier
// insertion, which makes plans reproducible for identical inputs.
type frontier struct {
	nodes []*node
}

func newFrontier() *frontier {
	f := &frontier{}
	heap.Init(f)
	return f
}

func (f *frontier) push(n *node) {
	heap.Push(f, n)
}

func (f *frontier) pop() *node {
	return heap.Pop(f).(*node)
}

func (f *frontier) empty() bool {
	return len(f.nodes) == 0
}

// heap.Interface

func (f *frontier) Len() int { return len(f.nodes) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.nodes[i], f.nodes[j]
	if a.f() != b.f() {
		return a.f() < b.f()
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) {
	f.nodes[i], f.nodes[j] = f.nodes[j], f.nodes[i]
	f.nodes[i].index = i
	f.nodes[j].index = j
}

func (f *frontier) Push(x any) {
	n := x.(*node)
	n.index = len(f.nodes)
	f.nodes = append(f.nodes, n)
}

func (f *frontier) Pop() any {
	old := f.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	f.nodes = old[:len(old)-1]
	return n
}
