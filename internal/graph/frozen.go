package graph

import (
	"container/heap"
	"sort"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
)

// FrozenGraph is the immutable CSR structure produced by Freeze (§3.5,
// §4.3): forward and backward adjacency stored as offset/target/weight
// slices, with each node's neighbor slice sorted strictly ascending by
// target (§8 property 3).
type FrozenGraph[N any] struct {
	nodes    []*N
	root     *uint64
	weighted bool

	outOffsets []int
	outTargets []uint64
	outWeights []float64

	inOffsets []int
	inTargets []uint64
	inWeights []float64
}

// NumberOfNodes reports the node count.
func (f *FrozenGraph[N]) NumberOfNodes() int { return len(f.nodes) }

// NumberOfEdges reports the edge count.
func (f *FrozenGraph[N]) NumberOfEdges() int { return len(f.outTargets) }

// IsEmpty reports whether the graph has no nodes (§4.4.1 precondition).
func (f *FrozenGraph[N]) IsEmpty() bool { return len(f.nodes) == 0 }

// Root returns the distinguished root index, if any.
func (f *FrozenGraph[N]) Root() (uint64, bool) {
	if f.root == nil {
		return 0, false
	}
	return *f.root, true
}

// GetNode returns the payload at index i.
func (f *FrozenGraph[N]) GetNode(i uint64) (*N, bool) {
	if i >= uint64(len(f.nodes)) {
		return nil, false
	}
	return f.nodes[i], true
}

// Outgoing returns node i's sorted-by-target forward neighbors and their
// parallel weights.
func (f *FrozenGraph[N]) Outgoing(i uint64) ([]uint64, []float64) {
	if i >= uint64(len(f.nodes)) {
		return nil, nil
	}
	return f.outTargets[f.outOffsets[i]:f.outOffsets[i+1]], f.outWeights[f.outOffsets[i]:f.outOffsets[i+1]]
}

// Incoming returns node i's sorted-by-source backward neighbors and their
// parallel weights.
func (f *FrozenGraph[N]) Incoming(i uint64) ([]uint64, []float64) {
	if i >= uint64(len(f.nodes)) {
		return nil, nil
	}
	return f.inTargets[f.inOffsets[i]:f.inOffsets[i+1]], f.inWeights[f.inOffsets[i]:f.inOffsets[i+1]]
}

// ContainsEdge reports whether a->b exists, via binary search over a's
// sorted outgoing targets (O(log degree)).
func (f *FrozenGraph[N]) ContainsEdge(a, b uint64) bool {
	targets, _ := f.Outgoing(a)
	idx := sort.Search(len(targets), func(i int) bool { return targets[i] >= b })
	return idx < len(targets) && targets[idx] == b
}

// ShortestPath returns the ordered node sequence from src to dst: BFS if
// the graph is unweighted, non-negative-weight Dijkstra otherwise (§3.5,
// §4.3). Returns ErrNoPath if no path exists.
func (f *FrozenGraph[N]) ShortestPath(src, dst uint64) ([]uint64, error) {
	if src >= uint64(len(f.nodes)) || dst >= uint64(len(f.nodes)) {
		return nil, causalerr.ErrNodeMissing
	}
	if src == dst {
		return []uint64{src}, nil
	}
	if f.weighted {
		return f.dijkstra(src, dst)
	}
	return f.bfs(src, dst)
}

func (f *FrozenGraph[N]) bfs(src, dst uint64) ([]uint64, error) {
	n := len(f.nodes)
	visited := make([]bool, n)
	prev := make([]int64, n)
	for i := range prev {
		prev[i] = -1
	}
	queue := []uint64{src}
	visited[src] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			return reconstructPath(prev, src, dst), nil
		}
		targets, _ := f.Outgoing(cur)
		for _, next := range targets {
			if !visited[next] {
				visited[next] = true
				prev[next] = int64(cur)
				queue = append(queue, next)
			}
		}
	}
	return nil, causalerr.ErrNoPath
}

type pqItem struct {
	node uint64
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool   { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)        { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{})  { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func (f *FrozenGraph[N]) dijkstra(src, dst uint64) ([]uint64, error) {
	n := len(f.nodes)
	const inf = 1<<63 - 1
	dist := make([]float64, n)
	prev := make([]int64, n)
	for i := range dist {
		dist[i] = inf
		prev[i] = -1
	}
	dist[src] = 0

	pq := &priorityQueue{{node: src, dist: 0}}
	visited := make([]bool, n)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		cur := item.node
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == dst {
			break
		}
		targets, weights := f.Outgoing(cur)
		for i, next := range targets {
			w := weights[i]
			alt := dist[cur] + w
			if alt < dist[next] {
				dist[next] = alt
				prev[next] = int64(cur)
				heap.Push(pq, pqItem{node: next, dist: alt})
			}
		}
	}

	if dist[dst] == inf {
		return nil, causalerr.ErrNoPath
	}
	return reconstructPath(prev, src, dst), nil
}

func reconstructPath(prev []int64, src, dst uint64) []uint64 {
	path := []uint64{dst}
	cur := dst
	for cur != src {
		p := prev[cur]
		if p == -1 {
			break
		}
		cur = uint64(p)
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
