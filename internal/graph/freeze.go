package graph

import "github.com/deepcausality-go/deepcausality/internal/config"

// resettable is implemented by node payloads that carry a per-node active
// flag needing a reset on every freeze (e.g. internal/causaloid.Causaloid).
type resettable interface {
	ResetActive()
}

// Freeze implements the five-step transform of §4.3, compacting this
// dynamic graph into an immutable CSR FrozenGraph. Freeze is infallible
// and idempotent: calling it twice on the same live state yields
// structurally identical FrozenGraphs (§8 property 1). radixThreshold <= 0
// falls back to config.Default().Graph.RadixSortThreshold; callers that
// hold a *config.Config should pass its Graph.RadixSortThreshold directly.
func (d *DynamicGraph[N]) Freeze(radixThreshold int) *FrozenGraph[N] {
	if radixThreshold <= 0 {
		radixThreshold = config.Default().Graph.RadixSortThreshold
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	// Step 1: compact live nodes, build old->new index map.
	liveIDs := d.liveIDsSorted()
	oldToNew := make(map[uint64]uint64, len(liveIDs))
	nodes := make([]*N, len(liveIDs))
	for newIdx, oldID := range liveIDs {
		oldToNew[oldID] = uint64(newIdx)
		nodes[newIdx] = d.nodes[oldID]
	}
	var root *uint64
	if d.root != nil {
		if newIdx, ok := oldToNew[*d.root]; ok {
			r := newIdx
			root = &r
		}
	}

	// A node payload may opt into the freeze-resets-active-flag contract of
	// §4.2 by implementing resettable; this package stays unaware of
	// internal/causaloid's concrete type.
	for _, payload := range nodes {
		if r, ok := any(payload).(resettable); ok {
			r.ResetActive()
		}
	}

	n := len(nodes)
	outDeg := make([]int, n)
	inDeg := make([]int, n)

	adj, _ := d.g.AdjacencyMap()

	type rawEdge struct {
		from, to uint64
		weight   float64
	}
	edges := make([]rawEdge, 0, len(d.weights))

	// Step 2: count degrees, collecting surviving edges along the way.
	for oldFrom, targets := range adj {
		newFrom, fromLive := oldToNew[oldFrom]
		if !fromLive {
			continue
		}
		for oldTo := range targets {
			newTo, toLive := oldToNew[oldTo]
			if !toLive {
				continue
			}
			w := d.weights[edgeKey{oldFrom, oldTo}]
			edges = append(edges, rawEdge{newFrom, newTo, w})
			outDeg[newFrom]++
			inDeg[newTo]++
		}
	}

	// Step 3: sequential prefix sum produces forward/backward offsets.
	outOffsets := make([]int, n+1)
	inOffsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		outOffsets[i+1] = outOffsets[i] + outDeg[i]
		inOffsets[i+1] = inOffsets[i] + inDeg[i]
	}

	// Step 4: placement pass fills targets/weights for both directions.
	outTargets := make([]uint64, outOffsets[n])
	outWeights := make([]float64, outOffsets[n])
	inTargets := make([]uint64, inOffsets[n])
	inWeights := make([]float64, inOffsets[n])

	outCursor := append([]int(nil), outOffsets[:n]...)
	inCursor := append([]int(nil), inOffsets[:n]...)

	for _, e := range edges {
		oc := outCursor[e.from]
		outTargets[oc] = e.to
		outWeights[oc] = e.weight
		outCursor[e.from]++

		ic := inCursor[e.to]
		inTargets[ic] = e.from
		inWeights[ic] = e.weight
		inCursor[e.to]++
	}

	// Step 5: sort each node's neighbor slice by target, paired with weight.
	scratchTargets := make([]uint64, 0)
	scratchWeights := make([]float64, 0)
	for i := 0; i < n; i++ {
		sortNeighbors(outTargets[outOffsets[i]:outOffsets[i+1]], outWeights[outOffsets[i]:outOffsets[i+1]], radixThreshold, &scratchTargets, &scratchWeights)
		sortNeighbors(inTargets[inOffsets[i]:inOffsets[i+1]], inWeights[inOffsets[i]:inOffsets[i+1]], radixThreshold, &scratchTargets, &scratchWeights)
	}

	return &FrozenGraph[N]{
		nodes:      nodes,
		root:       root,
		weighted:   d.weighted,
		outOffsets: outOffsets,
		outTargets: outTargets,
		outWeights: outWeights,
		inOffsets:  inOffsets,
		inTargets:  inTargets,
		inWeights:  inWeights,
	}
}

// Unfreeze copies a FrozenGraph's CSR back into a mutable DynamicGraph
// (§3.5, §3.8).
func Unfreeze[N any](f *FrozenGraph[N]) *DynamicGraph[N] {
	d := NewDynamicGraph[N]()
	for i, payload := range f.nodes {
		id := uint64(i)
		_ = d.AddNode(id, payload)
		if f.root != nil && *f.root == id {
			rootID := id
			d.root = &rootID
		}
	}
	for i := range f.nodes {
		from := uint64(i)
		targets, weights := f.Outgoing(from)
		for j, to := range targets {
			_ = d.AddEdge(from, to, weights[j])
		}
	}
	return d
}

// sortNeighbors sorts the paired (targets, weights) slices ascending by
// target, in place. Below threshold it uses insertion sort; at or above it
// uses an LSD radix sort over the uint64 targets, operating allocation-free
// via the caller-owned ping-pong scratch buffers.
func sortNeighbors(targets []uint64, weights []float64, threshold int, scratchT *[]uint64, scratchW *[]float64) {
	if len(targets) < 2 {
		return
	}
	if len(targets) < threshold {
		insertionSortPaired(targets, weights)
		return
	}
	radixSortPaired(targets, weights, scratchT, scratchW)
}

func insertionSortPaired(targets []uint64, weights []float64) {
	for i := 1; i < len(targets); i++ {
		t, w := targets[i], weights[i]
		j := i - 1
		for j >= 0 && targets[j] > t {
			targets[j+1] = targets[j]
			weights[j+1] = weights[j]
			j--
		}
		targets[j+1] = t
		weights[j+1] = w
	}
}

const radixPasses = 8 // 8 bytes of a uint64, LSD

// radixSortPaired sorts targets/weights ascending by target using an 8-pass
// LSD radix sort on bytes, ping-ponging between the live slices and the
// caller-owned scratch buffers so no per-call allocation occurs after the
// scratch buffers have grown to the largest degree seen so far.
func radixSortPaired(targets []uint64, weights []float64, scratchT *[]uint64, scratchW *[]float64) {
	n := len(targets)
	if cap(*scratchT) < n {
		*scratchT = make([]uint64, n)
		*scratchW = make([]float64, n)
	}
	src, srcW := targets, weights
	dst, dstW := (*scratchT)[:n], (*scratchW)[:n]

	var count [257]int
	for pass := 0; pass < radixPasses; pass++ {
		shift := uint(pass * 8)
		for i := range count {
			count[i] = 0
		}
		for _, t := range src {
			b := byte(t >> shift)
			count[int(b)+1]++
		}
		for i := 0; i < 256; i++ {
			count[i+1] += count[i]
		}
		for i := 0; i < n; i++ {
			b := byte(src[i] >> shift)
			pos := count[b]
			count[b]++
			dst[pos] = src[i]
			dstW[pos] = srcW[i]
		}
		src, dst = dst, src
		srcW, dstW = dstW, srcW
	}
	// radixPasses is even, so src now aliases the original targets slice;
	// copy back only if it does not (kept for safety against future
	// changes to radixPasses).
	if &src[0] != &targets[0] {
		copy(targets, src)
		copy(weights, srcW)
	}
}
