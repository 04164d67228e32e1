// Package reasoning implements the Causal Reasoning Engine (§4.4): the six
// evaluation strategies that traverse a frozen causal graph, invoking each
// visited causaloid's function and interpreting the PropagatingEffect it
// returns as either a value to propagate, a control signal (RelayTo), or a
// terminal error.
package reasoning

import (
	"fmt"

	"github.com/deepcausality-go/deepcausality/internal/causalerr"
	"github.com/deepcausality-go/deepcausality/internal/effect"
)

// resolveInput looks up the datum for nodeID: data[idMap[nodeID]] if idMap
// is supplied, else data[nodeID] by identity (§4.4.4 step 1, §4.4.6).
func resolveInput[V any](data []V, idMap map[uint64]int, nodeID uint64) (V, error) {
	idx := int(nodeID)
	if idMap != nil {
		mapped, ok := idMap[nodeID]
		if !ok {
			var zero V
			return zero, causalerr.NewCausalityError(causalerr.KindCustom,
				fmt.Sprintf("no data index mapped for node %d", nodeID))
		}
		idx = mapped
	}
	if idx < 0 || idx >= len(data) {
		var zero V
		return zero, causalerr.NewCausalityError(causalerr.KindCustom,
			fmt.Sprintf("data index %d out of range for node %d", idx, nodeID))
	}
	return data[idx], nil
}

// attachLogs replays logs onto p, mirroring internal/causaloid's withLogs.
func attachLogs[V any](p *effect.PropagatingEffect[V], logs effect.Log) *effect.PropagatingEffect[V] {
	for _, entry := range logs.Entries() {
		p = p.WithLog(entry)
	}
	return p
}

// asTruth extracts a boolean verdict from result's Value payload, reporting
// false in ok whenever result carries anything other than a plain boolean
// value (§8 property 7's "any other effect variant is an error" pattern).
func asTruth[V any](result *effect.PropagatingEffect[V]) (truth bool, ok bool) {
	v, isValue := result.Value().AsValue()
	if !isValue {
		return false, false
	}
	return effect.AsBool(v)
}
