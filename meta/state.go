// Copyright (c) 2018 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package meta

import "fmt"

// IndexState is the maintenance state of a secondary index.
type IndexState int

const (
	// StateUnknown is the zero value and never stored.
	StateUnknown IndexState = iota

	// StateDisable means synchronous maintenance failed and the index is
	// out of sync, repair pending.
	StateDisable

	// StateInactive means the index is accepting incremental maintenance
	// again but still has a backlog to replay. It is the only gateway
	// from StateDisable back to StateActive.
	StateInactive

	// StateActive means the index is serving queries. An active index may
	// still carry a positive disable timestamp from an overlapping
	// earlier failure.
	StateActive

	// StateBuilding means the index is under asynchronous initial
	// population and is owned by that process, not by repair.
	StateBuilding
)

var stateSerialized = map[IndexState][]byte{
	StateDisable:  []byte("x"),
	StateInactive: []byte("i"),
	StateActive:   []byte("a"),
	StateBuilding: []byte("b"),
}

var stateBySerialized = map[string]IndexState{
	"x": StateDisable,
	"i": StateInactive,
	"a": StateActive,
	"b": StateBuilding,
}

// legalTransitions is the set of state transitions the guarded write
// path will accept. Same-state rewrites are legal for StateInactive and
// StateActive so partial repair progress can be recorded.
var legalTransitions = map[IndexState][]IndexState{
	StateDisable:  {StateDisable, StateInactive},
	StateInactive: {StateInactive, StateActive},
	StateActive:   {StateActive},
}

// Serialized returns the store-native serialized form of the state.
func (s IndexState) Serialized() []byte {
	if b, ok := stateSerialized[s]; ok {
		return b
	}
	return nil
}

func (s IndexState) String() string {
	switch s {
	case StateDisable:
		return "DISABLE"
	case StateInactive:
		return "INACTIVE"
	case StateActive:
		return "ACTIVE"
	case StateBuilding:
		return "BUILDING"
	}
	return "UNKNOWN"
}

// ParseIndexState parses the serialized store form of an index state.
func ParseIndexState(b []byte) (IndexState, error) {
	if s, ok := stateBySerialized[string(b)]; ok {
		return s, nil
	}
	return StateUnknown, fmt.Errorf("unrecognized index state %q", b)
}

// CanTransition returns whether the transition from one index state to
// another is in the legal transition set.
func CanTransition(from, to IndexState) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
