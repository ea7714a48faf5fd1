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

package repair

import (
	"time"

	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

type windowResult int

const (
	windowComputed windowResult = iota

	// windowWaitingOverlap means not enough time has passed since the
	// last failure signal to be confident no further failures are still
	// landing.
	windowWaitingOverlap

	windowUnexpectedState
)

// rebuildWindow computes the replay upper bound for one candidate index
// given its state and the store time of its last state mutation.
func rebuildWindow(
	state meta.IndexState,
	stateModified xtime.UnixNano,
	now xtime.UnixNano,
	forwardOverlap time.Duration,
) (xtime.UnixNano, windowResult) {
	overlap := xtime.UnixNano(forwardOverlap)
	if stateModified+overlap > now {
		return 0, windowWaitingOverlap
	}
	switch state {
	case meta.StateInactive:
		return stateModified + overlap, windowComputed
	case meta.StateActive:
		// The state cell is rewritten every time the disable timestamp
		// changes, so its mutation time bounds the backlog.
		return stateModified + 1, windowComputed
	}
	return 0, windowUnexpectedState
}
