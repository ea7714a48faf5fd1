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
	"math"
	"time"

	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

type indexRepair struct {
	desc  meta.IndexDescriptor
	upper xtime.UnixNano
}

// rebuildPlan is the merged repair work for one data table in one
// cycle.
type rebuildPlan struct {
	table      meta.TableDescriptor
	candidates []indexRepair

	// Populated by finalize.
	rebuild         []meta.IndexDescriptor
	earliestDisable xtime.UnixNano
	latestUpper     xtime.UnixNano
}

func newRebuildPlan(table meta.TableDescriptor) *rebuildPlan {
	return &rebuildPlan{table: table}
}

func (p *rebuildPlan) add(desc meta.IndexDescriptor, upper xtime.UnixNano) {
	p.candidates = append(p.candidates, indexRepair{desc: desc, upper: upper})
}

// finalize computes the merged window bounds and the set of indexes to
// rebuild. It returns false when no included index still carries a
// positive disable timestamp, meaning every candidate converged through
// a concurrent writer and there is nothing to do for this table.
func (p *rebuildPlan) finalize() bool {
	p.rebuild = p.rebuild[:0]
	p.earliestDisable = meta.MaxTimestamp
	p.latestUpper = xtime.UnixNano(math.MinInt64)
	for _, c := range p.candidates {
		if c.desc.DisableTime > 0 {
			if c.desc.DisableTime < p.earliestDisable {
				p.earliestDisable = c.desc.DisableTime
			}
			p.rebuild = append(p.rebuild, c.desc)
		}
		if c.upper > p.latestUpper {
			p.latestUpper = c.upper
		}
	}
	return len(p.rebuild) > 0
}

// scanBeginTime is the replay window start: the earliest disable
// timestamp minus the backward overlap, clamped at zero.
func scanBeginTime(earliestDisable xtime.UnixNano, backwardOverlap time.Duration) xtime.UnixNano {
	begin := earliestDisable - xtime.UnixNano(backwardOverlap)
	if begin < 0 {
		return 0
	}
	return begin
}

// batchEndTime is the bounded end of the next replay window starting at
// begin. It collapses to MaxTimestamp, committing to a full rebuild in
// one pass, when the configured duration is unbounded or would overflow
// the maximum representable timestamp, when the boundary would land
// past the current time, or when the table has already used up its
// bounded window budget.
func batchEndTime(
	begin xtime.UnixNano,
	batchDuration time.Duration,
	executedBatches int64,
	maxBatches int64,
	now xtime.UnixNano,
) xtime.UnixNano {
	if batchDuration <= 0 {
		return meta.MaxTimestamp
	}
	if xtime.UnixNano(batchDuration) > meta.MaxTimestamp-begin {
		return meta.MaxTimestamp
	}
	end := begin + xtime.UnixNano(batchDuration)
	if end > now || executedBatches >= maxBatches {
		return meta.MaxTimestamp
	}
	return end
}
