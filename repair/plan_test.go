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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

func testIndexDesc(table string, disableTime xtime.UnixNano) meta.IndexDescriptor {
	return meta.IndexDescriptor{
		Name:        meta.Name{Schema: "S", Table: table},
		DataTable:   meta.Name{Schema: "S", Table: "T1"},
		State:       meta.StateInactive,
		DisableTime: disableTime,
	}
}

func TestRebuildPlanFinalize(t *testing.T) {
	plan := newRebuildPlan(meta.TableDescriptor{Name: meta.Name{Schema: "S", Table: "T1"}})
	plan.add(testIndexDesc("IDX1", 1000), 1500)
	plan.add(testIndexDesc("IDX2", 500), 1300)
	plan.add(testIndexDesc("IDX3", 2000), 2500)

	require.True(t, plan.finalize())
	assert.Equal(t, xtime.UnixNano(500), plan.earliestDisable)
	assert.Equal(t, xtime.UnixNano(2500), plan.latestUpper)
	require.Len(t, plan.rebuild, 3)
}

func TestRebuildPlanFinalizeExcludesNonPositiveDisable(t *testing.T) {
	plan := newRebuildPlan(meta.TableDescriptor{Name: meta.Name{Schema: "S", Table: "T1"}})
	// A negative disable timestamp is a concurrent failure marker, the
	// index is excluded from this pass but still widens the window.
	plan.add(testIndexDesc("IDX1", -900), 2500)
	plan.add(testIndexDesc("IDX2", 1000), 1500)

	require.True(t, plan.finalize())
	assert.Equal(t, xtime.UnixNano(1000), plan.earliestDisable)
	assert.Equal(t, xtime.UnixNano(2500), plan.latestUpper)
	require.Len(t, plan.rebuild, 1)
	assert.Equal(t, "S.IDX2", plan.rebuild[0].Name.String())
}

func TestRebuildPlanFinalizeNothingToDo(t *testing.T) {
	plan := newRebuildPlan(meta.TableDescriptor{Name: meta.Name{Schema: "S", Table: "T1"}})
	plan.add(testIndexDesc("IDX1", 0), 1500)
	plan.add(testIndexDesc("IDX2", -100), 1200)

	require.False(t, plan.finalize())
}

func TestScanBeginTime(t *testing.T) {
	assert.Equal(t, xtime.UnixNano(900), scanBeginTime(1000, 100))
	assert.Equal(t, xtime.UnixNano(0), scanBeginTime(50, 100))
	assert.Equal(t, xtime.UnixNano(1000), scanBeginTime(1000, 0))
}

func TestBatchEndTimeBounded(t *testing.T) {
	end := batchEndTime(1000, 200, 0, 10, 5000)
	assert.Equal(t, xtime.UnixNano(1200), end)
}

func TestBatchEndTimeUnboundedDuration(t *testing.T) {
	end := batchEndTime(1000, 0, 0, 10, 5000)
	assert.Equal(t, meta.MaxTimestamp, end)
}

func TestBatchEndTimeOverflow(t *testing.T) {
	end := batchEndTime(meta.MaxTimestamp-100, time.Duration(200), 0, 10, 5000)
	assert.Equal(t, meta.MaxTimestamp, end)
}

func TestBatchEndTimePastNow(t *testing.T) {
	end := batchEndTime(1000, 200, 0, 10, 1100)
	assert.Equal(t, meta.MaxTimestamp, end)
}

func TestBatchEndTimeBudgetExhausted(t *testing.T) {
	end := batchEndTime(1000, 200, 9, 10, 5000)
	assert.Equal(t, xtime.UnixNano(1200), end)

	// Once the bounded window budget is used up the table commits to a
	// single unbounded catch-up pass.
	end = batchEndTime(1000, 200, 10, 10, 5000)
	assert.Equal(t, meta.MaxTimestamp, end)
}
