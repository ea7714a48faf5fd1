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
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"

	xlog "github.com/m3db/m3x/log"
	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/exec"
	"github.com/vireodb/indexrepair/meta"
)

var (
	testTableName = meta.Name{Schema: "S", Table: "T1"}
	testIndexName = meta.Name{Schema: "S", Table: "IDX1"}
)

func newTestCycle(t *testing.T) *repairCycle {
	return newTestCycleWithOptions(t, NewOptions())
}

func newTestCycleWithOptions(t *testing.T, opts Options) *repairCycle {
	return newRepairCycle(
		opts,
		newCoordinatorMetrics(tally.NoopScope),
		xlog.SimpleLogger,
		opts.ClockOptions().NowFn(),
		make(map[meta.Name]int64),
	)
}

func mockRowIter(ctrl *gomock.Controller, rows ...meta.Row) *meta.MockRowIter {
	iter := meta.NewMockRowIter(ctrl)
	var calls []*gomock.Call
	for _, row := range rows {
		calls = append(calls,
			iter.EXPECT().Next().Return(true),
			iter.EXPECT().Current().Return(row))
	}
	calls = append(calls, iter.EXPECT().Next().Return(false))
	gomock.InOrder(calls...)
	iter.EXPECT().Err().Return(nil)
	iter.EXPECT().Close().Return(nil)
	return iter
}

func disabledIndexRow(index, dataTable meta.Name, state meta.IndexState, disableTime, stateModified xtime.UnixNano) meta.Row {
	return meta.NewRow(meta.EncodeRowKey(index), map[string]meta.Cell{
		meta.ColumnIndexState: {
			Value:     state.Serialized(),
			Timestamp: stateModified,
		},
		meta.ColumnIndexDisableTime: {
			Value: meta.EncodeTimestampValue(disableTime),
		},
		meta.ColumnDataTableName: {Value: []byte(dataTable.Table)},
	})
}

// testCycleOptions fixes the clock at 1600 with a 500 overlap, the time
// scale every cycle test works in.
func testCycleOptions(ctrl *gomock.Controller) (Options, *meta.MockClient, *exec.MockEngine) {
	client := meta.NewMockClient(ctrl)
	engine := exec.NewMockEngine(ctrl)
	opts := NewOptions().
		SetMetaClient(client).
		SetExecEngine(engine).
		SetForwardOverlap(500).
		SetBackwardOverlap(0).
		SetClockOptions(NewOptions().ClockOptions().
			SetNowFn(func() time.Time { return time.Unix(0, 1600) }))
	return opts, client, engine
}

func TestCycleTransitionsDisableToInactive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, _ := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateDisable, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).
		Return(meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}, nil)
	session.EXPECT().IndexDescriptor(testIndexName).
		Return(meta.IndexDescriptor{
			Name:        testIndexName,
			DataTable:   testTableName,
			State:       meta.StateDisable,
			DisableTime: 1000,
		}, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().UpdateIndexState(meta.StateTransition{
		Index: testIndexName,
		From:  meta.StateDisable,
		To:    meta.StateInactive,
	}).Return(nil)
	session.EXPECT().InvalidateCache(testTableName)
	session.EXPECT().InvalidateCache(testIndexName)
	session.EXPECT().Finalize()

	// No replay happens in the same cycle as the promotion.
	require.NoError(t, cycle.run())
}

func TestCycleSessionOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, _ := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).
		DoAndReturn(func(sessionOpts meta.SessionOptions) (meta.Session, error) {
			assert.Equal(t, xtime.UnixNano(1600), sessionOpts.ReadTimestampPin)
			assert.Equal(t, opts.SessionQueryTimeout(), sessionOpts.QueryTimeout)
			assert.Equal(t, opts.SessionRPCTimeout(), sessionOpts.RPCTimeout)
			assert.Equal(t, opts.SessionScannerTimeout(), sessionOpts.ScannerTimeout)
			assert.Equal(t, opts.SessionRetryOptions(), sessionOpts.RetryOptions)
			// Rebuild replay writes index rows directly, the session must
			// not trigger incremental population for the same mutations.
			assert.True(t, sessionOpts.DisableIncrementalPopulation)
			return session, nil
		})
	session.EXPECT().TableDescriptor(testTableName).
		Return(meta.TableDescriptor{}, meta.NotFoundError{Name: testTableName})
	session.EXPECT().Finalize()

	require.NoError(t, cycle.run())
}

func TestCycleWaitsForForwardOverlap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, _ := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	// 1200 + 500 > 1600, too soon to touch.
	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1200, 1200))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).
		Return(meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}, nil)
	session.EXPECT().IndexDescriptor(testIndexName).
		Return(meta.IndexDescriptor{
			Name:        testIndexName,
			DataTable:   testTableName,
			State:       meta.StateInactive,
			DisableTime: 1000,
		}, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().Finalize()

	require.NoError(t, cycle.run())
}

func TestCycleSkipsDroppedAndUnavailableIndexes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, _ := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	dropped := meta.Name{Schema: "S", Table: "IDX_DROPPED"}
	unavailable := meta.Name{Schema: "S", Table: "IDX_UNAVAILABLE"}

	iter := mockRowIter(ctrl,
		disabledIndexRow(dropped, testTableName, meta.StateInactive, 1000, 1000),
		disabledIndexRow(unavailable, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).
		Return(meta.TableDescriptor{
			Name:    testTableName,
			Indexes: []meta.Name{unavailable},
		}, nil).Times(2)
	session.EXPECT().IndexDescriptor(unavailable).
		Return(meta.IndexDescriptor{
			Name:        unavailable,
			DataTable:   testTableName,
			State:       meta.StateInactive,
			DisableTime: 1000,
		}, nil)
	session.EXPECT().IndexAvailable(unavailable).Return(false, nil)
	session.EXPECT().Finalize()

	require.NoError(t, cycle.run())
}

func TestCycleConvergesInactiveIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, engine := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	table := meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}
	index := meta.IndexDescriptor{
		Name:        testIndexName,
		DataTable:   testTableName,
		State:       meta.StateInactive,
		DisableTime: 1000,
	}

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).Return(table, nil)
	session.EXPECT().IndexDescriptor(testIndexName).Return(index, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().Finalize()

	maintainer := exec.NewMockIndexMaintainer(ctrl)
	maintainer.EXPECT().IndexTable().Return(testIndexName).MinTimes(1)
	engine.EXPECT().Maintainer(table, index).Return(maintainer, nil)

	plan := exec.NewMockPlan(ctrl)
	engine.EXPECT().CompileReplay(gomock.Any()).
		DoAndReturn(func(spec exec.ScanSpec) (exec.Plan, error) {
			// Upper bound 1000+500, clipped to the merged window.
			assert.Equal(t, testTableName, spec.Table)
			assert.Equal(t, meta.TimeRange{Start: 1000, End: 1500}, spec.Range)
			assert.True(t, spec.RebuildIndexes)
			assert.True(t, spec.DisableBlockCache)
			require.Len(t, spec.Maintainers, 1)
			assert.Equal(t, testIndexName, spec.Maintainers[0].IndexTable())
			return plan, nil
		})
	plan.EXPECT().Execute().Return(int64(42), nil)

	disableTime := xtime.UnixNano(1000)
	session.EXPECT().UpdateIndexState(meta.StateTransition{
		Index:             testIndexName,
		From:              meta.StateInactive,
		To:                meta.StateActive,
		DisableTime:       &disableTime,
		ClearAsyncRebuild: true,
	}).Return(nil)
	session.EXPECT().InvalidateCache(testIndexName)
	session.EXPECT().InvalidateCache(testTableName)

	require.NoError(t, cycle.run())
	assert.NotContains(t, cycle.batchCounters, testTableName)
}

func TestCyclePartialProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, engine := testCycleOptions(ctrl)
	// 100ns windows: [1000, 1100) is covered this cycle, short of the
	// 1500 upper bound.
	opts = opts.SetBatchDuration(100)
	cycle := newTestCycleWithOptions(t, opts)

	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	table := meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}
	index := meta.IndexDescriptor{
		Name:        testIndexName,
		DataTable:   testTableName,
		State:       meta.StateInactive,
		DisableTime: 1000,
	}

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).Return(table, nil)
	session.EXPECT().IndexDescriptor(testIndexName).Return(index, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().Finalize()

	maintainer := exec.NewMockIndexMaintainer(ctrl)
	maintainer.EXPECT().IndexTable().Return(testIndexName).AnyTimes()
	engine.EXPECT().Maintainer(table, index).Return(maintainer, nil)

	plan := exec.NewMockPlan(ctrl)
	engine.EXPECT().CompileReplay(gomock.Any()).
		DoAndReturn(func(spec exec.ScanSpec) (exec.Plan, error) {
			assert.Equal(t, meta.TimeRange{Start: 1000, End: 1100}, spec.Range)
			return plan, nil
		})
	plan.EXPECT().Execute().Return(int64(7), nil)

	session.EXPECT().CompareAndSetDisableTime(testIndexName, xtime.UnixNano(1000), xtime.UnixNano(1100)).
		Return(true, nil)
	session.EXPECT().UpdateIndexState(meta.StateTransition{
		Index: testIndexName,
		From:  meta.StateInactive,
		To:    meta.StateInactive,
	}).Return(nil)
	session.EXPECT().InvalidateCache(testIndexName)
	session.EXPECT().InvalidateCache(testTableName)

	require.NoError(t, cycle.run())
	assert.Equal(t, int64(1), cycle.batchCounters[testTableName])
}

func TestCyclePartialProgressLosesDisableTimeRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, engine := testCycleOptions(ctrl)
	opts = opts.SetBatchDuration(100)
	cycle := newTestCycleWithOptions(t, opts)

	iter := mockRowIter(ctrl,
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	table := meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}
	index := meta.IndexDescriptor{
		Name:        testIndexName,
		DataTable:   testTableName,
		State:       meta.StateInactive,
		DisableTime: 1000,
	}

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(testTableName).Return(table, nil)
	session.EXPECT().IndexDescriptor(testIndexName).Return(index, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().Finalize()

	maintainer := exec.NewMockIndexMaintainer(ctrl)
	maintainer.EXPECT().IndexTable().Return(testIndexName).AnyTimes()
	engine.EXPECT().Maintainer(table, index).Return(maintainer, nil)

	plan := exec.NewMockPlan(ctrl)
	engine.EXPECT().CompileReplay(gomock.Any()).Return(plan, nil)
	plan.EXPECT().Execute().Return(int64(7), nil)

	// A fresh failure was written while we replayed: no state rewrite,
	// next cycle re-reads the newer timestamp.
	session.EXPECT().CompareAndSetDisableTime(testIndexName, xtime.UnixNano(1000), xtime.UnixNano(1100)).
		Return(false, nil)
	session.EXPECT().InvalidateCache(testIndexName)
	session.EXPECT().InvalidateCache(testTableName)

	require.NoError(t, cycle.run())
}

func TestCycleFailureIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opts, client, engine := testCycleOptions(ctrl)
	cycle := newTestCycleWithOptions(t, opts)

	failedTable := meta.Name{Schema: "S", Table: "T_FAILED"}
	failedIndex := meta.Name{Schema: "S", Table: "IDX_FAILED"}

	iter := mockRowIter(ctrl,
		disabledIndexRow(failedIndex, failedTable, meta.StateInactive, 1000, 1000),
		disabledIndexRow(testIndexName, testTableName, meta.StateInactive, 1000, 1000))
	client.EXPECT().ScanDisabledIndexes().Return(iter, nil)

	okTable := meta.TableDescriptor{Name: testTableName, Indexes: []meta.Name{testIndexName}}
	okIndex := meta.IndexDescriptor{
		Name:        testIndexName,
		DataTable:   testTableName,
		State:       meta.StateInactive,
		DisableTime: 1000,
	}
	badTable := meta.TableDescriptor{Name: failedTable, Indexes: []meta.Name{failedIndex}}
	badIndex := meta.IndexDescriptor{
		Name:        failedIndex,
		DataTable:   failedTable,
		State:       meta.StateInactive,
		DisableTime: 1000,
	}

	session := meta.NewMockSession(ctrl)
	client.EXPECT().NewSession(gomock.Any()).Return(session, nil)
	session.EXPECT().TableDescriptor(failedTable).Return(badTable, nil)
	session.EXPECT().IndexDescriptor(failedIndex).Return(badIndex, nil)
	session.EXPECT().IndexAvailable(failedIndex).Return(true, nil)
	session.EXPECT().TableDescriptor(testTableName).Return(okTable, nil)
	session.EXPECT().IndexDescriptor(testIndexName).Return(okIndex, nil)
	session.EXPECT().IndexAvailable(testIndexName).Return(true, nil)
	session.EXPECT().Finalize()

	// The failing table aborts at replay, no state writes for it.
	badMaintainer := exec.NewMockIndexMaintainer(ctrl)
	badMaintainer.EXPECT().IndexTable().Return(failedIndex).AnyTimes()
	engine.EXPECT().Maintainer(badTable, badIndex).Return(badMaintainer, nil)
	badPlan := exec.NewMockPlan(ctrl)
	engine.EXPECT().CompileReplay(scanSpecForTable(failedTable)).Return(badPlan, nil)
	badPlan.EXPECT().Execute().Return(int64(0), errors.New("replay failed"))

	okMaintainer := exec.NewMockIndexMaintainer(ctrl)
	okMaintainer.EXPECT().IndexTable().Return(testIndexName).AnyTimes()
	engine.EXPECT().Maintainer(okTable, okIndex).Return(okMaintainer, nil)
	okPlan := exec.NewMockPlan(ctrl)
	engine.EXPECT().CompileReplay(scanSpecForTable(testTableName)).Return(okPlan, nil)
	okPlan.EXPECT().Execute().Return(int64(5), nil)

	disableTime := xtime.UnixNano(1000)
	session.EXPECT().UpdateIndexState(meta.StateTransition{
		Index:             testIndexName,
		From:              meta.StateInactive,
		To:                meta.StateActive,
		DisableTime:       &disableTime,
		ClearAsyncRebuild: true,
	}).Return(nil)
	session.EXPECT().InvalidateCache(testIndexName)
	session.EXPECT().InvalidateCache(testTableName)

	err := cycle.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replay failed")
}

// scanSpecForTable matches a compile request by its data table.
func scanSpecForTable(table meta.Name) gomock.Matcher {
	return scanSpecMatcher{table: table}
}

type scanSpecMatcher struct {
	table meta.Name
}

func (m scanSpecMatcher) Matches(x interface{}) bool {
	spec, ok := x.(exec.ScanSpec)
	return ok && spec.Table == m.table
}

func (m scanSpecMatcher) String() string {
	return "scan spec for table " + m.table.String()
}
