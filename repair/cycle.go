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
	"github.com/m3db/m3x/clock"
	"github.com/m3db/m3x/context"
	xerrors "github.com/m3db/m3x/errors"
	xlog "github.com/m3db/m3x/log"
	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

// repairCycle holds the state of one pass over the disabled index rows.
type repairCycle struct {
	opts          Options
	metrics       coordinatorMetrics
	logger        xlog.Logger
	nowFn         clock.NowFn
	batchCounters map[meta.Name]int64

	session meta.Session
}

func newRepairCycle(
	opts Options,
	metrics coordinatorMetrics,
	logger xlog.Logger,
	nowFn clock.NowFn,
	batchCounters map[meta.Name]int64,
) *repairCycle {
	return &repairCycle{
		opts:          opts,
		metrics:       metrics,
		logger:        logger,
		nowFn:         nowFn,
		batchCounters: batchCounters,
	}
}

func (c *repairCycle) run() error {
	ctx := context.NewContext()
	defer ctx.BlockingClose()

	iter, err := c.opts.MetaClient().ScanDisabledIndexes()
	if err != nil {
		return err
	}
	defer iter.Close()

	candidates, err := c.scanCandidates(iter)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	now := xtime.ToUnixNano(c.nowFn())
	plans, err := c.buildPlans(ctx, candidates, now)
	if err != nil {
		return err
	}

	multiErr := xerrors.NewMultiError()
	for _, plan := range plans {
		if err := c.repairTable(plan, now); err != nil {
			// One table failing must not starve the rest.
			c.metrics.tableErrors.Inc(1)
			c.logger.Errorf("unable to rebuild indexes for table %s: %v",
				plan.table.Name.String(), err)
			multiErr = multiErr.Add(err)
			continue
		}
		c.metrics.tablesRepaired.Inc(1)
	}
	return multiErr.FinalError()
}

// ensureSession lazily opens the elevated-timeout metadata session used
// for rebuild reads and writes. The session is finalized when the cycle
// context closes.
func (c *repairCycle) ensureSession(ctx context.Context, readPin xtime.UnixNano) (meta.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	session, err := c.opts.MetaClient().NewSession(meta.SessionOptions{
		ReadTimestampPin: readPin,
		QueryTimeout:     c.opts.SessionQueryTimeout(),
		RPCTimeout:       c.opts.SessionRPCTimeout(),
		ScannerTimeout:   c.opts.SessionScannerTimeout(),
		RetryOptions:     c.opts.SessionRetryOptions(),
		// Replay re-derives index mutations itself, the store must not
		// also run incremental population for them.
		DisableIncrementalPopulation: true,
	})
	if err != nil {
		return nil, err
	}
	ctx.RegisterFinalizer(session)
	c.session = session
	return session, nil
}

// buildPlans re-reads each candidate at a pinned timestamp, applies the
// membership and availability checks, performs the DISABLE to INACTIVE
// promotion, and groups the indexes that are ready to rebuild by their
// data table.
func (c *repairCycle) buildPlans(
	ctx context.Context,
	candidates []candidate,
	now xtime.UnixNano,
) (map[meta.Name]*rebuildPlan, error) {
	plans := make(map[meta.Name]*rebuildPlan)
	for _, cand := range candidates {
		session, err := c.ensureSession(ctx, now)
		if err != nil {
			return nil, err
		}

		table, err := session.TableDescriptor(cand.dataTable)
		if err != nil {
			if meta.IsNotFound(err) {
				c.logger.Debugf("data table %s not found, skipping index %s",
					cand.dataTable.String(), cand.index.String())
				continue
			}
			return nil, err
		}
		if !table.HasIndex(cand.index) {
			// Index dropped since the scan snapshot.
			continue
		}

		index, err := session.IndexDescriptor(cand.index)
		if err != nil {
			if meta.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		available, err := session.IndexAvailable(cand.index)
		if err != nil {
			return nil, err
		}
		if !available {
			c.logger.Debugf("index %s not yet available for writes, skipping",
				cand.index.String())
			continue
		}

		upper, res := rebuildWindow(index.State, cand.stateModified, now, c.opts.ForwardOverlap())
		switch res {
		case windowWaitingOverlap:
			c.logger.Debugf("index %s changed state too recently, waiting for overlap",
				cand.index.String())
			continue
		case windowUnexpectedState:
			if index.State == meta.StateDisable {
				// First recovery step: accept writes again before any
				// rebuild so the index stops falling further behind.
				// INACTIVE is the only gateway back to ACTIVE.
				err := session.UpdateIndexState(meta.StateTransition{
					Index: cand.index,
					From:  meta.StateDisable,
					To:    meta.StateInactive,
				})
				if err != nil {
					c.logger.Errorf("unable to mark index %s inactive: %v",
						cand.index.String(), err)
				}
				session.InvalidateCache(cand.dataTable)
				session.InvalidateCache(cand.index)
				continue
			}
			c.logger.Warnf("index %s in unexpected state %s, skipping",
				cand.index.String(), index.State.String())
			continue
		}

		plan, ok := plans[cand.dataTable]
		if !ok {
			plan = newRebuildPlan(table)
			plans[cand.dataTable] = plan
		}
		plan.add(index, upper)
	}
	return plans, nil
}
