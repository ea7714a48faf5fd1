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
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3db/m3x/clock"
	xlog "github.com/m3db/m3x/log"

	"github.com/uber-go/tally"

	"github.com/vireodb/indexrepair/meta"
)

var (
	errRepairInProgress = errors.New("index repair already in progress")
)

type repairFn func() error

type sleepFn func(d time.Duration)

type coordinatorMetrics struct {
	cycleStarted      tally.Counter
	cycleSkipped      tally.Counter
	cycleErrors       tally.Counter
	candidatesSkipped tally.Counter
	tablesRepaired    tally.Counter
	tableErrors       tally.Counter
	rowsReplayed      tally.Counter
	running           tally.Gauge
}

func newCoordinatorMetrics(scope tally.Scope) coordinatorMetrics {
	return coordinatorMetrics{
		cycleStarted:      scope.Counter("cycle-started"),
		cycleSkipped:      scope.Counter("cycle-skipped"),
		cycleErrors:       scope.Counter("cycle-errors"),
		candidatesSkipped: scope.Counter("candidates-skipped"),
		tablesRepaired:    scope.Counter("tables-repaired"),
		tableErrors:       scope.Counter("table-errors"),
		rowsReplayed:      scope.Counter("rows-replayed"),
		running:           scope.Gauge("running"),
	}
}

type coordinator struct {
	opts    Options
	metrics coordinatorMetrics
	logger  xlog.Logger

	repairFn repairFn
	sleepFn  sleepFn
	nowFn    clock.NowFn

	// batchCounters persists across cycles so a table that keeps
	// making partial progress eventually collapses to an unbounded
	// catch-up pass.
	batchCounters map[meta.Name]int64

	closedLock sync.Mutex
	closed     bool
	running    int32
}

// NewCoordinator creates a background index repair coordinator.
func NewCoordinator(opts Options) (Coordinator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	scope := opts.InstrumentOptions().MetricsScope().SubScope("index-repair")
	c := &coordinator{
		opts:          opts,
		metrics:       newCoordinatorMetrics(scope),
		logger:        opts.InstrumentOptions().Logger(),
		sleepFn:       time.Sleep,
		nowFn:         opts.ClockOptions().NowFn(),
		batchCounters: make(map[meta.Name]int64),
	}
	c.repairFn = c.runCycle

	return c, nil
}

func (c *coordinator) run() {
	c.sleepFn(c.opts.InitialDelay())

	for {
		c.closedLock.Lock()
		closed := c.closed
		c.closedLock.Unlock()

		if closed {
			break
		}

		if err := c.Repair(); err != nil && err != errRepairInProgress {
			c.logger.Errorf("error repairing indexes: %v", err)
		}

		c.sleepFn(c.opts.RepairInterval())
	}
}

func (c *coordinator) Repair() error {
	// Only run one cycle at a time.
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		c.metrics.cycleSkipped.Inc(1)
		c.logger.Debugf("new index repair cycle skipped as there is already one running")
		return errRepairInProgress
	}
	defer atomic.StoreInt32(&c.running, 0)

	c.metrics.cycleStarted.Inc(1)
	if err := c.repairFn(); err != nil {
		c.metrics.cycleErrors.Inc(1)
		return err
	}
	return nil
}

func (c *coordinator) runCycle() error {
	cycle := newRepairCycle(c.opts, c.metrics, c.logger, c.nowFn, c.batchCounters)
	return cycle.run()
}

func (c *coordinator) Start() {
	if !c.opts.RebuildEnabled() && !c.opts.BlockWritesOnFailure() {
		c.logger.Infof("index rebuild task disabled")
		return
	}
	if c.opts.RepairInterval() <= 0 {
		return
	}
	go c.run()
}

func (c *coordinator) Stop() {
	c.closedLock.Lock()
	c.closed = true
	c.closedLock.Unlock()

	// Drop any locally cached metadata so a restart observes fresh state.
	c.opts.MetaClient().InvalidateAll()
}

func (c *coordinator) Report() {
	if atomic.LoadInt32(&c.running) == 1 {
		c.metrics.running.Update(1)
	} else {
		c.metrics.running.Update(0)
	}
}

// NewNoOpCoordinator creates a coordinator that does not do anything.
func NewNoOpCoordinator() Coordinator { return noOpCoordinator{} }

type noOpCoordinator struct{}

func (r noOpCoordinator) Start()        {}
func (r noOpCoordinator) Stop()         {}
func (r noOpCoordinator) Repair() error { return nil }
func (r noOpCoordinator) Report()       {}
