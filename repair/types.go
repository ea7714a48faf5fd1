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

// Package repair is the background repair coordinator for secondary
// indexes that fell out of sync when synchronous index maintenance
// failed: it periodically scans index metadata for disabled indexes,
// computes safe replay windows, replays the missed base table mutations
// through the index maintenance codecs in bounded batches, and marks
// indexes consistent again once their backlog is covered.
package repair

import (
	"time"

	"github.com/m3db/m3x/clock"
	"github.com/m3db/m3x/instrument"
	xretry "github.com/m3db/m3x/retry"

	"github.com/vireodb/indexrepair/exec"
	"github.com/vireodb/indexrepair/meta"
)

// Coordinator drives periodic index repair cycles. The embedding system
// calls Start when it acquires ownership of the catalog partition and
// Stop when it releases it.
type Coordinator interface {
	// Start begins the repair schedule. It is a no-op when the feature
	// is disabled by options.
	Start()

	// Stop halts the schedule and invalidates cached metadata. An
	// in-flight cycle is not cancelled; repair state is persisted after
	// every step so a later cycle resumes deterministically.
	Stop()

	// Repair runs one repair cycle. It returns errRepairInProgress when
	// a cycle is already running in this process.
	Repair() error

	// Report reports the running gauge.
	Report()
}

// Options are the repair coordinator options.
type Options interface {
	// SetMetaClient sets the metadata store client.
	SetMetaClient(value meta.Client) Options

	// MetaClient returns the metadata store client.
	MetaClient() meta.Client

	// SetExecEngine sets the replay execution engine.
	SetExecEngine(value exec.Engine) Options

	// ExecEngine returns the replay execution engine.
	ExecEngine() exec.Engine

	// SetRebuildEnabled sets whether failed indexes are rebuilt.
	SetRebuildEnabled(value bool) Options

	// RebuildEnabled returns whether failed indexes are rebuilt.
	RebuildEnabled() bool

	// SetBlockWritesOnFailure sets whether writes are blocked while an
	// index is out of sync. The coordinator still schedules cycles when
	// only this is set so blocked indexes keep making state progress.
	SetBlockWritesOnFailure(value bool) Options

	// BlockWritesOnFailure returns whether writes are blocked while an
	// index is out of sync.
	BlockWritesOnFailure() bool

	// SetRepairInterval sets the fixed delay between repair cycles.
	SetRepairInterval(value time.Duration) Options

	// RepairInterval returns the fixed delay between repair cycles.
	RepairInterval() time.Duration

	// SetInitialDelay sets the delay before the first cycle,
	// compensating clock skew against the previous owner of the
	// catalog partition.
	SetInitialDelay(value time.Duration) Options

	// InitialDelay returns the delay before the first cycle.
	InitialDelay() time.Duration

	// SetForwardOverlap sets the grace period that must elapse after
	// the last failure signal before an index is repaired.
	SetForwardOverlap(value time.Duration) Options

	// ForwardOverlap returns the forward grace period.
	ForwardOverlap() time.Duration

	// SetBackwardOverlap sets the safety margin subtracted from the
	// earliest disable timestamp when computing the replay start.
	SetBackwardOverlap(value time.Duration) Options

	// BackwardOverlap returns the backward safety margin.
	BackwardOverlap() time.Duration

	// SetBatchDuration sets the per cycle replay window size. Zero
	// means unbounded, rebuilding the whole backlog in one pass.
	SetBatchDuration(value time.Duration) Options

	// BatchDuration returns the per cycle replay window size.
	BatchDuration() time.Duration

	// SetMaxBatchesPerTable sets how many bounded windows may run
	// consecutively for one table before the coordinator commits to
	// finishing in a single unbounded pass.
	SetMaxBatchesPerTable(value int64) Options

	// MaxBatchesPerTable returns the bounded window cap per table.
	MaxBatchesPerTable() int64

	// SetSessionQueryTimeout sets the session query timeout.
	SetSessionQueryTimeout(value time.Duration) Options

	// SessionQueryTimeout returns the session query timeout.
	SessionQueryTimeout() time.Duration

	// SetSessionRPCTimeout sets the session RPC timeout.
	SetSessionRPCTimeout(value time.Duration) Options

	// SessionRPCTimeout returns the session RPC timeout.
	SessionRPCTimeout() time.Duration

	// SetSessionScannerTimeout sets the session scanner timeout.
	SetSessionScannerTimeout(value time.Duration) Options

	// SessionScannerTimeout returns the session scanner timeout.
	SessionScannerTimeout() time.Duration

	// SetSessionRetryOptions sets the retry options for session store
	// operations.
	SetSessionRetryOptions(value xretry.Options) Options

	// SessionRetryOptions returns the retry options for session store
	// operations.
	SessionRetryOptions() xretry.Options

	// SetClockOptions sets the clock options.
	SetClockOptions(value clock.Options) Options

	// ClockOptions returns the clock options.
	ClockOptions() clock.Options

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options

	// Validate checks if the options are valid.
	Validate() error
}
