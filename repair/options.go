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
	"time"

	"github.com/m3db/m3x/clock"
	"github.com/m3db/m3x/instrument"
	xretry "github.com/m3db/m3x/retry"

	"github.com/vireodb/indexrepair/exec"
	"github.com/vireodb/indexrepair/meta"
)

const (
	defaultRebuildEnabled        = true
	defaultBlockWritesOnFailure  = false
	defaultRepairInterval        = 10 * time.Second
	defaultInitialDelay          = 10 * time.Second
	defaultForwardOverlap        = time.Minute
	defaultBackwardOverlap       = time.Millisecond
	defaultBatchDuration         = 0 // unbounded
	defaultMaxBatchesPerTable    = 10
	defaultSessionQueryTimeout   = 10 * time.Minute
	defaultSessionRPCTimeout     = 5 * time.Minute
	defaultSessionScannerTimeout = 10 * time.Minute
	defaultSessionMaxRetries     = 5
)

var (
	errNoMetaClient               = errors.New("no meta client in repair options")
	errNoExecEngine               = errors.New("no exec engine in repair options")
	errInvalidRepairInterval      = errors.New("invalid repair interval in repair options")
	errInvalidInitialDelay        = errors.New("invalid initial delay in repair options")
	errInvalidForwardOverlap      = errors.New("invalid forward overlap in repair options")
	errInvalidBackwardOverlap     = errors.New("invalid backward overlap in repair options")
	errInvalidBatchDuration       = errors.New("invalid batch duration in repair options")
	errInvalidMaxBatchesPerTable  = errors.New("invalid max batches per table in repair options")
	errNoSessionRetryOptions      = errors.New("no session retry options in repair options")
	errInvalidSessionQueryTimeout = errors.New("invalid session query timeout in repair options")
)

type options struct {
	metaClient            meta.Client
	execEngine            exec.Engine
	rebuildEnabled        bool
	blockWritesOnFailure  bool
	repairInterval        time.Duration
	initialDelay          time.Duration
	forwardOverlap        time.Duration
	backwardOverlap       time.Duration
	batchDuration         time.Duration
	maxBatchesPerTable    int64
	sessionQueryTimeout   time.Duration
	sessionRPCTimeout     time.Duration
	sessionScannerTimeout time.Duration
	sessionRetryOpts      xretry.Options
	clockOpts             clock.Options
	instrumentOpts        instrument.Options
}

// NewOptions creates new repair options with defaults.
func NewOptions() Options {
	return &options{
		rebuildEnabled:        defaultRebuildEnabled,
		blockWritesOnFailure:  defaultBlockWritesOnFailure,
		repairInterval:        defaultRepairInterval,
		initialDelay:          defaultInitialDelay,
		forwardOverlap:        defaultForwardOverlap,
		backwardOverlap:       defaultBackwardOverlap,
		batchDuration:         defaultBatchDuration,
		maxBatchesPerTable:    defaultMaxBatchesPerTable,
		sessionQueryTimeout:   defaultSessionQueryTimeout,
		sessionRPCTimeout:     defaultSessionRPCTimeout,
		sessionScannerTimeout: defaultSessionScannerTimeout,
		sessionRetryOpts:      xretry.NewOptions().SetMaxRetries(defaultSessionMaxRetries),
		clockOpts:             clock.NewOptions(),
		instrumentOpts:        instrument.NewOptions(),
	}
}

func (o *options) SetMetaClient(value meta.Client) Options {
	opts := *o
	opts.metaClient = value
	return &opts
}

func (o *options) MetaClient() meta.Client {
	return o.metaClient
}

func (o *options) SetExecEngine(value exec.Engine) Options {
	opts := *o
	opts.execEngine = value
	return &opts
}

func (o *options) ExecEngine() exec.Engine {
	return o.execEngine
}

func (o *options) SetRebuildEnabled(value bool) Options {
	opts := *o
	opts.rebuildEnabled = value
	return &opts
}

func (o *options) RebuildEnabled() bool {
	return o.rebuildEnabled
}

func (o *options) SetBlockWritesOnFailure(value bool) Options {
	opts := *o
	opts.blockWritesOnFailure = value
	return &opts
}

func (o *options) BlockWritesOnFailure() bool {
	return o.blockWritesOnFailure
}

func (o *options) SetRepairInterval(value time.Duration) Options {
	opts := *o
	opts.repairInterval = value
	return &opts
}

func (o *options) RepairInterval() time.Duration {
	return o.repairInterval
}

func (o *options) SetInitialDelay(value time.Duration) Options {
	opts := *o
	opts.initialDelay = value
	return &opts
}

func (o *options) InitialDelay() time.Duration {
	return o.initialDelay
}

func (o *options) SetForwardOverlap(value time.Duration) Options {
	opts := *o
	opts.forwardOverlap = value
	return &opts
}

func (o *options) ForwardOverlap() time.Duration {
	return o.forwardOverlap
}

func (o *options) SetBackwardOverlap(value time.Duration) Options {
	opts := *o
	opts.backwardOverlap = value
	return &opts
}

func (o *options) BackwardOverlap() time.Duration {
	return o.backwardOverlap
}

func (o *options) SetBatchDuration(value time.Duration) Options {
	opts := *o
	opts.batchDuration = value
	return &opts
}

func (o *options) BatchDuration() time.Duration {
	return o.batchDuration
}

func (o *options) SetMaxBatchesPerTable(value int64) Options {
	opts := *o
	opts.maxBatchesPerTable = value
	return &opts
}

func (o *options) MaxBatchesPerTable() int64 {
	return o.maxBatchesPerTable
}

func (o *options) SetSessionQueryTimeout(value time.Duration) Options {
	opts := *o
	opts.sessionQueryTimeout = value
	return &opts
}

func (o *options) SessionQueryTimeout() time.Duration {
	return o.sessionQueryTimeout
}

func (o *options) SetSessionRPCTimeout(value time.Duration) Options {
	opts := *o
	opts.sessionRPCTimeout = value
	return &opts
}

func (o *options) SessionRPCTimeout() time.Duration {
	return o.sessionRPCTimeout
}

func (o *options) SetSessionScannerTimeout(value time.Duration) Options {
	opts := *o
	opts.sessionScannerTimeout = value
	return &opts
}

func (o *options) SessionScannerTimeout() time.Duration {
	return o.sessionScannerTimeout
}

func (o *options) SetSessionRetryOptions(value xretry.Options) Options {
	opts := *o
	opts.sessionRetryOpts = value
	return &opts
}

func (o *options) SessionRetryOptions() xretry.Options {
	return o.sessionRetryOpts
}

func (o *options) SetClockOptions(value clock.Options) Options {
	opts := *o
	opts.clockOpts = value
	return &opts
}

func (o *options) ClockOptions() clock.Options {
	return o.clockOpts
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.instrumentOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

func (o *options) Validate() error {
	if o.metaClient == nil {
		return errNoMetaClient
	}
	if o.execEngine == nil {
		return errNoExecEngine
	}
	if o.repairInterval < 0 {
		return errInvalidRepairInterval
	}
	if o.initialDelay < 0 {
		return errInvalidInitialDelay
	}
	if o.forwardOverlap < 0 {
		return errInvalidForwardOverlap
	}
	if o.backwardOverlap < 0 {
		return errInvalidBackwardOverlap
	}
	if o.batchDuration < 0 {
		return errInvalidBatchDuration
	}
	if o.maxBatchesPerTable <= 0 {
		return errInvalidMaxBatchesPerTable
	}
	if o.sessionRetryOpts == nil {
		return errNoSessionRetryOptions
	}
	if o.sessionQueryTimeout <= 0 {
		return errInvalidSessionQueryTimeout
	}
	return nil
}
