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
)

// Configuration is the set of knobs to configure repair options.
type Configuration struct {
	// Enabled controls whether failed indexes are rebuilt.
	Enabled *bool `yaml:"enabled"`

	// BlockWritesOnFailure controls whether writes are blocked while an
	// index is out of sync.
	BlockWritesOnFailure *bool `yaml:"blockWritesOnFailure"`

	// Interval is the fixed delay between repair cycles.
	Interval *time.Duration `yaml:"interval"`

	// InitialDelay compensates clock skew when catalog partition
	// ownership moves between hosts.
	InitialDelay *time.Duration `yaml:"initialDelay"`

	// ForwardOverlap is the grace period after the last failure signal.
	ForwardOverlap *time.Duration `yaml:"forwardOverlap"`

	// BackwardOverlap is the safety margin before the earliest failure.
	BackwardOverlap *time.Duration `yaml:"backwardOverlap"`

	// Overlap is the deprecated single value overlap, used as the
	// backward overlap when backwardOverlap is unset.
	Overlap *time.Duration `yaml:"overlap"`

	// BatchDuration bounds the replay window of one cycle.
	BatchDuration *time.Duration `yaml:"batchDuration"`

	// MaxBatchesPerTable caps consecutive bounded windows per table.
	MaxBatchesPerTable *int64 `yaml:"maxBatchesPerTable"`

	// SessionQueryTimeout is the session query timeout.
	SessionQueryTimeout *time.Duration `yaml:"sessionQueryTimeout"`

	// SessionRPCTimeout is the session RPC timeout.
	SessionRPCTimeout *time.Duration `yaml:"sessionRPCTimeout"`

	// SessionScannerTimeout is the session scanner timeout.
	SessionScannerTimeout *time.Duration `yaml:"sessionScannerTimeout"`
}

// Options returns `Options` corresponding to the provided struct values.
func (c *Configuration) Options() Options {
	opts := NewOptions()
	if v := c.Enabled; v != nil {
		opts = opts.SetRebuildEnabled(*v)
	}
	if v := c.BlockWritesOnFailure; v != nil {
		opts = opts.SetBlockWritesOnFailure(*v)
	}
	if v := c.Interval; v != nil {
		opts = opts.SetRepairInterval(*v)
	}
	if v := c.InitialDelay; v != nil {
		opts = opts.SetInitialDelay(*v)
	}
	if v := c.ForwardOverlap; v != nil {
		opts = opts.SetForwardOverlap(*v)
	}
	switch {
	case c.BackwardOverlap != nil:
		opts = opts.SetBackwardOverlap(*c.BackwardOverlap)
	case c.Overlap != nil:
		// Legacy configs carried a single overlap value.
		opts = opts.SetBackwardOverlap(*c.Overlap)
	}
	if v := c.BatchDuration; v != nil {
		opts = opts.SetBatchDuration(*v)
	}
	if v := c.MaxBatchesPerTable; v != nil {
		opts = opts.SetMaxBatchesPerTable(*v)
	}
	if v := c.SessionQueryTimeout; v != nil {
		opts = opts.SetSessionQueryTimeout(*v)
	}
	if v := c.SessionRPCTimeout; v != nil {
		opts = opts.SetSessionRPCTimeout(*v)
	}
	if v := c.SessionScannerTimeout; v != nil {
		opts = opts.SetSessionScannerTimeout(*v)
	}
	return opts
}
