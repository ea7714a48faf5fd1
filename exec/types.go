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

// Package exec is the contract repair consumes from the query execution
// engine to replay historical base table mutations through index
// maintenance codecs.
package exec

import (
	"github.com/vireodb/indexrepair/meta"
)

// IndexMaintainer is the index maintenance codec for one index: it
// derives index mutations from base table mutations. Repair only holds
// maintainers to attach them to a replay scan.
type IndexMaintainer interface {
	// IndexTable returns the index table the codec maintains.
	IndexTable() meta.Name
}

// ScanSpec describes one replay scan over a data table.
type ScanSpec struct {
	// Table is the data table to scan.
	Table meta.Name

	// Range restricts the scan to [Start, End) store timestamps.
	Range meta.TimeRange

	// RebuildIndexes marks the scan as a rebuild mode scan so the
	// storage layer re-derives index mutations instead of treating it
	// as an ordinary read.
	RebuildIndexes bool

	// Maintainers are the codecs for every index being repaired.
	Maintainers []IndexMaintainer

	// DisableBlockCache keeps a large historical scan from churning the
	// block cache.
	DisableBlockCache bool
}

// Plan is a compiled, executable replay plan.
type Plan interface {
	// Execute runs the plan and returns the count of base table rows
	// replayed.
	Execute() (int64, error)
}

// Engine compiles replay plans and resolves maintenance codecs.
type Engine interface {
	// Maintainer returns the maintenance codec for an index of a table.
	Maintainer(table meta.TableDescriptor, index meta.IndexDescriptor) (IndexMaintainer, error)

	// CompileReplay compiles a replay scan into an executable plan.
	CompileReplay(spec ScanSpec) (Plan, error)
}
