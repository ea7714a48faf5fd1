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

// Package meta models the index and table metadata rows of the catalog
// and the client contract repair uses to read and mutate them.
package meta

import (
	"math"
	"time"

	xretry "github.com/m3db/m3x/retry"
	xtime "github.com/m3db/m3x/time"
)

// Metadata row columns consumed and produced by repair.
const (
	// ColumnIndexState holds the serialized IndexState of an index row.
	ColumnIndexState = "INDEX_STATE"

	// ColumnIndexDisableTime holds the signed store-native timestamp at
	// which the index first fell out of sync. Zero or absent means the
	// index does not need repair. A negative value means a new failure
	// arrived while repair was in flight.
	ColumnIndexDisableTime = "INDEX_DISABLE_TIMESTAMP"

	// ColumnDataTableName names the data table an index row belongs to.
	ColumnDataTableName = "DATA_TABLE_NAME"

	// ColumnTableName names the table or index of the row itself.
	ColumnTableName = "TABLE_NAME"

	// ColumnAsyncRebuildTime is the async rebuild marker, cleared to
	// zero when an index fully converges.
	ColumnAsyncRebuildTime = "ASYNC_REBUILD_TIMESTAMP"
)

// MaxTimestamp is the largest representable store-native timestamp,
// used as the unbounded end of a replay window.
const MaxTimestamp = xtime.UnixNano(math.MaxInt64)

// Name is the schema-qualified identity of a table or index.
type Name struct {
	Schema string
	Table  string
}

// String renders the fully qualified name.
func (n Name) String() string {
	if n.Schema == "" {
		return n.Table
	}
	return n.Schema + "." + n.Table
}

// TimeRange is a half-open [Start, End) span of store-native timestamps.
type TimeRange struct {
	Start xtime.UnixNano
	End   xtime.UnixNano
}

// IndexDescriptor describes one secondary index row.
type IndexDescriptor struct {
	Name             Name
	DataTable        Name
	State            IndexState
	DisableTime      xtime.UnixNano
	AsyncRebuildTime xtime.UnixNano
}

// TableDescriptor describes one data table row. Indexes is the
// authoritative membership set: a discovered index row that is no
// longer listed here has been dropped and must be ignored.
type TableDescriptor struct {
	Name    Name
	Indexes []Name
}

// HasIndex returns whether the index is still owned by the table.
func (t TableDescriptor) HasIndex(name Name) bool {
	for _, n := range t.Indexes {
		if n == name {
			return true
		}
	}
	return false
}

// Cell is one versioned column value of a metadata row.
type Cell struct {
	Value []byte
	// Timestamp is the store-assigned time of the last mutation to this
	// cell.
	Timestamp xtime.UnixNano
}

// Row is a scanned metadata row with typed optional-column access.
type Row struct {
	key   []byte
	cells map[string]Cell
}

// NewRow creates a row from its key and cells.
func NewRow(key []byte, cells map[string]Cell) Row {
	return Row{key: key, cells: cells}
}

// Key returns the raw row key.
func (r Row) Key() []byte { return r.key }

// Cell returns the named cell and whether it is present.
func (r Row) Cell(column string) (Cell, bool) {
	c, ok := r.cells[column]
	return c, ok
}

// StateTransition is a guarded index state write: it only applies when
// the row exists and the transition from the observed state is legal.
type StateTransition struct {
	Index Name
	From  IndexState
	To    IndexState
	// DisableTime, when non-nil, is written alongside the new state.
	DisableTime *xtime.UnixNano
	// ClearAsyncRebuild zeroes the async rebuild marker.
	ClearAsyncRebuild bool
}

// SessionOptions configure a repair session to the store.
type SessionOptions struct {
	// ReadTimestampPin pins the session so no writes at or after it are
	// visible, keeping replay from racing ahead of live data.
	ReadTimestampPin xtime.UnixNano

	// Timeouts elevated for potentially large historical scans.
	QueryTimeout   time.Duration
	RPCTimeout     time.Duration
	ScannerTimeout time.Duration

	// RetryOptions bound retries of individual store operations.
	RetryOptions xretry.Options

	// DisableIncrementalPopulation turns off redundant incremental
	// build side effects while replaying.
	DisableIncrementalPopulation bool
}

// RowIter iterates scanned metadata rows.
type RowIter interface {
	// Next advances to the next row, returning false at the end.
	Next() bool

	// Current returns the current row.
	Current() Row

	// Err returns any error hit while iterating.
	Err() error

	// Close releases the underlying scanner.
	Close() error
}

// Client is the metadata store client repair runs against.
type Client interface {
	// NewSession opens a session configured for repair work.
	NewSession(opts SessionOptions) (Session, error)

	// ScanDisabledIndexes scans metadata rows carrying a non-zero
	// disable timestamp. Rows with a negative concurrent-failure
	// marker are included. The returned iterator must be closed.
	ScanDisabledIndexes() (RowIter, error)

	// InvalidateAll drops any cached metadata held by the client.
	InvalidateAll()
}

// Session is one repair session to the store. All reads are fresh, not
// served from cache.
type Session interface {
	// TableDescriptor reads a data table row.
	TableDescriptor(name Name) (TableDescriptor, error)

	// IndexDescriptor reads an index row.
	IndexDescriptor(name Name) (IndexDescriptor, error)

	// IndexAvailable reports whether all partitions of the index table
	// are reachable.
	IndexAvailable(name Name) (bool, error)

	// UpdateIndexState applies a guarded state transition. It fails
	// with a NotFoundError when the row is absent and with an
	// InvalidTransitionError when the transition is not legal.
	UpdateIndexState(t StateTransition) error

	// CompareAndSetDisableTime writes the disable timestamp only if the
	// currently stored value equals expect, returning whether it
	// applied.
	CompareAndSetDisableTime(name Name, expect, value xtime.UnixNano) (bool, error)

	// InvalidateCache drops any cached metadata for the named table so
	// subsequent readers observe new state immediately.
	InvalidateCache(name Name)

	// Finalize releases the session.
	Finalize()
}
