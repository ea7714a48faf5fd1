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

// Package pebblestore is a pebble backed implementation of the metadata
// store client for embedders running the repair coordinator against a
// local catalog, and for tests that need a real store.
package pebblestore

import (
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/m3db/m3x/clock"
	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

// Metadata rows live under a dedicated key prefix so the catalog can
// share a pebble instance with other data.
var (
	keyPrefix = []byte("meta/")
	keyLimit  = []byte("meta0")
)

// columnIndexList is a store internal column on data table rows holding
// the authoritative index membership set.
const columnIndexList = "INDEX_LIST"

var errStoreClosed = errors.New("pebblestore: store closed")

// StoreOptions configure an embedded metadata store.
type StoreOptions struct {
	// Path is the pebble directory. Empty means an in-memory store.
	Path string

	// FS overrides the pebble filesystem. Nil selects an in-memory
	// filesystem when Path is empty and the OS filesystem otherwise.
	FS vfs.FS

	// NowFn supplies cell mutation timestamps. Nil means time.Now.
	NowFn clock.NowFn
}

// Store is an embedded metadata catalog implementing the store client
// contract.
type Store struct {
	mu sync.Mutex

	db     *pebble.DB
	nowFn  clock.NowFn
	closed bool

	unavailable map[meta.Name]struct{}
}

// NewStore opens an embedded metadata store.
func NewStore(opts StoreOptions) (*Store, error) {
	popts := &pebble.Options{FS: opts.FS}
	if popts.FS == nil && opts.Path == "" {
		popts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(opts.Path, popts)
	if err != nil {
		return nil, err
	}
	nowFn := opts.NowFn
	if nowFn == nil {
		nowFn = clock.NewOptions().NowFn()
	}
	return &Store{
		db:          db,
		nowFn:       nowFn,
		unavailable: make(map[meta.Name]struct{}),
	}, nil
}

// Close releases the underlying pebble instance.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// NewSession opens a repair session against the store.
func (s *Store) NewSession(opts meta.SessionOptions) (meta.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errStoreClosed
	}
	return newSession(s, opts), nil
}

// ScanDisabledIndexes returns every metadata row whose disable
// timestamp cell holds a non-zero value, including rows marked with a
// negative concurrent failure timestamp.
func (s *Store) ScanDisabledIndexes() (meta.RowIter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errStoreClosed
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyLimit,
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var rows []meta.Row
	for iter.First(); iter.Valid(); iter.Next() {
		cells, err := decodeCells(iter.Value())
		if err != nil {
			return nil, err
		}
		cell, ok := cells[meta.ColumnIndexDisableTime]
		if !ok || len(cell.Value) == 0 {
			continue
		}
		ts, err := meta.DecodeTimestampValue(cell.Value)
		if err != nil || ts == 0 {
			continue
		}
		key := append([]byte(nil), iter.Key()[len(keyPrefix):]...)
		rows = append(rows, meta.NewRow(key, cells))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return &rowIter{rows: rows}, nil
}

// InvalidateAll is a no-op: the embedded store serves every read
// directly from pebble.
func (s *Store) InvalidateAll() {}

// SetIndexAvailable overrides the reachability of an index table's
// partitions, used to simulate partial outages.
func (s *Store) SetIndexAvailable(name meta.Name, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if available {
		delete(s.unavailable, name)
	} else {
		s.unavailable[name] = struct{}{}
	}
}

// CreateTable writes a data table row with its index membership set.
func (s *Store) CreateTable(name meta.Name, indexes ...meta.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := xtime.ToUnixNano(s.nowFn())
	cells := map[string]meta.Cell{
		meta.ColumnTableName: {Value: []byte(name.Table), Timestamp: now},
		columnIndexList:      {Value: encodeIndexList(indexes), Timestamp: now},
	}
	return s.writeRowWithLock(name, cells)
}

// CreateIndex writes an index row in the given state with no pending
// disable timestamp.
func (s *Store) CreateIndex(index, dataTable meta.Name, state meta.IndexState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := xtime.ToUnixNano(s.nowFn())
	cells := map[string]meta.Cell{
		meta.ColumnTableName:     {Value: []byte(index.Table), Timestamp: now},
		meta.ColumnDataTableName: {Value: []byte(dataTable.Table), Timestamp: now},
		meta.ColumnIndexState:    {Value: state.Serialized(), Timestamp: now},
	}
	return s.writeRowWithLock(index, cells)
}

// DropIndexFromTable removes an index from a table's membership set.
// The index row itself is left behind, as happens when a drop races a
// repair scan.
func (s *Store) DropIndexFromTable(table, index meta.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells, err := s.readRowWithLock(table)
	if err != nil {
		return err
	}
	if cells == nil {
		return meta.NotFoundError{Name: table}
	}
	indexes := decodeIndexList(cells[columnIndexList].Value)
	kept := indexes[:0]
	for _, n := range indexes {
		if n != index {
			kept = append(kept, n)
		}
	}
	cells[columnIndexList] = meta.Cell{
		Value:     encodeIndexList(kept),
		Timestamp: xtime.ToUnixNano(s.nowFn()),
	}
	return s.writeRowWithLock(table, cells)
}

// SetIndexState writes an index state directly, bypassing the guarded
// transition checks.
func (s *Store) SetIndexState(index meta.Name, state meta.IndexState) error {
	return s.setCell(index, meta.ColumnIndexState, state.Serialized())
}

// SetDisableTime writes the disable timestamp of an index directly. A
// negative value marks a failure that arrived while a rebuild was in
// flight.
func (s *Store) SetDisableTime(index meta.Name, ts xtime.UnixNano) error {
	return s.setCell(index, meta.ColumnIndexDisableTime, meta.EncodeTimestampValue(ts))
}

// SetAsyncRebuildTime writes the async rebuild marker of an index.
func (s *Store) SetAsyncRebuildTime(index meta.Name, ts xtime.UnixNano) error {
	return s.setCell(index, meta.ColumnAsyncRebuildTime, meta.EncodeTimestampValue(ts))
}

func (s *Store) setCell(name meta.Name, column string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells, err := s.readRowWithLock(name)
	if err != nil {
		return err
	}
	if cells == nil {
		return meta.NotFoundError{Name: name}
	}
	cells[column] = meta.Cell{Value: value, Timestamp: xtime.ToUnixNano(s.nowFn())}
	return s.writeRowWithLock(name, cells)
}

func (s *Store) readRowWithLock(name meta.Name) (map[string]meta.Cell, error) {
	if s.closed {
		return nil, errStoreClosed
	}
	value, closer, err := s.db.Get(rowKey(name))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return decodeCells(value)
}

func (s *Store) writeRowWithLock(name meta.Name, cells map[string]meta.Cell) error {
	if s.closed {
		return errStoreClosed
	}
	return s.db.Set(rowKey(name), encodeCells(cells), pebble.Sync)
}

func (s *Store) indexAvailableWithLock(name meta.Name) bool {
	_, unavailable := s.unavailable[name]
	return !unavailable
}

func rowKey(name meta.Name) []byte {
	return append(append([]byte(nil), keyPrefix...), meta.EncodeRowKey(name)...)
}

type rowIter struct {
	rows []meta.Row
	idx  int
}

func (it *rowIter) Next() bool {
	if it.idx >= len(it.rows) {
		return false
	}
	it.idx++
	return true
}

func (it *rowIter) Current() meta.Row { return it.rows[it.idx-1] }

func (it *rowIter) Err() error { return nil }

func (it *rowIter) Close() error { return nil }
