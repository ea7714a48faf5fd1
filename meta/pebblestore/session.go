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

package pebblestore

import (
	xretry "github.com/m3db/m3x/retry"
	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

// session is one repair session against the embedded store. The pinned
// read timestamp is recorded for parity with remote store clients; the
// embedded store has no writers racing ahead of the pin, so reads serve
// the latest values.
type session struct {
	store   *Store
	opts    meta.SessionOptions
	retrier xretry.Retrier
}

func newSession(s *Store, opts meta.SessionOptions) *session {
	ropts := opts.RetryOptions
	if ropts == nil {
		ropts = xretry.NewOptions().SetMaxRetries(1)
	}
	return &session{
		store:   s,
		opts:    opts,
		retrier: xretry.NewRetrier(ropts),
	}
}

func (s *session) TableDescriptor(name meta.Name) (meta.TableDescriptor, error) {
	cells, err := s.readRow(name)
	if err != nil {
		return meta.TableDescriptor{}, err
	}
	if cells == nil {
		return meta.TableDescriptor{}, meta.NotFoundError{Name: name}
	}
	return meta.TableDescriptor{
		Name:    name,
		Indexes: decodeIndexList(cells[columnIndexList].Value),
	}, nil
}

func (s *session) IndexDescriptor(name meta.Name) (meta.IndexDescriptor, error) {
	cells, err := s.readRow(name)
	if err != nil {
		return meta.IndexDescriptor{}, err
	}
	if cells == nil {
		return meta.IndexDescriptor{}, meta.NotFoundError{Name: name}
	}
	return decodeIndexDescriptor(name, cells)
}

func (s *session) IndexAvailable(name meta.Name) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if s.store.closed {
		return false, errStoreClosed
	}
	return s.store.indexAvailableWithLock(name), nil
}

func (s *session) UpdateIndexState(t meta.StateTransition) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cells, err := s.store.readRowWithLock(t.Index)
	if err != nil {
		return err
	}
	if cells == nil {
		return meta.NotFoundError{Name: t.Index}
	}

	current, err := meta.ParseIndexState(cells[meta.ColumnIndexState].Value)
	if err != nil {
		return err
	}
	if current != t.From || !meta.CanTransition(t.From, t.To) {
		return meta.InvalidTransitionError{Index: t.Index, From: current, To: t.To}
	}

	now := xtime.ToUnixNano(s.store.nowFn())
	cells[meta.ColumnIndexState] = meta.Cell{Value: t.To.Serialized(), Timestamp: now}
	if t.DisableTime != nil {
		cells[meta.ColumnIndexDisableTime] = meta.Cell{
			Value:     meta.EncodeTimestampValue(*t.DisableTime),
			Timestamp: now,
		}
	}
	if t.ClearAsyncRebuild {
		cells[meta.ColumnAsyncRebuildTime] = meta.Cell{
			Value:     meta.EncodeTimestampValue(0),
			Timestamp: now,
		}
	}
	return s.store.writeRowWithLock(t.Index, cells)
}

func (s *session) CompareAndSetDisableTime(name meta.Name, expect, value xtime.UnixNano) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	cells, err := s.store.readRowWithLock(name)
	if err != nil {
		return false, err
	}
	if cells == nil {
		return false, meta.NotFoundError{Name: name}
	}

	var current xtime.UnixNano
	if cell, ok := cells[meta.ColumnIndexDisableTime]; ok && len(cell.Value) > 0 {
		current, err = meta.DecodeTimestampValue(cell.Value)
		if err != nil {
			return false, err
		}
	}
	if current != expect {
		return false, nil
	}

	cells[meta.ColumnIndexDisableTime] = meta.Cell{
		Value:     meta.EncodeTimestampValue(value),
		Timestamp: xtime.ToUnixNano(s.store.nowFn()),
	}
	if err := s.store.writeRowWithLock(name, cells); err != nil {
		return false, err
	}
	return true, nil
}

// InvalidateCache is a no-op: the embedded store has no metadata cache.
func (s *session) InvalidateCache(name meta.Name) {}

func (s *session) Finalize() {}

// readRow reads a full row with bounded retries. A missing row returns
// nil cells without error so absence is never retried.
func (s *session) readRow(name meta.Name) (map[string]meta.Cell, error) {
	var cells map[string]meta.Cell
	err := s.retrier.Attempt(func() error {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		var err error
		cells, err = s.store.readRowWithLock(name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}

func decodeIndexDescriptor(name meta.Name, cells map[string]meta.Cell) (meta.IndexDescriptor, error) {
	desc := meta.IndexDescriptor{Name: name}

	state, err := meta.ParseIndexState(cells[meta.ColumnIndexState].Value)
	if err != nil {
		return meta.IndexDescriptor{}, err
	}
	desc.State = state

	if cell, ok := cells[meta.ColumnDataTableName]; ok {
		desc.DataTable = meta.Name{Schema: name.Schema, Table: string(cell.Value)}
	}
	if cell, ok := cells[meta.ColumnIndexDisableTime]; ok && len(cell.Value) > 0 {
		if desc.DisableTime, err = meta.DecodeTimestampValue(cell.Value); err != nil {
			return meta.IndexDescriptor{}, err
		}
	}
	if cell, ok := cells[meta.ColumnAsyncRebuildTime]; ok && len(cell.Value) > 0 {
		if desc.AsyncRebuildTime, err = meta.DecodeTimestampValue(cell.Value); err != nil {
			return meta.IndexDescriptor{}, err
		}
	}
	return desc, nil
}
