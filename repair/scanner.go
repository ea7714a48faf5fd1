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
	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

// candidate is one index row that survived the scan skip rules.
type candidate struct {
	index         meta.Name
	dataTable     meta.Name
	state         meta.IndexState
	disableTime   xtime.UnixNano
	stateModified xtime.UnixNano
}

// scanCandidates drains the metadata scanner, decoding each row into a
// repair candidate and applying the skip rules for malformed or
// ineligible rows.
func (c *repairCycle) scanCandidates(iter meta.RowIter) ([]candidate, error) {
	var candidates []candidate
	for iter.Next() {
		if cand, ok := c.decodeCandidate(iter.Current()); ok {
			candidates = append(candidates, cand)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}

func (c *repairCycle) decodeCandidate(row meta.Row) (candidate, bool) {
	var cand candidate

	disableCell, hasDisable := row.Cell(meta.ColumnIndexDisableTime)
	if !hasDisable || len(disableCell.Value) == 0 {
		return cand, false
	}

	stateCell, hasState := row.Cell(meta.ColumnIndexState)
	var state meta.IndexState
	if hasState && len(stateCell.Value) > 0 {
		parsed, err := meta.ParseIndexState(stateCell.Value)
		if err != nil {
			c.metrics.candidatesSkipped.Inc(1)
			c.logger.Debugf("index rebuild skipped for row %q: %v", row.Key(), err)
			return cand, false
		}
		state = parsed
	}
	if state == meta.StateBuilding {
		// Marked for async initial population, owned by that process.
		return cand, false
	}

	disableTime, err := meta.DecodeTimestampValue(disableCell.Value)
	if err != nil {
		c.metrics.candidatesSkipped.Inc(1)
		c.logger.Debugf("index rebuild skipped for row %q: %v", row.Key(), err)
		return cand, false
	}
	if disableTime <= 0 {
		return cand, false
	}

	dataTableCell, hasDataTable := row.Cell(meta.ColumnDataTableName)
	if !hasDataTable || len(dataTableCell.Value) == 0 ||
		!hasState || len(stateCell.Value) == 0 {
		// Data table name and state can't be empty.
		c.metrics.candidatesSkipped.Inc(1)
		return cand, false
	}

	name, err := meta.DecodeRowKey(row.Key())
	if err != nil {
		c.metrics.candidatesSkipped.Inc(1)
		c.logger.Debugf("index rebuild skipped for row %q: %v", row.Key(), err)
		return cand, false
	}

	cand = candidate{
		index:         name,
		dataTable:     meta.Name{Schema: name.Schema, Table: string(dataTableCell.Value)},
		state:         state,
		disableTime:   disableTime,
		stateModified: stateCell.Timestamp,
	}
	return cand, true
}
