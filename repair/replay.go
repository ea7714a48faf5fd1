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

	"github.com/vireodb/indexrepair/exec"
	"github.com/vireodb/indexrepair/meta"
)

// repairTable replays the merged backlog window of one data table
// through the maintenance codecs of its repairable indexes, then
// advances their state per how much of the backlog was covered.
func (c *repairCycle) repairTable(plan *rebuildPlan, now xtime.UnixNano) error {
	if !plan.finalize() {
		// Every candidate converged through a concurrent writer.
		return nil
	}

	begin := scanBeginTime(plan.earliestDisable, c.opts.BackwardOverlap())
	executed := c.batchCounters[plan.table.Name]
	end := batchEndTime(begin, c.opts.BatchDuration(), executed, c.opts.MaxBatchesPerTable(), now)
	if end > plan.latestUpper {
		end = plan.latestUpper
	}

	maintainers := make([]exec.IndexMaintainer, 0, len(plan.rebuild))
	for _, desc := range plan.rebuild {
		maintainer, err := c.opts.ExecEngine().Maintainer(plan.table, desc)
		if err != nil {
			return err
		}
		maintainers = append(maintainers, maintainer)
	}

	c.logger.Infof("starting to build table %s indexes %s from timestamp=%d until=%d",
		plan.table.Name.String(), indexTableNames(maintainers), begin, end)

	replay, err := c.opts.ExecEngine().CompileReplay(exec.ScanSpec{
		Table:             plan.table.Name,
		Range:             meta.TimeRange{Start: begin, End: end},
		RebuildIndexes:    true,
		Maintainers:       maintainers,
		DisableBlockCache: true,
	})
	if err != nil {
		return err
	}

	rows, err := replay.Execute()
	if err != nil {
		return err
	}
	c.metrics.rowsReplayed.Inc(rows)
	c.logger.Infof("rebuilt indexes %s of table %s, replayed %d rows",
		indexTableNames(maintainers), plan.table.Name.String(), rows)

	return c.finishTable(plan, end)
}

// indexTableNames reports the index tables the resolved maintainers
// will write to, which may differ in casing or namespace from the
// descriptor names they were compiled from.
func indexTableNames(maintainers []exec.IndexMaintainer) string {
	var s string
	for i, m := range maintainers {
		if i > 0 {
			s += ","
		}
		s += m.IndexTable().String()
	}
	return s
}
