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

// finishTable advances index state after a successful replay. Full
// coverage of the merged backlog marks every rebuilt index active,
// partial coverage records how far the rebuild got and charges the
// table's bounded window budget.
func (c *repairCycle) finishTable(plan *rebuildPlan, scanEnd xtime.UnixNano) error {
	converged := scanEnd == plan.latestUpper

	for _, desc := range plan.rebuild {
		if converged {
			if err := c.markActive(desc); err != nil {
				return err
			}
		} else {
			if err := c.markPartial(desc, scanEnd); err != nil {
				return err
			}
		}
		c.session.InvalidateCache(desc.Name)
	}
	c.session.InvalidateCache(plan.table.Name)

	if converged {
		delete(c.batchCounters, plan.table.Name)
	} else {
		c.batchCounters[plan.table.Name]++
	}
	return nil
}

// markActive promotes a fully rebuilt index. The disable timestamp is
// written as its absolute value: a negative value means a fresh failure
// arrived mid-rebuild and must survive as a still-pending signal rather
// than being erased.
func (c *repairCycle) markActive(desc meta.IndexDescriptor) error {
	disableTime := desc.DisableTime
	if disableTime < 0 {
		disableTime = -disableTime
	}
	err := c.session.UpdateIndexState(meta.StateTransition{
		Index:             desc.Name,
		From:              desc.State,
		To:                meta.StateActive,
		DisableTime:       &disableTime,
		ClearAsyncRebuild: true,
	})
	if err != nil {
		return err
	}
	c.logger.Infof("making index %s active after rebuilding", desc.Name.String())
	return nil
}

// markPartial records partial progress: the disable timestamp advances
// to the end of the covered window so the next cycle resumes there. The
// advance is a compare and set so a concurrent failure written while we
// replayed is never clobbered.
func (c *repairCycle) markPartial(desc meta.IndexDescriptor, scanEnd xtime.UnixNano) error {
	applied, err := c.session.CompareAndSetDisableTime(desc.Name, desc.DisableTime, scanEnd)
	if err != nil {
		return err
	}
	if !applied {
		c.logger.Infof("index %s disable timestamp changed during rebuild, will retry next cycle",
			desc.Name.String())
		return nil
	}
	return c.session.UpdateIndexState(meta.StateTransition{
		Index: desc.Name,
		From:  desc.State,
		To:    desc.State,
	})
}
