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
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vireodb/indexrepair/exec"
	"github.com/vireodb/indexrepair/meta"
)

func TestOptionsDefaults(t *testing.T) {
	opts := NewOptions()
	assert.True(t, opts.RebuildEnabled())
	assert.False(t, opts.BlockWritesOnFailure())
	assert.Equal(t, 10*time.Second, opts.RepairInterval())
	assert.Equal(t, 10*time.Second, opts.InitialDelay())
	assert.Equal(t, time.Minute, opts.ForwardOverlap())
	assert.Equal(t, time.Millisecond, opts.BackwardOverlap())
	assert.Equal(t, time.Duration(0), opts.BatchDuration())
	assert.Equal(t, int64(10), opts.MaxBatchesPerTable())
	assert.Equal(t, 10*time.Minute, opts.SessionQueryTimeout())
	assert.Equal(t, 5*time.Minute, opts.SessionRPCTimeout())
	assert.Equal(t, 10*time.Minute, opts.SessionScannerTimeout())
	assert.NotNil(t, opts.SessionRetryOptions())
	assert.NotNil(t, opts.ClockOptions())
	assert.NotNil(t, opts.InstrumentOptions())
}

func TestOptionsCopyOnSet(t *testing.T) {
	base := NewOptions()
	modified := base.SetRepairInterval(time.Hour)
	assert.Equal(t, 10*time.Second, base.RepairInterval())
	assert.Equal(t, time.Hour, modified.RepairInterval())
}

func TestOptionsValidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := meta.NewMockClient(ctrl)
	engine := exec.NewMockEngine(ctrl)

	valid := NewOptions().SetMetaClient(client).SetExecEngine(engine)
	require.NoError(t, valid.Validate())

	require.Equal(t, errNoMetaClient,
		NewOptions().SetExecEngine(engine).Validate())
	require.Equal(t, errNoExecEngine,
		NewOptions().SetMetaClient(client).Validate())
	require.Equal(t, errInvalidRepairInterval,
		valid.SetRepairInterval(-time.Second).Validate())
	require.Equal(t, errInvalidInitialDelay,
		valid.SetInitialDelay(-time.Second).Validate())
	require.Equal(t, errInvalidForwardOverlap,
		valid.SetForwardOverlap(-time.Second).Validate())
	require.Equal(t, errInvalidBackwardOverlap,
		valid.SetBackwardOverlap(-time.Second).Validate())
	require.Equal(t, errInvalidBatchDuration,
		valid.SetBatchDuration(-time.Second).Validate())
	require.Equal(t, errInvalidMaxBatchesPerTable,
		valid.SetMaxBatchesPerTable(0).Validate())
	require.Equal(t, errNoSessionRetryOptions,
		valid.SetSessionRetryOptions(nil).Validate())
	require.Equal(t, errInvalidSessionQueryTimeout,
		valid.SetSessionQueryTimeout(0).Validate())
}
