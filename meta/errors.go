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

package meta

import "fmt"

// NotFoundError is returned by guarded writes and descriptor reads when
// the target metadata row does not exist.
type NotFoundError struct {
	Name Name
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("metadata row not found for %s", e.Name)
}

// IsNotFound returns whether the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(NotFoundError)
	return ok
}

// InvalidTransitionError is returned by the guarded write path when the
// attempted index state transition is not in the legal transition set.
type InvalidTransitionError struct {
	Index Name
	From  IndexState
	To    IndexState
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid index state transition for %s: currentState=%s requestedState=%s",
		e.Index, e.From, e.To)
}

// IsInvalidTransition returns whether the error is an
// InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	_, ok := err.(InvalidTransitionError)
	return ok
}
