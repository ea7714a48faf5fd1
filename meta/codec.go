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

import (
	"bytes"
	"encoding/binary"
	"fmt"

	xtime "github.com/m3db/m3x/time"
)

// Row keys are the NUL separated varchar parts of the qualified name,
// byte-stable with existing catalogs.
const rowKeySeparator = byte(0)

// EncodeRowKey encodes the row key for a schema qualified name.
func EncodeRowKey(name Name) []byte {
	key := make([]byte, 0, len(name.Schema)+len(name.Table)+1)
	key = append(key, name.Schema...)
	key = append(key, rowKeySeparator)
	key = append(key, name.Table...)
	return key
}

// DecodeRowKey decodes a row key back into a qualified name.
func DecodeRowKey(key []byte) (Name, error) {
	i := bytes.IndexByte(key, rowKeySeparator)
	if i < 0 {
		return Name{}, fmt.Errorf("malformed metadata row key %q", key)
	}
	name := Name{Schema: string(key[:i]), Table: string(key[i+1:])}
	if name.Table == "" {
		return Name{}, fmt.Errorf("metadata row key %q has empty table name", key)
	}
	return name, nil
}

// EncodeTimestampValue encodes a signed store-native timestamp cell
// value as fixed width big-endian.
func EncodeTimestampValue(ts xtime.UnixNano) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(int64(ts)))
	return b[:]
}

// DecodeTimestampValue decodes a signed store-native timestamp cell
// value.
func DecodeTimestampValue(b []byte) (xtime.UnixNano, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("timestamp cell value has length %d, want 8", len(b))
	}
	return xtime.UnixNano(int64(binary.BigEndian.Uint64(b))), nil
}
