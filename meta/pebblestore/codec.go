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
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	xtime "github.com/m3db/m3x/time"

	"github.com/vireodb/indexrepair/meta"
)

// Cell values are length prefixed with uvarints and carry the cell
// mutation timestamp inline. Columns are encoded in sorted order so
// encodings of equal rows are byte comparable.

func encodeCells(cells map[string]meta.Cell) []byte {
	columns := make([]string, 0, len(cells))
	for column := range cells {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	var (
		buf     bytes.Buffer
		scratch [binary.MaxVarintLen64]byte
	)
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		buf.Write(scratch[:n])
	}
	putUvarint(uint64(len(columns)))
	for _, column := range columns {
		cell := cells[column]
		putUvarint(uint64(len(column)))
		buf.WriteString(column)
		putUvarint(uint64(len(cell.Value)))
		buf.Write(cell.Value)
		putUvarint(uint64(int64(cell.Timestamp)))
	}
	return buf.Bytes()
}

func decodeCells(b []byte) (map[string]meta.Cell, error) {
	r := bytes.NewReader(b)
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("malformed metadata row value: %v", err)
	}
	cells := make(map[string]meta.Cell, count)
	for i := uint64(0); i < count; i++ {
		column, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		value, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		ts, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("malformed metadata cell timestamp: %v", err)
		}
		cells[string(column)] = meta.Cell{
			Value:     value,
			Timestamp: xtime.UnixNano(int64(ts)),
		}
	}
	return cells, nil
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("malformed metadata cell length: %v", err)
	}
	if n == 0 {
		return nil, nil
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("metadata cell length %d exceeds remaining %d", n, r.Len())
	}
	chunk := make([]byte, n)
	if _, err := r.Read(chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}

// Index membership lists reuse the row key encoding per entry with a
// 0x01 entry separator, both bytes outside the varchar alphabet.
const indexListSeparator = byte(1)

func encodeIndexList(indexes []meta.Name) []byte {
	var buf bytes.Buffer
	for i, name := range indexes {
		if i > 0 {
			buf.WriteByte(indexListSeparator)
		}
		buf.Write(meta.EncodeRowKey(name))
	}
	return buf.Bytes()
}

func decodeIndexList(b []byte) []meta.Name {
	if len(b) == 0 {
		return nil
	}
	var indexes []meta.Name
	for _, entry := range bytes.Split(b, []byte{indexListSeparator}) {
		name, err := meta.DecodeRowKey(entry)
		if err != nil {
			continue
		}
		indexes = append(indexes, name)
	}
	return indexes
}
