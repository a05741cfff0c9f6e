/* Copyright (C) 2026 Philipp Benner
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package column

/* -------------------------------------------------------------------------- */

// Random access to a column of fixed-width little endian numbers stored
// contiguously in a file. Single items are served from a small window
// buffer, so that the last steps of a binary search do not hit the file.
// Range reads larger than the window bypass the buffer.

/* -------------------------------------------------------------------------- */

import "encoding/binary"
import "fmt"
import "io"
import "math"
import "sort"

/* -------------------------------------------------------------------------- */

const ItemSize = 8

/* -------------------------------------------------------------------------- */

type Reader struct {
  reader     io.ReaderAt
  offset     int64
  length     int
  // index of the first buffered item
  position   int
  // number of valid items in the buffer
  bufsize    int
  buffer   []byte
}

/* -------------------------------------------------------------------------- */

// Create a reader for a column of length items starting at byte offset.
// The window buffer holds bufsize items.
func New(reader io.ReaderAt, offset int64, length, bufsize int) (*Reader, error) {
  if bufsize <= 0 {
    return nil, fmt.Errorf("invalid buffer size")
  }
  if length < 0 || offset < 0 {
    return nil, fmt.Errorf("invalid column geometry")
  }
  return &Reader{reader, offset, length, 0, 0, make([]byte, bufsize*ItemSize)}, nil
}

/* -------------------------------------------------------------------------- */

func (r *Reader) Len() int {
  return r.length
}

func (r *Reader) readAt(p []byte, i int) error {
  n, err := r.reader.ReadAt(p, r.offset + int64(i)*ItemSize)
  if n == len(p) {
    return nil
  }
  if err == nil || err == io.EOF {
    err = io.ErrUnexpectedEOF
  }
  return err
}

// Load a window of the column that is centered at item i.
func (r *Reader) fillBuffer(i int) error {
  m    := len(r.buffer)/ItemSize
  from := i - m/2
  if from + m > r.length {
    from = r.length - m
  }
  if from < 0 {
    from = 0
  }
  n := m
  if from + n > r.length {
    n = r.length - from
  }
  if err := r.readAt(r.buffer[0:n*ItemSize], from); err != nil {
    r.bufsize = 0
    return err
  }
  r.position = from
  r.bufsize  = n
  return nil
}

func (r *Reader) item(i int) ([]byte, error) {
  if i < 0 || i >= r.length {
    return nil, fmt.Errorf("index %d out of range [0, %d)", i, r.length)
  }
  if i < r.position || i >= r.position + r.bufsize {
    if err := r.fillBuffer(i); err != nil {
      return nil, err
    }
  }
  k := (i - r.position)*ItemSize
  return r.buffer[k:k+ItemSize], nil
}

/* -------------------------------------------------------------------------- */

func (r *Reader) Int64(i int) (int64, error) {
  if b, err := r.item(i); err != nil {
    return 0, err
  } else {
    return int64(binary.LittleEndian.Uint64(b)), nil
  }
}

func (r *Reader) Float64(i int) (float64, error) {
  if b, err := r.item(i); err != nil {
    return 0, err
  } else {
    return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
  }
}

/* -------------------------------------------------------------------------- */

func (r *Reader) readRange(from, to int) ([]byte, error) {
  if from < 0 {
    from = 0
  }
  if to > r.length {
    to = r.length
  }
  if from >= to {
    return nil, nil
  }
  if from >= r.position && to <= r.position + r.bufsize {
    // range is buffered
    b := make([]byte, (to-from)*ItemSize)
    copy(b, r.buffer[(from-r.position)*ItemSize:(to-r.position)*ItemSize])
    return b, nil
  }
  b := make([]byte, (to-from)*ItemSize)
  if err := r.readAt(b, from); err != nil {
    return nil, err
  }
  return b, nil
}

// Read items [from, to) as integers, taking every step-th item. The range
// is clipped to the column.
func (r *Reader) Ints(from, to, step int) ([]int, error) {
  if step <= 0 {
    return nil, fmt.Errorf("invalid step size")
  }
  b, err := r.readRange(from, to)
  if err != nil {
    return nil, err
  }
  n := len(b)/ItemSize
  x := make([]int, 0, (n+step-1)/step)
  for i := 0; i < n; i += step {
    x = append(x, int(int64(binary.LittleEndian.Uint64(b[i*ItemSize:]))))
  }
  return x, nil
}

func (r *Reader) Float64s(from, to, step int) ([]float64, error) {
  if step <= 0 {
    return nil, fmt.Errorf("invalid step size")
  }
  b, err := r.readRange(from, to)
  if err != nil {
    return nil, err
  }
  n := len(b)/ItemSize
  x := make([]float64, 0, (n+step-1)/step)
  for i := 0; i < n; i += step {
    x = append(x, math.Float64frombits(binary.LittleEndian.Uint64(b[i*ItemSize:])))
  }
  return x, nil
}

/* -------------------------------------------------------------------------- */

// Index of the first item that is greater or equal to value (leftmost
// insertion point). The column must be sorted in increasing order.
func (r *Reader) Search(value int64) (int, error) {
  var err error
  i := sort.Search(r.length, func(i int) bool {
    if err != nil {
      return true
    }
    v, e := r.Int64(i)
    if e != nil {
      err = e
      return true
    }
    return v >= value
  })
  return i, err
}
