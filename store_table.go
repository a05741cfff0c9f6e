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

package genetrack

/* -------------------------------------------------------------------------- */

import "github.com/pbenner/genetrack/lib/column"

/* -------------------------------------------------------------------------- */

// number of positions checked when a table is used for the first time
const tableSamples = 17

/* -------------------------------------------------------------------------- */

// A chromosome table, i.e. four parallel columns sorted by position. Only
// the accessed parts of a table are read from disk.
type Table struct {
  handle   *storeHandle
  entry     StoreDirectoryEntry
  columns  [storeColumns]*column.Reader
  verified  bool
}

func newTable(handle *storeHandle, entry StoreDirectoryEntry, bufsize int) (*Table, error) {
  table := Table{handle: handle, entry: entry}
  for k := 0; k < storeColumns; k++ {
    // value columns are only read in ranges and need no window buffer
    n := 1
    if k == 0 {
      n = bufsize
    }
    r, err := column.New(handle.file, entry.ColumnOffset(k), int(entry.Length), n)
    if err != nil {
      return nil, err
    }
    table.columns[k] = r
  }
  return &table, nil
}

/* -------------------------------------------------------------------------- */

func (table *Table) Label() string {
  return table.entry.Label
}

func (table *Table) Length() int {
  return int(table.entry.Length)
}

func (table *Table) MinPosition() int {
  return int(table.entry.MinPosition)
}

func (table *Table) MaxPosition() int {
  return int(table.entry.MaxPosition)
}

func (table *Table) check() error {
  if table.handle.closed {
    return &ClosedError{Path: table.handle.path}
  }
  if !table.verified {
    if err := table.verify(); err != nil {
      return err
    }
    table.verified = true
  }
  return nil
}

// Spot check the position column against the directory summary, binary
// search silently fails on unsorted columns.
func (table *Table) verify() error {
  n := table.Length()
  if n == 0 {
    return nil
  }
  k := iMin(n, tableSamples)
  previous := int64(0)
  for j := 0; j < k; j++ {
    i := 0
    if k > 1 {
      i = j*(n-1)/(k-1)
    }
    v, err := table.columns[0].Int64(i)
    if err != nil {
      return &IOError{Path: table.handle.path, Err: err}
    }
    if j > 0 && v < previous {
      return table.unsorted(int(v), int(previous))
    }
    if i == 0 && v != table.entry.MinPosition {
      return table.unsorted(int(v), int(table.entry.MinPosition))
    }
    if i == n-1 && v != table.entry.MaxPosition {
      return table.unsorted(int(table.entry.MaxPosition), int(v))
    }
    previous = v
  }
  return nil
}

func (table *Table) unsorted(position, previous int) error {
  return &UnsortedInputError{
    Path    : table.handle.path,
    Label   : table.entry.Label,
    Position: position,
    Previous: previous }
}

/* -------------------------------------------------------------------------- */

func (table *Table) Position(i int) (int, error) {
  if err := table.check(); err != nil {
    return 0, err
  }
  v, err := table.columns[0].Int64(i)
  if err != nil {
    return 0, &IOError{Path: table.handle.path, Err: err}
  }
  return int(v), nil
}

// Leftmost insertion points of start and end in the position column.
func (table *Table) Indices(start, end int) (int, int, error) {
  if err := table.check(); err != nil {
    return 0, 0, err
  }
  i, err := table.columns[0].Search(int64(start))
  if err != nil {
    return 0, 0, &IOError{Path: table.handle.path, Err: err}
  }
  j, err := table.columns[0].Search(int64(end))
  if err != nil {
    return 0, 0, &IOError{Path: table.handle.path, Err: err}
  }
  return i, j, nil
}

// Records [from, to) of all four columns, every step-th record is
// returned. The range is clipped to the table.
func (table *Table) Slice(from, to, step int) (QueryResult, error) {
  if err := table.check(); err != nil {
    return QueryResult{}, err
  }
  from = iMax(from, 0)
  to   = iMin(to, table.Length())
  if to < from {
    to = from
  }
  r := QueryResult{Label: table.entry.Label, From: from, To: to}

  var err error
  if r.Positions, err = table.columns[0].Ints(from, to, step); err != nil {
    return QueryResult{}, &IOError{Path: table.handle.path, Err: err}
  }
  for k, dst := range []*[]float64{&r.Forward, &r.Reverse, &r.Combined} {
    if *dst, err = table.columns[k+1].Float64s(from, to, step); err != nil {
      return QueryResult{}, &IOError{Path: table.handle.path, Err: err}
    }
  }
  return r, nil
}
