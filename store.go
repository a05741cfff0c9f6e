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

import "bytes"
import "errors"
import "fmt"
import "io/fs"
import "os"
import "runtime"
import "time"

import "github.com/google/uuid"

/* -------------------------------------------------------------------------- */

// Shared by a store and its tables. The file is released by a finalizer
// once neither the store nor any of its tables is reachable. Tables must
// not refer to the store itself, a cycle through a finalized object is
// never collected.
type storeHandle struct {
  path    string
  file   *os.File
  closed  bool
}

func newStoreHandle(path string, file *os.File) *storeHandle {
  handle := &storeHandle{path: path, file: file}
  runtime.SetFinalizer(handle, func(h *storeHandle) { h.close() })
  return handle
}

func (handle *storeHandle) close() error {
  if handle.closed {
    return nil
  }
  handle.closed = true
  runtime.SetFinalizer(handle, nil)
  if err := handle.file.Close(); err != nil {
    return &IOError{Path: handle.path, Err: err}
  }
  return nil
}

// Read-only view of a store container. A store is not safe for concurrent
// use, concurrent readers should open the container independently.
type Store struct {
  *storeHandle
  config      StoreConfig
  header      StoreHeader
  directory []StoreDirectoryEntry
  index       map[string]int
  tables      map[string]*Table
  labels    []string
}

/* -------------------------------------------------------------------------- */

func OpenStore(path string, config StoreConfig) (*Store, error) {
  if err := config.Validate(); err != nil {
    return nil, err
  }
  if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
    return nil, &NotFoundError{What: "store", Name: path}
  }
  f, err := os.Open(path)
  if err != nil {
    return nil, &IOError{Path: path, Err: err}
  }
  header, directory, err := readStoreIndex(f)
  if err != nil {
    f.Close()
    return nil, &IOError{Path: path, Err: err}
  }
  index := make(map[string]int)
  for i, entry := range directory {
    if _, ok := index[entry.Label]; ok {
      f.Close()
      return nil, &IOError{Path: path, Err: fmt.Errorf("table `%s' appears twice", entry.Label)}
    }
    index[entry.Label] = i
  }
  store := &Store{
    storeHandle: newStoreHandle(path, f),
    config     : config,
    header     : header,
    directory  : directory,
    index      : index,
    tables     : make(map[string]*Table) }
  return store, nil
}

/* -------------------------------------------------------------------------- */

func (store *Store) Path() string {
  return store.path
}

func (store *Store) Id() uuid.UUID {
  return store.header.Uuid()
}

func (store *Store) Created() time.Time {
  return time.Unix(store.header.Created, 0)
}

// Chromosome labels in natural order (chr2 before chr10), or in build
// order if natural sorting is disabled.
func (store *Store) Labels() ([]string, error) {
  if store.closed {
    return nil, &ClosedError{Path: store.path}
  }
  if store.labels == nil {
    labels := make([]string, len(store.directory))
    for i, entry := range store.directory {
      labels[i] = entry.Label
    }
    if store.config.NaturalSort {
      NaturalSort(labels)
    }
    store.labels = labels
  }
  r := make([]string, len(store.labels))
  copy(r, store.labels)
  return r, nil
}

func (store *Store) Table(label string) (*Table, error) {
  if store.closed {
    return nil, &ClosedError{Path: store.path}
  }
  if table, ok := store.tables[label]; ok {
    return table, nil
  }
  i, ok := store.index[label]
  if !ok {
    return nil, &NotFoundError{What: "label", Name: label}
  }
  table, err := newTable(store.storeHandle, store.directory[i], store.config.ColumnBuffer)
  if err != nil {
    return nil, &IOError{Path: store.path, Err: err}
  }
  store.tables[label] = table
  return table, nil
}

// Array indices of the first positions greater or equal to start and
// end respectively.
func (store *Store) Indices(label string, start, end int) (int, int, error) {
  table, err := store.Table(label)
  if err != nil {
    return 0, 0, err
  }
  return table.Indices(start, end)
}

// All records with positions in [start-pad, end+pad). An empty range is
// not an error.
func (store *Store) Query(label string, start, end, pad int) (QueryResult, error) {
  table, err := store.Table(label)
  if err != nil {
    return QueryResult{}, err
  }
  from, to, err := table.Indices(start-pad, end+pad)
  if err != nil {
    return QueryResult{}, err
  }
  r, err := table.Slice(from, to, 1)
  if err != nil {
    return QueryResult{}, err
  }
  r.Start = start
  r.End   = end
  return r, nil
}

// Iterate over the table in windows of size records. Within a window
// every step-th record is returned.
func (store *Store) Chunks(label string, size, step int) *ChunkIterator {
  it := &ChunkIterator{size: size, step: step}
  if size <= 0 {
    it.err = &ConfigError{Field: "size", Reason: "chunk size must be positive"}
    return it
  }
  if step <= 0 {
    it.err = &ConfigError{Field: "step", Reason: "step size must be positive"}
    return it
  }
  it.table, it.err = store.Table(label)
  if it.err == nil {
    it.read()
  }
  return it
}

// Release the file handle. Any further operation fails with a
// ClosedError, closing twice is a no-op.
func (store *Store) Close() error {
  if store.closed {
    return nil
  }
  store.tables = nil
  return store.close()
}

/* -------------------------------------------------------------------------- */

type QueryResult struct {
  Label     string
  // queried coordinates
  Start     int
  End       int
  // array indices of the returned records
  From      int
  To        int
  Positions []int
  Forward   []float64
  Reverse   []float64
  Combined  []float64
}

func (r QueryResult) Len() int {
  return len(r.Positions)
}

// Values of the given strand, `+' forward, `-' reverse, otherwise the
// combined column.
func (r QueryResult) Values(strand byte) []float64 {
  switch strand {
  case '+':
    return r.Forward
  case '-':
    return r.Reverse
  default:
    return r.Combined
  }
}

/* -------------------------------------------------------------------------- */

type ChunkIterator struct {
  table *Table
  size   int
  step   int
  from   int
  chunk  QueryResult
  ok     bool
  err    error
}

func (it *ChunkIterator) read() {
  it.chunk, it.err = it.table.Slice(it.from, it.from+it.size, it.step)
  it.ok = it.err == nil && it.chunk.Len() > 0
}

func (it *ChunkIterator) Ok() bool {
  return it.ok
}

func (it *ChunkIterator) Get() QueryResult {
  return it.chunk
}

func (it *ChunkIterator) Next() {
  if !it.ok {
    return
  }
  it.from += it.size
  it.read()
}

func (it *ChunkIterator) Err() error {
  return it.err
}

/* -------------------------------------------------------------------------- */

type StoreSummary struct {
  Labels       []string
  Lengths      []int
  MinPositions []int
  MaxPositions []int
}

func (store *Store) Summary() (StoreSummary, error) {
  labels, err := store.Labels()
  if err != nil {
    return StoreSummary{}, err
  }
  summary := StoreSummary{Labels: labels}
  for _, label := range labels {
    entry := store.directory[store.index[label]]
    summary.Lengths      = append(summary.Lengths,      int(entry.Length))
    summary.MinPositions = append(summary.MinPositions, int(entry.MinPosition))
    summary.MaxPositions = append(summary.MaxPositions, int(entry.MaxPosition))
  }
  return summary, nil
}

func (summary StoreSummary) String() string {
  var buffer bytes.Buffer

  buffer.WriteString(
    fmt.Sprintf("%10s %12s %12s %12s", "labels", "records", "from", "to"))
  for i := range summary.Labels {
    buffer.WriteString(
      fmt.Sprintf("\n%10s %12d %12d %12d",
        summary.Labels      [i],
        summary.Lengths     [i],
        summary.MinPositions[i],
        summary.MaxPositions[i]))
  }
  return buffer.String()
}
