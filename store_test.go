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

import   "errors"
import   "os"
import   "path/filepath"
import   "reflect"
import   "runtime"
import   "testing"

import   "github.com/google/uuid"

/* -------------------------------------------------------------------------- */

const testInput = "testdata/test-store-input.txt"

func buildTestStore(t *testing.T, config StoreConfig) string {
  path := filepath.Join(t.TempDir(), "test.gtx")
  if _, err := Build(testInput, path, config); err != nil {
    t.Fatal(err)
  }
  return path
}

func openTestStore(t *testing.T) *Store {
  config := DefaultStoreConfig()
  store, err := OpenStore(buildTestStore(t, config), config)
  if err != nil {
    t.Fatal(err)
  }
  t.Cleanup(func() { store.Close() })
  return store
}

/* -------------------------------------------------------------------------- */

func TestStoreLabels(t *testing.T) {
  store := openTestStore(t)

  labels, err := store.Labels()
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(labels, []string{"chr1", "chr2", "chr3"}) {
    t.Errorf("TestStoreLabels failed: %v", labels)
  }
  // callers must not be able to modify the cache
  labels[0] = "chrX"
  if labels, _ := store.Labels(); labels[0] != "chr1" {
    t.Error("TestStoreLabels failed")
  }
}

func TestStoreTable(t *testing.T) {
  store := openTestStore(t)

  table, err := store.Table("chr1")
  if err != nil {
    t.Fatal(err)
  }
  if table.Length() != 41 || table.MinPosition() != 146 || table.MaxPosition() != 950 {
    t.Errorf("TestStoreTable failed: %d %d %d", table.Length(), table.MinPosition(), table.MaxPosition())
  }
  positions := []int{146, 254, 319, 328, 330, 339, 341, 342, 345, 362}
  for i, p := range positions {
    if v, err := table.Position(i); err != nil || v != p {
      t.Errorf("TestStoreTable failed at index %d: %d %v", i, v, err)
    }
  }
  var notFound *NotFoundError
  if _, err := store.Table("chrX"); !errors.As(err, &notFound) {
    t.Errorf("TestStoreTable failed: %v", err)
  }
}

func TestStoreIndices(t *testing.T) {
  store := openTestStore(t)

  if i, j, err := store.Indices("chr1", 400, 600); err != nil {
    t.Fatal(err)
  } else if i != 20 || j != 31 {
    t.Errorf("TestStoreIndices failed: (%d, %d)", i, j)
  }
  // leftmost insertion point on existing positions
  if i, j, err := store.Indices("chr1", 146, 402); err != nil {
    t.Fatal(err)
  } else if i != 0 || j != 20 {
    t.Errorf("TestStoreIndices failed: (%d, %d)", i, j)
  }
  if i, j, err := store.Indices("chr1", 10000, 20000); err != nil {
    t.Fatal(err)
  } else if i != 41 || j != 41 {
    t.Errorf("TestStoreIndices failed: (%d, %d)", i, j)
  }
}

func TestStoreQuery(t *testing.T) {
  store := openTestStore(t)

  r, err := store.Query("chr1", 400, 600, 0)
  if err != nil {
    t.Fatal(err)
  }
  positions := []int{402, 403, 411, 419, 427, 432, 434, 443, 587, 593, 596}
  forward   := []float64{0, 1, 0, 0, 0, 2, 1, 0, 0, 0, 1}
  reverse   := []float64{3, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0}
  combined  := []float64{3, 1, 1, 1, 1, 2, 1, 1, 1, 1, 1}

  if !reflect.DeepEqual(r.Positions, positions) {
    t.Errorf("TestStoreQuery failed: %v", r.Positions)
  }
  if !reflect.DeepEqual(r.Forward, forward) {
    t.Errorf("TestStoreQuery failed: %v", r.Forward)
  }
  if !reflect.DeepEqual(r.Reverse, reverse) {
    t.Errorf("TestStoreQuery failed: %v", r.Reverse)
  }
  if !reflect.DeepEqual(r.Combined, combined) || !reflect.DeepEqual(r.Values('*'), combined) {
    t.Errorf("TestStoreQuery failed: %v", r.Combined)
  }
  if r.From != 20 || r.To != 31 || r.Start != 400 || r.End != 600 || r.Label != "chr1" {
    t.Errorf("TestStoreQuery failed: %+v", r)
  }
  // first ten records
  r, err = store.Query("chr1", 0, 363, 0)
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r.Forward, []float64{0, 0, 0, 0, 0, 0, 1, 1, 0, 1}) {
    t.Errorf("TestStoreQuery failed: %v", r.Forward)
  }
  if !reflect.DeepEqual(r.Reverse, []float64{1, 3, 1, 1, 1, 1, 0, 0, 1, 0}) {
    t.Errorf("TestStoreQuery failed: %v", r.Reverse)
  }
}

func TestStoreQueryPad(t *testing.T) {
  store := openTestStore(t)

  r, err := store.Query("chr1", 420, 440, 10)
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r.Positions, []int{411, 419, 427, 432, 434, 443}) {
    t.Errorf("TestStoreQueryPad failed: %v", r.Positions)
  }
  // empty ranges are not an error
  r, err = store.Query("chr1", 2000, 3000, 0)
  if err != nil {
    t.Fatal(err)
  }
  if r.Len() != 0 || len(r.Forward) != 0 || len(r.Combined) != 0 {
    t.Errorf("TestStoreQueryPad failed: %+v", r)
  }
  r, err = store.Query("chr1", 500, 400, 0)
  if err != nil || r.Len() != 0 {
    t.Errorf("TestStoreQueryPad failed: %+v %v", r, err)
  }
}

func TestStoreRoundTrip(t *testing.T) {
  store := openTestStore(t)

  r, err := store.Query("chr2", -1<<40, 1<<40, 0)
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r.Positions, []int{10, 20, 35, 1000, 1010, 1020}) {
    t.Errorf("TestStoreRoundTrip failed: %v", r.Positions)
  }
  if !reflect.DeepEqual(r.Forward, []float64{1, 0, 1, 4, 2, 0}) {
    t.Errorf("TestStoreRoundTrip failed: %v", r.Forward)
  }
  if !reflect.DeepEqual(r.Reverse, []float64{0, 2, 1, 1, 2, 1}) {
    t.Errorf("TestStoreRoundTrip failed: %v", r.Reverse)
  }
  if !reflect.DeepEqual(r.Combined, []float64{1, 2, 2, 5, 4, 1}) {
    t.Errorf("TestStoreRoundTrip failed: %v", r.Combined)
  }
}

func TestStoreIdempotence(t *testing.T) {
  config := DefaultStoreConfig()
  path   := buildTestStore(t, config)

  results := []QueryResult{}
  for i := 0; i < 2; i++ {
    store, err := OpenStore(path, config)
    if err != nil {
      t.Fatal(err)
    }
    r, err := store.Query("chr1", 300, 700, 20)
    if err != nil {
      t.Fatal(err)
    }
    results = append(results, r)
    store.Close()
  }
  if !reflect.DeepEqual(results[0], results[1]) {
    t.Error("TestStoreIdempotence failed")
  }
}

func TestStoreChunks(t *testing.T) {
  store := openTestStore(t)

  positions := []int{}
  chunks    := 0
  for it := store.Chunks("chr1", 10, 1); it.Ok(); it.Next() {
    positions = append(positions, it.Get().Positions...)
    chunks++
  }
  if chunks != 5 || len(positions) != 41 || positions[0] != 146 || positions[40] != 950 {
    t.Errorf("TestStoreChunks failed: %d chunks, %d positions", chunks, len(positions))
  }
  // every second record of each window
  positions = positions[:0]
  for it := store.Chunks("chr1", 10, 2); it.Ok(); it.Next() {
    positions = append(positions, it.Get().Positions...)
  }
  if len(positions) != 21 || positions[1] != 319 {
    t.Errorf("TestStoreChunks failed: %v", positions)
  }
  // restartable
  if it := store.Chunks("chr1", 100, 1); !it.Ok() || it.Get().Len() != 41 {
    t.Error("TestStoreChunks failed")
  }
  var configError *ConfigError
  if it := store.Chunks("chr1", 0, 1); it.Ok() || !errors.As(it.Err(), &configError) {
    t.Error("TestStoreChunks failed")
  }
  var notFound *NotFoundError
  if it := store.Chunks("chrX", 10, 1); it.Ok() || !errors.As(it.Err(), &notFound) {
    t.Error("TestStoreChunks failed")
  }
}

func TestStoreClose(t *testing.T) {
  config := DefaultStoreConfig()
  store, err := OpenStore(buildTestStore(t, config), config)
  if err != nil {
    t.Fatal(err)
  }
  table, err := store.Table("chr1")
  if err != nil {
    t.Fatal(err)
  }
  if err := store.Close(); err != nil {
    t.Fatal(err)
  }
  if err := store.Close(); err != nil {
    t.Errorf("TestStoreClose failed: %v", err)
  }
  var closed *ClosedError
  if _, err := store.Labels(); !errors.As(err, &closed) {
    t.Errorf("TestStoreClose failed: %v", err)
  }
  if _, err := store.Query("chr1", 0, 100, 0); !errors.As(err, &closed) {
    t.Errorf("TestStoreClose failed: %v", err)
  }
  if _, _, err := table.Indices(0, 100); !errors.As(err, &closed) {
    t.Errorf("TestStoreClose failed: %v", err)
  }
}

func TestStoreTableOutlivesStore(t *testing.T) {
  config := DefaultStoreConfig()
  path   := buildTestStore(t, config)

  table := func() *Table {
    store, err := OpenStore(path, config)
    if err != nil {
      t.Fatal(err)
    }
    table, err := store.Table("chr1")
    if err != nil {
      t.Fatal(err)
    }
    return table
  }()
  // the store is unreachable, the table keeps the file open
  runtime.GC()
  runtime.GC()
  if i, j, err := table.Indices(400, 600); err != nil || i != 20 || j != 31 {
    t.Errorf("TestStoreTableOutlivesStore failed: %d %d %v", i, j, err)
  }
}

func TestStoreOpenErrors(t *testing.T) {
  config := DefaultStoreConfig()
  dir    := t.TempDir()

  var notFound *NotFoundError
  if _, err := OpenStore(filepath.Join(dir, "missing.gtx"), config); !errors.As(err, &notFound) {
    t.Errorf("TestStoreOpenErrors failed: %v", err)
  }
  var ioError *IOError
  corrupt := filepath.Join(dir, "corrupt.gtx")
  if err := os.WriteFile(corrupt, []byte("this is not a store"), 0666); err != nil {
    t.Fatal(err)
  }
  if _, err := OpenStore(corrupt, config); !errors.As(err, &ioError) || ioError.Path != corrupt {
    t.Errorf("TestStoreOpenErrors failed: %v", err)
  }
  // truncated store
  path := buildTestStore(t, config)
  data, err := os.ReadFile(path)
  if err != nil {
    t.Fatal(err)
  }
  truncated := filepath.Join(dir, "truncated.gtx")
  if err := os.WriteFile(truncated, data[0:len(data)/2], 0666); err != nil {
    t.Fatal(err)
  }
  if _, err := OpenStore(truncated, config); !errors.As(err, &ioError) {
    t.Errorf("TestStoreOpenErrors failed: %v", err)
  }
  // table count far beyond the size of the directory
  count := make([]byte, len(data))
  copy(count, data)
  copy(count[8:12], []byte{0xff, 0xff, 0xff, 0xff})
  oversized := filepath.Join(dir, "oversized.gtx")
  if err := os.WriteFile(oversized, count, 0666); err != nil {
    t.Fatal(err)
  }
  if _, err := OpenStore(oversized, config); !errors.As(err, &ioError) || ioError.Path != oversized {
    t.Errorf("TestStoreOpenErrors failed: %v", err)
  }
}

func TestStoreUnsortedColumn(t *testing.T) {
  config := DefaultStoreConfig()
  path   := buildTestStore(t, config)

  // overwrite the first position of the first table
  f, err := os.OpenFile(path, os.O_RDWR, 0666)
  if err != nil {
    t.Fatal(err)
  }
  if _, err := f.WriteAt([]byte{0x0f, 0x27, 0, 0, 0, 0, 0, 0}, (&StoreHeader{}).Size()); err != nil {
    t.Fatal(err)
  }
  f.Close()

  store, err := OpenStore(path, config)
  if err != nil {
    t.Fatal(err)
  }
  defer store.Close()

  var unsorted *UnsortedInputError
  if _, _, err := store.Indices("chr1", 400, 600); !errors.As(err, &unsorted) {
    t.Errorf("TestStoreUnsortedColumn failed: %v", err)
  } else if unsorted.Label != "chr1" || unsorted.Position != 9999 {
    t.Errorf("TestStoreUnsortedColumn failed: %v", err)
  }
  // other tables are not affected
  if _, _, err := store.Indices("chr2", 0, 100); err != nil {
    t.Errorf("TestStoreUnsortedColumn failed: %v", err)
  }
}

func TestStoreSummary(t *testing.T) {
  store := openTestStore(t)

  summary, err := store.Summary()
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(summary.Lengths, []int{41, 6, 3}) {
    t.Errorf("TestStoreSummary failed: %v", summary.Lengths)
  }
  if !reflect.DeepEqual(summary.MinPositions, []int{146, 10, 5}) ||
    (!reflect.DeepEqual(summary.MaxPositions, []int{950, 1020, 5000})) {
    t.Errorf("TestStoreSummary failed: %+v", summary)
  }
  if store.Id() == uuid.Nil {
    t.Error("TestStoreSummary failed: store has no id")
  }
}
