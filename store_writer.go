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

import "bufio"
import "encoding/binary"
import "fmt"
import "io"
import "math"
import "os"
import "path/filepath"
import "time"

import "github.com/google/uuid"
import "github.com/rs/zerolog"

/* -------------------------------------------------------------------------- */

type Record struct {
  Position int
  Forward  float64
  Reverse  float64
  Combined float64
}

/* -------------------------------------------------------------------------- */

// Columns of the table under construction are spilled to temporary files
// next to the container and concatenated once the table is complete.
type tableWriter struct {
  entry     StoreDirectoryEntry
  buffer  []Record
  spill    [storeColumns]*os.File
  writers  [storeColumns]*bufio.Writer
  tmp     []byte
}

// Single writer for a store container. Tables are created one after
// another, a table is complete as soon as the next one is created.
type StoreWriter struct {
  path      string
  file     *os.File
  config    StoreConfig
  logger    zerolog.Logger
  header    StoreHeader
  offset    int64
  entries []StoreDirectoryEntry
  seen      map[string]bool
  table    *tableWriter
  closed    bool
}

/* -------------------------------------------------------------------------- */

func CreateStore(path string, config StoreConfig) (*StoreWriter, error) {
  if err := config.Validate(); err != nil {
    return nil, err
  }
  f, err := os.Create(path)
  if err != nil {
    return nil, &IOError{Path: path, Err: err}
  }
  writer := StoreWriter{
    path  : path,
    file  : f,
    config: config,
    logger: config.logger(),
    seen  : make(map[string]bool) }
  writer.header.Magic   = STORE_MAGIC
  writer.header.Version = STORE_VERSION
  writer.header.Created = time.Now().Unix()
  writer.header.Id      = uuid.New()
  // placeholder, rewritten on close
  if err := writer.header.Write(f); err != nil {
    f.Close()
    return nil, &IOError{Path: path, Err: err}
  }
  writer.offset = writer.header.Size()
  return &writer, nil
}

/* -------------------------------------------------------------------------- */

func (writer *StoreWriter) Id() uuid.UUID {
  return writer.header.Uuid()
}

// Start a new table. The current table, if any, is completed first.
func (writer *StoreWriter) NewTable(label string) error {
  if writer.closed {
    return &ClosedError{Path: writer.path}
  }
  if err := writer.EndTable(); err != nil {
    return err
  }
  if writer.seen[label] {
    return &UnsortedInputError{Path: writer.path, Label: label, Split: true}
  }
  writer.seen[label] = true

  table := tableWriter{}
  table.entry.Label = label
  table.buffer      = make([]Record, 0, writer.config.ChunkSize)
  table.tmp         = make([]byte, 8)
  dir  := filepath.Dir (writer.path)
  base := filepath.Base(writer.path)
  for k := 0; k < storeColumns; k++ {
    f, err := os.CreateTemp(dir, fmt.Sprintf("%s.col%d.*", base, k))
    if err != nil {
      table.remove()
      return &IOError{Path: writer.path, Err: err}
    }
    table.spill  [k] = f
    table.writers[k] = bufio.NewWriter(f)
  }
  writer.table = &table
  writer.logger.Info().Str("table", label).Msg("creating table")
  return nil
}

// Append a record to the current table. Positions must not decrease.
func (writer *StoreWriter) Append(record Record) error {
  if writer.closed {
    return &ClosedError{Path: writer.path}
  }
  table := writer.table
  if table == nil {
    return fmt.Errorf("no table has been created")
  }
  entry := &table.entry
  if entry.Length > 0 && int64(record.Position) < entry.MaxPosition {
    return &UnsortedInputError{
      Path    : writer.path,
      Label   : entry.Label,
      Position: record.Position,
      Previous: int(entry.MaxPosition) }
  }
  if entry.Length == 0 {
    entry.MinPosition = int64(record.Position)
  }
  entry.MaxPosition = int64(record.Position)
  entry.Length++
  table.buffer = append(table.buffer, record)
  if len(table.buffer) >= writer.config.ChunkSize {
    return writer.Flush()
  }
  return nil
}

// Write buffered records of the current table to its spill files.
func (writer *StoreWriter) Flush() error {
  table := writer.table
  if table == nil || len(table.buffer) == 0 {
    return nil
  }
  if err := table.flush(); err != nil {
    return &IOError{Path: writer.path, Err: err}
  }
  writer.logger.Debug().Str("table", table.entry.Label).Msgf("flushed, table contains %s rows", commify(int(table.entry.Length)))
  return nil
}

// Complete the current table by appending its columns to the container.
func (writer *StoreWriter) EndTable() error {
  table := writer.table
  if table == nil {
    return nil
  }
  writer.table = nil
  defer table.remove()

  if err := table.flush(); err != nil {
    return &IOError{Path: writer.path, Err: err}
  }
  table.entry.Offset = uint64(writer.offset)
  for k := 0; k < storeColumns; k++ {
    if _, err := table.spill[k].Seek(0, io.SeekStart); err != nil {
      return &IOError{Path: writer.path, Err: err}
    }
    n, err := io.Copy(writer.file, table.spill[k])
    if err != nil {
      return &IOError{Path: writer.path, Err: err}
    }
    if n != int64(table.entry.Length)*8 {
      return &IOError{Path: writer.path, Err: fmt.Errorf("column %d of table `%s' is truncated", k, table.entry.Label)}
    }
    writer.offset += n
  }
  writer.entries = append(writer.entries, table.entry)
  writer.logger.Info().Str("table", table.entry.Label).Msgf("table contains %s rows", commify(int(table.entry.Length)))
  return nil
}

// Complete the current table and write the directory. Calling Close more
// than once is a no-op.
func (writer *StoreWriter) Close() error {
  if writer.closed {
    return nil
  }
  err := writer.EndTable()
  writer.closed = true
  if e := writer.finalize(); e != nil && err == nil {
    err = e
  }
  if e := writer.file.Close(); e != nil && err == nil {
    err = &IOError{Path: writer.path, Err: e}
  }
  return err
}

func (writer *StoreWriter) finalize() error {
  w := bufio.NewWriter(writer.file)
  for i := range writer.entries {
    if err := writer.entries[i].Write(w); err != nil {
      return &IOError{Path: writer.path, Err: err}
    }
  }
  if err := w.Flush(); err != nil {
    return &IOError{Path: writer.path, Err: err}
  }
  writer.header.DirOffset  = uint64(writer.offset)
  writer.header.TableCount = uint32(len(writer.entries))
  if err := fileWriteAt(writer.file, binary.LittleEndian, 0, &writer.header); err != nil {
    return &IOError{Path: writer.path, Err: err}
  }
  if err := writer.file.Sync(); err != nil {
    return &IOError{Path: writer.path, Err: err}
  }
  return nil
}

/* -------------------------------------------------------------------------- */

func (table *tableWriter) flush() error {
  for _, r := range table.buffer {
    binary.LittleEndian.PutUint64(table.tmp, uint64(int64(r.Position)))
    if _, err := table.writers[0].Write(table.tmp); err != nil {
      return err
    }
    for k, v := range [3]float64{r.Forward, r.Reverse, r.Combined} {
      binary.LittleEndian.PutUint64(table.tmp, math.Float64bits(v))
      if _, err := table.writers[k+1].Write(table.tmp); err != nil {
        return err
      }
    }
  }
  table.buffer = table.buffer[:0]
  for k := 0; k < storeColumns; k++ {
    if table.writers[k] == nil {
      continue
    }
    if err := table.writers[k].Flush(); err != nil {
      return err
    }
  }
  return nil
}

func (table *tableWriter) remove() {
  for _, f := range table.spill {
    if f != nil {
      f.Close()
      os.Remove(f.Name())
    }
  }
}
