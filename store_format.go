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

// Layout of the store container. All numbers are little endian.
//
//   header    (48 bytes, see StoreHeader)
//   table 1   position[n] int64, forward[n] float64, reverse[n] float64, combined[n] float64
//   table 2   ...
//   directory one StoreDirectoryEntry per table in build order
//
// The header is written as a placeholder first and updated once the
// directory offset is known.

/* -------------------------------------------------------------------------- */

import "bufio"
import "encoding/binary"
import "fmt"
import "io"
import "os"

import "github.com/google/uuid"

/* -------------------------------------------------------------------------- */

const STORE_MAGIC   = 0x67747278
const STORE_VERSION = 1

// number of columns per table
const storeColumns = 4

// smallest directory entry: label length followed by four 64-bit fields
const storeMinEntrySize = 2 + 4*8

/* -------------------------------------------------------------------------- */

type StoreHeader struct {
  Magic      uint32
  Version    uint16
  Flags      uint16
  TableCount uint32
  Reserved   uint32
  DirOffset  uint64
  Created    int64
  Id         [16]byte
}

func (header *StoreHeader) Read(reader io.Reader) error {
  if err := binary.Read(reader, binary.LittleEndian, header); err != nil {
    return err
  }
  if header.Magic != STORE_MAGIC {
    return fmt.Errorf("invalid store magic number")
  }
  if header.Version != STORE_VERSION {
    return fmt.Errorf("unsupported store version `%d'", header.Version)
  }
  return nil
}

func (header *StoreHeader) Write(writer io.Writer) error {
  return binary.Write(writer, binary.LittleEndian, header)
}

func (header *StoreHeader) Size() int64 {
  return int64(binary.Size(header))
}

func (header *StoreHeader) Uuid() uuid.UUID {
  return uuid.UUID(header.Id)
}

/* -------------------------------------------------------------------------- */

type StoreDirectoryEntry struct {
  Label       string
  Length      uint64
  Offset      uint64
  MinPosition int64
  MaxPosition int64
}

type storeDirectoryFields struct {
  Length      uint64
  Offset      uint64
  MinPosition int64
  MaxPosition int64
}

// Byte offset of column k (0: position, 1: forward, 2: reverse, 3: combined).
func (entry StoreDirectoryEntry) ColumnOffset(k int) int64 {
  return int64(entry.Offset) + int64(k)*int64(entry.Length)*8
}

// Offset of the first byte following the table.
func (entry StoreDirectoryEntry) End() int64 {
  return entry.ColumnOffset(storeColumns)
}

func (entry *StoreDirectoryEntry) Read(reader io.Reader) error {
  var n uint16
  if err := binary.Read(reader, binary.LittleEndian, &n); err != nil {
    return err
  }
  label := make([]byte, n)
  if _, err := io.ReadFull(reader, label); err != nil {
    return err
  }
  fields := storeDirectoryFields{}
  if err := binary.Read(reader, binary.LittleEndian, &fields); err != nil {
    return err
  }
  entry.Label       = string(label)
  entry.Length      = fields.Length
  entry.Offset      = fields.Offset
  entry.MinPosition = fields.MinPosition
  entry.MaxPosition = fields.MaxPosition
  return nil
}

func (entry *StoreDirectoryEntry) Write(writer io.Writer) error {
  if len(entry.Label) > 0xffff {
    return fmt.Errorf("label `%s...' is too long", entry.Label[0:32])
  }
  if err := binary.Write(writer, binary.LittleEndian, uint16(len(entry.Label))); err != nil {
    return err
  }
  if _, err := io.WriteString(writer, entry.Label); err != nil {
    return err
  }
  fields := storeDirectoryFields{
    Length     : entry.Length,
    Offset     : entry.Offset,
    MinPosition: entry.MinPosition,
    MaxPosition: entry.MaxPosition }
  return binary.Write(writer, binary.LittleEndian, fields)
}

/* -------------------------------------------------------------------------- */

func fileWriteAt(file *os.File, order binary.ByteOrder, offset int64, data interface{}) error {
  currentPosition, err := file.Seek(0, io.SeekCurrent)
  if err != nil {
    return err
  }
  if _, err := file.Seek(offset, io.SeekStart); err != nil {
    return err
  }
  if err := binary.Write(file, order, data); err != nil {
    return err
  }
  if _, err := file.Seek(currentPosition, io.SeekStart); err != nil {
    return err
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Read header and directory of a store container.
func readStoreIndex(file *os.File) (StoreHeader, []StoreDirectoryEntry, error) {
  header := StoreHeader{}
  if err := header.Read(io.NewSectionReader(file, 0, header.Size())); err != nil {
    return header, nil, err
  }
  info, err := file.Stat()
  if err != nil {
    return header, nil, err
  }
  if header.DirOffset < uint64(header.Size()) || header.DirOffset > uint64(info.Size()) {
    return header, nil, fmt.Errorf("invalid directory offset")
  }
  size := info.Size()-int64(header.DirOffset)
  if int64(header.TableCount) > size/storeMinEntrySize {
    return header, nil, fmt.Errorf("directory of %d tables exceeds file size", header.TableCount)
  }
  reader  := bufio.NewReader(io.NewSectionReader(file, int64(header.DirOffset), size))
  entries := make([]StoreDirectoryEntry, header.TableCount)
  for i := range entries {
    if err := entries[i].Read(reader); err != nil {
      return header, nil, fmt.Errorf("reading directory entry %d failed: %v", i, err)
    }
    if entries[i].End() > int64(header.DirOffset) {
      return header, nil, fmt.Errorf("table `%s' exceeds data section", entries[i].Label)
    }
  }
  return header, entries, nil
}
