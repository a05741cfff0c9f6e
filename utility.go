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
import "bytes"
import "fmt"
import "io"
import "os"
import "time"

import "github.com/dustin/go-humanize"
import "github.com/klauspost/compress/gzip"

/* -------------------------------------------------------------------------- */

func iMin(a, b int) int {
  if a < b {
    return a
  } else {
    return b
  }
}

func iMax(a, b int) int {
  if a > b {
    return a
  } else {
    return b
  }
}

/* -------------------------------------------------------------------------- */

func commify(n int) string {
  return humanize.Comma(int64(n))
}

// Human readable size of a file, empty if the file cannot be accessed.
func fileSize(filename string) string {
  if info, err := os.Stat(filename); err != nil {
    return ""
  } else {
    return humanize.Bytes(uint64(info.Size()))
  }
}

/* -------------------------------------------------------------------------- */

func writeFile(filename string, r io.Reader, compress bool) error {
  var buffer bytes.Buffer

  if compress {
    w := gzip.NewWriter(&buffer)
    if _, err := io.Copy(w, r); err != nil {
      return err
    }
    if err := w.Close(); err != nil {
      return err
    }
  } else {
    if _, err := io.Copy(&buffer, r); err != nil {
      return err
    }
  }
  return os.WriteFile(filename, buffer.Bytes(), 0666)
}

func isGzip(filename string) bool {

  f, err := os.Open(filename)
  if err != nil {
    return false
  }
  defer f.Close()

  b := make([]byte, 2)
  n, err := f.Read(b)
  if err != nil {
    return false
  }

  if n == 2 && b[0] == 31 && b[1] == 139 {
    return true
  }
  return false
}

/* -------------------------------------------------------------------------- */

type readCloser struct {
  io.Reader
  closers []io.Closer
}

func (r readCloser) Close() error {
  var err error
  for _, c := range r.closers {
    if e := c.Close(); e != nil && err == nil {
      err = e
    }
  }
  return err
}

// Open a plain or gzip compressed text file.
func openInput(filename string) (io.ReadCloser, error) {
  compressed := isGzip(filename)

  f, err := os.Open(filename)
  if err != nil {
    return nil, &IOError{Path: filename, Err: err}
  }
  if !compressed {
    return readCloser{bufio.NewReaderSize(f, 1<<20), []io.Closer{f}}, nil
  }
  g, err := gzip.NewReader(bufio.NewReaderSize(f, 1<<20))
  if err != nil {
    f.Close()
    return nil, &IOError{Path: filename, Err: err}
  }
  return readCloser{g, []io.Closer{g, f}}, nil
}

/* -------------------------------------------------------------------------- */

type Timer struct {
  start time.Time
}

func NewTimer() *Timer {
  return &Timer{time.Now()}
}

// Elapsed time since the last call to Report (or creation of the timer).
func (timer *Timer) Report() string {
  now := time.Now()
  d   := now.Sub(timer.start)
  timer.start = now
  return FormatElapsed(d)
}

func FormatElapsed(d time.Duration) string {
  switch s := d.Seconds(); {
  case s < 60:
    return fmt.Sprintf("%4.2f seconds", s)
  case s < 3600:
    return fmt.Sprintf("%3.1f minutes", s/60)
  default:
    return fmt.Sprintf("%3.1f hours", s/3600)
  }
}
