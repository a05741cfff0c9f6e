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

package progress

/* -------------------------------------------------------------------------- */

import "bytes"
import "fmt"
import "io"
import "os"
import "sync"

/* -------------------------------------------------------------------------- */

// Text progress bar for n steps that is redrawn every n/k steps.
type Progress struct {
  N, K, LineWidth int
  // optional text printed in front of the bar
  Prefix string
}

/* -------------------------------------------------------------------------- */

func New(n, k int) Progress {
  progress := Progress{N: n, K: 1, LineWidth: 40}
  if k > 0 && k <= n {
    progress.K = n/k
  }
  return progress
}

/* -------------------------------------------------------------------------- */

const lineDel = "\033[2K\r"

func (progress Progress) Exec(i int) string {
  var buffer bytes.Buffer

  p := 1.0
  if progress.N > 0 {
    p = float64(i)/float64(progress.N)
  }
  // carriage return
  fmt.Fprintf(&buffer, "%s%s|", lineDel, progress.Prefix)

  for j := 1; j < progress.LineWidth-1; j++ {
    if float64(j)/float64(progress.LineWidth) < p {
      buffer.WriteString(">")
    } else {
      buffer.WriteString(" ")
    }
  }
  fmt.Fprintf(&buffer, "| %6.2f%%", p*100)
  // add newline if finished
  if i >= progress.N {
    buffer.WriteString("\n")
  }
  return buffer.String()
}

// Returns true if step i should be drawn.
func (progress Progress) Due(i int) bool {
  return i == 0 || i == progress.N || i % progress.K == 0
}

func (progress Progress) Print(w io.Writer, i int) {
  if progress.Due(i) {
    fmt.Fprint(w, progress.Exec(i))
  }
}

func (progress Progress) PrintStderr(i int) {
  progress.Print(os.Stderr, i)
}

/* -------------------------------------------------------------------------- */

// Counter for jobs that complete in arbitrary order on several threads.
type Tracker struct {
  progress Progress
  writer   io.Writer
  done     int
  mtx      sync.Mutex
}

// A nil writer disables output.
func NewTracker(w io.Writer, n, k int) *Tracker {
  return &Tracker{progress: New(n, k), writer: w}
}

func (tracker *Tracker) SetPrefix(prefix string) {
  tracker.mtx.Lock()
  defer tracker.mtx.Unlock()
  tracker.progress.Prefix = prefix
}

func (tracker *Tracker) Start() {
  tracker.mtx.Lock()
  defer tracker.mtx.Unlock()
  if tracker.writer != nil {
    tracker.progress.Print(tracker.writer, 0)
  }
}

// Mark one job as done and return the number of completed jobs.
func (tracker *Tracker) Done() int {
  tracker.mtx.Lock()
  defer tracker.mtx.Unlock()
  tracker.done++
  if tracker.writer != nil {
    tracker.progress.Print(tracker.writer, tracker.done)
  }
  return tracker.done
}
