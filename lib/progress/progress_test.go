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

import   "bytes"
import   "strings"
import   "sync"
import   "testing"

/* -------------------------------------------------------------------------- */

func TestProgress(t *testing.T) {
  p := New(200, 10)
  if p.K != 20 {
    t.Errorf("TestProgress failed: K=%d", p.K)
  }
  if !p.Due(0) || !p.Due(40) || p.Due(41) || !p.Due(200) {
    t.Error("TestProgress failed")
  }
  if s := p.Exec(100); !strings.Contains(s, " 50.00%") || strings.HasSuffix(s, "\n") {
    t.Errorf("TestProgress failed: %q", s)
  }
  if s := p.Exec(200); !strings.HasSuffix(s, "100.00%\n") {
    t.Errorf("TestProgress failed: %q", s)
  }
  // fewer steps than updates
  if p := New(5, 10); p.K != 1 {
    t.Errorf("TestProgress failed: K=%d", p.K)
  }
}

func TestTracker(t *testing.T) {
  var buffer bytes.Buffer
  tracker := NewTracker(&buffer, 100, 100)
  tracker.SetPrefix("test ")
  tracker.Start()

  var wg sync.WaitGroup
  for i := 0; i < 4; i++ {
    wg.Add(1)
    go func() {
      defer wg.Done()
      for j := 0; j < 25; j++ {
        tracker.Done()
      }
    }()
  }
  wg.Wait()
  if n := tracker.Done(); n != 101 {
    t.Errorf("TestTracker failed: %d", n)
  }
  if s := buffer.String(); !strings.Contains(s, "test |") || strings.Count(s, "100.00%\n") != 1 {
    t.Errorf("TestTracker failed: %q", s)
  }
  // no output without writer
  if n := NewTracker(nil, 10, 10).Done(); n != 1 {
    t.Error("TestTracker failed")
  }
}
