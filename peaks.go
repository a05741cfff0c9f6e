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
import "fmt"
import "sort"

/* -------------------------------------------------------------------------- */

type Peak struct {
  Position int
  Height   float64
}

type Peaks []Peak

/* convert to string
 * -------------------------------------------------------------------------- */

func (peaks Peaks) String() string {
  var buffer bytes.Buffer
  // number of lines to print
  const n int = 10

  printRow := func(i int) {
    buffer.WriteString(
      fmt.Sprintf("\n%10d %12d %12f", i+1, peaks[i].Position, peaks[i].Height))
  }
  // print header
  buffer.WriteString(
    fmt.Sprintf("%10s %12s %12s", "", "position", "height"))

  if len(peaks) <= n+1 {
    for i := 0; i < len(peaks); i++ {
      printRow(i)
    }
  } else {
    for i := 0; i < n/2; i++ {
      printRow(i)
    }
    buffer.WriteString(
      fmt.Sprintf("\n%10s %12s %12s", "", "...", "..."))
    for i := len(peaks) - n/2; i < len(peaks); i++ {
      printRow(i)
    }
  }
  return buffer.String()
}

/* -------------------------------------------------------------------------- */

// Local maxima of y, i.e. interior points with y[i-1] < y[i] >= y[i+1].
// End points are never reported and a plateau is reported at its first
// point only if the signal falls right after it.
func DetectPeaks(x []int, y []float64) (Peaks, error) {
  if len(x) != len(y) {
    return nil, ErrLengthMismatch
  }
  peaks := Peaks{}
  for i := 1; i+1 < len(y); i++ {
    if y[i-1] < y[i] && y[i] >= y[i+1] {
      peaks = append(peaks, Peak{x[i], y[i]})
    }
  }
  return peaks, nil
}

/* -------------------------------------------------------------------------- */

// set bits [from, to) of a bit vector
func setBits(bits []uint64, from, to int) {
  for i := from; i < to; i++ {
    if i % 64 == 0 && i+64 <= to {
      bits[i/64] = ^uint64(0)
      i += 63
      continue
    }
    bits[i/64] |= 1 << uint(i%64)
  }
}

func getBit(bits []uint64, i int) bool {
  return bits[i/64] & (1 << uint(i%64)) != 0
}

// Greedy selection of peaks with height at least threshold. Peaks are
// visited by decreasing height (ties by increasing position) and a peak
// is kept if no kept peak is closer than exclusion. The result is sorted
// by position. With a zero exclusion zone peaks are only filtered by
// height.
func SelectPeaks(peaks Peaks, exclusion int, threshold float64) (Peaks, error) {
  if exclusion < 0 {
    return nil, &ConfigError{Field: "exclusion", Reason: "must not be negative"}
  }
  candidates := Peaks{}
  for _, p := range peaks {
    if p.Height >= threshold {
      candidates = append(candidates, p)
    }
  }
  if exclusion == 0 || len(candidates) == 0 {
    return candidates, nil
  }
  sort.SliceStable(candidates, func(i, j int) bool {
    if candidates[i].Height != candidates[j].Height {
      return candidates[i].Height > candidates[j].Height
    }
    return candidates[i].Position < candidates[j].Position
  })
  pmin, pmax := candidates[0].Position, candidates[0].Position
  for _, p := range candidates {
    pmin = iMin(pmin, p.Position)
    pmax = iMax(pmax, p.Position)
  }
  // occupancy of coordinates [pmin-exclusion, pmax+exclusion]
  offset := pmin - exclusion
  bits   := make([]uint64, (pmax-pmin+2*exclusion+1+63)/64)

  selected := Peaks{}
  for _, p := range candidates {
    i := p.Position - offset
    if getBit(bits, i) {
      continue
    }
    selected = append(selected, p)
    setBits(bits, i-exclusion, i+exclusion)
  }
  sort.Slice(selected, func(i, j int) bool {
    return selected[i].Position < selected[j].Position
  })
  return selected, nil
}
