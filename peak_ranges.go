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
import "sort"

import "github.com/goccy/go-json"

/* -------------------------------------------------------------------------- */

// Predicted peaks of several chromosomes in columnar form.
type PeakRanges struct {
  Seqnames []string
  Ranges   []Range
  Strand   []byte
  Summits  []int
  Heights  []float64
  Labels   []string
}

/* -------------------------------------------------------------------------- */

func (r *PeakRanges) Length() int {
  return len(r.Ranges)
}

// Append intervals of a single chromosome. The strand is `+', `-' or
// `*' if both strands were combined.
func (r *PeakRanges) AppendIntervals(seqname string, strand byte, peaks Peaks, intervals []Interval) {
  for i, interval := range intervals {
    r.Seqnames = append(r.Seqnames, seqname)
    r.Ranges   = append(r.Ranges,   Range{interval.Start, interval.End})
    r.Strand   = append(r.Strand,   strand)
    r.Summits  = append(r.Summits,  peaks[i].Position)
    r.Heights  = append(r.Heights,  interval.Height)
    r.Labels   = append(r.Labels,   interval.Label)
  }
}

func (r *PeakRanges) Append(s PeakRanges) {
  r.Seqnames = append(r.Seqnames, s.Seqnames...)
  r.Ranges   = append(r.Ranges,   s.Ranges...)
  r.Strand   = append(r.Strand,   s.Strand...)
  r.Summits  = append(r.Summits,  s.Summits...)
  r.Heights  = append(r.Heights,  s.Heights...)
  r.Labels   = append(r.Labels,   s.Labels...)
}

func (r *PeakRanges) swap(i, j int) {
  r.Seqnames[i], r.Seqnames[j] = r.Seqnames[j], r.Seqnames[i]
  r.Ranges  [i], r.Ranges  [j] = r.Ranges  [j], r.Ranges  [i]
  r.Strand  [i], r.Strand  [j] = r.Strand  [j], r.Strand  [i]
  r.Summits [i], r.Summits [j] = r.Summits [j], r.Summits [i]
  r.Heights [i], r.Heights [j] = r.Heights [j], r.Heights [i]
  r.Labels  [i], r.Labels  [j] = r.Labels  [j], r.Labels  [i]
}

type peakRangesSorter struct {
  *PeakRanges
}

func (s peakRangesSorter) Len() int {
  return s.Length()
}

func (s peakRangesSorter) Less(i, j int) bool {
  if s.Seqnames[i] != s.Seqnames[j] {
    return NaturalLess(s.Seqnames[i], s.Seqnames[j])
  }
  if s.Ranges[i].From != s.Ranges[j].From {
    return s.Ranges[i].From < s.Ranges[j].From
  }
  return s.Strand[i] < s.Strand[j]
}

func (s peakRangesSorter) Swap(i, j int) {
  s.swap(i, j)
}

// Sort by chromosome (natural order), start position and strand.
func (r *PeakRanges) Sort() {
  sort.Stable(peakRangesSorter{r})
}

/* convert to string
 * -------------------------------------------------------------------------- */

func (r PeakRanges) PrettyPrint(n int) string {
  var buffer bytes.Buffer
  writer := bufio.NewWriter(&buffer)

  // compute the width of a single cell
  updateMaxWidth := func(format string, widths []int, j int, args ...interface{}) {
    width, _ := fmt.Fprintf(io.Discard, format, args...)
    if width > widths[j] {
      widths[j] = width
    }
  }
  // compute widths of all cells in row i
  updateMaxWidths := func(i int, widths []int) {
    updateMaxWidth("%d", widths, 0, i+1)
    updateMaxWidth("%s", widths, 1, r.Seqnames[i])
    updateMaxWidth("%d", widths, 2, r.Ranges[i].From)
    updateMaxWidth("%d", widths, 3, r.Ranges[i].To)
    updateMaxWidth("%d", widths, 5, r.Summits[i])
    updateMaxWidth("%f", widths, 6, r.Heights[i])
  }
  applyRows := func(f1 func(i int), f2 func()) {
    if r.Length() <= n+1 {
      for i := 0; i < r.Length(); i++ { f1(i) }
    } else {
      for i := 0; i < n/2; i++ { f1(i) }
      f2()
      for i := r.Length() - n/2; i < r.Length(); i++ { f1(i) }
    }
  }
  // maximum column widths
  widths := []int{1, 8, 1, 1, 6, 6, 6}
  applyRows(func(i int) { updateMaxWidths(i, widths) }, func() {})

  formatRow    := fmt.Sprintf("%%%dd %%%ds [%%%dd, %%%dd) %%%dc | %%%dd %%%df",
    widths[0], widths[1], widths[2], widths[3], widths[4], widths[5], widths[6])
  formatHeader := fmt.Sprintf("%%%ds %%%ds %%%ds %%%ds | %%%ds %%%ds",
    widths[0], widths[1], widths[2]+widths[3]+4, widths[4], widths[5], widths[6])
  // print header
  fmt.Fprintf(writer, formatHeader, "", "seqnames", "ranges", "strand", "summit", "height")
  // print rows
  applyRows(
    func(i int) {
      fmt.Fprintf(writer, "\n")
      fmt.Fprintf(writer, formatRow, i+1, r.Seqnames[i], r.Ranges[i].From, r.Ranges[i].To,
        r.Strand[i], r.Summits[i], r.Heights[i])
    },
    func() {
      fmt.Fprintf(writer, "\n")
      fmt.Fprintf(writer, formatHeader, "", "...", "...", "", "...", "...")
    })
  writer.Flush()

  return buffer.String()
}

func (r PeakRanges) String() string {
  return r.PrettyPrint(10)
}

/* i/o
 * -------------------------------------------------------------------------- */

func (r PeakRanges) WriteBed6(filename string, compress bool) error {
  var buffer bytes.Buffer

  if err := r.WriteBed6To(&buffer); err != nil {
    return err
  }
  if err := writeFile(filename, &buffer, compress); err != nil {
    return &IOError{Path: filename, Err: err}
  }
  return nil
}

// Columns are chromosome, start, end, label, height and strand.
func (r PeakRanges) WriteBed6To(writer io.Writer) error {
  w := bufio.NewWriter(writer)

  for i := 0; i < r.Length(); i++ {
    fmt.Fprintf(w,   "%s", r.Seqnames[i])
    fmt.Fprintf(w, "\t%d", r.Ranges[i].From)
    fmt.Fprintf(w, "\t%d", r.Ranges[i].To)
    if r.Labels[i] != "" {
      fmt.Fprintf(w, "\t%s", r.Labels[i])
    } else {
      fmt.Fprintf(w, "\t%s", ".")
    }
    fmt.Fprintf(w, "\t%f", r.Heights[i])
    if r.Strand[i] != '*' {
      fmt.Fprintf(w, "\t%c", r.Strand[i])
    } else {
      fmt.Fprintf(w, "\t%s", ".")
    }
    fmt.Fprintf(w, "\n")
  }
  return w.Flush()
}

type peakRangesRow struct {
  Seqname string  `json:"chrom"`
  Start   int     `json:"start"`
  End     int     `json:"end"`
  Strand  string  `json:"strand"`
  Summit  int     `json:"summit"`
  Height  float64 `json:"height"`
  Label   string  `json:"label,omitempty"`
}

// Write peaks as a JSON array of objects.
func (r PeakRanges) WriteJSON(writer io.Writer) error {
  rows := make([]peakRangesRow, r.Length())
  for i := range rows {
    rows[i] = peakRangesRow{
      Seqname: r.Seqnames[i],
      Start  : r.Ranges[i].From,
      End    : r.Ranges[i].To,
      Strand : string(r.Strand[i]),
      Summit : r.Summits[i],
      Height : r.Heights[i],
      Label  : r.Labels[i] }
  }
  encoder := json.NewEncoder(writer)
  encoder.SetIndent("", "  ")
  return encoder.Encode(rows)
}
