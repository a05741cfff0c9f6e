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

import   "bytes"
import   "path/filepath"
import   "reflect"
import   "strings"
import   "testing"

/* -------------------------------------------------------------------------- */

func predictTestStore(t *testing.T, config Config) PeakRanges {
  path := buildTestStore(t, config.Store)
  r, err := Predict(path, config, nil)
  if err != nil {
    t.Fatal(err)
  }
  return r
}

func subsetPeakRanges(r PeakRanges, seqname string, strand byte) PeakRanges {
  s := PeakRanges{}
  for i := 0; i < r.Length(); i++ {
    if r.Seqnames[i] == seqname && r.Strand[i] == strand {
      s.Seqnames = append(s.Seqnames, r.Seqnames[i])
      s.Ranges   = append(s.Ranges,   r.Ranges  [i])
      s.Strand   = append(s.Strand,   r.Strand  [i])
      s.Summits  = append(s.Summits,  r.Summits [i])
      s.Heights  = append(s.Heights,  r.Heights [i])
      s.Labels   = append(s.Labels,   r.Labels  [i])
    }
  }
  return s
}

/* -------------------------------------------------------------------------- */

func TestPredict(t *testing.T) {
  config := DefaultConfig()
  r      := predictTestStore(t, config)

  chr3 := subsetPeakRanges(r, "chr3", '*')
  if !reflect.DeepEqual(chr3.Summits, []int{5, 500, 5000}) {
    t.Fatalf("TestPredict failed: %v", chr3.Summits)
  }
  if !reflect.DeepEqual(chr3.Heights, []float64{2, 2, 3}) {
    t.Errorf("TestPredict failed: %v", chr3.Heights)
  }
  if !reflect.DeepEqual(chr3.Ranges, []Range{{-45, 55}, {450, 550}, {4950, 5050}}) {
    t.Errorf("TestPredict failed: %v", chr3.Ranges)
  }
  if !reflect.DeepEqual(chr3.Labels, []string{"2.0", "2.0", "3.0"}) {
    t.Errorf("TestPredict failed: %v", chr3.Labels)
  }
  for _, seqname := range []string{"chr1", "chr2", "chr3"} {
    s := subsetPeakRanges(r, seqname, '*')
    if s.Length() == 0 {
      t.Errorf("TestPredict failed: no peaks on `%s'", seqname)
    }
    for i := 0; i < s.Length(); i++ {
      if s.Heights[i] < config.Peaks.MinimumPeak {
        t.Errorf("TestPredict failed: peak below threshold")
      }
      if i > 0 && s.Summits[i] - s.Summits[i-1] < config.Peaks.Exclusion {
        t.Errorf("TestPredict failed: peaks at %d and %d", s.Summits[i-1], s.Summits[i])
      }
    }
  }
  // chromosomes in natural order
  for i := 1; i < r.Length(); i++ {
    if NaturalLess(r.Seqnames[i], r.Seqnames[i-1]) {
      t.Error("TestPredict failed: result is not sorted")
    }
  }
}

func TestPredictWindows(t *testing.T) {
  config1 := DefaultConfig()
  config2 := DefaultConfig()
  config2.Predict.MaxSize = 250
  config3 := DefaultConfig()
  config3.Predict.MaxSize = 250
  config3.Predict.Threads = 3

  r1 := predictTestStore(t, config1)
  r2 := predictTestStore(t, config2)
  r3 := predictTestStore(t, config3)

  if r1.Length() == 0 || !reflect.DeepEqual(r1, r2) {
    t.Errorf("TestPredictWindows failed:\n%v\n%v", r1, r2)
  }
  if !reflect.DeepEqual(r2, r3) {
    t.Errorf("TestPredictWindows failed:\n%v\n%v", r2, r3)
  }
}

func TestPredictSparseWindows(t *testing.T) {
  // isolated records, each density is retained only at the record itself
  input := writeTestInput(t,
    "chrS\t100\t0.5\t0\t0.5",
    "chrS\t200\t1\t0\t1",
    "chrS\t300\t0.5\t0\t0.5")
  config := DefaultConfig()
  config.Smoothing.Sigma   = 0.25
  config.Smoothing.Epsilon = 0.01
  config.Peaks.MinimumPeak = 0.1

  path := filepath.Join(t.TempDir(), "sparse.gtx")
  if _, err := Build(input, path, config.Store); err != nil {
    t.Fatal(err)
  }
  store, err := OpenStore(path, config.Store)
  if err != nil {
    t.Fatal(err)
  }
  defer store.Close()

  // windows [99,200) and [200,301) split the peak from its left neighbour,
  // windows of size 1 split every pair of neighbours
  for _, size := range []int{100000, 101, 1} {
    config.Predict.MaxSize = size
    peaks, err := PredictLabel(store, "chrS", '*', config)
    if err != nil {
      t.Fatal(err)
    }
    if len(peaks) != 1 || peaks[0].Position != 200 {
      t.Errorf("TestPredictSparseWindows failed for window size %d: %v", size, peaks)
    }
  }
}

func TestPredictSeparate(t *testing.T) {
  config := DefaultConfig()
  config.Peaks.Strand = "separate"

  r := predictTestStore(t, config)

  if s := subsetPeakRanges(r, "chr3", '+'); !reflect.DeepEqual(s.Summits, []int{5, 500}) {
    t.Errorf("TestPredictSeparate failed: %v", s.Summits)
  }
  if s := subsetPeakRanges(r, "chr3", '-'); !reflect.DeepEqual(s.Summits, []int{5, 5000}) {
    t.Errorf("TestPredictSeparate failed: %v", s.Summits)
  }
  if s := subsetPeakRanges(r, "chr3", '*'); s.Length() != 0 {
    t.Error("TestPredictSeparate failed")
  }
}

func TestPredictOutput(t *testing.T) {
  config := DefaultConfig()
  config.Peaks.ZoomValue = LabelZoomLimit + 1

  r := subsetPeakRanges(predictTestStore(t, config), "chr3", '*')

  var buffer bytes.Buffer
  if err := r.WriteBed6To(&buffer); err != nil {
    t.Fatal(err)
  }
  lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
  if len(lines) != 3 || lines[1] != "chr3\t450\t550\t.\t2.000000\t." {
    t.Errorf("TestPredictOutput failed: %v", lines)
  }
  buffer.Reset()
  if err := r.WriteJSON(&buffer); err != nil {
    t.Fatal(err)
  }
  if s := buffer.String(); !strings.Contains(s, `"chrom": "chr3"`) || !strings.Contains(s, `"summit": 5000`) {
    t.Errorf("TestPredictOutput failed: %s", s)
  }
}
