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

import "io"

import "github.com/pbenner/genetrack/lib/progress"
import "github.com/pbenner/threadpool"

/* -------------------------------------------------------------------------- */

// Strands used for prediction, a single combined signal or forward and
// reverse strands independently.
func predictStrands(config PeaksConfig) []byte {
  if config.Strand == "separate" {
    return []byte{'+', '-'}
  }
  return []byte{'*'}
}

// Peaks of one strand of a chromosome. The table is smoothed in windows
// of at most max_size coordinates. Each window is padded so that the
// density inside the window is exact, and the last two densities of a
// window are carried into the next one so that local maxima at window
// borders are found as on the whole chromosome. Peak selection runs once
// on all windows to keep the exclusion zone across window borders.
func PredictLabel(store *Store, label string, strand byte, config Config) (Peaks, error) {
  table, err := store.Table(label)
  if err != nil {
    return nil, err
  }
  logger := config.Store.logger()
  w, _   := GaussianKernel(config.Smoothing.Sigma)
  peaks  := Peaks{}
  if table.Length() == 0 {
    return peaks, nil
  }
  x := []int{}
  y := []float64{}
  // the density extends w coordinates beyond the outermost records
  for from := table.MinPosition()-w; from <= table.MaxPosition()+w; from += config.Predict.MaxSize {
    window := Range{from, from+config.Predict.MaxSize}

    r, err := store.Query(label, window.From, window.To, w+1)
    if err != nil {
      return nil, err
    }
    if r.Len() == 0 {
      continue
    }
    signal, err := SmoothQuery(r, strand, config.Smoothing)
    if err != nil {
      return nil, err
    }
    for i, position := range signal.Positions {
      if window.Contains(position) {
        x = append(x, position)
        y = append(y, signal.Density[i])
      }
    }
    candidates, err := DetectPeaks(x, y)
    if err != nil {
      return nil, err
    }
    for _, p := range candidates {
      if p.Height >= config.Peaks.MinimumPeak {
        peaks = append(peaks, p)
      }
    }
    logger.Debug().Str("label", label).Str("window", window.String()).Msgf("%d records, %d candidate peaks", r.Len(), len(candidates))
    // the last density has no right neighbour yet
    if n := len(x); n > 2 {
      x = append(x[:0], x[n-2:]...)
      y = append(y[:0], y[n-2:]...)
    }
  }
  return SelectPeaks(peaks, config.Peaks.Exclusion, config.Peaks.MinimumPeak)
}

/* -------------------------------------------------------------------------- */

// Genome-wide peak prediction on all chromosomes of a store. Chromosomes
// are distributed over predict.threads threads, each thread reads from
// its own handle of the store. Progress is written to status if not nil.
func Predict(storePath string, config Config, status io.Writer) (PeakRanges, error) {
  if err := config.Validate(); err != nil {
    return PeakRanges{}, err
  }
  logger  := config.Store.logger()
  timer   := NewTimer()
  strands := predictStrands(config.Peaks)
  params  := NewPredictorParams(config.Peaks)

  store, err := OpenStore(storePath, config.Store)
  if err != nil {
    return PeakRanges{}, err
  }
  labels, err := store.Labels()
  if err != nil {
    store.Close()
    return PeakRanges{}, err
  }
  pool    := threadpool.New(config.Predict.Threads, 100*config.Predict.Threads)
  stores  := make([]*Store, pool.NumberOfThreads())
  stores[0] = store
  defer func() {
    for _, s := range stores {
      if s != nil {
        s.Close()
      }
    }
  }()
  n       := len(labels)*len(strands)
  results := make([]PeakRanges, n)
  tracker := progress.NewTracker(status, n, 100)
  tracker.SetPrefix("predicting peaks ")
  tracker.Start()

  g := pool.NewJobGroup()
  if err := pool.AddRangeJob(0, n, g, func(i int, pool threadpool.ThreadPool, erf func() error) error {
    if erf() != nil {
      return nil
    }
    t := pool.GetThreadId()
    if stores[t] == nil {
      s, err := OpenStore(storePath, config.Store)
      if err != nil {
        return err
      }
      stores[t] = s
    }
    label  := labels[i/len(strands)]
    strand := strands[i%len(strands)]

    peaks, err := PredictLabel(stores[t], label, strand, config)
    if err != nil {
      return err
    }
    results[i].AppendIntervals(label, strand, peaks, PeakIntervals(peaks, params))
    logger.Info().Str("label", label).Str("strand", string(strand)).Msgf("found %s peaks", commify(len(peaks)))
    tracker.Done()
    return nil
  }); err != nil {
    return PeakRanges{}, err
  }
  if err := pool.Wait(g); err != nil {
    return PeakRanges{}, err
  }
  r := PeakRanges{}
  for i := range results {
    r.Append(results[i])
  }
  r.Sort()
  logger.Info().Msgf("predicted %s peaks on %d chromosomes in %s", commify(r.Length()), len(labels), timer.Report())
  return r, nil
}
