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

// Smoothing and peak prediction for a single region of a store, e.g. the
// current view of a genome browser. The cache is optional.
type RegionPredictor struct {
  Store  *Store
  Cache  *PredictionCache
  Config Config
}

/* -------------------------------------------------------------------------- */

// Smoothed signal of a region. In combined strand mode the second signal
// is empty, otherwise the first signal is the forward strand and the
// second the reverse strand.
func (p RegionPredictor) Smooth(label string, start, end int) (SmoothedSignal, SmoothedSignal, error) {
  // densities at start-1 and end are needed to detect peaks at the borders
  r, err := p.Store.Query(label, start, end, int(5*p.Config.Smoothing.Sigma)+1)
  if err != nil {
    return SmoothedSignal{}, SmoothedSignal{}, err
  }
  strands := predictStrands(p.Config.Peaks)
  signals := [2]SmoothedSignal{}
  for k, strand := range strands {
    if signals[k], err = SmoothQuery(r, strand, p.Config.Smoothing); err != nil {
      return SmoothedSignal{}, SmoothedSignal{}, err
    }
  }
  return signals[0], signals[1], nil
}

func (p RegionPredictor) params(start, end int) PredictorParams {
  params := NewPredictorParams(p.Config.Peaks)
  // use the width of the region if no zoom level is given
  if params.ZoomValue == 0 {
    params.ZoomValue = end - start
  }
  return params
}

// Fixed-width intervals of peaks in [start, end). The second result is
// only used in separate strand mode and contains reverse strand peaks.
func (p RegionPredictor) Predict(label string, start, end int) ([]Interval, []Interval, error) {
  params  := p.params(start, end)
  strands := predictStrands(p.Config.Peaks)
  result  := [2][]Interval{}
  missing := false
  for k, strand := range strands {
    if p.Cache == nil {
      missing = true
      break
    }
    key := PredictionCacheKey(p.Store.Id(), label, start, end, strand, p.Config.Smoothing, params)
    intervals, ok, err := p.Cache.Get(key)
    if err != nil {
      return nil, nil, err
    }
    if !ok {
      missing = true
      break
    }
    result[k] = intervals
  }
  if !missing {
    return result[0], result[1], nil
  }
  s1, s2, err := p.Smooth(label, start, end)
  if err != nil {
    return nil, nil, err
  }
  for k, signal := range []SmoothedSignal{s1, s2}[:len(strands)] {
    intervals, err := FixedWidthPredictor(signal.Positions, signal.Density, params)
    if err != nil {
      return nil, nil, err
    }
    // drop peaks that are found in the padding only
    region   := Range{start, end}
    result[k] = []Interval{}
    for _, interval := range intervals {
      if region.Contains(interval.Start + params.FeatureWidth/2) {
        result[k] = append(result[k], interval)
      }
    }
    if p.Cache != nil {
      key := PredictionCacheKey(p.Store.Id(), label, start, end, strands[k], p.Config.Smoothing, params)
      if err := p.Cache.Put(key, result[k]); err != nil {
        return nil, nil, err
      }
    }
  }
  return result[0], result[1], nil
}
