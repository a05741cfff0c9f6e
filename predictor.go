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

import "fmt"

/* -------------------------------------------------------------------------- */

// Labels are omitted if the view spans more than this many coordinates.
const LabelZoomLimit = 5000

/* -------------------------------------------------------------------------- */

type Interval struct {
  Start  int     `json:"start"`
  End    int     `json:"end"`
  Label  string  `json:"label"`
  // height of the underlying peak
  Height float64 `json:"height"`
}

type PredictorParams struct {
  // width of reported intervals, also used as exclusion zone
  FeatureWidth int
  MinimumPeak  float64
  // span of the current view
  ZoomValue    int
}

func (params PredictorParams) Validate() error {
  if params.FeatureWidth < 0 {
    return &ConfigError{Field: "feature_width", Reason: "must not be negative"}
  }
  if params.ZoomValue < 0 {
    return &ConfigError{Field: "zoom_value", Reason: "must not be negative"}
  }
  return nil
}

func (params PredictorParams) String() string {
  return fmt.Sprintf("width=%d:minimum=%g:zoom=%d", params.FeatureWidth, params.MinimumPeak, params.ZoomValue)
}

// Parameters of the interval formatter as given by the configuration.
func NewPredictorParams(config PeaksConfig) PredictorParams {
  return PredictorParams{
    FeatureWidth: config.Exclusion,
    MinimumPeak : config.MinimumPeak,
    ZoomValue   : config.ZoomValue }
}

/* -------------------------------------------------------------------------- */

// Intervals of fixed width centered at the given peaks, extending
// width/2 coordinates to both sides. An odd width is rounded down to the
// next even width.
func PeakIntervals(peaks Peaks, params PredictorParams) []Interval {
  h := params.FeatureWidth/2
  r := make([]Interval, len(peaks))
  for i, p := range peaks {
    r[i].Start  = p.Position - h
    r[i].End    = p.Position + h
    r[i].Height = p.Height
    if params.ZoomValue <= LabelZoomLimit {
      r[i].Label = fmt.Sprintf("%.1f", p.Height)
    }
  }
  return r
}

// Detect and select peaks of a smoothed signal, the feature width is used
// as exclusion zone and peaks lower than the minimum are dropped.
func FixedWidthPredictor(x []int, y []float64, params PredictorParams) ([]Interval, error) {
  if err := params.Validate(); err != nil {
    return nil, err
  }
  peaks, err := DetectPeaks(x, y)
  if err != nil {
    return nil, err
  }
  selected, err := SelectPeaks(peaks, params.FeatureWidth, params.MinimumPeak)
  if err != nil {
    return nil, err
  }
  return PeakIntervals(selected, params), nil
}
