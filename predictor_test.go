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

import   "errors"
import   "reflect"
import   "testing"

/* -------------------------------------------------------------------------- */

func TestFixedWidthPredictor(t *testing.T) {
  x := testPeaksX()

  r, err := FixedWidthPredictor(x, testPeaksY, PredictorParams{FeatureWidth: 2, MinimumPeak: 3})
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r, []Interval{{3, 5, "3.5", 3.5}, {7, 9, "10.5", 10.5}}) {
    t.Errorf("TestFixedWidthPredictor failed: %v", r)
  }
  r, err = FixedWidthPredictor(x, testPeaksY, PredictorParams{FeatureWidth: 1, MinimumPeak: 0})
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r, []Interval{{2, 2, "2.5", 2.5}, {4, 4, "3.5", 3.5}, {8, 8, "10.5", 10.5}}) {
    t.Errorf("TestFixedWidthPredictor failed: %v", r)
  }
  r, err = FixedWidthPredictor(x, testPeaksY, PredictorParams{FeatureWidth: 3, MinimumPeak: 0})
  if err != nil {
    t.Fatal(err)
  }
  if !reflect.DeepEqual(r, []Interval{{3, 5, "3.5", 3.5}, {7, 9, "10.5", 10.5}}) {
    t.Errorf("TestFixedWidthPredictor failed: %v", r)
  }
}

func TestFixedWidthPredictorLabels(t *testing.T) {
  x := testPeaksX()

  r, err := FixedWidthPredictor(x, testPeaksY, PredictorParams{FeatureWidth: 2, MinimumPeak: 3, ZoomValue: LabelZoomLimit})
  if err != nil {
    t.Fatal(err)
  }
  if len(r) != 2 || r[0].Label != "3.5" {
    t.Errorf("TestFixedWidthPredictorLabels failed: %v", r)
  }
  r, err = FixedWidthPredictor(x, testPeaksY, PredictorParams{FeatureWidth: 2, MinimumPeak: 3, ZoomValue: LabelZoomLimit+1})
  if err != nil {
    t.Fatal(err)
  }
  if len(r) != 2 || r[0].Label != "" || r[1].Label != "" || r[1].Height != 10.5 {
    t.Errorf("TestFixedWidthPredictorLabels failed: %v", r)
  }
}

func TestFixedWidthPredictorErrors(t *testing.T) {
  var configError *ConfigError
  if _, err := FixedWidthPredictor([]int{}, []float64{}, PredictorParams{FeatureWidth: -2}); !errors.As(err, &configError) {
    t.Errorf("TestFixedWidthPredictorErrors failed: %v", err)
  }
  if r, err := FixedWidthPredictor([]int{}, []float64{}, PredictorParams{FeatureWidth: 2}); err != nil || len(r) != 0 {
    t.Errorf("TestFixedWidthPredictorErrors failed: %v", err)
  }
}
