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

import "math"

import "gonum.org/v1/gonum/floats"

/* -------------------------------------------------------------------------- */

// Kernel values exp(-i^2/(2 sigma^2)) for offsets i in [-w, w] with
// w = 5 sigma. The kernel is not normalized, so that smoothed signals
// keep the unit of read counts.
func GaussianKernel(sigma float64) (int, []float64) {
  w      := int(5*sigma)
  kernel := make([]float64, 2*w+1)
  for i := -w; i <= w; i++ {
    kernel[i+w] = math.Exp(-float64(i*i)/(2*sigma*sigma))
  }
  return w, kernel
}

/* -------------------------------------------------------------------------- */

// Convolve the point signal (x, y) with a Gaussian kernel. Only positions
// with a density strictly greater than epsilon are returned.
func GaussianSmoothing(x []int, y []float64, sigma, epsilon float64) ([]int, []float64, error) {
  if len(x) != len(y) {
    return nil, nil, ErrLengthMismatch
  }
  if !(sigma > 0) {
    return nil, nil, &ConfigError{Field: "sigma", Reason: "must be positive"}
  }
  if epsilon < 0 {
    return nil, nil, &ConfigError{Field: "epsilon", Reason: "must not be negative"}
  }
  if len(x) == 0 {
    return x, y, nil
  }
  w, kernel := GaussianKernel(sigma)

  xmin, xmax := x[0], x[0]
  for _, xi := range x {
    xmin = iMin(xmin, xi)
    xmax = iMax(xmax, xi)
  }
  // buffer index j corresponds to position j+xmin-w
  buffer := make([]float64, xmax-xmin+2*w+1)
  for i, xi := range x {
    k := xi - xmin
    floats.AddScaled(buffer[k:k+2*w+1], y[i], kernel)
  }
  rx := []int{}
  ry := []float64{}
  for j, v := range buffer {
    if v > epsilon {
      rx = append(rx, j+xmin-w)
      ry = append(ry, v)
    }
  }
  return rx, ry, nil
}

/* -------------------------------------------------------------------------- */

type SmoothedSignal struct {
  Positions []int
  Density   []float64
}

func (s SmoothedSignal) Len() int {
  return len(s.Positions)
}

// Total density of the signal.
func (s SmoothedSignal) Mass() float64 {
  return floats.Sum(s.Density)
}

// Smooth one strand of a query result, strand is `+', `-' or any other
// value for the combined signal.
func SmoothQuery(r QueryResult, strand byte, config SmoothingConfig) (SmoothedSignal, error) {
  x, y, err := GaussianSmoothing(r.Positions, r.Values(strand), config.Sigma, config.Epsilon)
  if err != nil {
    return SmoothedSignal{}, err
  }
  return SmoothedSignal{Positions: x, Density: y}, nil
}
