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

import "sort"
import "strings"

/* -------------------------------------------------------------------------- */

// Split a label into alternating runs of non-digits and digits. The first
// run is always a (possibly empty) non-digit run, so that runs at even
// positions are text and runs at odd positions are numbers.
func naturalRuns(s string) []string {
  runs := []string{}
  i    := 0
  for digits := false; i <= len(s); digits = !digits {
    j := i
    for j < len(s) && isDigit(s[j]) == digits {
      j++
    }
    runs = append(runs, s[i:j])
    if j == len(s) {
      break
    }
    i = j
  }
  return runs
}

func isDigit(c byte) bool {
  return c >= '0' && c <= '9'
}

// Compare two digit runs by their integer value without converting them,
// numbers may exceed the range of int.
func compareDigits(a, b string) int {
  a = strings.TrimLeft(a, "0")
  b = strings.TrimLeft(b, "0")
  if len(a) != len(b) {
    if len(a) < len(b) {
      return -1
    }
    return 1
  }
  return strings.Compare(a, b)
}

/* -------------------------------------------------------------------------- */

// Natural (alphanumeric) order, i.e. chr2 < chr10. Labels that compare
// equal by value (chr01, chr1) are ordered by plain string comparison.
func NaturalLess(a, b string) bool {
  ra := naturalRuns(a)
  rb := naturalRuns(b)
  for i := 0; i < len(ra) && i < len(rb); i++ {
    var c int
    if i % 2 == 0 {
      c = strings.Compare(ra[i], rb[i])
    } else {
      c = compareDigits(ra[i], rb[i])
    }
    if c != 0 {
      return c < 0
    }
  }
  if len(ra) != len(rb) {
    return len(ra) < len(rb)
  }
  return a < b
}

func NaturalSort(labels []string) {
  sort.SliceStable(labels, func(i, j int) bool {
    return NaturalLess(labels[i], labels[j])
  })
}
