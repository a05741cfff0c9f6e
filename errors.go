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

import "errors"
import "fmt"

/* -------------------------------------------------------------------------- */

// Returned by the smoother and the peak detector if the coordinate and
// value slices differ in length.
var ErrLengthMismatch = errors.New("x and y have different lengths")

/* -------------------------------------------------------------------------- */

// A store file, an input file or a chromosome label does not exist.
type NotFoundError struct {
  What string
  Name string
}

func (err *NotFoundError) Error() string {
  return fmt.Sprintf("%s `%s' not found", err.What, err.Name)
}

/* -------------------------------------------------------------------------- */

type IOError struct {
  Path string
  Err  error
}

func (err *IOError) Error() string {
  return fmt.Sprintf("i/o error on `%s': %v", err.Path, err.Err)
}

func (err *IOError) Unwrap() error {
  return err.Err
}

/* -------------------------------------------------------------------------- */

// A malformed row in a signal file. Parse errors abort the build.
type ParseError struct {
  Path string
  Line int
  Err  error
}

func (err *ParseError) Error() string {
  return fmt.Sprintf("parsing `%s' failed at line %d: %v", err.Path, err.Line, err.Err)
}

func (err *ParseError) Unwrap() error {
  return err.Err
}

/* -------------------------------------------------------------------------- */

// Positions must be sorted in increasing order within a chromosome and
// every chromosome must form a single contiguous block. Line is zero if
// the violation was detected on an existing store.
type UnsortedInputError struct {
  Path     string
  Line     int
  Label    string
  Position int
  Previous int
  // set if the label was seen before in another block
  Split    bool
}

func (err *UnsortedInputError) Error() string {
  if err.Split {
    return fmt.Sprintf("`%s' is not sorted at line %d: `%s' appears in more than one block",
      err.Path, err.Line, err.Label)
  }
  if err.Line > 0 {
    return fmt.Sprintf("`%s' is not sorted at line %d: position %d on `%s' follows %d",
      err.Path, err.Line, err.Position, err.Label, err.Previous)
  }
  return fmt.Sprintf("`%s' is not sorted: position %d on `%s' follows %d",
    err.Path, err.Position, err.Label, err.Previous)
}

/* -------------------------------------------------------------------------- */

type ClosedError struct {
  Path string
}

func (err *ClosedError) Error() string {
  return fmt.Sprintf("store `%s' is closed", err.Path)
}

/* -------------------------------------------------------------------------- */

type ConfigError struct {
  Field  string
  Reason string
}

func (err *ConfigError) Error() string {
  return fmt.Sprintf("invalid parameter `%s': %s", err.Field, err.Reason)
}
