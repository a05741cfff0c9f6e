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
import "os"

import "github.com/rs/zerolog"

/* -------------------------------------------------------------------------- */

// Console logger for command line tools. Verbosity 0 reports warnings
// and errors, 1 adds progress information and 2 debug messages.
func NewLogger(w io.Writer, verbose int) zerolog.Logger {
  if w == nil {
    w = os.Stderr
  }
  level := zerolog.WarnLevel
  switch {
  case verbose >= 2:
    level = zerolog.DebugLevel
  case verbose == 1:
    level = zerolog.InfoLevel
  }
  output := zerolog.ConsoleWriter{
    Out       : w,
    TimeFormat: "15:04:05",
    NoColor   : true }
  return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
