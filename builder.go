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
import "errors"
import "fmt"
import "io"
import "io/fs"
import "os"
import "path/filepath"
import "strconv"
import "strings"
import "time"

/* -------------------------------------------------------------------------- */

type BuildStats struct {
  // number of data rows read from the input
  Lines   int
  // number of records written, smaller than Lines if duplicates are merged
  Records int
  Tables  int
  Elapsed time.Duration
}

/* -------------------------------------------------------------------------- */

// Blank lines and comments are skipped anywhere, track and header lines
// only before the first data row.
func skipInputLine(line string, preamble bool) bool {
  switch {
  case strings.TrimSpace(line) == "":
    return true
  case strings.HasPrefix(line, "#"):
    return true
  case !preamble:
    return false
  case line == "track" || strings.HasPrefix(line, "track ") || strings.HasPrefix(line, "track\t"):
    return true
  case strings.HasPrefix(line, "chrom\t"):
    return true
  }
  return false
}

func parseInputRecord(fields []string) (Record, error) {
  record := Record{}
  if fields[1] == "" {
    return record, fmt.Errorf("empty position field")
  }
  if v, err := strconv.ParseInt(fields[1], 10, 64); err != nil {
    return record, fmt.Errorf("invalid position `%s'", fields[1])
  } else {
    record.Position = int(v)
  }
  if record.Position < 0 {
    return record, fmt.Errorf("negative position `%s'", fields[1])
  }
  for k, dst := range []*float64{&record.Forward, &record.Reverse, &record.Combined} {
    v, err := strconv.ParseFloat(strings.TrimSpace(fields[k+2]), 64)
    if err != nil {
      return record, fmt.Errorf("invalid value `%s' in column %d", fields[k+2], k+3)
    }
    *dst = v
  }
  return record, nil
}

/* -------------------------------------------------------------------------- */

// Build a store from a tab-delimited signal file with columns chrom,
// index, forward, reverse and value. Rows must be sorted by chromosome
// and position. The input may be gzip compressed. A build that fails
// leaves all tables written so far in the store.
func Build(input, output string, config StoreConfig) (BuildStats, error) {
  if err := config.Validate(); err != nil {
    return BuildStats{}, err
  }
  r, err := openInput(input)
  if err != nil {
    return BuildStats{}, err
  }
  defer r.Close()

  writer, err := CreateStore(output, config)
  if err != nil {
    return BuildStats{}, err
  }
  stats, err := buildTables(r, input, writer, config)
  if e := writer.Close(); e != nil && err == nil {
    err = e
  }
  return stats, err
}

func buildTables(r io.Reader, input string, writer *StoreWriter, config StoreConfig) (BuildStats, error) {
  stats  := BuildStats{}
  logger := config.logger()
  timer  := NewTimer()
  start  := time.Now()

  logger.Info().Str("file", input).Str("size", fileSize(input)).Str("index", writer.path).Msg("building index")

  // add location information to errors of the writer
  located := func(err error, line int) error {
    var e *UnsortedInputError
    if errors.As(err, &e) {
      e.Path = input
      e.Line = line
    }
    return err
  }
  current     := ""
  pending     := Record{}
  pendingLine := 0
  hasPending  := false

  scanner := bufio.NewScanner(r)
  scanner.Buffer(make([]byte, 64*1024), 1024*1024)

  for line := 1; scanner.Scan(); line++ {
    text := scanner.Text()
    if skipInputLine(text, stats.Lines == 0) {
      continue
    }
    fields := strings.Split(text, "\t")
    if len(fields) != 5 {
      return stats, &ParseError{Path: input, Line: line,
        Err: fmt.Errorf("expected 5 fields but found %d", len(fields))}
    }
    record, err := parseInputRecord(fields)
    if err != nil {
      return stats, &ParseError{Path: input, Line: line, Err: err}
    }
    label := fields[0]
    merge := config.MergeDuplicates && hasPending && label == current && record.Position == pending.Position

    if hasPending && !merge {
      if err := writer.Append(pending); err != nil {
        return stats, located(err, pendingLine)
      }
      stats.Records++
      hasPending = false
    }
    if label != current {
      if err := writer.NewTable(label); err != nil {
        return stats, located(err, line)
      }
      current = label
      stats.Tables++
    }
    if merge {
      pending.Forward  += record.Forward
      pending.Reverse  += record.Reverse
      pending.Combined += record.Combined
    } else {
      pending     = record
      pendingLine = line
      hasPending  = true
    }
    stats.Lines++
    if stats.Lines % config.ChunkSize == 0 {
      if err := writer.Flush(); err != nil {
        return stats, err
      }
      logger.Info().Msgf("processed %s lines", commify(stats.Lines))
    }
  }
  if err := scanner.Err(); err != nil {
    return stats, &IOError{Path: input, Err: err}
  }
  if hasPending {
    if err := writer.Append(pending); err != nil {
      return stats, located(err, pendingLine)
    }
    stats.Records++
  }
  stats.Elapsed = time.Since(start)
  logger.Info().Msgf("finished inserting %s lines in %s", commify(stats.Lines), timer.Report())
  return stats, nil
}

/* -------------------------------------------------------------------------- */

type IndexOptions struct {
  // directory of the index, defaults to the directory of the input file
  Workdir string
  // rebuild the index even if it exists
  Update  bool
  // fail instead of building a missing index
  NoBuild bool
}

// Location of the store that indexes the given input file.
func IndexPath(input, workdir string) string {
  dir, base := filepath.Split(input)
  if workdir != "" {
    dir = workdir
  }
  return filepath.Join(dir, base+".gtx")
}

// Open the store of an input file. The store is built if it is missing
// or an update is requested.
func OpenIndex(input string, options IndexOptions, config StoreConfig) (*Store, error) {
  if options.Workdir == "" {
    options.Workdir = config.Workdir
  }
  path   := IndexPath(input, options.Workdir)
  logger := config.logger()
  logger.Debug().Str("file", input).Str("index", path).Msg("opening index")

  _, err  := os.Stat(path)
  missing := errors.Is(err, fs.ErrNotExist)
  if options.NoBuild && missing {
    return nil, &NotFoundError{What: "index", Name: path}
  }
  if options.Update || missing {
    if options.Workdir != "" {
      if err := os.MkdirAll(options.Workdir, 0755); err != nil {
        return nil, &IOError{Path: options.Workdir, Err: err}
      }
    }
    // build under a temporary name so that a failed build never leaves
    // an incomplete index behind
    partial := path + ".partial"
    if _, err := Build(input, partial, config); err != nil {
      os.Remove(partial)
      return nil, err
    }
    if err := os.Rename(partial, path); err != nil {
      os.Remove(partial)
      return nil, &IOError{Path: path, Err: err}
    }
  }
  return OpenStore(path, config)
}
