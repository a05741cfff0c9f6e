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

package main

/* -------------------------------------------------------------------------- */

import   "fmt"
import   "log"
import   "os"
import   "strconv"

import   "github.com/pborman/getopt"

import . "github.com/pbenner/genetrack"

/* -------------------------------------------------------------------------- */

func index(config Config, filenameIn, filenameOut string, options IndexOptions) {
  logger := NewLogger(os.Stderr, config.Logging.Verbose)
  config.Store.Logger = &logger

  var store *Store
  var err   error
  if filenameOut != "" {
    if _, err = Build(filenameIn, filenameOut, config.Store); err == nil {
      store, err = OpenStore(filenameOut, config.Store)
    }
  } else {
    store, err = OpenIndex(filenameIn, options, config.Store)
  }
  if err != nil {
    log.Fatal(err)
  }
  defer store.Close()

  if summary, err := store.Summary(); err != nil {
    log.Fatal(err)
  } else {
    fmt.Printf("store `%s' (%s)\n", store.Path(), store.Id())
    fmt.Println(summary)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optConfig    := options. StringLong("config",           'c', "", "YAML configuration file [default: $GENETRACK_CONFIG]")
  optWorkdir   := options. StringLong("workdir",          'w', "", "directory of the index [default: directory of the input file]")
  optChunkSize := options. StringLong("chunk-size",        0 , "", "number of records buffered before flushing [default: 100000]")
  optMerge     := options.   BoolLong("merge-duplicates",  0 ,     "sum rows with identical positions")
  optUpdate    := options.   BoolLong("update",           'u',     "rebuild the index even if it exists")
  optVerbose   := options.CounterLong("verbose",          'v',     "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",             'h',     "print help")

  options.SetParameters("<INPUT.txt> [<OUTPUT.gtx>]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 1 && len(options.Args()) != 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  overrides := map[string]string{}
  if *optChunkSize != "" {
    if _, err := strconv.ParseInt(*optChunkSize, 10, 64); err != nil {
      log.Fatalf("invalid chunk size: %v", err)
    }
    overrides["store.chunk_size"] = *optChunkSize
  }
  if *optMerge {
    overrides["store.merge_duplicates"] = "true"
  }
  if *optWorkdir != "" {
    overrides["store.workdir"] = *optWorkdir
  }
  if *optVerbose > 0 {
    overrides["logging.verbose"] = strconv.Itoa(*optVerbose)
  }
  config, err := LoadConfigDefault(*optConfig, overrides)
  if err != nil {
    log.Fatal(err)
  }
  filenameIn  := options.Args()[0]
  filenameOut := ""
  if len(options.Args()) == 2 {
    filenameOut = options.Args()[1]
  }
  index(config, filenameIn, filenameOut, IndexOptions{Workdir: config.Store.Workdir, Update: *optUpdate})
}
