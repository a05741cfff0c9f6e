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

import   "bufio"
import   "fmt"
import   "io"
import   "log"
import   "os"
import   "strconv"

import   "github.com/pborman/getopt"

import . "github.com/pbenner/genetrack"

/* -------------------------------------------------------------------------- */

func printRecords(w io.Writer, r QueryResult) {
  for i := 0; i < r.Len(); i++ {
    fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\n", r.Label, r.Positions[i], r.Forward[i], r.Reverse[i], r.Combined[i])
  }
}

func list(store *Store) {
  if summary, err := store.Summary(); err != nil {
    log.Fatal(err)
  } else {
    fmt.Println(summary)
  }
}

func query(store *Store, label string, start, end, pad int) {
  r, err := store.Query(label, start, end, pad)
  if err != nil {
    log.Fatal(err)
  }
  w := bufio.NewWriter(os.Stdout)
  defer w.Flush()
  fmt.Fprintf(w, "# records [%d, %d) of `%s'\n", r.From, r.To, label)
  printRecords(w, r)
}

func dump(store *Store, label string, size, step int) {
  w := bufio.NewWriter(os.Stdout)
  defer w.Flush()
  it := store.Chunks(label, size, step)
  for ; it.Ok(); it.Next() {
    printRecords(w, it.Get())
  }
  if err := it.Err(); err != nil {
    w.Flush()
    log.Fatal(err)
  }
}

/* -------------------------------------------------------------------------- */

func parseInt(s string) int {
  if v, err := strconv.ParseInt(s, 10, 64); err != nil {
    log.Fatalf("invalid integer `%s'", s)
    return 0
  } else {
    return int(v)
  }
}

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optConfig    := options. StringLong("config",      'c', "",  "YAML configuration file [default: $GENETRACK_CONFIG]")
  optList      := options.   BoolLong("list",        'l',      "list chromosomes of the store")
  optDump      := options. StringLong("dump",        'd', "",  "print all records of a chromosome")
  optChunkSize := options.    IntLong("chunk-size",   0 , 100000, "number of records read at once when dumping a chromosome")
  optStep      := options.    IntLong("step",         0 , 1,   "print every n-th record when dumping a chromosome")
  optPad       := options.    IntLong("pad",         'p', 0,   "extend queried range by pad positions on both sides")
  optVerbose   := options.CounterLong("verbose",     'v',      "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",        'h',      "print help")

  options.SetParameters("<STORE.gtx> [<CHROM> <FROM> <TO>]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 1 && len(options.Args()) != 4 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  overrides := map[string]string{}
  if *optVerbose > 0 {
    overrides["logging.verbose"] = strconv.Itoa(*optVerbose)
  }
  config, err := LoadConfigDefault(*optConfig, overrides)
  if err != nil {
    log.Fatal(err)
  }
  logger := NewLogger(os.Stderr, config.Logging.Verbose)
  config.Store.Logger = &logger

  store, err := OpenStore(options.Args()[0], config.Store)
  if err != nil {
    log.Fatal(err)
  }
  defer store.Close()

  switch {
  case *optList:
    list(store)
  case *optDump != "":
    dump(store, *optDump, *optChunkSize, *optStep)
  case len(options.Args()) == 4:
    query(store, options.Args()[1], parseInt(options.Args()[2]), parseInt(options.Args()[3]), *optPad)
  default:
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
}
