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
import   "log"
import   "os"
import   "strconv"

import   "github.com/pborman/getopt"

import . "github.com/pbenner/genetrack"

/* -------------------------------------------------------------------------- */

func printIntervals(w *bufio.Writer, label string, strand byte, intervals []Interval) {
  for _, r := range intervals {
    name := r.Label
    if name == "" {
      name = "."
    }
    fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%f\t%c\n", label, r.Start, r.End, name, r.Height, strand)
  }
}

func peaks(config Config, filename, cacheDir, label string, start, end int) {
  store, err := OpenStore(filename, config.Store)
  if err != nil {
    log.Fatal(err)
  }
  defer store.Close()

  predictor := RegionPredictor{Store: store, Config: config}

  if cacheDir != "" {
    cache, err := OpenPredictionCache(cacheDir)
    if err != nil {
      log.Fatal(err)
    }
    defer cache.Close()
    predictor.Cache = cache
  }
  r1, r2, err := predictor.Predict(label, start, end)
  if err != nil {
    log.Fatal(err)
  }
  w := bufio.NewWriter(os.Stdout)
  defer w.Flush()

  if config.Peaks.Strand == "separate" {
    printIntervals(w, label, '+', r1)
    printIntervals(w, label, '-', r2)
  } else {
    printIntervals(w, label, '.', r1)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optConfig    := options. StringLong("config",       'c', "", "YAML configuration file [default: $GENETRACK_CONFIG]")
  optCache     := options. StringLong("cache",         0 , "", "directory of a persistent prediction cache")
  optSigma     := options. StringLong("sigma",        's', "", "standard deviation of the Gaussian kernel [default: 20]")
  optEpsilon   := options. StringLong("epsilon",      'e', "", "drop densities smaller or equal to epsilon [default: 0.01]")
  optExclusion := options. StringLong("exclusion",    'x', "", "exclusion zone and width of reported intervals [default: 100]")
  optMinimum   := options. StringLong("minimum-peak", 'm', "", "minimal height of reported peaks [default: 1]")
  optZoom      := options. StringLong("zoom",          0 , "", "width of the view, labels are omitted above 5000 [default: region width]")
  optStrand    := options. StringLong("strand",        0 , "", "combined or separate [default: combined]")
  optVerbose   := options.CounterLong("verbose",      'v',     "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",         'h',     "print help")

  options.SetParameters("<STORE.gtx> <CHROM> <FROM> <TO>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 4 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  overrides := map[string]string{}
  for key, value := range map[string]string{
    "smoothing.sigma"   : *optSigma,
    "smoothing.epsilon" : *optEpsilon,
    "peaks.minimum_peak": *optMinimum } {
    if value == "" {
      continue
    }
    if _, err := strconv.ParseFloat(value, 64); err != nil {
      log.Fatalf("invalid value for `%s': %s", key, value)
    }
    overrides[key] = value
  }
  for key, value := range map[string]string{
    "peaks.exclusion": *optExclusion,
    "peaks.zoom_value": *optZoom } {
    if value == "" {
      continue
    }
    if _, err := strconv.ParseInt(value, 10, 64); err != nil {
      log.Fatalf("invalid value for `%s': %s", key, value)
    }
    overrides[key] = value
  }
  if *optStrand != "" {
    overrides["peaks.strand"] = *optStrand
  }
  if *optVerbose > 0 {
    overrides["logging.verbose"] = strconv.Itoa(*optVerbose)
  }
  config, err := LoadConfigDefault(*optConfig, overrides)
  if err != nil {
    log.Fatal(err)
  }
  logger := NewLogger(os.Stderr, config.Logging.Verbose)
  config.Store.Logger = &logger

  start, err1 := strconv.ParseInt(options.Args()[2], 10, 64)
  end,   err2 := strconv.ParseInt(options.Args()[3], 10, 64)
  if err1 != nil || err2 != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  peaks(config, options.Args()[0], *optCache, options.Args()[1], int(start), int(end))
}
