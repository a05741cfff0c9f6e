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

import   "io"
import   "log"
import   "os"
import   "strconv"
import   "strings"

import   "github.com/pborman/getopt"

import . "github.com/pbenner/genetrack"

/* -------------------------------------------------------------------------- */

func predict(config Config, filenameIn, filenameOut string, status bool) {
  logger := NewLogger(os.Stderr, config.Logging.Verbose)
  config.Store.Logger = &logger

  var statusWriter io.Writer
  if status {
    statusWriter = os.Stderr
  }
  r, err := Predict(filenameIn, config, statusWriter)
  if err != nil {
    log.Fatal(err)
  }
  switch {
  case config.Predict.Format == "json" && filenameOut == "":
    err = r.WriteJSON(os.Stdout)
  case config.Predict.Format == "json":
    var f *os.File
    if f, err = os.Create(filenameOut); err == nil {
      if err = r.WriteJSON(f); err == nil {
        err = f.Close()
      } else {
        f.Close()
      }
    }
  case filenameOut == "":
    err = r.WriteBed6To(os.Stdout)
  default:
    err = r.WriteBed6(filenameOut, strings.HasSuffix(filenameOut, ".gz"))
  }
  if err != nil {
    log.Fatal(err)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optConfig    := options. StringLong("config",       'c', "", "YAML configuration file [default: $GENETRACK_CONFIG]")
  optSigma     := options. StringLong("sigma",        's', "", "standard deviation of the Gaussian kernel [default: 20]")
  optEpsilon   := options. StringLong("epsilon",      'e', "", "drop densities smaller or equal to epsilon [default: 0.01]")
  optExclusion := options. StringLong("exclusion",    'x', "", "exclusion zone and width of reported intervals [default: 100]")
  optMinimum   := options. StringLong("minimum-peak", 'm', "", "minimal height of reported peaks [default: 1]")
  optZoom      := options. StringLong("zoom",          0 , "", "labels are omitted if zoom is larger than 5000 [default: 0]")
  optStrand    := options. StringLong("strand",        0 , "", "combined or separate [default: combined]")
  optMaxSize   := options. StringLong("max-size",      0 , "", "maximal number of coordinates smoothed at once [default: 10000000]")
  optThreads   := options. StringLong("threads",      't', "", "number of threads [default: 1]")
  optFormat    := options. StringLong("format",       'f', "", "output format, bed or json [default: bed]")
  optProgress  := options.   BoolLong("progress",      0 ,     "show progress bar")
  optVerbose   := options.CounterLong("verbose",      'v',     "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",         'h',     "print help")

  options.SetParameters("<STORE.gtx> [<OUTPUT.bed|OUTPUT.bed.gz|OUTPUT.json>]")
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
    "peaks.exclusion" : *optExclusion,
    "peaks.zoom_value": *optZoom,
    "predict.max_size": *optMaxSize,
    "predict.threads" : *optThreads } {
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
  if *optFormat != "" {
    overrides["predict.format"] = strings.ToLower(*optFormat)
  }
  if *optVerbose > 0 {
    overrides["logging.verbose"] = strconv.Itoa(*optVerbose)
  }
  config, err := LoadConfigDefault(*optConfig, overrides)
  if err != nil {
    log.Fatal(err)
  }
  filenameOut := ""
  if len(options.Args()) == 2 {
    filenameOut = options.Args()[1]
  }
  predict(config, options.Args()[0], filenameOut, *optProgress)
}
