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

func smooth(config Config, filename, label string, start, end int) {
  store, err := OpenStore(filename, config.Store)
  if err != nil {
    log.Fatal(err)
  }
  defer store.Close()

  predictor := RegionPredictor{Store: store, Config: config}

  s1, s2, err := predictor.Smooth(label, start, end)
  if err != nil {
    log.Fatal(err)
  }
  w := bufio.NewWriter(os.Stdout)
  defer w.Flush()

  if config.Peaks.Strand == "separate" {
    for i := 0; i < s1.Len(); i++ {
      fmt.Fprintf(w, "%s\t%d\t%f\t+\n", label, s1.Positions[i], s1.Density[i])
    }
    for i := 0; i < s2.Len(); i++ {
      fmt.Fprintf(w, "%s\t%d\t%f\t-\n", label, s2.Positions[i], s2.Density[i])
    }
  } else {
    for i := 0; i < s1.Len(); i++ {
      fmt.Fprintf(w, "%s\t%d\t%f\n", label, s1.Positions[i], s1.Density[i])
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  options := getopt.New()

  optConfig  := options. StringLong("config",  'c', "", "YAML configuration file [default: $GENETRACK_CONFIG]")
  optSigma   := options. StringLong("sigma",   's', "", "standard deviation of the Gaussian kernel [default: 20]")
  optEpsilon := options. StringLong("epsilon", 'e', "", "drop densities smaller or equal to epsilon [default: 0.01]")
  optStrand  := options. StringLong("strand",   0 , "", "combined or separate [default: combined]")
  optVerbose := options.CounterLong("verbose", 'v',     "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",    'h',     "print help")

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
    "smoothing.sigma"  : *optSigma,
    "smoothing.epsilon": *optEpsilon } {
    if value == "" {
      continue
    }
    if _, err := strconv.ParseFloat(value, 64); err != nil {
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
  smooth(config, options.Args()[0], options.Args()[1], int(start), int(end))
}
