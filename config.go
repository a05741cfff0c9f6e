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
import "os"
import "reflect"
import "strings"

import "github.com/go-playground/validator/v10"
import "github.com/knadh/koanf/parsers/yaml"
import "github.com/knadh/koanf/providers/env"
import "github.com/knadh/koanf/providers/file"
import "github.com/knadh/koanf/providers/structs"
import "github.com/knadh/koanf/v2"
import "github.com/rs/zerolog"

/* -------------------------------------------------------------------------- */

// Environment variables with this prefix override configuration values,
// nested keys are separated by two underscores, e.g.
// GENETRACK_SMOOTHING__SIGMA=15
const ConfigEnvPrefix = "GENETRACK_"

// Path of the configuration file if not given on the command line.
const ConfigPathEnvVar = "GENETRACK_CONFIG"

/* -------------------------------------------------------------------------- */

type StoreConfig struct {
  // number of records buffered before the builder flushes to disk
  ChunkSize       int    `koanf:"chunk_size"       validate:"min=1"`
  NaturalSort     bool   `koanf:"natural_sort"`
  MergeDuplicates bool   `koanf:"merge_duplicates"`
  Workdir         string `koanf:"workdir"`
  // number of items in the window buffer of a position column
  ColumnBuffer    int    `koanf:"column_buffer"    validate:"min=1"`
  Logger         *zerolog.Logger `koanf:"-"`
}

type SmoothingConfig struct {
  Sigma   float64 `koanf:"sigma"   validate:"gt=0"`
  Epsilon float64 `koanf:"epsilon" validate:"gte=0"`
}

type PeaksConfig struct {
  // exclusion zone, which is also the width of reported intervals
  Exclusion   int     `koanf:"exclusion"    validate:"min=0"`
  MinimumPeak float64 `koanf:"minimum_peak"`
  ZoomValue   int     `koanf:"zoom_value"   validate:"min=0"`
  Strand      string  `koanf:"strand"       validate:"oneof=combined separate"`
}

type PredictConfig struct {
  // largest coordinate span smoothed at once
  MaxSize int    `koanf:"max_size" validate:"min=1"`
  Threads int    `koanf:"threads"  validate:"min=1"`
  Format  string `koanf:"format"   validate:"oneof=bed json"`
}

type LoggingConfig struct {
  Verbose int `koanf:"verbose" validate:"min=0"`
}

type Config struct {
  Store     StoreConfig     `koanf:"store"`
  Smoothing SmoothingConfig `koanf:"smoothing"`
  Peaks     PeaksConfig     `koanf:"peaks"`
  Predict   PredictConfig   `koanf:"predict"`
  Logging   LoggingConfig   `koanf:"logging"`
}

/* -------------------------------------------------------------------------- */

func DefaultStoreConfig() StoreConfig {
  return StoreConfig{
    ChunkSize   : 100000,
    NaturalSort : true,
    ColumnBuffer: 512 }
}

func DefaultConfig() Config {
  return Config{
    Store    : DefaultStoreConfig(),
    Smoothing: SmoothingConfig{
      Sigma  : 20,
      Epsilon: 0.01 },
    Peaks    : PeaksConfig{
      Exclusion  : 100,
      MinimumPeak: 1,
      Strand     : "combined" },
    Predict  : PredictConfig{
      MaxSize: 10000000,
      Threads: 1,
      Format : "bed" },
  }
}

func (config StoreConfig) logger() zerolog.Logger {
  if config.Logger == nil {
    return zerolog.Nop()
  }
  return *config.Logger
}

/* -------------------------------------------------------------------------- */

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
  v := validator.New(validator.WithRequiredStructEnabled())
  // report fields by their configuration key
  v.RegisterTagNameFunc(func(field reflect.StructField) string {
    name := strings.SplitN(field.Tag.Get("koanf"), ",", 2)[0]
    if name == "-" {
      return ""
    }
    return name
  })
  return v
}

func validateStruct(s interface{}) error {
  err := configValidator.Struct(s)
  if err == nil {
    return nil
  }
  var fieldErrors validator.ValidationErrors
  if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
    e      := fieldErrors[0]
    reason := fmt.Sprintf("value `%v' violates `%s'", e.Value(), e.Tag())
    if e.Param() != "" {
      reason = fmt.Sprintf("value `%v' violates `%s=%s'", e.Value(), e.Tag(), e.Param())
    }
    // strip the name of the root struct
    field := e.Namespace()
    if i := strings.Index(field, "."); i >= 0 {
      field = field[i+1:]
    }
    return &ConfigError{Field: field, Reason: reason}
  }
  return err
}

func (config Config) Validate() error {
  return validateStruct(config)
}

func (config StoreConfig) Validate() error {
  return validateStruct(config)
}

/* -------------------------------------------------------------------------- */

func envTransform(key string) string {
  key = strings.TrimPrefix(key, ConfigEnvPrefix)
  key = strings.ToLower(key)
  return strings.ReplaceAll(key, "__", ".")
}

// Load the configuration. Defaults are overridden by the YAML file at
// path (if path is not empty) and by GENETRACK_* environment variables.
func LoadConfig(path string) (Config, error) {
  return LoadConfigWithOverrides(path, nil)
}

// Same as LoadConfig, but values in overrides take precedence over all
// other sources. Keys are configuration paths such as smoothing.sigma.
func LoadConfigWithOverrides(path string, overrides map[string]string) (Config, error) {
  k := koanf.New(".")

  if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
    return Config{}, fmt.Errorf("loading defaults failed: %w", err)
  }
  if path != "" {
    if _, err := os.Stat(path); err != nil {
      return Config{}, &IOError{Path: path, Err: err}
    }
    if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
      return Config{}, fmt.Errorf("loading config file `%s' failed: %w", path, err)
    }
  }
  if err := k.Load(env.Provider(ConfigEnvPrefix, ".", envTransform), nil); err != nil {
    return Config{}, fmt.Errorf("loading environment failed: %w", err)
  }
  for key, value := range overrides {
    if err := k.Set(key, value); err != nil {
      return Config{}, &ConfigError{Field: key, Reason: err.Error()}
    }
  }
  config := Config{}
  if err := k.Unmarshal("", &config); err != nil {
    return Config{}, fmt.Errorf("decoding configuration failed: %w", err)
  }
  if err := config.Validate(); err != nil {
    return Config{}, err
  }
  return config, nil
}

// Same as LoadConfigWithOverrides but takes the path from
// GENETRACK_CONFIG if the argument is empty.
func LoadConfigDefault(path string, overrides map[string]string) (Config, error) {
  if path == "" {
    path = os.Getenv(ConfigPathEnvVar)
  }
  return LoadConfigWithOverrides(path, overrides)
}
