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

import "github.com/dgraph-io/badger/v4"
import "github.com/goccy/go-json"
import "github.com/google/uuid"

/* -------------------------------------------------------------------------- */

const predictionKeyPrefix = "prediction:"

// Persistent dictionary of region predictions. Keys identify the store,
// the region and all parameters of the prediction.
type PredictionCache struct {
  db *badger.DB
}

/* -------------------------------------------------------------------------- */

// Open a cache in directory dir, an empty directory name creates a cache
// that lives in memory.
func OpenPredictionCache(dir string) (*PredictionCache, error) {
  var opts badger.Options
  if dir == "" {
    opts = badger.DefaultOptions("").WithInMemory(true)
  } else {
    opts = badger.DefaultOptions(dir)
  }
  db, err := badger.Open(opts.WithLogger(nil))
  if err != nil {
    return nil, &IOError{Path: dir, Err: err}
  }
  return &PredictionCache{db: db}, nil
}

func PredictionCacheKey(id uuid.UUID, label string, start, end int, strand byte, smoothing SmoothingConfig, params PredictorParams) string {
  return fmt.Sprintf("%s%s:%s:%d:%d:%c:sigma=%g:epsilon=%g:%s",
    predictionKeyPrefix, id.String(), label, start, end, strand, smoothing.Sigma, smoothing.Epsilon, params.String())
}

/* -------------------------------------------------------------------------- */

// Returns false if the key is not in the cache.
func (cache *PredictionCache) Get(key string) ([]Interval, bool, error) {
  var intervals []Interval

  err := cache.db.View(func(txn *badger.Txn) error {
    item, err := txn.Get([]byte(key))
    if err != nil {
      return err
    }
    return item.Value(func(val []byte) error {
      return json.Unmarshal(val, &intervals)
    })
  })
  if errors.Is(err, badger.ErrKeyNotFound) {
    return nil, false, nil
  }
  if err != nil {
    return nil, false, fmt.Errorf("reading prediction cache failed: %w", err)
  }
  return intervals, true, nil
}

func (cache *PredictionCache) Put(key string, intervals []Interval) error {
  if intervals == nil {
    intervals = []Interval{}
  }
  data, err := json.Marshal(intervals)
  if err != nil {
    return fmt.Errorf("marshal prediction: %w", err)
  }
  return cache.db.Update(func(txn *badger.Txn) error {
    return txn.Set([]byte(key), data)
  })
}

// Number of cached predictions.
func (cache *PredictionCache) Len() (int, error) {
  n := 0
  err := cache.db.View(func(txn *badger.Txn) error {
    opts := badger.DefaultIteratorOptions
    opts.PrefetchValues = false
    it := txn.NewIterator(opts)
    defer it.Close()

    prefix := []byte(predictionKeyPrefix)
    for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
      n++
    }
    return nil
  })
  return n, err
}

// Remove all cached predictions.
func (cache *PredictionCache) Clear() error {
  return cache.db.DropPrefix([]byte(predictionKeyPrefix))
}

func (cache *PredictionCache) Close() error {
  return cache.db.Close()
}
