// Package store manages the master session dataset in a bbolt database:
// deduplicating merges, ranged retrieval, and per-run merge metrics.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/svenhw/flapstats/export"
)

const (
	sessionBucket = "sessions"
	runBucket     = "runs"
)

const dbFileMode fs.FileMode = 0o600

var errDatasetLocked = errors.New(
	"is another flapstats instance running? Only one can use the dataset at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// MergeStats summarizes one merge into the master dataset.
type MergeStats struct {
	// Processed is the number of rows offered to the merge.
	Processed int `json:"processed"`
	// Added counts rows whose key was not yet in the dataset.
	Added int `json:"added"`
	// Duplicates counts rows whose key was already present.
	Duplicates int `json:"duplicates"`
	// Skipped counts rows without a resolved date, which have no stable
	// identity and cannot be merged.
	Skipped int `json:"skipped"`
	// Total is the dataset size after the merge.
	Total int `json:"total"`
}

// RunRecord captures one merge run for the processing metrics history.
type RunRecord struct {
	Timestamp     time.Time  `json:"timestamp"`
	Stats         MergeStats `json:"stats"`
	DuplicateRate float64    `json:"duplicate_rate"`
	DatasetStart  string     `json:"dataset_start,omitempty"`
	DatasetEnd    string     `json:"dataset_end,omitempty"`
}

// rowKey derives the stable identity of a dataset row. Rows without a
// resolved date have none.
func rowKey(row *export.Row) ([]byte, bool) {
	if row.Date == "" {
		return nil, false
	}

	key := fmt.Sprintf(
		"%s_%d_%s_%s",
		row.Date,
		row.Sequence,
		row.ExitTime,
		row.EntryTime,
	)

	return []byte(key), true
}

// Merge inserts the rows that are not already present, leaving existing
// rows untouched, and appends a run record to the metrics history. The
// whole merge commits atomically.
func (c *Client) Merge(rows []export.Row) (*RunRecord, error) {
	var (
		stats MergeStats
		rec   *RunRecord
	)

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		for i := range rows {
			row := &rows[i]
			stats.Processed++

			key, ok := rowKey(row)
			if !ok {
				stats.Skipped++
				continue
			}

			if b.Get(key) != nil {
				stats.Duplicates++
				continue
			}

			value, err := json.Marshal(row)
			if err != nil {
				return err
			}

			if err = b.Put(key, value); err != nil {
				return err
			}

			stats.Added++
		}

		cur := b.Cursor()

		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			stats.Total++
		}

		var err error
		rec, err = c.recordRun(tx, &stats)

		return err
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// recordRun appends the merge metrics to the runs bucket within the
// merge's own transaction.
func (c *Client) recordRun(tx *bolt.Tx, stats *MergeStats) (*RunRecord, error) {
	now := time.Now()

	rec := RunRecord{
		Timestamp: now,
		Stats:     *stats,
	}

	if stats.Processed > 0 {
		rec.DuplicateRate = float64(stats.Duplicates) /
			float64(stats.Processed)
	}

	cur := tx.Bucket([]byte(sessionBucket)).Cursor()

	if first, _ := cur.First(); len(first) >= len(time.DateOnly) {
		rec.DatasetStart = string(first[:len(time.DateOnly)])
	}

	if last, _ := cur.Last(); len(last) >= len(time.DateOnly) {
		rec.DatasetEnd = string(last[:len(time.DateOnly)])
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	err = tx.Bucket([]byte(runBucket)).
		Put([]byte(now.Format(time.RFC3339Nano)), value)
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// Sessions returns the stored rows whose date falls between startTime
// and endTime inclusive, ordered by date and sequence. A zero startTime
// scans from the beginning of the dataset, a zero endTime to its end.
func (c *Client) Sessions(
	startTime, endTime time.Time,
) ([]export.Row, error) {
	var rows []export.Row

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		min := []byte("")
		if !startTime.IsZero() {
			min = []byte(startTime.Format(time.DateOnly))
		}

		// '~' sorts after every character session keys are built from,
		// so this bound takes in all of the end date's sessions
		max := []byte("~")
		if !endTime.IsZero() {
			max = []byte(endTime.Format(time.DateOnly) + "~")
		}

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			var row export.Row

			if err := json.Unmarshal(v, &row); err != nil {
				return err
			}

			rows = append(rows, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// keys order sequence 10 before 2 within a day, so re-sort
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}

		return rows[i].Sequence < rows[j].Sequence
	})

	return rows, nil
}

// Delete removes the given rows from the dataset. Rows that are not
// present are ignored.
func (c *Client) Delete(rows []export.Row) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		for i := range rows {
			key, ok := rowKey(&rows[i])
			if !ok {
				continue
			}

			if err := b.Delete(key); err != nil {
				return err
			}
		}

		return nil
	})
}

// Runs returns the merge metrics history, oldest first.
func (c *Client) Runs() ([]RunRecord, error) {
	var recs []RunRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(runBucket)).Cursor()

		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var rec RunRecord

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			recs = append(recs, rec)
		}

		return nil
	})

	return recs, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	db, err := bolt.Open(
		pathToDB,
		dbFileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errDatasetLocked
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists([]byte(sessionBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists([]byte(runBucket))

		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
