// Package journal records the outcome of reconciler invocations.
//
// The journal is append-only and is never read back to make reconciliation
// decisions; it exists for auditing runs with the history command.
package journal

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	bolt "go.etcd.io/bbolt"
)

var entriesPath = []string{"journal", "entries"}

// An Entry is a single recorded invocation.
type Entry struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id,omitempty"` // Groups entries of a single playbook run.
	Time        time.Time `json:"time"`
	Kind        string    `json:"kind"` // application, version, environment or template.
	Name        string    `json:"name,omitempty"`
	Application string    `json:"app,omitempty"`
	Region      string    `json:"region,omitempty"`
	State       string    `json:"state"`
	Check       bool      `json:"check,omitempty"`
	Changed     bool      `json:"changed"`
	Output      string    `json:"output,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// A Filter limits the entries returned from List.
type Filter struct {
	Application string // Only entries for the application.
	RunID       string // Only entries from the run.
	Limit       int    // Maximum number of entries. Zero means no limit.
}

func (f Filter) match(e *Entry) bool {
	if f.Application != "" && e.Application != f.Application {
		return false
	}
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	return true
}

// Journal stores entries in a bolt db.
type Journal struct {
	db *bolt.DB

	// Now returns the time to record for entries without a time. If not set,
	// time.Now is used.
	Now func() time.Time
}

// DefaultFile returns the default file to use for the journal on disk.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get home dir")
	}
	return filepath.Join(home, ".beanstalk", "journal.db"), nil
}

// Open creates and opens a journal at the given file.
// If the file or directory does not exist, it is created.
func Open(file string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, errors.Wrapf(err, "ensure dir exists: %s", filepath.Dir(file))
	}
	db, err := bolt.Open(file, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt db")
	}
	return &Journal{db: db}, nil
}

// Close closes the journal and releases all resources.
func (j *Journal) Close() error {
	return j.db.Close()
}

// NewRunID returns a new unique id for grouping entries.
func NewRunID() string {
	return ksuid.New().String()
}

// Append adds an entry to the journal. The ID and Time are set if they are
// empty.
func (j *Journal) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = ksuid.New().String()
	}
	if e.Time.IsZero() {
		e.Time = j.now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal entry")
	}
	return j.db.Update(func(tx *bolt.Tx) error {
		bucket, err := createBucketIfNotExists(tx, entriesPath)
		if err != nil {
			return errors.Wrap(err, "ensure bucket")
		}
		seq, err := bucket.NextSequence()
		if err != nil {
			return errors.Wrap(err, "next sequence")
		}
		return bucket.Put(itob(seq), data)
	})
}

// List returns entries matching the filter, newest first.
func (j *Journal) List(ctx context.Context, filter Filter) ([]Entry, error) {
	var out []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		bucket := getBucket(tx, entriesPath)
		if bucket == nil {
			return nil
		}
		c := bucket.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return errors.Wrapf(err, "unmarshal entry %d", binary.BigEndian.Uint64(k))
			}
			if !filter.match(&e) {
				continue
			}
			out = append(out, e)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (j *Journal) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// createBucketIfNotExists creates any buckets on the given path that do not
// exist, and returns the final bucket.
func createBucketIfNotExists(tx *bolt.Tx, path []string) (*bolt.Bucket, error) {
	if len(path) == 0 {
		panic("path is empty")
	}
	bucket, err := tx.CreateBucketIfNotExists([]byte(path[0]))
	if err != nil {
		return nil, errors.Wrap(err, "root bucket")
	}
	for _, p := range path[1:] {
		tmp, err := bucket.CreateBucketIfNotExists([]byte(p))
		if err != nil {
			return nil, errors.Wrapf(err, "part %s", p)
		}
		bucket = tmp
	}
	return bucket, nil
}

// getBucket gets a bucket at the given path. Returns nil if the bucket does not exist.
func getBucket(tx *bolt.Tx, path []string) *bolt.Bucket {
	bucket := tx.Bucket([]byte(path[0]))
	for _, p := range path[1:] {
		if bucket == nil {
			break
		}
		bucket = bucket.Bucket([]byte(p))
	}
	return bucket
}
