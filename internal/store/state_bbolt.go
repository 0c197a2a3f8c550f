package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/Roelanb/kanbanview/internal/board"
)

var (
	boardsBucket = []byte("boards")
	logsBucket   = []byte("logs")
)

// BoardRecord is the last good copy of a board file.
type BoardRecord struct {
	Name      string       `json:"name"`
	Title     string       `json:"title,omitempty"`
	Source    string       `json:"source,omitempty"`
	Board     *board.Board `json:"board"`
	UpdatedAt time.Time    `json:"updated_at"`
	CreatedAt time.Time    `json:"created_at"`
}

// LogEntry is a message the webview sent through the host bridge.
type LogEntry struct {
	ID            string    `json:"id"`
	Board         string    `json:"board,omitempty"`
	Message       string    `json:"message"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	Close() error
	PutBoard(rec *BoardRecord) error
	GetBoard(name string) (*BoardRecord, error)
	ListBoards() ([]BoardRecord, error)
	AppendLog(entry *LogEntry) error
	RecentLogs(limit int) ([]LogEntry, error)
}

type BBoltStore struct {
	db *bolt.DB
}

func OpenBBolt(path string) (*BBoltStore, error) {
	if path == "" {
		return nil, errors.New("bbolt path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir state dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(boardsBucket); e != nil {
			return e
		}
		if _, e := tx.CreateBucketIfNotExists(logsBucket); e != nil {
			return e
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BBoltStore{db: db}, nil
}

func (s *BBoltStore) Close() error {
	return s.db.Close()
}

// PutBoard stores rec under its name, keeping the original creation time.
func (s *BBoltStore) PutBoard(rec *BoardRecord) error {
	if rec.Name == "" {
		return errors.New("board record name is empty")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(boardsBucket)
		rec.UpdatedAt = time.Now()
		if v := bkt.Get([]byte(rec.Name)); v != nil {
			var prev BoardRecord
			if err := json.Unmarshal(v, &prev); err == nil {
				rec.CreatedAt = prev.CreatedAt
			}
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = rec.UpdatedAt
		}
		return putJSON(bkt, []byte(rec.Name), rec)
	})
}

// GetBoard returns nil, nil when no board is stored under name.
func (s *BBoltStore) GetBoard(name string) (*BoardRecord, error) {
	var out *BoardRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boardsBucket).Get([]byte(name))
		if v == nil {
			return nil
		}
		var rec BoardRecord
		if e := json.Unmarshal(v, &rec); e != nil {
			return e
		}
		out = &rec
		return nil
	})
	return out, err
}

// ListBoards returns all stored boards ordered by name.
func (s *BBoltStore) ListBoards() ([]BoardRecord, error) {
	var out []BoardRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(boardsBucket).ForEach(func(_, v []byte) error {
			var rec BoardRecord
			if e := json.Unmarshal(v, &rec); e != nil {
				return e
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// AppendLog stores entry under a time ordered UUIDv7 key.
func (s *BBoltStore) AppendLog(entry *LogEntry) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("log id: %w", err)
	}
	entry.ID = id.String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(logsBucket), id[:], entry)
	})
}

// RecentLogs returns up to limit entries, newest first. limit <= 0 means all.
func (s *BBoltStore) RecentLogs(limit int) ([]LogEntry, error) {
	var out []LogEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(logsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var e LogEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func putJSON(b *bolt.Bucket, k []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(k, data)
}
