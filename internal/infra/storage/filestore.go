// Package storage implements the JSON-file lead store. One flat file, read
// and rewritten whole on every mutation. Fine at landing-page scale; the
// Postgres store in infra/database is the drop-in upgrade past that.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dealcrafter/dealcrafter-backend/internal/entity"
)

// FileStore persists leads as a pretty-printed JSON array, the same layout
// the admin dashboard reads. All mutations are serialized behind a single
// mutex: unsynchronized read-modify-write of a shared file loses updates as
// soon as two callers overlap, so the lock is not optional.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Upsert(ctx context.Context, email, source string, now time.Time) (*entity.Lead, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.read()
	if err != nil {
		return nil, false, err
	}

	for _, lead := range leads {
		if lead.Email == email {
			lead.Touch(source, now)
			if err := s.write(leads); err != nil {
				return nil, false, err
			}
			return copyLead(lead), false, nil
		}
	}

	lead, err := entity.NewLead(email, source, now)
	if err != nil {
		return nil, false, err
	}

	leads = append(leads, lead)
	if err := s.write(leads); err != nil {
		return nil, false, err
	}
	return copyLead(lead), true, nil
}

func (s *FileStore) Get(ctx context.Context, email string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.read()
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		if lead.Email == email {
			return copyLead(lead), nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (s *FileStore) MarkPaid(ctx context.Context, email string, now time.Time) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.read()
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		if lead.Email == email {
			lead.MarkPaid(now)
			if err := s.write(leads); err != nil {
				return nil, err
			}
			return copyLead(lead), nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (s *FileStore) RecordSent(ctx context.Context, email string, key entity.SequenceKey, now time.Time) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.read()
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		if lead.Email == email {
			// Flag already set: a concurrent dispatcher won the race.
			// Return the record untouched instead of re-stamping it.
			if lead.Sequence.Sent(key) {
				return copyLead(lead), nil
			}
			lead.Sequence.MarkSent(key, now)
			lead.LastUpdated = &now
			if err := s.write(leads); err != nil {
				return nil, err
			}
			return copyLead(lead), nil
		}
	}
	return nil, entity.ErrLeadNotFound
}

func (s *FileStore) All(ctx context.Context) ([]*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Lead, len(leads))
	for i, lead := range leads {
		out[i] = copyLead(lead)
	}
	return out, nil
}

// read loads the whole file. A missing file is an empty store, not an
// error; the first signup creates it.
func (s *FileStore) read() ([]*entity.Lead, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*entity.Lead{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var leads []*entity.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return leads, nil
}

// write replaces the file via temp-file + rename so a crash mid-write
// never leaves a truncated store behind.
func (s *FileStore) write(leads []*entity.Lead) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal leads: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// copyLead hands callers their own copy so mutations outside the lock
// cannot leak into the store's in-flight slice.
func copyLead(l *entity.Lead) *entity.Lead {
	c := *l
	return &c
}
