package room

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"time"
)

// Snapshot layout on disk: one JSON document mapping room id to room state,
// rewritten wholesale on every flush. No versioning.

// NewStoreFromFile loads a snapshot written by a previous run. A missing or
// unreadable file just yields an empty store; the file is best-effort state,
// not a system of record.
func NewStoreFromFile(path string) *Store {
	s := NewStore()

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to load %s: %v", path, err)
		}
		return s
	}

	var rooms map[string]*Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		log.Printf("Failed to parse %s, starting empty: %v", path, err)
		return s
	}
	for id, r := range rooms {
		if r == nil {
			continue
		}
		if r.Players == nil {
			r.Players = []Player{}
		}
		s.rooms[id] = r
	}
	log.Printf("Loaded %d room(s) from %s", len(s.rooms), path)
	return s
}

// snapshot marshals the full store under the read lock.
func (s *Store) snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.rooms, "", "  ")
}

// takeIfQuiet reports whether an unflushed mutation has outlived the debounce
// window as of now, clearing the pending flag when it has.
func (s *Store) takeIfQuiet(now time.Time, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty || now.Sub(s.lastChange) < window {
		return false
	}
	s.dirty = false
	return true
}

// markDirty re-arms the pending flush, used after a failed write so the next
// tick retries.
func (s *Store) markDirty() {
	s.mu.Lock()
	s.markChanged()
	s.mu.Unlock()
}

// Persister rewrites the snapshot file once mutations have gone quiet for the
// debounce window. A single loop does the checking and the writing, so at
// most one write is ever in flight.
type Persister struct {
	store  *Store
	path   string
	window time.Duration
}

func NewPersister(store *Store, path string, window time.Duration) *Persister {
	if window <= 0 {
		window = 100 * time.Millisecond
	}
	return &Persister{store: store, path: path, window: window}
}

// Run blocks until stop closes, flushing whenever the store has been dirty
// and quiet for the debounce window. A final flush runs on shutdown if
// anything is still pending.
func (p *Persister) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(p.window)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if p.store.takeIfQuiet(now, p.window) {
				p.flush()
			}
		case <-stop:
			if p.store.takeIfQuiet(time.Now(), 0) {
				p.flush()
			}
			return
		}
	}
}

func (p *Persister) flush() {
	data, err := p.store.snapshot()
	if err != nil {
		log.Printf("Snapshot marshal error: %v", err)
		return
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		log.Printf("Failed to write %s: %v", p.path, err)
		p.store.markDirty()
	}
}
