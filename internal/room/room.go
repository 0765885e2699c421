package room

import (
	"encoding/json"
	"sync"
	"time"
)

// Player is a room member. Name doubles as identity, there is no auth.
type Player struct {
	Name string `json:"name"`
	Race string `json:"race,omitempty"`
}

// Room is the shared lobby state for one game.
type Room struct {
	Players []Player        `json:"players"`
	Host    string          `json:"host,omitempty"`
	Map     json.RawMessage `json:"map,omitempty"`
	Started bool            `json:"started"`
}

// Store holds every room in memory. Rooms are created on first join and kept
// forever, even after the last player leaves.
type Store struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	dirty      bool
	lastChange time.Time
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

func (s *Store) markChanged() {
	s.dirty = true
	s.lastChange = time.Now()
}

// GetOrCreate returns the room for id, inserting an empty one if needed.
// At most one record ever exists per id.
func (s *Store) GetOrCreate(roomID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(roomID)
}

func (s *Store) getOrCreateLocked(roomID string) *Room {
	if r, ok := s.rooms[roomID]; ok {
		return r
	}
	r := &Room{Players: []Player{}}
	s.rooms[roomID] = r
	return r
}

// Join adds the player to the room, creating the room if it doesn't exist yet.
// Joining twice with the same name is a no-op on the player list. A hostless
// room adopts the joiner as host. Returns whether visible state changed.
func (s *Store) Join(roomID, playerName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.rooms[roomID]
	r := s.getOrCreateLocked(roomID)
	changed := !existed

	present := false
	for _, p := range r.Players {
		if p.Name == playerName {
			present = true
			break
		}
	}
	if !present {
		r.Players = append(r.Players, Player{Name: playerName})
		changed = true
	}
	if r.Host == "" {
		r.Host = playerName
		changed = true
	}

	if changed {
		s.markChanged()
	}
	return changed
}

// SetMap stores the map config verbatim. Only the host may set it; anyone
// else is silently ignored.
func (s *Store) SetMap(roomID, requester string, m json.RawMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok || r.Host != requester {
		return false
	}
	r.Map = m
	s.markChanged()
	return true
}

// SetRace sets the player's race label. Ignored if the player isn't in the room.
func (s *Store) SetRace(roomID, playerName, race string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}
	for i := range r.Players {
		if r.Players[i].Name == playerName {
			r.Players[i].Race = race
			s.markChanged()
			return true
		}
	}
	return false
}

// Start flips the room to started. Host only, and one-way: once started a
// room never unstarts.
func (s *Store) Start(roomID, requester string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok || r.Host != requester || r.Started {
		return false
	}
	r.Started = true
	s.markChanged()
	return true
}

// Leave removes the player. If the host leaves, the earliest still-present
// joiner becomes host; the player list is kept in join order so that is just
// the first remaining element. The room record survives even when empty.
func (s *Store) Leave(roomID, playerName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return false
	}

	idx := -1
	for i, p := range r.Players {
		if p.Name == playerName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.Host == playerName {
		if len(r.Players) > 0 {
			r.Host = r.Players[0].Name
		} else {
			r.Host = ""
		}
	}

	s.markChanged()
	return true
}

// State returns a copy of the room safe to marshal outside the lock.
func (s *Store) State(roomID string) (Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return Room{}, false
	}
	out := Room{
		Players: make([]Player, len(r.Players)),
		Host:    r.Host,
		Map:     r.Map,
		Started: r.Started,
	}
	copy(out.Players, r.Players)
	return out, true
}
