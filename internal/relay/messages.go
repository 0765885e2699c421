package relay

import (
	"encoding/json"
	"log"

	"github.com/vj7harsh/SmallWorld/internal/room"
)

type joinMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type setConfigMessage struct {
	Type       string          `json:"type"`
	RoomID     string          `json:"roomId"`
	PlayerName string          `json:"playerName"`
	Map        json.RawMessage `json:"map"`
}

type setRaceMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Race       string `json:"race"`
}

type startMessage struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type stateMessage struct {
	Type    string          `json:"type"`
	Players []room.Player   `json:"players"`
	Host    string          `json:"host,omitempty"`
	Map     json.RawMessage `json:"map,omitempty"`
	Started bool            `json:"started"`
}

// handleMessage decodes one inbound frame and applies it. Anything malformed
// (bad JSON, missing fields, unknown type) is dropped without closing the
// connection; rejected mutations (non-host, unknown room) stay silent too, so
// nothing is ever echoed back on failure.
func (r *Relay) handleMessage(c *Client, data []byte) {
	var base map[string]interface{}
	if err := json.Unmarshal(data, &base); err != nil {
		log.Printf("Client %s JSON parse error: %v", c.id, err)
		return
	}
	kind, ok := base["type"].(string)
	if !ok {
		return
	}

	switch kind {
	case "join":
		var msg joinMessage
		json.Unmarshal(data, &msg)
		if msg.RoomID == "" || msg.PlayerName == "" {
			return
		}
		r.store.Join(msg.RoomID, msg.PlayerName)
		r.clients[c] = session{roomID: msg.RoomID, player: msg.PlayerName}
		// broadcast even on idempotent re-join: the new connection still
		// needs the current state
		r.broadcastState(msg.RoomID)

	case "set_config":
		var msg setConfigMessage
		json.Unmarshal(data, &msg)
		if msg.RoomID == "" || msg.PlayerName == "" {
			return
		}
		if r.store.SetMap(msg.RoomID, msg.PlayerName, msg.Map) {
			r.broadcastState(msg.RoomID)
		}

	case "set_race":
		var msg setRaceMessage
		json.Unmarshal(data, &msg)
		if msg.RoomID == "" || msg.PlayerName == "" {
			return
		}
		if r.store.SetRace(msg.RoomID, msg.PlayerName, msg.Race) {
			r.broadcastState(msg.RoomID)
		}

	case "start":
		var msg startMessage
		json.Unmarshal(data, &msg)
		if msg.RoomID == "" || msg.PlayerName == "" {
			return
		}
		if r.store.Start(msg.RoomID, msg.PlayerName) {
			r.broadcastState(msg.RoomID)
		}
	}
}
