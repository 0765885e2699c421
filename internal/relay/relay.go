package relay

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vj7harsh/SmallWorld/internal/room"
)

const sendBufferSize = 16

// Client is one websocket connection known to the relay. Outbound messages go
// through a buffered channel drained by WritePump so a slow peer never blocks
// the relay loop.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// WritePump drains the send channel onto the wire. It keeps draining after a
// write error so broadcasts never back up; the read side notices the dead
// connection and unregisters. Closes the connection once the relay closes the
// channel.
func (c *Client) WritePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Client %s write error: %v", c.id, err)
		}
	}
	c.conn.Close()
}

// session is the relay's side-table entry: which room and player a connection
// currently speaks for. Empty until the client joins.
type session struct {
	roomID string
	player string
}

type inbound struct {
	client *Client
	data   []byte
}

// Relay owns the client set and performs every room mutation from a single
// loop, so no two mutations interleave.
type Relay struct {
	store      *room.Store
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	clients    map[*Client]session // touched only by Run
}

func New(store *room.Store) *Relay {
	return &Relay{
		store:      store,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		clients:    make(map[*Client]session),
	}
}

func (r *Relay) Register(c *Client) {
	r.register <- c
}

func (r *Relay) Unregister(c *Client) {
	r.unregister <- c
}

// Dispatch hands a raw inbound frame to the relay loop.
func (r *Relay) Dispatch(c *Client, data []byte) {
	r.inbound <- inbound{client: c, data: data}
}

// Run processes register/unregister/message events one at a time.
func (r *Relay) Run() {
	for {
		select {
		case c := <-r.register:
			r.clients[c] = session{}
			log.Printf("Client %s connected", c.id)

		case c := <-r.unregister:
			sess, ok := r.clients[c]
			if !ok {
				continue
			}
			delete(r.clients, c)
			close(c.send)
			log.Printf("Client %s disconnected", c.id)
			if sess.roomID != "" {
				r.store.Leave(sess.roomID, sess.player)
				r.broadcastState(sess.roomID)
			}

		case msg := <-r.inbound:
			if _, ok := r.clients[msg.client]; ok {
				r.handleMessage(msg.client, msg.data)
			}
		}
	}
}

// broadcastState fans the room's current state out to every connection in the
// room. Sends are fire-and-forget: a client with a full buffer misses this
// update and catches up on the next one.
func (r *Relay) broadcastState(roomID string) {
	st, ok := r.store.State(roomID)
	if !ok {
		return
	}

	data, err := json.Marshal(stateMessage{
		Type:    "state",
		Players: st.Players,
		Host:    st.Host,
		Map:     st.Map,
		Started: st.Started,
	})
	if err != nil {
		log.Printf("State marshal error: %v", err)
		return
	}

	for c, sess := range r.clients {
		if sess.roomID != roomID {
			continue
		}
		select {
		case c.send <- data:
		default:
			log.Printf("Client %s send buffer full, dropping state update", c.id)
		}
	}
}
