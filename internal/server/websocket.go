package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vj7harsh/SmallWorld/internal/relay"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebsocket upgrades the connection and pumps inbound frames into the
// relay until the peer goes away. Disconnect is the only way out of the loop;
// the relay turns it into a leave for whatever room the connection was in.
func HandleWebsocket(r *relay.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("WS upgrade error:", err)
			return
		}

		client := relay.NewClient(conn)
		r.Register(client)
		go client.WritePump()

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				r.Unregister(client)
				break
			}
			if msgType == websocket.TextMessage {
				r.Dispatch(client, msg)
			}
		}
	}
}
