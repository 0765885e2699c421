package main

import (
	"log"
	"os"
	"time"

	"github.com/vj7harsh/SmallWorld/internal/relay"
	"github.com/vj7harsh/SmallWorld/internal/room"
	"github.com/vj7harsh/SmallWorld/internal/server"
)

const (
	roomsFile     = "rooms.json"
	flushDebounce = 100 * time.Millisecond
)

func main() {
	log.Println("=== STARTING SMALLWORLD SERVER ===")

	store := room.NewStoreFromFile(roomsFile)

	persister := room.NewPersister(store, roomsFile, flushDebounce)
	go persister.Run(nil)

	rly := relay.New(store)
	go rly.Run()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := server.SetupRouter(rly)
	log.Printf("Server starting at port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
