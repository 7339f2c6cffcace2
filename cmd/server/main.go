package main

import (
	"log"
	"net/http"
	"os"

	"blackjack-game/internal/database"
	"blackjack-game/internal/server"
)

func main() {
	log.Println("Starting Blackjack server...")

	db := database.New()
	defer db.Close()

	hub := server.NewHub(&db)
	go hub.Run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir("web/static"))
	http.Handle("/", fs)

	server.HandleRoutes(&db)

	addr := os.Getenv("BLACKJACK_LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Fatal(http.ListenAndServe(addr, nil))
}
