package main

import (
	"context"
	"log"

	"spotted/internal/app/bootstrap"
)

// Bot process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start the webhook HTTP server.
func main() {
	log.Println("spotted bot starting")
	app, err := bootstrap.BuildBot()
	if err != nil {
		log.Fatalf("bootstrap bot failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("bot shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("spotted bot stopped with error: %v", err)
	}
}
