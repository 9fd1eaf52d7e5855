package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"herd-health/internal/router"
)

func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	deps := router.NewRouter(router.Options{AuthVerifier: nil}) // sin verifier para modo dev
	if deps.Cron != nil {
		defer deps.Cron.Stop()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      deps.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
