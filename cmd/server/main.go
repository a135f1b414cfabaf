/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the per-diem expense engine server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Open the SQLite dataset cache
  3. Build the rate gateway, resolver, and engine
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -proxy      Rate-source proxy base URL (required)
  -api-key    API key sent to the proxy
  -cache-db   SQLite dataset cache path (default: perdiem.db)
              Use ":memory:" to disable persistence across restarts

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the dataset cache
  4. Exit

EXAMPLES:
  ./server -proxy=https://rates-proxy.internal -api-key=$RATES_KEY
  ./server -proxy=http://localhost:9000 -cache-db=":memory:" -port=3000
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voyage/perdiem-engine/api"
	"github.com/voyage/perdiem-engine/expense"
	"github.com/voyage/perdiem-engine/rates"
	"github.com/voyage/perdiem-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	proxyURL := flag.String("proxy", "", "rate-source proxy base URL")
	apiKey := flag.String("api-key", "", "API key for the rate-source proxy")
	cacheDB := flag.String("cache-db", "perdiem.db", "SQLite dataset cache path")
	flag.Parse()

	if *proxyURL == "" {
		log.Fatal("missing required -proxy flag")
	}

	// Dataset cache
	store, err := sqlite.New(*cacheDB)
	if err != nil {
		log.Fatalf("Failed to open dataset cache: %v", err)
	}
	defer store.Close()

	// Rate gateway and engine
	fetcher := rates.NewProxyFetcher(*proxyURL, *apiKey)
	gateway := rates.NewGateway(fetcher, rates.WithStore(store))
	resolver := expense.NewResolver(gateway)
	engine := expense.NewEngine(resolver)

	// HTTP surface
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Per-diem engine listening on http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
