// Command mock-tandoor serves an in-memory Tandoor stand-in for dry runs:
// point TANDOOR_URL at it and import any URL list without touching a real
// instance.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"tandoorimport/mocktandoor"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "listen address")
	token := flag.String("token", "", "required bearer token (empty disables the check)")
	burst := flag.Int("burst", 0, "requests allowed before throttling kicks in (0 disables)")
	every := flag.Duration("every", 30*time.Second, "token refill interval once throttling is on")
	seed := flag.String("seed", "", "comma-separated name=source_url pairs to preload")
	flag.Parse()

	gin.SetMode(gin.ReleaseMode)

	store := mocktandoor.NewStore()
	for _, pair := range strings.Split(*seed, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, src, _ := strings.Cut(pair, "=")
		store.Add(strings.TrimSpace(name), strings.TrimSpace(src), "")
	}

	opts := mocktandoor.Options{Token: *token}
	if *burst > 0 {
		opts.Throttle = rate.NewLimiter(rate.Every(*every), *burst)
	}
	srv := mocktandoor.New(store, opts)

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Router()}

	fmt.Printf("🍲 Mock Tandoor Server\n")
	fmt.Printf("   Listening:  http://localhost%s\n", *addr)
	fmt.Printf("   Recipes:    %d seeded\n", store.Len())
	if *token != "" {
		fmt.Printf("   Auth:       bearer token required\n")
	}
	if opts.Throttle != nil {
		fmt.Printf("   Throttle:   %d requests, +1 every %s\n", *burst, *every)
	}
	fmt.Println("\nPress Ctrl+C to shutdown")

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Server stopped")
}
