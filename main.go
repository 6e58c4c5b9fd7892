package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lanyard/auth"
	"lanyard/badge"
	"lanyard/db"
	"lanyard/ingest"
	"lanyard/match"
	"lanyard/meetings"
	"lanyard/mq"
	"lanyard/notify"
	"lanyard/ratelim"
	"lanyard/routes"
	"lanyard/scan"
	"lanyard/scanfeed"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := envOr("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	ctx := context.Background()
	colls, err := db.Connect(ctx, envOr("MONGODB_URI", "mongodb://localhost:27017"), envOr("MONGO_DB", "lanyard"))
	if err != nil {
		log.Fatalf("❌ MongoDB connect failed: %v", err)
	}

	redisConn := redis.NewClient(&redis.Options{Addr: envOr("REDIS_ADDR", "localhost:6379")})

	// stores
	attendees := db.NewMongoAttendees(colls)
	actors := db.NewMongoActors(colls)
	scans := db.NewMongoScans(colls)
	meetingStore := db.NewMongoMeetings(colls)
	uploads := db.NewMongoUploads(colls)
	users := db.NewMongoUsers(colls)

	// live scan feed
	hub := scanfeed.NewHub()
	go hub.Run()

	// services, wired explicitly
	pipeline := ingest.NewPipeline(attendees, actors, uploads, ingest.CSVParser{})
	processor := scan.NewProcessor(attendees, actors, scans, mq.NewRedisQueue(redisConn))
	processor.Feed = hub
	scheduler := meetings.NewScheduler(meetingStore, attendees, actors, match.NewRedisScores(redisConn), notify.LogSender{})
	authSvc := auth.NewService(users)
	printer := badge.NewPrinter(attendees)

	rateLimiter := ratelim.NewRateLimiter()

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddAuthRoutes(router, authSvc)
	routes.AddIngestRoutes(router, pipeline)
	routes.AddScanRoutes(router, processor, rateLimiter)
	routes.AddMeetingRoutes(router, scheduler)
	routes.AddBadgeRoutes(router, printer)
	routes.AddScanFeedRoutes(router, hub)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing scan feed...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := colls.Client.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
	_ = redisConn.Close()

	log.Println("✅ Server stopped cleanly")
}
