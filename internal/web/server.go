package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/censusindia/wikimatch/internal/engine"
)

// Server serves the enrichment status dashboard and its JSON API.
type Server struct {
	db         *sql.DB
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates the dashboard server on the given listen address.
func NewServer(database *sql.DB, addr string) *Server {
	s := &Server{db: database}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/records/{kind}", s.handleRecords).Methods("GET")

	s.router.HandleFunc("/", s.handleDashboard).Methods("GET")
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}
	fmt.Println("Server stopped")
	return nil
}

// handleDashboard renders the HTML status report.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := engine.BuildReport(r.Context(), s.db)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderHTML(w); err != nil {
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}
