package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formflow/internal/config"
	"formflow/internal/service"
	"formflow/internal/transport/rest/handler"
	"formflow/internal/transport/rest/middleware"
	"formflow/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	FormService *service.FormService
	FillService *service.FillService
	WSHub       *ws.Hub
	CORS        config.CORSConfig
	Logger      *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService, c.FillService, c.Logger)
	fillHandler := handler.NewFillHandler(c.FillService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORS))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/forms/{formId}", wsHandler.FormWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Respondent routes (any authenticated user)
	fillRoutes := v1.NewRoute().Subrouter()
	fillRoutes.Use(authMW.RequireUser)

	fillRoutes.HandleFunc("/forms/{formId}/sessions", fillHandler.Start).Methods("POST", "OPTIONS")
	fillRoutes.HandleFunc("/sessions/{sessionId}", fillHandler.Get).Methods("GET", "OPTIONS")
	fillRoutes.HandleFunc("/sessions/{sessionId}", fillHandler.Abandon).Methods("DELETE", "OPTIONS")
	fillRoutes.HandleFunc("/sessions/{sessionId}/answers/{ordinal:[0-9]+}", fillHandler.Answer).Methods("PUT", "OPTIONS")
	fillRoutes.HandleFunc("/sessions/{sessionId}/submit", fillHandler.Submit).Methods("POST", "OPTIONS")

	// Author routes (require author role)
	authorRoutes := v1.NewRoute().Subrouter()
	authorRoutes.Use(authMW.RequireAuthor)

	authorRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/questions", formHandler.AddQuestion).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/questions/{ordinal:[0-9]+}", formHandler.UpdateQuestion).Methods("PUT", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/questions/{ordinal:[0-9]+}", formHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/questions/{ordinal:[0-9]+}/move", formHandler.MoveQuestion).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/publish", formHandler.Publish).Methods("POST", "OPTIONS")
	authorRoutes.HandleFunc("/forms/{formId}/submissions", formHandler.Submissions).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.CORSConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
