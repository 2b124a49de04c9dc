package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"moodiary/internal/logging"
	"moodiary/internal/service"
	"moodiary/internal/transport/rest/handler"
	"moodiary/internal/transport/rest/middleware"
	"moodiary/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	UserService       *service.UserService
	FriendService     *service.FriendService
	DiaryService      *service.DiaryService
	AssessmentService *service.AssessmentService
	WSHub             *ws.Hub
	Location          *time.Location
	CORSOrigins       string
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	origins := splitOrigins(c.CORSOrigins)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.Logger)
	userHandler := handler.NewUserHandler(c.UserService, c.Logger)
	friendHandler := handler.NewFriendHandler(c.FriendService, c.Logger)
	diaryHandler := handler.NewDiaryHandler(c.DiaryService, c.Location, c.Logger)
	assessmentHandler := handler.NewAssessmentHandler(c.AssessmentService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, origins, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(origins))
	r.Use(logging.Middleware(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/feed", wsHandler.FeedWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// User routes (require user auth)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/me", userHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/me", userHandler.UpdateMe).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/users/{publicId}", userHandler.GetByPublicID).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/friends", friendHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/friends/requests", friendHandler.ListRequests).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/friends/requests", friendHandler.SendRequest).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/friends/requests/{requestId}/accept", friendHandler.Accept).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/friends/requests/{requestId}/reject", friendHandler.Reject).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/friends/{userId}", friendHandler.Remove).Methods("DELETE", "OPTIONS")

	userRoutes.HandleFunc("/diary", diaryHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/diary", diaryHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/diary/photos", diaryHandler.UploadPhoto).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/diary/stats", diaryHandler.Stats).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/diary/{entryId}", diaryHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/diary/{entryId}", diaryHandler.Update).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/diary/{entryId}", diaryHandler.Delete).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/feed", diaryHandler.Feed).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/assessments/questionnaire", assessmentHandler.Questionnaire).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/today", assessmentHandler.Today).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments", assessmentHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/assessments", assessmentHandler.History).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/assessments/{id}", assessmentHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func corsMiddleware(origins []string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := allowOrigin(origins, r.Header.Get("Origin")); origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if origin != "*" {
					w.Header().Add("Vary", "Origin")
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allowOrigin(origins []string, origin string) string {
	for _, o := range origins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}
