package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mathpath/backend/internal/auth"
	"github.com/mathpath/backend/internal/content"
	"github.com/mathpath/backend/internal/database"
	"github.com/mathpath/backend/internal/gamification"
	"github.com/mathpath/backend/internal/generator"
	"github.com/mathpath/backend/internal/middleware"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	gamifyService := gamification.NewService(gamification.NewStore(db))
	contentStore := content.NewStore(db)
	contentService := content.NewService(contentStore, gamifyService, generator.NewGenerator())

	if err := content.Seed(contentStore); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	gamifyHandler := gamification.NewHandler(gamifyService)
	contentHandler := content.NewHandler(contentService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/gamification/xp", gamifyHandler.GetXP).Methods("GET")
	protected.HandleFunc("/gamification/xp/history", gamifyHandler.GetXPHistory).Methods("GET")
	protected.HandleFunc("/gamification/streak", gamifyHandler.GetStreak).Methods("GET")
	protected.HandleFunc("/gamification/achievements", gamifyHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/gamification/checkin", gamifyHandler.Checkin).Methods("POST")

	protected.HandleFunc("/disciplines", contentHandler.ListDisciplines).Methods("GET")
	protected.HandleFunc("/disciplines/{slug}/modules", contentHandler.ListModules).Methods("GET")
	protected.HandleFunc("/modules/{id:[0-9]+}/lessons", contentHandler.ListLessons).Methods("GET")
	protected.HandleFunc("/lessons/{id:[0-9]+}", contentHandler.GetLesson).Methods("GET")
	protected.HandleFunc("/lessons/{id:[0-9]+}/complete", contentHandler.CompleteLesson).Methods("POST")
	protected.HandleFunc("/exercises/{id:[0-9]+}/attempt", contentHandler.SubmitAttempt).Methods("POST")

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(db))
	admin.HandleFunc("/users/{id:[0-9]+}/progress", gamifyHandler.ResetProgress).Methods("DELETE")
	admin.HandleFunc("/drafts/generate", contentHandler.GenerateDrafts).Methods("POST")
	admin.HandleFunc("/drafts", contentHandler.ListDrafts).Methods("GET")
	admin.HandleFunc("/drafts/{id:[0-9]+}/review", contentHandler.ReviewDraft).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
