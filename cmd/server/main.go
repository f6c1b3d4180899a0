package main

import (
	"context"
	"log"
	"os"
	"time"

	"grievancedesk-backend/attachmentstore"
	"grievancedesk-backend/classifier"
	"grievancedesk-backend/handlers"
	"grievancedesk-backend/notifier"
	"grievancedesk-backend/repository"
	"grievancedesk-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	// Initialize repositories. Without DATABASE_URL the server runs
	// storeless: records live in memory and the login route is absent.
	var grievanceRepo repository.GrievanceRepository
	var adminRepo repository.AdminRepository
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("Warning: DATABASE_URL not set, records are kept in memory and lost on restart")
		grievanceRepo = repository.NewMemoryGrievanceRepository()
	} else {
		db, err := initPostgres()
		if err != nil {
			log.Fatal("Failed to initialize Postgres:", err)
		}
		defer db.Close()

		grievanceRepo = repository.NewPostgresGrievanceRepository(db)
		adminRepo = repository.NewPostgresAdminRepository(db)
	}

	// Initialize attachment storage (nil means attachments stay inline)
	attachmentStorage, err := attachmentstore.NewStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}
	if attachmentStorage != nil {
		log.Println("Attachment storage initialized")
	}

	// Initialize classifier: Gemini first choice when configured,
	// rule-based analysis always available as the fallback
	complaintClassifier := initClassifier()

	// Initialize notifier
	statusNotifier := notifier.NewNotifierFromEnv()

	// Initialize services
	grievanceService := service.NewGrievanceService(
		service.WithRepository(grievanceRepo),
		service.WithClassifier(complaintClassifier),
		service.WithNotifier(statusNotifier),
		service.WithAttachmentStorage(attachmentStorage),
	)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-change-me"
		log.Println("Warning: JWT_SECRET not set, using insecure development secret")
	}

	// Initialize handlers
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService)
	var authHandler *handlers.AuthHandler
	if adminRepo != nil {
		authHandler = handlers.NewAuthHandler(adminRepo, []byte(jwtSecret))
	}

	// Setup Gin router
	r := gin.Default()
	handlers.RegisterRoutes(r, grievanceHandler, authHandler, handlers.RequireAdmin([]byte(jwtSecret)))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initPostgres() (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Postgres connection established")
	return pool, nil
}

func initClassifier() classifier.Classifier {
	timeout := classifier.DefaultTimeout
	if raw := os.Getenv("CLASSIFIER_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("Warning: invalid CLASSIFIER_TIMEOUT %q, using default", raw)
		} else {
			timeout = parsed
		}
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, using rule-based analysis only")
		return classifier.NewFallback(nil, timeout)
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		log.Printf("Warning: failed to initialize Gemini client, using rule-based analysis only: %v", err)
		return classifier.NewFallback(nil, timeout)
	}

	log.Println("Gemini client initialized")
	return classifier.NewFallback(classifier.NewGemini(client, os.Getenv("GEMINI_MODEL")), timeout)
}
