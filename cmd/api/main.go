package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"campusfound/internal/adapter/api"
	"campusfound/internal/adapter/api/handler"
	apimiddleware "campusfound/internal/adapter/api/middleware"
	"campusfound/internal/adapter/api/router"
	"campusfound/internal/adapter/repository"
	"campusfound/internal/infrastructure/ratelimit"
	"campusfound/internal/infrastructure/storage"
	"campusfound/internal/infrastructure/viewcache"
	"campusfound/internal/infrastructure/websocket"
	"campusfound/internal/usecase"
	"campusfound/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development); otherwise application default credentials.
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		serviceAccountPath = ""
	} else if serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)

	viewCache := viewcache.New(time.Duration(cfg.DashboardCacheTTL) * time.Second)
	viewCache.StartCleanupRoutine()

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()

	wsManager := websocket.NewManager(usecase.Filter)
	wsManager.Start(ctx)

	itemUseCase := usecase.NewItemUseCase(itemRepo, storageClient, viewCache)
	dashboardUseCase := usecase.NewDashboardUseCase(itemRepo, viewCache)
	feedUseCase := usecase.NewFeedUseCase(itemRepo, wsManager)

	if err := feedUseCase.Start(ctx); err != nil {
		log.Fatalf("Failed to start live item feed: %v", err)
	}
	defer feedUseCase.Stop()

	handler.Setup(itemUseCase, dashboardUseCase, wsManager)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	router.Setup(e, rateLimitMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
