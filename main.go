package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fitness-progression-system/handlers"
	"fitness-progression-system/middleware"
	"fitness-progression-system/models"
	"fitness-progression-system/services"
	"fitness-progression-system/utils"
	"fitness-progression-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — icon uploads and CSV imports only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Session-Token, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProgress{},
		&models.XPEvent{},
		&models.XPDailyTotal{},
		&models.AchievementRecord{},
		&models.Exercise{},
		&models.ExerciseSet{},
		&models.Task{},
		&models.Meal{},
		&models.WeightEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	// Build the achievement catalog once; a bad definition kills the
	// process here instead of a request later.
	catalog, err := services.LoadCatalog(db)
	if err != nil {
		log.Fatal("failed to load achievement catalog:", err)
	}

	repo := services.NewGormProgressRepository(db)
	engine := services.NewProgressionEngine(repo, catalog)
	ledgerService := services.NewLedgerService(db)
	taskService := services.NewTaskService(db, engine)
	workoutService := services.NewWorkoutService(db, engine)
	nutritionService := services.NewNutritionService(db, engine)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("FITNESS_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("FITNESS_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	streakWorker := workers.NewStreakWorker(db, taskService, engine)
	go workers.PollStreaks(ctx, streakWorker, 10*time.Minute)

	ledgerService.StartRollupScheduler()

	handlers.SetupProgressionRoutes(app, engine, ledgerService, authClient)
	handlers.SetupActivityRoutes(app, taskService, workoutService, nutritionService)
	handlers.SetupAdminRoutes(app, db)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Printf("✅ Achievement catalog loaded (%d definitions)", catalog.Len())
	log.Println("✅ Streak worker running (every 10m)")
	log.Println("✅ Ledger rollup scheduler running (hourly)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come through Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
